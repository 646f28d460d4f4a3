// Package rubytest runs a check over Ruby fixtures and compares the results
// with expectations written in the fixtures themselves.
//
// A fixture line expects diagnostics through a trailing comment:
//
//	return if done # want "Exit statement .return."
//	# transactionexit:ignore # want `unused transactionexit:ignore directive`
//
// Each quoted string is a regular expression that must match the message of
// one diagnostic reported on that line. Diagnostics without a matching
// expectation and expectations without a matching diagnostic are errors.
package rubytest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/mpyw/transactionexit/internal/checker"
	"github.com/mpyw/transactionexit/internal/config"
	"github.com/mpyw/transactionexit/internal/rubyparse"
	"github.com/mpyw/transactionexit/internal/syntax"
)

// Testing is the subset of *testing.T used by Run.
type Testing interface {
	Errorf(format string, args ...any)
}

// CheckFunc produces the diagnostics for one parsed file.
type CheckFunc func(t *syntax.Tree) ([]checker.Diagnostic, error)

// TestData returns the absolute path of the testdata directory of the
// package under test.
func TestData() string {
	dir, err := filepath.Abs("testdata")
	if err != nil {
		panic(err)
	}
	return dir
}

type expectation struct {
	rx      *regexp.Regexp
	matched bool
}

// Run checks every Ruby file under dir/src/<case> for each case.
func Run(t Testing, dir string, check CheckFunc, cases ...string) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}

	for _, c := range cases {
		files, err := fixtures(filepath.Join(dir, "src", c))
		if err != nil {
			t.Errorf("%s: %v", c, err)
			continue
		}
		if len(files) == 0 {
			t.Errorf("%s: no Ruby files", c)
			continue
		}
		for _, path := range files {
			runFile(t, path, check)
		}
	}
}

func fixtures(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && config.IsRuby(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}

func runFile(t Testing, path string, check CheckFunc) {
	f, err := rubyparse.ParseFile(context.Background(), path)
	if err != nil {
		t.Errorf("%v", err)
		return
	}
	if len(f.Errors) > 0 {
		t.Errorf("%s:%s: syntax error in fixture", path, f.Errors[0])
		return
	}

	want := make(map[int][]*expectation)
	for _, c := range f.Tree.Comments() {
		rxs, err := parseWant(c.Text)
		if err != nil {
			t.Errorf("%s:%d: %v", path, c.Span.Start.Line, err)
			continue
		}
		for _, rx := range rxs {
			want[c.Span.Start.Line] = append(want[c.Span.Start.Line], &expectation{rx: rx})
		}
	}

	diags, err := check(f.Tree)
	if err != nil {
		t.Errorf("%s: check failed: %v", path, err)
		return
	}

	for _, d := range diags {
		line := d.Span.Start.Line
		if !claim(want[line], d.Message) {
			t.Errorf("%s:%d: unexpected diagnostic: %s", path, line, d.Message)
		}
	}

	lines := make([]int, 0, len(want))
	for line := range want {
		lines = append(lines, line)
	}
	slices.Sort(lines)
	for _, line := range lines {
		for _, e := range want[line] {
			if !e.matched {
				t.Errorf("%s:%d: no diagnostic was reported matching %#q", path, line, e.rx)
			}
		}
	}
}

func claim(exps []*expectation, msg string) bool {
	for _, e := range exps {
		if !e.matched && e.rx.MatchString(msg) {
			e.matched = true
			return true
		}
	}
	return false
}

// parseWant extracts the expectations of a comment. A comment without a
// want clause yields nothing.
func parseWant(text string) ([]*regexp.Regexp, error) {
	rest, ok := wantClause(text)
	if !ok {
		return nil, nil
	}

	var rxs []*regexp.Regexp
	for {
		rest = strings.TrimSpace(rest)
		if rest == "" {
			break
		}
		quoted, err := strconv.QuotedPrefix(rest)
		if err != nil {
			return nil, fmt.Errorf("malformed want clause %q", rest)
		}
		rest = rest[len(quoted):]

		pattern, err := strconv.Unquote(quoted)
		if err != nil {
			return nil, err
		}
		rx, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid want pattern: %w", err)
		}
		rxs = append(rxs, rx)
	}
	if len(rxs) == 0 {
		return nil, fmt.Errorf("want clause without expectations")
	}
	return rxs, nil
}

// wantClause finds "# want" in text and returns what follows it.
func wantClause(text string) (string, bool) {
	for i := 0; i < len(text); i++ {
		if text[i] != '#' {
			continue
		}
		after := strings.TrimLeft(text[i+1:], " \t")
		if rest, ok := strings.CutPrefix(after, "want"); ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
			return rest, true
		}
	}
	return "", false
}
