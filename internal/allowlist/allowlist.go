package allowlist

import (
	"fmt"
	"slices"

	"github.com/dlclark/regexp2"

	"github.com/mpyw/transactionexit/internal/syntax"
)

// BuiltinMethods are recognized regardless of configuration.
var BuiltinMethods = []string{"transaction", "with_lock"}

// PatternError reports a pattern that failed to compile.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid allowed pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// AllowList is the set of transaction-opening method names.
type AllowList struct {
	exact    map[string]struct{}
	patterns []*regexp2.Regexp
}

// New builds an AllowList from exact names and regex patterns.
// Empty strings are skipped.
func New(methods, patterns []string) (*AllowList, error) {
	a := &AllowList{exact: make(map[string]struct{}, len(methods))}

	for _, m := range methods {
		if m != "" {
			a.exact[m] = struct{}{}
		}
	}

	for _, p := range patterns {
		if p == "" {
			continue
		}
		re, err := regexp2.Compile(p, regexp2.None)
		if err != nil {
			return nil, &PatternError{Pattern: p, Err: err}
		}
		a.patterns = append(a.patterns, re)
	}

	return a, nil
}

// IsTransactionMethod reports whether name opens a transactional scope.
func (a *AllowList) IsTransactionMethod(name string) bool {
	if slices.Contains(BuiltinMethods, name) {
		return true
	}
	if a == nil {
		return false
	}
	if _, ok := a.exact[name]; ok {
		return true
	}
	for _, re := range a.patterns {
		// Without a MatchTimeout the only error regexp2 returns is a timeout.
		if ok, err := re.MatchString(name); err == nil && ok {
			return true
		}
	}
	return false
}

// InTransactionBlock reports whether call is a transaction method that owns a
// block with a non-empty body.
func (a *AllowList) InTransactionBlock(t *syntax.Tree, call syntax.NodeID) bool {
	n := t.Node(call)
	if n.Kind != syntax.KindCall || !a.IsTransactionMethod(n.Method) {
		return false
	}

	parent := t.Parent(call)
	if parent == syntax.NoNode || t.BlockCall(parent) != call {
		return false
	}

	return t.HasBody(parent)
}

// Methods returns the configured exact names, sorted.
func (a *AllowList) Methods() []string {
	if a == nil {
		return nil
	}
	names := make([]string, 0, len(a.exact))
	for m := range a.exact {
		names = append(names, m)
	}
	slices.Sort(names)
	return names
}

// Patterns returns the configured pattern sources in configuration order.
func (a *AllowList) Patterns() []string {
	if a == nil {
		return nil
	}
	out := make([]string, len(a.patterns))
	for i, re := range a.patterns {
		out[i] = re.String()
	}
	return out
}
