package checker

import (
	"fmt"
	"strings"

	"github.com/mpyw/transactionexit/internal/allowlist"
	"github.com/mpyw/transactionexit/internal/directive/ignore"
	"github.com/mpyw/transactionexit/internal/exitstmt"
	"github.com/mpyw/transactionexit/internal/nesting"
	"github.com/mpyw/transactionexit/internal/syntax"
)

// Diagnostic categories.
const (
	CategoryExitStatement = "exit-statement"
	CategoryUnusedIgnore  = "unused-ignore"
)

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Path      string      `json:"path"`
	Span      syntax.Span `json:"span"`
	Category  string      `json:"category"`
	Statement string      `json:"statement,omitempty"`
	Message   string      `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", d.Path, d.Span.Start.Line, d.Span.Start.Column, d.Message)
}

// Checker applies the rule to syntax trees.
type Checker struct {
	allow        *allowlist.AllowList
	directives   bool
	reportUnused bool
}

// Option configures a Checker.
type Option func(*Checker)

// WithDirectives enables # transactionexit:ignore handling.
func WithDirectives(reportUnused bool) Option {
	return func(c *Checker) {
		c.directives = true
		c.reportUnused = reportUnused
	}
}

// New creates a Checker. A nil allow list recognizes the built-in methods only.
func New(allow *allowlist.AllowList, opts ...Option) *Checker {
	c := &Checker{allow: allow}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AllowList returns the allow list the checker matches against.
func (c *Checker) AllowList() *allowlist.AllowList {
	return c.allow
}

// Check returns the diagnostics for t in emission order.
func (c *Checker) Check(t *syntax.Tree) []Diagnostic {
	offenses := c.Offenses(t)
	if !c.directives {
		return offenses
	}

	ignores := ignore.Build(t.Comments())

	diags := make([]Diagnostic, 0, len(offenses))
	for _, d := range offenses {
		if ignores.ShouldIgnore(d.Span.Start.Line, d.Statement) {
			continue
		}
		diags = append(diags, d)
	}

	if c.reportUnused {
		for _, u := range ignores.Unused() {
			diags = append(diags, unusedDiagnostic(t.Path(), u))
		}
	}

	return diags
}

// Offenses runs the rule without directive handling.
func (c *Checker) Offenses(t *syntax.Tree) []Diagnostic {
	var diags []Diagnostic
	seen := make(map[syntax.Span]struct{})

	for id := range t.Preorder(t.Root()) {
		if t.Kind(id) != syntax.KindCall || !c.allow.InTransactionBlock(t, id) {
			continue
		}

		body := t.BlockBody(t.Parent(id))
		for _, stmt := range exitstmt.Scan(t, body) {
			n := t.Node(stmt)
			if n.Kind == syntax.KindBreak && nesting.IsLegitimatelyNested(t, stmt, c.allow) {
				continue
			}
			if _, dup := seen[n.Span]; dup {
				continue
			}
			seen[n.Span] = struct{}{}

			label := exitstmt.Label(n)
			diags = append(diags, Diagnostic{
				Path:      t.Path(),
				Span:      n.Span,
				Category:  CategoryExitStatement,
				Statement: label,
				Message:   exitstmt.Message(label),
			})
		}
	}

	return diags
}

func unusedDiagnostic(path string, u ignore.UnusedIgnore) Diagnostic {
	msg := "unused transactionexit:ignore directive"
	if len(u.Labels) > 0 {
		msg = fmt.Sprintf("unused transactionexit:ignore directive for statement(s): %s", strings.Join(u.Labels, ", "))
	}
	return Diagnostic{
		Path:     path,
		Span:     u.Span,
		Category: CategoryUnusedIgnore,
		Message:  msg,
	}
}
