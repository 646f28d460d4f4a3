package ignore

import (
	"sort"
	"strings"

	"github.com/mpyw/transactionexit/internal/syntax"
)

const directive = "transactionexit:ignore"

// Entry tracks an ignore directive and its usage.
type Entry struct {
	span   syntax.Span     // Position of the ignore comment
	labels []string        // Statement labels (empty = all)
	used   map[string]bool // Usage per label
}

// Map tracks ignore entries by line number.
type Map map[int]*Entry

// Build collects ignore directives from comments.
func Build(comments []syntax.Comment) Map {
	m := make(Map)

	for _, c := range comments {
		if labels, ok := parseComment(c.Text); ok {
			m[c.Span.Start.Line] = &Entry{
				span:   c.Span,
				labels: labels,
				used:   make(map[string]bool),
			}
		}
	}

	return m
}

// parseComment parses an ignore directive and returns the statement labels.
// Returns nil slice if no labels are listed (ignore all).
// Returns false if text is not an ignore directive.
func parseComment(text string) ([]string, bool) {
	text = strings.TrimLeft(text, "#")
	text = strings.TrimSpace(text)

	rest, ok := strings.CutPrefix(text, directive)
	if !ok {
		return nil, false
	}
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return nil, false // e.g. "transactionexit:ignored"
	}

	if idx := strings.Index(rest, " - "); idx >= 0 {
		rest = rest[:idx]
	}
	if idx := strings.Index(rest, " #"); idx >= 0 {
		rest = rest[:idx]
	}
	rest = strings.TrimSpace(rest)

	if strings.HasPrefix(rest, "- ") || rest == "-" || rest == "" {
		return nil, true
	}

	var labels []string
	for part := range strings.SplitSeq(rest, ",") {
		if label := strings.TrimSpace(part); label != "" {
			labels = append(labels, label)
		}
	}

	return labels, true
}

// ShouldIgnore reports whether an offense for label on line is suppressed by
// a directive on the same or the previous line, and marks it used.
func (m Map) ShouldIgnore(line int, label string) bool {
	return m.match(m[line], label) || m.match(m[line-1], label)
}

func (m Map) match(entry *Entry, label string) bool {
	if entry == nil {
		return false
	}

	if len(entry.labels) == 0 {
		entry.used[label] = true
		return true
	}

	for _, l := range entry.labels {
		if l == label {
			entry.used[label] = true
			return true
		}
	}

	return false
}

// UnusedIgnore is a directive, or part of one, that suppressed nothing.
type UnusedIgnore struct {
	Span   syntax.Span
	Labels []string // Unused labels (empty if the entire directive is unused)
}

// Unused returns unused directives ordered by position.
func (m Map) Unused() []UnusedIgnore {
	var unused []UnusedIgnore

	for _, entry := range m {
		if len(entry.labels) == 0 {
			if len(entry.used) == 0 {
				unused = append(unused, UnusedIgnore{Span: entry.span})
			}
			continue
		}

		var labels []string
		for _, l := range entry.labels {
			if !entry.used[l] {
				labels = append(labels, l)
			}
		}
		if len(labels) > 0 {
			unused = append(unused, UnusedIgnore{Span: entry.span, Labels: labels})
		}
	}

	sort.Slice(unused, func(i, j int) bool {
		return unused[i].Span.Start.Offset < unused[j].Span.Start.Offset
	})

	return unused
}
