package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/mpyw/transactionexit/internal/checker"
)

// TextReporter generates human-readable text reports
type TextReporter struct {
	writer io.Writer
}

// NewTextReporter creates a new text reporter
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{writer: w}
}

// Generate writes one line per diagnostic followed by a summary.
func (r *TextReporter) Generate(data Data) error {
	location := color.New(color.Bold)
	offense := color.New(color.FgRed)
	unused := color.New(color.FgYellow)

	for _, d := range data.Diagnostics {
		kind := offense
		if d.Category != checker.CategoryExitStatement {
			kind = unused
		}
		if _, err := fmt.Fprintf(r.writer, "%s %s\n",
			location.Sprintf("%s:%d:%d:", d.Path, d.Span.Start.Line, d.Span.Start.Column),
			kind.Sprint(d.Message),
		); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf("%d %s inspected, %d %s detected",
		data.Files, plural(data.Files, "file", "files"),
		len(data.Diagnostics), plural(len(data.Diagnostics), "offense", "offenses"))
	if len(data.Diagnostics) == 0 {
		summary = color.GreenString(summary)
	}

	if len(data.Diagnostics) > 0 {
		if _, err := fmt.Fprintln(r.writer); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(r.writer, summary)
	return err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
