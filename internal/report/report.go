// Package report renders diagnostics as text, JSON or SARIF.
package report

import (
	"fmt"
	"io"

	"github.com/mpyw/transactionexit/internal/checker"
)

// Supported formats.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatSARIF = "sarif"
)

// Data is everything a report needs.
type Data struct {
	Tool        string               `json:"tool"`
	Version     string               `json:"version"`
	Files       int                  `json:"files"`
	Diagnostics []checker.Diagnostic `json:"diagnostics"`
}

// Reporter writes a report.
type Reporter interface {
	Generate(data Data) error
}

// New returns the reporter for format.
func New(format string, w io.Writer) (Reporter, error) {
	switch format {
	case FormatText, "":
		return NewTextReporter(w), nil
	case FormatJSON:
		return NewJSONReporter(w), nil
	case FormatSARIF:
		return NewSARIFReporter(w), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want text, json or sarif)", format)
	}
}
