package report

import (
	"encoding/json"
	"io"

	"github.com/mpyw/transactionexit/internal/checker"
)

// JSONReporter generates JSON reports
type JSONReporter struct {
	writer io.Writer
}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

// Generate generates a JSON report
func (r *JSONReporter) Generate(data Data) error {
	if data.Diagnostics == nil {
		data.Diagnostics = []checker.Diagnostic{}
	}
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
