package report

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/mpyw/transactionexit/internal/checker"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"

	sarifRuleExitStatement = "transactionexit/EXIT_STATEMENT"
	sarifRuleUnusedIgnore  = "transactionexit/UNUSED_IGNORE"
)

type SARIFReporter struct {
	writer io.Writer
}

func NewSARIFReporter(w io.Writer) *SARIFReporter {
	return &SARIFReporter{writer: w}
}

type sarifLog struct {
	Schema  string     `json:"$schema,omitempty"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name,omitempty"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level,omitempty"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

var sarifRules = []sarifRule{
	{
		ID:               sarifRuleExitStatement,
		Name:             "TransactionExitStatement",
		ShortDescription: sarifMessage{Text: "Exit statement inside a transaction block"},
	},
	{
		ID:               sarifRuleUnusedIgnore,
		Name:             "UnusedIgnoreDirective",
		ShortDescription: sarifMessage{Text: "Ignore directive that suppresses nothing"},
	},
}

func (r *SARIFReporter) Generate(data Data) error {
	results := make([]sarifResult, 0, len(data.Diagnostics))
	for _, d := range data.Diagnostics {
		rule, level := sarifRuleExitStatement, "warning"
		if d.Category != checker.CategoryExitStatement {
			rule, level = sarifRuleUnusedIgnore, "note"
		}
		results = append(results, sarifResult{
			RuleID:  rule,
			Level:   level,
			Message: sarifMessage{Text: d.Message},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: filepath.ToSlash(d.Path)},
					Region: sarifRegion{
						StartLine:   d.Span.Start.Line,
						StartColumn: d.Span.Start.Column,
						EndLine:     d.Span.End.Line,
						EndColumn:   d.Span.End.Column,
					},
				},
			}},
		})
	}

	log := sarifLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    data.Tool,
				Version: data.Version,
				Rules:   sarifRules,
			}},
			Results: results,
		}},
	}

	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(log)
}
