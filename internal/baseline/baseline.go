// Package baseline compares diagnostics against a previously saved report.
//
// Findings are keyed by file, statement and the trimmed source line, not by
// line number, so unrelated edits above an accepted offense do not turn it
// into a new one.
package baseline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mpyw/transactionexit/internal/checker"
)

// Finding is a flattened, identity-comparable offense.
type Finding struct {
	Path      string `json:"path"`
	Statement string `json:"statement"`
	Source    string `json:"source"`
	Line      int    `json:"line"`
}

func (f Finding) key() string {
	return fmt.Sprintf("%s|%s|%s", filepath.ToSlash(f.Path), f.Statement, f.Source)
}

// File is the on-disk baseline format.
type File struct {
	Findings []Finding `json:"findings"`
}

// DiffResult holds the outcome of comparing current findings against a baseline.
type DiffResult struct {
	New       []Finding
	Resolved  []Finding
	Unchanged []Finding
}

// SourceFunc returns the text of line in path.
type SourceFunc func(path string, line int) string

// Flatten converts exit statement diagnostics into findings.
// Other categories are dropped.
func Flatten(diags []checker.Diagnostic, source SourceFunc) []Finding {
	var findings []Finding
	for _, d := range diags {
		if d.Category != checker.CategoryExitStatement {
			continue
		}
		findings = append(findings, Finding{
			Path:      d.Path,
			Statement: d.Statement,
			Source:    strings.TrimSpace(source(d.Path, d.Span.Start.Line)),
			Line:      d.Span.Start.Line,
		})
	}
	return findings
}

// Load reads a baseline file.
func Load(path string) ([]Finding, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read baseline: %w", err)
	}
	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse baseline: %w", err)
	}
	return f.Findings, nil
}

// Save writes findings to path.
func Save(path string, findings []Finding) error {
	raw, err := json.MarshalIndent(File{Findings: findings}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode baseline: %w", err)
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("write baseline: %w", err)
	}
	return nil
}

// Diff compares current findings against a baseline. Keys are counted, so two
// identical offenses in one file need two baseline entries.
func Diff(current, baseline []Finding) DiffResult {
	remaining := make(map[string]int, len(baseline))
	for _, f := range baseline {
		remaining[f.key()]++
	}

	var result DiffResult
	for _, f := range current {
		if remaining[f.key()] > 0 {
			remaining[f.key()]--
			result.Unchanged = append(result.Unchanged, f)
		} else {
			result.New = append(result.New, f)
		}
	}
	for _, f := range baseline {
		if remaining[f.key()] > 0 {
			remaining[f.key()]--
			result.Resolved = append(result.Resolved, f)
		}
	}
	return result
}

// Filter returns the diagnostics that are new relative to the baseline.
// Diagnostics of other categories are always kept.
func Filter(diags []checker.Diagnostic, base []Finding, source SourceFunc) []checker.Diagnostic {
	remaining := make(map[string]int, len(base))
	for _, f := range base {
		remaining[f.key()]++
	}

	var out []checker.Diagnostic
	for _, d := range diags {
		if d.Category == checker.CategoryExitStatement {
			k := Flatten([]checker.Diagnostic{d}, source)[0].key()
			if remaining[k] > 0 {
				remaining[k]--
				continue
			}
		}
		out = append(out, d)
	}
	return out
}

// FileSource returns a SourceFunc reading from disk with a per-file cache.
// It is not safe for concurrent use.
func FileSource() SourceFunc {
	cache := make(map[string][]string)
	return func(path string, line int) string {
		lines, ok := cache[path]
		if !ok {
			raw, err := os.ReadFile(path)
			if err == nil {
				lines = strings.Split(string(raw), "\n")
			}
			cache[path] = lines
		}
		if line < 1 || line > len(lines) {
			return ""
		}
		return lines[line-1]
	}
}
