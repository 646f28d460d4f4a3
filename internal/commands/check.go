package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mpyw/transactionexit"
	"github.com/mpyw/transactionexit/internal/baseline"
	"github.com/mpyw/transactionexit/internal/report"
	"github.com/mpyw/transactionexit/internal/runner"
)

var checkFlags struct {
	outputFormat  string
	outputFile    string
	baselinePath  string
	writeBaseline bool
	concurrency   int
	noColor       bool
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&checkFlags.outputFormat, "format", "f", report.FormatText, "Output format: text, json, or sarif")
	flags.StringVarP(&checkFlags.outputFile, "output", "o", "", "Output file (default: stdout)")
	flags.StringVar(&checkFlags.baselinePath, "baseline", "", "Path to a baseline file; only offenses not in it are reported")
	flags.BoolVar(&checkFlags.writeBaseline, "write-baseline", false, "Write current offenses to the --baseline file and exit")
	flags.IntVar(&checkFlags.concurrency, "concurrency", 0, "Max files checked in parallel (0 = number of CPUs)")
	flags.BoolVar(&checkFlags.noColor, "no-color", false, "Disable colored output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkFlags.writeBaseline && checkFlags.baselinePath == "" {
		return errors.New("--write-baseline requires --baseline")
	}

	out, closeOut, err := openOutput(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeOut()

	return check(cmd.Context(), out, pathsOrDefault(args))
}

// check runs one full check and writes the report to w.
func check(ctx context.Context, w io.Writer, paths []string) error {
	reporter, err := report.New(checkFlags.outputFormat, w)
	if err != nil {
		return err
	}

	setup, err := transactionexit.Analyzer.Setup(".")
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	result, err := setup.Check(ctx, paths, checkFlags.concurrency)
	switch {
	case errors.Is(err, runner.ErrNoFiles):
		slog.Warn("No Ruby files found", "paths", paths)
		result = &transactionexit.Result{}
	case err != nil:
		return err
	}

	diags := result.Diagnostics
	source := baseline.FileSource()

	if checkFlags.writeBaseline {
		findings := baseline.Flatten(diags, source)
		if err := baseline.Save(checkFlags.baselinePath, findings); err != nil {
			return err
		}
		slog.Info("Baseline written", "path", checkFlags.baselinePath, "findings", len(findings))
		return nil
	}

	if checkFlags.baselinePath != "" {
		base, err := baseline.Load(checkFlags.baselinePath)
		if err != nil {
			return err
		}
		diff := baseline.Diff(baseline.Flatten(diags, source), base)
		slog.Info("Baseline comparison",
			"new", len(diff.New), "resolved", len(diff.Resolved), "unchanged", len(diff.Unchanged))
		diags = baseline.Filter(diags, base, source)
	}

	configureColor(w)
	if err := reporter.Generate(report.Data{
		Tool:        transactionexit.Analyzer.Name,
		Version:     version,
		Files:       len(result.Files),
		Diagnostics: diags,
	}); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if len(diags) > 0 {
		return ErrOffensesFound
	}
	return nil
}

func pathsOrDefault(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}

func openOutput(stdout io.Writer) (io.Writer, func(), error) {
	if checkFlags.outputFile == "" {
		return stdout, func() {}, nil
	}
	f, err := os.Create(checkFlags.outputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// configureColor enables color only for terminals.
func configureColor(w io.Writer) {
	f, ok := w.(*os.File)
	color.NoColor = checkFlags.noColor ||
		os.Getenv("NO_COLOR") != "" ||
		!ok || !term.IsTerminal(int(f.Fd()))
}
