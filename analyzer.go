// Package transactionexit provides a lint rule that detects exit statements
// (return, break and throw) inside Rails transaction blocks.
package transactionexit

import (
	"context"
	"flag"
	"log/slog"
	"strings"

	"github.com/mpyw/transactionexit/internal/checker"
	"github.com/mpyw/transactionexit/internal/config"
	"github.com/mpyw/transactionexit/internal/runner"
	"github.com/mpyw/transactionexit/internal/syntax"
)

// Flags for the analyzer.
var (
	allowedMethods  string
	allowedPatterns patternList
	configPath      string

	// Directive flags (both enabled by default).
	ignoreDirectives    bool
	reportUnusedIgnores bool
)

func init() {
	Analyzer.Flags.StringVar(&allowedMethods, "allowed-methods", "",
		"comma-separated list of additional transaction methods (e.g., custom_transaction,atomically)")
	Analyzer.Flags.Var(&allowedPatterns, "allowed-patterns",
		"regular expression matching additional transaction methods; may be repeated (e.g., '_transaction\\z')")
	Analyzer.Flags.StringVar(&configPath, "config", "",
		"path to a YAML config file (default: search .transactionexit.yml in the working directory, then $HOME)")

	Analyzer.Flags.BoolVar(&ignoreDirectives, "ignore-directives", true, "honor # transactionexit:ignore comments")
	Analyzer.Flags.BoolVar(&reportUnusedIgnores, "report-unused-ignores", true, "report ignore directives that suppress nothing")
}

// Rule describes a lint rule and carries its flags.
type Rule struct {
	Name  string
	Doc   string
	Flags flag.FlagSet
}

// Analyzer is the transactionexit rule.
var Analyzer = &Rule{
	Name:  "transactionexit",
	Doc:   "checks that transaction blocks are not left with return, break or throw",
	Flags: flag.FlagSet{},
}

// Diagnostic is a single reported problem.
type Diagnostic = checker.Diagnostic

// Setup is the rule resolved from flags and the config file.
type Setup struct {
	Config     config.Config
	ConfigPath string // Empty when no file was read

	checker *checker.Checker
	filter  *config.Filter
}

// Setup resolves the flags and the config file. dir is where the config file
// is searched for and what Exclude globs are relative to.
func (r *Rule) Setup(dir string) (*Setup, error) {
	cfg, path, err := loadConfig(dir)
	if err != nil {
		return nil, err
	}
	if path != "" {
		slog.Debug("loaded config", "path", path)
	}

	cfg = cfg.Merge(config.Config{
		AllowedMethods:  splitList(allowedMethods),
		AllowedPatterns: allowedPatterns,
	})

	allow, err := cfg.AllowList()
	if err != nil {
		return nil, err
	}

	filter, err := cfg.Filter(dir)
	if err != nil {
		return nil, err
	}

	var opts []checker.Option
	if ignoreDirectives {
		opts = append(opts, checker.WithDirectives(reportUnusedIgnores))
	}

	return &Setup{
		Config:     cfg,
		ConfigPath: path,
		checker:    checker.New(allow, opts...),
		filter:     filter,
	}, nil
}

func loadConfig(dir string) (config.Config, string, error) {
	if configPath != "" {
		cfg, err := config.LoadFile(configPath)
		return cfg, configPath, err
	}
	return config.Load(dir)
}

// CheckTree checks a single parsed file.
func (s *Setup) CheckTree(t *syntax.Tree) []Diagnostic {
	return s.checker.Check(t)
}

// Result is the outcome of checking a set of paths.
type Result struct {
	Files       []string
	Diagnostics []Diagnostic
}

// Check discovers the Ruby files under paths and checks them.
// concurrency bounds parallel files; zero means GOMAXPROCS.
func (s *Setup) Check(ctx context.Context, paths []string, concurrency int) (*Result, error) {
	files, err := runner.Discover(paths, s.filter)
	if err != nil {
		return nil, err
	}

	diags, err := runner.Run(ctx, files, runner.Options{
		Checker:     s.checker,
		Concurrency: concurrency,
	})
	if err != nil {
		return nil, err
	}

	return &Result{Files: files, Diagnostics: diags}, nil
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// patternList is a repeatable string flag. Setting it to the empty string
// clears it.
type patternList []string

func (p *patternList) String() string {
	if p == nil {
		return ""
	}
	return strings.Join(*p, ",")
}

func (p *patternList) Set(v string) error {
	if v == "" {
		*p = nil
		return nil
	}
	*p = append(*p, v)
	return nil
}
