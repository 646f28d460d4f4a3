// Package runner discovers Ruby files and checks them in parallel.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mpyw/transactionexit/internal/checker"
	"github.com/mpyw/transactionexit/internal/config"
	"github.com/mpyw/transactionexit/internal/rubyparse"
)

// ErrNoFiles is returned when discovery finds nothing to check.
var ErrNoFiles = errors.New("no Ruby files found")

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	"node_modules": true,
}

// Discover expands paths into a sorted, de-duplicated list of Ruby files.
// Directories are walked recursively; hidden directories are skipped.
// Explicitly named files are kept whatever their extension.
func Discover(paths []string, filter *config.Filter) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		path = filepath.Clean(path)
		if seen[path] || filter.Excluded(path) {
			return
		}
		seen[path] = true
		files = append(files, path)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && (strings.HasPrefix(d.Name(), ".") || skipDirs[d.Name()]) {
					return filepath.SkipDir
				}
				return nil
			}
			if config.IsRuby(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	slices.Sort(files)
	return files, nil
}

// Options configures Run.
type Options struct {
	Checker *checker.Checker
	// Concurrency bounds parallel files. Zero means GOMAXPROCS.
	Concurrency int
}

// Run checks files and returns their diagnostics grouped by file in the
// order of files.
func Run(ctx context.Context, files []string, opts Options) ([]checker.Diagnostic, error) {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([][]checker.Diagnostic, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			f, err := rubyparse.ParseFile(ctx, path)
			if err != nil {
				return err
			}
			if len(f.Errors) > 0 {
				slog.Warn("syntax errors, results may be incomplete",
					"file", path, "line", f.Errors[0].Start.Line, "count", len(f.Errors))
			}

			results[i] = opts.Checker.Check(f.Tree)
			slog.Debug("checked file", "file", path, "diagnostics", len(results[i]))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var diags []checker.Diagnostic
	for _, r := range results {
		diags = append(diags, r...)
	}
	return diags, nil
}
