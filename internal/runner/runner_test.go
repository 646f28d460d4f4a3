package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpyw/transactionexit/internal/checker"
	"github.com/mpyw/transactionexit/internal/config"
	"github.com/mpyw/transactionexit/internal/runner"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestDiscover(t *testing.T) {
	root := writeTree(t, map[string]string{
		"app/models/user.rb":       "",
		"app/models/order.rb":      "",
		"lib/tasks/db.rake":        "",
		"vendor/bundle/gem.rb":     "",
		".git/hooks/x.rb":          "",
		"node_modules/pkg/a.rb":    "",
		"README.md":                "",
		"script/without_extension": "",
	})
	filter, err := config.Config{Exclude: []string{"vendor/**"}}.Filter(root)
	require.NoError(t, err)

	files, err := runner.Discover([]string{root, filepath.Join(root, "script", "without_extension"), filepath.Join(root, "app")}, filter)
	require.NoError(t, err)

	rel := make([]string, len(files))
	for i, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel[i] = filepath.ToSlash(r)
	}
	assert.Equal(t, []string{
		"app/models/order.rb",
		"app/models/user.rb",
		"lib/tasks/db.rake",
		"script/without_extension",
	}, rel)
}

func TestDiscoverNoFiles(t *testing.T) {
	root := writeTree(t, map[string]string{"README.md": ""})

	_, err := runner.Discover([]string{root}, nil)
	assert.True(t, errors.Is(err, runner.ErrNoFiles))
}

func TestDiscoverMissingPath(t *testing.T) {
	_, err := runner.Discover([]string{filepath.Join(t.TempDir(), "missing")}, nil)
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.rb": "transaction { return }\n",
		"b.rb": "items.each { break }\n",
		"c.rb": "with_lock do\n  break\n  throw :x\nend\n",
	})
	files, err := runner.Discover([]string{root}, nil)
	require.NoError(t, err)

	for _, concurrency := range []int{0, 1, 8} {
		diags, err := runner.Run(context.Background(), files, runner.Options{
			Checker:     checker.New(nil),
			Concurrency: concurrency,
		})
		require.NoError(t, err)
		require.Len(t, diags, 3)

		assert.Equal(t, filepath.Join(root, "a.rb"), diags[0].Path)
		assert.Equal(t, "return", diags[0].Statement)
		assert.Equal(t, filepath.Join(root, "c.rb"), diags[1].Path)
		assert.Equal(t, "break", diags[1].Statement)
		assert.Equal(t, "throw", diags[2].Statement)
	}
}

func TestRunMissingFile(t *testing.T) {
	_, err := runner.Run(context.Background(), []string{filepath.Join(t.TempDir(), "gone.rb")}, runner.Options{
		Checker: checker.New(nil),
	})
	assert.Error(t, err)
}

func TestRunCanceled(t *testing.T) {
	root := writeTree(t, map[string]string{"a.rb": "transaction { return }\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, []string{filepath.Join(root, "a.rb")}, runner.Options{Checker: checker.New(nil)})
	assert.ErrorIs(t, err, context.Canceled)
}
