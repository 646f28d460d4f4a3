package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	assert.True(t, relevant("app/models/user.rb"))
	assert.True(t, relevant("lib/tasks/db.rake"))
	assert.True(t, relevant("/repo/.transactionexit.yml"))
	assert.False(t, relevant("README.md"))
	assert.False(t, relevant("app/models/user.rb~"))
}

func TestNewMissingPath(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "missing")}, 0)
	assert.Error(t, err)
}

func TestRunTriggersOnRubyChanges(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "app")
	require.NoError(t, os.Mkdir(sub, 0o755))

	w, err := New([]string{dir}, 20*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() { calls.Add(1) })
	}()

	require.NoError(t, os.WriteFile(filepath.Join(sub, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "a.rb"), []byte("transaction { return }\n"), 0o644))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()

	w, err := New([]string{dir}, 10*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	go func() { _ = w.Run(ctx, func() { calls.Add(1) }) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0o644))

	assert.Never(t, func() bool { return calls.Load() > 0 }, 200*time.Millisecond, 10*time.Millisecond)
}

func TestRunWaitsForInFlightChange(t *testing.T) {
	dir := t.TempDir()

	w, err := New([]string{dir}, 10*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{}, 1)
	release := make(chan struct{})
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() {
			calls.Add(1)
			started <- struct{}{}
			<-release
		})
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.rb"), []byte("x\n"), 0o644))

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("onChange was not called")
	}

	cancel()
	assert.Never(t, func() bool { return len(done) > 0 }, 100*time.Millisecond, 10*time.Millisecond)

	close(release)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the change finished")
	}

	// Timers still pending after Run returns do nothing.
	n := calls.Load()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.rb"), []byte("x\n"), 0o644))
	assert.Never(t, func() bool { return calls.Load() != n }, 100*time.Millisecond, 10*time.Millisecond)
}
