package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func capture(t *testing.T, verbose bool, fn func()) string {
	t.Helper()

	old := slog.Default()
	defer slog.SetDefault(old)

	var buf bytes.Buffer
	InitWriter(&buf, verbose)
	fn()
	return buf.String()
}

func TestInitDefaultLevelWarn(t *testing.T) {
	output := capture(t, false, func() {
		slog.Info("info")
		slog.Warn("warn")
	})

	if strings.Contains(output, "msg=info") {
		t.Fatalf("expected info to be suppressed, got %q", output)
	}
	if !strings.Contains(output, "msg=warn") {
		t.Fatalf("expected warn to be logged, got %q", output)
	}
}

func TestInitVerboseLevelDebug(t *testing.T) {
	output := capture(t, true, func() {
		slog.Debug("debug")
		slog.Info("info")
	})

	if !strings.Contains(output, "msg=debug") {
		t.Fatalf("expected debug to be logged, got %q", output)
	}
	if !strings.Contains(output, "msg=info") {
		t.Fatalf("expected info to be logged, got %q", output)
	}
}
