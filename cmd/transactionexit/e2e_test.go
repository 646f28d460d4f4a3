package main_test

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build binary once for all tests
	tmpDir, err := os.MkdirTemp("", "transactionexit-e2e-*")
	if err != nil {
		panic(err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	binaryPath = filepath.Join(tmpDir, "transactionexit")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = filepath.Join(getModuleRoot(), "cmd", "transactionexit")
	if out, err := cmd.CombinedOutput(); err != nil {
		panic(string(out) + ": " + err.Error())
	}

	os.Exit(m.Run())
}

func getModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			// Make sure it's the main module
			if _, err := os.Stat(filepath.Join(dir, "analyzer.go")); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("module root not found")
		}
		dir = parent
	}
}

func getE2ETestdata() string {
	return filepath.Join(getModuleRoot(), "cmd", "transactionexit", "testdata")
}

// run executes the binary in dir with an isolated home directory.
func run(t *testing.T, dir string, args ...string) (string, int) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "HOME="+t.TempDir(), "NO_COLOR=1")
	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return string(out), 0
	case errors.As(err, &exitErr):
		return string(out), exitErr.ExitCode()
	default:
		t.Fatalf("failed to run binary: %v", err)
		return "", -1
	}
}

func TestE2E_Basic(t *testing.T) {
	testdata := filepath.Join(getE2ETestdata(), "basic")

	output, code := run(t, testdata)

	// Should exit with 1 (has offenses)
	if code != 1 {
		t.Fatalf("expected exit code 1 for code with offenses, got %d\noutput:\n%s", code, output)
	}

	if !strings.Contains(output, "Exit statement `return` is not allowed. Use `raise` (rollback) or `next` (commit).") {
		t.Errorf("expected exit statement message, got:\n%s", output)
	}

	// Verify it points to the statement
	if !strings.Contains(output, "order.rb:4:7:") {
		t.Errorf("expected file location in output, got:\n%s", output)
	}
}

func TestE2E_Clean(t *testing.T) {
	testdata := filepath.Join(getE2ETestdata(), "clean")

	output, code := run(t, testdata, ".")
	if code != 0 {
		t.Errorf("expected zero exit code for clean code, got %d\noutput:\n%s", code, output)
	}
}

func TestE2E_ConfigFile(t *testing.T) {
	testdata := filepath.Join(getE2ETestdata(), "configured")

	output, code := run(t, testdata)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d\noutput:\n%s", code, output)
	}

	if !strings.Contains(output, "tenant.rb:2:3:") {
		t.Errorf("expected offense from AllowedMethods, got:\n%s", output)
	}
	// vendor/ is excluded
	if strings.Contains(output, "legacy.rb") {
		t.Errorf("expected vendor to be excluded, got:\n%s", output)
	}
}

func TestE2E_Baseline(t *testing.T) {
	testdata := filepath.Join(getE2ETestdata(), "basic")
	base := filepath.Join(t.TempDir(), "baseline.json")

	output, code := run(t, testdata, "--baseline="+base, "--write-baseline")
	if code != 0 {
		t.Fatalf("expected zero exit code writing baseline, got %d\noutput:\n%s", code, output)
	}

	// Accepted offenses no longer fail the run
	output, code = run(t, testdata, "--baseline="+base)
	if code != 0 {
		t.Errorf("expected zero exit code with baseline, got %d\noutput:\n%s", code, output)
	}
}

func TestE2E_JSONFormat(t *testing.T) {
	testdata := filepath.Join(getE2ETestdata(), "basic")

	output, code := run(t, testdata, "--format=json")
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d\noutput:\n%s", code, output)
	}
	if !strings.Contains(output, `"statement": "return"`) {
		t.Errorf("expected JSON diagnostics, got:\n%s", output)
	}
}

func TestE2E_HelpFlag(t *testing.T) {
	output, _ := run(t, getE2ETestdata(), "--help")

	// Should show usage info with our flags
	expectedFlags := []string{
		"--allowed-methods",
		"--allowed-patterns",
		"--config",
		"--ignore-directives",
		"--report-unused-ignores",
		"--format",
		"--baseline",
		"--concurrency",
		"--no-color",
	}

	for _, flag := range expectedFlags {
		if !strings.Contains(output, flag) {
			t.Errorf("expected flag %q in help output, got:\n%s", flag, output)
		}
	}
}

func TestE2E_Version(t *testing.T) {
	output, code := run(t, getE2ETestdata(), "version")
	if code != 0 {
		t.Fatalf("expected zero exit code, got %d", code)
	}
	if !strings.Contains(output, "transactionexit version dev") {
		t.Errorf("unexpected version output:\n%s", output)
	}
}

func TestE2E_InvalidFlag(t *testing.T) {
	output, code := run(t, getE2ETestdata(), "--invalid-flag-xyz")
	if code != 2 {
		t.Errorf("expected exit code 2 for invalid flag, got %d\noutput:\n%s", code, output)
	}
}

func TestE2E_InvalidPattern(t *testing.T) {
	output, code := run(t, filepath.Join(getE2ETestdata(), "clean"), "--allowed-patterns=(unclosed")
	if code != 2 {
		t.Errorf("expected exit code 2 for invalid pattern, got %d\noutput:\n%s", code, output)
	}
	if !strings.Contains(output, "invalid allowed pattern") {
		t.Errorf("expected pattern error, got:\n%s", output)
	}
}
