package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ddqcheck/internal/config"
)

func TestInitCommandCreatesConfig(t *testing.T) {
	dir := t.TempDir()
	withWorkdir(t, dir, nil)

	code, stdout, stderr := runCLI(t, "init")
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d: %s", ExitOK, code, stderr)
	}
	path := config.ConfigPath(dir)
	if !strings.Contains(stdout, "Wrote "+path) {
		t.Fatalf("unexpected output %q", stdout)
	}
	if _, err := config.Load(path); err != nil {
		t.Fatalf("scaffolded config does not load: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".gitignore")); !os.IsNotExist(err) {
		t.Fatalf("expected no .gitignore outside a git checkout")
	}
}

func TestInitCommandRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	withWorkdir(t, dir, nil)

	if code, _, stderr := runCLI(t, "init"); code != ExitOK {
		t.Fatalf("first init failed: %s", stderr)
	}
	code, _, stderr := runCLI(t, "init")
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.Contains(stderr, "already exists") {
		t.Fatalf("unexpected error %q", stderr)
	}
}

func TestInitCommandUpdatesGitignore(t *testing.T) {
	dir := t.TempDir()
	withWorkdir(t, t.TempDir(), nil)
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir .git: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("bin"), 0o644); err != nil {
		t.Fatalf("write .gitignore: %v", err)
	}

	code, _, stderr := runCLI(t, "init", "--dir", dir)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d: %s", ExitOK, code, stderr)
	}
	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		t.Fatalf("read .gitignore: %v", err)
	}
	want := "bin\noutput\n.ddqcheck/history.duckdb\n"
	if string(data) != want {
		t.Fatalf("unexpected .gitignore %q, want %q", data, want)
	}
}

func TestInitCommandHonorsConfigFlag(t *testing.T) {
	dir := t.TempDir()
	withWorkdir(t, t.TempDir(), nil)
	path := filepath.Join(dir, "custom", "ddq.yml")

	code, _, stderr := runCLI(t, "init", "--config", path, "--gitignore=false")
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d: %s", ExitOK, code, stderr)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config at %s: %v", path, err)
	}
}

func TestAddGitignoreEntrySkipsExisting(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("/output\n"), 0o644); err != nil {
		t.Fatalf("write .gitignore: %v", err)
	}
	updated, err := addGitignoreEntry(dir, filepath.Join(dir, "output"))
	if err != nil {
		t.Fatalf("addGitignoreEntry: %v", err)
	}
	if updated {
		t.Fatalf("expected existing entry to be kept")
	}
	if _, err := addGitignoreEntry(dir, filepath.Join(filepath.Dir(dir), "elsewhere")); err == nil {
		t.Fatalf("expected error for path outside root")
	}
}
