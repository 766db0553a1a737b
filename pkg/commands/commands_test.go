package commands

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/mattn/go-isatty"
)

const testHints = `
codes:
  "1234": 1
hints:
  "1": Look under the desk.
`

func writeRoom(t *testing.T, secret string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hints.yaml"), []byte(testHints), 0o644); err != nil {
		t.Fatalf("write hints: %v", err)
	}
	cfg := "secret: " + secret + "\nhints: hints.yaml\nhistory: " + filepath.Join(dir, "history") + "\n"
	path := filepath.Join(dir, ".roomtimer.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func execute(args ...string) error {
	cmd := New()
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.Execute()
}

func TestCommandTree(t *testing.T) {
	want := map[string]bool{"run": false, "codes": false, "check": false, "replay": false, "history": false, "version": false}
	for _, c := range New().Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("expected %s subcommand", name)
		}
	}
}

func TestCheckPasses(t *testing.T) {
	path := writeRoom(t, "library-42")
	if err := execute("--config", path, "check"); err != nil {
		t.Fatalf("expected clean check, got %v", err)
	}
}

func TestCheckFlagsDefaultPassword(t *testing.T) {
	path := writeRoom(t, "sh2025")
	if err := execute("--config", path, "check"); !errors.Is(err, errCheckFailed) {
		t.Fatalf("expected errCheckFailed, got %v", err)
	}
}

func TestCodesAndHistory(t *testing.T) {
	path := writeRoom(t, "library-42")
	if err := execute("--config", path, "codes"); err != nil {
		t.Fatalf("codes: %v", err)
	}
	if err := execute("--config", path, "history", "--json"); err != nil {
		t.Fatalf("history: %v", err)
	}
}

func TestReplay(t *testing.T) {
	path := writeRoom(t, "library-42")
	script := filepath.Join(filepath.Dir(path), "script.yaml")
	body := "steps:\n  - event: start\n  - after: 10s\n    event: code\n    value: \"1234\"\n"
	if err := os.WriteFile(script, []byte(body), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	if err := execute("--config", path, "replay", script); err != nil {
		t.Fatalf("replay: %v", err)
	}
}

func TestRunNeedsTerminal(t *testing.T) {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		t.Skip("stdout is a terminal")
	}
	path := writeRoom(t, "library-42")
	if err := execute("--config", path, "run"); !errors.Is(err, errNoTerminal) {
		t.Fatalf("expected errNoTerminal, got %v", err)
	}
}
