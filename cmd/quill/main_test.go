package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quill/session"
)

func script(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.ql")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_ExitCodes(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name   string
		args   []string
		code   int
		stdout string
		stderr string
	}{
		{"ok", []string{script(t, "print 1 + 2;")}, 0, "3\n", ""},
		{"static", []string{script(t, "print (1;")}, 65, "", "[line 1] Error at ';': Expect ')' after expression."},
		{"runtime", []string{script(t, "print 1;\nprint nope;")}, 70, "1\n", "[line 2] Error at 'nope': Undefined variable 'nope'."},
		{"missing file", []string{filepath.Join(t.TempDir(), "none.ql")}, 66, "", "Error reading"},
		{"too many args", []string{"a.ql", "b.ql"}, 64, "", "Usage:"},
		{"bad flag", []string{"-nope"}, 64, "", "flag provided but not defined"},
		{"bad config", []string{"-config", filepath.Join(t.TempDir(), "x.yaml"), "a.ql"}, 78, "", "config: open"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)
			if code != tt.code {
				t.Fatalf("exit code: got %d, want %d (stderr %q)", code, tt.code, stderr.String())
			}
			if stdout.String() != tt.stdout {
				t.Fatalf("stdout: got %q, want %q", stdout.String(), tt.stdout)
			}
			if !strings.Contains(stderr.String(), tt.stderr) {
				t.Fatalf("stderr: got %q, want it to contain %q", stderr.String(), tt.stderr)
			}
		})
	}
}

func TestRun_RuntimeErrorNamesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	if code := run([]string{script(t, "print 1;\nprint nope;")}, &stdout, &stderr); code != 70 {
		t.Fatalf("exit code: got %d", code)
	}
	if !strings.Contains(stderr.String(), "  --> prog.ql:2:7\n") {
		t.Fatalf("stderr: got %q", stderr.String())
	}
}

func TestRun_ConfigApplies(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfgPath := filepath.Join(t.TempDir(), "quill.yaml")
	if err := os.WriteFile(cfgPath, []byte("interpreter:\n  division_scale: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfgPath, script(t, "print 2 / 3.0;")}, &stdout, &stderr)
	if code != 0 || stdout.String() != "0.67\n" {
		t.Fatalf("got code %d, stdout %q, stderr %q", code, stdout.String(), stderr.String())
	}
}

func TestBlockTracker(t *testing.T) {
	tests := []struct {
		lines []string
		open  bool
	}{
		{[]string{"print 1;"}, false},
		{[]string{"function f() {"}, true},
		{[]string{"function f() {", "  if (x) { print 1; }"}, true},
		{[]string{"function f() {", "  print 1;", "}"}, false},
		{[]string{`print "{";`}, false},
		{[]string{"print 1; # {"}, false},
		{[]string{`print "multi`}, true},
		{[]string{`print "multi`, `line";`}, false},
		{[]string{"}"}, false},
	}
	for _, tt := range tests {
		var b blockTracker
		for _, l := range tt.lines {
			b.feed(l)
		}
		if b.open() != tt.open {
			t.Errorf("%q: open=%v, want %v", tt.lines, b.open(), tt.open)
		}
	}
}

func TestHandleREPLCommand_Load(t *testing.T) {
	var out bytes.Buffer
	sess := session.New(session.WithStdout(&out), session.WithoutClock())

	quit, err := handleREPLCommand(":load "+script(t, "var loaded = 2;\nprint loaded;"), sess)
	if quit || err != nil {
		t.Fatalf("got quit=%v err=%v", quit, err)
	}
	if out.String() != "2\n" {
		t.Fatalf("output: got %q", out.String())
	}
	if got := sess.Interpreter().GlobalsSnapshot()["loaded"]; got.String() != "2" {
		t.Fatalf("loaded: got %s", got)
	}

	if _, err := handleREPLCommand(":load", sess); err == nil || err.Error() != "Usage: :load <file>" {
		t.Fatalf("got %v", err)
	}
}

func TestReplPrompt(t *testing.T) {
	if got := replPrompt("quill> ", false); got != "quill> " {
		t.Fatalf("got %q", got)
	}
	if got := replPrompt("quill> ", true); got != "...... " {
		t.Fatalf("got %q", got)
	}
}
