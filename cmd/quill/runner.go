package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"quill/config"
	"quill/session"
)

// runFile is used for normal script execution (fresh session each time).
func runFile(cfg *config.Config, path string, stdout, stderr io.Writer) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading %s: %v\n", path, err)
		return exitNoInput
	}

	s := session.New(session.WithConfig(cfg), session.WithStdout(stdout))
	res := runSource(s, filepath.Base(path), string(src), stderr)
	return res.Status.ExitCode()
}

// runSource runs one chunk in an existing session and reports its
// diagnostics. This is what makes the REPL stateful across inputs.
func runSource(s *session.Session, name, src string, stderr io.Writer) session.Result {
	res := s.Run(name, src)
	switch res.Status {
	case session.StatusStaticError:
		for _, d := range res.Diagnostics {
			fmt.Fprintln(stderr, d.Error())
		}
	case session.StatusRuntimeError:
		fmt.Fprintln(stderr, res.Err)
	}
	return res
}
