package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chzyer/readline"

	"quill/config"
	"quill/session"
)

func runREPL(cfg *config.Config) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cfg.REPL.Prompt,
		HistoryFile:       cfg.REPL.HistoryFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println("Quill REPL. :help for commands, :quit to exit.")
	fmt.Println("Input continues on the next line while braces or a string are open.")
	fmt.Println()

	// one session for the whole REPL, so globals persist between inputs
	sess := session.New(session.WithConfig(cfg), session.WithStdout(os.Stdout))

	var buf strings.Builder
	var block blockTracker
	chunk := 0

	for {
		rl.SetPrompt(replPrompt(cfg.REPL.Prompt, block.open()))

		line, err := rl.Readline()

		// Ctrl+C
		if err == readline.ErrInterrupt {
			if buf.Len() > 0 {
				buf.Reset()
				block = blockTracker{}
				fmt.Println("^C (buffer cleared)")
			}
			continue
		}

		// Ctrl+D
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}

		trim := strings.TrimSpace(line)

		// Commands only when not buffering a block.
		if buf.Len() == 0 && strings.HasPrefix(trim, ":") {
			quit, cmdErr := handleREPLCommand(trim, sess)
			if cmdErr != nil {
				fmt.Fprintln(os.Stderr, cmdErr.Error())
			}
			if quit {
				return nil
			}
			continue
		}

		buf.WriteString(line)
		buf.WriteString("\n")
		block.feed(line)
		if block.open() {
			continue
		}

		src := buf.String()
		buf.Reset()
		block = blockTracker{}
		if strings.TrimSpace(src) == "" {
			continue
		}

		chunk++
		runSource(sess, fmt.Sprintf("<repl:%d>", chunk), src, os.Stderr)
	}
}

func replPrompt(prompt string, continuing bool) string {
	if continuing {
		return strings.Repeat(".", len(strings.TrimRight(prompt, " "))) + " "
	}
	return prompt
}

// handleREPLCommand runs a ':' command and reports whether the REPL
// should exit.
func handleREPLCommand(cmd string, sess *session.Session) (bool, error) {
	switch {
	case cmd == ":q" || cmd == ":quit" || cmd == ":exit":
		return true, nil

	case cmd == ":h" || cmd == ":help":
		fmt.Println("Commands:")
		fmt.Println("  :help              Show this help")
		fmt.Println("  :quit              Exit the REPL")
		fmt.Println("  :load <file>       Run a script in this session")
		fmt.Println("  :reset             Forget every variable and function")
		fmt.Println("  :clear             Clear the screen")
		fmt.Println("  :vars              Show global variables")
		fmt.Println("  :funcs             Show user-defined functions")
		fmt.Println()
		fmt.Println("Ctrl+C clears a half-typed block, Ctrl+D exits.")
		return false, nil

	case strings.HasPrefix(cmd, ":load"):
		path := strings.TrimSpace(strings.TrimPrefix(cmd, ":load"))
		if path == "" {
			return false, fmt.Errorf("Usage: :load <file>")
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return false, fmt.Errorf("Failed to read %s: %w", path, err)
		}
		runSource(sess, filepath.Base(path), string(b), os.Stderr)
		return false, nil

	case cmd == ":reset":
		sess.Reset()
		fmt.Println("(session reset)")
		return false, nil

	case cmd == ":clear":
		fmt.Print("\033[2J\033[H")
		return false, nil

	case cmd == ":vars":
		globs := sess.Interpreter().GlobalsSnapshot()
		if len(globs) == 0 {
			fmt.Println("(no globals)")
			return false, nil
		}
		keys := make([]string, 0, len(globs))
		for k := range globs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s = %s\n", k, globs[k])
		}
		return false, nil

	case cmd == ":funcs":
		names := sess.Interpreter().FuncNames()
		if len(names) == 0 {
			fmt.Println("(no user functions)")
			return false, nil
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return false, nil

	default:
		fmt.Println("Unknown command. Try :help")
		return false, nil
	}
}

// blockTracker decides whether buffered REPL input is complete: it counts
// braces outside strings and comments, and notices a string left open
// across lines.
type blockTracker struct {
	depth    int
	inString bool
}

func (b *blockTracker) feed(line string) {
	for _, ch := range line {
		if b.inString {
			if ch == '"' {
				b.inString = false
			}
			continue
		}
		switch ch {
		case '"':
			b.inString = true
		case '#':
			return
		case '{':
			b.depth++
		case '}':
			if b.depth > 0 {
				b.depth--
			}
		}
	}
}

func (b *blockTracker) open() bool { return b.depth > 0 || b.inString }
