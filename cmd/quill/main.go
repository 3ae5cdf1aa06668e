package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"quill/config"
)

// Exit codes follow sysexits(3).
const (
	exitUsage   = 64
	exitNoInput = 66
	exitConfig  = 78
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("quill", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "path to a YAML config file (default ~/"+config.DefaultFile+")")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage:")
		fmt.Fprintln(stderr, "  quill [-config file]            start the REPL")
		fmt.Fprintln(stderr, "  quill [-config file] <script>   run a script")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitConfig
	}

	switch flags.NArg() {
	case 0:
		if err := runREPL(cfg); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	case 1:
		return runFile(cfg, flags.Arg(0), stdout, stderr)
	default:
		flags.Usage()
		return exitUsage
	}
}
