// Package main is the entry point for the tinyedit terminal editor.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/tinyedit/internal/app"
	"github.com/dshills/tinyedit/internal/logging"
	"github.com/dshills/tinyedit/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin *os.File, stdout, stderr io.Writer) int {
	cli, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if cli.version {
		fmt.Fprintf(stdout, "tinyedit %s\nCommit: %s\nBuilt: %s\n", version, commit, date)
		return 0
	}

	cfg, err := cli.resolveConfig(os.LookupEnv)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger, closer, err := logging.OpenFile(cfg.Logging.File, cfg.LogLevel())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closer.Close()

	opts := app.Options{
		Config:     cfg,
		ConfigPath: cli.configPath,
		Watch:      cli.configPath != "",
		Overrides:  cli.applyFlags,
		Logger:     logger,
	}
	if cli.stdin {
		if term.IsTerminal(int(stdin.Fd())) {
			fmt.Fprintln(stderr, "Error: -stdin given but stdin is a terminal")
			return 1
		}
		src, err := readSource(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		opts.Textarea = src
	} else if cli.file != "" {
		text, err := readFile(cli.file)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		opts.Text = text
	}

	terminal, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	opts.Backend = terminal

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		if _, ok := <-signals; ok {
			application.Shutdown()
		}
	}()

	if err := application.Run(); err != nil && !errors.Is(err, app.ErrQuit) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if cli.print {
		fmt.Fprint(stdout, application.Value())
	}
	return 0
}

// readFile returns the contents of path. A missing file is an empty
// document.
func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
