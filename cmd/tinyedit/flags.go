package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dshills/tinyedit/internal/config"
)

// cliOptions holds parsed command-line flags. Pointer fields are nil when
// the flag was not given, so that they only override configuration that
// was set explicitly.
type cliOptions struct {
	configPath string
	file       string

	logLevel  *string
	logFile   *string
	tabWidth  *int
	tabStyle  *string
	firstLine *int
	lineBreak *string
	readonly  bool

	stdin   bool
	print   bool
	version bool
}

func parseArgs(args []string, output io.Writer) (*cliOptions, error) {
	fs := flag.NewFlagSet("tinyedit", flag.ContinueOnError)
	fs.SetOutput(output)

	var (
		cli       cliOptions
		logLevel  string
		logFile   string
		tabWidth  int
		tabStyle  string
		firstLine int
		lineBreak string
	)
	fs.StringVar(&cli.configPath, "config", "", "Path to a TOML or YAML configuration file")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&logFile, "log-file", "", "Write logs to this file")
	fs.IntVar(&tabWidth, "tab-width", 0, "Width of a tab in columns")
	fs.StringVar(&tabStyle, "tab-style", "", `Tab serialization: "hard" or "soft"`)
	fs.IntVar(&firstLine, "first-line", 0, "Number of the first line in the gutter")
	fs.StringVar(&lineBreak, "line-break", "", `Line separator on output, e.g. "\n" or "\r\n"`)
	fs.BoolVar(&cli.readonly, "readonly", false, "Disable cursor placement")
	fs.BoolVar(&cli.stdin, "stdin", false, "Read the document from standard input")
	fs.BoolVar(&cli.print, "print", false, "Print the document to standard output on exit")
	fs.BoolVar(&cli.version, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(output, "tinyedit - a minimal single-line-oriented text editor\n\n")
		fmt.Fprintf(output, "Usage: tinyedit [options] [file]\n\n")
		fmt.Fprintf(output, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(output, "\nEnvironment:\n  %s\n", strings.Join(config.EnvNames(), "\n  "))
		fmt.Fprintf(output, "\nCtrl+Q quits.\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			cli.logLevel = &logLevel
		case "log-file":
			cli.logFile = &logFile
		case "tab-width":
			cli.tabWidth = &tabWidth
		case "tab-style":
			cli.tabStyle = &tabStyle
		case "first-line":
			cli.firstLine = &firstLine
		case "line-break":
			cli.lineBreak = &lineBreak
		}
	})

	switch fs.NArg() {
	case 0:
	case 1:
		cli.file = fs.Arg(0)
	default:
		return nil, fmt.Errorf("expected at most one file, got %d", fs.NArg())
	}
	if cli.stdin && cli.file != "" {
		return nil, fmt.Errorf("-stdin and a file argument are mutually exclusive")
	}
	if cli.logLevel != nil {
		switch *cli.logLevel {
		case "debug", "info", "warn", "error":
		default:
			return nil, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", *cli.logLevel)
		}
	}
	return &cli, nil
}

// resolveConfig layers defaults, the config file, the environment and
// the flags, in increasing precedence.
func (cli *cliOptions) resolveConfig(lookup config.LookupFunc) (config.Config, error) {
	cfg := config.Default()
	if cli.configPath != "" {
		if err := config.LoadFile(&cfg, cli.configPath); err != nil {
			return cfg, err
		}
	}
	if err := config.ApplyEnv(&cfg, lookup); err != nil {
		return cfg, err
	}
	cli.applyFlags(&cfg)
	return cfg, cfg.Validate()
}

// applyFlags overlays the explicitly set flags onto cfg.
func (cli *cliOptions) applyFlags(cfg *config.Config) {
	if cli.logLevel != nil {
		cfg.Logging.Level = *cli.logLevel
	}
	if cli.logFile != nil {
		cfg.Logging.File = *cli.logFile
	}
	if cli.tabWidth != nil {
		cfg.Editor.TabWidth = *cli.tabWidth
	}
	if cli.tabStyle != nil {
		cfg.Editor.TabStyle = *cli.tabStyle
	}
	if cli.firstLine != nil {
		cfg.Editor.FirstLineNumber = *cli.firstLine
	}
	if cli.lineBreak != nil {
		cfg.Editor.LineBreak = config.UnescapeLineBreak(*cli.lineBreak)
	}
	if cli.readonly {
		cfg.Editor.Editable = false
	}
}
