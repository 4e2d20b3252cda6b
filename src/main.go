package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options is the resolved command line.
type options struct {
	File       string
	Explicit   bool
	Fallback   string
	Missing    string
	JSON       bool
	Top        int
	Timeout    time.Duration
	AgentWidth int
	LogLevel   logrus.Level
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "analyzer: %v\n", err)
		return exitUsage
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(opts.LogLevel)
	log := logger.WithField("file", opts.File)

	src, err := openLog(&opts, log)
	log = logger.WithField("file", opts.File)
	if err != nil {
		log.WithError(err).Debug("pre-flight check failed")
		fmt.Fprintln(stdout, preflightMessage(opts, err))
		return exitFatal
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.WithError(err).Warn("close log file")
		}
	}()

	started := time.Now()
	agg, pass, err := analyze(src.Each)
	if err != nil {
		log.WithError(err).Error("read log file")
		fmt.Fprintf(stdout, "Error: Failed to read log file: %s: %v\n", opts.File, err)
		return exitFatal
	}

	log.WithFields(logrus.Fields{
		"size_bytes": src.Size,
		"lines":      pass.Lines,
		"parsed":     agg.Parsed(),
		"skipped":    pass.Lines - agg.Parsed(),
		"oversized":  pass.TooLong,
		"elapsed":    time.Since(started).String(),
	}).Debug("analysis complete")

	snapshot := agg.Snapshot(opts.File, src.Size, opts.Top)

	format := FormatText
	if opts.JSON {
		format = FormatJSON
	}
	if err := Render(stdout, snapshot, format, ReportOptions{Top: opts.Top, AgentWidth: opts.AgentWidth}); err != nil {
		log.WithError(err).Error("write report")
		return exitFatal
	}

	return exitOK
}

// openLog opens opts.File. When an explicit path does not exist it falls
// back to the configured or default log and records the missing path.
func openLog(opts *options, log *logrus.Entry) (*Source, error) {
	src, err := OpenSource(opts.File, opts.Timeout)
	if !errors.Is(err, ErrNotFound) || opts.Fallback == "" || opts.Fallback == opts.File {
		return src, err
	}

	log.WithField("fallback", opts.Fallback).Warn("log file not found, using fallback")
	opts.Missing = opts.File
	opts.File = opts.Fallback
	return OpenSource(opts.File, opts.Timeout)
}

func preflightMessage(opts options, err error) string {
	switch {
	case errors.Is(err, ErrNotFound) && opts.Missing != "":
		return fmt.Sprintf("Error: Log file not found: %s (fallback %s not found either)", opts.Missing, opts.File)
	case errors.Is(err, ErrNotFound) && !opts.Explicit:
		return fmt.Sprintf("Error: Default log file not found: %s", opts.File)
	case errors.Is(err, ErrNotFound):
		return fmt.Sprintf("Error: Log file not found: %s", opts.File)
	case errors.Is(err, ErrEmpty):
		return fmt.Sprintf("Error: Log file is empty: %s", opts.File)
	default:
		return fmt.Sprintf("Error: Cannot open log file: %v", err)
	}
}

// passStats describes the raw input seen during one pass.
type passStats struct {
	Lines   int
	TooLong int
}

// analyze feeds every non-blank line produced by each through the parser.
// Oversized lines count as input but are never parsed.
func analyze(each func(fn LineFunc) error) (*Aggregator, passStats, error) {
	agg := NewAggregator()
	var pass passStats

	err := each(func(raw string, tooLong bool) {
		if tooLong {
			pass.Lines++
			pass.TooLong++
			return
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			return
		}
		pass.Lines++
		if entry, ok := ParseLine(line); ok {
			agg.Observe(entry)
		}
	})
	if err != nil {
		return nil, pass, err
	}

	return agg, pass, nil
}

// parseArgs resolves config file defaults and flags. Flags may appear on
// either side of the positional log path.
func parseArgs(args []string, stderr io.Writer) (options, error) {
	var fileCfg FileConfig
	configPath := detectConfigPath(args)
	if configPath != "" {
		cfg, err := loadFileConfig(configPath)
		if err != nil {
			return options{}, fmt.Errorf("load config %s: %w", configPath, err)
		}
		fileCfg = cfg
	}

	defaults, err := defaultsFromFileConfig(fileCfg)
	if err != nil {
		return options{}, fmt.Errorf("config defaults: %w", err)
	}

	fs := flag.NewFlagSet("analyzer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: analyzer [log-file-path] [--json] [options]\n\n")
		fmt.Fprintf(fs.Output(), "Default log file: %s\n\nOptions:\n", DefaultLogFile)
		fs.PrintDefaults()
	}

	opts := options{File: defaults.File, LogLevel: defaults.LogLevel}
	fs.BoolVar(&opts.JSON, "json", defaults.JSON, "emit the report as JSON")
	fs.IntVar(&opts.Top, "top", defaults.Top, "number of entries per ranking")
	fs.DurationVar(&opts.Timeout, "timeout", defaults.ReadTimeout, "timeout for each read from the log file")
	fs.IntVar(&opts.AgentWidth, "agent-width", defaults.AgentWidth, "user agent characters shown in the text report")
	verbose := fs.Bool("verbose", false, "log diagnostics to stderr")
	fs.String("config", configPath, "path to YAML config file")

	var positional []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			return options{}, err
		}
		if fs.NArg() == 0 {
			break
		}
		// Parse stops at "--"; everything after it is positional.
		consumed := rest[:len(rest)-fs.NArg()]
		if len(consumed) > 0 && consumed[len(consumed)-1] == "--" {
			positional = append(positional, fs.Args()...)
			break
		}
		positional = append(positional, fs.Arg(0))
		rest = fs.Args()[1:]
	}

	if len(positional) > 1 {
		return options{}, fmt.Errorf("expected at most one log file, got %d: %s", len(positional), strings.Join(positional, " "))
	}
	if len(positional) == 1 {
		opts.File = positional[0]
		opts.Explicit = true
		opts.Fallback = defaults.File
	} else if fileCfg.File != "" {
		opts.Explicit = true
	}

	if opts.Top <= 0 {
		return options{}, fmt.Errorf("top must be positive, got %d", opts.Top)
	}
	if *verbose && opts.LogLevel < logrus.DebugLevel {
		opts.LogLevel = logrus.DebugLevel
	}

	return opts, nil
}
