// Command linecheck infers the structure of a delimited text file, validates
// every record against it, and writes a plain-text report.
//
// Without flags it prompts for the path and for overrides of each
// suggestion. Flags answer prompts up front; -yes accepts every remaining
// suggestion without asking.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/linecheck/internal/config"
	"github.com/JonMunkholm/linecheck/internal/core"
	"github.com/JonMunkholm/linecheck/internal/history"
	_ "github.com/JonMunkholm/linecheck/internal/history/postgres" // Register history drivers
	_ "github.com/JonMunkholm/linecheck/internal/history/sqlite"
	"github.com/JonMunkholm/linecheck/internal/interactive"
	"github.com/JonMunkholm/linecheck/internal/logging"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("linecheck", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		path      = fs.String("file", "", "path of the file to check")
		delimiter = fs.String("delimiter", "", `field delimiter; "tab" or \t for tab`)
		names     = fs.String("names", "", "comma-separated column names")
		types     = fs.String("types", "", "comma-separated column types (int, float, string)")
		noHeader  = fs.Bool("no-header-skip", false, "never treat the first line as a header")
		acceptAll = fs.Bool("yes", false, "accept every suggestion without prompting")
		reportDir = fs.String("report-dir", "", "directory for the report (overrides REPORT_DIR)")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return exitUsage
	}

	// A missing .env is normal for a CLI; existing env vars win.
	_ = godotenv.Load()

	// Prompts own stdout, so logs stay quiet unless asked for.
	if os.Getenv("LOG_LEVEL") == "" {
		os.Setenv("LOG_LEVEL", "warn")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "configuration: %v\n", err)
		return exitUsage
	}
	logging.Setup(stderr, cfg.Logging.Level, cfg.Logging.Format)

	if *reportDir != "" {
		cfg.Report.Dir = *reportDir
	}

	store, err := history.Open(ctx, history.Config{Driver: cfg.History.Driver, DSN: cfg.History.DSN})
	if err != nil {
		slog.Warn("run history disabled", "driver", cfg.History.Driver, "error", err)
		store = history.Discard{}
	}
	defer store.Close()

	process := cfg.Process.Core()
	if *noHeader {
		process.DetectHeader = false
	}

	session := interactive.New(stdin, stdout, interactive.Options{
		Path: *path,
		Overrides: core.Overrides{
			Delimiter: *delimiter,
			Names:     *names,
			Types:     *types,
		},
		AcceptAll:     *acceptAll,
		Sampling:      cfg.Sampling.Core(),
		Process:       process,
		ReportDir:     cfg.Report.Dir,
		PreviewErrors: cfg.Report.PreviewErrors,
	}, store)

	if _, err := session.Run(ctx); err != nil {
		slog.Error("run failed", "error", err)
		fmt.Fprintf(stderr, "Error: %s\n", describe(err))
		return exitFatal
	}
	return exitOK
}

// describe prefers the mapped user message and falls back to the raw error.
func describe(err error) string {
	if errors.Is(err, interactive.ErrAborted) || !core.IsUserFacing(err) {
		return err.Error()
	}
	return core.FormatUserError(err)
}
