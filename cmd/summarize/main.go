// Package main provides the command-line summarizer.
// Usage: summarize [--output path] [--model m] [--provider p] [--config file] input_path
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
	"syscall"

	"github.com/joho/godotenv"

	"medsum/internal/app"
	"medsum/internal/config"
	"medsum/internal/infra/collector"
	"medsum/internal/observability/logging"
)

const usage = `Usage: summarize [--output path] [--model m] [--provider p] [--config file] input_path

Summarizes a medical record file, or every supported file under a directory.
--output_path is accepted as a synonym for --output.

Examples:
  summarize records/patient1
  summarize --output out/summary.txt records/patient1/visit.txt
  summarize --provider claude --model claude-haiku-4-5 records/patient1
`

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// options are the parsed command-line flags.
type options struct {
	output     string
	model      string
	provider   string
	configPath string
	input      string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("summarize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { _, _ = fmt.Fprint(stderr, usage) }
	fs.StringVar(&opts.output, "output", "", "Write the summary to this file")
	fs.StringVar(&opts.output, "output_path", "", "Same as --output")
	fs.StringVar(&opts.model, "model", "", "Model to request (default: provider default)")
	fs.StringVar(&opts.provider, "provider", "", "Completion provider: openai, claude or echo")
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file (default: $MEDSUM_CONFIG)")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return opts, errors.New("exactly one input path is required")
	}
	opts.input = fs.Arg(0)
	return opts, nil
}

// run executes the command and returns the process exit code.
// The summary goes to stdout; logs and errors go to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	logger := logging.NewFromEnv(stderr)
	slog.SetDefault(logger)

	cfg, err := config.Load(opts.configPath,
		config.WithProvider(opts.provider),
		config.WithModel(opts.model))
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	a, err := app.New(cfg)
	if err != nil {
		logger.Error("failed to initialize summarizer", slog.Any("error", err))
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	src, err := collector.NewSource(opts.input)
	if err != nil {
		logger.Error("invalid input path", slog.String("path", opts.input), slog.Any("error", err))
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	result, err := a.Pipeline.Process(ctx, src, opts.output)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if result.Empty {
		_, _ = fmt.Fprintln(stderr, "Warning: nothing to summarize")
		return 0
	}

	_, _ = fmt.Fprintln(stdout, result.Summary)
	if opts.output != "" {
		logger.Info("summary written", slog.String("path", opts.output))
	}
	return 0
}
