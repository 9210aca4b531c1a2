package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nemanja-m/logscan/internal/shared/config"
	"github.com/nemanja-m/logscan/internal/shared/logging"
	"github.com/nemanja-m/logscan/pkg/hybrid"
	"github.com/nemanja-m/logscan/pkg/logscan"
	"github.com/nemanja-m/logscan/pkg/report"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		workers  = flag.Int("workers", 1, "number of simulated processes")
		threads  = flag.Int("threads", 0, "scan tasks per process (0 = one per CPU)")
		logLevel = flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <log_file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return logscan.ExitFailure
	}

	logger, err := logging.New(os.Stderr, config.LoggingConfig{Level: *logLevel, Format: "text"})
	if err != nil {
		slog.Error("Failed to create logger", "error", err)
		return logscan.ExitFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := hybrid.NewEngine(hybrid.Config{
		Input:       flag.Arg(0),
		Workers:     *workers,
		Parallelism: *threads,
	}, nil, logger)

	result, err := engine.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return logscan.ExitCode(err)
	}

	if err := report.Write(os.Stdout, report.Result{
		Workers: result.Workers,
		Threads: result.Parallelism,
		Counts:  result.Counts,
		Elapsed: result.Duration(),
	}); err != nil {
		logger.Error("Failed to write report", "error", err)
		return logscan.ExitFailure
	}
	return logscan.ExitOK
}
