package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/nemanja-m/logscan/internal/shared/config"
	"github.com/nemanja-m/logscan/internal/shared/logging"
	"github.com/nemanja-m/logscan/internal/worker/api/grpc"
	"github.com/nemanja-m/logscan/internal/worker/service"
	"github.com/nemanja-m/logscan/pkg/local"
	"github.com/nemanja-m/logscan/pkg/logscan"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath = flag.String("config", "", "path to config file")
		threads    = flag.Int("threads", 0, "scan tasks for this worker (overrides config)")
	)
	flag.Parse()

	cfg, err := config.LoadWorker(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		return logscan.ExitFailure
	}
	if *threads > 0 {
		cfg.Scanner.Parallelism = *threads
	}

	logger, err := logging.New(os.Stderr, cfg.Logging)
	if err != nil {
		slog.Error("Failed to create logger", "error", err)
		return logscan.ExitFailure
	}

	workerID := uuid.New()
	client, err := grpc.NewCoordinatorClient(cfg.Coordinator.Addr, cfg.Coordinator.GRPC, workerID)
	if err != nil {
		logger.Error("Failed to create coordinator client", "error", err)
		return logscan.ExitCode(err)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scanner := local.NewScanner(cfg.Scanner.Parallelism)
	logger.Info("Worker started",
		"worker_id", workerID.String(),
		"coordinator", cfg.Coordinator.Addr,
		"parallelism", scanner.Parallelism(),
	)

	result, err := service.NewWorkerService(client, scanner, cfg.Server.Addr, logger).Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return logscan.ExitCode(err)
	}

	logger.Info("Worker finished",
		"worker_id", workerID.String(),
		"rank", result.Rank,
		"lines", result.Lines,
	)
	return logscan.ExitOK
}
