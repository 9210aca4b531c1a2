package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nemanja-m/logscan/internal/coordinator/api/grpc"
	"github.com/nemanja-m/logscan/internal/coordinator/api/rest"
	"github.com/nemanja-m/logscan/internal/coordinator/service"
	"github.com/nemanja-m/logscan/internal/coordinator/storage"
	"github.com/nemanja-m/logscan/internal/shared/config"
	"github.com/nemanja-m/logscan/internal/shared/logging"
	"github.com/nemanja-m/logscan/pkg/local"
	"github.com/nemanja-m/logscan/pkg/logscan"
	"github.com/nemanja-m/logscan/pkg/report"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath = flag.String("config", "", "path to config file")
		workers    = flag.Int("workers", 0, "number of processes including the coordinator (overrides config)")
		threads    = flag.Int("threads", 0, "scan tasks per process (overrides config)")
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
	input := flag.Arg(0)

	cfg, err := config.LoadCoordinator(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		return logscan.ExitFailure
	}
	if *workers > 0 {
		cfg.Topology.Workers = *workers
	}
	if *threads > 0 {
		cfg.Scanner.Parallelism = *threads
	}

	logger, err := logging.New(os.Stderr, cfg.Logging)
	if err != nil {
		slog.Error("Failed to create logger", "error", err)
		return logscan.ExitFailure
	}

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		logger.Error("Failed to open run store", "driver", cfg.Storage.Driver, "error", err)
		return logscan.ExitFailure
	}
	defer store.Close()

	exchange := service.NewExchange(cfg.Topology.Workers, logger)

	if cfg.Topology.Workers > 1 {
		lis, err := net.Listen("tcp", cfg.GRPC.Addr)
		if err != nil {
			logger.Error("Failed to listen", "addr", cfg.GRPC.Addr, "error", err)
			return logscan.ExitTransport
		}
		grpcServer := grpc.NewServer(cfg.GRPC, exchange, logger)
		go func() {
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("gRPC server error", "error", err)
			}
		}()
		defer grpcServer.Stop()
	}

	if cfg.REST.Addr != "" {
		restServer := rest.NewServer(cfg.REST, store, exchange, logger)
		go func() {
			logger.Info("Starting status API server", "addr", cfg.REST.Addr)
			if err := restServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Status API server error", "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			restServer.Shutdown(ctx)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.RegistrationTimeout > 0 {
		ctx = withRegistrationTimeout(ctx, exchange, cfg.RegistrationTimeout, logger)
	}

	scanner := local.NewScanner(cfg.Scanner.Parallelism)
	runService := service.NewRunService(cfg.Topology.Workers, exchange, scanner, store, logger)

	result, err := runService.Run(ctx, input)
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

// withRegistrationTimeout cancels the returned context if not every worker
// has registered within timeout. Once registration completes the run is
// no longer bounded.
func withRegistrationTimeout(ctx context.Context, exchange *service.Exchange, timeout time.Duration, logger logging.Logger) context.Context {
	ctx, cancel := context.WithCancelCause(ctx)

	go func() {
		waitCtx, waitCancel := context.WithTimeout(ctx, timeout)
		defer waitCancel()
		if err := exchange.AwaitWorkers(waitCtx); err != nil && ctx.Err() == nil {
			logger.Error("Workers did not register in time", "timeout", timeout.String())
			cancel(err)
		}
	}()

	return ctx
}
