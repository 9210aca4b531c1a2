package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// WorkerConfig contains all configuration for a worker process.
type WorkerConfig struct {
	Server      ServerConfig          `mapstructure:"server"`
	Coordinator CoordinatorConnConfig `mapstructure:"coordinator"`
	Scanner     ScannerConfig         `mapstructure:"scanner"`
	Logging     LoggingConfig         `mapstructure:"logging"`
}

// ServerConfig contains the address a worker advertises to the coordinator.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// CoordinatorConnConfig contains coordinator connection configuration.
type CoordinatorConnConfig struct {
	Addr string           `mapstructure:"addr"`
	GRPC WorkerGRPCConfig `mapstructure:"grpc"`
}

// WorkerGRPCConfig contains worker gRPC client configuration.
type WorkerGRPCConfig struct {
	KeepaliveTime    time.Duration `mapstructure:"keepalive_time"`
	KeepaliveTimeout time.Duration `mapstructure:"keepalive_timeout"`
}

// LoadWorker loads the worker configuration from the given path.
// If configPath is empty, it looks for worker.yaml in the config/ directory.
// Environment variables with LOGSCAN_WORKER_ prefix override config file values.
func LoadWorker(configPath string) (*WorkerConfig, error) {
	v := viper.New()

	v.SetDefault("server.addr", "")
	v.SetDefault("coordinator.addr", "localhost:9090")
	v.SetDefault("coordinator.grpc.keepalive_time", 30*time.Second)
	v.SetDefault("coordinator.grpc.keepalive_timeout", 5*time.Second)
	v.SetDefault("scanner.parallelism", 0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	var cfg WorkerConfig
	if err := load(v, configPath, "worker", "LOGSCAN_WORKER", &cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Coordinator.Addr) == "" {
		return nil, fmt.Errorf("coordinator.addr is required")
	}
	return &cfg, nil
}
