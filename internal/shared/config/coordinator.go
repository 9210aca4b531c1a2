package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// CoordinatorConfig contains all configuration for the coordinator (rank 0).
type CoordinatorConfig struct {
	Topology            TopologyConfig `mapstructure:"topology"`
	Scanner             ScannerConfig  `mapstructure:"scanner"`
	GRPC                GRPCConfig     `mapstructure:"grpc"`
	REST                RESTConfig     `mapstructure:"rest"`
	Storage             StorageConfig  `mapstructure:"storage"`
	Logging             LoggingConfig  `mapstructure:"logging"`
	RegistrationTimeout time.Duration  `mapstructure:"registration_timeout"`
}

// TopologyConfig describes the process layout of a run.
type TopologyConfig struct {
	// Workers is the total number of ranks, the coordinator included.
	Workers int `mapstructure:"workers"`
}

// GRPCConfig contains gRPC server configuration.
type GRPCConfig struct {
	Addr             string        `mapstructure:"addr"`
	KeepaliveMinTime time.Duration `mapstructure:"keepalive_min_time"`
}

// RESTConfig contains the status API configuration. An empty Addr disables it.
type RESTConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// StorageConfig selects where run history is kept.
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

const (
	StorageDriverMemory = "memory"
	StorageDriverSQLite = "sqlite"
)

// LoadCoordinator loads the coordinator configuration from the given path.
// If configPath is empty, it looks for coordinator.yaml in the config/ directory.
// Environment variables with LOGSCAN_COORDINATOR_ prefix override config file values.
func LoadCoordinator(configPath string) (*CoordinatorConfig, error) {
	v := viper.New()

	v.SetDefault("topology.workers", 1)
	v.SetDefault("scanner.parallelism", 0)
	v.SetDefault("grpc.addr", ":9090")
	v.SetDefault("grpc.keepalive_min_time", 30*time.Second)
	v.SetDefault("rest.addr", "")
	v.SetDefault("rest.read_timeout", 15*time.Second)
	v.SetDefault("rest.write_timeout", 15*time.Second)
	v.SetDefault("rest.idle_timeout", 60*time.Second)
	v.SetDefault("storage.driver", StorageDriverMemory)
	v.SetDefault("storage.dsn", "logscan.db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("registration_timeout", 0)

	var cfg CoordinatorConfig
	if err := load(v, configPath, "coordinator", "LOGSCAN_COORDINATOR", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *CoordinatorConfig) Validate() error {
	if c.Topology.Workers < 1 {
		return fmt.Errorf("topology.workers must be positive, got %d", c.Topology.Workers)
	}
	switch c.Storage.Driver {
	case StorageDriverMemory, StorageDriverSQLite:
	default:
		return fmt.Errorf("unsupported storage driver: %s", c.Storage.Driver)
	}
	if c.RegistrationTimeout < 0 {
		return fmt.Errorf("registration_timeout must not be negative")
	}
	return nil
}
