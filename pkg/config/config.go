package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"photodesk/pkg/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir string

	DrainInterval  time.Duration
	DrainBatchSize int

	ShutdownTimeout time.Duration

	DefaultEventDurationHours int

	Log *logger.Logger
}

// Load builds the configuration from a .env file (if present) and the
// process environment, environment winning. It dies on invalid values
// since nothing downstream can run with a broken configuration.
func Load(serviceName string) *Config {
	// No .env is fine, the process environment is authoritative anyway.
	_ = godotenv.Load()

	cfg := &Config{
		DataDir: getEnvStr(EnvDataDir, DefaultDataDir),

		DrainInterval:  getEnvDuration(EnvDrainInterval, DefaultDrainInterval),
		DrainBatchSize: getEnvNum(EnvDrainBatchSize, DefaultDrainBatchSize),

		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		DefaultEventDurationHours: getEnvNum(EnvDefaultEventDurationHours, DefaultDefaultEventDurationHours),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    getEnvStr(EnvLogFormat, DefaultLogFormat),
			AddSource: true,
			Service:   serviceName,
		}),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) Validate() error {
	var errs []string

	if cfg.DataDir == "" {
		errs = append(errs, "DataDir cannot be empty")
	} else if !filepath.IsLocal(cfg.DataDir) && !filepath.IsAbs(cfg.DataDir) {
		errs = append(errs, fmt.Sprintf("DataDir must be a plain local or absolute path, got: %s", cfg.DataDir))
	}

	if cfg.DrainInterval <= 0 {
		errs = append(errs, fmt.Sprintf("DrainInterval must be positive, got: %s", cfg.DrainInterval))
	}
	if cfg.DrainBatchSize <= 0 {
		errs = append(errs, fmt.Sprintf("DrainBatchSize must be positive, got: %d", cfg.DrainBatchSize))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}
	if cfg.DefaultEventDurationHours <= 0 || cfg.DefaultEventDurationHours > 24 {
		errs = append(errs, fmt.Sprintf("DefaultEventDurationHours must be between 1 and 24, got: %d", cfg.DefaultEventDurationHours))
	}

	if len(errs) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, e := range errs {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"data_dir", cfg.DataDir,
		"drain_interval", cfg.DrainInterval,
		"drain_batch_size", cfg.DrainBatchSize,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"default_event_duration_hours", cfg.DefaultEventDurationHours,
	)
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
