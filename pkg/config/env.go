package config

const (
	EnvDataDir = "DATA_DIR"

	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvDrainInterval  = "DRAIN_INTERVAL"
	EnvDrainBatchSize = "DRAIN_BATCH_SIZE"

	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvDefaultEventDurationHours = "DEFAULT_EVENT_DURATION_HOURS"
)
