package config

import "time"

const (
	DefaultDataDir = "data"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultDrainInterval  = 30 * time.Second
	DefaultDrainBatchSize = 25

	DefaultShutdownTimeout = 30 * time.Second

	DefaultDefaultEventDurationHours = 3

	// Collection names the record store is asked for. Kept here so every
	// component addresses the same files.
	BookingsCollection = "bookings.txt"
	PackagesCollection = "services.txt"
)
