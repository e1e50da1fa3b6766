package storage

import (
	"time"

	"github.com/rs/zerolog"
)

type StorageOption func(*StorageEngine)

// WithDataFile sets the snapshot file used by LoadFromFile and the save paths
func WithDataFile(path string) StorageOption {
	return func(engine *StorageEngine) {
		engine.dataFile = path
	}
}

func WithBackgroundSave(interval time.Duration) StorageOption {
	return func(engine *StorageEngine) {
		engine.backgroundSave = true
		engine.saveInterval = interval
		engine.transactionSave = false // Disable transaction saves when background saves are enabled
	}
}

// WithTransactionSave enables saving after every write transaction
func WithTransactionSave(enabled bool) StorageOption {
	return func(engine *StorageEngine) {
		engine.transactionSave = enabled
	}
}

func WithLogger(logger zerolog.Logger) StorageOption {
	return func(engine *StorageEngine) {
		engine.log = logger.With().Str("component", "storage").Logger()
	}
}
