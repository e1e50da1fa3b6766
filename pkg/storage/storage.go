package storage

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// StorageEngine is an embedded document store. Collections live in memory
// and are persisted as a single compressed snapshot file.
type StorageEngine struct {
	mu          sync.RWMutex
	collections map[string]*Collection
	info        map[string]*CollectionInfo

	// Configuration
	dataFile        string
	backgroundSave  bool
	transactionSave bool
	saveInterval    time.Duration
	log             zerolog.Logger

	// saveMu serializes snapshot writes
	saveMu sync.Mutex

	// Background workers
	backgroundWg sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

// NewStorageEngine creates a new storage engine
func NewStorageEngine(options ...StorageOption) *StorageEngine {
	engine := &StorageEngine{
		collections:     make(map[string]*Collection),
		info:            make(map[string]*CollectionInfo),
		backgroundSave:  false,
		transactionSave: false,
		saveInterval:    5 * time.Minute,
		log:             zerolog.Nop(),
		stopChan:        make(chan struct{}),
	}

	for _, option := range options {
		option(engine)
	}

	return engine
}

// DataFile returns the snapshot path, empty when persistence is disabled
func (se *StorageEngine) DataFile() string {
	return se.dataFile
}

// SaveAfterTransaction writes a snapshot if transaction saves are enabled
// and any collection changed since the last save.
func (se *StorageEngine) SaveAfterTransaction() error {
	if !se.transactionSave || se.dataFile == "" {
		return nil
	}
	if !se.isDirty() {
		return nil
	}
	return se.SaveToFile(se.dataFile)
}

// IsTransactionSaveEnabled returns whether transaction-based saves are enabled
func (se *StorageEngine) IsTransactionSaveEnabled() bool {
	return se.transactionSave
}

func (se *StorageEngine) isDirty() bool {
	se.mu.RLock()
	defer se.mu.RUnlock()
	for _, info := range se.info {
		if info.State == CollectionStateDirty {
			return true
		}
	}
	return false
}

// markDirty updates collection metadata after a write; caller holds se.mu.
func (se *StorageEngine) markDirty(collName string, delta int64) {
	info, exists := se.info[collName]
	if !exists {
		return
	}
	info.State = CollectionStateDirty
	info.DocumentCount += delta
	info.LastModified = time.Now()
}
