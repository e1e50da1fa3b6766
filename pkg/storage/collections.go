package storage

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/adfharrison1/employee-api/pkg/domain"
)

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrDocumentNotFound   = errors.New("document not found")
)

// GetCollection returns a snapshot of the named collection
func (se *StorageEngine) GetCollection(collName string) (*domain.Collection, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	collection, err := se.getCollectionInternal(collName)
	if err != nil {
		return nil, err
	}

	snapshot := domain.NewCollection(collName)
	for id, doc := range collection.Documents {
		snapshot.Documents[id] = copyDocument(doc)
	}
	return snapshot, nil
}

// getCollectionInternal looks up a collection; caller holds se.mu
func (se *StorageEngine) getCollectionInternal(collName string) (*domain.Collection, error) {
	collection, exists := se.collections[collName]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collName)
	}
	return collection, nil
}

// getOrCreateCollection returns the named collection, creating it on first
// use; caller holds the se.mu write lock.
func (se *StorageEngine) getOrCreateCollection(collName string) *domain.Collection {
	if collection, exists := se.collections[collName]; exists {
		return collection
	}
	collection := domain.NewCollection(collName)
	se.collections[collName] = collection
	se.info[collName] = &CollectionInfo{
		Name:         collName,
		State:        CollectionStateDirty,
		LastModified: time.Now(),
	}
	return collection
}

// CreateCollection creates a new collection
func (se *StorageEngine) CreateCollection(collName string) error {
	se.mu.Lock()
	defer se.mu.Unlock()

	if collName == "" {
		return fmt.Errorf("collection name cannot be empty")
	}

	if _, exists := se.collections[collName]; exists {
		return fmt.Errorf("collection %s already exists", collName)
	}

	se.getOrCreateCollection(collName)
	return nil
}

// ListCollections returns the collection names in sorted order
func (se *StorageEngine) ListCollections() []string {
	se.mu.RLock()
	defer se.mu.RUnlock()

	names := make([]string, 0, len(se.collections))
	for name := range se.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetCollectionInfo returns a copy of a collection's metadata
func (se *StorageEngine) GetCollectionInfo(collName string) (CollectionInfo, bool) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	info, exists := se.info[collName]
	if !exists {
		return CollectionInfo{}, false
	}
	return *info, true
}
