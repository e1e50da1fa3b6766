package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adfharrison1/employee-api/pkg/domain"
)

// SaveToFile writes every collection to filename. The snapshot is written
// to a temporary file first and renamed into place.
func (se *StorageEngine) SaveToFile(filename string) error {
	se.saveMu.Lock()
	defer se.saveMu.Unlock()

	se.mu.Lock()
	storageData := NewStorageData()
	for collName, collection := range se.collections {
		docs := make(map[string]Document, len(collection.Documents))
		for docID, doc := range collection.Documents {
			docs[docID] = copyDocument(doc)
		}
		storageData.Collections[collName] = docs
	}
	storageData.Metadata["saved_at"] = time.Now().UTC().Format(time.RFC3339)
	// Collections are clean from this point; writes that land during the
	// file write mark them dirty again.
	for _, info := range se.info {
		info.State = CollectionStateLoaded
	}
	se.mu.Unlock()

	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmpName := tmp.Name()

	if err := EncodeSnapshot(tmp, storageData); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		se.markAllDirty()
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		se.markAllDirty()
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpName, filename); err != nil {
		os.Remove(tmpName)
		se.markAllDirty()
		return fmt.Errorf("failed to replace data file: %w", err)
	}

	se.log.Debug().Str("file", filename).Int("collections", len(storageData.Collections)).Msg("Saved snapshot")
	return nil
}

// LoadFromFile replaces the engine's contents with the snapshot in
// filename. A missing file leaves the engine empty and is not an error.
func (se *StorageEngine) LoadFromFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	storageData, err := DecodeSnapshot(file)
	if err != nil {
		return err
	}

	se.mu.Lock()
	defer se.mu.Unlock()

	se.collections = make(map[string]*Collection, len(storageData.Collections))
	se.info = make(map[string]*CollectionInfo, len(storageData.Collections))
	for collName, docs := range storageData.Collections {
		collection := domain.NewCollection(collName)
		for docID, doc := range docs {
			if doc == nil {
				continue
			}
			doc[domain.FieldID] = docID
			collection.Documents[docID] = doc
		}
		se.collections[collName] = collection
		se.info[collName] = &CollectionInfo{
			Name:          collName,
			DocumentCount: int64(len(collection.Documents)),
			State:         CollectionStateLoaded,
			LastModified:  time.Now(),
		}
		se.log.Info().Str("collection", collName).Int("documents", len(collection.Documents)).Msg("Loaded collection")
	}

	return nil
}

func (se *StorageEngine) markAllDirty() {
	se.mu.Lock()
	defer se.mu.Unlock()
	for _, info := range se.info {
		info.State = CollectionStateDirty
	}
}

// saveDirtyCollections writes a snapshot when anything changed since the last save
func (se *StorageEngine) saveDirtyCollections() {
	if se.dataFile == "" || !se.isDirty() {
		se.log.Debug().Msg("No dirty collections to save")
		return
	}

	start := time.Now()
	if err := se.SaveToFile(se.dataFile); err != nil {
		se.log.Error().Err(err).Str("file", se.dataFile).Msg("Background save failed")
		return
	}
	se.log.Info().Dur("elapsed", time.Since(start)).Msg("Background save completed successfully")
}
