package storage

import (
	"fmt"
	"sort"

	"github.com/adfharrison1/employee-api/pkg/domain"
)

// Insert stores doc in collName, creating the collection if needed, and
// returns a copy of the stored document including its generated _id.
func (se *StorageEngine) Insert(collName string, doc domain.Document) (domain.Document, error) {
	se.mu.Lock()
	defer se.mu.Unlock()

	collection := se.getOrCreateCollection(collName)

	stored := copyDocument(doc)
	newID := domain.NewID()
	stored[domain.FieldID] = newID
	collection.Documents[newID] = stored

	se.markDirty(collName, 1)

	return copyDocument(stored), nil
}

// GetById retrieves a specific document by its ID
func (se *StorageEngine) GetById(collName, docId string) (domain.Document, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	collection, err := se.getCollectionInternal(collName)
	if err != nil {
		return nil, err
	}

	doc, exists := collection.Documents[docId]
	if !exists {
		return nil, fmt.Errorf("%w: id %s in collection %s", ErrDocumentNotFound, docId, collName)
	}

	return copyDocument(doc), nil
}

// UpdateById merges updates into a document and returns its new state
func (se *StorageEngine) UpdateById(collName, docId string, updates domain.Document) (domain.Document, error) {
	se.mu.Lock()
	defer se.mu.Unlock()

	collection, err := se.getCollectionInternal(collName)
	if err != nil {
		return nil, err
	}

	doc, exists := collection.Documents[docId]
	if !exists {
		return nil, fmt.Errorf("%w: id %s in collection %s", ErrDocumentNotFound, docId, collName)
	}

	if len(updates) == 0 {
		return copyDocument(doc), nil
	}

	for key, value := range updates {
		if key != domain.FieldID { // Prevent updating the document ID
			doc[key] = value
		}
	}

	se.markDirty(collName, 0)

	return copyDocument(doc), nil
}

// DeleteById removes a specific document by its ID
func (se *StorageEngine) DeleteById(collName, docId string) error {
	se.mu.Lock()
	defer se.mu.Unlock()

	collection, err := se.getCollectionInternal(collName)
	if err != nil {
		return err
	}

	if _, exists := collection.Documents[docId]; !exists {
		return fmt.Errorf("%w: id %s in collection %s", ErrDocumentNotFound, docId, collName)
	}

	delete(collection.Documents, docId)
	se.markDirty(collName, -1)

	return nil
}

// FindAll returns every document in the collection ordered by _id. A
// collection that was never written to yields an empty result.
func (se *StorageEngine) FindAll(collName string) ([]domain.Document, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	collection, exists := se.collections[collName]
	if !exists {
		return []domain.Document{}, nil
	}

	docs := make([]domain.Document, 0, len(collection.Documents))
	for _, doc := range collection.Documents {
		docs = append(docs, copyDocument(doc))
	}

	// Object ids start with their creation time, so this is insertion order
	sort.Slice(docs, func(i, j int) bool {
		idI, _ := docs[i][domain.FieldID].(string)
		idJ, _ := docs[j][domain.FieldID].(string)
		return idI < idJ
	})

	return docs, nil
}
