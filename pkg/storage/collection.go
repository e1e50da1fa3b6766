package storage

import (
	"time"

	"github.com/adfharrison1/employee-api/pkg/domain"
)

type CollectionState int

const (
	CollectionStateLoaded CollectionState = iota
	CollectionStateDirty
)

type CollectionInfo struct {
	Name          string
	DocumentCount int64
	LastModified  time.Time
	State         CollectionState
}

// Collection wraps domain.Collection for storage-specific functionality
type Collection = domain.Collection

// Document wraps domain.Document for storage-specific functionality
type Document = domain.Document

// NewCollection creates a new collection
func NewCollection(name string) *Collection {
	return domain.NewCollection(name)
}
