package domain

import "context"

// EmployeeStore is the gateway between the HTTP handlers and the backing
// document store. Implementations return ErrNotFound or ErrInvalidID for
// lookups that address no document and wrap every other failure in a
// *StoreError. UpdateByID reports a malformed id as a *StoreError wrapping
// ErrInvalidID.
type EmployeeStore interface {
	ListAll(ctx context.Context) ([]Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, fields EmployeeFields) (Employee, error)
	UpdateByID(ctx context.Context, id string, fields EmployeeFields) (Employee, error)
	DeleteByID(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// StatsProvider is implemented by stores that can report runtime statistics
type StatsProvider interface {
	GetMemoryStats() map[string]interface{}
}
