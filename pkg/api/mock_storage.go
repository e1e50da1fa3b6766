package api

import (
	"context"
	"sync"

	"github.com/adfharrison1/employee-api/pkg/domain"
)

// MockEmployeeStore provides a mock implementation of domain.EmployeeStore for testing
type MockEmployeeStore struct {
	mu        sync.RWMutex
	employees map[string]domain.Employee
	order     []string

	// Err, when set, is returned by every operation
	Err error
	// PingErr is returned by Ping
	PingErr error

	listCalls   int
	getCalls    int
	createCalls int
	updateCalls int
	deleteCalls int
	lastFields  domain.EmployeeFields
}

// NewMockEmployeeStore creates a new mock store
func NewMockEmployeeStore() *MockEmployeeStore {
	return &MockEmployeeStore{
		employees: make(map[string]domain.Employee),
	}
}

// Seed stores an employee built from fields and returns it
func (m *MockEmployeeStore) Seed(fields domain.EmployeeFields) domain.Employee {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insert(fields)
}

func (m *MockEmployeeStore) insert(fields domain.EmployeeFields) domain.Employee {
	emp := domain.Employee{ID: domain.NewID()}
	fields.Apply(&emp)
	m.employees[emp.ID] = emp
	m.order = append(m.order, emp.ID)
	return emp
}

func (m *MockEmployeeStore) ListAll(ctx context.Context) ([]domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listCalls++
	if m.Err != nil {
		return nil, m.Err
	}

	employees := make([]domain.Employee, 0, len(m.order))
	for _, id := range m.order {
		if emp, exists := m.employees[id]; exists {
			employees = append(employees, emp)
		}
	}
	return employees, nil
}

func (m *MockEmployeeStore) GetByID(ctx context.Context, id string) (domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getCalls++
	if _, err := domain.ParseID(id); err != nil {
		return domain.Employee{}, err
	}
	if m.Err != nil {
		return domain.Employee{}, m.Err
	}

	emp, exists := m.employees[id]
	if !exists {
		return domain.Employee{}, domain.ErrNotFound
	}
	return emp, nil
}

func (m *MockEmployeeStore) Create(ctx context.Context, fields domain.EmployeeFields) (domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createCalls++
	m.lastFields = fields
	if m.Err != nil {
		return domain.Employee{}, m.Err
	}
	return m.insert(fields), nil
}

func (m *MockEmployeeStore) UpdateByID(ctx context.Context, id string, fields domain.EmployeeFields) (domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.updateCalls++
	m.lastFields = fields
	if _, err := domain.ParseID(id); err != nil {
		return domain.Employee{}, &domain.StoreError{Op: "update employee", Err: err}
	}
	if m.Err != nil {
		return domain.Employee{}, m.Err
	}

	emp, exists := m.employees[id]
	if !exists {
		return domain.Employee{}, domain.ErrNotFound
	}
	fields.Apply(&emp)
	m.employees[id] = emp
	return emp, nil
}

func (m *MockEmployeeStore) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleteCalls++
	if _, err := domain.ParseID(id); err != nil {
		return err
	}
	if m.Err != nil {
		return m.Err
	}

	if _, exists := m.employees[id]; !exists {
		return domain.ErrNotFound
	}
	delete(m.employees, id)
	return nil
}

func (m *MockEmployeeStore) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MockEmployeeStore) Close(ctx context.Context) error {
	return nil
}

// Calls returns how often each operation was invoked
func (m *MockEmployeeStore) Calls() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return map[string]int{
		"list":   m.listCalls,
		"get":    m.getCalls,
		"create": m.createCalls,
		"update": m.updateCalls,
		"delete": m.deleteCalls,
	}
}

// GetLastFields returns the fields passed to the last Create or UpdateByID
func (m *MockEmployeeStore) GetLastFields() domain.EmployeeFields {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastFields
}

// Count returns the number of stored employees
func (m *MockEmployeeStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.employees)
}
