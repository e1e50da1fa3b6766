package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/adfharrison1/employee-api/pkg/domain"
)

var _ domain.EmployeeStore = (*EmployeeRepository)(nil)

// DefaultCollection is the collection employees are stored in
const DefaultCollection = "employees"

// EmployeeRepository implements domain.EmployeeStore on top of the
// embedded engine.
type EmployeeRepository struct {
	engine     *StorageEngine
	collection string
}

// NewEmployeeRepository wraps engine. An empty collection name selects
// DefaultCollection.
func NewEmployeeRepository(engine *StorageEngine, collection string) *EmployeeRepository {
	if collection == "" {
		collection = DefaultCollection
	}
	return &EmployeeRepository{engine: engine, collection: collection}
}

// Engine exposes the underlying storage engine
func (r *EmployeeRepository) Engine() *StorageEngine {
	return r.engine
}

func (r *EmployeeRepository) ListAll(ctx context.Context) ([]domain.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStoreError("find employees", err)
	}

	docs, err := r.engine.FindAll(r.collection)
	if err != nil {
		return nil, domain.NewStoreError("find employees", err)
	}

	employees := make([]domain.Employee, 0, len(docs))
	for _, doc := range docs {
		employees = append(employees, documentToEmployee(doc))
	}
	return employees, nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (domain.Employee, error) {
	if _, err := domain.ParseID(id); err != nil {
		return domain.Employee{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Employee{}, domain.NewStoreError("find employee", err)
	}

	doc, err := r.engine.GetById(r.collection, id)
	if err != nil {
		return domain.Employee{}, r.translate("find employee", err)
	}
	return documentToEmployee(doc), nil
}

func (r *EmployeeRepository) Create(ctx context.Context, fields domain.EmployeeFields) (domain.Employee, error) {
	if err := ctx.Err(); err != nil {
		return domain.Employee{}, domain.NewStoreError("insert employee", err)
	}

	doc, err := r.engine.Insert(r.collection, fieldsToDocument(fields))
	if err != nil {
		return domain.Employee{}, domain.NewStoreError("insert employee", err)
	}
	r.persist("insert employee")
	return documentToEmployee(doc), nil
}

func (r *EmployeeRepository) UpdateByID(ctx context.Context, id string, fields domain.EmployeeFields) (domain.Employee, error) {
	// A malformed id is a failed write here, not a missing document
	if _, err := domain.ParseID(id); err != nil {
		return domain.Employee{}, &domain.StoreError{Op: "update employee", Err: err}
	}
	if err := ctx.Err(); err != nil {
		return domain.Employee{}, domain.NewStoreError("update employee", err)
	}

	doc, err := r.engine.UpdateById(r.collection, id, fieldsToDocument(fields))
	if err != nil {
		return domain.Employee{}, r.translate("update employee", err)
	}
	r.persist("update employee")
	return documentToEmployee(doc), nil
}

func (r *EmployeeRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := domain.ParseID(id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return domain.NewStoreError("delete employee", err)
	}

	if err := r.engine.DeleteById(r.collection, id); err != nil {
		return r.translate("delete employee", err)
	}
	r.persist("delete employee")
	return nil
}

// persist writes the snapshot after a write when transaction saves are on.
// The write itself already succeeded, so a failed save is only logged.
func (r *EmployeeRepository) persist(op string) {
	if err := r.engine.SaveAfterTransaction(); err != nil {
		r.engine.log.Warn().Err(err).Str("op", op).Msg("Failed to save collection after write")
	}
}

// Ping always succeeds for the embedded engine unless ctx is done
func (r *EmployeeRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close stops background saves and writes a final snapshot
func (r *EmployeeRepository) Close(ctx context.Context) error {
	r.engine.StopBackgroundWorkers()
	if r.engine.DataFile() == "" {
		return nil
	}
	if err := r.engine.SaveToFile(r.engine.DataFile()); err != nil {
		return fmt.Errorf("failed to save %s: %w", r.engine.DataFile(), err)
	}
	return nil
}

// GetMemoryStats reports the engine's statistics for the health endpoint
func (r *EmployeeRepository) GetMemoryStats() map[string]interface{} {
	return r.engine.GetMemoryStats()
}

func (r *EmployeeRepository) translate(op string, err error) error {
	if errors.Is(err, ErrDocumentNotFound) || errors.Is(err, ErrCollectionNotFound) {
		return domain.ErrNotFound
	}
	return domain.NewStoreError(op, err)
}

func fieldsToDocument(fields domain.EmployeeFields) domain.Document {
	doc := domain.Document{}
	if fields.Name != nil {
		doc[domain.FieldName] = *fields.Name
	}
	if fields.Department != nil {
		doc[domain.FieldDepartment] = *fields.Department
	}
	if fields.Designation != nil {
		doc[domain.FieldDesignation] = *fields.Designation
	}
	if fields.Salary != nil {
		doc[domain.FieldSalary] = *fields.Salary
	}
	return doc
}

func documentToEmployee(doc domain.Document) domain.Employee {
	emp := domain.Employee{}
	emp.ID, _ = doc[domain.FieldID].(string)
	if v, ok := doc[domain.FieldName].(string); ok {
		emp.Name = &v
	}
	if v, ok := doc[domain.FieldDepartment].(string); ok {
		emp.Department = &v
	}
	if v, ok := doc[domain.FieldDesignation].(string); ok {
		emp.Designation = &v
	}
	if v, ok := ToFloat64(doc[domain.FieldSalary]); ok {
		emp.Salary = &v
	}
	return emp
}
