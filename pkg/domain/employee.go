package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Employee field keys as stored in documents and rendered in JSON
const (
	FieldID          = "_id"
	FieldName        = "name"
	FieldDepartment  = "department"
	FieldDesignation = "designation"
	FieldSalary      = "salary"
)

// Employee is the single resource served by the API
type Employee struct {
	ID          string   `json:"_id"`
	Name        *string  `json:"name,omitempty"`
	Department  *string  `json:"department,omitempty"`
	Designation *string  `json:"designation,omitempty"`
	Salary      *float64 `json:"salary,omitempty"`
}

// Fields returns the employee's data fields without the id
func (e Employee) Fields() EmployeeFields {
	return EmployeeFields{
		Name:        e.Name,
		Department:  e.Department,
		Designation: e.Designation,
		Salary:      e.Salary,
	}
}

// EmployeeFields is a partial employee: a nil field was not supplied.
// It is both the create payload and the merge-update payload.
type EmployeeFields struct {
	Name        *string  `json:"name,omitempty"`
	Department  *string  `json:"department,omitempty"`
	Designation *string  `json:"designation,omitempty"`
	Salary      *float64 `json:"salary,omitempty"`
}

// IsEmpty reports whether no field was supplied
func (f EmployeeFields) IsEmpty() bool {
	return f.Name == nil && f.Department == nil && f.Designation == nil && f.Salary == nil
}

// Apply merges the supplied fields into e, leaving the others untouched
func (f EmployeeFields) Apply(e *Employee) {
	if f.Name != nil {
		e.Name = f.Name
	}
	if f.Department != nil {
		e.Department = f.Department
	}
	if f.Designation != nil {
		e.Designation = f.Designation
	}
	if f.Salary != nil {
		e.Salary = f.Salary
	}
}

// UnmarshalJSON decodes a request body, coercing scalar values to the
// declared field types. Unknown keys are ignored and null means absent.
func (f *EmployeeFields) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var decoded EmployeeFields
	var err error
	if decoded.Name, err = coerceText(FieldName, raw[FieldName]); err != nil {
		return err
	}
	if decoded.Department, err = coerceText(FieldDepartment, raw[FieldDepartment]); err != nil {
		return err
	}
	if decoded.Designation, err = coerceText(FieldDesignation, raw[FieldDesignation]); err != nil {
		return err
	}
	if decoded.Salary, err = coerceNumber(FieldSalary, raw[FieldSalary]); err != nil {
		return err
	}

	*f = decoded
	return nil
}

func decodeScalar(raw json.RawMessage) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func coerceText(field string, raw json.RawMessage) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	v, err := decodeScalar(raw)
	if err != nil {
		return nil, err
	}

	var s string
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		s = val
	case json.Number:
		s = val.String()
	case bool:
		s = strconv.FormatBool(val)
	default:
		return nil, &CastError{Field: field, Kind: "string", Value: v}
	}
	return &s, nil
}

func coerceNumber(field string, raw json.RawMessage) (*float64, error) {
	if raw == nil {
		return nil, nil
	}
	v, err := decodeScalar(raw)
	if err != nil {
		return nil, err
	}

	var n float64
	switch val := v.(type) {
	case nil:
		return nil, nil
	case json.Number:
		n, err = val.Float64()
		if err != nil {
			return nil, &CastError{Field: field, Kind: "Number", Value: val.String()}
		}
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return nil, nil
		}
		n, err = strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, &CastError{Field: field, Kind: "Number", Value: val}
		}
	case bool:
		if val {
			n = 1
		}
	default:
		return nil, &CastError{Field: field, Kind: "Number", Value: v}
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, &CastError{Field: field, Kind: "Number", Value: v}
	}
	return &n, nil
}

// NewID returns a fresh object id in its hex form
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ParseID validates an employee id and returns the object id it encodes
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}

// String returns a pointer to s, for building EmployeeFields literals
func String(s string) *string {
	return &s
}

// Float returns a pointer to f, for building EmployeeFields literals
func Float(f float64) *float64 {
	return &f
}
