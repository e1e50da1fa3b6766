package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/adfharrison1/employee-api/pkg/domain"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// decodeFields reads the employee fields from the request body. An empty
// body is an empty field set.
func decodeFields(w http.ResponseWriter, r *http.Request) (domain.EmployeeFields, error) {
	var fields domain.EmployeeFields

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fields, fmt.Errorf("failed to read body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return fields, nil
	}

	if err := json.Unmarshal(body, &fields); err != nil {
		return fields, err
	}
	return fields, nil
}

// isCastError reports whether a decode failure came from type coercion
// rather than malformed JSON
func isCastError(err error) bool {
	var castErr *domain.CastError
	return errors.As(err, &castErr)
}
