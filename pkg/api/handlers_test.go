package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/employee-api/pkg/domain"
)

func newTestRouter(store domain.EmployeeStore) *mux.Router {
	handler := NewHandler(store, "mock", zerolog.Nop())
	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestHandler_HandleFindAll(t *testing.T) {
	t.Run("lists employees", func(t *testing.T) {
		store := NewMockEmployeeStore()
		alice := store.Seed(domain.EmployeeFields{Name: domain.String("Alice")})
		bob := store.Seed(domain.EmployeeFields{Name: domain.String("Bob"), Salary: domain.Float(10)})

		w := serve(newTestRouter(store), http.MethodGet, "/employees", "")
		assert.Equal(t, http.StatusOK, w.Code)

		var employees []domain.Employee
		decodeBody(t, w, &employees)
		assert.Equal(t, []domain.Employee{alice, bob}, employees)
	})

	t.Run("empty store returns an empty array", func(t *testing.T) {
		w := serve(newTestRouter(NewMockEmployeeStore()), http.MethodGet, "/employees", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		store := NewMockEmployeeStore()
		store.Err = &domain.StoreError{Op: "find employees", Err: errors.New("connection refused")}

		w := serve(newTestRouter(store), http.MethodGet, "/employees", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var resp ErrorResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, "Error fetching employees", resp.Error)
		assert.Equal(t, "StoreError", resp.Details.Name)
		assert.Equal(t, "find employees: connection refused", resp.Details.Message)
	})
}

func TestHandler_HandleGetById(t *testing.T) {
	store := NewMockEmployeeStore()
	ann := store.Seed(domain.EmployeeFields{Name: domain.String("Ann"), Department: domain.String("Eng")})
	router := newTestRouter(store)

	tests := []struct {
		name           string
		id             string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "existing employee",
			id:             ann.ID,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"_id":"` + ann.ID + `","name":"Ann","department":"Eng"}`,
		},
		{
			name:           "unknown id",
			id:             domain.NewID(),
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"message":"Employee not found"}`,
		},
		{
			name:           "malformed id",
			id:             "12345",
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"message":"Employee not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, http.MethodGet, "/employees/"+tt.id, "")
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}

	t.Run("store failure", func(t *testing.T) {
		failing := NewMockEmployeeStore()
		failing.Err = errors.New("socket closed")

		w := serve(newTestRouter(failing), http.MethodGet, "/employees/"+domain.NewID(), "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Error fetching employee","details":{"message":"socket closed"}}`, w.Body.String())
	})
}

func TestHandler_HandleInsert(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedFields domain.EmployeeFields
		expectCreate   bool
	}{
		{
			name:           "full document",
			body:           `{"name":"Ann","department":"Eng","designation":"SWE","salary":90000}`,
			expectedStatus: http.StatusOK,
			expectedFields: domain.EmployeeFields{
				Name:        domain.String("Ann"),
				Department:  domain.String("Eng"),
				Designation: domain.String("SWE"),
				Salary:      domain.Float(90000),
			},
			expectCreate: true,
		},
		{
			name:           "partial document with unknown keys",
			body:           `{"name":"Bo","nickname":"B"}`,
			expectedStatus: http.StatusOK,
			expectedFields: domain.EmployeeFields{Name: domain.String("Bo")},
			expectCreate:   true,
		},
		{
			name:           "empty body",
			body:           "",
			expectedStatus: http.StatusOK,
			expectCreate:   true,
		},
		{
			name:           "malformed JSON",
			body:           `{"name":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "array body",
			body:           `[{"name":"Ann"}]`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "uncastable salary",
			body:           `{"salary":"lots"}`,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMockEmployeeStore()

			w := serve(newTestRouter(store), http.MethodPost, "/employees", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)

			if !tt.expectCreate {
				assert.Equal(t, 0, store.Calls()["create"])
				var resp ErrorResponse
				decodeBody(t, w, &resp)
				assert.NotEmpty(t, resp.Error)
				assert.NotEmpty(t, resp.Details.Message)
				return
			}

			assert.Equal(t, 1, store.Calls()["create"])
			assert.Equal(t, tt.expectedFields, store.GetLastFields())

			var created domain.Employee
			decodeBody(t, w, &created)
			assert.NotEmpty(t, created.ID)
			assert.Equal(t, tt.expectedFields, created.Fields())
		})
	}
}

func TestHandler_HandleInsert_Errors(t *testing.T) {
	t.Run("cast error envelope", func(t *testing.T) {
		w := serve(newTestRouter(NewMockEmployeeStore()), http.MethodPost, "/employees", `{"salary":"lots"}`)

		var resp ErrorResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, "Error creating employee", resp.Error)
		assert.Equal(t, "CastError", resp.Details.Name)
		assert.Contains(t, resp.Details.Message, "salary")
	})

	t.Run("store failure", func(t *testing.T) {
		store := NewMockEmployeeStore()
		store.Err = &domain.StoreError{Op: "insert employee", Err: errors.New("disk full")}

		w := serve(newTestRouter(store), http.MethodPost, "/employees", `{"name":"Ann"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var resp ErrorResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, "Error creating employee", resp.Error)
		assert.Equal(t, "insert employee: disk full", resp.Details.Message)
	})
}

func TestHandler_HandleUpdateById(t *testing.T) {
	newStore := func() (*MockEmployeeStore, domain.Employee) {
		store := NewMockEmployeeStore()
		ann := store.Seed(domain.EmployeeFields{
			Name:        domain.String("Ann"),
			Department:  domain.String("Eng"),
			Designation: domain.String("SWE"),
			Salary:      domain.Float(90000),
		})
		return store, ann
	}

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		t.Run(method+" merges fields", func(t *testing.T) {
			store, ann := newStore()

			w := serve(newTestRouter(store), method, "/employees/"+ann.ID, `{"salary":95000}`)
			assert.Equal(t, http.StatusOK, w.Code)

			var updated domain.Employee
			decodeBody(t, w, &updated)
			assert.Equal(t, ann.ID, updated.ID)
			assert.Equal(t, 95000.0, *updated.Salary)
			assert.Equal(t, "Ann", *updated.Name)
			assert.Equal(t, "Eng", *updated.Department)
			assert.Equal(t, "SWE", *updated.Designation)
		})
	}

	t.Run("empty body leaves document unchanged", func(t *testing.T) {
		store, ann := newStore()

		w := serve(newTestRouter(store), http.MethodPut, "/employees/"+ann.ID, "")
		assert.Equal(t, http.StatusOK, w.Code)

		var updated domain.Employee
		decodeBody(t, w, &updated)
		assert.Equal(t, ann, updated)
	})

	t.Run("unknown id", func(t *testing.T) {
		store, _ := newStore()

		w := serve(newTestRouter(store), http.MethodPut, "/employees/"+domain.NewID(), `{"name":"Zed"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Employee not found"}`, w.Body.String())
	})

	t.Run("malformed id", func(t *testing.T) {
		store, _ := newStore()

		w := serve(newTestRouter(store), http.MethodPut, "/employees/nope", `{"name":"Zed"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var resp ErrorResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, "Error updating employee", resp.Error)
		assert.Equal(t, "StoreError", resp.Details.Name)
		assert.Contains(t, resp.Details.Message, "invalid employee id")
	})

	t.Run("malformed body", func(t *testing.T) {
		store, ann := newStore()

		w := serve(newTestRouter(store), http.MethodPut, "/employees/"+ann.ID, `{"salary"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, store.Calls()["update"])
	})

	t.Run("uncastable body", func(t *testing.T) {
		store, ann := newStore()

		w := serve(newTestRouter(store), http.MethodPut, "/employees/"+ann.ID, `{"name":{"first":"Ann"}}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var resp ErrorResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, "Error updating employee", resp.Error)
		assert.Equal(t, "CastError", resp.Details.Name)
	})

	t.Run("store failure", func(t *testing.T) {
		store, ann := newStore()
		store.Err = errors.New("write conflict")

		w := serve(newTestRouter(store), http.MethodPut, "/employees/"+ann.ID, `{"name":"Zed"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Error updating employee","details":{"message":"write conflict"}}`, w.Body.String())
	})
}

func TestHandler_HandleDeleteById(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		store := NewMockEmployeeStore()
		ann := store.Seed(domain.EmployeeFields{Name: domain.String("Ann")})

		w := serve(newTestRouter(store), http.MethodDelete, "/employees/"+ann.ID, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Employee deleted successfully"}`, w.Body.String())
		assert.Equal(t, 0, store.Count())
	})

	t.Run("unknown id", func(t *testing.T) {
		w := serve(newTestRouter(NewMockEmployeeStore()), http.MethodDelete, "/employees/"+domain.NewID(), "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Employee not found"}`, w.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		store := NewMockEmployeeStore()
		store.Err = errors.New("not primary")

		w := serve(newTestRouter(store), http.MethodDelete, "/employees/"+domain.NewID(), "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var resp ErrorResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, "Error deleting employee", resp.Error)
		assert.Equal(t, "not primary", resp.Details.Message)
	})
}

func TestHandler_HandleHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		w := serve(newTestRouter(NewMockEmployeeStore()), http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, w.Code)

		var resp HealthResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "mock", resp.Backend)
	})

	t.Run("unhealthy", func(t *testing.T) {
		store := NewMockEmployeeStore()
		store.PingErr = errors.New("no reachable servers")

		w := serve(newTestRouter(store), http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var resp HealthResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Equal(t, "no reachable servers", resp.Error)
	})
}

func TestHandler_Preflight(t *testing.T) {
	router := newTestRouter(NewMockEmployeeStore())
	router.Use(mux.CORSMethodMiddleware(router))

	w := serve(router, http.MethodOptions, "/employees/"+domain.NewID(), "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	allowed := w.Header().Get("Access-Control-Allow-Methods")
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions} {
		assert.Contains(t, allowed, method)
	}
}

func TestDecodeFields_BodyTooLarge(t *testing.T) {
	store := NewMockEmployeeStore()
	big := `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`

	req := httptest.NewRequest(http.MethodPost, "/employees", bytes.NewBufferString(big))
	w := httptest.NewRecorder()
	newTestRouter(store).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, store.Calls()["create"])
}
