package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/adfharrison1/employee-api/pkg/api"
	"github.com/adfharrison1/employee-api/pkg/domain"
)

const requestIDHeader = "X-Request-ID"

// Server holds references to the store, router, etc.
type Server struct {
	router     *mux.Router
	handler    *api.Handler
	store      domain.EmployeeStore
	log        zerolog.Logger
	httpServer *http.Server
}

// NewServer creates a new instance of Server listening on addr around an
// opened store. backend names the store in health responses.
func NewServer(addr string, store domain.EmployeeStore, backend string, log zerolog.Logger) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		handler: api.NewHandler(store, backend, log),
		store:   store,
		log:     log,
	}
	s.handler.RegisterRoutes(s.router)
	s.router.Use(mux.CORSMethodMiddleware(s.router))

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hlog.FromRequest(r).Warn().Msgf("No route found for %s %s", r.Method, r.URL.Path)
		api.WriteJSONError(w, http.StatusNotFound, "Route not found",
			fmt.Errorf("no route for %s %s", r.Method, r.URL.Path))
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hlog.FromRequest(r).Warn().Msgf("Method %s not allowed for %s", r.Method, r.URL.Path)
		api.WriteJSONError(w, http.StatusMethodNotAllowed, "Method not allowed",
			fmt.Errorf("method %s not allowed for %s", r.Method, r.URL.Path))
	})

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Router exposes the router wrapped in the middleware chain. The chain
// sits outside mux so unmatched routes are logged and get CORS headers too.
func (s *Server) Router() http.Handler {
	var h http.Handler = s.router
	h = hlog.AccessHandler(accessLog)(h)
	h = requestIDMiddleware(h)
	h = hlog.NewHandler(s.log)(h)
	h = corsMiddleware(h)
	return h
}

// ListenAndServe serves the API until Close is called. It returns nil at
// once if Close already ran.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("Starting employee API server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Close drains in-flight requests, then closes the store. Every step runs
// even if an earlier one fails.
func (s *Server) Close(ctx context.Context) error {
	var result *multierror.Error

	if err := s.httpServer.Shutdown(ctx); err != nil {
		result = multierror.Append(result, fmt.Errorf("http shutdown: %w", err))
	}
	if err := s.store.Close(ctx); err != nil {
		result = multierror.Append(result, fmt.Errorf("store close: %w", err))
	}

	return result.ErrorOrNil()
}

// requestIDMiddleware echoes or generates X-Request-ID and adds it to the
// request logger.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		l := zerolog.Ctx(r.Context())
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("request_id", id)
		})
		next.ServeHTTP(w, r)
	})
}

// accessLog logs the method, URL path, status and duration for each request
func accessLog(r *http.Request, status, size int, duration time.Duration) {
	event := hlog.FromRequest(r).Info()
	if status >= http.StatusInternalServerError {
		event = hlog.FromRequest(r).Error()
	}
	event.
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("Request handled")
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		header.Set("Access-Control-Expose-Headers", requestIDHeader)
		next.ServeHTTP(w, r)
	})
}
