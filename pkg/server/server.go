// Package server exposes stored layout documents over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /documents
//	POST   /documents                       create an empty document
//	PUT    /documents/{id}                  import a complete document
//	GET    /documents/{id}                  document, boxes and violations
//	DELETE /documents/{id}
//	POST   /documents/{id}/ops              apply a batch of operations
//	GET    /documents/{id}/render           ?format=text|boxes|dot|svg&width=&height=&selected=&detailed=
//	GET    /documents/{id}/locations/{region}  ?direction= adds the relative location
//
// Errors are JSON objects carrying the structured error code:
//
//	{"error":{"code":"REGION_NOT_FOUND","message":"region \"x\" is not in the grid"}}
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/splitgrid/pkg/buildinfo"
	errs "github.com/matzehuels/splitgrid/pkg/errors"
	"github.com/matzehuels/splitgrid/pkg/observability"
	"github.com/matzehuels/splitgrid/pkg/workspace"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server serves the HTTP API.
type Server struct {
	runner *workspace.Runner
	logger *log.Logger
	router chi.Router
}

// New builds the router. A nil logger uses the runner's logger.
func New(runner *workspace.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{runner: runner, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/documents", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Put("/", s.handlePut)
			r.Delete("/", s.handleDelete)
			r.Post("/ops", s.handleOps)
			r.Get("/render", s.handleRender)
			r.Get("/locations/{region}", s.handleLocation)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, ww.Status(), time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	msg := errs.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	if errs.IsNotFound(err) {
		return http.StatusNotFound
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidLocation, errs.ErrCodeIndexOutOfRange,
		errs.ErrCodeInvalidDirection, errs.ErrCodeInvalidDescription, errs.ErrCodeInvalidRegion,
		errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errs.ErrCodeDuplicateRegion:
		return http.StatusConflict
	case errs.ErrCodeStorage, errs.ErrCodeTimeout:
		return http.StatusServiceUnavailable
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}
