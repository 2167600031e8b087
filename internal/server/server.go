// Package server exposes the extraction pipeline over HTTP: a JSON
// API plus a small embedded browser UI.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"claimlens/internal/extract"
	"claimlens/internal/llm"
	"claimlens/internal/model"
	"claimlens/internal/validate"
)

//go:embed static/index.html
var staticFS embed.FS

// ClaimService is the single operation the server needs from the
// pipeline.
type ClaimService interface {
	GenerateClaims(ctx context.Context, sourceText string) ([]model.Claim, error)
}

// Server handles the HTTP surface. A nil service (no API key
// configured at startup) serves 503 on the generate endpoint instead
// of refusing to boot, so health checks and the UI still work.
type Server struct {
	svc ClaimService
	cfg model.ServerConfig
	mux *http.ServeMux
}

// New creates a Server over the given service.
func New(svc ClaimService, cfg model.ServerConfig) *Server {
	s := &Server{svc: svc, cfg: cfg, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /generate/claims", s.handleGenerate)
	return s
}

// Handler returns the root handler with CORS applied.
func (s *Server) Handler() http.Handler {
	return withCORS(s.mux)
}

// ListenAndServe runs the server until ctx is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type generateRequest struct {
	SourceText string `json:"source_text"`
}

type generateResponse struct {
	Claims []model.Claim `json:"claims"`
}

type errorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "UI unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.svc == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Detail: "LLM API key not configured",
			Code:   "not_configured",
		})
		return
	}

	var req generateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid JSON body", Code: "bad_request"})
		return
	}

	claims, err := s.svc.GenerateClaims(r.Context(), req.SourceText)
	if err != nil {
		status, code := classifyError(err)
		log.Printf("server: generate failed (%s): %v", code, err)
		writeJSON(w, status, errorResponse{Detail: err.Error(), Code: code})
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{Claims: claims})
}

// classifyError maps the pipeline's typed errors onto HTTP status
// codes and stable machine-readable codes: validation is the caller's
// fault, everything upstream is a bad gateway, each kind keeps its own
// code so operators can tell refused from broken from empty.
func classifyError(err error) (int, string) {
	var valErr *validate.InputValidationError
	if errors.As(err, &valErr) {
		return http.StatusUnprocessableEntity, "invalid_input"
	}
	var emptyErr *extract.EmptyExtractionError
	if errors.As(err, &emptyErr) {
		return http.StatusBadGateway, "empty_extraction"
	}
	var safetyErr *llm.SafetyBlockedError
	if errors.As(err, &safetyErr) {
		return http.StatusBadGateway, "safety_blocked"
	}
	var mismatchErr *llm.SchemaMismatchError
	if errors.As(err, &mismatchErr) {
		return http.StatusBadGateway, "schema_mismatch"
	}
	var provErr *llm.ProviderError
	if errors.As(err, &provErr) {
		return http.StatusBadGateway, "provider_error"
	}
	return http.StatusInternalServerError, "internal"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// withCORS allows browser calls from any origin, matching the
// permissive policy of the original deployment.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
