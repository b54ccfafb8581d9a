package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/minhnx/txtriage/internal/core/classify"
	"github.com/minhnx/txtriage/internal/core/domain"
	"github.com/minhnx/txtriage/internal/diagnose"
	"github.com/minhnx/txtriage/internal/infra/storage"
	"github.com/minhnx/txtriage/internal/metrics"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Server provides the HTTP API: fast-path classification, full analysis,
// stored reports, health and metrics.
type Server struct {
	normalizer *classify.Normalizer
	repo       storage.ReportRepository
	diagnoser  *diagnose.Diagnoser // nil when no inference API is configured
	db         HealthChecker       // nil in memory mode
	cache      HealthChecker       // nil when redis is disabled
	server     *http.Server
}

// NewServer creates the API server. diagnoser, db, and cache may be nil.
func NewServer(
	normalizer *classify.Normalizer,
	repo storage.ReportRepository,
	diagnoser *diagnose.Diagnoser,
	db HealthChecker,
	cache HealthChecker,
	port int,
) *Server {
	mux := http.NewServeMux()
	s := &Server{
		normalizer: normalizer,
		repo:       repo,
		diagnoser:  diagnoser,
		db:         db,
		cache:      cache,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("POST /v1/classify", s.instrument("/v1/classify", s.handleClassify))
	mux.HandleFunc("POST /v1/analyze", s.instrument("/v1/analyze", s.handleAnalyze))
	mux.HandleFunc("GET /v1/reports/{id}", s.instrument("/v1/reports/{id}", s.handleGetReport))
	mux.HandleFunc("GET /v1/reports", s.instrument("/v1/reports", s.handleListReports))
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(path string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		metrics.HTTPRequestsTotal.WithLabelValues(path, strconv.Itoa(rec.status)).Inc()
	}
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	report, ok := decodeReport(w, r)
	if !ok {
		return
	}

	result := classify.Classify(report)
	metrics.ClassificationsTotal.WithLabelValues(result.Key).Inc()
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	report, ok := decodeReport(w, r)
	if !ok {
		return
	}

	txCtx := s.normalizer.Normalize(report)
	metrics.ClassificationsTotal.WithLabelValues(txCtx.ErrorCategory.Key).Inc()

	var diagnosis *domain.Diagnosis
	skipLLM := r.URL.Query().Get("skip_llm") == "1"
	if s.diagnoser != nil && !skipLLM {
		var err error
		diagnosis, err = s.diagnoser.Diagnose(r.Context(), &txCtx)
		if err != nil {
			writeError(w, http.StatusBadGateway, fmt.Sprintf("diagnosis failed: %v", err))
			return
		}
	}

	triage := &domain.TriageReport{
		ID:          uuid.New().String(),
		Context:     txCtx,
		CategoryKey: txCtx.ErrorCategory.Key,
		Diagnosis:   diagnosis,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Save(r.Context(), triage); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to save report: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, triage)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	report, err := s.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if report == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("report %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	reports, err := s.repo.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	deps := map[string]string{}
	healthy := true

	check := func(name string, c HealthChecker) {
		if c == nil {
			deps[name] = "disabled"
			return
		}
		if err := c.Health(r.Context()); err != nil {
			deps[name] = "down"
			healthy = false
			return
		}
		deps[name] = "up"
	}
	check("database", s.db)
	check("redis", s.cache)

	if s.diagnoser != nil {
		deps["llm"] = "configured"
	} else {
		deps["llm"] = "disabled"
	}

	status := "healthy"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{"status": status, "dependencies": deps})
}

func decodeReport(w http.ResponseWriter, r *http.Request) (*domain.FailureReport, bool) {
	var report domain.FailureReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return nil, false
	}
	return &report, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
