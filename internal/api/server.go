package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tecuops/dispatch-sla/internal/advisor"
	"github.com/tecuops/dispatch-sla/internal/dataset"
	"github.com/tecuops/dispatch-sla/internal/eval"
	"github.com/tecuops/dispatch-sla/internal/ingest"
	"github.com/tecuops/dispatch-sla/internal/report"
	"github.com/tecuops/dispatch-sla/internal/storage"
)

// Server is the HTTP API server
type Server struct {
	evaluator *eval.Evaluator
	engine    *advisor.Engine
	datasets  *dataset.Store
	runs      storage.RunStorage // nil disables the audit trail
	server    *http.Server
}

// NewServer creates a new API server
func NewServer(evaluator *eval.Evaluator, engine *advisor.Engine, datasets *dataset.Store, runs storage.RunStorage, addr string) *Server {
	s := &Server{
		evaluator: evaluator,
		engine:    engine,
		datasets:  datasets,
		runs:      runs,
	}

	mux := http.NewServeMux()

	// Health endpoints
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	// Dataset endpoints
	mux.HandleFunc("/v1/dataset", s.handleDataset)
	mux.HandleFunc("/v1/indicators", s.handleIndicators)
	mux.HandleFunc("/v1/aggregates/", s.handleAggregates)
	mux.HandleFunc("/v1/orders/noncompliant", s.handleNonCompliant)
	mux.HandleFunc("/v1/recommendations", s.handleRecommendations)

	// Audit endpoints
	mux.HandleFunc("/v1/runs", s.handleRuns)
	mux.HandleFunc("/v1/runs/", s.handleRunGet)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      loggingMiddleware(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("starting API server")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down API server")
	return s.server.Shutdown(ctx)
}

// Process evaluates a batch of raw orders, installs the snapshot as the
// current dataset and persists a run record. Used by both the upload
// handler and startup preloading.
func (s *Server) Process(ctx context.Context, source string, orders []eval.Order) (*dataset.Snapshot, string, error) {
	evaluated, err := s.evaluator.EvaluateAll(ctx, orders)
	if err != nil {
		return nil, "", fmt.Errorf("evaluate dataset: %w", err)
	}

	snap := &dataset.Snapshot{
		Source:    source,
		Orders:    evaluated,
		Summary:   report.Summarize(evaluated),
		Findings:  s.engine.Evaluate(evaluated),
		Params:    s.evaluator.Params(),
		UpdatedAt: time.Now(),
	}
	s.datasets.Set(snap)

	runID := ""
	if s.runs != nil {
		run := &storage.RunRecord{
			Source:          source,
			TotalOrders:     len(evaluated),
			DeliveredOrders: len(report.Delivered(evaluated)),
			Summary:         snap.Summary,
			Findings:        snap.Findings,
			Params:          snap.Params,
			ProcessedAt:     snap.UpdatedAt,
		}
		if snap.Summary != nil {
			run.CompliancePct = snap.Summary.CompliancePct
		}
		if err := s.runs.StoreRun(run); err != nil {
			// The audit trail is best-effort; the dataset is already live.
			log.Warn().Err(err).Str("source", source).Msg("failed to store run record")
		} else {
			runID = run.ID
		}
	}

	return snap, runID, nil
}

// handleHealth handles GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// handleReady handles GET /readyz
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, ok := s.datasets.Get()

	ready := ok
	reasons := []string{}
	rows := 0
	if ok {
		rows = len(snap.Orders)
	} else {
		reasons = append(reasons, "no dataset loaded")
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, ReadyResponse{
		Ready:   ready,
		Rows:    rows,
		Reasons: reasons,
	})
}

// handleDataset handles POST /v1/dataset: a CSV upload, either as a
// multipart "file" field or as the raw request body.
func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	source := "upload"
	var body io.Reader = r.Body

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("missing file field: %v", err))
			return
		}
		defer file.Close()
		body = file
		source = header.Filename
	}

	orders, err := ingest.ReadCSV(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid dataset: %v", err))
		return
	}

	snap, runID, err := s.Process(r.Context(), source, orders)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, DatasetResponse{
		RunID:     runID,
		Source:    snap.Source,
		Rows:      len(snap.Orders),
		Delivered: len(report.Delivered(snap.Orders)),
		Summary:   snap.Summary,
		NoData:    snap.Summary == nil,
	})
}

// handleIndicators handles GET /v1/indicators with optional filter query
// parameters (months, carriers, cities, minTransitDeviation).
func (s *Server) handleIndicators(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, ok := s.datasets.Get()
	if !ok {
		respondError(w, http.StatusNotFound, "no dataset loaded")
		return
	}

	filter := parseFilter(r)
	orders := filter.Apply(snap.Orders)
	summary := report.Summarize(orders)

	respondJSON(w, http.StatusOK, IndicatorsResponse{
		Summary:   summary,
		NoData:    summary == nil,
		Source:    snap.Source,
		UpdatedAt: snap.UpdatedAt,
	})
}

// handleAggregates handles GET /v1/aggregates/{city|carrier|month}
func (s *Server) handleAggregates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, ok := s.datasets.Get()
	if !ok {
		respondError(w, http.StatusNotFound, "no dataset loaded")
		return
	}

	dim := strings.TrimPrefix(r.URL.Path, "/v1/aggregates/")
	orders := parseFilter(r).Apply(snap.Orders)

	var rows []report.GroupRow
	switch dim {
	case "city":
		rows = report.ByCity(orders)
	case "carrier":
		rows = report.ByCarrier(orders)
	case "month":
		rows = report.ByMonth(orders)
	default:
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown grouping %q, expected city, carrier or month", dim))
		return
	}

	respondJSON(w, http.StatusOK, AggregateResponse{
		GroupBy: dim,
		Rows:    rows,
		NoData:  rows == nil,
	})
}

// handleNonCompliant handles GET /v1/orders/noncompliant
func (s *Server) handleNonCompliant(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, ok := s.datasets.Get()
	if !ok {
		respondError(w, http.StatusNotFound, "no dataset loaded")
		return
	}

	orders := report.NonCompliant(parseFilter(r).Apply(snap.Orders))
	respondJSON(w, http.StatusOK, OrdersResponse{Orders: orders, Total: len(orders)})
}

// handleRecommendations handles GET /v1/recommendations
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, ok := s.datasets.Get()
	if !ok {
		respondError(w, http.StatusNotFound, "no dataset loaded")
		return
	}

	filter := parseFilter(r)
	findings := snap.Findings
	if !filter.IsZero() {
		findings = s.engine.Evaluate(filter.Apply(snap.Orders))
	}

	respondJSON(w, http.StatusOK, RecommendationsResponse{
		Findings: findings,
		NoData:   findings == nil,
	})
}

// handleRuns handles GET /v1/runs
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.runs == nil {
		respondError(w, http.StatusServiceUnavailable, "run storage not configured")
		return
	}

	query := r.URL.Query()
	filter := storage.RunFilter{
		Source: query.Get("source"),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	if startTimeStr := query.Get("startTime"); startTimeStr != "" {
		if startTime, err := time.Parse(time.RFC3339, startTimeStr); err == nil {
			filter.StartTime = &startTime
		}
	}

	if endTimeStr := query.Get("endTime"); endTimeStr != "" {
		if endTime, err := time.Parse(time.RFC3339, endTimeStr); err == nil {
			filter.EndTime = &endTime
		}
	}

	records, err := s.runs.QueryRuns(filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to query runs: %v", err))
		return
	}

	runs := make([]RunResponse, len(records))
	for i, record := range records {
		runs[i] = toRunResponse(&record)
	}

	respondJSON(w, http.StatusOK, RunsResponse{Runs: runs, Total: len(runs)})
}

// handleRunGet handles GET /v1/runs/{id}
func (s *Server) handleRunGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.runs == nil {
		respondError(w, http.StatusServiceUnavailable, "run storage not configured")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/runs/")
	if id == "" {
		respondError(w, http.StatusBadRequest, "run ID required")
		return
	}

	record, err := s.runs.GetRun(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get run: %v", err))
		return
	}
	if record == nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("run not found: %s", id))
		return
	}

	respondJSON(w, http.StatusOK, toRunResponse(record))
}

// parseFilter builds a dataset filter from query parameters. List values
// are comma-separated.
func parseFilter(r *http.Request) report.Filter {
	query := r.URL.Query()
	filter := report.Filter{
		Months:   splitParam(query.Get("months")),
		Carriers: splitParam(query.Get("carriers")),
		Cities:   splitParam(query.Get("cities")),
	}

	if raw := query.Get("minTransitDeviation"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.MinTransitDeviation = &v
		}
	}

	return filter
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func toRunResponse(record *storage.RunRecord) RunResponse {
	return RunResponse{
		ID:              record.ID,
		Source:          record.Source,
		TotalOrders:     record.TotalOrders,
		DeliveredOrders: record.DeliveredOrders,
		CompliancePct:   record.CompliancePct,
		Summary:         record.Summary,
		Findings:        record.Findings,
		Params:          record.Params,
		ProcessedAt:     record.ProcessedAt,
		CreatedAt:       record.CreatedAt,
	}
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
