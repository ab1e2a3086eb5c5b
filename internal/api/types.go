package api

import (
	"time"

	"github.com/tecuops/dispatch-sla/internal/advisor"
	"github.com/tecuops/dispatch-sla/internal/eval"
	"github.com/tecuops/dispatch-sla/internal/report"
	"github.com/tecuops/dispatch-sla/internal/sla"
)

// DatasetResponse describes an accepted dataset upload
type DatasetResponse struct {
	RunID     string          `json:"runID,omitempty"`
	Source    string          `json:"source"`
	Rows      int             `json:"rows"`
	Delivered int             `json:"delivered"`
	Summary   *report.Summary `json:"summary"`
	NoData    bool            `json:"noData,omitempty"`
}

// IndicatorsResponse carries the headline summary. NoData is set when the
// (possibly filtered) delivered subset is empty; a nil summary with
// NoData=true is not the same as zeroed counters.
type IndicatorsResponse struct {
	Summary   *report.Summary `json:"summary"`
	NoData    bool            `json:"noData,omitempty"`
	Source    string          `json:"source"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// AggregateResponse is one aggregate table
type AggregateResponse struct {
	GroupBy string            `json:"groupBy"`
	Rows    []report.GroupRow `json:"rows"`
	NoData  bool              `json:"noData,omitempty"`
}

// OrdersResponse lists evaluated orders
type OrdersResponse struct {
	Orders []eval.EvaluatedOrder `json:"orders"`
	Total  int                   `json:"total"`
}

// RecommendationsResponse lists findings
type RecommendationsResponse struct {
	Findings []advisor.Finding `json:"findings"`
	NoData   bool              `json:"noData,omitempty"`
}

// RunResponse is one persisted run
type RunResponse struct {
	ID              string            `json:"id"`
	Source          string            `json:"source"`
	TotalOrders     int               `json:"totalOrders"`
	DeliveredOrders int               `json:"deliveredOrders"`
	CompliancePct   float64           `json:"compliancePct"`
	Summary         *report.Summary   `json:"summary"`
	Findings        []advisor.Finding `json:"findings"`
	Params          sla.Params        `json:"params"`
	ProcessedAt     time.Time         `json:"processedAt"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// RunsResponse lists persisted runs
type RunsResponse struct {
	Runs  []RunResponse `json:"runs"`
	Total int           `json:"total"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse represents readiness check response
type ReadyResponse struct {
	Ready   bool     `json:"ready"`
	Rows    int      `json:"rows"`
	Reasons []string `json:"reasons,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
