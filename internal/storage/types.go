package storage

import (
	"time"

	"github.com/tecuops/dispatch-sla/internal/advisor"
	"github.com/tecuops/dispatch-sla/internal/report"
	"github.com/tecuops/dispatch-sla/internal/sla"
)

// RunStorage defines the interface for persisting processed dataset runs
type RunStorage interface {
	// StoreRun persists a run record; an empty ID gets one assigned
	StoreRun(run *RunRecord) error

	// QueryRuns retrieves run records with optional filtering
	QueryRuns(filter RunFilter) ([]RunRecord, error)

	// GetRun retrieves a single run by ID
	GetRun(id string) (*RunRecord, error)

	// Close closes the storage connection
	Close() error
}

// RunFilter defines filtering options for run queries
type RunFilter struct {
	Source    string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int
	Offset    int
}

// RunRecord is the audit trail entry for one processed dataset.
type RunRecord struct {
	ID              string
	Source          string
	TotalOrders     int
	DeliveredOrders int
	CompliancePct   float64
	Summary         *report.Summary // nil for runs without delivered orders
	Findings        []advisor.Finding
	Params          sla.Params
	ProcessedAt     time.Time
	CreatedAt       time.Time
}
