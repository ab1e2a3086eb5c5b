package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tecuops/dispatch-sla/internal/storage"
)

// Store implements RunStorage using SQLite
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite storage with the given database path
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// StoreRun persists a run record, assigning a UUID when the ID is empty.
func (s *Store) StoreRun(run *storage.RunRecord) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	findingsJSON, err := json.Marshal(run.Findings)
	if err != nil {
		return fmt.Errorf("failed to marshal findings: %w", err)
	}

	paramsJSON, err := json.Marshal(run.Params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}

	query := `
		INSERT INTO runs (
			id, source, total_orders, delivered_orders, compliance_pct,
			summary_json, findings_json, params_json, processed_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.Exec(query,
		run.ID,
		run.Source,
		run.TotalOrders,
		run.DeliveredOrders,
		run.CompliancePct,
		string(summaryJSON),
		string(findingsJSON),
		string(paramsJSON),
		run.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store run: %w", err)
	}

	return nil
}

// QueryRuns retrieves run records with optional filtering
func (s *Store) QueryRuns(filter storage.RunFilter) ([]storage.RunRecord, error) {
	query := `
		SELECT id, source, total_orders, delivered_orders, compliance_pct,
		       summary_json, findings_json, params_json, processed_at, created_at
		FROM runs
		WHERE 1=1
	`
	args := []interface{}{}

	if filter.Source != "" {
		query += " AND source = ?"
		args = append(args, filter.Source)
	}

	if filter.StartTime != nil {
		query += " AND processed_at >= ?"
		args = append(args, filter.StartTime)
	}

	if filter.EndTime != nil {
		query += " AND processed_at <= ?"
		args = append(args, filter.EndTime)
	}

	query += " ORDER BY processed_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	} else {
		query += " LIMIT 100" // Default limit
	}

	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []storage.RunRecord
	for rows.Next() {
		record, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// GetRun retrieves a single run by ID; nil when not found.
func (s *Store) GetRun(id string) (*storage.RunRecord, error) {
	query := `
		SELECT id, source, total_orders, delivered_orders, compliance_pct,
		       summary_json, findings_json, params_json, processed_at, created_at
		FROM runs
		WHERE id = ?
	`

	row := s.db.QueryRow(query, id)
	record, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func scanRun(scan func(dest ...interface{}) error) (*storage.RunRecord, error) {
	var record storage.RunRecord
	var summaryJSON, findingsJSON, paramsJSON string

	err := scan(
		&record.ID,
		&record.Source,
		&record.TotalOrders,
		&record.DeliveredOrders,
		&record.CompliancePct,
		&summaryJSON,
		&findingsJSON,
		&paramsJSON,
		&record.ProcessedAt,
		&record.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	if err := json.Unmarshal([]byte(summaryJSON), &record.Summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}
	if err := json.Unmarshal([]byte(findingsJSON), &record.Findings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal findings: %w", err)
	}
	if err := json.Unmarshal([]byte(paramsJSON), &record.Params); err != nil {
		return nil, fmt.Errorf("failed to unmarshal params: %w", err)
	}

	return &record, nil
}
