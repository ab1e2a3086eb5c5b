package sqlite

// Schema defines the SQLite database schema
const Schema = `
-- Processed dataset runs
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	total_orders INTEGER NOT NULL,
	delivered_orders INTEGER NOT NULL,
	compliance_pct REAL NOT NULL,
	summary_json TEXT NOT NULL,
	findings_json TEXT NOT NULL,
	params_json TEXT NOT NULL,
	processed_at TIMESTAMP NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
CREATE INDEX IF NOT EXISTS idx_runs_processed_at ON runs(processed_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
`
