package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA temp_store = MEMORY;

-- Runs: one generated document plus its payment and expiry state.
-- Timestamps are unix milliseconds.
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    content TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    site_url TEXT,
    warnings INTEGER DEFAULT 0,
    enrichment_used BOOLEAN DEFAULT 0,
    created_at INTEGER NOT NULL,
    expires_at INTEGER NOT NULL,
    paid_at INTEGER
);

CREATE INDEX IF NOT EXISTS idx_runs_expires_at ON runs(expires_at);
`
