package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtnitsch/llmstxt-generator/internal/common"
)

const (
	UnpaidTTL = 24 * time.Hour
	PaidTTL   = 30 * 24 * time.Hour
)

var ErrRunNotFound = errors.New("run not found")

// Run is a stored document with its payment and expiry state.
type Run struct {
	ID             string
	Content        string
	ContentHash    string
	SiteURL        string
	Warnings       int
	EnrichmentUsed bool
	CreatedAt      time.Time
	ExpiresAt      time.Time
	PaidAt         *time.Time
}

// Paid reports whether the run has been paid for.
func (r *Run) Paid() bool { return r.PaidAt != nil }

// NewRun describes a document about to be stored.
type NewRun struct {
	Content        string
	SiteURL        string
	Warnings       int
	EnrichmentUsed bool
}

const runColumns = `id, content, content_hash, site_url, warnings, enrichment_used, created_at, expires_at, paid_at`

// CreateRun stores an unpaid run that expires after UnpaidTTL.
func (db *DB) CreateRun(in NewRun) (*Run, error) {
	now := db.clock()
	run := &Run{
		ID:             uuid.NewString(),
		Content:        in.Content,
		ContentHash:    common.ContentHash([]byte(in.Content)),
		SiteURL:        in.SiteURL,
		Warnings:       in.Warnings,
		EnrichmentUsed: in.EnrichmentUsed,
		CreatedAt:      fromMillis(now.UnixMilli()),
		ExpiresAt:      fromMillis(now.Add(UnpaidTTL).UnixMilli()),
	}

	_, err := db.Exec(`
		INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`, run.ID, run.Content, run.ContentHash, run.SiteURL, run.Warnings, run.EnrichmentUsed,
		run.CreatedAt.UnixMilli(), run.ExpiresAt.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}
	return run, nil
}

// FindActiveRun returns the run if it exists and has not expired, or nil.
func (db *DB) FindActiveRun(id string) (*Run, error) {
	if id == "" {
		return nil, nil
	}
	row := db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ? AND expires_at > ?`,
		id, db.clock().UnixMilli())
	return scanRun(row)
}

// FindRun returns the run regardless of expiry, or nil when it does not exist.
func (db *DB) FindRun(id string) (*Run, error) {
	if id == "" {
		return nil, nil
	}
	row := db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// MarkPaid records payment now and extends expiry to PaidTTL from now.
func (db *DB) MarkPaid(id string) (*Run, error) {
	now := db.clock()
	res, err := db.Exec(`UPDATE runs SET paid_at = ?, expires_at = ? WHERE id = ?`,
		now.UnixMilli(), now.Add(PaidTTL).UnixMilli(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to mark run paid: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to mark run paid: %w", err)
	} else if n == 0 {
		return nil, ErrRunNotFound
	}
	return db.FindRun(id)
}

// DeleteExpired removes every run whose expiry has passed and returns how
// many were deleted.
func (db *DB) DeleteExpired() (int64, error) {
	res, err := db.Exec(`DELETE FROM runs WHERE expires_at <= ?`, db.clock().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted runs: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run                  Run
		siteURL              sql.NullString
		createdAt, expiresAt int64
		paidAt               sql.NullInt64
	)
	err := row.Scan(&run.ID, &run.Content, &run.ContentHash, &siteURL, &run.Warnings,
		&run.EnrichmentUsed, &createdAt, &expiresAt, &paidAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.SiteURL = siteURL.String
	run.CreatedAt = fromMillis(createdAt)
	run.ExpiresAt = fromMillis(expiresAt)
	if paidAt.Valid {
		t := fromMillis(paidAt.Int64)
		run.PaidAt = &t
	}
	return &run, nil
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
