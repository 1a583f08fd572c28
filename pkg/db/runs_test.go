package db

import (
	"testing"
	"time"

	"github.com/dtnitsch/llmstxt-generator/internal/common"
)

// setupTestDB creates an in-memory SQLite database with a controllable clock.
func setupTestDB(t *testing.T) (*DB, *time.Time) {
	t.Helper()

	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	database.SetMaxOpenConns(1)

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	database.SetClock(func() time.Time { return now })
	return database, &now
}

func TestCreateRun(t *testing.T) {
	db, now := setupTestDB(t)
	defer db.Close()

	run, err := db.CreateRun(NewRun{Content: "# Acme\n\n> Sync", SiteURL: "https://acme.com", Warnings: 2})
	if err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	if len(run.ID) != 36 {
		t.Errorf("CreateRun() id = %q, want uuid", run.ID)
	}
	if run.Paid() {
		t.Error("new run should be unpaid")
	}
	if want := now.Add(UnpaidTTL); !run.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", run.ExpiresAt, want)
	}
	if run.ContentHash != common.ContentHash([]byte("# Acme\n\n> Sync")) {
		t.Errorf("ContentHash = %q", run.ContentHash)
	}

	got, err := db.FindRun(run.ID)
	if err != nil {
		t.Fatalf("FindRun() error = %v", err)
	}
	if got == nil || got.Content != run.Content || got.SiteURL != "https://acme.com" || got.Warnings != 2 {
		t.Errorf("FindRun() = %+v, want stored run", got)
	}
	if !got.CreatedAt.Equal(run.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, run.CreatedAt)
	}
}

func TestFindActiveRun(t *testing.T) {
	db, now := setupTestDB(t)
	defer db.Close()

	run, err := db.CreateRun(NewRun{Content: "doc"})
	if err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	tests := []struct {
		name    string
		id      string
		advance time.Duration
		want    bool
	}{
		{name: "fresh run", id: run.ID, advance: 0, want: true},
		{name: "just before expiry", id: run.ID, advance: UnpaidTTL - time.Millisecond, want: true},
		{name: "at expiry", id: run.ID, advance: UnpaidTTL, want: false},
		{name: "unknown id", id: "missing", advance: 0, want: false},
		{name: "empty id", id: "", advance: 0, want: false},
	}

	start := *now
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			*now = start.Add(tt.advance)

			got, err := db.FindActiveRun(tt.id)
			if err != nil {
				t.Fatalf("FindActiveRun() error = %v", err)
			}
			if (got != nil) != tt.want {
				t.Errorf("FindActiveRun() = %v, want found %v", got, tt.want)
			}
		})
	}

	*now = start.Add(48 * time.Hour)
	expired, err := db.FindRun(run.ID)
	if err != nil || expired == nil {
		t.Errorf("FindRun() should return expired runs, got %v, %v", expired, err)
	}
}

func TestMarkPaid_ExtendsFromPaidMoment(t *testing.T) {
	db, now := setupTestDB(t)
	defer db.Close()

	run, err := db.CreateRun(NewRun{Content: "doc"})
	if err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	*now = now.Add(6 * time.Hour)
	paidMoment := *now

	paid, err := db.MarkPaid(run.ID)
	if err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}
	if !paid.Paid() || !paid.PaidAt.Equal(paidMoment) {
		t.Errorf("PaidAt = %v, want %v", paid.PaidAt, paidMoment)
	}
	if want := paidMoment.Add(PaidTTL); !paid.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", paid.ExpiresAt, want)
	}

	*now = paidMoment.Add(29 * 24 * time.Hour)
	active, err := db.FindActiveRun(run.ID)
	if err != nil || active == nil {
		t.Errorf("paid run should still be active after 29 days, got %v, %v", active, err)
	}
}

func TestMarkPaid_UnknownRun(t *testing.T) {
	db, _ := setupTestDB(t)
	defer db.Close()

	if _, err := db.MarkPaid("missing"); err != ErrRunNotFound {
		t.Errorf("MarkPaid() error = %v, want ErrRunNotFound", err)
	}
}

func TestDeleteExpired(t *testing.T) {
	db, now := setupTestDB(t)
	defer db.Close()

	start := *now
	old, _ := db.CreateRun(NewRun{Content: "old"})
	paid, _ := db.CreateRun(NewRun{Content: "paid"})
	if _, err := db.MarkPaid(paid.ID); err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}

	*now = start.Add(12 * time.Hour)
	fresh, _ := db.CreateRun(NewRun{Content: "fresh"})

	*now = start.Add(UnpaidTTL)
	deleted, err := db.DeleteExpired()
	if err != nil {
		t.Fatalf("DeleteExpired() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("DeleteExpired() = %d, want 1", deleted)
	}

	for _, tc := range []struct {
		id   string
		want bool
	}{
		{old.ID, false},
		{paid.ID, true},
		{fresh.ID, true},
	} {
		got, err := db.FindRun(tc.id)
		if err != nil {
			t.Fatalf("FindRun() error = %v", err)
		}
		if (got != nil) != tc.want {
			t.Errorf("FindRun(%s) present = %v, want %v", tc.id, got != nil, tc.want)
		}
	}
}

func TestOpen_CreatesSchema(t *testing.T) {
	path := t.TempDir() + "/nested/llmstxt.db"

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
	if _, err := db.CreateRun(NewRun{Content: "doc"}); err != nil {
		t.Errorf("CreateRun() after Open error = %v", err)
	}

	// reopening finds the existing table
	db2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	db2.Close()
}
