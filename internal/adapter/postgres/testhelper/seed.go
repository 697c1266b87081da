package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ShubhamPP04/todo-list/internal/domain"
)

// SeedRecord inserts a record directly, bypassing the repository, and
// returns it as saved.
func SeedRecord(t *testing.T, pool *pgxpool.Pool, rec domain.Record) domain.Record {
	t.Helper()
	ctx := context.Background()

	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO records (id, text, completed, owner_id, created_at, origin, saved_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Text, rec.Completed, rec.OwnerID, rec.CreatedAt, string(rec.Origin), rec.SavedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedRecord insert: %v", err)
	}

	return rec
}

// TruncateAll clears the record tables so a test starts from an empty store.
func TruncateAll(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `TRUNCATE records, creation_dates`)
	if err != nil {
		t.Fatalf("testhelper: truncate: %v", err)
	}
}
