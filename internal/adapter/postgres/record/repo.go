// Package record implements the persistent record store on PostgreSQL.
// It manages two tables: records (the local record list) and
// creation_dates (the id to simulated-timestamp map).
package record

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ShubhamPP04/todo-list/internal/adapter/postgres"
	"github.com/ShubhamPP04/todo-list/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides record persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	txm  *postgres.TxManager
}

// New creates a new record repository.
func New(pool *pgxpool.Pool, txm *postgres.TxManager) *Repo {
	return &Repo{pool: pool, txm: txm}
}

// LoadRecords returns all locally stored records, newest created_at
// first, ties broken by save order.
func (r *Repo) LoadRecords(ctx context.Context) ([]domain.Record, error) {
	query, args, err := psql.
		Select("id", "text", "completed", "owner_id", "created_at", "origin", "saved_at").
		From("records").
		OrderBy("created_at DESC", "save_seq ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load records: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var rec domain.Record
		var origin string
		if err := rows.Scan(&rec.ID, &rec.Text, &rec.Completed, &rec.OwnerID,
			&rec.CreatedAt, &origin, &rec.SavedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Origin = domain.Origin(origin)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	return records, nil
}

// SaveRecord inserts or replaces a single record by id. created_at and
// saved_at are kept from the existing row on replacement.
func (r *Repo) SaveRecord(ctx context.Context, record domain.Record) error {
	return r.upsert(ctx, postgres.QuerierFromCtx(ctx, r.pool), record)
}

// SaveRecords inserts or replaces a batch of records in one transaction.
func (r *Repo) SaveRecords(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	return r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		q := postgres.QuerierFromCtx(txCtx, r.pool)
		for _, record := range records {
			if err := r.upsert(txCtx, q, record); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadDates returns the persisted creation-date map.
func (r *Repo) LoadDates(ctx context.Context) (map[int64]time.Time, error) {
	query, args, err := psql.
		Select("record_id", "assigned_at").
		From("creation_dates").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load dates: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load dates: %w", err)
	}
	defer rows.Close()

	dates := make(map[int64]time.Time)
	for rows.Next() {
		var id int64
		var assignedAt time.Time
		if err := rows.Scan(&id, &assignedAt); err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		dates[id] = assignedAt
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load dates: %w", err)
	}

	return dates, nil
}

// SaveDate persists the creation date for an id. The first write wins:
// an already-assigned date is never replaced.
func (r *Repo) SaveDate(ctx context.Context, id int64, ts time.Time) error {
	query, args, err := psql.
		Insert("creation_dates").
		Columns("record_id", "assigned_at").
		Values(id, ts).
		Suffix("ON CONFLICT (record_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build save date: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "creation_date", id)
	}
	return nil
}

func (r *Repo) upsert(ctx context.Context, q postgres.Querier, record domain.Record) error {
	savedAt := record.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now().UTC()
	}

	query, args, err := psql.
		Insert("records").
		Columns("id", "text", "completed", "owner_id", "created_at", "origin", "saved_at").
		Values(record.ID, record.Text, record.Completed, record.OwnerID,
			record.CreatedAt, string(record.Origin), savedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			text = EXCLUDED.text,
			completed = EXCLUDED.completed,
			owner_id = EXCLUDED.owner_id,
			origin = EXCLUDED.origin`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build save record: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "record", record.ID)
	}
	return nil
}
