// Package file implements the persistent record store on a single JSON
// state file. Reads tolerate a missing or corrupt file by returning empty
// data; the next successful write replaces the file atomically, so
// corruption self-heals.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/ShubhamPP04/todo-list/internal/config"
	"github.com/ShubhamPP04/todo-list/internal/domain"
)

// persistedRecord is the on-disk shape of a locally known record.
type persistedRecord struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	Origin    string    `json:"origin"`
	SavedAt   time.Time `json:"savedAt"`
}

// persistedState is the full state file: the local record list in save
// order plus the creation-date map keyed by decimal record id.
type persistedState struct {
	Records       []persistedRecord    `json:"records"`
	CreationDates map[string]time.Time `json:"creationDates"`
}

// Store persists records and creation dates in a JSON file.
type Store struct {
	path string
	log  *slog.Logger
	now  func() time.Time

	mu sync.Mutex
}

// NewStore creates a Store writing to the configured path.
func NewStore(cfg config.FileConfig, logger *slog.Logger) *Store {
	return &Store{
		path: cfg.Path,
		log:  logger.With("adapter", "file"),
		now:  time.Now,
	}
}

// LoadRecords returns all locally stored records, newest CreatedAt first,
// ties broken by save order. A missing or unreadable state file yields an
// empty slice, never an error.
func (s *Store) LoadRecords(ctx context.Context) ([]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load(ctx)

	records := make([]domain.Record, len(state.Records))
	for i, pr := range state.Records {
		records[i] = pr.toDomain()
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	return records, nil
}

// SaveRecord inserts or replaces a single record by id. SavedAt is
// assigned on first save and kept on replacement.
func (s *Store) SaveRecord(ctx context.Context, record domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load(ctx)
	s.upsert(&state, record)
	return s.save(state)
}

// SaveRecords inserts or replaces a batch of records in one write.
func (s *Store) SaveRecords(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load(ctx)
	for _, record := range records {
		s.upsert(&state, record)
	}
	return s.save(state)
}

// LoadDates returns the persisted creation-date map. Missing or corrupt
// state yields an empty map.
func (s *Store) LoadDates(ctx context.Context) (map[int64]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load(ctx)

	dates := make(map[int64]time.Time, len(state.CreationDates))
	for key, ts := range state.CreationDates {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		dates[id] = ts
	}
	return dates, nil
}

// SaveDate persists the creation date for an id. The first write wins:
// an already-assigned date is never replaced.
func (s *Store) SaveDate(ctx context.Context, id int64, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load(ctx)
	key := strconv.FormatInt(id, 10)
	if _, ok := state.CreationDates[key]; ok {
		return nil
	}
	state.CreationDates[key] = ts
	return s.save(state)
}

func (s *Store) upsert(state *persistedState, record domain.Record) {
	pr := fromDomain(record)
	for i, existing := range state.Records {
		if existing.ID == record.ID {
			if pr.SavedAt.IsZero() {
				pr.SavedAt = existing.SavedAt
			}
			state.Records[i] = pr
			return
		}
	}
	if pr.SavedAt.IsZero() {
		pr.SavedAt = s.now()
	}
	state.Records = append(state.Records, pr)
}

func (s *Store) load(ctx context.Context) persistedState {
	empty := persistedState{CreationDates: map[string]time.Time{}}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.WarnContext(ctx, "state file unreadable, starting empty",
				slog.String("path", s.path), slog.String("error", err.Error()))
		}
		return empty
	}

	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil {
		s.log.WarnContext(ctx, "state file corrupt, starting empty",
			slog.String("path", s.path), slog.String("error", err.Error()))
		return empty
	}
	if state.CreationDates == nil {
		state.CreationDates = map[string]time.Time{}
	}
	return state
}

func (s *Store) save(state persistedState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func fromDomain(r domain.Record) persistedRecord {
	return persistedRecord{
		ID:        r.ID,
		Text:      r.Text,
		Completed: r.Completed,
		UserID:    r.OwnerID,
		CreatedAt: r.CreatedAt,
		Origin:    string(r.Origin),
		SavedAt:   r.SavedAt,
	}
}

func (pr persistedRecord) toDomain() domain.Record {
	return domain.Record{
		ID:        pr.ID,
		Text:      pr.Text,
		Completed: pr.Completed,
		OwnerID:   pr.UserID,
		CreatedAt: pr.CreatedAt,
		Origin:    domain.Origin(pr.Origin),
		SavedAt:   pr.SavedAt,
	}
}
