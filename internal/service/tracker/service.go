// Package tracker implements the task-tracking engine: merging remote and
// local record sets, compound filtering, page navigation, and the
// controller that sequences them for a display layer.
package tracker

import (
	"context"
	"log/slog"
	"time"

	"github.com/ShubhamPP04/todo-list/internal/config"
	"github.com/ShubhamPP04/todo-list/internal/domain"
	"github.com/ShubhamPP04/todo-list/internal/remote"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type recordRepo interface {
	LoadRecords(ctx context.Context) ([]domain.Record, error)
	SaveRecord(ctx context.Context, record domain.Record) error
	SaveRecords(ctx context.Context, records []domain.Record) error
	LoadDates(ctx context.Context) (map[int64]time.Time, error)
	SaveDate(ctx context.Context, id int64, ts time.Time) error
}

type remoteSource interface {
	FetchPage(ctx context.Context, limit, skip int) (remote.Page, error)
	Create(ctx context.Context, item remote.NewItem) (domain.Record, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service merges remote pages with the persistent local store and creates
// new records. Remote failures are absorbed here: every operation degrades
// to local data instead of failing.
type Service struct {
	log     *slog.Logger
	records recordRepo
	remote  remoteSource
	cfg     config.EngineConfig

	// now is the clock used for simulated dates and local ids;
	// overridable in tests.
	now func() time.Time
}

// NewService creates a new tracker service.
func NewService(logger *slog.Logger, records recordRepo, source remoteSource, cfg config.EngineConfig) *Service {
	return &Service{
		log:     logger.With("service", "tracker"),
		records: records,
		remote:  source,
		cfg:     cfg,
		now:     time.Now,
	}
}

// loadLocals reads the full local record set. Repository failures are
// logged and treated as an empty store; persistence problems must never
// take the engine down.
func (s *Service) loadLocals(ctx context.Context) []domain.Record {
	locals, err := s.records.LoadRecords(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "local store unreadable, treating as empty",
			slog.String("error", err.Error()))
		return nil
	}

	// Anything served from the cache is fallback data this session,
	// except records the user created offline.
	for i := range locals {
		if locals[i].Origin != domain.OriginLocalCreated {
			locals[i].Origin = domain.OriginLocalFallback
		}
	}
	return locals
}

func (s *Service) loadDates(ctx context.Context) map[int64]time.Time {
	dates, err := s.records.LoadDates(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "date map unreadable, treating as empty",
			slog.String("error", err.Error()))
		return map[int64]time.Time{}
	}
	if dates == nil {
		dates = map[int64]time.Time{}
	}
	return dates
}
