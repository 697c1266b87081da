package tracker

import (
	"context"
	"log/slog"
	"time"
)

// dateFor returns the creation timestamp for an id, assigning one if the
// persisted map has none. Assigned dates are pseudo-historical: "now"
// minus the configured window, advanced by id modulo the window in days,
// so lower ids trend older and the ordering is repeatable for any id
// regardless of resolution order. The first assignment is persisted, so
// the value is stable across reloads.
func (s *Service) dateFor(ctx context.Context, id int64, dates map[int64]time.Time) time.Time {
	if ts, ok := dates[id]; ok {
		return ts
	}

	ts := s.simulatedDate(id)
	dates[id] = ts

	if err := s.records.SaveDate(ctx, id, ts); err != nil {
		s.log.WarnContext(ctx, "persist creation date failed",
			slog.Int64("id", id), slog.String("error", err.Error()))
	}

	return ts
}

func (s *Service) simulatedDate(id int64) time.Time {
	days := s.cfg.SimulatedAgeDays
	if days < 1 {
		days = 30
	}
	offset := int(id % int64(days))
	return s.now().AddDate(0, 0, -days+offset)
}
