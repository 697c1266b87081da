package tracker

import (
	"context"
	"log/slog"

	"github.com/ShubhamPP04/todo-list/internal/domain"
)

// FetchPage requests one remote page and merges it with the full local
// record set. Exactly one record per id survives; on collision the
// remote record wins. Surviving local records are prepended and counted
// into the total. If the remote call fails for any reason the result is
// the full local set, flagged degraded; the failure never propagates.
func (s *Service) FetchPage(ctx context.Context, page, pageSize int) PageResult {
	if page < 1 {
		page = 1
	}
	skip := (page - 1) * pageSize

	locals := s.loadLocals(ctx)

	remotePage, err := s.remote.FetchPage(ctx, pageSize, skip)
	if err != nil {
		s.log.WarnContext(ctx, "remote unavailable, serving local records",
			slog.Int("page", page),
			slog.Int("local_records", len(locals)),
			slog.String("error", err.Error()),
		)
		return PageResult{
			Records:  locals,
			Total:    len(locals),
			Degraded: true,
			Cause:    err,
		}
	}

	dates := s.loadDates(ctx)

	localIDs := make(map[int64]bool, len(locals))
	for _, rec := range locals {
		localIDs[rec.ID] = true
	}

	remoteRecords := make([]domain.Record, len(remotePage.Records))
	var newlySeen []domain.Record
	for i, rec := range remotePage.Records {
		rec.Origin = domain.OriginRemote
		rec.CreatedAt = s.dateFor(ctx, rec.ID, dates)
		if rec.OwnerID == 0 {
			rec.OwnerID = s.cfg.DefaultOwnerID
		}
		remoteRecords[i] = rec

		if !localIDs[rec.ID] {
			newlySeen = append(newlySeen, rec)
		}
	}

	// Persist newly seen remote records so future offline sessions
	// retain them. A failed write degrades nothing now.
	if len(newlySeen) > 0 {
		if err := s.records.SaveRecords(ctx, newlySeen); err != nil {
			s.log.WarnContext(ctx, "persist remote records failed",
				slog.Int("count", len(newlySeen)), slog.String("error", err.Error()))
		}
	}

	remoteIDs := make(map[int64]bool, len(remoteRecords))
	for _, rec := range remoteRecords {
		remoteIDs[rec.ID] = true
	}

	var survivors []domain.Record
	for _, rec := range locals {
		if !remoteIDs[rec.ID] {
			survivors = append(survivors, rec)
		}
	}

	merged := make([]domain.Record, 0, len(survivors)+len(remoteRecords))
	merged = append(merged, survivors...)
	merged = append(merged, remoteRecords...)

	return PageResult{
		Records: merged,
		Total:   remotePage.Total + len(survivors),
	}
}
