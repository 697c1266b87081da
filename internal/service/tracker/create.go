package tracker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ShubhamPP04/todo-list/internal/domain"
	"github.com/ShubhamPP04/todo-list/internal/remote"
	"github.com/ShubhamPP04/todo-list/pkg/ctxutil"
)

// CreateRecord creates a new record through the remote source. When the
// remote is unavailable the record is created locally instead, with a
// time-based id and OriginLocalCreated, so creation degrades the same way
// fetching does. The record and its creation date are persisted before
// returning.
func (s *Service) CreateRecord(ctx context.Context, input CreateInput) (domain.Record, error) {
	if err := input.Validate(); err != nil {
		return domain.Record{}, err
	}
	text, _ := domain.ValidateText(input.Text)

	ownerID := input.OwnerID
	if ownerID == 0 {
		if id, ok := ctxutil.OwnerIDFromCtx(ctx); ok {
			ownerID = id
		} else {
			ownerID = s.cfg.DefaultOwnerID
		}
	}

	now := s.now()

	record, err := s.remote.Create(ctx, remote.NewItem{
		Text:      text,
		Completed: input.Completed,
		OwnerID:   ownerID,
	})
	switch {
	case err == nil:
		record.CreatedAt = now
	case remote.Unavailable(err):
		s.log.WarnContext(ctx, "remote create unavailable, creating locally",
			slog.String("error", err.Error()))
		record = domain.Record{
			ID:        now.UnixMilli(),
			Text:      text,
			Completed: input.Completed,
			OwnerID:   ownerID,
			CreatedAt: now,
			Origin:    domain.OriginLocalCreated,
		}
	default:
		return domain.Record{}, fmt.Errorf("create record: %w", err)
	}

	if err := s.records.SaveRecord(ctx, record); err != nil {
		s.log.WarnContext(ctx, "persist created record failed",
			slog.Int64("id", record.ID), slog.String("error", err.Error()))
	}
	if err := s.records.SaveDate(ctx, record.ID, record.CreatedAt); err != nil {
		s.log.WarnContext(ctx, "persist creation date failed",
			slog.Int64("id", record.ID), slog.String("error", err.Error()))
	}

	s.log.InfoContext(ctx, "record created",
		slog.Int64("id", record.ID),
		slog.String("origin", string(record.Origin)),
	)

	return record, nil
}
