package audit

import (
	"context"

	"github.com/dmitrijs2005/intelshare/internal/logging"
)

// LogSink writes decisions to a logger: allows at info, denials at warn.
type LogSink struct {
	log logging.Logger
}

func NewLogSink(log logging.Logger) *LogSink {
	return &LogSink{log: log.With("module", "audit")}
}

func (s *LogSink) Write(ctx context.Context, r Record) error {
	args := []any{
		"action", r.Action,
		"actor", r.Actor,
		"user_id", r.UserID,
		"event_id", r.EventID,
		"allowed", r.Allowed,
	}
	if r.ItemID != 0 {
		args = append(args, "item_id", r.ItemID)
	}
	if r.SessionID != "" {
		args = append(args, "session", r.SessionID)
	}
	if r.Allowed {
		s.log.Info(ctx, r.String(), args...)
	} else {
		s.log.Warn(ctx, r.String(), args...)
	}
	return nil
}
