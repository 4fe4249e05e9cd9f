package usecase

import (
	"context"

	"radio-cms/domain"
	"radio-cms/pkg/log"
)

type logAuditSink struct {
	logger log.Logger
}

// NewLogAuditSink records audit entries as structured log lines.
func NewLogAuditSink(logger log.Logger) domain.AuditSink {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &logAuditSink{logger: logger.With(log.String("component", "audit"))}
}

func (s *logAuditSink) Record(ctx context.Context, entry domain.AuditEntry) {
	s.logger.InfoContext(ctx, "audit",
		log.String("actor_id", entry.ActorID),
		log.String("action", entry.Action),
		log.String("entity", entry.Entity),
		log.String("entity_id", entry.EntityID),
	)
}
