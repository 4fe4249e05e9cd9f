package common

import (
	"context"

	"radio-cms/domain"
	"radio-cms/pkg/log"
	"radio-cms/pkg/utils"
)

// Notifier is the post-write side channel shared by the content usecases:
// it records an audit entry and publishes a notification. Neither step can
// fail the write that triggered it.
type Notifier struct {
	publisher domain.Publisher
	audit     domain.AuditSink
	logger    log.Logger
}

func NewNotifier(publisher domain.Publisher, audit domain.AuditSink, logger log.Logger) *Notifier {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Notifier{publisher: publisher, audit: audit, logger: logger}
}

func (n *Notifier) Audit(ctx context.Context, actor *domain.Principal, action, entity, entityID string) {
	if n == nil || n.audit == nil {
		return
	}
	defer n.recover(ctx, "audit "+entity)
	n.audit.Record(ctx, domain.AuditEntry{
		ActorID:  actor.ActorID(),
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
	})
}

// Publish sends event to every room in order.
func (n *Notifier) Publish(ctx context.Context, event domain.NotificationEvent, rooms ...string) {
	if n == nil || n.publisher == nil {
		return
	}
	if event.Timestamp == 0 {
		event.Timestamp = utils.NowUnixMillis()
	}
	for _, room := range rooms {
		n.publishOne(ctx, room, event)
	}
}

func (n *Notifier) publishOne(ctx context.Context, room string, event domain.NotificationEvent) {
	defer n.recover(ctx, event.Type)
	n.publisher.Publish(ctx, room, event)
}

func (n *Notifier) recover(ctx context.Context, what string) {
	if rec := recover(); rec != nil {
		n.logger.ErrorContext(ctx, "post-write side effect panicked",
			log.String("task", what),
			log.Any("panic", rec),
		)
	}
}
