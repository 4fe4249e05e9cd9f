package usecase

import (
	"context"
	"time"

	"radio-cms/domain"
	"radio-cms/pkg/async"
	"radio-cms/pkg/log"
	"radio-cms/pkg/metrics"
	"radio-cms/pkg/realtime"
)

// Deliverer hands an encoded frame to the members of a room.
type Deliverer interface {
	Deliver(room string, frame []byte) (delivered, dropped int)
}

type publisher struct {
	deliverer Deliverer
	runner    *async.Runner
	logger    log.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewPublisher returns a domain.Publisher that encodes and delivers events on
// a background task. Publish returns immediately.
func NewPublisher(deliverer Deliverer, runner *async.Runner, logger log.Logger, m *metrics.Metrics) domain.Publisher {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if runner == nil {
		runner = async.NewRunner(logger, 0)
	}
	return &publisher{
		deliverer: deliverer,
		runner:    runner,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
	}
}

func (p *publisher) Publish(ctx context.Context, room string, event domain.NotificationEvent) {
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.ErrorContext(ctx, "notification publish panicked",
				log.Room(room),
				log.EventType(event.Type),
				log.Any("panic", rec),
			)
		}
	}()

	if event.Timestamp == 0 {
		event.Timestamp = p.now().UnixMilli()
	}
	if !event.Priority.IsValid() {
		event.Priority = domain.PriorityMedium
	}
	if room == "" {
		room = domain.RoomBroadcast
	}
	p.metrics.NotificationPublished(event.Type)

	p.runner.Go(ctx, "notify:"+event.Type, func(ctx context.Context) error {
		frame, err := realtime.EncodeFrame(realtime.FrameNotification, event)
		if err != nil {
			return err
		}
		delivered, dropped := p.deliverer.Deliver(room, frame)
		p.logger.Debug("notification delivered",
			log.Room(room),
			log.EventType(event.Type),
			log.Int("delivered", delivered),
			log.Int("dropped", dropped),
		)
		return nil
	})
}
