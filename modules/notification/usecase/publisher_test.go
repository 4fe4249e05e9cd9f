package usecase

import (
	"context"
	"testing"
	"time"

	"radio-cms/domain"
	"radio-cms/pkg/async"
	"radio-cms/pkg/log"
	"radio-cms/pkg/metrics"
	"radio-cms/pkg/realtime"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type delivery struct {
	room  string
	frame []byte
}

type chanDeliverer chan delivery

func (d chanDeliverer) Deliver(room string, frame []byte) (int, int) {
	d <- delivery{room: room, frame: frame}
	return 1, 0
}

type panickingDeliverer struct{ called chan struct{} }

func (d panickingDeliverer) Deliver(string, []byte) (int, int) {
	close(d.called)
	panic("socket exploded")
}

func TestPublisher_DeliversNotificationFrame(t *testing.T) {
	out := make(chanDeliverer, 1)
	p := NewPublisher(out, async.NewRunner(log.NewNopLogger(), time.Second), log.NewNopLogger(), metrics.New())

	p.Publish(context.Background(), domain.RoomAdmin, domain.NotificationEvent{
		Type:    domain.EventNewsCreated,
		Title:   "News",
		Message: "created",
	})

	select {
	case got := <-out:
		assert.Equal(t, domain.RoomAdmin, got.room)

		var frame struct {
			Event string                   `json:"event"`
			Data  domain.NotificationEvent `json:"data"`
		}
		require.NoError(t, jsoniter.Unmarshal(got.frame, &frame))
		assert.Equal(t, realtime.FrameNotification, frame.Event)
		assert.Equal(t, domain.EventNewsCreated, frame.Data.Type)
		assert.Equal(t, domain.PriorityMedium, frame.Data.Priority)
		assert.NotZero(t, frame.Data.Timestamp)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestPublisher_EmptyRoomBroadcasts(t *testing.T) {
	out := make(chanDeliverer, 1)
	p := NewPublisher(out, nil, nil, nil)

	p.Publish(context.Background(), "", domain.NotificationEvent{Type: domain.EventCommentCount, Priority: domain.PriorityLow})

	select {
	case got := <-out:
		assert.Equal(t, domain.RoomBroadcast, got.room)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestPublisher_DeliveryPanicIsContained(t *testing.T) {
	d := panickingDeliverer{called: make(chan struct{})}
	p := NewPublisher(d, nil, log.NewNopLogger(), nil)

	// A cancelled request context must not stop delivery either.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NotPanics(t, func() {
		p.Publish(ctx, domain.RoomAdmin, domain.NotificationEvent{Type: domain.EventAdDeleted})
	})

	select {
	case <-d.called:
	case <-time.After(2 * time.Second):
		t.Fatal("deliverer was not called")
	}
}

func TestLogAuditSink_Record(t *testing.T) {
	sink := NewLogAuditSink(log.NewNopLogger())
	assert.NotPanics(t, func() {
		sink.Record(context.Background(), domain.AuditEntry{ActorID: "u1", Action: "create", Entity: "news", EntityID: "n1"})
	})
}
