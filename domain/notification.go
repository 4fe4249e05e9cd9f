package domain

import (
	"context"
	"fmt"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
)

func (p NotificationPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Event type tags. Consumers must tolerate tags they do not know.
const (
	EventNewsCreated       = "news-created"
	EventNewsUpdated       = "news-updated"
	EventNewsDeleted       = "news-deleted"
	EventNewsStatusChanged = "news-status-changed"

	EventCommentCreated       = "comment-created"
	EventCommentDeleted       = "comment-deleted"
	EventCommentStatusChanged = "comment-status-changed"
	EventCommentCount         = "comment-count"

	EventPodcastCreated = "podcast-created"
	EventPodcastUpdated = "podcast-updated"
	EventPodcastDeleted = "podcast-deleted"

	EventAdCreated       = "ad-created"
	EventAdUpdated       = "ad-updated"
	EventAdDeleted       = "ad-deleted"
	EventAdStatusChanged = "ad-status-changed"

	EventContactReceived      = "contact-received"
	EventContactStatusChanged = "contact-status-changed"
	EventContactDeleted       = "contact-deleted"

	EventMenuCreated       = "menu-created"
	EventMenuUpdated       = "menu-updated"
	EventMenuDeleted       = "menu-deleted"
	EventMenuStatusChanged = "menu-status-changed"
)

const (
	RoomAdmin = "admin-room"
	// RoomBroadcast addresses every connected observer.
	RoomBroadcast = "broadcast"
)

func PodcastRoom(podcastID string) string {
	return fmt.Sprintf("podcast-%s", podcastID)
}

// NotificationEvent is ephemeral. It is never persisted or replayed.
type NotificationEvent struct {
	Type      string               `json:"type"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Data      any                  `json:"data,omitempty"`
	Timestamp int64                `json:"timestamp"`
	Priority  NotificationPriority `json:"priority"`
}

// Publisher delivers events best-effort. Publish never blocks on delivery and
// never reports failures to the caller.
type Publisher interface {
	Publish(ctx context.Context, room string, event NotificationEvent)
}

// AuditEntry is handed to the audit sink after a successful write.
type AuditEntry struct {
	ActorID  string `json:"actor_id"`
	Action   string `json:"action"`
	Entity   string `json:"entity"`
	EntityID string `json:"entity_id"`
}

// AuditSink records entries fire-and-forget.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry)
}
