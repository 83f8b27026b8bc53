// Package relay publishes per-user push events to an externally hosted
// publish/subscribe service. Delivery is best effort: publishers return
// errors for logging only and never retry.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	EventConversationCreated   = "conversation.created"
	EventConversationDeleted   = "conversation.deleted"
	EventMessageCreated        = "message.created"
	EventMessageDeleted        = "message.deleted"
	EventOrderPlaced           = "order.placed"
	EventOrderStatusChanged    = "order.status_changed"
	EventCancellationRequested = "order.cancellation_requested"
	EventCancellationResolved  = "order.cancellation_resolved"
)

// Event is the envelope delivered on a user channel.
type Event struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Channel    string          `json:"channel"`
	Data       json.RawMessage `json:"data"`
	OccurredAt time.Time       `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, channel, name string, data any) error
	Close() error
}

// Subscriber is implemented by drivers whose transport this service can read back.
type Subscriber interface {
	// Subscribe streams events from channel until ctx is done, then closes the returned channel.
	Subscribe(ctx context.Context, channel string) (<-chan Event, error)
}

// UserChannel is the channel a user's browser session subscribes to.
func UserChannel(userID uint) string {
	return fmt.Sprintf("private-user-%d", userID)
}

func NewEvent(channel, name string, data any) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", name, err)
	}
	return Event{
		ID:         uuid.NewString(),
		Name:       name,
		Channel:    channel,
		Data:       raw,
		OccurredAt: time.Now().UTC(),
	}, nil
}

// LogPublisher writes events to the application log. It is the fallback when no relay is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, channel, name string, data any) error {
	ev, err := NewEvent(channel, name, data)
	if err != nil {
		return err
	}
	zap.L().Debug("relay event",
		zap.String("channel", ev.Channel),
		zap.String("event", ev.Name),
		zap.String("eventId", ev.ID),
	)
	return nil
}

func (LogPublisher) Close() error { return nil }
