package relay

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserChannel(t *testing.T) {
	assert.Equal(t, "private-user-12", UserChannel(12))
}

func TestNewEvent(t *testing.T) {
	ev, err := NewEvent("private-user-1", EventOrderStatusChanged, map[string]string{"status": "shipped"})
	require.NoError(t, err)
	assert.Len(t, ev.ID, 36)
	assert.JSONEq(t, `{"status":"shipped"}`, string(ev.Data))
	assert.False(t, ev.OccurredAt.IsZero())

	_, err = NewEvent("private-user-1", EventOrderStatusChanged, make(chan int))
	assert.Error(t, err)
}

func TestLogPublisher(t *testing.T) {
	var p Publisher = LogPublisher{}
	assert.NoError(t, p.Publish(context.Background(), UserChannel(1), EventOrderPlaced, map[string]int{"orderId": 1}))
	assert.NoError(t, p.Close())
}

func TestNewKafkaPublisherRequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "events")
	assert.Error(t, err)

	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "events")
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestRedisPublisherDeliversToSubscriber(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	p := NewRedisPublisher(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := p.Subscribe(ctx, UserChannel(7))
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), UserChannel(8), EventOrderPlaced, map[string]int{"orderId": 1}))
	require.NoError(t, p.Publish(context.Background(), UserChannel(7), EventMessageCreated, map[string]any{"id": 5, "content": "hi"}))

	select {
	case ev := <-events:
		assert.Equal(t, EventMessageCreated, ev.Name)
		assert.Equal(t, UserChannel(7), ev.Channel)
		assert.JSONEq(t, `{"id":5,"content":"hi"}`, string(ev.Data))
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}

	cancel()
	select {
	case _, open := <-events:
		assert.False(t, open, "channel should close after cancellation")
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancellation")
	}
}

func TestRedisSubscribeFailsWhenServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	_, err := NewRedisPublisher(rdb).Subscribe(context.Background(), UserChannel(1))
	assert.Error(t, err)
}
