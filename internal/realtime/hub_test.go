package realtime_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchugh/liveblog/internal/content/domain"
	"github.com/mchugh/liveblog/internal/platform/eventbus"
	"github.com/mchugh/liveblog/internal/platform/events"
	"github.com/mchugh/liveblog/internal/realtime"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any) {}

// recv reads one frame or fails the test after a timeout.
func recv(t *testing.T, sub *realtime.Subscriber) realtime.Notification {
	t.Helper()
	select {
	case frame, ok := <-sub.Out():
		require.True(t, ok, "subscriber channel closed unexpectedly")
		var n realtime.Notification
		require.NoError(t, json.Unmarshal(frame, &n))
		return n
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for notification")
		return realtime.Notification{}
	}
}

// drainConnected consumes the synthetic connected frame a new subscriber gets.
func drainConnected(t *testing.T, sub *realtime.Subscriber) {
	t.Helper()
	n := recv(t, sub)
	require.Equal(t, realtime.TypeConnected, n.Type)
}

func TestSubscribeReceivesConnected(t *testing.T) {
	hub := realtime.NewHub(nopLogger{})

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	n := recv(t, sub)
	assert.Equal(t, realtime.TypeConnected, n.Type)
	assert.Nil(t, n.Data)
	assert.Equal(t, 1, hub.SubscriberCount())
}

func TestConnectedIsNotFannedOut(t *testing.T) {
	hub := realtime.NewHub(nopLogger{})

	first := hub.Subscribe()
	defer hub.Unsubscribe(first)
	drainConnected(t, first)

	second := hub.Subscribe()
	defer hub.Unsubscribe(second)
	drainConnected(t, second)

	// The first subscriber must not see the second's connected frame.
	select {
	case frame := <-first.Out():
		t.Fatalf("unexpected frame on first subscriber: %s", frame)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishFansOutToAllActive(t *testing.T) {
	hub := realtime.NewHub(nopLogger{})

	a := hub.Subscribe()
	b := hub.Subscribe()
	defer hub.Unsubscribe(a)
	defer hub.Unsubscribe(b)
	drainConnected(t, a)
	drainConnected(t, b)

	hub.Publish(context.Background(), realtime.Notification{
		Type: realtime.TypePostCreated,
		Data: map[string]any{"id": "x"},
	})

	na := recv(t, a)
	nb := recv(t, b)
	assert.Equal(t, realtime.TypePostCreated, na.Type)
	assert.Equal(t, realtime.TypePostCreated, nb.Type)
	assert.Equal(t, na.Data, nb.Data)

	// A late subscriber receives nothing for that event.
	late := hub.Subscribe()
	defer hub.Unsubscribe(late)
	drainConnected(t, late)
	select {
	case frame := <-late.Out():
		t.Fatalf("late subscriber received a replayed frame: %s", frame)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribedConnectionReceivesNothing(t *testing.T) {
	hub := realtime.NewHub(nopLogger{})

	sub := hub.Subscribe()
	drainConnected(t, sub)
	hub.Unsubscribe(sub)

	hub.Publish(context.Background(), realtime.Notification{Type: realtime.TypePostUpdated})

	// The channel is closed on unsubscribe; no frame should have been sent.
	frame, ok := <-sub.Out()
	assert.False(t, ok, "expected closed channel, got frame %s", frame)
	assert.Equal(t, 0, hub.SubscriberCount())
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	hub := realtime.NewHub(nopLogger{})

	sub := hub.Subscribe()
	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)

	assert.Equal(t, 0, hub.SubscriberCount())
}

func TestSlowSubscriberIsDroppedWithoutBlockingSiblings(t *testing.T) {
	hub := realtime.NewHub(nopLogger{})

	// The stuck subscriber never drains its channel.
	stuck := hub.Subscribe()
	healthy := hub.Subscribe()
	defer hub.Unsubscribe(healthy)
	drainConnected(t, healthy)
	_ = stuck

	ctx := context.Background()
	// The stuck subscriber still holds its connected frame, so 16 publishes
	// overflow its buffer while exactly filling the drained healthy one.
	for i := 0; i < 16; i++ {
		hub.Publish(ctx, realtime.Notification{Type: realtime.TypePostUpdated})
	}

	// The healthy subscriber got every frame.
	for i := 0; i < 16; i++ {
		n := recv(t, healthy)
		assert.Equal(t, realtime.TypePostUpdated, n.Type)
	}

	// The stuck one was removed from the active set.
	assert.Equal(t, 1, hub.SubscriberCount())
}

func TestBridgeTranslatesDomainEvents(t *testing.T) {
	bus := eventbus.NewBus(nopLogger{})
	hub := realtime.NewHub(nopLogger{})
	realtime.AttachHub(bus, hub)

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)
	drainConnected(t, sub)

	item, err := domain.NewContentItem("title", "body", "author", "")
	require.NoError(t, err)

	ctx := context.Background()
	bus.Publish(ctx, eventbus.Event{
		Topic:   events.ContentCreatedTopic,
		Payload: events.ContentCreatedEvent{Item: item, OccurredAt: time.Now()},
	})

	n := recv(t, sub)
	assert.Equal(t, realtime.TypePostCreated, n.Type)
	data, ok := n.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, item.ID.String(), data["id"])
	assert.Equal(t, "title", data["title"])

	bus.Publish(ctx, eventbus.Event{
		Topic:   events.ContentDeletedTopic,
		Payload: events.ContentDeletedEvent{ItemID: item.ID, OccurredAt: time.Now()},
	})

	n = recv(t, sub)
	assert.Equal(t, realtime.TypePostDeleted, n.Type)
	data, ok = n.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, item.ID.String(), data["id"])
}
