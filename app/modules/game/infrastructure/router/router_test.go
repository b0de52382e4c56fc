package gamerouter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Black-And-White-Club/belote-tracker/app/events"
	belotetypes "github.com/Black-And-White-Club/belote-tracker/app/types/belote"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// FakeHandlers records events and fails the first FailFirst deliveries.
type FakeHandlers struct {
	mu        sync.Mutex
	received  []events.GameEvent
	calls     int
	FailFirst int
	got       chan struct{}
}

func newFakeHandlers() *FakeHandlers {
	return &FakeHandlers{got: make(chan struct{}, 16)}
}

func (f *FakeHandlers) HandleGameEvent(_ context.Context, evt *events.GameEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.FailFirst {
		return errors.New("transient")
	}
	f.received = append(f.received, *evt)
	f.got <- struct{}{}
	return nil
}

func (f *FakeHandlers) Received() []events.GameEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.GameEvent(nil), f.received...)
}

func startRouter(t *testing.T, handlers *FakeHandlers, topics ...string) *gochannel.GoChannel {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermill.NopLogger{})

	r, err := NewGameRouter(logger, bus, nil)
	require.NoError(t, err)
	require.NoError(t, r.Configure(context.Background(), handlers, topics...))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case <-r.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}

	t.Cleanup(func() {
		cancel()
		<-done
		_ = bus.Close()
	})
	return bus
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}
}

func TestGameRouter_DeliversEveryTopic(t *testing.T) {
	handlers := newFakeHandlers()
	bus := startRouter(t, handlers)
	ctx := context.Background()

	game := belotetypes.Game{ID: "g1", Title: "Routed", Status: belotetypes.StatusNotStarted}
	for _, topic := range events.AllTopics() {
		require.NoError(t, events.Publish(ctx, bus, events.NewGameEvent(topic, game, nil, time.Unix(0, 0))))
		waitFor(t, handlers.got)
	}

	received := handlers.Received()
	require.Len(t, received, len(events.AllTopics()))
	for i, topic := range events.AllTopics() {
		assert.Equal(t, topic, received[i].Topic)
		assert.Equal(t, "g1", received[i].GameID)
	}
}

func TestGameRouter_RetriesFailedHandler(t *testing.T) {
	handlers := newFakeHandlers()
	handlers.FailFirst = 1
	bus := startRouter(t, handlers, events.RoundRecordedV1)

	evt := events.NewGameEvent(events.RoundRecordedV1, belotetypes.Game{ID: "g2"}, nil, time.Unix(0, 0))
	require.NoError(t, events.Publish(context.Background(), bus, evt))
	waitFor(t, handlers.got)

	assert.Len(t, handlers.Received(), 1, "nacked message is redelivered")
}

func TestGameRouter_DropsUndecodablePayload(t *testing.T) {
	handlers := newFakeHandlers()
	bus := startRouter(t, handlers, events.GameCreatedV1)

	require.NoError(t, bus.Publish(events.GameCreatedV1, message.NewMessage(watermill.NewUUID(), []byte("{not json"))))
	evt := events.NewGameEvent(events.GameCreatedV1, belotetypes.Game{ID: "g3"}, nil, time.Unix(0, 0))
	require.NoError(t, events.Publish(context.Background(), bus, evt))
	waitFor(t, handlers.got)

	received := handlers.Received()
	require.Len(t, received, 1)
	assert.Equal(t, "g3", received[0].GameID)
}
