package gamesubscribers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/Black-And-White-Club/belote-tracker/app/events"
	"github.com/Black-And-White-Club/belote-tracker/app/observability"
)

// Handlers consumes game events.
type Handlers interface {
	HandleGameEvent(ctx context.Context, evt *events.GameEvent) error
}

// EventHandlers logs every game event and, when a sink is set, writes it
// there as one JSON line.
type EventHandlers struct {
	logger  *slog.Logger
	metrics observability.EventMetrics

	mu   sync.Mutex
	sink io.Writer
}

// NewEventHandlers creates EventHandlers. sink may be nil.
func NewEventHandlers(logger *slog.Logger, metrics observability.EventMetrics, sink io.Writer) *EventHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &EventHandlers{logger: logger, metrics: metrics, sink: sink}
}

func (h *EventHandlers) HandleGameEvent(ctx context.Context, evt *events.GameEvent) error {
	h.metrics.RecordEventConsumed(ctx, evt.Topic)

	attrs := []any{
		slog.String("topic", evt.Topic),
		slog.String("game_id", evt.GameID),
		slog.Int("us_score", evt.UsScore),
		slog.Int("them_score", evt.ThemScore),
		slog.Int("rounds", evt.Rounds),
	}
	if evt.Round != nil {
		attrs = append(attrs, slog.String("round_id", evt.Round.ID))
	}
	h.logger.InfoContext(ctx, "Game event", attrs...)

	if h.sink == nil {
		return nil
	}
	line, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", evt.Topic, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := h.sink.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write %s event: %w", evt.Topic, err)
	}
	return nil
}

var _ Handlers = (*EventHandlers)(nil)
