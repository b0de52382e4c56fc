package gamerouter

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/belote-tracker/app/events"
	gamesubscribers "github.com/Black-And-White-Club/belote-tracker/app/modules/game/infrastructure/subscribers"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// GameRouter handles Watermill handler registration for game events.
type GameRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber message.Subscriber
	tracer     trace.Tracer
}

// NewGameRouter creates a new GameRouter reading from subscriber.
func NewGameRouter(logger *slog.Logger, subscriber message.Subscriber, tracer trace.Tracer) (*GameRouter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("gamerouter")
	}
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 5 * time.Second}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, err
	}
	return &GameRouter{
		logger:     logger,
		router:     router,
		subscriber: subscriber,
		tracer:     tracer,
	}, nil
}

// Configure sets up the router with handlers for topics, or every game topic
// when none are given.
func (r *GameRouter) Configure(_ context.Context, handlers gamesubscribers.Handlers, topics ...string) error {
	if len(topics) == 0 {
		topics = events.AllTopics()
	}
	deps := handlerDeps{
		router:     r.router,
		subscriber: r.subscriber,
		logger:     r.logger,
		tracer:     r.tracer,
	}
	for _, topic := range topics {
		registerHandler(deps, topic, handlers.HandleGameEvent)
	}
	r.logger.Info("Game event handlers registered", slog.Int("topics", len(topics)))
	return nil
}

// handlerDeps bundles dependencies for handler registration.
type handlerDeps struct {
	router     *message.Router
	subscriber message.Subscriber
	logger     *slog.Logger
	tracer     trace.Tracer
}

// registerHandler is a generic function for type-safe Watermill handler registration.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) error,
) {
	handlerName := "game." + topic

	deps.router.AddNoPublisherHandler(
		handlerName,
		topic,
		deps.subscriber,
		func(msg *message.Message) error {
			ctx, span := deps.tracer.Start(msg.Context(), handlerName,
				trace.WithAttributes(
					attribute.String("message.uuid", msg.UUID),
					attribute.String("message.topic", topic),
				),
			)
			defer span.End()

			var payload T
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				// Undecodable payloads are acked and dropped.
				deps.logger.ErrorContext(ctx, "Dropping undecodable event",
					slog.String("handler", handlerName),
					slog.String("message_id", msg.UUID),
					slog.String("error", err.Error()),
				)
				span.SetStatus(codes.Error, "undecodable payload")
				return nil
			}

			if err := handler(ctx, &payload); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}
			return nil
		},
	)
}

// Run starts the router and blocks until ctx is done or Close is called.
func (r *GameRouter) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running is closed once every handler is subscribed.
func (r *GameRouter) Running() chan struct{} {
	return r.router.Running()
}

// Close shuts down the router.
func (r *GameRouter) Close() error {
	return r.router.Close()
}
