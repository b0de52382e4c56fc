package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Black-And-White-Club/belote-tracker/config"
	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nkeys"
)

// EventBus publishes and subscribes to game events.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

// New opens the bus selected by cfg.Driver. The "none" driver returns a nil
// bus, which disables events.
func New(ctx context.Context, cfg config.EventsConfig, logger *slog.Logger) (EventBus, error) {
	watermillLogger := watermill.NewSlogLogger(logger)

	switch cfg.Driver {
	case config.EventsNone, "":
		return nil, nil
	case config.EventsMemory:
		return NewInMemory(watermillLogger), nil
	case config.EventsNATS:
		bus, err := NewNATS(cfg.NATS, watermillLogger)
		if err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "Connected event bus to NATS", slog.String("url", cfg.NATS.URL))
		return bus, nil
	}
	return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
}

// NewInMemory returns a process-local bus. Messages published while nobody
// subscribes are dropped.
func NewInMemory(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger)
}

type natsBus struct {
	*wmnats.Publisher
	*wmnats.Subscriber
}

func (b *natsBus) Close() error {
	return errors.Join(b.Publisher.Close(), b.Subscriber.Close())
}

// NewNATS connects a publisher and a subscriber to core NATS.
func NewNATS(cfg config.NATSConfig, logger watermill.LoggerAdapter) (EventBus, error) {
	options := []nc.Option{
		nc.Name("belote-tracker"),
		nc.RetryOnFailedConnect(true),
		nc.MaxReconnects(-1),
	}
	if cfg.NKeySeedFile != "" {
		opt, err := NKeyOption(cfg.NKeySeedFile)
		if err != nil {
			return nil, err
		}
		options = append(options, opt)
	}

	marshaler := &wmnats.NATSMarshaler{}
	jsConfig := wmnats.JetStreamConfig{Disabled: true}

	publisher, err := wmnats.NewPublisher(
		wmnats.PublisherConfig{
			URL:         cfg.URL,
			NatsOptions: options,
			Marshaler:   marshaler,
			JetStream:   jsConfig,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	subscriber, err := wmnats.NewSubscriber(
		wmnats.SubscriberConfig{
			URL:              cfg.URL,
			NatsOptions:      options,
			Unmarshaler:      marshaler,
			SubscribersCount: 1,
			CloseTimeout:     5 * time.Second,
			AckWaitTimeout:   30 * time.Second,
			JetStream:        jsConfig,
		},
		logger,
	)
	if err != nil {
		_ = publisher.Close()
		return nil, fmt.Errorf("failed to create NATS subscriber: %w", err)
	}

	return &natsBus{Publisher: publisher, Subscriber: subscriber}, nil
}

// NKeyOption authenticates with the user nkey seed stored in seedFile.
func NKeyOption(seedFile string) (nc.Option, error) {
	contents, err := os.ReadFile(seedFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read nkey seed: %w", err)
	}
	kp, err := nkeys.ParseDecoratedNKey(contents)
	if err != nil {
		return nil, fmt.Errorf("failed to parse nkey seed: %w", err)
	}
	public, err := kp.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to derive nkey public key: %w", err)
	}
	if !nkeys.IsValidPublicUserKey(public) {
		return nil, fmt.Errorf("nkey %s is not a user key", public)
	}
	return nc.Nkey(public, kp.Sign), nil
}
