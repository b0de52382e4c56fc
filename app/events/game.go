package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	belotetypes "github.com/Black-And-White-Club/belote-tracker/app/types/belote"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Game event topics.
const (
	GameCreatedV1    = "belote.game.created.v1"
	GameDeletedV1    = "belote.game.deleted.v1"
	RoundRecordedV1  = "belote.round.recorded.v1"
	RoundDeletedV1   = "belote.round.deleted.v1"
	RoundsImportedV1 = "belote.rounds.imported.v1"
)

// TopicMetadataKey carries the topic on every published message.
const TopicMetadataKey = "topic"

// AllTopics lists every game event topic.
func AllTopics() []string {
	return []string{GameCreatedV1, GameDeletedV1, RoundRecordedV1, RoundDeletedV1, RoundsImportedV1}
}

// GameEvent is the payload of every game event: the state of the game right
// after the change.
type GameEvent struct {
	Topic      string                 `json:"topic"`
	GameID     string                 `json:"gameId"`
	Title      string                 `json:"title,omitempty"`
	UsScore    int                    `json:"usScore"`
	ThemScore  int                    `json:"themScore"`
	Status     belotetypes.GameStatus `json:"status,omitempty"`
	Rounds     int                    `json:"rounds"`
	Round      *belotetypes.Round     `json:"round,omitempty"`
	OccurredAt int64                  `json:"occurredAt"`
}

// NewGameEvent snapshots game for topic. round is the round the event is
// about, if any.
func NewGameEvent(topic string, game belotetypes.Game, round *belotetypes.Round, at time.Time) GameEvent {
	return GameEvent{
		Topic:      topic,
		GameID:     game.ID,
		Title:      game.Title,
		UsScore:    game.UsScore,
		ThemScore:  game.ThemScore,
		Status:     game.Status,
		Rounds:     len(game.Rounds),
		Round:      round,
		OccurredAt: at.UnixMilli(),
	}
}

// Publish encodes evt and publishes it on its topic.
func Publish(ctx context.Context, pub message.Publisher, evt GameEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", evt.Topic, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(TopicMetadataKey, evt.Topic)
	msg.SetContext(ctx)

	if err := pub.Publish(evt.Topic, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", evt.Topic, err)
	}
	return nil
}

// Decode reads the GameEvent carried by msg.
func Decode(msg *message.Message) (GameEvent, error) {
	var evt GameEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return GameEvent{}, fmt.Errorf("failed to decode event %s: %w", msg.UUID, err)
	}
	if evt.Topic == "" {
		evt.Topic = msg.Metadata.Get(TopicMetadataKey)
	}
	return evt, nil
}
