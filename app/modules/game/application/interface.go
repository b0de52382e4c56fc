package gameservice

import (
	"context"
	"time"

	scoringservice "github.com/Black-And-White-Club/belote-tracker/app/modules/scoring/application"
	statsservice "github.com/Black-And-White-Club/belote-tracker/app/modules/stats/application"
	belotetypes "github.com/Black-And-White-Club/belote-tracker/app/types/belote"
)

// Service is what the CLI and the HTTP API call.
type Service interface {
	CreateGame(ctx context.Context, draft belotetypes.GameDraft) (*belotetypes.Game, error)
	GetGame(ctx context.Context, gameID string) (*belotetypes.Game, error)
	ListGames(ctx context.Context, opts ListOptions) ([]belotetypes.Game, error)
	DeleteGame(ctx context.Context, gameID string) (bool, error)

	RecordRound(ctx context.Context, gameID string, entry belotetypes.RoundEntry) (*RoundRecord, error)
	DeleteRound(ctx context.Context, gameID, roundID string) (*belotetypes.Game, error)
	ImportRounds(ctx context.Context, gameID string, workbook []byte) (*belotetypes.Game, error)

	Stats(ctx context.Context, gameID string) (*statsservice.GameStats, error)
	Chart(ctx context.Context, gameID string, kind statsservice.ChartKind) ([]byte, error)
	Export(ctx context.Context, gameID string) ([]byte, error)
}

// ListOptions filters ListGames. Zero values match everything.
type ListOptions struct {
	Since  time.Time
	Status belotetypes.GameStatus
}

// RoundRecord is the result of RecordRound.
type RoundRecord struct {
	Game    belotetypes.Game       `json:"game"`
	Round   belotetypes.Round      `json:"round"`
	Outcome scoringservice.Outcome `json:"outcome"`
}
