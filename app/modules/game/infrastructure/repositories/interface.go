package gamedb

import (
	"context"

	belotetypes "github.com/Black-And-White-Club/belote-tracker/app/types/belote"
)

// Repository defines the contract for game persistence.
type Repository interface {
	// CreateGame validates the draft and stores a new, empty game.
	CreateGame(ctx context.Context, draft belotetypes.GameDraft) (*belotetypes.Game, error)

	// GetGame returns the game with id or ErrGameNotFound.
	GetGame(ctx context.Context, id string) (*belotetypes.Game, error)

	// ListGames returns every stored game in storage order.
	ListGames(ctx context.Context) ([]belotetypes.Game, error)

	// AddRound appends a scored round and adds its points to the game totals.
	AddRound(ctx context.Context, gameID string, round belotetypes.RoundInput) (*belotetypes.Game, error)

	// DeleteRound removes a round and subtracts its points from the game totals.
	DeleteRound(ctx context.Context, gameID, roundID string) (*belotetypes.Game, error)

	// DeleteGame removes a game. It reports false when no game had the id.
	DeleteGame(ctx context.Context, gameID string) (bool, error)
}
