package gameservice

import (
	"context"
	"fmt"
	"time"

	gamedb "github.com/Black-And-White-Club/belote-tracker/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/belote-tracker/app/observability"
	belotetypes "github.com/Black-And-White-Club/belote-tracker/app/types/belote"
)

// ------------------------
// Fake Game Repo
// ------------------------

type FakeGameRepo struct {
	trace []string

	CreateGameFunc  func(ctx context.Context, draft belotetypes.GameDraft) (*belotetypes.Game, error)
	GetGameFunc     func(ctx context.Context, id string) (*belotetypes.Game, error)
	ListGamesFunc   func(ctx context.Context) ([]belotetypes.Game, error)
	AddRoundFunc    func(ctx context.Context, gameID string, round belotetypes.RoundInput) (*belotetypes.Game, error)
	DeleteRoundFunc func(ctx context.Context, gameID, roundID string) (*belotetypes.Game, error)
	DeleteGameFunc  func(ctx context.Context, gameID string) (bool, error)
}

func NewFakeGameRepo() *FakeGameRepo {
	return &FakeGameRepo{
		trace: []string{},
	}
}

func (f *FakeGameRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeGameRepo) CreateGame(ctx context.Context, draft belotetypes.GameDraft) (*belotetypes.Game, error) {
	f.record("CreateGame")
	if f.CreateGameFunc != nil {
		return f.CreateGameFunc(ctx, draft)
	}
	return &belotetypes.Game{ID: "game-1", Title: draft.Title, TargetScore: draft.TargetScore}, nil
}

func (f *FakeGameRepo) GetGame(ctx context.Context, id string) (*belotetypes.Game, error) {
	f.record("GetGame")
	if f.GetGameFunc != nil {
		return f.GetGameFunc(ctx, id)
	}
	return nil, gamedb.ErrGameNotFound
}

func (f *FakeGameRepo) ListGames(ctx context.Context) ([]belotetypes.Game, error) {
	f.record("ListGames")
	if f.ListGamesFunc != nil {
		return f.ListGamesFunc(ctx)
	}
	return []belotetypes.Game{}, nil
}

func (f *FakeGameRepo) AddRound(ctx context.Context, gameID string, round belotetypes.RoundInput) (*belotetypes.Game, error) {
	f.record("AddRound")
	if f.AddRoundFunc != nil {
		return f.AddRoundFunc(ctx, gameID, round)
	}
	return nil, gamedb.ErrGameNotFound
}

func (f *FakeGameRepo) DeleteRound(ctx context.Context, gameID, roundID string) (*belotetypes.Game, error) {
	f.record("DeleteRound")
	if f.DeleteRoundFunc != nil {
		return f.DeleteRoundFunc(ctx, gameID, roundID)
	}
	return nil, gamedb.ErrRoundNotFound
}

func (f *FakeGameRepo) DeleteGame(ctx context.Context, gameID string) (bool, error) {
	f.record("DeleteGame")
	if f.DeleteGameFunc != nil {
		return f.DeleteGameFunc(ctx, gameID)
	}
	return false, nil
}

// --- Accessors for assertions ---

func (f *FakeGameRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ gamedb.Repository = (*FakeGameRepo)(nil)

// ------------------------
// Fake Metrics
// ------------------------

type FakeMetrics struct {
	attempts, successes, failures map[string]int
	rounds                        []string
}

func NewFakeMetrics() *FakeMetrics {
	return &FakeMetrics{
		attempts:  map[string]int{},
		successes: map[string]int{},
		failures:  map[string]int{},
	}
}

func (m *FakeMetrics) RecordOperationAttempt(_ context.Context, op, _ string)                 { m.attempts[op]++ }
func (m *FakeMetrics) RecordOperationSuccess(_ context.Context, op, _ string)                 { m.successes[op]++ }
func (m *FakeMetrics) RecordOperationFailure(_ context.Context, op, _ string)                 { m.failures[op]++ }
func (m *FakeMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (m *FakeMetrics) RecordRoundScored(_ context.Context, bidTeam, contract string, met bool) {
	m.rounds = append(m.rounds, fmt.Sprintf("%s/%s/%t", bidTeam, contract, met))
}

var _ observability.GameMetrics = (*FakeMetrics)(nil)
