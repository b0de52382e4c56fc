package gamehandlers

import (
	"context"

	gameservice "github.com/Black-And-White-Club/belote-tracker/app/modules/game/application"
	gamedb "github.com/Black-And-White-Club/belote-tracker/app/modules/game/infrastructure/repositories"
	statsservice "github.com/Black-And-White-Club/belote-tracker/app/modules/stats/application"
	belotetypes "github.com/Black-And-White-Club/belote-tracker/app/types/belote"
)

// FakeService is a programmable gameservice.Service.
type FakeService struct {
	CreateGameFunc   func(ctx context.Context, draft belotetypes.GameDraft) (*belotetypes.Game, error)
	GetGameFunc      func(ctx context.Context, gameID string) (*belotetypes.Game, error)
	ListGamesFunc    func(ctx context.Context, opts gameservice.ListOptions) ([]belotetypes.Game, error)
	DeleteGameFunc   func(ctx context.Context, gameID string) (bool, error)
	RecordRoundFunc  func(ctx context.Context, gameID string, entry belotetypes.RoundEntry) (*gameservice.RoundRecord, error)
	DeleteRoundFunc  func(ctx context.Context, gameID, roundID string) (*belotetypes.Game, error)
	ImportRoundsFunc func(ctx context.Context, gameID string, workbook []byte) (*belotetypes.Game, error)
	StatsFunc        func(ctx context.Context, gameID string) (*statsservice.GameStats, error)
	ChartFunc        func(ctx context.Context, gameID string, kind statsservice.ChartKind) ([]byte, error)
	ExportFunc       func(ctx context.Context, gameID string) ([]byte, error)
}

func (f *FakeService) CreateGame(ctx context.Context, draft belotetypes.GameDraft) (*belotetypes.Game, error) {
	if f.CreateGameFunc != nil {
		return f.CreateGameFunc(ctx, draft)
	}
	return &belotetypes.Game{ID: "g1", Title: draft.Title}, nil
}

func (f *FakeService) GetGame(ctx context.Context, gameID string) (*belotetypes.Game, error) {
	if f.GetGameFunc != nil {
		return f.GetGameFunc(ctx, gameID)
	}
	return nil, gamedb.ErrGameNotFound
}

func (f *FakeService) ListGames(ctx context.Context, opts gameservice.ListOptions) ([]belotetypes.Game, error) {
	if f.ListGamesFunc != nil {
		return f.ListGamesFunc(ctx, opts)
	}
	return []belotetypes.Game{}, nil
}

func (f *FakeService) DeleteGame(ctx context.Context, gameID string) (bool, error) {
	if f.DeleteGameFunc != nil {
		return f.DeleteGameFunc(ctx, gameID)
	}
	return false, nil
}

func (f *FakeService) RecordRound(ctx context.Context, gameID string, entry belotetypes.RoundEntry) (*gameservice.RoundRecord, error) {
	if f.RecordRoundFunc != nil {
		return f.RecordRoundFunc(ctx, gameID, entry)
	}
	return nil, gamedb.ErrGameNotFound
}

func (f *FakeService) DeleteRound(ctx context.Context, gameID, roundID string) (*belotetypes.Game, error) {
	if f.DeleteRoundFunc != nil {
		return f.DeleteRoundFunc(ctx, gameID, roundID)
	}
	return nil, gamedb.ErrRoundNotFound
}

func (f *FakeService) ImportRounds(ctx context.Context, gameID string, workbook []byte) (*belotetypes.Game, error) {
	if f.ImportRoundsFunc != nil {
		return f.ImportRoundsFunc(ctx, gameID, workbook)
	}
	return nil, gamedb.ErrGameNotFound
}

func (f *FakeService) Stats(ctx context.Context, gameID string) (*statsservice.GameStats, error) {
	if f.StatsFunc != nil {
		return f.StatsFunc(ctx, gameID)
	}
	return nil, gamedb.ErrGameNotFound
}

func (f *FakeService) Chart(ctx context.Context, gameID string, kind statsservice.ChartKind) ([]byte, error) {
	if f.ChartFunc != nil {
		return f.ChartFunc(ctx, gameID, kind)
	}
	return nil, gamedb.ErrGameNotFound
}

func (f *FakeService) Export(ctx context.Context, gameID string) ([]byte, error) {
	if f.ExportFunc != nil {
		return f.ExportFunc(ctx, gameID)
	}
	return nil, gamedb.ErrGameNotFound
}

var _ gameservice.Service = (*FakeService)(nil)
