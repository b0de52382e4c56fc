//go:build integration

package gameintegrationtests

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Black-And-White-Club/belote-tracker/app/modules/game/infrastructure/kvstore"
	gamedb "github.com/Black-And-White-Club/belote-tracker/app/modules/game/infrastructure/repositories"
	belotetypes "github.com/Black-And-White-Club/belote-tracker/app/types/belote"
)

func newRepo(t *testing.T) *gamedb.Impl {
	t.Helper()
	testEnv.Reset(t)
	return gamedb.NewRepository(kvstore.NewBunStore(testEnv.DB), gamedb.WithLogger(testEnv.Logger))
}

func TestRepository_Postgres_RoundLifecycle(t *testing.T) {
	ctx := testEnv.Ctx
	repo := newRepo(t)

	game, err := repo.CreateGame(ctx, belotetypes.GameDraft{Title: "Club night", TargetScore: 200})
	require.NoError(t, err)

	updated, err := repo.AddRound(ctx, game.ID, belotetypes.RoundInput{
		BidTeam: belotetypes.TeamUs, BidContract: belotetypes.Contract100, TrumpCard: belotetypes.TrumpHearts,
		BidSuccess: true, UsPoints: 130, ThemPoints: 32,
	})
	require.NoError(t, err)
	assert.Equal(t, belotetypes.StatusInProgress, updated.Status)

	updated, err = repo.AddRound(ctx, game.ID, belotetypes.RoundInput{
		BidTeam: belotetypes.TeamThem, BidContract: belotetypes.Contract80, TrumpCard: belotetypes.TrumpClubs,
		BidSuccess: false, UsPoints: 162, ThemPoints: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, 292, updated.UsScore)
	assert.Equal(t, belotetypes.StatusFinished, updated.Status)

	// A fresh repository over the same table sees the committed state.
	reread, err := gamedb.NewRepository(kvstore.NewBunStore(testEnv.DB)).GetGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.UsScore, reread.UsScore)
	assert.Equal(t, updated.ThemScore, reread.ThemScore)
	require.Len(t, reread.Rounds, 2)

	afterDelete, err := repo.DeleteRound(ctx, game.ID, reread.Rounds[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 130, afterDelete.UsScore)
	assert.Equal(t, belotetypes.StatusInProgress, afterDelete.Status)

	removed, err := repo.DeleteGame(ctx, game.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	games, err := repo.ListGames(ctx)
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestRepository_Postgres_ConcurrentRoundsKeepTotals(t *testing.T) {
	ctx := testEnv.Ctx
	repo := newRepo(t)

	game, err := repo.CreateGame(ctx, belotetypes.GameDraft{Title: "Busy table", TargetScore: 100000})
	require.NoError(t, err)

	const rounds = 20
	var wg sync.WaitGroup
	errs := make(chan error, rounds)
	for i := 0; i < rounds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AddRound(ctx, game.ID, belotetypes.RoundInput{
				BidTeam: belotetypes.TeamUs, BidContract: belotetypes.Contract80, TrumpCard: belotetypes.TrumpSpades,
				BidSuccess: true, UsPoints: 100, ThemPoints: 62,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := repo.GetGame(ctx, game.ID)
	require.NoError(t, err)
	require.Len(t, got.Rounds, rounds)
	us, them := belotetypes.Totals(got.Rounds)
	assert.Equal(t, us, got.UsScore)
	assert.Equal(t, them, got.ThemScore)
	assert.Equal(t, rounds*100, got.UsScore)
}

func TestRepository_Postgres_CorruptPayloadIsBackedUp(t *testing.T) {
	ctx := testEnv.Ctx
	repo := newRepo(t)
	store := kvstore.NewBunStore(testEnv.DB)
	require.NoError(t, store.WriteRaw(ctx, gamedb.DefaultKey, `{"schemaVersion":1,"games":[`))

	games, err := repo.ListGames(ctx)
	require.NoError(t, err)
	assert.Empty(t, games)

	_, err = repo.CreateGame(ctx, belotetypes.GameDraft{Title: "Fresh start", TargetScore: 1000})
	require.NoError(t, err)

	var keys []string
	err = testEnv.DB.NewSelect().Model((*kvstore.Entry)(nil)).Column("storage_key").Order("storage_key").Scan(ctx, &keys)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, gamedb.DefaultKey, keys[0])
	assert.Contains(t, keys[1], gamedb.DefaultKey+".corrupt-")
}
