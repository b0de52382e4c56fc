package gamedb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Black-And-White-Club/belote-tracker/app/modules/game/infrastructure/kvstore"
	belotetypes "github.com/Black-And-White-Club/belote-tracker/app/types/belote"
	"github.com/google/uuid"
)

// DefaultKey is the storage key holding the whole game collection.
const DefaultKey = "belote-games"

// Clock abstracts time.Now for tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Impl implements Repository over a single key of a kvstore.Store. Every
// call is one read-modify-write of the full collection.
type Impl struct {
	mu     sync.Mutex
	store  kvstore.Store
	key    string
	logger *slog.Logger
	clock  Clock
	newID  func() string
}

// Option configures an Impl.
type Option func(*Impl)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(r *Impl) { r.key = key }
}

// WithLogger sets the logger used for degraded reads.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Impl) { r.logger = logger }
}

// WithClock sets the time source for ids and timestamps.
func WithClock(clock Clock) Option {
	return func(r *Impl) { r.clock = clock }
}

// WithIDGenerator sets the generator used for game and round ids.
func WithIDGenerator(newID func() string) Option {
	return func(r *Impl) { r.newID = newID }
}

// NewRepository creates a game repository backed by store.
func NewRepository(store kvstore.Store, opts ...Option) *Impl {
	r := &Impl{
		store:  store,
		key:    DefaultKey,
		logger: slog.Default(),
		clock:  realClock{},
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// snapshot is the decoded collection plus the undecodable payload, if any.
type snapshot struct {
	games   []belotetypes.Game
	corrupt string
}

// load reads the collection. Undecodable data yields an empty snapshot that
// remembers the payload; a store failure is returned to the caller.
func (r *Impl) load(ctx context.Context) (snapshot, error) {
	raw, found, err := r.store.ReadRaw(ctx, r.key)
	if err != nil {
		return snapshot{}, err
	}
	if !found {
		return snapshot{}, nil
	}

	games, err := decodeCollection([]byte(raw))
	if err != nil {
		r.logger.WarnContext(ctx, "Stored games are unreadable, treating as empty",
			slog.String("key", r.key),
			slog.Int("payload_bytes", len(raw)),
			slog.String("error", err.Error()),
		)
		return snapshot{corrupt: raw}, nil
	}
	return snapshot{games: games}, nil
}

// read is load for the read-only operations: store failures degrade to an
// empty collection.
func (r *Impl) read(ctx context.Context) []belotetypes.Game {
	snap, err := r.load(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "Game storage unreadable, treating as empty",
			slog.String("key", r.key),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return snap.games
}

func (r *Impl) save(ctx context.Context, snap snapshot, games []belotetypes.Game) error {
	if snap.corrupt != "" {
		backupKey := fmt.Sprintf("%s.corrupt-%d", r.key, r.clock.Now().UnixMilli())
		if err := r.store.WriteRaw(ctx, backupKey, snap.corrupt); err != nil {
			return fmt.Errorf("%w: back up unreadable games: %w", ErrStorageUnavailable, err)
		}
		r.logger.WarnContext(ctx, "Backed up unreadable games before overwrite",
			slog.String("key", r.key),
			slog.String("backup_key", backupKey),
		)
	}

	payload, err := encodeCollection(games)
	if err != nil {
		return err
	}
	if err := r.store.WriteRaw(ctx, r.key, payload); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// errUnchanged lets a mutation finish without writing.
var errUnchanged = errors.New("unchanged")

// mutate runs fn over the current collection and persists the result.
func (r *Impl) mutate(ctx context.Context, fn func(games []belotetypes.Game) ([]belotetypes.Game, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := r.load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	games, err := fn(snap.games)
	if err != nil {
		return err
	}
	return r.save(ctx, snap, games)
}

// updateGame replaces the stored game with the same id.
func updateGame(games []belotetypes.Game, updated belotetypes.Game) error {
	idx := indexOf(games, updated.ID)
	if idx == -1 {
		return fmt.Errorf("%w: game %s vanished during update", ErrInvariantViolated, updated.ID)
	}
	games[idx] = updated
	return nil
}

func indexOf(games []belotetypes.Game, id string) int {
	for i := range games {
		if games[i].ID == id {
			return i
		}
	}
	return -1
}

// CreateGame stores a new game built from draft.
func (r *Impl) CreateGame(ctx context.Context, draft belotetypes.GameDraft) (*belotetypes.Game, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	draft = draft.Normalize()

	var created belotetypes.Game
	err := r.mutate(ctx, func(games []belotetypes.Game) ([]belotetypes.Game, error) {
		now := r.clock.Now().UnixMilli()
		created = belotetypes.Game{
			ID:           r.newID(),
			Title:        draft.Title,
			UsTeamName:   draft.UsTeamName,
			ThemTeamName: draft.ThemTeamName,
			Rounds:       []belotetypes.Round{},
			Status:       belotetypes.StatusNotStarted,
			TargetScore:  draft.TargetScore,
			CreatedAt:    now,
			LastUpdated:  now,
		}
		return append(games, created), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetGame returns a copy of the stored game.
func (r *Impl) GetGame(ctx context.Context, id string) (*belotetypes.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	games := r.read(ctx)
	idx := indexOf(games, id)
	if idx == -1 {
		return nil, ErrGameNotFound
	}
	game := games[idx].Clone()
	return &game, nil
}

// ListGames returns copies of all stored games. It never fails on unreadable
// storage; the result is then empty.
func (r *Impl) ListGames(ctx context.Context) ([]belotetypes.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	games := r.read(ctx)
	out := make([]belotetypes.Game, 0, len(games))
	for _, g := range games {
		out = append(out, g.Clone())
	}
	return out, nil
}

// AddRound appends round to the game and adds its points to the totals.
func (r *Impl) AddRound(ctx context.Context, gameID string, round belotetypes.RoundInput) (*belotetypes.Game, error) {
	if err := round.Validate(); err != nil {
		return nil, err
	}
	round = round.Normalize()

	var updated belotetypes.Game
	err := r.mutate(ctx, func(games []belotetypes.Game) ([]belotetypes.Game, error) {
		idx := indexOf(games, gameID)
		if idx == -1 {
			return nil, ErrGameNotFound
		}

		now := r.clock.Now().UnixMilli()
		updated = games[idx].Clone()
		updated.Rounds = append(updated.Rounds, belotetypes.Round{
			ID:          r.newID(),
			BidTeam:     round.BidTeam,
			BidContract: round.BidContract,
			TrumpCard:   round.TrumpCard,
			BidSuccess:  round.BidSuccess,
			UsPoints:    round.UsPoints,
			ThemPoints:  round.ThemPoints,
			BeloteTeam:  round.BeloteTeam,
			Notes:       round.Notes,
			Timestamp:   now,
		})
		updated.UsScore += round.UsPoints
		updated.ThemScore += round.ThemPoints
		updated.Status = updated.DeriveStatus()
		updated.LastUpdated = now

		if err := updateGame(games, updated); err != nil {
			return nil, err
		}
		return games, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteRound removes the round and subtracts its points from the totals.
// A missing game or round leaves storage untouched.
func (r *Impl) DeleteRound(ctx context.Context, gameID, roundID string) (*belotetypes.Game, error) {
	var updated belotetypes.Game
	err := r.mutate(ctx, func(games []belotetypes.Game) ([]belotetypes.Game, error) {
		idx := indexOf(games, gameID)
		if idx == -1 {
			return nil, ErrGameNotFound
		}
		removed, pos, ok := games[idx].Round(roundID)
		if !ok {
			return nil, ErrRoundNotFound
		}

		updated = games[idx].Clone()
		updated.Rounds = append(updated.Rounds[:pos:pos], updated.Rounds[pos+1:]...)
		updated.UsScore -= removed.UsPoints
		updated.ThemScore -= removed.ThemPoints
		updated.Status = updated.DeriveStatus()
		updated.LastUpdated = r.clock.Now().UnixMilli()

		if err := updateGame(games, updated); err != nil {
			return nil, err
		}
		return games, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteGame removes the game with gameID, reporting whether one existed.
func (r *Impl) DeleteGame(ctx context.Context, gameID string) (bool, error) {
	err := r.mutate(ctx, func(games []belotetypes.Game) ([]belotetypes.Game, error) {
		idx := indexOf(games, gameID)
		if idx == -1 {
			return nil, errUnchanged
		}
		return append(games[:idx:idx], games[idx+1:]...), nil
	})
	if errors.Is(err, errUnchanged) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

var _ Repository = (*Impl)(nil)
