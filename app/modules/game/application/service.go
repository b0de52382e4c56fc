package gameservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Black-And-White-Club/belote-tracker/app/events"
	gameexport "github.com/Black-And-White-Club/belote-tracker/app/modules/game/infrastructure/export"
	gamedb "github.com/Black-And-White-Club/belote-tracker/app/modules/game/infrastructure/repositories"
	scoringservice "github.com/Black-And-White-Club/belote-tracker/app/modules/scoring/application"
	statsservice "github.com/Black-And-White-Club/belote-tracker/app/modules/stats/application"
	"github.com/Black-And-White-Club/belote-tracker/app/observability"
	belotetypes "github.com/Black-And-White-Club/belote-tracker/app/types/belote"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "GameService"

// GameService implements the Service interface.
type GameService struct {
	repo    gamedb.Repository
	logger  *slog.Logger
	metrics observability.GameMetrics
	tracer  trace.Tracer
	palette statsservice.ChartPalette

	publisher message.Publisher
	now       func() time.Time
}

// Option configures a GameService.
type Option func(*GameService)

// WithPublisher publishes a game event after every successful change.
func WithPublisher(publisher message.Publisher) Option {
	return func(s *GameService) { s.publisher = publisher }
}

// WithPalette overrides the chart colors.
func WithPalette(palette statsservice.ChartPalette) Option {
	return func(s *GameService) { s.palette = palette }
}

// NewGameService creates a new GameService.
func NewGameService(
	repo gamedb.Repository,
	logger *slog.Logger,
	metrics observability.GameMetrics,
	tracer trace.Tracer,
	opts ...Option,
) *GameService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &GameService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		palette: statsservice.DefaultPalette,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// publish emits a game event. The change is already stored, so a failed
// publish is only logged.
func (s *GameService) publish(ctx context.Context, topic string, game belotetypes.Game, round *belotetypes.Round) {
	if s.publisher == nil {
		return
	}
	evt := events.NewGameEvent(topic, game, round, s.now())
	if err := events.Publish(ctx, s.publisher, evt); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish game event",
			slog.String("topic", topic),
			slog.String("game_id", game.ID),
			slog.String("error", err.Error()),
		)
	}
}

// CreateGame stores a new game.
func (s *GameService) CreateGame(ctx context.Context, draft belotetypes.GameDraft) (*belotetypes.Game, error) {
	return withTelemetry(s, ctx, "CreateGame", draft.Title, func(ctx context.Context) (*belotetypes.Game, error) {
		game, err := s.repo.CreateGame(ctx, draft)
		if err != nil {
			return nil, err
		}
		s.publish(ctx, events.GameCreatedV1, *game, nil)
		return game, nil
	})
}

// GetGame retrieves one game.
func (s *GameService) GetGame(ctx context.Context, gameID string) (*belotetypes.Game, error) {
	return withTelemetry(s, ctx, "GetGame", gameID, func(ctx context.Context) (*belotetypes.Game, error) {
		return s.repo.GetGame(ctx, gameID)
	})
}

// ListGames returns the matching games, most recently updated first.
func (s *GameService) ListGames(ctx context.Context, opts ListOptions) ([]belotetypes.Game, error) {
	return withTelemetry(s, ctx, "ListGames", "", func(ctx context.Context) ([]belotetypes.Game, error) {
		games, err := s.repo.ListGames(ctx)
		if err != nil {
			return nil, err
		}

		sinceMs := int64(0)
		if !opts.Since.IsZero() {
			sinceMs = opts.Since.UnixMilli()
		}
		out := make([]belotetypes.Game, 0, len(games))
		for _, g := range games {
			if g.LastUpdated < sinceMs {
				continue
			}
			if opts.Status != "" && g.Status != opts.Status {
				continue
			}
			out = append(out, g)
		}

		sort.SliceStable(out, func(i, j int) bool {
			if out[i].LastUpdated != out[j].LastUpdated {
				return out[i].LastUpdated > out[j].LastUpdated
			}
			return out[i].CreatedAt > out[j].CreatedAt
		})
		return out, nil
	})
}

// DeleteGame removes a game, reporting whether it existed.
func (s *GameService) DeleteGame(ctx context.Context, gameID string) (bool, error) {
	return withTelemetry(s, ctx, "DeleteGame", gameID, func(ctx context.Context) (bool, error) {
		removed, err := s.repo.DeleteGame(ctx, gameID)
		if err != nil {
			return false, err
		}
		if removed {
			s.publish(ctx, events.GameDeletedV1, belotetypes.Game{ID: gameID}, nil)
		}
		return removed, nil
	})
}

// RecordRound scores entry and appends the result to the game.
func (s *GameService) RecordRound(ctx context.Context, gameID string, entry belotetypes.RoundEntry) (*RoundRecord, error) {
	return withTelemetry(s, ctx, "RecordRound", gameID, func(ctx context.Context) (*RoundRecord, error) {
		if err := entry.Validate(); err != nil {
			return nil, err
		}

		outcome := scoringservice.Evaluate(
			entry.BidTeam,
			entry.BidContract,
			entry.TrumpCard,
			entry.UsRawPoints,
			entry.ThemRawPoints,
			entry.BeloteTeam,
		)
		bidSuccess := outcome.ContractMet
		if entry.BidSuccess != nil {
			bidSuccess = *entry.BidSuccess
		}

		game, err := s.repo.AddRound(ctx, gameID, belotetypes.RoundInput{
			BidTeam:     entry.BidTeam,
			BidContract: entry.BidContract,
			TrumpCard:   entry.TrumpCard,
			BidSuccess:  bidSuccess,
			UsPoints:    outcome.Us,
			ThemPoints:  outcome.Them,
			BeloteTeam:  entry.BeloteTeam,
			Notes:       entry.Notes,
		})
		if err != nil {
			return nil, err
		}
		if s.metrics != nil {
			s.metrics.RecordRoundScored(ctx, string(entry.BidTeam), string(entry.BidContract), outcome.ContractMet)
		}

		s.logger.InfoContext(ctx, "Round scored",
			slog.String("game_id", gameID),
			slog.String("bid_team", string(entry.BidTeam)),
			slog.String("contract", string(entry.BidContract)),
			slog.Bool("contract_met", outcome.ContractMet),
			slog.Int("us_points", outcome.Us),
			slog.Int("them_points", outcome.Them),
		)

		round := game.Rounds[len(game.Rounds)-1]
		s.publish(ctx, events.RoundRecordedV1, *game, &round)

		return &RoundRecord{
			Game:    *game,
			Round:   round,
			Outcome: outcome,
		}, nil
	})
}

// DeleteRound removes a round from a game.
func (s *GameService) DeleteRound(ctx context.Context, gameID, roundID string) (*belotetypes.Game, error) {
	return withTelemetry(s, ctx, "DeleteRound", gameID+"/"+roundID, func(ctx context.Context) (*belotetypes.Game, error) {
		game, err := s.repo.DeleteRound(ctx, gameID, roundID)
		if err != nil {
			return nil, err
		}
		s.publish(ctx, events.RoundDeletedV1, *game, &belotetypes.Round{ID: roundID})
		return game, nil
	})
}

// ImportRounds appends the already-scored rounds of a workbook to a game.
// Rounds before a failing one stay recorded.
func (s *GameService) ImportRounds(ctx context.Context, gameID string, workbook []byte) (*belotetypes.Game, error) {
	return withTelemetry(s, ctx, "ImportRounds", gameID, func(ctx context.Context) (*belotetypes.Game, error) {
		game, err := s.repo.GetGame(ctx, gameID)
		if err != nil {
			return nil, err
		}
		rounds, err := gameexport.ImportRounds(workbook, game.UsTeamName, game.ThemTeamName)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidWorkbook, err)
		}
		for i, in := range rounds {
			game, err = s.repo.AddRound(ctx, gameID, in)
			if err != nil {
				return nil, fmt.Errorf("import round %d: %w", i+1, err)
			}
		}
		s.publish(ctx, events.RoundsImportedV1, *game, nil)
		return game, nil
	})
}

// Stats computes the statistics of a game.
func (s *GameService) Stats(ctx context.Context, gameID string) (*statsservice.GameStats, error) {
	return withTelemetry(s, ctx, "Stats", gameID, func(ctx context.Context) (*statsservice.GameStats, error) {
		game, err := s.repo.GetGame(ctx, gameID)
		if err != nil {
			return nil, err
		}
		stats := statsservice.Compute(*game)
		return &stats, nil
	})
}

// Chart renders a PNG chart of a game.
func (s *GameService) Chart(ctx context.Context, gameID string, kind statsservice.ChartKind) ([]byte, error) {
	return withTelemetry(s, ctx, "Chart", gameID, func(ctx context.Context) ([]byte, error) {
		game, err := s.repo.GetGame(ctx, gameID)
		if err != nil {
			return nil, err
		}
		return statsservice.RenderChart(*game, kind, s.palette)
	})
}

// Export renders a game as an XLSX workbook.
func (s *GameService) Export(ctx context.Context, gameID string) ([]byte, error) {
	return withTelemetry(s, ctx, "Export", gameID, func(ctx context.Context) ([]byte, error) {
		game, err := s.repo.GetGame(ctx, gameID)
		if err != nil {
			return nil, err
		}
		return gameexport.ExportXLSX(*game)
	})
}

// IsDomainFailure reports whether err is a caller mistake rather than an
// infrastructure fault.
func IsDomainFailure(err error) bool {
	return errors.Is(err, belotetypes.ErrValidation) ||
		errors.Is(err, gamedb.ErrNotFound) ||
		errors.Is(err, statsservice.ErrUnknownChart) ||
		errors.Is(err, ErrInvalidWorkbook)
}

type operationFunc[T any] func(ctx context.Context) (T, error)

// withTelemetry wraps an operation with tracing, metrics, logging and panic
// recovery. Domain failures are returned as is; other errors are wrapped with
// the operation name.
func withTelemetry[T any](
	s *GameService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[T],
) (result T, err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
		}
	}()

	s.logger.DebugContext(ctx, "Operation triggered", slog.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				slog.String("operation", operationName),
				slog.String("identifier", identifier),
				slog.String("error", err.Error()),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			var zero T
			result = zero
		}
	}()

	result, err = op(ctx)

	if err != nil && IsDomainFailure(err) {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
			slog.String("failure", err.Error()),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
		}
		return result, err
	}

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
			slog.String("error", wrappedErr.Error()),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		span.RecordError(wrappedErr)
		span.SetStatus(codes.Error, wrappedErr.Error())
		return result, wrappedErr
	}

	s.logger.InfoContext(ctx, "Operation completed successfully",
		slog.String("operation", operationName),
		slog.String("identifier", identifier),
	)
	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}
	return result, nil
}

var _ Service = (*GameService)(nil)
