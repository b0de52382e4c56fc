package gamedb

import (
	"errors"
	"fmt"
)

// Sentinel errors for the game repository.
var (
	// ErrNotFound matches both ErrGameNotFound and ErrRoundNotFound.
	ErrNotFound = errors.New("not found")

	// ErrGameNotFound indicates the referenced game id does not exist.
	ErrGameNotFound = fmt.Errorf("game %w", ErrNotFound)

	// ErrRoundNotFound indicates the game exists but holds no round with the id.
	ErrRoundNotFound = fmt.Errorf("round %w", ErrNotFound)

	// ErrStorageUnavailable wraps failures of the underlying key-value store
	// on the mutation path. Read-only calls never return it.
	ErrStorageUnavailable = errors.New("game storage unavailable")

	// ErrInvariantViolated indicates a game disappeared between the read and
	// the write of a single repository call.
	ErrInvariantViolated = errors.New("game repository invariant violated")

	// ErrUnsupportedSchema indicates stored data written by a newer version.
	ErrUnsupportedSchema = errors.New("unsupported game storage schema")
)
