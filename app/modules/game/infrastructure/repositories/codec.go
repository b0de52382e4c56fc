package gamedb

import (
	"bytes"
	"encoding/json"
	"fmt"

	belotetypes "github.com/Black-And-White-Club/belote-tracker/app/types/belote"
)

// SchemaVersion is the version written by this package. Version 0 is the
// bare JSON array of games without an envelope.
const SchemaVersion = 1

type envelope struct {
	SchemaVersion int                `json:"schemaVersion"`
	Games         []belotetypes.Game `json:"games"`
}

func encodeCollection(games []belotetypes.Game) (string, error) {
	if games == nil {
		games = []belotetypes.Game{}
	}
	for i := range games {
		if games[i].Rounds == nil {
			games[i].Rounds = []belotetypes.Round{}
		}
	}
	raw, err := json.Marshal(envelope{SchemaVersion: SchemaVersion, Games: games})
	if err != nil {
		return "", fmt.Errorf("encode games: %w", err)
	}
	return string(raw), nil
}

func decodeCollection(raw []byte) ([]belotetypes.Game, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	switch raw[0] {
	case '[':
		var games []belotetypes.Game
		if err := json.Unmarshal(raw, &games); err != nil {
			return nil, fmt.Errorf("decode legacy games: %w", err)
		}
		return upgradeFromV0(games), nil
	case '{':
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("decode games: %w", err)
		}
		switch {
		case env.SchemaVersion > SchemaVersion:
			return nil, fmt.Errorf("%w: version %d", ErrUnsupportedSchema, env.SchemaVersion)
		case env.SchemaVersion < 1:
			return upgradeFromV0(env.Games), nil
		}
		return fillDefaults(env.Games), nil
	}
	return nil, fmt.Errorf("decode games: unexpected leading byte %q", raw[0])
}

// upgradeFromV0 fills fields the unversioned format left empty. It never
// advanced the status past not-started, so status is derived from the rounds.
func upgradeFromV0(games []belotetypes.Game) []belotetypes.Game {
	games = fillDefaults(games)
	for i := range games {
		games[i].Status = games[i].DeriveStatus()
	}
	return games
}

func fillDefaults(games []belotetypes.Game) []belotetypes.Game {
	for i := range games {
		g := &games[i]
		if g.Rounds == nil {
			g.Rounds = []belotetypes.Round{}
		}
		if g.UsTeamName == "" {
			g.UsTeamName = belotetypes.DefaultUsTeamName
		}
		if g.ThemTeamName == "" {
			g.ThemTeamName = belotetypes.DefaultThemTeamName
		}
		if g.LastUpdated == 0 {
			g.LastUpdated = g.CreatedAt
		}
		if !g.Status.Valid() {
			g.Status = g.DeriveStatus()
		}
	}
	return games
}
