package belotetypes

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGame_CompletionAndWinner(t *testing.T) {
	tests := []struct {
		name       string
		us, them   int
		target     int
		complete   bool
		winner     Team
		withRounds bool
		status     GameStatus
	}{
		{name: "fresh game", us: 0, them: 0, target: 1000, status: StatusNotStarted},
		{name: "running", us: 950, them: 912, target: 1000, withRounds: true, status: StatusInProgress},
		{name: "us reached target", us: 1001, them: 700, target: 1000, complete: true, winner: TeamUs, withRounds: true, status: StatusFinished},
		{name: "them ahead on completion", us: 1000, them: 1040, target: 1000, complete: true, winner: TeamThem, withRounds: true, status: StatusFinished},
		{name: "tie at target", us: 1000, them: 1000, target: 1000, complete: true, winner: NoTeam, withRounds: true, status: StatusFinished},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Game{UsScore: tt.us, ThemScore: tt.them, TargetScore: tt.target}
			if tt.withRounds {
				g.Rounds = []Round{{ID: "r"}}
			}
			assert.Equal(t, tt.complete, g.IsComplete())
			assert.Equal(t, tt.winner, g.Winner())
			assert.Equal(t, tt.status, g.DeriveStatus())
		})
	}
}

func TestGame_TeamAccessors(t *testing.T) {
	g := Game{UsTeamName: "Anna & Marc", ThemTeamName: "Les Rois", UsScore: 10, ThemScore: 20}
	assert.Equal(t, "Anna & Marc", g.TeamName(TeamUs))
	assert.Equal(t, "Les Rois", g.TeamName(TeamThem))
	assert.Empty(t, g.TeamName(NoTeam))
	assert.Equal(t, 10, g.Score(TeamUs))
	assert.Equal(t, 20, g.Score(TeamThem))
}

func TestGame_CloneIsDeep(t *testing.T) {
	g := Game{ID: "g", Rounds: []Round{{ID: "a", UsPoints: 1}}}
	c := g.Clone()
	c.Rounds[0].UsPoints = 99
	assert.Equal(t, 1, g.Rounds[0].UsPoints)

	r, idx, ok := g.Round("a")
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "a", r.ID)
	_, idx, ok = g.Round("missing")
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
}

func TestTotals(t *testing.T) {
	us, them := Totals([]Round{{UsPoints: 85, ThemPoints: 77}, {UsPoints: 0, ThemPoints: 162}})
	assert.Equal(t, 85, us)
	assert.Equal(t, 239, them)

	us, them = Totals(nil)
	assert.Zero(t, us)
	assert.Zero(t, them)
}

func TestRound_Summary(t *testing.T) {
	assert.Equal(t, "Us bid 80 ♥ - Success",
		Round{BidTeam: TeamUs, BidContract: Contract80, TrumpCard: TrumpHearts, BidSuccess: true}.Summary())
	assert.Equal(t, "Them bid capot NT - Failed",
		Round{BidTeam: TeamThem, BidContract: ContractCapot, TrumpCard: TrumpNone}.Summary())
}

func TestGameDraft_Validate(t *testing.T) {
	tests := []struct {
		name       string
		draft      GameDraft
		wantFields []string
	}{
		{name: "valid", draft: GameDraft{Title: "Friday night", TargetScore: 1000}},
		{name: "title padded", draft: GameDraft{Title: "  Friday  ", TargetScore: 501}},
		{name: "blank title", draft: GameDraft{Title: "   ", TargetScore: 1000}, wantFields: []string{"title"}},
		{name: "zero target", draft: GameDraft{Title: "x", TargetScore: 0}, wantFields: []string{"targetScore"}},
		{name: "negative target and no title", draft: GameDraft{TargetScore: -5}, wantFields: []string{"title", "targetScore"}},
		{name: "huge title", draft: GameDraft{Title: strings.Repeat("a", 201), TargetScore: 1}, wantFields: []string{"title"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			var fields []string
			for _, p := range verr.Problems {
				fields = append(fields, p.Field)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestGameDraft_Normalize(t *testing.T) {
	d := GameDraft{Title: "  Cup  ", UsTeamName: " ", ThemTeamName: " Rivals "}.Normalize()
	assert.Equal(t, "Cup", d.Title)
	assert.Equal(t, DefaultUsTeamName, d.UsTeamName)
	assert.Equal(t, "Rivals", d.ThemTeamName)
}

func TestRoundInput_Validate(t *testing.T) {
	valid := RoundInput{BidTeam: TeamUs, BidContract: Contract80, TrumpCard: TrumpHearts, UsPoints: 85, ThemPoints: 77}
	require.NoError(t, valid.Validate())

	withBelote := valid
	withBelote.BeloteTeam = TeamThem
	require.NoError(t, withBelote.Validate())

	tests := []struct {
		name  string
		edit  func(*RoundInput)
		field string
	}{
		{name: "unknown team", edit: func(in *RoundInput) { in.BidTeam = "both" }, field: "bidTeam"},
		{name: "missing team", edit: func(in *RoundInput) { in.BidTeam = NoTeam }, field: "bidTeam"},
		{name: "unknown contract", edit: func(in *RoundInput) { in.BidContract = "75" }, field: "bidContract"},
		{name: "unknown trump", edit: func(in *RoundInput) { in.TrumpCard = "stars" }, field: "trumpCard"},
		{name: "negative us points", edit: func(in *RoundInput) { in.UsPoints = -1 }, field: "usPoints"},
		{name: "negative them points", edit: func(in *RoundInput) { in.ThemPoints = -10 }, field: "themPoints"},
		{name: "us points past any round", edit: func(in *RoundInput) { in.UsPoints = 1001 }, field: "usPoints"},
		{name: "them points near int overflow", edit: func(in *RoundInput) { in.ThemPoints = math.MaxInt64 }, field: "themPoints"},
		{name: "bad belote team", edit: func(in *RoundInput) { in.BeloteTeam = "nobody" }, field: "beloteTeam"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.edit(&in)
			err := in.Validate()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Problems, 1)
			assert.Equal(t, tt.field, verr.Problems[0].Field)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestRoundEntry_Validate(t *testing.T) {
	made := true
	entry := RoundEntry{BidTeam: TeamThem, BidContract: ContractCapot, TrumpCard: TrumpAll, UsRawPoints: 0, ThemRawPoints: 162, BidSuccess: &made}
	require.NoError(t, entry.Validate())

	entry.UsRawPoints = -3
	entry.BeloteTeam = "both"
	err := entry.Validate()
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Problems))
	for _, p := range verr.Problems {
		fields = append(fields, p.Field)
	}
	assert.ElementsMatch(t, []string{"usRawPoints", "beloteTeam"}, fields)
}

func TestRoundEntry_Validate_RejectsOversizedRawPoints(t *testing.T) {
	tests := []struct {
		name  string
		us    int
		them  int
		field string
	}{
		{name: "them raw at max int", us: 100, them: math.MaxInt64, field: "themRawPoints"},
		{name: "us raw just over bound", us: 1001, them: 0, field: "usRawPoints"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := RoundEntry{
				BidTeam:       TeamUs,
				BidContract:   Contract80,
				TrumpCard:     TrumpHearts,
				UsRawPoints:   tt.us,
				ThemRawPoints: tt.them,
				BeloteTeam:    TeamThem,
			}
			err := entry.Validate()
			require.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Problems, 1)
			assert.Equal(t, tt.field, verr.Problems[0].Field)
			assert.Contains(t, verr.Problems[0].Message, "at most 1000")
		})
	}

	atBound := RoundEntry{BidTeam: TeamUs, BidContract: Contract80, TrumpCard: TrumpHearts, UsRawPoints: 1000}
	assert.NoError(t, atBound.Validate())
}
