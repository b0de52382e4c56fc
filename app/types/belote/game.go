package belotetypes

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultUsTeamName   = "Us"
	DefaultThemTeamName = "Them"
	DefaultTargetScore  = 1000
)

// Round is one recorded hand. Points are final, post-scoring values.
type Round struct {
	ID          string         `json:"id"`
	BidTeam     Team           `json:"bidTeam"`
	BidContract BeloteContract `json:"bidContract"`
	TrumpCard   TrumpCard      `json:"trumpCard"`
	BidSuccess  bool           `json:"bidSuccess"`
	UsPoints    int            `json:"usPoints"`
	ThemPoints  int            `json:"themPoints"`
	BeloteTeam  Team           `json:"beloteTeam,omitempty"`
	Notes       string         `json:"notes,omitempty"`
	Timestamp   int64          `json:"timestamp"`
}

// Time returns the round creation instant.
func (r Round) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Points returns the round points of team.
func (r Round) Points(team Team) int {
	switch team {
	case TeamUs:
		return r.UsPoints
	case TeamThem:
		return r.ThemPoints
	}
	return 0
}

// Summary renders a one-line description such as "Us bid 80 ♥ - Success".
func (r Round) Summary() string {
	bidder := "Them"
	if r.BidTeam == TeamUs {
		bidder = "Us"
	}
	outcome := "Failed"
	if r.BidSuccess {
		outcome = "Success"
	}
	return fmt.Sprintf("%s bid %s %s - %s", bidder, r.BidContract, r.TrumpCard.Symbol(), outcome)
}

// RoundInput is a scored round before the repository assigns its identity.
type RoundInput struct {
	BidTeam     Team           `json:"bidTeam" validate:"team"`
	BidContract BeloteContract `json:"bidContract" validate:"contract"`
	TrumpCard   TrumpCard      `json:"trumpCard" validate:"trump"`
	BidSuccess  bool           `json:"bidSuccess"`
	UsPoints    int            `json:"usPoints" validate:"gte=0,lte=1000"`
	ThemPoints  int            `json:"themPoints" validate:"gte=0,lte=1000"`
	BeloteTeam  Team           `json:"beloteTeam,omitempty" validate:"omitempty,team"`
	Notes       string         `json:"notes,omitempty" validate:"max=2000"`
}

// Normalize trims the free-text notes.
func (in RoundInput) Normalize() RoundInput {
	in.Notes = strings.TrimSpace(in.Notes)
	return in
}

// RoundEntry is a round as the table reports it: raw trick points before
// the Belote bonus and contract check. BidSuccess overrides the computed
// contract outcome when set.
type RoundEntry struct {
	BidTeam       Team           `json:"bidTeam" validate:"team"`
	BidContract   BeloteContract `json:"bidContract" validate:"contract"`
	TrumpCard     TrumpCard      `json:"trumpCard" validate:"trump"`
	UsRawPoints   int            `json:"usRawPoints" validate:"gte=0,lte=1000"`
	ThemRawPoints int            `json:"themRawPoints" validate:"gte=0,lte=1000"`
	BeloteTeam    Team           `json:"beloteTeam,omitempty" validate:"omitempty,team"`
	BidSuccess    *bool          `json:"bidSuccess,omitempty"`
	Notes         string         `json:"notes,omitempty" validate:"max=2000"`
}

// Game is the aggregate root: two teams, their cumulative scores and the
// ordered rounds that produced them.
type Game struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	UsTeamName   string     `json:"usTeamName"`
	ThemTeamName string     `json:"themTeamName"`
	UsScore      int        `json:"usScore"`
	ThemScore    int        `json:"themScore"`
	Rounds       []Round    `json:"rounds"`
	Status       GameStatus `json:"status"`
	TargetScore  int        `json:"targetScore"`
	CreatedAt    int64      `json:"createdAt"`
	LastUpdated  int64      `json:"lastUpdated"`
}

// Score returns the cumulative score of team.
func (g Game) Score(team Team) int {
	switch team {
	case TeamUs:
		return g.UsScore
	case TeamThem:
		return g.ThemScore
	}
	return 0
}

// TeamName returns the display name of team.
func (g Game) TeamName(team Team) string {
	switch team {
	case TeamUs:
		return g.UsTeamName
	case TeamThem:
		return g.ThemTeamName
	}
	return ""
}

// IsComplete reports whether either team reached the target score.
func (g Game) IsComplete() bool {
	return g.UsScore >= g.TargetScore || g.ThemScore >= g.TargetScore
}

// Winner returns the leading team of a complete game, NoTeam while the game
// is running or when the scores are tied.
func (g Game) Winner() Team {
	if !g.IsComplete() {
		return NoTeam
	}
	switch {
	case g.UsScore > g.ThemScore:
		return TeamUs
	case g.ThemScore > g.UsScore:
		return TeamThem
	}
	return NoTeam
}

// DeriveStatus computes the status implied by the rounds and scores.
func (g Game) DeriveStatus() GameStatus {
	switch {
	case len(g.Rounds) == 0:
		return StatusNotStarted
	case g.IsComplete():
		return StatusFinished
	}
	return StatusInProgress
}

// Round returns the round with id and its position.
func (g Game) Round(id string) (Round, int, bool) {
	for i, r := range g.Rounds {
		if r.ID == id {
			return r, i, true
		}
	}
	return Round{}, -1, false
}

// Clone returns a deep copy of g.
func (g Game) Clone() Game {
	out := g
	if g.Rounds != nil {
		out.Rounds = make([]Round, len(g.Rounds))
		copy(out.Rounds, g.Rounds)
	}
	return out
}

// Totals sums the points of rounds per team.
func Totals(rounds []Round) (us, them int) {
	for _, r := range rounds {
		us += r.UsPoints
		them += r.ThemPoints
	}
	return us, them
}

// GameDraft is the input of game creation.
type GameDraft struct {
	Title        string `json:"title" validate:"required,max=200"`
	UsTeamName   string `json:"usTeamName" validate:"max=100"`
	ThemTeamName string `json:"themTeamName" validate:"max=100"`
	TargetScore  int    `json:"targetScore" validate:"gt=0"`
}

// Normalize trims text fields and fills default team names.
func (d GameDraft) Normalize() GameDraft {
	d.Title = strings.TrimSpace(d.Title)
	d.UsTeamName = strings.TrimSpace(d.UsTeamName)
	if d.UsTeamName == "" {
		d.UsTeamName = DefaultUsTeamName
	}
	d.ThemTeamName = strings.TrimSpace(d.ThemTeamName)
	if d.ThemTeamName == "" {
		d.ThemTeamName = DefaultThemTeamName
	}
	return d
}
