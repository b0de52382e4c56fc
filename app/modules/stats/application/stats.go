package statsservice

import (
	"fmt"
	"math"

	belotetypes "github.com/Black-And-White-Club/belote-tracker/app/types/belote"
)

// BidStats tallies the contracts one team took.
type BidStats struct {
	Bids        int `json:"bids"`
	Successful  int `json:"successful"`
	SuccessRate int `json:"successRate"`
}

// TrumpUsage counts the rounds played in one trump mode.
type TrumpUsage struct {
	Trump  belotetypes.TrumpCard  `json:"trump"`
	Symbol string                 `json:"symbol"`
	Color  belotetypes.TrumpColor `json:"color"`
	Count  int                    `json:"count"`
}

// RoundPoints is a per-round pair of values labelled "Round N".
type RoundPoints struct {
	Label string `json:"label"`
	Us    int    `json:"us"`
	Them  int    `json:"them"`
}

// GameStats is the analysis shown next to a game.
type GameStats struct {
	GameID         string        `json:"gameId"`
	Rounds         int           `json:"rounds"`
	Us             BidStats      `json:"us"`
	Them           BidStats      `json:"them"`
	Trumps         []TrumpUsage  `json:"trumps"`
	PointsPerRound []RoundPoints `json:"pointsPerRound"`
	RunningScore   []RoundPoints `json:"runningScore"`
	UsProgress     int           `json:"usProgress"`
	ThemProgress   int           `json:"themProgress"`
}

// Bids returns the tally for team.
func (s GameStats) Bids(team belotetypes.Team) BidStats {
	if team == belotetypes.TeamThem {
		return s.Them
	}
	return s.Us
}

// Compute derives the statistics of game from its rounds in insertion order.
func Compute(game belotetypes.Game) GameStats {
	stats := GameStats{
		GameID:         game.ID,
		Rounds:         len(game.Rounds),
		Trumps:         []TrumpUsage{},
		PointsPerRound: make([]RoundPoints, 0, len(game.Rounds)),
		RunningScore:   make([]RoundPoints, 0, len(game.Rounds)),
	}

	trumpCounts := make(map[belotetypes.TrumpCard]int)
	var usTotal, themTotal int
	for i, round := range game.Rounds {
		label := fmt.Sprintf("Round %d", i+1)

		tally := &stats.Us
		if round.BidTeam == belotetypes.TeamThem {
			tally = &stats.Them
		}
		tally.Bids++
		if round.BidSuccess {
			tally.Successful++
		}

		trumpCounts[round.TrumpCard]++

		usTotal += round.UsPoints
		themTotal += round.ThemPoints
		stats.PointsPerRound = append(stats.PointsPerRound, RoundPoints{Label: label, Us: round.UsPoints, Them: round.ThemPoints})
		stats.RunningScore = append(stats.RunningScore, RoundPoints{Label: label, Us: usTotal, Them: themTotal})
	}

	stats.Us.SuccessRate = percent(stats.Us.Successful, stats.Us.Bids)
	stats.Them.SuccessRate = percent(stats.Them.Successful, stats.Them.Bids)

	for _, trump := range belotetypes.AllTrumpCards() {
		if n := trumpCounts[trump]; n > 0 {
			stats.Trumps = append(stats.Trumps, TrumpUsage{
				Trump:  trump,
				Symbol: trump.Symbol(),
				Color:  trump.Color(),
				Count:  n,
			})
		}
	}

	stats.UsProgress = progress(game.UsScore, game.TargetScore)
	stats.ThemProgress = progress(game.ThemScore, game.TargetScore)
	return stats
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

// progress is the rounded percentage of target reached, clamped to [0, 100].
func progress(score, target int) int {
	p := percent(score, target)
	return max(0, min(p, 100))
}
