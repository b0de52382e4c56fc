package scoringservice

import (
	belotetypes "github.com/Black-And-White-Club/belote-tracker/app/types/belote"
)

// BelotePoints is the bonus for holding king and queen of trump.
const BelotePoints = 20

// RoundScore is the final point split of one round.
type RoundScore struct {
	Us   int `json:"usScore"`
	Them int `json:"themScore"`
}

// Total returns the sum of both sides.
func (s RoundScore) Total() int { return s.Us + s.Them }

// Points returns the score of team.
func (s RoundScore) Points(team belotetypes.Team) int {
	switch team {
	case belotetypes.TeamUs:
		return s.Us
	case belotetypes.TeamThem:
		return s.Them
	}
	return 0
}

// Outcome is a RoundScore with the facts that produced it.
type Outcome struct {
	RoundScore
	ContractMet  bool `json:"contractMet"`
	PointPool    int  `json:"pointPool"`
	BidderPoints int  `json:"bidderPoints"`
	Threshold    int  `json:"threshold"`
}

// ScoreRound turns raw trick points into the round's final scores.
func ScoreRound(
	bidTeam belotetypes.Team,
	bidContract belotetypes.BeloteContract,
	trumpCard belotetypes.TrumpCard,
	usRawPoints, themRawPoints int,
	beloteTeam belotetypes.Team,
) RoundScore {
	return Evaluate(bidTeam, bidContract, trumpCard, usRawPoints, themRawPoints, beloteTeam).RoundScore
}

// Evaluate scores a round and reports whether the contract was met.
//
// The Belote bonus goes to its holder before the contract check. A met
// contract leaves each side with the points it won; a failed one gives the
// whole pool to the defenders and nothing to the bidder.
func Evaluate(
	bidTeam belotetypes.Team,
	bidContract belotetypes.BeloteContract,
	trumpCard belotetypes.TrumpCard,
	usRawPoints, themRawPoints int,
	beloteTeam belotetypes.Team,
) Outcome {
	us, them := usRawPoints, themRawPoints
	switch beloteTeam {
	case belotetypes.TeamUs:
		us += BelotePoints
	case belotetypes.TeamThem:
		them += BelotePoints
	}

	pool := trumpCard.PointPool()
	bidderPoints := them
	if bidTeam == belotetypes.TeamUs {
		bidderPoints = us
	}
	threshold := bidContract.Threshold()

	out := Outcome{
		ContractMet:  bidderPoints >= threshold,
		PointPool:    pool,
		BidderPoints: bidderPoints,
		Threshold:    threshold,
	}

	if out.ContractMet {
		out.RoundScore = RoundScore{Us: us, Them: them}
		return out
	}

	if bidTeam == belotetypes.TeamUs {
		out.RoundScore = RoundScore{Us: 0, Them: pool}
	} else {
		out.RoundScore = RoundScore{Us: pool, Them: 0}
	}
	return out
}
