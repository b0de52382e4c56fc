package belotetypes

// Team identifies one of the two partnerships in a game.
type Team string

const (
	// NoTeam is the zero value, used where a team is optional (Belote holder).
	NoTeam   Team = ""
	TeamUs   Team = "us"
	TeamThem Team = "them"
)

// AllTeams lists the teams in display order.
func AllTeams() []Team {
	return []Team{TeamUs, TeamThem}
}

// Valid reports whether t is one of the two teams. NoTeam is not valid.
func (t Team) Valid() bool {
	switch t {
	case TeamUs, TeamThem:
		return true
	}
	return false
}

// Opponent returns the other team.
func (t Team) Opponent() Team {
	switch t {
	case TeamUs:
		return TeamThem
	case TeamThem:
		return TeamUs
	}
	return NoTeam
}

func (t Team) String() string { return string(t) }

// TrumpCard is the trump mode of a round.
type TrumpCard string

const (
	TrumpHearts   TrumpCard = "hearts"
	TrumpDiamonds TrumpCard = "diamonds"
	TrumpClubs    TrumpCard = "clubs"
	TrumpSpades   TrumpCard = "spades"
	TrumpNone     TrumpCard = "no-trump"
	TrumpAll      TrumpCard = "all-trump"
)

const (
	// TotalPointsNoTrump is the point pool of a no-trump round.
	TotalPointsNoTrump = 152
	// TotalPointsWithTrump is the point pool of every other round.
	TotalPointsWithTrump = 162
)

// AllTrumpCards lists the trump modes in display order.
func AllTrumpCards() []TrumpCard {
	return []TrumpCard{TrumpHearts, TrumpDiamonds, TrumpClubs, TrumpSpades, TrumpNone, TrumpAll}
}

// Valid reports whether c is a known trump mode.
func (c TrumpCard) Valid() bool {
	switch c {
	case TrumpHearts, TrumpDiamonds, TrumpClubs, TrumpSpades, TrumpNone, TrumpAll:
		return true
	}
	return false
}

// PointPool returns the total points available in a round played with c.
func (c TrumpCard) PointPool() int {
	if c == TrumpNone {
		return TotalPointsNoTrump
	}
	return TotalPointsWithTrump
}

// Symbol returns the short display symbol for c.
func (c TrumpCard) Symbol() string {
	switch c {
	case TrumpHearts:
		return "♥"
	case TrumpDiamonds:
		return "♦"
	case TrumpClubs:
		return "♣"
	case TrumpSpades:
		return "♠"
	case TrumpNone:
		return "NT"
	case TrumpAll:
		return "AT"
	}
	return ""
}

// Color returns the palette entry used to draw c.
func (c TrumpCard) Color() TrumpColor {
	switch c {
	case TrumpHearts, TrumpDiamonds:
		return TrumpColorRed
	case TrumpClubs, TrumpSpades:
		return TrumpColorBlack
	case TrumpNone:
		return TrumpColorBlue
	case TrumpAll:
		return TrumpColorGold
	}
	return ""
}

func (c TrumpCard) String() string { return string(c) }

// TrumpColor names the palette entry of a trump mode.
type TrumpColor string

const (
	TrumpColorRed   TrumpColor = "red"
	TrumpColorBlack TrumpColor = "black"
	TrumpColorBlue  TrumpColor = "blue"
	TrumpColorGold  TrumpColor = "gold"
)

// BeloteContract is the level a team bids.
type BeloteContract string

const (
	Contract80    BeloteContract = "80"
	Contract90    BeloteContract = "90"
	Contract100   BeloteContract = "100"
	Contract110   BeloteContract = "110"
	Contract120   BeloteContract = "120"
	Contract130   BeloteContract = "130"
	Contract140   BeloteContract = "140"
	Contract150   BeloteContract = "150"
	Contract160   BeloteContract = "160"
	ContractCapot BeloteContract = "capot"
)

// CapotThreshold is the point threshold of a capot. It is above any reachable
// total (162 plus the Belote bonus), so capot is a marker for "every trick",
// not a point target.
const CapotThreshold = 250

// AllContracts lists the contract levels in ascending order.
func AllContracts() []BeloteContract {
	return []BeloteContract{
		Contract80, Contract90, Contract100, Contract110, Contract120,
		Contract130, Contract140, Contract150, Contract160, ContractCapot,
	}
}

// Valid reports whether c is a known contract level.
func (c BeloteContract) Valid() bool {
	return c.Threshold() > 0
}

// Threshold returns the points the bidding team needs to make the contract.
// Unknown contracts return 0.
func (c BeloteContract) Threshold() int {
	switch c {
	case Contract80:
		return 80
	case Contract90:
		return 90
	case Contract100:
		return 100
	case Contract110:
		return 110
	case Contract120:
		return 120
	case Contract130:
		return 130
	case Contract140:
		return 140
	case Contract150:
		return 150
	case Contract160:
		return 160
	case ContractCapot:
		return CapotThreshold
	}
	return 0
}

func (c BeloteContract) String() string { return string(c) }

// GameStatus is the lifecycle stage of a game.
type GameStatus string

const (
	StatusNotStarted GameStatus = "not-started"
	StatusInProgress GameStatus = "in-progress"
	StatusFinished   GameStatus = "finished"
)

// Valid reports whether s is a known status.
func (s GameStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusFinished:
		return true
	}
	return false
}
