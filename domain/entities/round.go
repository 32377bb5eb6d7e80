package entities

import (
	"math"
	"time"
)

// ReelCount is the number of reels drawn per round
const ReelCount = 3

// Payout rules
const (
	JackpotMaxRank      = 3
	JackpotMultiplier   = 100
	TypeMatchMultiplier = 10
)

// MaxBet is the largest bet whose jackpot payout still fits in an int64
const MaxBet = math.MaxInt64 / JackpotMultiplier

// Shares of the prize pool, in percent
const (
	PoolWinnersPercent  = 60
	PoolBuybackPercent  = 30
	PoolPlatformPercent = 10
)

// RevealDelays is the staggered delay after which each reel stops spinning in the UI
var RevealDelays = [ReelCount]time.Duration{
	1500 * time.Millisecond,
	2000 * time.Millisecond,
	2500 * time.Millisecond,
}

// RoundResult is the classification of a resolved round
type RoundResult string

const (
	RoundResultNoMatch   RoundResult = "no_match"
	RoundResultTypeMatch RoundResult = "type_match"
	RoundResultJackpot   RoundResult = "jackpot"
)

// IsWin returns true if the result pays out
func (r RoundResult) IsWin() bool {
	return r == RoundResultTypeMatch || r == RoundResultJackpot
}

// Round is the transient outcome of a single play
type Round struct {
	Identity     string                   `json:"identity"`
	Bet          int64                    `json:"bet"`
	Indices      [ReelCount]int           `json:"indices"`
	Outcomes     [ReelCount]Token         `json:"outcomes"`
	Result       RoundResult              `json:"result"`
	Payout       int64                    `json:"payout"`
	Balance      int64                    `json:"balance"`
	RevealDelays [ReelCount]time.Duration `json:"revealDelays"`
}

// Symbols returns the drawn token symbols in reel order
func (r *Round) Symbols() []string {
	symbols := make([]string, 0, ReelCount)
	for _, token := range r.Outcomes {
		symbols = append(symbols, token.Symbol)
	}
	return symbols
}

// PoolSnapshot is a point-in-time view of the shared prize pool statistics
type PoolSnapshot struct {
	TotalPool    int64 `json:"totalPool"`
	RoundsPlayed int64 `json:"roundsPlayed"`
	Jackpots     int64 `json:"jackpots"`
	TypeMatches  int64 `json:"typeMatches"`
	TotalPaidOut int64 `json:"totalPaidOut"`

	WinnersShare  int64 `json:"winnersShare"`
	BuybackShare  int64 `json:"buybackShare"`
	PlatformShare int64 `json:"platformShare"`
}

// SplitPool divides a pool into the winners, buyback and platform shares.
// The platform share takes the rounding remainder so the shares always sum to total.
func SplitPool(total int64) (winners, buyback, platform int64) {
	winners = percentOf(total, PoolWinnersPercent)
	buyback = percentOf(total, PoolBuybackPercent)
	return winners, buyback, total - winners - buyback
}

func percentOf(total, percent int64) int64 {
	return total/100*percent + total%100*percent/100
}
