package entities

// CatalogOdds are the exact per-round outcome probabilities of a catalog
type CatalogOdds struct {
	Tokens               int     `json:"tokens"`
	TopRankedTokens      int     `json:"topRankedTokens"`
	JackpotProbability   float64 `json:"jackpotProbability"`
	TypeMatchProbability float64 `json:"typeMatchProbability"`
	NoMatchProbability   float64 `json:"noMatchProbability"`
	// ExpectedReturn is the mean payout per XP bet; above 1 favours the player
	ExpectedReturn float64 `json:"expectedReturn"`
}

// SimulationResult tallies rounds resolved without touching any ledger
type SimulationResult struct {
	Trials      int   `json:"trials"`
	Jackpots    int   `json:"jackpots"`
	TypeMatches int   `json:"typeMatches"`
	NoMatches   int   `json:"noMatches"`
	Wagered     int64 `json:"wagered"`
	PaidOut     int64 `json:"paidOut"`
}

// ReturnRate is the observed payout per XP bet
func (r SimulationResult) ReturnRate() float64 {
	if r.Wagered == 0 {
		return 0
	}
	return float64(r.PaidOut) / float64(r.Wagered)
}
