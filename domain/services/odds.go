package services

import (
	"math"

	"xpslots/domain/entities"
	"xpslots/domain/interfaces"
)

// ChiSquaredCritical95 is the 95% critical value for the two degrees of freedom
// of a jackpot / type match / no match tally
const ChiSquaredCritical95 = 5.991

// AnalyzeOdds computes exact outcome probabilities for three independent uniform draws.
// A triple that is both all top-ranked and single-category counts as a jackpot only.
func AnalyzeOdds(catalog []entities.Token) (entities.CatalogOdds, error) {
	if len(catalog) == 0 {
		return entities.CatalogOdds{}, entities.ErrEmptyCatalog
	}

	topRanked := 0
	perCategory := make(map[entities.TokenCategory]int)
	topPerCategory := make(map[entities.TokenCategory]int)
	for _, token := range catalog {
		perCategory[token.Category]++
		if token.HasTopRank(entities.JackpotMaxRank) {
			topRanked++
			topPerCategory[token.Category]++
		}
	}

	cube := func(v int) float64 { return math.Pow(float64(v), 3) }
	total := cube(len(catalog))

	jackpot := cube(topRanked) / total
	var typeMatchTriples float64
	for category, count := range perCategory {
		typeMatchTriples += cube(count) - cube(topPerCategory[category])
	}
	typeMatch := typeMatchTriples / total

	return entities.CatalogOdds{
		Tokens:               len(catalog),
		TopRankedTokens:      topRanked,
		JackpotProbability:   jackpot,
		TypeMatchProbability: typeMatch,
		NoMatchProbability:   1 - jackpot - typeMatch,
		ExpectedReturn:       jackpot*entities.JackpotMultiplier + typeMatch*entities.TypeMatchMultiplier,
	}, nil
}

// SimulateRounds draws and scores trials rounds of a one XP bet without touching any ledger
func SimulateRounds(catalog []entities.Token, random interfaces.RandomSource, trials int) (entities.SimulationResult, error) {
	if len(catalog) == 0 {
		return entities.SimulationResult{}, entities.ErrEmptyCatalog
	}

	result := entities.SimulationResult{Trials: trials}
	for i := 0; i < trials; i++ {
		var outcomes [entities.ReelCount]entities.Token
		for reel := range outcomes {
			outcomes[reel] = catalog[random.Intn(len(catalog))]
		}

		roundResult := ClassifyOutcomes(outcomes)
		switch roundResult {
		case entities.RoundResultJackpot:
			result.Jackpots++
		case entities.RoundResultTypeMatch:
			result.TypeMatches++
		default:
			result.NoMatches++
		}
		result.Wagered++
		result.PaidOut += CalculatePayout(roundResult, 1)
	}
	return result, nil
}

// ChiSquared measures how far a simulated tally strays from the exact odds
func ChiSquared(odds entities.CatalogOdds, sim entities.SimulationResult) float64 {
	observed := []int{sim.Jackpots, sim.TypeMatches, sim.NoMatches}
	expected := []float64{odds.JackpotProbability, odds.TypeMatchProbability, odds.NoMatchProbability}

	var chi float64
	for i, p := range expected {
		want := p * float64(sim.Trials)
		if want == 0 {
			continue
		}
		chi += math.Pow(float64(observed[i])-want, 2) / want
	}
	return chi
}
