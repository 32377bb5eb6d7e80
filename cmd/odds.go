package cmd

import (
	"fmt"
	"io"

	"xpslots/config"
	"xpslots/domain/entities"
	"xpslots/domain/services"
	"xpslots/domain/utils"
	"xpslots/infrastructure/catalog"
)

// DefaultOddsTrials is the number of simulated rounds used by the odds command
const DefaultOddsTrials = 100000

// AnalyzeOdds prints the exact odds of the configured catalog next to a simulated tally
func AnalyzeOdds(out io.Writer, trials int) error {
	if trials <= 0 {
		return fmt.Errorf("trials must be positive, got %d", trials)
	}

	tokens, err := catalog.Load(config.Get().CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load token catalog: %w", err)
	}
	return writeOddsReport(out, tokens, trials)
}

func writeOddsReport(out io.Writer, tokens []entities.Token, trials int) error {
	odds, err := services.AnalyzeOdds(tokens)
	if err != nil {
		return err
	}
	sim, err := services.SimulateRounds(tokens, utils.NewSecureRandomSource(), trials)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "=== XP Slots Odds (%d tokens, %d top ranked) ===\n\n", odds.Tokens, odds.TopRankedTokens)
	fmt.Fprintf(out, "%-11s %10s %10s\n", "Outcome", "Exact", "Simulated")
	fmt.Fprintf(out, "%-11s %9.4f%% %9.4f%%\n", "jackpot", odds.JackpotProbability*100, percent(sim.Jackpots, sim.Trials))
	fmt.Fprintf(out, "%-11s %9.4f%% %9.4f%%\n", "type match", odds.TypeMatchProbability*100, percent(sim.TypeMatches, sim.Trials))
	fmt.Fprintf(out, "%-11s %9.4f%% %9.4f%%\n", "no match", odds.NoMatchProbability*100, percent(sim.NoMatches, sim.Trials))
	fmt.Fprintf(out, "\nReturn per XP bet: exact %.4f, simulated %.4f over %d rounds\n", odds.ExpectedReturn, sim.ReturnRate(), sim.Trials)

	chi := services.ChiSquared(odds, sim)
	if chi < services.ChiSquaredCritical95 {
		fmt.Fprintf(out, "χ²: %.2f ✓ consistent with a uniform draw (< %.3f)\n", chi, services.ChiSquaredCritical95)
	} else {
		fmt.Fprintf(out, "χ²: %.2f ✗ deviates from the exact odds (>= %.3f)\n", chi, services.ChiSquaredCritical95)
	}
	return nil
}

func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}
