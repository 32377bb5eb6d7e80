package services

import (
	"context"
	"errors"
	"fmt"

	"xpslots/domain/entities"
	"xpslots/domain/events"
	"xpslots/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type roundResolver struct {
	ledger       interfaces.LedgerService
	random       interfaces.RandomSource
	newPublisher interfaces.TransactionalEventPublisherFactory
	pool         interfaces.PoolTracker
	metrics      interfaces.MetricsRecorder
}

// NewRoundResolver creates a new round resolver
func NewRoundResolver(ledger interfaces.LedgerService, random interfaces.RandomSource, newPublisher interfaces.TransactionalEventPublisherFactory, pool interfaces.PoolTracker, metrics interfaces.MetricsRecorder) interfaces.RoundResolver {
	return &roundResolver{
		ledger:       ledger,
		random:       random,
		newPublisher: newPublisher,
		pool:         pool,
		metrics:      metrics,
	}
}

func (r *roundResolver) PlayRound(ctx context.Context, identity string, bet int64, catalog []entities.Token) (*entities.Round, error) {
	if bet <= 0 || bet > entities.MaxBet {
		return nil, entities.ErrInvalidBet
	}
	if len(catalog) == 0 {
		return nil, entities.ErrEmptyCatalog
	}
	if err := entities.ValidateIdentity(identity); err != nil {
		return nil, err
	}

	affordable, err := r.ledger.HasSufficientBalance(ctx, identity, bet)
	if err != nil {
		return nil, fmt.Errorf("failed to check balance: %w", err)
	}
	if !affordable {
		return nil, entities.ErrInsufficientFunds
	}

	round := &entities.Round{
		Identity:     identity,
		Bet:          bet,
		RevealDelays: entities.RevealDelays,
	}
	for i := 0; i < entities.ReelCount; i++ {
		index := r.random.Intn(len(catalog))
		round.Indices[i] = index
		round.Outcomes[i] = catalog[index]
	}
	round.Result = ClassifyOutcomes(round.Outcomes)
	round.Payout = CalculatePayout(round.Result, bet)

	// Round events go out together once the round has settled
	publisher := r.newPublisher()

	// A drawn round always settles, even if the caller goes away
	settleCtx := context.WithoutCancel(ctx)
	settled, err := r.ledger.WithEventPublisher(publisher).SettleRound(settleCtx, identity, bet, round.Payout)
	if err != nil {
		publisher.Discard()
		if errors.Is(err, entities.ErrInsufficientBalance) {
			return nil, entities.ErrInsufficientFunds
		}
		log.WithFields(log.Fields{
			"identity": identity,
			"bet":      bet,
			"payout":   round.Payout,
			"result":   round.Result,
			"error":    err,
		}).Error("Failed to settle round")
		return nil, fmt.Errorf("failed to settle round: %w", err)
	}
	defer func() {
		if err := publisher.Flush(settleCtx); err != nil {
			log.WithError(err).Error("Failed to flush round events")
		}
	}()
	round.Balance = settled.Balance

	if err := publisher.Publish(events.RoundResolvedEvent{
		Identity: identity,
		Bet:      bet,
		Result:   round.Result,
		Payout:   round.Payout,
		Symbols:  round.Symbols(),
		Balance:  round.Balance,
	}); err != nil {
		log.WithError(err).Error("Failed to publish round resolved event")
	}

	r.pool.RecordRound(round)
	r.metrics.RecordRound(string(round.Result), bet, round.Payout)

	log.WithFields(log.Fields{
		"identity": identity,
		"bet":      bet,
		"symbols":  round.Symbols(),
		"result":   round.Result,
		"payout":   round.Payout,
		"balance":  round.Balance,
	}).Debug("Round resolved")

	return round, nil
}

// ClassifyOutcomes scores three reel outcomes. The jackpot check runs before the
// type match check so a hand that qualifies for both is scored as a jackpot.
func ClassifyOutcomes(outcomes [entities.ReelCount]entities.Token) entities.RoundResult {
	jackpot := true
	for _, token := range outcomes {
		if !token.HasTopRank(entities.JackpotMaxRank) {
			jackpot = false
			break
		}
	}
	if jackpot {
		return entities.RoundResultJackpot
	}

	category := outcomes[0].Category
	for _, token := range outcomes[1:] {
		if token.Category != category {
			return entities.RoundResultNoMatch
		}
	}
	return entities.RoundResultTypeMatch
}

// CalculatePayout returns the XP won for a result at the given bet
func CalculatePayout(result entities.RoundResult, bet int64) int64 {
	switch result {
	case entities.RoundResultJackpot:
		return bet * entities.JackpotMultiplier
	case entities.RoundResultTypeMatch:
		return bet * entities.TypeMatchMultiplier
	default:
		return 0
	}
}
