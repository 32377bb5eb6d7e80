package services

import (
	"sync"

	"xpslots/domain/entities"
	"xpslots/domain/interfaces"
)

// poolTracker keeps the in-process prize pool statistics.
// The pool grows by every bet and is not persisted.
type poolTracker struct {
	mu       sync.RWMutex
	snapshot entities.PoolSnapshot
}

// NewPoolTracker creates an empty pool tracker
func NewPoolTracker() interfaces.PoolTracker {
	return &poolTracker{}
}

func (p *poolTracker) RecordRound(round *entities.Round) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.snapshot.TotalPool += round.Bet
	p.snapshot.RoundsPlayed++
	p.snapshot.TotalPaidOut += round.Payout
	switch round.Result {
	case entities.RoundResultJackpot:
		p.snapshot.Jackpots++
	case entities.RoundResultTypeMatch:
		p.snapshot.TypeMatches++
	}
}

func (p *poolTracker) Snapshot() entities.PoolSnapshot {
	p.mu.RLock()
	snapshot := p.snapshot
	p.mu.RUnlock()

	snapshot.WinnersShare, snapshot.BuybackShare, snapshot.PlatformShare = entities.SplitPool(snapshot.TotalPool)
	return snapshot
}
