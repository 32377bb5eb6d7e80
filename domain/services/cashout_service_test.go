package services

import (
	"context"
	"testing"

	"xpslots/domain/entities"
	"xpslots/domain/events"
	"xpslots/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCashoutService_Quote(t *testing.T) {
	service := NewCashoutService(nil, nil)

	tests := []struct {
		name  string
		xp    int64
		gross int64
		fee   int64
		net   int64
	}{
		{"minimum", 1000, 1000, 100, 900},
		{"round fee", 2500, 2500, 250, 2250},
		{"fee rounds half up", 1005, 1005, 101, 904},
		{"fee rounds down", 1004, 1004, 100, 904},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := service.Quote(tt.xp)
			require.NoError(t, err)
			assert.Equal(t, &entities.CashoutQuote{
				XP:         tt.xp,
				GrossCents: tt.gross,
				FeeCents:   tt.fee,
				NetCents:   tt.net,
			}, quote)
		})
	}
}

func TestCashoutService_QuoteRejectsSmallAmounts(t *testing.T) {
	service := NewCashoutService(nil, nil)

	_, err := service.Quote(0)
	assert.ErrorIs(t, err, entities.ErrInvalidAmount)

	_, err = service.Quote(999)
	assert.ErrorIs(t, err, entities.ErrBelowMinimumCashout)
}

func TestCashoutService_Cashout(t *testing.T) {
	ctx := context.Background()
	published := &testhelpers.RecordingEventPublisher{}
	ledger := NewLedgerService(testhelpers.NewFakeKeyValueStore(), published, testhelpers.NoopMetricsRecorder{})
	service := NewCashoutService(ledger, testhelpers.NewBufferedPublisherFactory(published))

	_, err := ledger.Credit(ctx, "alice", 3000, entities.TransactionKindPurchase, "pay_1")
	require.NoError(t, err)

	result, err := service.Cashout(ctx, "alice", 1200)
	require.NoError(t, err)

	assert.Equal(t, int64(1800), result.Ledger.Balance)
	assert.Equal(t, int64(0), result.Ledger.TotalLost)
	assert.Equal(t, int64(1080), result.Quote.NetCents)
	assert.Equal(t, result.Ledger.Transactions[0].ID, result.TransactionID)
	assert.Equal(t, entities.TransactionKindCashout, result.Ledger.Transactions[0].Kind)

	assert.Equal(t, []events.EventType{
		events.EventTypeBalanceChange,
		events.EventTypeBalanceChange,
		events.EventTypeCashoutRequested,
	}, published.Types())
	requested := published.Events()[2].(events.CashoutRequestedEvent)
	assert.Equal(t, events.CashoutRequestedEvent{
		Identity:      "alice",
		TransactionID: result.TransactionID,
		XP:            1200,
		NetCents:      1080,
		FeeCents:      120,
	}, requested)
}

func TestCashoutService_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	published := &testhelpers.RecordingEventPublisher{}
	ledger := NewLedgerService(testhelpers.NewFakeKeyValueStore(), published, testhelpers.NoopMetricsRecorder{})
	service := NewCashoutService(ledger, testhelpers.NewBufferedPublisherFactory(published))

	_, err := ledger.Credit(ctx, "alice", 1500, entities.TransactionKindPurchase, "")
	require.NoError(t, err)

	_, err = service.Cashout(ctx, "alice", 2000)
	assert.ErrorIs(t, err, entities.ErrInsufficientBalance)

	loaded, err := ledger.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), loaded.Balance)
	assert.Len(t, published.Events(), 1)
}
