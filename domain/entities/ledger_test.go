package entities

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTx(id string, kind TransactionKind, amount int64) Transaction {
	return Transaction{ID: id, Kind: kind, Amount: amount, Timestamp: time.Unix(1700000000, 0).UTC()}
}

func TestLedger_ApplyCreditAndDebit(t *testing.T) {
	ledger := NewLedger()

	require.NoError(t, ledger.ApplyCredit(newTx("1", TransactionKindPurchase, 500)))
	require.NoError(t, ledger.ApplyDebit(newTx("2", TransactionKindBet, -40)))
	require.NoError(t, ledger.ApplyCredit(newTx("3", TransactionKindWin, 400)))
	require.NoError(t, ledger.ApplyDebit(newTx("4", TransactionKindCashout, -100)))

	assert.Equal(t, int64(760), ledger.Balance)
	assert.Equal(t, int64(500), ledger.TotalPurchased)
	assert.Equal(t, int64(400), ledger.TotalWon)
	assert.Equal(t, int64(40), ledger.TotalLost)
	require.Len(t, ledger.Transactions, 4)
	assert.Equal(t, "4", ledger.Transactions[0].ID)
	assert.Equal(t, "1", ledger.Transactions[3].ID)
}

func TestLedger_ApplyDebitInsufficient(t *testing.T) {
	ledger := NewLedger()
	require.NoError(t, ledger.ApplyCredit(newTx("1", TransactionKindPurchase, 50)))
	before := ledger.Clone()

	err := ledger.ApplyDebit(newTx("2", TransactionKindBet, -51))

	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, before, ledger)
}

func TestLedger_ApplyCreditOverflow(t *testing.T) {
	ledger := NewLedger()
	require.NoError(t, ledger.ApplyCredit(newTx("1", TransactionKindWin, math.MaxInt64-5)))
	before := ledger.Clone()

	err := ledger.ApplyCredit(newTx("2", TransactionKindPurchase, 10))

	assert.ErrorIs(t, err, ErrBalanceOverflow)
	assert.Equal(t, before, ledger)
}

func TestLedger_HistoryBound(t *testing.T) {
	ledger := NewLedger()
	for i := 0; i < MaxTransactionHistory+5; i++ {
		require.NoError(t, ledger.ApplyCredit(newTx(string(rune('a'+i%26)), TransactionKindWin, 1)))
	}

	assert.Len(t, ledger.Transactions, MaxTransactionHistory)
	assert.Equal(t, int64(MaxTransactionHistory+5), ledger.Balance)
	assert.Equal(t, int64(MaxTransactionHistory+5), ledger.TotalWon)
}

func TestLedger_CloneIsDeep(t *testing.T) {
	ledger := NewLedger()
	require.NoError(t, ledger.ApplyCredit(newTx("1", TransactionKindPurchase, 10)))

	clone := ledger.Clone()
	clone.Transactions[0].Amount = 999

	assert.Equal(t, int64(10), ledger.Transactions[0].Amount)
}

func TestValidateIdentity(t *testing.T) {
	assert.NoError(t, ValidateIdentity("discord:1"))
	assert.ErrorIs(t, ValidateIdentity(""), ErrInvalidIdentity)
	assert.ErrorIs(t, ValidateIdentity("   "), ErrInvalidIdentity)
	assert.ErrorIs(t, ValidateIdentity(strings.Repeat("x", MaxIdentityLength+1)), ErrInvalidIdentity)
}

func TestLedgerCodec_RoundTrip(t *testing.T) {
	ledger := NewLedger()
	require.NoError(t, ledger.ApplyCredit(Transaction{ID: "1", Kind: TransactionKindPurchase, Amount: 500, Timestamp: time.Unix(1700000000, 0).UTC(), ExternalReference: "0xabc"}))

	data, err := EncodeLedger(ledger)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"purchase"`)
	assert.Contains(t, string(data), `"txHash":"0xabc"`)

	decoded, err := DecodeLedger(data)
	require.NoError(t, err)
	assert.Equal(t, ledger, decoded)
}

func TestEncodeLedger_NilHistoryIsEmptyArray(t *testing.T) {
	data, err := EncodeLedger(&Ledger{Balance: 5})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"transactions":[]`)
}

func TestDecodeLedger_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"balance":`},
		{"negative balance", `{"balance":-1,"transactions":[]}`},
		{"negative counter", `{"balance":0,"totalLost":-5,"transactions":[]}`},
		{"unknown kind", `{"balance":1,"transactions":[{"id":"1","type":"gift","amount":1}]}`},
		{"missing id", `{"balance":1,"transactions":[{"type":"win","amount":1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeLedger([]byte(tt.data))
			assert.ErrorIs(t, err, ErrMalformedLedger)
		})
	}
}

func TestDecodeLedger_MissingHistory(t *testing.T) {
	ledger, err := DecodeLedger([]byte(`{"balance":12}`))
	require.NoError(t, err)
	assert.Equal(t, int64(12), ledger.Balance)
	assert.NotNil(t, ledger.Transactions)
	assert.Empty(t, ledger.Transactions)
}
