package entities

import (
	"math"
	"strings"
	"time"
)

// MaxTransactionHistory is the number of most recent transactions kept on a ledger
const MaxTransactionHistory = 100

// MaxIdentityLength bounds the identity string used as a storage key suffix
const MaxIdentityLength = 256

// TransactionKind represents the kind of ledger transaction
type TransactionKind string

// All transaction kinds supported by the ledger
const (
	TransactionKindPurchase TransactionKind = "purchase"
	TransactionKindBet      TransactionKind = "bet"
	TransactionKindWin      TransactionKind = "win"
	TransactionKindCashout  TransactionKind = "cashout"
)

// IsCredit returns true if the kind increases the balance
func (k TransactionKind) IsCredit() bool {
	return k == TransactionKindPurchase || k == TransactionKindWin
}

// IsDebit returns true if the kind decreases the balance
func (k TransactionKind) IsDebit() bool {
	return k == TransactionKindBet || k == TransactionKindCashout
}

// Transaction is an immutable ledger entry.
// Amount is positive for credits and negative for debits.
type Transaction struct {
	ID                string          `json:"id"`
	Kind              TransactionKind `json:"type"`
	Amount            int64           `json:"amount"`
	Timestamp         time.Time       `json:"timestamp"`
	ExternalReference string          `json:"txHash,omitempty"`
}

// Ledger is the persisted XP state of a single identity
type Ledger struct {
	Balance        int64         `json:"balance"`
	TotalPurchased int64         `json:"totalPurchased"`
	TotalWon       int64         `json:"totalWon"`
	TotalLost      int64         `json:"totalLost"`
	Transactions   []Transaction `json:"transactions"`
}

// NewLedger returns a zeroed ledger with an empty history
func NewLedger() *Ledger {
	return &Ledger{Transactions: []Transaction{}}
}

// Clone returns a deep copy of the ledger
func (l *Ledger) Clone() *Ledger {
	clone := *l
	clone.Transactions = make([]Transaction, len(l.Transactions))
	copy(clone.Transactions, l.Transactions)
	return &clone
}

// HasSufficientBalance checks if the balance covers an amount
func (l *Ledger) HasSufficientBalance(amount int64) bool {
	return l.Balance >= amount
}

// IsValid reports whether a decoded ledger satisfies the ledger invariants
func (l *Ledger) IsValid() bool {
	if l.Balance < 0 || l.TotalPurchased < 0 || l.TotalWon < 0 || l.TotalLost < 0 {
		return false
	}
	for _, tx := range l.Transactions {
		if tx.ID == "" || tx.Amount == 0 {
			return false
		}
		if !tx.Kind.IsCredit() && !tx.Kind.IsDebit() {
			return false
		}
	}
	return true
}

// ApplyCredit records a credit transaction and updates the balance and matching counter.
// The caller validates the transaction before applying it.
// Returns ErrBalanceOverflow without mutating the ledger when a total would exceed int64.
func (l *Ledger) ApplyCredit(tx Transaction) error {
	counter := &l.TotalWon
	if tx.Kind == TransactionKindPurchase {
		counter = &l.TotalPurchased
	}
	if l.Balance > math.MaxInt64-tx.Amount || *counter > math.MaxInt64-tx.Amount {
		return ErrBalanceOverflow
	}

	l.Balance += tx.Amount
	*counter += tx.Amount
	l.prepend(tx)
	return nil
}

// ApplyDebit records a debit transaction. tx.Amount is negative.
// Returns ErrInsufficientBalance without mutating the ledger when the balance does not cover it.
func (l *Ledger) ApplyDebit(tx Transaction) error {
	amount := -tx.Amount
	if !l.HasSufficientBalance(amount) {
		return ErrInsufficientBalance
	}
	if tx.Kind == TransactionKindBet && l.TotalLost > math.MaxInt64-amount {
		return ErrBalanceOverflow
	}

	l.Balance -= amount
	if tx.Kind == TransactionKindBet {
		l.TotalLost += amount
	}
	l.prepend(tx)
	return nil
}

// prepend adds tx as the most recent entry and drops entries beyond the history bound
func (l *Ledger) prepend(tx Transaction) {
	history := make([]Transaction, 0, min(len(l.Transactions)+1, MaxTransactionHistory))
	history = append(history, tx)
	for _, existing := range l.Transactions {
		if len(history) == MaxTransactionHistory {
			break
		}
		history = append(history, existing)
	}
	l.Transactions = history
}

// ValidateIdentity checks that an identity can be used as a ledger key
func ValidateIdentity(identity string) error {
	if strings.TrimSpace(identity) == "" || len(identity) > MaxIdentityLength {
		return ErrInvalidIdentity
	}
	return nil
}
