package entities

import "time"

// PaymentStatus is the state of an external payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// IsTerminal returns true if the payment will not change state again
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

// PaymentRequest asks the payment gateway to charge a player
type PaymentRequest struct {
	Amount  string `json:"amount"`
	To      string `json:"to"`
	Testnet bool   `json:"testnet"`
}

// PaymentResult is the gateway's answer to a payment request
type PaymentResult struct {
	ID     string        `json:"id"`
	Status PaymentStatus `json:"status"`
}

// Purchase tracks an XP package bought with an external payment
type Purchase struct {
	PaymentID   string        `db:"payment_id" json:"paymentId"`
	Identity    string        `db:"identity" json:"identity"`
	PackageID   string        `db:"package_id" json:"packageId"`
	XPAmount    int64         `db:"xp_amount" json:"xpAmount"`
	Price       string        `db:"price" json:"price"`
	Currency    string        `db:"currency" json:"currency"`
	Status      PaymentStatus `db:"status" json:"status"`
	CreatedAt   time.Time     `db:"created_at" json:"createdAt"`
	CompletedAt *time.Time    `db:"completed_at" json:"completedAt,omitempty"`
}

// PurchaseResult is returned once a purchase reaches a terminal state
type PurchaseResult struct {
	Purchase *Purchase `json:"purchase"`
	Ledger   *Ledger   `json:"ledger,omitempty"`
}

// CashoutResult is returned after XP has been debited for a cashout
type CashoutResult struct {
	Quote         *CashoutQuote `json:"quote"`
	TransactionID string        `json:"transactionId"`
	Ledger        *Ledger       `json:"ledger"`
}
