package entities

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedLedger is returned when a stored ledger record cannot be used
var ErrMalformedLedger = errors.New("malformed ledger record")

// EncodeLedger serializes a ledger into its storage record
func EncodeLedger(ledger *Ledger) ([]byte, error) {
	record := ledger
	if record.Transactions == nil {
		record = ledger.Clone()
	}
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ledger: %w", err)
	}
	return data, nil
}

// DecodeLedger parses a storage record. Records that are not valid JSON or that
// break the ledger invariants return ErrMalformedLedger.
func DecodeLedger(data []byte) (*Ledger, error) {
	var ledger Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedLedger, err)
	}
	if !ledger.IsValid() {
		return nil, ErrMalformedLedger
	}
	if ledger.Transactions == nil {
		ledger.Transactions = []Transaction{}
	}
	if len(ledger.Transactions) > MaxTransactionHistory {
		ledger.Transactions = ledger.Transactions[:MaxTransactionHistory]
	}
	return &ledger, nil
}
