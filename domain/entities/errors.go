package entities

import "errors"

// Business and validation failures returned by the domain services
var (
	ErrInvalidIdentity        = errors.New("identity must not be empty")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInvalidTransactionKind = errors.New("transaction kind is not valid for this operation")
	ErrInsufficientBalance    = errors.New("insufficient XP balance")
	ErrBalanceOverflow        = errors.New("amount would overflow the XP balance")

	ErrInvalidBet        = errors.New("bet amount must be positive and at most the maximum bet")
	ErrEmptyCatalog      = errors.New("token catalog is empty")
	ErrInsufficientFunds = errors.New("insufficient XP to place this bet")

	ErrUnknownPackage          = errors.New("unknown XP package")
	ErrPaymentFailed           = errors.New("payment failed")
	ErrPurchaseNotFound        = errors.New("purchase not found")
	ErrPurchaseAlreadyExists   = errors.New("purchase already exists")
	ErrInvalidPollingConfig    = errors.New("polling requires a positive attempt count and a non-negative interval")
	ErrBelowMinimumCashout     = errors.New("amount is below the minimum cashout")
	ErrPaymentGatewayRejection = errors.New("payment gateway rejected the request")
)
