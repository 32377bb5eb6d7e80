package observability

// Metric name prefixes
const (
	MetricPrefix = "xpslots"
)

// Metric names
const (
	// Ledger metrics
	LedgerTransactionsTotal = MetricPrefix + ".ledger.transactions_total"

	// Round metrics
	RoundsTotal   = MetricPrefix + ".rounds.total"
	RoundBetXP    = MetricPrefix + ".rounds.bet_xp"
	RoundPayoutXP = MetricPrefix + ".rounds.payout_xp"

	// Payment metrics
	PaymentPollsTotal   = MetricPrefix + ".payments.polls_total"
	PaymentPollAttempts = MetricPrefix + ".payments.poll_attempts"
)

// Label keys
const (
	LabelKind   = "kind"
	LabelResult = "result"
	LabelStatus = "status"
)
