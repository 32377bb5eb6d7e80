package common

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
	ColorWarning = 0xFEE75C // Yellow
	ColorJackpot = 0xF1C40F // Gold
)

// IdentityPrefix namespaces Discord users in the ledger key space
const IdentityPrefix = "discord:"

// HistoryLimit is the number of transactions shown by /history
const HistoryLimit = 10
