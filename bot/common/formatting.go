package common

import (
	"fmt"
	"strings"
	"time"

	"xpslots/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// FormatXP formats an XP amount with thousand separators
func FormatXP(amount int64) string {
	if amount < 0 {
		return "-" + FormatXP(-amount)
	}

	str := fmt.Sprintf("%d", amount)
	n := len(str)
	if n <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}
	return result.String()
}

// FormatSignedXP formats a transaction amount with an explicit sign
func FormatSignedXP(amount int64) string {
	if amount > 0 {
		return "+" + FormatXP(amount)
	}
	return FormatXP(amount)
}

// FormatReels renders the drawn tokens as a single reel line
func FormatReels(outcomes [entities.ReelCount]entities.Token) string {
	symbols := make([]string, 0, len(outcomes))
	for _, token := range outcomes {
		symbols = append(symbols, "`"+token.Symbol+"`")
	}
	return strings.Join(symbols, " | ")
}

// FormatTransaction renders a single ledger entry for /history
func FormatTransaction(tx entities.Transaction) string {
	line := fmt.Sprintf("%s **%s XP** %s %s", kindIcon(tx.Kind), FormatSignedXP(tx.Amount), tx.Kind, FormatDiscordTimestamp(tx.Timestamp, "R"))
	if tx.ExternalReference != "" {
		line += fmt.Sprintf(" (`%s`)", tx.ExternalReference)
	}
	return line
}

func kindIcon(kind entities.TransactionKind) string {
	switch kind {
	case entities.TransactionKindPurchase:
		return "💳"
	case entities.TransactionKindWin:
		return "🏆"
	case entities.TransactionKindBet:
		return "🎰"
	case entities.TransactionKindCashout:
		return "🏦"
	}
	return "•"
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// InteractionUser returns the invoking user for both guild and DM interactions
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// IdentityFor returns the ledger identity of a Discord user
func IdentityFor(user *discordgo.User) string {
	return IdentityPrefix + user.ID
}
