package bot

import (
	"fmt"
	"strings"

	"xpslots/bot/common"
	"xpslots/domain/entities"

	"github.com/bwmarrin/discordgo"
)

func buildBalanceEmbed(ledger *entities.Ledger) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "💰 XP Balance",
		Description: fmt.Sprintf("You have **%s XP** (%s)", common.FormatXP(ledger.Balance), entities.FormatUSDCents(entities.XPToUSDCents(ledger.Balance))),
		Color:       common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Purchased", Value: common.FormatXP(ledger.TotalPurchased), Inline: true},
			{Name: "Won", Value: common.FormatXP(ledger.TotalWon), Inline: true},
			{Name: "Lost", Value: common.FormatXP(ledger.TotalLost), Inline: true},
		},
	}
}

func buildRoundEmbed(round *entities.Round, pool entities.PoolSnapshot) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Description: common.FormatReels(round.Outcomes),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Bet", Value: common.FormatXP(round.Bet) + " XP", Inline: true},
			{Name: "Balance", Value: common.FormatXP(round.Balance) + " XP", Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Pool: %s XP across %s rounds | Winners %s / Buyback %s / Platform %s",
				common.FormatXP(pool.TotalPool), common.FormatXP(pool.RoundsPlayed),
				common.FormatXP(pool.WinnersShare), common.FormatXP(pool.BuybackShare), common.FormatXP(pool.PlatformShare)),
		},
	}

	switch round.Result {
	case entities.RoundResultJackpot:
		embed.Title = "💎 JACKPOT 💎"
		embed.Color = common.ColorJackpot
	case entities.RoundResultTypeMatch:
		embed.Title = fmt.Sprintf("🎉 Type match: %s", round.Outcomes[0].Category)
		embed.Color = common.ColorSuccess
	default:
		embed.Title = "🎰 No match"
		embed.Color = common.ColorDanger
	}

	if round.Payout > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Won", Value: common.FormatXP(round.Payout) + " XP", Inline: true,
		})
	}
	return embed
}

func buildPurchaseEmbed(result *entities.PurchaseResult) *discordgo.MessageEmbed {
	purchase := result.Purchase
	embed := &discordgo.MessageEmbed{
		Title:       "💳 Purchase complete",
		Description: fmt.Sprintf("**%s XP** added for %s %s", common.FormatXP(purchase.XPAmount), purchase.Price, purchase.Currency),
		Color:       common.ColorSuccess,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Payment " + purchase.PaymentID},
	}
	if result.Ledger != nil {
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Balance", Value: common.FormatXP(result.Ledger.Balance) + " XP", Inline: true},
		}
	}
	return embed
}

func buildCashoutEmbed(result *entities.CashoutResult) *discordgo.MessageEmbed {
	quote := result.Quote
	embed := &discordgo.MessageEmbed{
		Title:       "🏦 Cashout requested",
		Description: fmt.Sprintf("**%s XP** will be paid out as **%s**", common.FormatXP(quote.XP), entities.FormatUSDCents(quote.NetCents)),
		Color:       common.ColorWarning,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Gross", Value: entities.FormatUSDCents(quote.GrossCents), Inline: true},
			{Name: "Fee", Value: entities.FormatUSDCents(quote.FeeCents), Inline: true},
		},
	}
	if result.Ledger != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Balance", Value: common.FormatXP(result.Ledger.Balance) + " XP", Inline: true,
		})
	}
	return embed
}

func buildHistoryEmbed(ledger *entities.Ledger, limit int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📜 Recent transactions",
		Color: common.ColorPrimary,
	}

	if len(ledger.Transactions) == 0 {
		embed.Description = "No transactions yet. Use /buy to get started."
		return embed
	}

	shown := ledger.Transactions
	if len(shown) > limit {
		shown = shown[:limit]
	}
	lines := make([]string, 0, len(shown))
	for _, tx := range shown {
		lines = append(lines, common.FormatTransaction(tx))
	}
	embed.Description = strings.Join(lines, "\n")
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Showing %d of %d", len(shown), len(ledger.Transactions)),
	}
	return embed
}
