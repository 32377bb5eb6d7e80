package bot

import (
	"context"
	"fmt"

	"xpslots/bot/common"
	"xpslots/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	commandBalance = "balance"
	commandSpin    = "spin"
	commandBuy     = "buy"
	commandCashout = "cashout"
	commandHistory = "history"
)

// commandDefinitions returns all slash commands offered by the bot
func commandDefinitions() []*discordgo.ApplicationCommand {
	minBet := float64(1)
	minCashout := float64(entities.MinCashoutXP)

	packageChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(entities.DefaultXPPackages))
	for _, pkg := range entities.DefaultXPPackages {
		packageChoices = append(packageChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("%s: %s XP for $%s", pkg.Name, common.FormatXP(pkg.XPAmount), pkg.Price),
			Value: pkg.ID,
		})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        commandBalance,
			Description: "Check your XP balance",
		},
		{
			Name:        commandSpin,
			Description: "Bet XP on a spin of the slot machine",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "bet",
					Description: "Amount of XP to bet",
					Required:    true,
					MinValue:    &minBet,
				},
			},
		},
		{
			Name:        commandBuy,
			Description: "Buy an XP package with USDC",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "package",
					Description: "Package to buy",
					Required:    true,
					Choices:     packageChoices,
				},
			},
		},
		{
			Name:        commandCashout,
			Description: "Cash out XP for USDC",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "xp",
					Description: "Amount of XP to cash out",
					Required:    true,
					MinValue:    &minCashout,
				},
			},
		},
		{
			Name:        commandHistory,
			Description: "Show your most recent XP transactions",
		},
	}
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	user := common.InteractionUser(i)
	if user == nil {
		return
	}
	identity := common.IdentityFor(user)
	data := i.ApplicationCommandData()
	ctx := context.Background()

	switch data.Name {
	case commandBalance:
		b.respond(s, i, func() (*discordgo.MessageEmbed, error) {
			return b.balance(ctx, identity)
		})
	case commandSpin:
		b.respond(s, i, func() (*discordgo.MessageEmbed, error) {
			return b.spin(ctx, identity, integerOption(data, "bet"))
		})
	case commandBuy:
		b.respondDeferred(s, i, func() (*discordgo.MessageEmbed, error) {
			return b.buy(ctx, identity, stringOption(data, "package"))
		})
	case commandCashout:
		b.respond(s, i, func() (*discordgo.MessageEmbed, error) {
			return b.cashout(ctx, identity, integerOption(data, "xp"))
		})
	case commandHistory:
		b.respond(s, i, func() (*discordgo.MessageEmbed, error) {
			return b.history(ctx, identity)
		})
	}
}

// respond answers the interaction with an ephemeral embed
func (b *Bot) respond(s *discordgo.Session, i *discordgo.InteractionCreate, run func() (*discordgo.MessageEmbed, error)) {
	embed, err := run()
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error responding to %s command: %v", i.ApplicationCommandData().Name, err)
	}
}

// respondDeferred acknowledges first, for commands that outlive Discord's response window
func (b *Bot) respondDeferred(s *discordgo.Session, i *discordgo.InteractionCreate, run func() (*discordgo.MessageEmbed, error)) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error deferring %s command: %v", i.ApplicationCommandData().Name, err)
		return
	}

	embed, err := run()
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}

	_, err = s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
		Flags:  discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up for %s command: %v", i.ApplicationCommandData().Name, err)
	}
}

func (b *Bot) balance(ctx context.Context, identity string) (*discordgo.MessageEmbed, error) {
	ledger, err := b.services.Ledger.Load(ctx, identity)
	if err != nil {
		return nil, common.FromDomainError(err, "load balance")
	}
	return buildBalanceEmbed(ledger), nil
}

func (b *Bot) spin(ctx context.Context, identity string, bet int64) (*discordgo.MessageEmbed, error) {
	round, err := b.services.Resolver.PlayRound(ctx, identity, bet, b.services.Catalog)
	if err != nil {
		return nil, common.FromDomainError(err, "spin")
	}
	return buildRoundEmbed(round, b.services.Pool.Snapshot()), nil
}

func (b *Bot) buy(ctx context.Context, identity string, packageID string) (*discordgo.MessageEmbed, error) {
	if packageID == "" {
		return nil, common.NewUserError("Pick a package to buy.", "buy without package option")
	}

	result, err := b.services.Purchases.BuyPackage(ctx, identity, packageID)
	if err != nil {
		return nil, common.FromDomainError(err, "buy package")
	}
	return buildPurchaseEmbed(result), nil
}

func (b *Bot) cashout(ctx context.Context, identity string, xp int64) (*discordgo.MessageEmbed, error) {
	result, err := b.services.Cashouts.Cashout(ctx, identity, xp)
	if err != nil {
		return nil, common.FromDomainError(err, "cashout")
	}
	return buildCashoutEmbed(result), nil
}

func (b *Bot) history(ctx context.Context, identity string) (*discordgo.MessageEmbed, error) {
	ledger, err := b.services.Ledger.Load(ctx, identity)
	if err != nil {
		return nil, common.FromDomainError(err, "load history")
	}
	return buildHistoryEmbed(ledger, common.HistoryLimit), nil
}

func integerOption(data discordgo.ApplicationCommandInteractionData, name string) int64 {
	for _, opt := range data.Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionInteger {
			return opt.IntValue()
		}
	}
	return 0
}

func stringOption(data discordgo.ApplicationCommandInteractionData, name string) string {
	for _, opt := range data.Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}
