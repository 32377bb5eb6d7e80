package bot

import (
	"fmt"

	"xpslots/domain/entities"
	"xpslots/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string // empty registers commands globally
}

// Services bundles the domain services the bot drives
type Services struct {
	Ledger    interfaces.LedgerService
	Resolver  interfaces.RoundResolver
	Purchases interfaces.PurchaseService
	Cashouts  interfaces.CashoutService
	Pool      interfaces.PoolTracker
	Catalog   []entities.Token
}

type Bot struct {
	config   Config
	session  *discordgo.Session
	services Services
	commands []*discordgo.ApplicationCommand
}

// New opens a Discord session and registers the slash commands
func New(config Config, services Services) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	bot := &Bot{
		config:   config,
		session:  dg,
		services: services,
	}

	dg.AddHandler(bot.handleCommands)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	log.WithFields(log.Fields{
		"guildID":  config.GuildID,
		"commands": len(bot.commands),
	}).Info("Discord bot connected")

	return bot, nil
}

// Close removes guild-scoped commands and closes the session
func (b *Bot) Close() error {
	if b.config.GuildID != "" {
		for _, cmd := range b.commands {
			if err := b.session.ApplicationCommandDelete(b.session.State.User.ID, b.config.GuildID, cmd.ID); err != nil {
				log.Warnf("Failed to delete command %s: %v", cmd.Name, err)
			}
		}
	}
	return b.session.Close()
}

func (b *Bot) registerCommands() error {
	for _, cmd := range commandDefinitions() {
		created, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
		b.commands = append(b.commands, created)
	}
	return nil
}
