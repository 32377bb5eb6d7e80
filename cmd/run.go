package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"xpslots/api"
	"xpslots/bot"
	"xpslots/config"
	"xpslots/domain/interfaces"
	"xpslots/domain/services"
	"xpslots/domain/utils"
	"xpslots/infrastructure/catalog"
	"xpslots/infrastructure/observability"
	"xpslots/infrastructure/paymentgateway"

	log "github.com/sirupsen/logrus"
)

const (
	shutdownTimeout       = 10 * time.Second
	paymentGatewayTimeout = 10 * time.Second
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	configureLogging(cfg)
	log.WithField("environment", cfg.Environment).Info("Starting xpslots...")

	metricsProvider := observability.NewMetricsProvider(cfg)
	if err := metricsProvider.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	storage, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}

	publisher, err := openEventPublisher(ctx, cfg)
	if err != nil {
		storage.Close()
		return err
	}

	tokens, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		publisher.Close()
		storage.Close()
		return fmt.Errorf("failed to load token catalog: %w", err)
	}

	if cfg.PaymentGatewayURL == "" {
		log.Warn("PAYMENT_GATEWAY_URL is not set, purchases will fail")
	}
	gateway := paymentgateway.NewHTTPGateway(cfg.PaymentGatewayURL, paymentGatewayTimeout)

	pool := services.NewPoolTracker()
	ledger := services.NewLedgerService(storage.Ledgers, publisher.Publisher, metricsProvider)
	resolver := services.NewRoundResolver(ledger, utils.NewSecureRandomSource(), publisher.Factory, pool, metricsProvider)
	poller := services.NewPaymentPoller(gateway, metricsProvider)
	purchases := services.NewPurchaseService(ledger, storage.Purchases, storage.UnitOfWork, gateway, poller, publisher.Factory, services.PurchaseConfig{
		RecipientAddress: cfg.PaymentRecipientAddress,
		Testnet:          cfg.PaymentTestnet,
		PollMaxAttempts:  cfg.PaymentPollMaxAttempts,
		PollInterval:     time.Duration(cfg.PaymentPollIntervalMs) * time.Millisecond,
	})
	cashouts := services.NewCashoutService(ledger, publisher.Factory)
	log.WithField("tokens", len(tokens)).Info("Services initialized successfully")

	var background sync.WaitGroup
	resumePendingPurchases(ctx, purchases, &background)

	handler := api.NewHandler(ledger, resolver, purchases, cashouts, pool, tokens)
	server := api.NewServer(cfg.HTTPPort, api.NewRouter(handler, cfg.CORSAllowedOrigins))
	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", server.Addr).Info("HTTP API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var discordBot *bot.Bot
	if cfg.DiscordToken != "" {
		discordBot, err = bot.New(bot.Config{Token: cfg.DiscordToken, GuildID: cfg.GuildID}, bot.Services{
			Ledger:    ledger,
			Resolver:  resolver,
			Purchases: purchases,
			Cashouts:  cashouts,
			Pool:      pool,
			Catalog:   tokens,
		})
		if err != nil {
			log.Errorf("Failed to initialize Discord bot: %v", err)
		}
	} else {
		log.Info("DISCORD_TOKEN is not set, Discord bot disabled")
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down...")
	case err, ok := <-serverErr:
		if ok {
			runErr = fmt.Errorf("HTTP server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if discordBot != nil {
		if err := discordBot.Close(); err != nil {
			log.Errorf("Error closing Discord bot: %v", err)
		}
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Error shutting down HTTP server: %v", err)
	}
	background.Wait()
	publisher.Close()
	storage.Close()
	if err := metricsProvider.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Error shutting down metrics provider: %v", err)
	}

	log.Info("Shutdown completed")
	return runErr
}

// resumePendingPurchases settles purchases interrupted by a restart, which are
// still pending at the gateway. Shutdown waits on wg before closing storage.
func resumePendingPurchases(ctx context.Context, purchases interfaces.PurchaseService, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		settled, err := purchases.ResumePending(ctx)
		if err != nil {
			log.Errorf("Failed to resume pending purchases: %v", err)
			return
		}
		if settled > 0 {
			log.WithField("settled", settled).Info("Resumed pending purchases")
		}
	}()
}

// ResetLedger zeroes the ledger of a single identity
func ResetLedger(ctx context.Context, identity string) error {
	cfg := config.Get()
	configureLogging(cfg)

	storage, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer storage.Close()

	publisher, err := openEventPublisher(ctx, cfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	ledger := services.NewLedgerService(storage.Ledgers, publisher.Publisher, observability.NewMetricsProvider(cfg))
	before, err := ledger.Load(ctx, identity)
	if err != nil {
		return err
	}
	if _, err := ledger.Reset(ctx, identity); err != nil {
		return fmt.Errorf("failed to reset ledger: %w", err)
	}

	log.WithFields(log.Fields{
		"identity":   identity,
		"oldBalance": before.Balance,
	}).Warn("Ledger reset")
	return nil
}
