package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"xpslots/config"
	"xpslots/database"
	"xpslots/domain/interfaces"
	"xpslots/infrastructure"
	"xpslots/repository"

	log "github.com/sirupsen/logrus"
)

const natsConnectTimeout = 10 * time.Second

// storage holds the persistence ports for the configured backend
type storage struct {
	Ledgers    interfaces.KeyValueStore
	Purchases  interfaces.PurchaseRepository
	UnitOfWork interfaces.UnitOfWork
	db         *database.DB
}

// Close releases the database pool, if any
func (s *storage) Close() {
	if s.db != nil {
		log.Info("Closing database connection...")
		s.db.Close()
	}
}

// eventBus holds the publisher for direct events and the factory for per-operation buffers
type eventBus struct {
	Publisher interfaces.EventPublisher
	Factory   interfaces.TransactionalEventPublisherFactory
	client    *infrastructure.NATSClient
}

// Close drains the NATS connection, if any
func (b *eventBus) Close() {
	if b.client == nil {
		return
	}
	if err := b.client.Close(); err != nil {
		log.Errorf("Error closing NATS connection: %v", err)
	}
}

// configureLogging applies the configured level and picks a formatter for the environment
func configureLogging(cfg *config.Config) {
	log.SetOutput(os.Stdout)

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Invalid LOG_LEVEL %q, defaulting to info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch strings.ToLower(cfg.StorageBackend) {
	case config.StorageBackendMemory:
		log.Warn("Using in-memory storage, ledgers will be lost on restart")
		ledgers := repository.NewMemoryStore()
		purchases := repository.NewMemoryPurchaseRepository()
		return &storage{
			Ledgers:    ledgers,
			Purchases:  purchases,
			UnitOfWork: repository.NewBufferedUnitOfWork(purchases, ledgers),
		}, nil
	case config.StorageBackendPostgres, "":
		log.Info("Connecting to database...")
		db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Info("Database connection established successfully")
		return &storage{
			Ledgers:    repository.NewLedgerStore(db),
			Purchases:  repository.NewPurchaseRepository(db),
			UnitOfWork: repository.NewUnitOfWork(db),
			db:         db,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func openEventPublisher(ctx context.Context, cfg *config.Config) (*eventBus, error) {
	if cfg.NATSServers == "" {
		log.Info("NATS_SERVERS is not set, domain events will not be published")
		noop := infrastructure.NewNoopEventPublisher()
		return &eventBus{
			Publisher: noop,
			Factory:   infrastructure.NewTransactionalPublisherFactory(noop),
		}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, natsConnectTimeout)
	defer cancel()

	client := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := client.Connect(connectCtx); err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	publisher := infrastructure.NewNATSEventPublisher(client, infrastructure.NewEventSubjectMapper())
	if err := publisher.EnsureEventStream(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ensure event stream: %w", err)
	}

	log.WithField("servers", cfg.NATSServers).Info("NATS event publisher ready")
	return &eventBus{
		Publisher: publisher,
		Factory:   infrastructure.NewTransactionalPublisherFactory(publisher),
		client:    client,
	}, nil
}
