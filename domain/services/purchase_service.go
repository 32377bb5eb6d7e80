package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"xpslots/domain/entities"
	"xpslots/domain/events"
	"xpslots/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// DefaultPurchaseListLimit is used when a caller asks for purchases without a limit
const DefaultPurchaseListLimit = 20

// PurchaseConfig holds the payment settings used when buying XP packages
type PurchaseConfig struct {
	RecipientAddress string
	Testnet          bool
	PollMaxAttempts  int
	PollInterval     time.Duration
}

type purchaseService struct {
	ledger       interfaces.LedgerService
	purchases    interfaces.PurchaseRepository
	uow          interfaces.UnitOfWork
	gateway      interfaces.PaymentGateway
	poller       interfaces.PaymentPoller
	newPublisher interfaces.TransactionalEventPublisherFactory
	config       PurchaseConfig
	now          func() time.Time
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(
	ledger interfaces.LedgerService,
	purchases interfaces.PurchaseRepository,
	uow interfaces.UnitOfWork,
	gateway interfaces.PaymentGateway,
	poller interfaces.PaymentPoller,
	newPublisher interfaces.TransactionalEventPublisherFactory,
	config PurchaseConfig,
) interfaces.PurchaseService {
	return &purchaseService{
		ledger:       ledger,
		purchases:    purchases,
		uow:          uow,
		gateway:      gateway,
		poller:       poller,
		newPublisher: newPublisher,
		config:       config,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *purchaseService) BuyPackage(ctx context.Context, identity string, packageID string) (*entities.PurchaseResult, error) {
	if err := entities.ValidateIdentity(identity); err != nil {
		return nil, err
	}
	pkg, err := entities.FindXPPackage(packageID)
	if err != nil {
		return nil, err
	}

	payment, err := s.gateway.InitiatePayment(ctx, entities.PaymentRequest{
		Amount:  pkg.Price,
		To:      s.config.RecipientAddress,
		Testnet: s.config.Testnet,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initiate payment: %w", err)
	}

	purchase := &entities.Purchase{
		PaymentID: payment.ID,
		Identity:  identity,
		PackageID: pkg.ID,
		XPAmount:  pkg.XPAmount,
		Price:     pkg.Price,
		Currency:  pkg.Currency,
		Status:    entities.PaymentStatusPending,
		CreatedAt: s.now(),
	}
	if err := s.purchases.Create(ctx, purchase); err != nil {
		return nil, fmt.Errorf("failed to record purchase: %w", err)
	}

	log.WithFields(log.Fields{
		"identity":  identity,
		"packageID": pkg.ID,
		"paymentID": payment.ID,
		"price":     pkg.Price,
	}).Info("Payment initiated")

	status := payment.Status
	if !status.IsTerminal() {
		status, err = s.poller.PollStatus(ctx, payment.ID, s.config.Testnet, s.config.PollMaxAttempts, s.config.PollInterval)
		if err != nil {
			// The purchase stays pending so it can be confirmed later
			return nil, fmt.Errorf("failed to confirm payment %s: %w", payment.ID, err)
		}
	}

	return s.settle(ctx, purchase, status)
}

func (s *purchaseService) ConfirmPurchase(ctx context.Context, paymentID string) (*entities.PurchaseResult, error) {
	purchase, err := s.purchases.GetByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	switch purchase.Status {
	case entities.PaymentStatusCompleted:
		ledger, err := s.ledger.Load(ctx, purchase.Identity)
		if err != nil {
			return nil, err
		}
		return &entities.PurchaseResult{Purchase: purchase, Ledger: ledger}, nil
	case entities.PaymentStatusFailed:
		return nil, fmt.Errorf("%w: payment %s", entities.ErrPaymentFailed, paymentID)
	}

	status, err := s.poller.PollStatus(ctx, paymentID, s.config.Testnet, s.config.PollMaxAttempts, s.config.PollInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm payment %s: %w", paymentID, err)
	}
	return s.settle(ctx, purchase, status)
}

func (s *purchaseService) ResumePending(ctx context.Context) (int, error) {
	pending, err := s.purchases.ListPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending purchases: %w", err)
	}

	settled := 0
	for _, purchase := range pending {
		if ctx.Err() != nil {
			return settled, ctx.Err()
		}
		_, err := s.ConfirmPurchase(ctx, purchase.PaymentID)
		if err != nil && !errors.Is(err, entities.ErrPaymentFailed) {
			log.WithFields(log.Fields{
				"paymentID": purchase.PaymentID,
				"identity":  purchase.Identity,
				"error":     err,
			}).Warn("Failed to resume pending purchase")
			continue
		}
		settled++
	}

	log.WithFields(log.Fields{
		"pending": len(pending),
		"settled": settled,
	}).Info("Resumed pending purchases")
	return settled, nil
}

func (s *purchaseService) ListPurchases(ctx context.Context, identity string, limit int) ([]*entities.Purchase, error) {
	if err := entities.ValidateIdentity(identity); err != nil {
		return nil, err
	}
	switch {
	case limit <= 0:
		limit = DefaultPurchaseListLimit
	case limit > entities.MaxTransactionHistory:
		limit = entities.MaxTransactionHistory
	}
	return s.purchases.ListByIdentity(ctx, identity, limit)
}

// settle applies a terminal payment status to a pending purchase. XP is credited
// only for completed payments and only by the caller that wins the pending to
// completed transition.
func (s *purchaseService) settle(ctx context.Context, purchase *entities.Purchase, status entities.PaymentStatus) (*entities.PurchaseResult, error) {
	logger := log.WithFields(log.Fields{
		"identity":  purchase.Identity,
		"paymentID": purchase.PaymentID,
		"status":    status,
	})

	if status != entities.PaymentStatusCompleted {
		if _, err := s.purchases.Transition(ctx, purchase.PaymentID, entities.PaymentStatusPending, entities.PaymentStatusFailed); err != nil {
			return nil, fmt.Errorf("failed to mark purchase failed: %w", err)
		}
		logger.Warn("Payment failed, no XP credited")
		return nil, fmt.Errorf("%w: payment %s", entities.ErrPaymentFailed, purchase.PaymentID)
	}

	// The status change and the credit persist together, so a completed purchase
	// always has its XP and a pending one never does
	publisher := s.newPublisher()
	var claimed bool
	var ledger *entities.Ledger
	err := s.ledger.WithinUnitOfWork(ctx, purchase.Identity, s.uow, func(stores interfaces.TransactionalStores, view interfaces.LedgerService) error {
		var err error
		claimed, err = stores.Purchases.Transition(ctx, purchase.PaymentID, entities.PaymentStatusPending, entities.PaymentStatusCompleted)
		if err != nil {
			return fmt.Errorf("failed to mark purchase completed: %w", err)
		}
		if !claimed {
			return nil
		}
		ledger, err = view.WithEventPublisher(publisher).Credit(ctx, purchase.Identity, purchase.XPAmount, entities.TransactionKindPurchase, purchase.PaymentID)
		if err != nil {
			return fmt.Errorf("failed to credit purchase: %w", err)
		}
		return nil
	})
	if err != nil {
		publisher.Discard()
		logger.WithError(err).Error("Purchase settlement rolled back, purchase stays pending")
		return nil, err
	}

	if !claimed {
		publisher.Discard()
		logger.Info("Purchase already settled elsewhere")
		current, err := s.purchases.GetByPaymentID(ctx, purchase.PaymentID)
		if err != nil {
			return nil, err
		}
		if current.Status == entities.PaymentStatusFailed {
			return nil, fmt.Errorf("%w: payment %s", entities.ErrPaymentFailed, purchase.PaymentID)
		}
		ledger, err := s.ledger.Load(ctx, purchase.Identity)
		if err != nil {
			return nil, err
		}
		return &entities.PurchaseResult{Purchase: current, Ledger: ledger}, nil
	}

	completedAt := s.now()
	purchase.Status = entities.PaymentStatusCompleted
	purchase.CompletedAt = &completedAt

	if err := publisher.Publish(events.PurchaseCompletedEvent{
		Identity:  purchase.Identity,
		PaymentID: purchase.PaymentID,
		PackageID: purchase.PackageID,
		XPAmount:  purchase.XPAmount,
	}); err != nil {
		logger.WithError(err).Error("Failed to publish purchase completed event")
	}
	if err := publisher.Flush(ctx); err != nil {
		logger.WithError(err).Error("Failed to flush purchase events")
	}

	logger.WithField("xpAmount", purchase.XPAmount).Info("Purchase credited")
	return &entities.PurchaseResult{Purchase: purchase, Ledger: ledger}, nil
}
