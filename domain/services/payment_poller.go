package services

import (
	"context"
	"time"

	"xpslots/domain/entities"
	"xpslots/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type paymentPoller struct {
	gateway interfaces.PaymentGateway
	metrics interfaces.MetricsRecorder
}

// NewPaymentPoller creates a poller that checks payment status through gateway
func NewPaymentPoller(gateway interfaces.PaymentGateway, metrics interfaces.MetricsRecorder) interfaces.PaymentPoller {
	return &paymentPoller{
		gateway: gateway,
		metrics: metrics,
	}
}

// PollStatus checks the payment up to maxAttempts times, waiting interval after every
// pending answer. It always ends in completed or failed; running out of attempts,
// a status check error and context cancellation all count as failed.
func (p *paymentPoller) PollStatus(ctx context.Context, paymentID string, testnet bool, maxAttempts int, interval time.Duration) (entities.PaymentStatus, error) {
	if maxAttempts <= 0 || interval < 0 {
		return entities.PaymentStatusFailed, entities.ErrInvalidPollingConfig
	}

	logger := log.WithFields(log.Fields{
		"paymentID":   paymentID,
		"testnet":     testnet,
		"maxAttempts": maxAttempts,
	})

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		status, err := p.gateway.GetPaymentStatus(ctx, paymentID, testnet)
		if err != nil {
			logger.WithError(err).WithField("attempt", attempt).Warn("Error checking payment status")
			status = entities.PaymentStatusFailed
		}

		switch status {
		case entities.PaymentStatusCompleted, entities.PaymentStatusFailed:
			logger.WithFields(log.Fields{
				"attempt": attempt,
				"status":  status,
			}).Info("Payment reached terminal status")
			p.metrics.RecordPaymentPoll(string(status), attempt)
			return status, nil
		}

		wait := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			wait.Stop()
			logger.WithField("attempt", attempt).Warn("Payment polling cancelled")
			p.metrics.RecordPaymentPoll(string(entities.PaymentStatusFailed), attempt)
			return entities.PaymentStatusFailed, ctx.Err()
		case <-wait.C:
		}
	}

	logger.Warn("Payment polling timed out")
	p.metrics.RecordPaymentPoll(string(entities.PaymentStatusFailed), maxAttempts)
	return entities.PaymentStatusFailed, nil
}
