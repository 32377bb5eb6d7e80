package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"xpslots/domain/entities"
	"xpslots/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestPaymentPoller_CompletesAfterPending(t *testing.T) {
	ctx := context.Background()
	gateway := new(testhelpers.MockPaymentGateway)
	poller := NewPaymentPoller(gateway, testhelpers.NoopMetricsRecorder{})

	gateway.On("GetPaymentStatus", ctx, "pay_1", true).Return(entities.PaymentStatusPending, nil).Twice()
	gateway.On("GetPaymentStatus", ctx, "pay_1", true).Return(entities.PaymentStatusCompleted, nil).Once()

	status, err := poller.PollStatus(ctx, "pay_1", true, 5, time.Millisecond)
	assert.NoError(t, err)
	assert.Equal(t, entities.PaymentStatusCompleted, status)
	gateway.AssertNumberOfCalls(t, "GetPaymentStatus", 3)
}

func TestPaymentPoller_FailedStatusStopsImmediately(t *testing.T) {
	ctx := context.Background()
	gateway := new(testhelpers.MockPaymentGateway)
	poller := NewPaymentPoller(gateway, testhelpers.NoopMetricsRecorder{})

	gateway.On("GetPaymentStatus", ctx, "pay_2", false).Return(entities.PaymentStatusFailed, nil).Once()

	status, err := poller.PollStatus(ctx, "pay_2", false, 30, time.Hour)
	assert.NoError(t, err)
	assert.Equal(t, entities.PaymentStatusFailed, status)
	gateway.AssertNumberOfCalls(t, "GetPaymentStatus", 1)
}

func TestPaymentPoller_GatewayErrorCountsAsFailed(t *testing.T) {
	ctx := context.Background()
	gateway := new(testhelpers.MockPaymentGateway)
	poller := NewPaymentPoller(gateway, testhelpers.NoopMetricsRecorder{})

	gateway.On("GetPaymentStatus", ctx, "pay_3", false).
		Return(entities.PaymentStatusPending, errors.New("503 service unavailable")).Once()

	status, err := poller.PollStatus(ctx, "pay_3", false, 30, time.Hour)
	assert.NoError(t, err)
	assert.Equal(t, entities.PaymentStatusFailed, status)
}

func TestPaymentPoller_ExhaustsAttempts(t *testing.T) {
	ctx := context.Background()
	gateway := new(testhelpers.MockPaymentGateway)
	poller := NewPaymentPoller(gateway, testhelpers.NoopMetricsRecorder{})

	gateway.On("GetPaymentStatus", ctx, "pay_4", false).Return(entities.PaymentStatusPending, nil)

	status, err := poller.PollStatus(ctx, "pay_4", false, 3, 0)
	assert.NoError(t, err)
	assert.Equal(t, entities.PaymentStatusFailed, status)
	gateway.AssertNumberOfCalls(t, "GetPaymentStatus", 3)
}

func TestPaymentPoller_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gateway := new(testhelpers.MockPaymentGateway)
	poller := NewPaymentPoller(gateway, testhelpers.NoopMetricsRecorder{})

	gateway.On("GetPaymentStatus", mock.Anything, "pay_5", false).
		Run(func(mock.Arguments) { cancel() }).
		Return(entities.PaymentStatusPending, nil)

	start := time.Now()
	status, err := poller.PollStatus(ctx, "pay_5", false, 30, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, entities.PaymentStatusFailed, status)
	assert.Less(t, time.Since(start), time.Minute)
	gateway.AssertNumberOfCalls(t, "GetPaymentStatus", 1)
}

func TestPaymentPoller_RejectsInvalidConfig(t *testing.T) {
	gateway := new(testhelpers.MockPaymentGateway)
	poller := NewPaymentPoller(gateway, testhelpers.NoopMetricsRecorder{})

	status, err := poller.PollStatus(context.Background(), "pay_6", false, 0, time.Second)
	assert.ErrorIs(t, err, entities.ErrInvalidPollingConfig)
	assert.Equal(t, entities.PaymentStatusFailed, status)

	_, err = poller.PollStatus(context.Background(), "pay_6", false, 3, -time.Second)
	assert.ErrorIs(t, err, entities.ErrInvalidPollingConfig)

	gateway.AssertNotCalled(t, "GetPaymentStatus", mock.Anything, mock.Anything, mock.Anything)
}
