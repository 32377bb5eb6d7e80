package paymentgateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"xpslots/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPGateway_InitiatePayment(t *testing.T) {
	var received entities.PaymentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payments", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = w.Write([]byte(`{"id":"pay_123","status":"pending"}`))
	}))
	defer server.Close()

	gateway := NewHTTPGateway(server.URL+"/", time.Second)
	result, err := gateway.InitiatePayment(context.Background(), entities.PaymentRequest{
		Amount:  "10",
		To:      "0xhouse",
		Testnet: true,
	})
	require.NoError(t, err)

	assert.Equal(t, &entities.PaymentResult{ID: "pay_123", Status: entities.PaymentStatusPending}, result)
	assert.Equal(t, entities.PaymentRequest{Amount: "10", To: "0xhouse", Testnet: true}, received)
}

func TestHTTPGateway_InitiatePaymentRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid recipient", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	gateway := NewHTTPGateway(server.URL, time.Second)
	_, err := gateway.InitiatePayment(context.Background(), entities.PaymentRequest{Amount: "5"})
	assert.ErrorIs(t, err, entities.ErrPaymentGatewayRejection)
	assert.ErrorContains(t, err, "invalid recipient")
}

func TestHTTPGateway_InitiatePaymentWithoutID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"pending"}`))
	}))
	defer server.Close()

	gateway := NewHTTPGateway(server.URL, time.Second)
	_, err := gateway.InitiatePayment(context.Background(), entities.PaymentRequest{Amount: "5"})
	assert.ErrorIs(t, err, entities.ErrPaymentGatewayRejection)
}

func TestHTTPGateway_GetPaymentStatus(t *testing.T) {
	tests := []struct {
		body string
		want entities.PaymentStatus
	}{
		{`{"id":"pay_1","status":"completed"}`, entities.PaymentStatusCompleted},
		{`{"id":"pay_1","status":"FAILED"}`, entities.PaymentStatusFailed},
		{`{"id":"pay_1","status":"pending"}`, entities.PaymentStatusPending},
		{`{"id":"pay_1","status":"processing"}`, entities.PaymentStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/payments/pay_1", r.URL.Path)
				assert.Equal(t, "false", r.URL.Query().Get("testnet"))
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			status, err := NewHTTPGateway(server.URL, time.Second).GetPaymentStatus(context.Background(), "pay_1", false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestHTTPGateway_GetPaymentStatusServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	status, err := NewHTTPGateway(server.URL, time.Second).GetPaymentStatus(context.Background(), "pay_1", true)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, entities.ErrPaymentGatewayRejection)
	assert.Equal(t, entities.PaymentStatusFailed, status)
}
