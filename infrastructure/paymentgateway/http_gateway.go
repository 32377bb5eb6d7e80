package paymentgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"xpslots/domain/entities"
	"xpslots/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const maxErrorBodyBytes = 4096

// HTTPGateway talks to the hosted payment service over JSON
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

type paymentResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// NewHTTPGateway creates a payment gateway client for baseURL
func NewHTTPGateway(baseURL string, timeout time.Duration) interfaces.PaymentGateway {
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (g *HTTPGateway) InitiatePayment(ctx context.Context, request entities.PaymentRequest) (*entities.PaymentResult, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp paymentResponse
	if err := g.do(req, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("%w: response has no payment id", entities.ErrPaymentGatewayRejection)
	}

	log.WithFields(log.Fields{
		"paymentID": resp.ID,
		"amount":    request.Amount,
		"testnet":   request.Testnet,
	}).Debug("Payment initiated with gateway")

	return &entities.PaymentResult{ID: resp.ID, Status: parseStatus(resp.Status)}, nil
}

func (g *HTTPGateway) GetPaymentStatus(ctx context.Context, paymentID string, testnet bool) (entities.PaymentStatus, error) {
	endpoint := fmt.Sprintf("%s/payments/%s?testnet=%s", g.baseURL, url.PathEscape(paymentID), strconv.FormatBool(testnet))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return entities.PaymentStatusFailed, fmt.Errorf("failed to build status request: %w", err)
	}

	var resp paymentResponse
	if err := g.do(req, &resp); err != nil {
		return entities.PaymentStatusFailed, err
	}
	return parseStatus(resp.Status), nil
}

func (g *HTTPGateway) do(req *http.Request, out any) error {
	res, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBodyBytes))
		if res.StatusCode < 500 {
			return fmt.Errorf("%w: %d %s", entities.ErrPaymentGatewayRejection, res.StatusCode, strings.TrimSpace(string(detail)))
		}
		return fmt.Errorf("payment gateway returned %d: %s", res.StatusCode, strings.TrimSpace(string(detail)))
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode payment gateway response: %w", err)
	}
	return nil
}

// parseStatus maps the gateway's status string; anything unrecognised is still pending
func parseStatus(status string) entities.PaymentStatus {
	switch entities.PaymentStatus(strings.ToLower(status)) {
	case entities.PaymentStatusCompleted:
		return entities.PaymentStatusCompleted
	case entities.PaymentStatusFailed:
		return entities.PaymentStatusFailed
	default:
		return entities.PaymentStatusPending
	}
}
