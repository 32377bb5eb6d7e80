package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"xpslots/domain/entities"
	"xpslots/domain/interfaces"
	"xpslots/domain/services"
	"xpslots/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	ledger    *testhelpers.MockLedgerService
	resolver  *testhelpers.MockRoundResolver
	purchases *testhelpers.MockPurchaseService
	cashouts  *testhelpers.MockCashoutService
	catalog   []entities.Token
	pool      interfaces.PoolTracker
	router    http.Handler
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	rank := 1
	f := &apiFixture{
		ledger:    new(testhelpers.MockLedgerService),
		resolver:  new(testhelpers.MockRoundResolver),
		purchases: new(testhelpers.MockPurchaseService),
		cashouts:  new(testhelpers.MockCashoutService),
		pool:      services.NewPoolTracker(),
		catalog: []entities.Token{
			{Symbol: "DOGE", Name: "Dogecoin", Category: entities.TokenCategoryDog, Rank: &rank},
			{Symbol: "POPCAT", Name: "Popcat", Category: entities.TokenCategoryCat},
		},
	}
	handler := NewHandler(f.ledger, f.resolver, f.purchases, f.cashouts, f.pool, f.catalog)
	f.router = NewRouter(handler, nil)

	t.Cleanup(func() {
		f.ledger.AssertExpectations(t)
		f.resolver.AssertExpectations(t)
		f.purchases.AssertExpectations(t)
		f.cashouts.AssertExpectations(t)
	})
	return f
}

func (f *apiFixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealthz(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetLedger(t *testing.T) {
	f := newAPIFixture(t)
	f.ledger.On("Load", mock.Anything, "discord:42").
		Return(&entities.Ledger{Balance: 250, TotalPurchased: 500, TotalLost: 250, Transactions: []entities.Transaction{}}, nil)

	rec := f.do(http.MethodGet, "/ledgers/discord:42", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var ledger entities.Ledger
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ledger))
	assert.Equal(t, int64(250), ledger.Balance)
	assert.Equal(t, int64(500), ledger.TotalPurchased)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestGetLedger_StoreFailureIsInternal(t *testing.T) {
	f := newAPIFixture(t)
	f.ledger.On("Load", mock.Anything, "alice").Return(nil, fmt.Errorf("connection refused"))

	rec := f.do(http.MethodGet, "/ledgers/alice", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", decodeError(t, rec))
}

func TestPlayRound(t *testing.T) {
	f := newAPIFixture(t)
	round := &entities.Round{
		Identity: "alice",
		Bet:      10,
		Result:   entities.RoundResultTypeMatch,
		Payout:   100,
		Balance:  190,
	}
	f.resolver.On("PlayRound", mock.Anything, "alice", int64(10), f.catalog).Return(round, nil)

	rec := f.do(http.MethodPost, "/ledgers/alice/rounds", `{"bet":10}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got entities.Round
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, entities.RoundResultTypeMatch, got.Result)
	assert.Equal(t, int64(100), got.Payout)
	assert.Equal(t, int64(190), got.Balance)
}

func TestPlayRound_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid bet", entities.ErrInvalidBet, http.StatusBadRequest},
		{"insufficient funds", entities.ErrInsufficientFunds, http.StatusConflict},
		{"wrapped insufficient balance", fmt.Errorf("debit: %w", entities.ErrInsufficientBalance), http.StatusConflict},
		{"balance overflow", entities.ErrBalanceOverflow, http.StatusConflict},
		{"unexpected", fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t)
			f.resolver.On("PlayRound", mock.Anything, "alice", int64(5), f.catalog).Return(nil, tt.err)

			rec := f.do(http.MethodPost, "/ledgers/alice/rounds", `{"bet":5}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestPlayRound_BadBodies(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"empty", "", "request body is required"},
		{"malformed", `{"bet":`, "invalid JSON body"},
		{"unknown field", `{"bet":5,"multiplier":1000}`, "invalid JSON body"},
		{"wrong type", `{"bet":"five"}`, "invalid JSON body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t)

			rec := f.do(http.MethodPost, "/ledgers/alice/rounds", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, rec))
			f.resolver.AssertNotCalled(t, "PlayRound", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestBuyPackage(t *testing.T) {
	f := newAPIFixture(t)
	result := &entities.PurchaseResult{
		Purchase: &entities.Purchase{PaymentID: "pay_1", Identity: "alice", PackageID: "popular", XPAmount: 1100, Status: entities.PaymentStatusCompleted},
		Ledger:   &entities.Ledger{Balance: 1100, TotalPurchased: 1100, Transactions: []entities.Transaction{}},
	}
	f.purchases.On("BuyPackage", mock.Anything, "alice", "popular").Return(result, nil)

	rec := f.do(http.MethodPost, "/ledgers/alice/purchases", `{"packageId":"popular"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got entities.PurchaseResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "pay_1", got.Purchase.PaymentID)
	assert.Equal(t, int64(1100), got.Ledger.Balance)
}

func TestBuyPackage_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unknown package", fmt.Errorf("%w: gold", entities.ErrUnknownPackage), http.StatusNotFound},
		{"payment failed", entities.ErrPaymentFailed, http.StatusPaymentRequired},
		{"gateway rejection", entities.ErrPaymentGatewayRejection, http.StatusPaymentRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t)
			f.purchases.On("BuyPackage", mock.Anything, "alice", "gold").Return(nil, tt.err)

			rec := f.do(http.MethodPost, "/ledgers/alice/purchases", `{"packageId":"gold"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestBuyPackage_MissingPackageID(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPost, "/ledgers/alice/purchases", `{"packageId":"  "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "packageId is required", decodeError(t, rec))
}

func TestListPurchases(t *testing.T) {
	f := newAPIFixture(t)
	f.purchases.On("ListPurchases", mock.Anything, "alice", 5).
		Return([]*entities.Purchase{{PaymentID: "pay_2"}, {PaymentID: "pay_1"}}, nil)

	rec := f.do(http.MethodGet, "/ledgers/alice/purchases?limit=5", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []entities.Purchase
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "pay_2", got[0].PaymentID)
}

func TestListPurchases_BadLimit(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodGet, "/ledgers/alice/purchases?limit=lots", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCashout(t *testing.T) {
	f := newAPIFixture(t)
	result := &entities.CashoutResult{
		Quote:         &entities.CashoutQuote{XP: 1200, GrossCents: 1200, FeeCents: 120, NetCents: 1080},
		TransactionID: "tx-1",
		Ledger:        &entities.Ledger{Balance: 1800, Transactions: []entities.Transaction{}},
	}
	f.cashouts.On("Cashout", mock.Anything, "alice", int64(1200)).Return(result, nil)

	rec := f.do(http.MethodPost, "/ledgers/alice/cashouts", `{"xp":1200}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got entities.CashoutResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(1080), got.Quote.NetCents)
	assert.Equal(t, int64(1800), got.Ledger.Balance)
}

func TestCashout_InsufficientBalance(t *testing.T) {
	f := newAPIFixture(t)
	f.cashouts.On("Cashout", mock.Anything, "alice", int64(5000)).Return(nil, entities.ErrInsufficientBalance)

	rec := f.do(http.MethodPost, "/ledgers/alice/cashouts", `{"xp":5000}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, entities.ErrInsufficientBalance.Error(), decodeError(t, rec))
}

func TestQuoteCashout(t *testing.T) {
	f := newAPIFixture(t)
	f.cashouts.On("Quote", int64(2500)).
		Return(&entities.CashoutQuote{XP: 2500, GrossCents: 2500, FeeCents: 250, NetCents: 2250}, nil)

	rec := f.do(http.MethodGet, "/cashouts/quote?xp=2500", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"xp":2500,"grossCents":2500,"feeCents":250,"netCents":2250}`, rec.Body.String())
}

func TestQuoteCashout_Invalid(t *testing.T) {
	f := newAPIFixture(t)
	f.cashouts.On("Quote", int64(10)).Return(nil, entities.ErrBelowMinimumCashout)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/cashouts/quote?xp=abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/cashouts/quote?xp=10", "").Code)
}

func TestListPackages(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodGet, "/packages", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []entities.XPPackage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, entities.DefaultXPPackages, got)
}

func TestGetCatalog(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodGet, "/catalog", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []entities.Token
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, f.catalog, got)
}

func TestGetCatalogOdds(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodGet, "/catalog/odds", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var odds entities.CatalogOdds
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &odds))
	// One top-ranked token out of two, in different categories
	assert.Equal(t, 2, odds.Tokens)
	assert.InDelta(t, 1.0/8.0, odds.JackpotProbability, 1e-12)
	assert.InDelta(t, 1.0/8.0, odds.TypeMatchProbability, 1e-12)
}

func TestGetPool(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodGet, "/pool", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalPool":0,"roundsPlayed":0,"jackpots":0,"typeMatches":0,"totalPaidOut":0,
		"winnersShare":0,"buybackShare":0,"platformShare":0}`, rec.Body.String())
}

func TestGetPool_IncludesSplit(t *testing.T) {
	f := newAPIFixture(t)
	f.pool.RecordRound(&entities.Round{Bet: 200, Result: entities.RoundResultTypeMatch, Payout: 2000})

	rec := f.do(http.MethodGet, "/pool", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalPool":200,"roundsPlayed":1,"jackpots":0,"typeMatches":1,"totalPaidOut":2000,
		"winnersShare":120,"buybackShare":60,"platformShare":20}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/ledgers/alice/rounds", nil)
	req.Header.Set("Origin", "https://slots.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
