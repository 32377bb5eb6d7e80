package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"xpslots/domain/entities"
	"xpslots/domain/interfaces"
	"xpslots/domain/services"

	"github.com/go-chi/chi/v5"
)

const maxRequestBodyBytes = 1 << 16

// Handler exposes the domain services over HTTP
type Handler struct {
	ledger    interfaces.LedgerService
	resolver  interfaces.RoundResolver
	purchases interfaces.PurchaseService
	cashouts  interfaces.CashoutService
	pool      interfaces.PoolTracker
	catalog   []entities.Token
}

// NewHandler creates a new HTTP handler set
func NewHandler(
	ledger interfaces.LedgerService,
	resolver interfaces.RoundResolver,
	purchases interfaces.PurchaseService,
	cashouts interfaces.CashoutService,
	pool interfaces.PoolTracker,
	catalog []entities.Token,
) *Handler {
	return &Handler{
		ledger:    ledger,
		resolver:  resolver,
		purchases: purchases,
		cashouts:  cashouts,
		pool:      pool,
		catalog:   catalog,
	}
}

type roundRequest struct {
	Bet int64 `json:"bet"`
}

type purchaseRequest struct {
	PackageID string `json:"packageId"`
}

type cashoutRequest struct {
	XP int64 `json:"xp"`
}

// GetLedger handles GET /ledgers/{identity}
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromPath(w, r)
	if !ok {
		return
	}

	ledger, err := h.ledger.Load(r.Context(), identity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ledger)
}

// PlayRound handles POST /ledgers/{identity}/rounds
func (h *Handler) PlayRound(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromPath(w, r)
	if !ok {
		return
	}

	var req roundRequest
	if !decodeBody(w, r, &req) {
		return
	}

	round, err := h.resolver.PlayRound(r.Context(), identity, req.Bet, h.catalog)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, round)
}

// BuyPackage handles POST /ledgers/{identity}/purchases
func (h *Handler) BuyPackage(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromPath(w, r)
	if !ok {
		return
	}

	var req purchaseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.PackageID) == "" {
		writeError(w, http.StatusBadRequest, "packageId is required")
		return
	}

	result, err := h.purchases.BuyPackage(r.Context(), identity, req.PackageID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListPurchases handles GET /ledgers/{identity}/purchases
func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromPath(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	purchases, err := h.purchases.ListPurchases(r.Context(), identity, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, purchases)
}

// Cashout handles POST /ledgers/{identity}/cashouts
func (h *Handler) Cashout(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromPath(w, r)
	if !ok {
		return
	}

	var req cashoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.cashouts.Cashout(r.Context(), identity, req.XP)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// QuoteCashout handles GET /cashouts/quote?xp=
func (h *Handler) QuoteCashout(w http.ResponseWriter, r *http.Request) {
	xp, err := strconv.ParseInt(r.URL.Query().Get("xp"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "xp must be an integer")
		return
	}

	quote, err := h.cashouts.Quote(xp)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// ListPackages handles GET /packages
func (h *Handler) ListPackages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, entities.DefaultXPPackages)
}

// GetCatalog handles GET /catalog
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog)
}

// GetCatalogOdds handles GET /catalog/odds
func (h *Handler) GetCatalogOdds(w http.ResponseWriter, r *http.Request) {
	odds, err := services.AnalyzeOdds(h.catalog)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, odds)
}

// GetPool handles GET /pool
func (h *Handler) GetPool(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.pool.Snapshot())
}

func identityFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	identity, err := url.PathUnescape(chi.URLParam(r, "identity"))
	if err != nil || strings.TrimSpace(identity) == "" || len(identity) > entities.MaxIdentityLength {
		writeError(w, http.StatusBadRequest, "invalid identity in path")
		return "", false
	}
	return identity, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "request body is required")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
