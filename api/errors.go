package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"xpslots/domain/entities"

	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusForError maps domain errors onto HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, entities.ErrInvalidIdentity),
		errors.Is(err, entities.ErrInvalidAmount),
		errors.Is(err, entities.ErrInvalidTransactionKind),
		errors.Is(err, entities.ErrInvalidBet),
		errors.Is(err, entities.ErrEmptyCatalog),
		errors.Is(err, entities.ErrBelowMinimumCashout):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrInsufficientFunds),
		errors.Is(err, entities.ErrInsufficientBalance),
		errors.Is(err, entities.ErrBalanceOverflow):
		return http.StatusConflict
	case errors.Is(err, entities.ErrUnknownPackage),
		errors.Is(err, entities.ErrPurchaseNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrPaymentFailed),
		errors.Is(err, entities.ErrPaymentGatewayRejection):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		log.Errorf("API request failed: %v", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("failed to encode JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
