package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/savrly/savr/internal/core/usecase"
)

// minorUnitsPerRupee is the fixed minor-unit scale. All wallet and goal
// arithmetic happens in minor units; decimals exist only at this edge.
const minorUnitsPerRupee = 100

var amountRegexp = regexp.MustCompile(`^\s*\d{1,9}([.,]\d{1,2})?\s*$`)

type errorResponse struct {
	Error string `json:"error"`
}

// parseAmount validates a user-supplied decimal amount and converts it to
// minor units.
func parseAmount(amountStr string) (int64, error) {
	cleaned := strings.ReplaceAll(strings.ReplaceAll(amountStr, " ", ""), ",", ".")

	if !amountRegexp.MatchString(cleaned) {
		return 0, fmt.Errorf("invalid amount format: %s", cleaned)
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("could not parse amount: %v", err)
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return 0, fmt.Errorf("amount must be positive")
	}

	return amount.Mul(decimal.NewFromInt(minorUnitsPerRupee)).IntPart(), nil
}

// formatAmount renders minor units back as a fixed two-decimal string.
func formatAmount(minorUnits int64) string {
	return decimal.NewFromInt(minorUnits).Div(decimal.NewFromInt(minorUnitsPerRupee)).StringFixedBank(2)
}

// respondWithUsecaseError maps the core error taxonomy to HTTP statuses:
// rejected requests get 4xx, system failures get a 500 without internal
// store detail.
func respondWithUsecaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidAmount), errors.Is(err, usecase.ErrInvalidSource):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, usecase.ErrInsufficientBalance):
		respondWithError(w, http.StatusBadRequest, "insufficient balance")
	case errors.Is(err, usecase.ErrGoalNotCompleted):
		respondWithError(w, http.StatusConflict, "goal is not completed yet")
	case errors.Is(err, usecase.ErrWalletNotFound):
		respondWithError(w, http.StatusNotFound, "wallet not found")
	case errors.Is(err, usecase.ErrGoalNotFound):
		respondWithError(w, http.StatusNotFound, "goal not found")
	case errors.Is(err, usecase.ErrProfileNotFound):
		respondWithError(w, http.StatusNotFound, "profile not found")
	case errors.Is(err, usecase.ErrTransactionNotFound):
		respondWithError(w, http.StatusNotFound, "transaction not found")
	default:
		respondWithError(w, http.StatusInternalServerError, "failed to process operation")
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal Server Error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
