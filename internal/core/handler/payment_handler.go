package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/savrly/savr/internal/core/logger"
	"github.com/savrly/savr/internal/core/usecase"
)

type PaymentHandler struct {
	payments usecase.Payments
	log      logger.Logger
}

type verifyUpiRequest struct {
	UpiID string `json:"upi_id"`
}

type mockPaymentRequest struct {
	Amount string `json:"amount"`
	UpiID  string `json:"upi_id"`
}

func NewPaymentHandler(payments usecase.Payments, log logger.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, log: log}
}

func (h *PaymentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/payments/verify-upi", h.VerifyUpi).Methods("POST")
	router.HandleFunc("/payments/mock", h.InitiateMockPayment).Methods("POST")
}

func (h *PaymentHandler) VerifyUpi(w http.ResponseWriter, r *http.Request) {
	var req verifyUpiRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	result, err := h.payments.VerifyUpiID(r.Context(), req.UpiID)
	if err != nil {
		respondWithUsecaseError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *PaymentHandler) InitiateMockPayment(w http.ResponseWriter, r *http.Request) {
	var req mockPaymentRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.payments.InitiateMockPayment(r.Context(), amount, req.UpiID)
	if err != nil {
		respondWithUsecaseError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
