package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/savrly/savr/internal/core/logger"
	"github.com/savrly/savr/internal/core/middleware"
	"github.com/savrly/savr/internal/core/models"
	"github.com/savrly/savr/internal/core/usecase"
)

type WalletHandler struct {
	ledger usecase.WalletLedger
	log    logger.Logger
}

type fundsRequest struct {
	Amount      string `json:"amount"`
	ReferenceID string `json:"reference_id,omitempty"`
}

type fundsResponse struct {
	TransactionID uuid.UUID `json:"transaction_id"`
}

type walletResponse struct {
	WalletID uuid.UUID `json:"wallet_id"`
	Balance  string    `json:"balance"`
}

func NewWalletHandler(ledger usecase.WalletLedger, log logger.Logger) *WalletHandler {
	return &WalletHandler{ledger: ledger, log: log}
}

func (h *WalletHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/wallet", h.GetWallet).Methods("GET")
	router.HandleFunc("/wallet/funds", h.AddFunds).Methods("POST")
	router.HandleFunc("/wallet/withdrawals", h.WithdrawFunds).Methods("POST")
}

// AddFunds tops the wallet up. Direct top-ups are always UPI-sourced; SAVE
// credits only come in through the goal savings path.
func (h *WalletHandler) AddFunds(w http.ResponseWriter, r *http.Request) {
	userID, req, ok := h.decodeFundsRequest(w, r)
	if !ok {
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		h.log.Warn("invalid amount", logger.StringField("amount", req.Amount), logger.ErrorField("error", err))
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	txID, err := h.ledger.AddFunds(r.Context(), userID, amount, models.SourceUPI, req.ReferenceID)
	if err != nil {
		h.log.Error("add funds failed",
			logger.StringField("user_id", userID.String()),
			logger.Int64Field("amount", amount),
			logger.ErrorField("error", err),
		)
		respondWithUsecaseError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, fundsResponse{TransactionID: txID})
}

func (h *WalletHandler) WithdrawFunds(w http.ResponseWriter, r *http.Request) {
	userID, req, ok := h.decodeFundsRequest(w, r)
	if !ok {
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		h.log.Warn("invalid amount", logger.StringField("amount", req.Amount), logger.ErrorField("error", err))
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	txID, err := h.ledger.WithdrawFunds(r.Context(), userID, amount, models.SourceWithdraw, req.ReferenceID)
	if err != nil {
		h.log.Error("withdraw funds failed",
			logger.StringField("user_id", userID.String()),
			logger.Int64Field("amount", amount),
			logger.ErrorField("error", err),
		)
		respondWithUsecaseError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, fundsResponse{TransactionID: txID})
}

func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	wallet, err := h.ledger.GetWallet(r.Context(), userID)
	if err != nil {
		respondWithUsecaseError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, walletResponse{
		WalletID: wallet.ID,
		Balance:  formatAmount(wallet.Balance),
	})
}

func (h *WalletHandler) decodeFundsRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, *fundsRequest, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated")
		return uuid.Nil, nil, false
	}

	var req fundsRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("failed to decode request body", logger.ErrorField("error", err))
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return uuid.Nil, nil, false
	}
	defer r.Body.Close()

	return userID, &req, true
}
