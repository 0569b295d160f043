package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/savrly/savr/internal/core/logger"
	"github.com/savrly/savr/internal/core/middleware"
	"github.com/savrly/savr/internal/core/models"
	"github.com/savrly/savr/internal/core/usecase"
)

type GoalHandler struct {
	funding usecase.GoalFunding
	log     logger.Logger
}

type createGoalRequest struct {
	Name          string `json:"name"`
	TargetAmount  string `json:"target_amount"`
	InitialAmount string `json:"initial_amount,omitempty"`
	TargetDate    string `json:"target_date"`
	Category      string `json:"category,omitempty"`
}

type goalAmountRequest struct {
	Amount string `json:"amount"`
}

type goalResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	TargetAmount  string    `json:"target_amount"`
	CurrentAmount string    `json:"current_amount"`
	TargetDate    string    `json:"target_date"`
	Category      string    `json:"category"`
	Status        string    `json:"status"`
}

func NewGoalHandler(funding usecase.GoalFunding, log logger.Logger) *GoalHandler {
	return &GoalHandler{funding: funding, log: log}
}

func (h *GoalHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/goals", h.CreateGoal).Methods("POST")
	router.HandleFunc("/goals", h.ListGoals).Methods("GET")
	router.HandleFunc("/goals/{goal_id}/savings", h.AddSavings).Methods("POST")
	router.HandleFunc("/goals/{goal_id}/withdrawals", h.WithdrawFunds).Methods("POST")
}

func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createGoalRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("failed to decode request body", logger.ErrorField("error", err))
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	target, err := parseAmount(req.TargetAmount)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var initial int64
	if req.InitialAmount != "" {
		initial, err = parseAmount(req.InitialAmount)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	targetDate, err := time.Parse("2006-01-02", req.TargetDate)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "target_date must be YYYY-MM-DD")
		return
	}

	goal, err := h.funding.CreateGoal(r.Context(), userID, usecase.CreateGoalInput{
		Name:          req.Name,
		TargetAmount:  target,
		InitialAmount: initial,
		TargetDate:    targetDate,
		Category:      req.Category,
	})
	if err != nil {
		h.log.Error("create goal failed",
			logger.StringField("user_id", userID.String()),
			logger.ErrorField("error", err),
		)
		respondWithUsecaseError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, toGoalResponse(goal))
}

func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	goals, err := h.funding.ListGoals(r.Context(), userID)
	if err != nil {
		respondWithUsecaseError(w, err)
		return
	}

	out := make([]goalResponse, 0, len(goals))
	for i := range goals {
		out = append(out, toGoalResponse(&goals[i]))
	}

	respondWithJSON(w, http.StatusOK, out)
}

func (h *GoalHandler) AddSavings(w http.ResponseWriter, r *http.Request) {
	userID, goalID, amount, ok := h.decodeGoalAmount(w, r)
	if !ok {
		return
	}

	goal, err := h.funding.AddSavings(r.Context(), userID, goalID, amount)
	if err != nil {
		h.log.Error("add savings failed",
			logger.StringField("user_id", userID.String()),
			logger.StringField("goal_id", goalID.String()),
			logger.Int64Field("amount", amount),
			logger.ErrorField("error", err),
		)
		respondWithUsecaseError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, toGoalResponse(goal))
}

func (h *GoalHandler) WithdrawFunds(w http.ResponseWriter, r *http.Request) {
	userID, goalID, amount, ok := h.decodeGoalAmount(w, r)
	if !ok {
		return
	}

	goal, err := h.funding.WithdrawFunds(r.Context(), userID, goalID, amount)
	if err != nil {
		h.log.Error("goal withdrawal failed",
			logger.StringField("user_id", userID.String()),
			logger.StringField("goal_id", goalID.String()),
			logger.Int64Field("amount", amount),
			logger.ErrorField("error", err),
		)
		respondWithUsecaseError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, toGoalResponse(goal))
}

func (h *GoalHandler) decodeGoalAmount(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, int64, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated")
		return uuid.Nil, uuid.Nil, 0, false
	}

	goalID, err := uuid.Parse(mux.Vars(r)["goal_id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid goal id")
		return uuid.Nil, uuid.Nil, 0, false
	}

	var req goalAmountRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("failed to decode request body", logger.ErrorField("error", err))
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return uuid.Nil, uuid.Nil, 0, false
	}
	defer r.Body.Close()

	amount, err := parseAmount(req.Amount)
	if err != nil {
		h.log.Warn("invalid amount", logger.StringField("amount", req.Amount), logger.ErrorField("error", err))
		respondWithError(w, http.StatusBadRequest, err.Error())
		return uuid.Nil, uuid.Nil, 0, false
	}

	return userID, goalID, amount, true
}

func toGoalResponse(goal *models.Goal) goalResponse {
	return goalResponse{
		ID:            goal.ID,
		Name:          goal.Name,
		TargetAmount:  formatAmount(goal.TargetAmount),
		CurrentAmount: formatAmount(goal.CurrentAmount),
		TargetDate:    goal.TargetDate.Format("2006-01-02"),
		Category:      goal.Category,
		Status:        string(goal.Status),
	}
}
