package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/savrly/savr/internal/core/logger"
	"github.com/savrly/savr/internal/core/middleware"
	"github.com/savrly/savr/internal/core/usecase"
)

type DashboardHandler struct {
	dashboard usecase.Dashboard
	log       logger.Logger
}

func NewDashboardHandler(dashboard usecase.Dashboard, log logger.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, log: log}
}

func (h *DashboardHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/dashboard", h.GetDashboard).Methods("GET")
}

func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	view, err := h.dashboard.Get(r.Context(), userID)
	if err != nil {
		h.log.Error("dashboard read failed",
			logger.StringField("user_id", userID.String()),
			logger.ErrorField("error", err),
		)
		respondWithUsecaseError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, view)
}
