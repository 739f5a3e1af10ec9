package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealpathway/v1/internal/domain/user"
	"github.com/mealpathway/v1/internal/infrastructure/http/middleware"
	"github.com/mealpathway/v1/internal/ports/inbound"
)

// MealHandlers serves the meal generation endpoints.
type MealHandlers struct {
	planner  inbound.MealPlannerService
	accounts inbound.AccountService
	logger   *zap.Logger
}

// NewMealHandlers creates the meal handler set.
func NewMealHandlers(planner inbound.MealPlannerService, accounts inbound.AccountService, logger *zap.Logger) *MealHandlers {
	return &MealHandlers{planner: planner, accounts: accounts, logger: logger}
}

type cravingRequest struct {
	Craving     string   `json:"craving"`
	Preferences []string `json:"preferences"`
	MaxCalories int      `json:"maxCalories"`
}

// CravingCreator handles POST /api/meals/craving-creator.
func (h *MealHandlers) CravingCreator(w http.ResponseWriter, r *http.Request) {
	var req cravingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if strings.TrimSpace(req.Craving) == "" {
		writeBadRequest(w, h.logger, "craving is required")
		return
	}

	userID, _ := middleware.GetUserID(r.Context())
	m, err := h.planner.CravingCreator(r.Context(), inbound.CravingCommand{
		UserID:      userID,
		Craving:     req.Craving,
		Preferences: req.Preferences,
		MaxCalories: req.MaxCalories,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, m)
}

type fridgeRescueRequest struct {
	Ingredients []string `json:"ingredients"`
	Preferences []string `json:"preferences"`
}

// FridgeRescue handles POST /api/meals/fridge-rescue.
func (h *MealHandlers) FridgeRescue(w http.ResponseWriter, r *http.Request) {
	var req fridgeRescueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if len(req.Ingredients) == 0 {
		writeBadRequest(w, h.logger, "at least one ingredient is required")
		return
	}

	userID, _ := middleware.GetUserID(r.Context())
	m, err := h.planner.FridgeRescue(r.Context(), inbound.FridgeRescueCommand{
		UserID:      userID,
		Ingredients: req.Ingredients,
		Preferences: req.Preferences,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, m)
}

type menuAnalysisRequest struct {
	MenuText string   `json:"menuText"`
	Goals    []string `json:"goals"`
}

// AnalyzeMenu handles POST /api/restaurants/analyze-menu. Menu analysis
// is a paid surface: users without the plus plan get a 402 carrying the
// checkout lookup key.
func (h *MealHandlers) AnalyzeMenu(w http.ResponseWriter, r *http.Request) {
	var req menuAnalysisRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if strings.TrimSpace(req.MenuText) == "" {
		writeBadRequest(w, h.logger, "menuText is required")
		return
	}

	userID, _ := middleware.GetUserID(r.Context())
	if err := h.accounts.RequireFeature(r.Context(), userID, user.EntitlementPlus); err != nil {
		writeError(w, h.logger, err)
		return
	}
	meals, err := h.planner.AnalyzeMenu(r.Context(), inbound.MenuAnalysisCommand{
		UserID:   userID,
		MenuText: req.MenuText,
		Goals:    req.Goals,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"recommendations": meals,
	})
}

// GetMeal handles GET /api/meals/{id}.
func (h *MealHandlers) GetMeal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, h.logger, "invalid meal id")
		return
	}

	m, err := h.planner.GetMeal(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, m)
}
