package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealpathway/v1/internal/infrastructure/http/middleware"
	"github.com/mealpathway/v1/internal/ports/inbound"
)

// ShoppingHandlers serves the shopping list endpoints.
type ShoppingHandlers struct {
	service inbound.ShoppingService
	logger  *zap.Logger
}

// NewShoppingHandlers creates the shopping handler set.
func NewShoppingHandlers(service inbound.ShoppingService, logger *zap.Logger) *ShoppingHandlers {
	return &ShoppingHandlers{service: service, logger: logger}
}

type shoppingItemRequest struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Note     string `json:"note"`
}

// AddItems handles POST /api/shopping/items. The body is either a single
// item object or an array of them.
func (h *ShoppingHandlers) AddItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeBadRequest(w, h.logger, "user identity is required")
		return
	}

	var raw json.RawMessage
	if err := decodeJSON(r, &raw); err != nil {
		writeError(w, h.logger, err)
		return
	}

	var reqs []shoppingItemRequest
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(raw, &reqs); err != nil {
			writeBadRequest(w, h.logger, "invalid items payload")
			return
		}
	} else {
		var single shoppingItemRequest
		if err := json.Unmarshal(raw, &single); err != nil {
			writeBadRequest(w, h.logger, "invalid item payload")
			return
		}
		reqs = []shoppingItemRequest{single}
	}

	commands := make([]inbound.NewItemCommand, 0, len(reqs))
	for _, req := range reqs {
		commands = append(commands, inbound.NewItemCommand{
			Name:     req.Name,
			Quantity: req.Quantity,
			Unit:     req.Unit,
			Note:     req.Note,
		})
	}

	items, err := h.service.AddItems(r.Context(), userID, commands)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, map[string]interface{}{"items": items})
}

// List handles GET /api/shopping/items.
func (h *ShoppingHandlers) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeBadRequest(w, h.logger, "user identity is required")
		return
	}

	items, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{"items": items})
}

// Remove handles DELETE /api/shopping/items/{id}.
func (h *ShoppingHandlers) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeBadRequest(w, h.logger, "user identity is required")
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, h.logger, "invalid item id")
		return
	}

	if err := h.service.Remove(r.Context(), userID, itemID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]bool{"ok": true})
}

type mergeRequest struct {
	MealID string `json:"mealId"`
}

// Merge handles POST /api/shopping/merge, folding a stored meal's
// ingredients into the list.
func (h *ShoppingHandlers) Merge(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeBadRequest(w, h.logger, "user identity is required")
		return
	}

	var req mergeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	mealID, err := uuid.Parse(req.MealID)
	if err != nil {
		writeBadRequest(w, h.logger, "invalid mealId")
		return
	}

	items, err := h.service.AddFromMeal(r.Context(), userID, mealID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{"items": items})
}
