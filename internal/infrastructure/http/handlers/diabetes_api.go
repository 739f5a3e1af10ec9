package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealpathway/v1/internal/domain/diabetes"
	"github.com/mealpathway/v1/internal/infrastructure/http/middleware"
	"github.com/mealpathway/v1/internal/ports/inbound"
)

// DiabetesHandlers serves the diabetes profile and glucose log endpoints.
type DiabetesHandlers struct {
	service inbound.DiabetesService
	logger  *zap.Logger
}

// NewDiabetesHandlers creates the diabetes handler set.
func NewDiabetesHandlers(service inbound.DiabetesService, logger *zap.Logger) *DiabetesHandlers {
	return &DiabetesHandlers{service: service, logger: logger}
}

type profileRequest struct {
	UserID      string   `json:"userId"`
	Type        string   `json:"type" validate:"required"`
	Medications []string `json:"medications"`
	HypoHistory bool     `json:"hypoHistory"`
	A1CPercent  *float64 `json:"a1cPercent" validate:"omitempty,gt=0,lt=25"`
}

// UpsertProfile handles PUT /api/diabetes/profile.
func (h *DiabetesHandlers) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	userID, ok := h.resolveUser(r, req.UserID)
	if !ok {
		writeBadRequest(w, h.logger, "userId is required")
		return
	}

	_, err := h.service.UpsertProfile(r.Context(), inbound.ProfileCommand{
		UserID:      userID,
		Type:        req.Type,
		Medications: req.Medications,
		HypoHistory: req.HypoHistory,
		A1CPercent:  req.A1CPercent,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]bool{"ok": true})
}

type glucoseRequest struct {
	UserID        string     `json:"userId"`
	ValueMgdl     *int       `json:"valueMgdl"`
	Context       string     `json:"context"`
	RelatedMealID string     `json:"relatedMealId"`
	RecordedAt    *time.Time `json:"recordedAt"`
	InsulinUnits  *float64   `json:"insulinUnits"`
	Notes         string     `json:"notes"`
}

type glucoseResponse struct {
	OK    bool                 `json:"ok"`
	Row   *diabetes.GlucoseLog `json:"row"`
	Alert string               `json:"alert,omitempty"`
}

// LogGlucose handles POST /api/diabetes/glucose. Values outside the
// physiological range are rejected with 422; critical readings carry an
// alert tag in the response without being persisted.
func (h *DiabetesHandlers) LogGlucose(w http.ResponseWriter, r *http.Request) {
	var req glucoseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	userID, ok := h.resolveUser(r, req.UserID)
	if !ok {
		writeBadRequest(w, h.logger, "userId is required")
		return
	}
	if req.ValueMgdl == nil {
		writeBadRequest(w, h.logger, "valueMgdl is required")
		return
	}

	cmd := inbound.GlucoseCommand{
		UserID:       userID,
		ValueMgdl:    *req.ValueMgdl,
		Context:      req.Context,
		InsulinUnits: req.InsulinUnits,
		Notes:        req.Notes,
	}
	if req.RelatedMealID != "" {
		mealID, err := uuid.Parse(req.RelatedMealID)
		if err != nil {
			writeBadRequest(w, h.logger, "invalid relatedMealId")
			return
		}
		cmd.RelatedMealID = &mealID
	}
	if req.RecordedAt != nil {
		cmd.RecordedAt = *req.RecordedAt
	}

	log, alert, err := h.service.LogGlucose(r.Context(), cmd)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := glucoseResponse{OK: true, Row: log}
	if alert != diabetes.AlertNone {
		resp.Alert = string(alert)
	}
	writeJSON(w, h.logger, http.StatusCreated, resp)
}

// ListGlucose handles GET /api/diabetes/glucose?userId=&limit=.
func (h *DiabetesHandlers) ListGlucose(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.resolveUser(r, r.URL.Query().Get("userId"))
	if !ok {
		writeBadRequest(w, h.logger, "userId is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeBadRequest(w, h.logger, "invalid limit")
			return
		}
		limit = parsed
	}

	logs, err := h.service.ListGlucose(r.Context(), userID, limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{"rows": logs})
}

// resolveUser prefers an explicit userId over the request identity.
func (h *DiabetesHandlers) resolveUser(r *http.Request, explicit string) (uuid.UUID, bool) {
	if explicit != "" {
		id, err := uuid.Parse(explicit)
		return id, err == nil
	}
	return middleware.GetUserID(r.Context())
}
