package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mealpathway/v1/internal/domain/gate"
	"github.com/mealpathway/v1/internal/domain/user"
	"github.com/mealpathway/v1/internal/infrastructure/http/middleware"
	"github.com/mealpathway/v1/internal/ports/inbound"
)

// AccountHandlers serves signup, login, session, and navigation gate
// endpoints.
type AccountHandlers struct {
	accounts inbound.AccountService
	logger   *zap.Logger
}

// NewAccountHandlers creates the account handler set.
func NewAccountHandlers(accounts inbound.AccountService, logger *zap.Logger) *AccountHandlers {
	return &AccountHandlers{accounts: accounts, logger: logger}
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	UserID        string    `json:"userId"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Entitlements  []string  `json:"entitlements"`
	PlanLookupKey string    `json:"planLookupKey,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type authResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        userResponse `json:"user"`
}

func toUserResponse(u *user.User) userResponse {
	entitlements := make([]string, 0, len(u.Entitlements()))
	for _, e := range u.Entitlements() {
		entitlements = append(entitlements, string(e))
	}
	return userResponse{
		UserID:        u.ID().String(),
		Email:         u.Email(),
		Name:          u.Name(),
		Entitlements:  entitlements,
		PlanLookupKey: u.PlanLookupKey(),
		CreatedAt:     u.CreatedAt(),
	}
}

// Signup handles POST /api/auth/signup.
func (h *AccountHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	deviceID, _ := middleware.GetDeviceID(r.Context())
	result, err := h.accounts.Register(r.Context(), inbound.RegisterCommand{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		DeviceID: deviceID,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, authResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt,
		User:        toUserResponse(result.User),
	})
}

// Login handles POST /api/auth/login.
func (h *AccountHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	deviceID, _ := middleware.GetDeviceID(r.Context())
	result, err := h.accounts.Login(r.Context(), inbound.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
		DeviceID: deviceID,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, authResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt,
		User:        toUserResponse(result.User),
	})
}

// Session handles GET /api/auth/session for a valid bearer token.
func (h *AccountHandlers) Session(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	u, err := h.accounts.GetSession(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"userId": userID.String(),
		"user":   toUserResponse(u),
	})
}

type resolveGateRequest struct {
	Route string `json:"route"`
}

// ResolveGate handles POST /api/gate/resolve. Anonymous clients resolve
// against a zero state.
func (h *AccountHandlers) ResolveGate(w http.ResponseWriter, r *http.Request) {
	var req resolveGateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if req.Route == "" {
		req.Route = gate.RootRoute
	}

	cmd := inbound.ResolveGateCommand{Route: req.Route}
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		id := userID
		cmd.UserID = &id
	}

	decision, err := h.accounts.ResolveGate(r.Context(), cmd)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, decision)
}

type gateFlagsRequest struct {
	DisclaimerAccepted  *bool `json:"disclaimerAccepted"`
	OnboardingCompleted *bool `json:"onboardingCompleted"`
}

// UpdateGateFlags handles PUT /api/gate/flags.
func (h *AccountHandlers) UpdateGateFlags(w http.ResponseWriter, r *http.Request) {
	var req gateFlagsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	userID, _ := middleware.GetUserID(r.Context())
	state, err := h.accounts.UpdateGateFlags(r.Context(), userID, inbound.GateFlagsCommand{
		DisclaimerAccepted:  req.DisclaimerAccepted,
		OnboardingCompleted: req.OnboardingCompleted,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, state)
}

// GetGateFlags handles GET /api/gate/flags.
func (h *AccountHandlers) GetGateFlags(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	state, err := h.accounts.GetGateFlags(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, state)
}
