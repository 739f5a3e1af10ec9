package apiserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mealpathway/v1/internal/domain/diabetes"
	"github.com/mealpathway/v1/internal/domain/gate"
	"github.com/mealpathway/v1/internal/domain/meal"
	"github.com/mealpathway/v1/internal/domain/shopping"
	"github.com/mealpathway/v1/internal/domain/user"
	"github.com/mealpathway/v1/internal/infrastructure/config"
	"github.com/mealpathway/v1/internal/infrastructure/security"
	"github.com/mealpathway/v1/internal/ports/inbound"
	"github.com/mealpathway/v1/pkg/errors"
	"github.com/mealpathway/v1/pkg/healthcheck"
)

type stubAccounts struct {
	sessionUser *user.User
}

func (s *stubAccounts) Register(_ context.Context, cmd inbound.RegisterCommand) (*inbound.AuthResult, error) {
	u, err := user.NewUser(cmd.Email, cmd.Name, cmd.Password)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	return &inbound.AuthResult{User: u, AccessToken: "token", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (s *stubAccounts) Login(_ context.Context, _ inbound.LoginCommand) (*inbound.AuthResult, error) {
	return nil, errors.NewInvalidCredentialsError()
}

func (s *stubAccounts) GetSession(_ context.Context, _ uuid.UUID) (*user.User, error) {
	return s.sessionUser, nil
}

func (s *stubAccounts) UpdateGateFlags(_ context.Context, _ uuid.UUID, _ inbound.GateFlagsCommand) (gate.State, error) {
	return gate.State{DisclaimerAccepted: true, Authenticated: true}, nil
}

func (s *stubAccounts) GetGateFlags(_ context.Context, _ uuid.UUID) (gate.State, error) {
	return gate.State{Authenticated: true}, nil
}

func (s *stubAccounts) ResolveGate(_ context.Context, cmd inbound.ResolveGateCommand) (gate.Decision, error) {
	return gate.Resolve(gate.State{}, cmd.Route, time.Now()), nil
}

// testPlusUser is the one identity the stub treats as carrying a paid plan.
var testPlusUser = uuid.New()

func (s *stubAccounts) RequireFeature(_ context.Context, userID uuid.UUID, feature user.Entitlement) error {
	if userID == testPlusUser {
		return nil
	}
	return errors.NewUpgradeRequiredError(string(feature), "mealpathway_plus_monthly")
}

type stubPlanner struct{}

func (stubPlanner) CravingCreator(_ context.Context, cmd inbound.CravingCommand) (*meal.Meal, error) {
	m := meal.New("Comfort Ramen")
	return m, nil
}

func (stubPlanner) FridgeRescue(_ context.Context, _ inbound.FridgeRescueCommand) (*meal.Meal, error) {
	return meal.New("Fridge Stir-Fry"), nil
}

func (stubPlanner) AnalyzeMenu(_ context.Context, _ inbound.MenuAnalysisCommand) ([]*meal.Meal, error) {
	return []*meal.Meal{meal.New("Grilled Salmon")}, nil
}

func (stubPlanner) GetMeal(_ context.Context, id uuid.UUID) (*meal.Meal, error) {
	return nil, errors.NewMealNotFoundError(id.String())
}

type stubAssistant struct{}

func (stubAssistant) Chat(_ context.Context, cmd inbound.ChatCommand) (*inbound.ChatReply, error) {
	return &inbound.ChatReply{Intent: "NAVIGATE", Message: "Taking you there.", NavigateTo: "/fitbrain-rush"}, nil
}

type stubDiabetes struct{}

func (stubDiabetes) UpsertProfile(_ context.Context, cmd inbound.ProfileCommand) (*diabetes.Profile, error) {
	return diabetes.NewProfile(cmd.UserID, diabetes.DiabetesType(cmd.Type), cmd.Medications, cmd.HypoHistory, cmd.A1CPercent), nil
}

func (stubDiabetes) LogGlucose(_ context.Context, cmd inbound.GlucoseCommand) (*diabetes.GlucoseLog, diabetes.Alert, error) {
	if cmd.ValueMgdl < diabetes.MinGlucoseMgdl || cmd.ValueMgdl > diabetes.MaxGlucoseMgdl {
		return nil, diabetes.AlertNone, errors.NewValueOutOfRangeError("valueMgdl", diabetes.MinGlucoseMgdl, diabetes.MaxGlucoseMgdl)
	}
	log, err := diabetes.NewGlucoseLog(cmd.UserID, cmd.ValueMgdl, cmd.Context, cmd.RecordedAt)
	if err != nil {
		return nil, diabetes.AlertNone, err
	}
	return log, diabetes.ClassifyAlert(cmd.ValueMgdl), nil
}

func (stubDiabetes) ListGlucose(_ context.Context, _ uuid.UUID, _ int) ([]*diabetes.GlucoseLog, error) {
	return []*diabetes.GlucoseLog{}, nil
}

type stubShopping struct{}

func (stubShopping) AddItems(_ context.Context, userID uuid.UUID, items []inbound.NewItemCommand) ([]*shopping.Item, error) {
	result := make([]*shopping.Item, 0, len(items))
	for _, cmd := range items {
		result = append(result, shopping.NewItem(userID, cmd.Name, cmd.Quantity, cmd.Unit, cmd.Note))
	}
	return result, nil
}

func (stubShopping) AddFromMeal(_ context.Context, _, _ uuid.UUID) ([]*shopping.Item, error) {
	return []*shopping.Item{}, nil
}

func (stubShopping) List(_ context.Context, _ uuid.UUID) ([]*shopping.Item, error) {
	return []*shopping.Item{}, nil
}

func (stubShopping) Remove(_ context.Context, _, _ uuid.UUID) error {
	return errors.NewNotFoundError("shopping item")
}

type stubImages struct{}

func (stubImages) Resolve(_ context.Context, _, name string) string {
	if name == "dragon fruit" {
		return ""
	}
	return "https://img.example/" + name + ".jpg"
}

func (stubImages) ResolveMeal(_ context.Context, m *meal.Meal, _ string) string {
	return "https://img.example/meal.jpg"
}

func (stubImages) BatchMealImages(_ context.Context, meals []*meal.Meal, _ string) {
	for _, m := range meals {
		if m != nil {
			m.ImageURL = "https://img.example/meal.jpg"
		}
	}
}

func newTestServer(t *testing.T) (*Server, *security.TokenService) {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Name = "mealpathway"
	cfg.App.Version = "test"
	cfg.App.Environment = "development"
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.AllowedOrigins = []string{"https://app.mealpathway.com"}
	cfg.Auth.JWTSecret = "test-secret-key-for-router-tests"
	cfg.Auth.JWTExpiration = time.Hour

	logger := zap.NewNop()
	tokens := security.NewTokenService(&cfg.Auth, logger)

	health := healthcheck.New("test", logger)
	health.Register("self", healthcheck.NewCustomChecker(func(ctx context.Context) (healthcheck.Status, string) {
		return healthcheck.StatusHealthy, ""
	}))

	sessionUser, err := user.NewUser("ada@example.com", "Ada", "correct-horse")
	require.NoError(t, err)

	server := NewServer(cfg, logger, tokens, health,
		&stubAccounts{sessionUser: sessionUser},
		stubPlanner{}, stubAssistant{}, stubDiabetes{}, stubShopping{}, stubImages{})
	return server, tokens
}

func doJSON(t *testing.T, server *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func issueToken(t *testing.T, tokens *security.TokenService) string {
	t.Helper()
	return issueTokenFor(t, tokens, uuid.NewString())
}

func issueTokenFor(t *testing.T, tokens *security.TokenService, userID string) string {
	t.Helper()
	token, _, err := tokens.Issue(userID, "ada@example.com")
	require.NoError(t, err)
	return token
}

func TestOpsEndpoints(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, "GET", "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = doJSON(t, server, "GET", "/api/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	rec = doJSON(t, server, "GET", "/__version", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"test"`)

	rec = doJSON(t, server, "GET", "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGateResolveAllowsAnonymous(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, "POST", "/api/gate/resolve", "", `{"route":"/dashboard"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var decision gate.Decision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision))
	assert.Equal(t, gate.ViewDisclaimer, decision.View)
}

func TestGateFlagsRequireIdentity(t *testing.T) {
	server, tokens := newTestServer(t)

	rec := doJSON(t, server, "PUT", "/api/gate/flags", "", `{"disclaimerAccepted":true}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, server, "PUT", "/api/gate/flags", issueToken(t, tokens), `{"disclaimerAccepted":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"disclaimerAccepted":true`)
}

func TestIdentityHeaderAcceptedForShoppingRoutes(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/shopping/items", nil)
	req.Header.Set("x-user-id", uuid.NewString())
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignupValidation(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, "POST", "/api/auth/signup",
		"", `{"email":"ada@example.com","name":"Ada","password":"correct-horse"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, server, "POST", "/api/auth/signup",
		"", `{"email":"ada@example.com","name":"Ada","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginFailureReturns401(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, "POST", "/api/auth/login",
		"", `{"email":"ada@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
}

func TestSessionRequiresBearerToken(t *testing.T) {
	server, tokens := newTestServer(t)

	rec := doJSON(t, server, "GET", "/api/auth/session", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, server, "GET", "/api/auth/session", issueToken(t, tokens), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userId"`)
}

func TestGlucoseOutOfRangeIs422(t *testing.T) {
	server, _ := newTestServer(t)
	userID := uuid.NewString()

	rec := doJSON(t, server, "POST", "/api/diabetes/glucose",
		"", `{"userId":"`+userID+`","valueMgdl":19,"context":"fasting"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "value_out_of_range")
}

func TestGlucoseCriticalLowCarriesAlert(t *testing.T) {
	server, _ := newTestServer(t)
	userID := uuid.NewString()

	rec := doJSON(t, server, "POST", "/api/diabetes/glucose",
		"", `{"userId":"`+userID+`","valueMgdl":53,"context":"fasting"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		OK    bool   `json:"ok"`
		Alert string `json:"alert"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "LOW_CRITICAL", resp.Alert)
}

func TestMealRoutesRequireIdentity(t *testing.T) {
	server, tokens := newTestServer(t)

	rec := doJSON(t, server, "POST", "/api/meals/craving-creator", "", `{"craving":"ramen"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, server, "POST", "/api/meals/craving-creator",
		issueToken(t, tokens), `{"craving":"ramen"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Comfort Ramen")

	rec = doJSON(t, server, "GET", "/api/meals/"+uuid.NewString(), issueToken(t, tokens), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMenuAnalysisPaywall(t *testing.T) {
	server, tokens := newTestServer(t)
	body := `{"menuText":"Grilled Salmon - 24\nHouse Burger - 18"}`

	rec := doJSON(t, server, "POST", "/api/restaurants/analyze-menu",
		issueToken(t, tokens), body)
	require.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Contains(t, rec.Body.String(), "upgrade_required")
	assert.Contains(t, rec.Body.String(), `"checkoutKey":"mealpathway_plus_monthly"`)

	rec = doJSON(t, server, "POST", "/api/restaurants/analyze-menu",
		issueTokenFor(t, tokens, testPlusUser.String()), body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Grilled Salmon")
}

func TestSubjectImageEndpoint(t *testing.T) {
	server, tokens := newTestServer(t)
	token := issueToken(t, tokens)

	rec := doJSON(t, server, "GET", "/api/images/subject?name=avocado", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, server, "GET", "/api/images/subject?name=avocado", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"url":"https://img.example/avocado.jpg"`)

	rec = doJSON(t, server, "GET", "/api/images/subject?name=dragon+fruit", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"url":null`)

	rec = doJSON(t, server, "GET", "/api/images/subject", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssistantChat(t *testing.T) {
	server, tokens := newTestServer(t)

	rec := doJSON(t, server, "POST", "/api/assistant/chat",
		issueToken(t, tokens), `{"message":"open fitbrain"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/fitbrain-rush")
}

func TestShoppingAddAcceptsSingleAndArray(t *testing.T) {
	server, tokens := newTestServer(t)
	token := issueToken(t, tokens)

	rec := doJSON(t, server, "POST", "/api/shopping/items",
		token, `{"name":"chicken","quantity":"2","unit":"lb"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, server, "POST", "/api/shopping/items",
		token, `[{"name":"spinach"},{"name":"rice","quantity":"1","unit":"bag"}]`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, server, "DELETE", "/api/shopping/items/"+uuid.NewString(), token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSAllowList(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("Origin", "https://app.mealpathway.com")
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	assert.Equal(t, "https://app.mealpathway.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestJSONOnlyRejectsWrongContentType(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/gate/resolve", bytes.NewReader([]byte("route=/")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
