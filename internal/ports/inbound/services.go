// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mealpathway/v1/internal/domain/diabetes"
	"github.com/mealpathway/v1/internal/domain/gate"
	"github.com/mealpathway/v1/internal/domain/meal"
	"github.com/mealpathway/v1/internal/domain/shopping"
	"github.com/mealpathway/v1/internal/domain/user"
)

// MealPlannerService defines the meal generation use cases the HTTP layer
// drives.
type MealPlannerService interface {
	// CravingCreator turns a free-text craving into a generated meal.
	CravingCreator(ctx context.Context, cmd CravingCommand) (*meal.Meal, error)
	// FridgeRescue builds a meal from ingredients the user has on hand.
	FridgeRescue(ctx context.Context, cmd FridgeRescueCommand) (*meal.Meal, error)
	// AnalyzeMenu recommends dishes from pasted restaurant menu text.
	AnalyzeMenu(ctx context.Context, cmd MenuAnalysisCommand) ([]*meal.Meal, error)
	// GetMeal fetches a stored generated meal.
	GetMeal(ctx context.Context, id uuid.UUID) (*meal.Meal, error)
}

// CravingCommand contains the craving-creator inputs.
type CravingCommand struct {
	UserID      uuid.UUID
	Craving     string
	Preferences []string
	MaxCalories int
}

// FridgeRescueCommand contains the fridge-rescue inputs.
type FridgeRescueCommand struct {
	UserID      uuid.UUID
	Ingredients []string
	Preferences []string
}

// MenuAnalysisCommand contains the restaurant menu analysis inputs.
type MenuAnalysisCommand struct {
	UserID   uuid.UUID
	MenuText string
	Goals    []string
}

// AccountService covers signup, login, session lookup, navigation gate
// state, and the entitlement feature gate.
type AccountService interface {
	Register(ctx context.Context, cmd RegisterCommand) (*AuthResult, error)
	Login(ctx context.Context, cmd LoginCommand) (*AuthResult, error)
	GetSession(ctx context.Context, userID uuid.UUID) (*user.User, error)
	UpdateGateFlags(ctx context.Context, userID uuid.UUID, cmd GateFlagsCommand) (gate.State, error)
	GetGateFlags(ctx context.Context, userID uuid.UUID) (gate.State, error)
	ResolveGate(ctx context.Context, cmd ResolveGateCommand) (gate.Decision, error)
	// RequireFeature returns an upgrade_required error carrying the plan
	// checkout lookup key when the user lacks the entitlement.
	RequireFeature(ctx context.Context, userID uuid.UUID, feature user.Entitlement) error
}

// RegisterCommand contains signup inputs.
type RegisterCommand struct {
	Email    string
	Name     string
	Password string
	DeviceID string
}

// LoginCommand contains login inputs.
type LoginCommand struct {
	Email    string
	Password string
	DeviceID string
}

// AuthResult is the outcome of a successful register or login.
type AuthResult struct {
	User        *user.User
	AccessToken string
	ExpiresAt   time.Time
}

// GateFlagsCommand updates persisted gate flags. Nil fields are left
// untouched.
type GateFlagsCommand struct {
	DisclaimerAccepted  *bool
	OnboardingCompleted *bool
}

// ResolveGateCommand resolves the gate for a route. Anonymous requests
// carry a nil UserID and resolve against a zero state.
type ResolveGateCommand struct {
	UserID *uuid.UUID
	Route  string
}

// DiabetesService covers profile upserts and glucose logging.
type DiabetesService interface {
	UpsertProfile(ctx context.Context, cmd ProfileCommand) (*diabetes.Profile, error)
	// LogGlucose validates the reading, stores it, and returns the
	// clinical alert tag for the response. The alert is not persisted.
	LogGlucose(ctx context.Context, cmd GlucoseCommand) (*diabetes.GlucoseLog, diabetes.Alert, error)
	ListGlucose(ctx context.Context, userID uuid.UUID, limit int) ([]*diabetes.GlucoseLog, error)
}

// ProfileCommand contains diabetes profile inputs.
type ProfileCommand struct {
	UserID      uuid.UUID
	Type        string
	Medications []string
	HypoHistory bool
	A1CPercent  *float64
}

// GlucoseCommand contains glucose log inputs.
type GlucoseCommand struct {
	UserID        uuid.UUID
	ValueMgdl     int
	Context       string
	RelatedMealID *uuid.UUID
	RecordedAt    time.Time
	InsulinUnits  *float64
	Notes         string
}

// ShoppingService covers the shopping list aggregate.
type ShoppingService interface {
	// AddItems merges new items into the user's list, deduplicating by
	// name and unit.
	AddItems(ctx context.Context, userID uuid.UUID, items []NewItemCommand) ([]*shopping.Item, error)
	// AddFromMeal merges a stored meal's ingredients into the list.
	AddFromMeal(ctx context.Context, userID, mealID uuid.UUID) ([]*shopping.Item, error)
	List(ctx context.Context, userID uuid.UUID) ([]*shopping.Item, error)
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
}

// NewItemCommand describes one shopping item to add.
type NewItemCommand struct {
	Name     string
	Quantity string
	Unit     string
	Note     string
}

// AssistantService maps chat utterances to intents and actions.
type AssistantService interface {
	Chat(ctx context.Context, cmd ChatCommand) (*ChatReply, error)
}

// ChatCommand contains one chat utterance.
type ChatCommand struct {
	UserID    uuid.UUID
	Utterance string
}

// ChatReply is the assistant's structured response. NavigateTo is set for
// navigation intents; Added lists shopping items created by a "do" intent.
type ChatReply struct {
	Intent     string           `json:"intent"`
	Message    string           `json:"message"`
	NavigateTo string           `json:"navigateTo,omitempty"`
	Added      []*shopping.Item `json:"added,omitempty"`
}
