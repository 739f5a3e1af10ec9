// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mealpathway/v1/internal/domain/diabetes"
	"github.com/mealpathway/v1/internal/domain/meal"
	"github.com/mealpathway/v1/internal/domain/shopping"
	"github.com/mealpathway/v1/internal/domain/user"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *user.User) error
	Update(ctx context.Context, user *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// MealRepository persists generated meals.
type MealRepository interface {
	Create(ctx context.Context, userID uuid.UUID, m *meal.Meal) error
	FindByID(ctx context.Context, id uuid.UUID) (*meal.Meal, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*meal.Meal, error)
}

// DiabetesRepository persists diabetes profiles and glucose logs. Profile
// writes are single-row upserts, last write wins.
type DiabetesRepository interface {
	UpsertProfile(ctx context.Context, profile *diabetes.Profile) error
	FindProfile(ctx context.Context, userID uuid.UUID) (*diabetes.Profile, error)
	CreateGlucoseLog(ctx context.Context, log *diabetes.GlucoseLog) error
	ListGlucoseLogs(ctx context.Context, userID uuid.UUID, limit int) ([]*diabetes.GlucoseLog, error)
}

// ShoppingRepository persists a user's shopping list items.
type ShoppingRepository interface {
	Save(ctx context.Context, items []*shopping.Item) error
	Replace(ctx context.Context, userID uuid.UUID, items []*shopping.Item) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*shopping.Item, error)
	Delete(ctx context.Context, userID, itemID uuid.UUID) error
}

// CacheRepository defines the interface for shared caching operations
// (entitlement lookups, session hints).
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
