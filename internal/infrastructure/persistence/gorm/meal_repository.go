package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealpathway/v1/internal/domain/meal"
	"github.com/mealpathway/v1/internal/ports/outbound"
	apperrors "github.com/mealpathway/v1/pkg/errors"
)

// MealRepository implements the meal repository interface using GORM
type MealRepository struct {
	db *gorm.DB
}

// NewMealRepository creates a new meal repository
func NewMealRepository(db *gorm.DB) outbound.MealRepository {
	return &MealRepository{db: db}
}

// Create persists a generated meal for a user.
func (r *MealRepository) Create(ctx context.Context, userID uuid.UUID, m *meal.Meal) error {
	model := MealToModel(userID, m)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a meal by ID
func (r *MealRepository) FindByID(ctx context.Context, id uuid.UUID) (*meal.Meal, error) {
	var model MealModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewMealNotFoundError(id.String())
		}
		return nil, result.Error
	}

	return ModelToMeal(&model), nil
}

// FindByUserID returns a user's meals, newest first.
func (r *MealRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*meal.Meal, error) {
	if limit <= 0 {
		limit = 50
	}

	var models []MealModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	meals := make([]*meal.Meal, len(models))
	for i := range models {
		meals[i] = ModelToMeal(&models[i])
	}
	return meals, nil
}
