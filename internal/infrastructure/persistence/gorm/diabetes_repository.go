package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mealpathway/v1/internal/domain/diabetes"
	"github.com/mealpathway/v1/internal/ports/outbound"
	apperrors "github.com/mealpathway/v1/pkg/errors"
)

// DiabetesRepository implements the diabetes repository interface using GORM
type DiabetesRepository struct {
	db *gorm.DB
}

// NewDiabetesRepository creates a new diabetes repository
func NewDiabetesRepository(db *gorm.DB) outbound.DiabetesRepository {
	return &DiabetesRepository{db: db}
}

// UpsertProfile writes a user's profile as a single-row upsert, last
// write wins.
func (r *DiabetesRepository) UpsertProfile(ctx context.Context, profile *diabetes.Profile) error {
	model := ProfileToModel(profile)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(model).Error
}

// FindProfile returns a user's profile.
func (r *DiabetesRepository) FindProfile(ctx context.Context, userID uuid.UUID) (*diabetes.Profile, error) {
	var model DiabetesProfileModel

	result := r.db.WithContext(ctx).First(&model, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("diabetes profile")
		}
		return nil, result.Error
	}

	return ModelToProfile(&model), nil
}

// CreateGlucoseLog inserts a glucose reading.
func (r *DiabetesRepository) CreateGlucoseLog(ctx context.Context, log *diabetes.GlucoseLog) error {
	model := GlucoseLogToModel(log)
	return r.db.WithContext(ctx).Create(model).Error
}

// ListGlucoseLogs returns a user's readings, newest first.
func (r *DiabetesRepository) ListGlucoseLogs(ctx context.Context, userID uuid.UUID, limit int) ([]*diabetes.GlucoseLog, error) {
	if limit <= 0 {
		limit = 100
	}

	var models []GlucoseLogModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	logs := make([]*diabetes.GlucoseLog, len(models))
	for i := range models {
		logs[i] = ModelToGlucoseLog(&models[i])
	}
	return logs, nil
}
