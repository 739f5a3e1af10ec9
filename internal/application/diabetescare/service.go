// Package diabetescare provides the application layer for diabetes
// profiles and glucose logging.
package diabetescare

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealpathway/v1/internal/domain/diabetes"
	"github.com/mealpathway/v1/internal/ports/inbound"
	"github.com/mealpathway/v1/internal/ports/outbound"
	"github.com/mealpathway/v1/pkg/errors"
)

// Service implements the diabetes use cases.
type Service struct {
	repo   outbound.DiabetesRepository
	logger *zap.Logger
}

// NewService creates a new diabetes service.
func NewService(repo outbound.DiabetesRepository, logger *zap.Logger) inbound.DiabetesService {
	return &Service{
		repo:   repo,
		logger: logger.Named("diabetes-service"),
	}
}

var validTypes = map[diabetes.DiabetesType]bool{
	diabetes.TypeOne:         true,
	diabetes.TypeTwo:         true,
	diabetes.TypeGestational: true,
	diabetes.TypePrediabetes: true,
}

// UpsertProfile writes a user's diabetes profile, last write wins.
func (s *Service) UpsertProfile(ctx context.Context, cmd inbound.ProfileCommand) (*diabetes.Profile, error) {
	if cmd.UserID == uuid.Nil {
		return nil, errors.NewValidationError("userId is required")
	}

	profileType := diabetes.DiabetesType(cmd.Type)
	if !validTypes[profileType] {
		return nil, errors.NewValidationError("type must be one of type1, type2, gestational, prediabetes")
	}

	profile := diabetes.NewProfile(cmd.UserID, profileType, cmd.Medications, cmd.HypoHistory, cmd.A1CPercent)

	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return nil, errors.NewDatabaseError("upsert diabetes profile", err)
	}

	s.logger.Info("diabetes profile updated",
		zap.String("user_id", cmd.UserID.String()),
		zap.String("type", cmd.Type))

	return profile, nil
}

// LogGlucose validates and stores a reading. The returned alert tag is
// attached to the response only, never persisted.
func (s *Service) LogGlucose(ctx context.Context, cmd inbound.GlucoseCommand) (*diabetes.GlucoseLog, diabetes.Alert, error) {
	if cmd.UserID == uuid.Nil {
		return nil, "", errors.NewValidationError("userId is required")
	}

	log, err := diabetes.NewGlucoseLog(cmd.UserID, cmd.ValueMgdl, cmd.Context, cmd.RecordedAt)
	if err != nil {
		return nil, "", errors.NewValueOutOfRangeError("valueMgdl",
			diabetes.MinGlucoseMgdl, diabetes.MaxGlucoseMgdl)
	}
	log.RelatedMealID = cmd.RelatedMealID
	log.InsulinUnits = cmd.InsulinUnits
	log.Notes = cmd.Notes

	if err := s.repo.CreateGlucoseLog(ctx, log); err != nil {
		return nil, "", errors.NewDatabaseError("insert glucose log", err)
	}

	alert := diabetes.ClassifyAlert(cmd.ValueMgdl)
	if alert != diabetes.AlertNone {
		s.logger.Warn("critical glucose reading logged",
			zap.String("user_id", cmd.UserID.String()),
			zap.Int("value_mgdl", cmd.ValueMgdl),
			zap.String("alert", string(alert)))
	}

	return log, alert, nil
}

// ListGlucose returns a user's readings, newest first.
func (s *Service) ListGlucose(ctx context.Context, userID uuid.UUID, limit int) ([]*diabetes.GlucoseLog, error) {
	if userID == uuid.Nil {
		return nil, errors.NewValidationError("userId is required")
	}

	logs, err := s.repo.ListGlucoseLogs(ctx, userID, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("list glucose logs", err)
	}
	return logs, nil
}
