// Package mealplan provides the application layer for meal generation:
// craving creator, fridge rescue, and restaurant menu analysis.
package mealplan

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/mealpathway/v1/internal/domain/meal"
	"github.com/mealpathway/v1/internal/ports/inbound"
	"github.com/mealpathway/v1/internal/ports/outbound"
	"github.com/mealpathway/v1/pkg/errors"
)

const (
	sourceCraving = "craving-creator"
	sourceFridge  = "fridge-rescue"
	sourceMenu    = "menu-analysis"

	imageStyle = "warm natural light"
)

var tracer = otel.Tracer("mealplan")

// Service implements the meal generation use cases. Provider failures
// never reach the client: an unusable completion falls back to a template
// meal.
type Service struct {
	mealRepo outbound.MealRepository
	chat     outbound.ChatCompletionClient
	images   outbound.ImageResolver
	logger   *zap.Logger
}

// NewService creates a new meal planner service.
func NewService(
	mealRepo outbound.MealRepository,
	chat outbound.ChatCompletionClient,
	images outbound.ImageResolver,
	logger *zap.Logger,
) inbound.MealPlannerService {
	return &Service{
		mealRepo: mealRepo,
		chat:     chat,
		images:   images,
		logger:   logger.Named("mealplan-service"),
	}
}

// CravingCreator turns a free-text craving into a generated meal.
func (s *Service) CravingCreator(ctx context.Context, cmd inbound.CravingCommand) (*meal.Meal, error) {
	if strings.TrimSpace(cmd.Craving) == "" {
		return nil, errors.NewValidationError("craving is required")
	}

	m := s.generateOne(ctx,
		cravingSystemPrompt(cmd.Preferences, cmd.MaxCalories),
		cravingUserPrompt(cmd.Craving),
		sourceCraving,
		func() *meal.Meal { return templateCravingMeal(cmd.Craving, cmd.Preferences) },
	)

	return s.finish(ctx, cmd.UserID, m)
}

// FridgeRescue builds a meal from ingredients the user has on hand.
func (s *Service) FridgeRescue(ctx context.Context, cmd inbound.FridgeRescueCommand) (*meal.Meal, error) {
	if len(cmd.Ingredients) == 0 {
		return nil, errors.NewValidationError("at least one ingredient is required")
	}

	m := s.generateOne(ctx,
		fridgeSystemPrompt(cmd.Preferences),
		fridgeUserPrompt(cmd.Ingredients),
		sourceFridge,
		func() *meal.Meal { return templateFridgeMeal(cmd.Ingredients) },
	)

	return s.finish(ctx, cmd.UserID, m)
}

// AnalyzeMenu recommends dishes from pasted restaurant menu text.
func (s *Service) AnalyzeMenu(ctx context.Context, cmd inbound.MenuAnalysisCommand) ([]*meal.Meal, error) {
	if strings.TrimSpace(cmd.MenuText) == "" {
		return nil, errors.NewValidationError("menuText is required")
	}

	meals := s.generateMany(ctx,
		menuSystemPrompt(cmd.Goals),
		menuUserPrompt(cmd.MenuText),
	)
	if len(meals) == 0 {
		meals = templateMenuPicks(cmd.Goals)
	}

	s.images.BatchMealImages(ctx, meals, imageStyle)

	for _, m := range meals {
		if err := s.mealRepo.Create(ctx, cmd.UserID, m); err != nil {
			s.logger.Warn("failed to persist menu recommendation",
				zap.String("meal", m.Name), zap.Error(err))
		}
	}

	return meals, nil
}

// GetMeal fetches a stored generated meal.
func (s *Service) GetMeal(ctx context.Context, id uuid.UUID) (*meal.Meal, error) {
	return s.mealRepo.FindByID(ctx, id)
}

// generateOne runs a completion and normalizes it into the canonical meal,
// falling back to the template on any provider or parse failure.
func (s *Service) generateOne(ctx context.Context, systemPrompt, userPrompt, source string, template func() *meal.Meal) *meal.Meal {
	ctx, span := tracer.Start(ctx, "mealplan.generate",
		trace.WithAttributes(attribute.String("meal.source", source)))
	defer span.End()

	response, err := s.chat.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		s.logger.Warn("completion failed, using template meal",
			zap.String("source", source), zap.Error(err))
		return template()
	}

	raw, ok := extractJSONObject(response)
	if !ok {
		s.logger.Warn("no JSON object in completion, using template meal",
			zap.String("source", source))
		return template()
	}

	m, warnings, err := meal.Normalize([]byte(raw), source)
	if err != nil || m.Name == "" {
		s.logger.Warn("completion did not normalize, using template meal",
			zap.String("source", source), zap.Error(err))
		return template()
	}
	for _, w := range warnings {
		s.logger.Debug("normalization warning",
			zap.String("field", w.Field), zap.String("reason", w.Reason))
	}

	return m
}

func (s *Service) generateMany(ctx context.Context, systemPrompt, userPrompt string) []*meal.Meal {
	ctx, span := tracer.Start(ctx, "mealplan.generate",
		trace.WithAttributes(attribute.String("meal.source", sourceMenu)))
	defer span.End()

	response, err := s.chat.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		s.logger.Warn("completion failed for menu analysis", zap.Error(err))
		return nil
	}

	raw, ok := extractJSONArray(response)
	if !ok {
		s.logger.Warn("no JSON array in menu analysis completion")
		return nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elements); err != nil {
		s.logger.Warn("menu analysis array did not parse", zap.Error(err))
		return nil
	}

	meals := make([]*meal.Meal, 0, len(elements))
	for _, element := range elements {
		m, _, err := meal.Normalize(element, sourceMenu)
		if err != nil || m.Name == "" {
			continue
		}
		meals = append(meals, m)
	}
	return meals
}

// finish attaches an image and persists the generated meal.
func (s *Service) finish(ctx context.Context, userID uuid.UUID, m *meal.Meal) (*meal.Meal, error) {
	m.ImageURL = s.images.ResolveMeal(ctx, m, imageStyle)

	if err := s.mealRepo.Create(ctx, userID, m); err != nil {
		return nil, errors.NewDatabaseError("persist meal", err)
	}

	return m, nil
}

// extractJSONObject pulls the outermost JSON object from a completion that
// may be wrapped in prose or markdown fences.
func extractJSONObject(response string) (string, bool) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return response[start : end+1], true
}

func extractJSONArray(response string) (string, bool) {
	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start == -1 || end <= start {
		return "", false
	}
	return response[start : end+1], true
}
