package mealplan

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mealpathway/v1/internal/domain/meal"
	"github.com/mealpathway/v1/internal/ports/inbound"
)

type stubChat struct {
	response string
	err      error
}

func (c *stubChat) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

type stubImages struct{}

func (stubImages) Resolve(ctx context.Context, imageType, name string) string {
	return ""
}

func (stubImages) ResolveMeal(ctx context.Context, m *meal.Meal, style string) string {
	return "/assets/meals/dinner-default.jpg"
}

func (stubImages) BatchMealImages(ctx context.Context, meals []*meal.Meal, style string) {
	for _, m := range meals {
		m.ImageURL = "/assets/meals/dinner-default.jpg"
	}
}

type memMealRepo struct {
	meals map[uuid.UUID]*meal.Meal
}

func newMemMealRepo() *memMealRepo {
	return &memMealRepo{meals: make(map[uuid.UUID]*meal.Meal)}
}

func (r *memMealRepo) Create(ctx context.Context, userID uuid.UUID, m *meal.Meal) error {
	r.meals[m.ID] = m
	return nil
}

func (r *memMealRepo) FindByID(ctx context.Context, id uuid.UUID) (*meal.Meal, error) {
	m, ok := r.meals[id]
	if !ok {
		return nil, errors.New("meal not found")
	}
	return m, nil
}

func (r *memMealRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*meal.Meal, error) {
	var out []*meal.Meal
	for _, m := range r.meals {
		out = append(out, m)
	}
	return out, nil
}

func newTestService(chat *stubChat, repo *memMealRepo) inbound.MealPlannerService {
	return NewService(repo, chat, stubImages{}, zap.NewNop())
}

const validCompletion = `Here is your meal:
{
  "title": "Spicy Chicken Pasta",
  "description": "Penne with chicken in arrabbiata.",
  "ingredients": [{"name": "penne", "amount": "8 oz"}, "chicken breast"],
  "instructions": ["Boil pasta", "Sear chicken", "Combine"],
  "nutrition": {"calories": "520 kcal", "protein": 38},
  "labels": ["high-protein"]
}`

func TestCravingCreatorNormalizesCompletion(t *testing.T) {
	repo := newMemMealRepo()
	svc := newTestService(&stubChat{response: validCompletion}, repo)

	m, err := svc.CravingCreator(context.Background(), inbound.CravingCommand{
		UserID:  uuid.New(),
		Craving: "spicy pasta",
	})
	require.NoError(t, err)

	assert.Equal(t, "Spicy Chicken Pasta", m.Name)
	require.Len(t, m.Ingredients, 2)
	assert.Equal(t, "chicken breast", m.Ingredients[1].Name)
	require.NotNil(t, m.Macros.Calories)
	assert.Equal(t, 520.0, *m.Macros.Calories)
	assert.Equal(t, "craving-creator", m.Source)
	assert.NotEmpty(t, m.ImageURL)

	stored, err := repo.FindByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.Name, stored.Name)
}

func TestCravingCreatorFallsBackToTemplate(t *testing.T) {
	svc := newTestService(&stubChat{err: errors.New("provider down")}, newMemMealRepo())

	m, err := svc.CravingCreator(context.Background(), inbound.CravingCommand{
		UserID:  uuid.New(),
		Craving: "chicken curry",
	})
	require.NoError(t, err, "provider outages must not surface to the client")

	assert.Contains(t, m.Labels, "template")
	assert.NotEmpty(t, m.Ingredients)
	assert.NotEmpty(t, m.ImageURL)
}

func TestCravingCreatorGarbageCompletionFallsBack(t *testing.T) {
	svc := newTestService(&stubChat{response: "Sorry, I can't help with that."}, newMemMealRepo())

	m, err := svc.CravingCreator(context.Background(), inbound.CravingCommand{
		UserID:  uuid.New(),
		Craving: "tacos",
	})
	require.NoError(t, err)
	assert.Contains(t, m.Labels, "template")
}

func TestCravingCreatorRequiresCraving(t *testing.T) {
	svc := newTestService(&stubChat{}, newMemMealRepo())

	_, err := svc.CravingCreator(context.Background(), inbound.CravingCommand{UserID: uuid.New()})
	assert.Error(t, err)
}

func TestFridgeRescueUsesProvidedIngredients(t *testing.T) {
	svc := newTestService(&stubChat{err: errors.New("provider down")}, newMemMealRepo())

	m, err := svc.FridgeRescue(context.Background(), inbound.FridgeRescueCommand{
		UserID:      uuid.New(),
		Ingredients: []string{"eggs", "spinach"},
	})
	require.NoError(t, err)

	names := make([]string, len(m.Ingredients))
	for i, ing := range m.Ingredients {
		names[i] = ing.Name
	}
	assert.Contains(t, names, "eggs")
	assert.Contains(t, names, "spinach")
}

func TestAnalyzeMenuParsesArray(t *testing.T) {
	completion := `[
  {"name": "Grilled Salmon", "description": "Lean and filling", "macros": {"calories": 600}},
  {"name": "Caesar Salad", "description": "Ask for light dressing"}
]`
	repo := newMemMealRepo()
	svc := newTestService(&stubChat{response: completion}, repo)

	meals, err := svc.AnalyzeMenu(context.Background(), inbound.MenuAnalysisCommand{
		UserID:   uuid.New(),
		MenuText: "Grilled Salmon ... Caesar Salad ...",
		Goals:    []string{"high-protein"},
	})
	require.NoError(t, err)
	require.Len(t, meals, 2)
	assert.Equal(t, "Grilled Salmon", meals[0].Name)
	assert.NotEmpty(t, meals[0].ImageURL)
	assert.Len(t, repo.meals, 2)
}

func TestAnalyzeMenuFallsBackOnProviderFailure(t *testing.T) {
	svc := newTestService(&stubChat{err: errors.New("provider down")}, newMemMealRepo())

	meals, err := svc.AnalyzeMenu(context.Background(), inbound.MenuAnalysisCommand{
		UserID:   uuid.New(),
		MenuText: "Burgers and fries",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, meals)
}
