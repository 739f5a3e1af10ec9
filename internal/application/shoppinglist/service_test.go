package shoppinglist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mealpathway/v1/internal/domain/meal"
	"github.com/mealpathway/v1/internal/domain/shopping"
	"github.com/mealpathway/v1/internal/ports/inbound"
	"github.com/mealpathway/v1/pkg/errors"
)

type memShoppingRepo struct {
	byUser map[uuid.UUID][]*shopping.Item
}

func newMemShoppingRepo() *memShoppingRepo {
	return &memShoppingRepo{byUser: make(map[uuid.UUID][]*shopping.Item)}
}

func (r *memShoppingRepo) Save(ctx context.Context, items []*shopping.Item) error {
	for _, item := range items {
		r.byUser[item.UserID] = append(r.byUser[item.UserID], item)
	}
	return nil
}

func (r *memShoppingRepo) Replace(ctx context.Context, userID uuid.UUID, items []*shopping.Item) error {
	r.byUser[userID] = items
	return nil
}

func (r *memShoppingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*shopping.Item, error) {
	return r.byUser[userID], nil
}

func (r *memShoppingRepo) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	items := r.byUser[userID]
	for i, item := range items {
		if item.ID == itemID {
			r.byUser[userID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return errors.NewNotFoundError("shopping item")
}

type fixedMealRepo struct {
	meal *meal.Meal
}

func (r *fixedMealRepo) Create(ctx context.Context, userID uuid.UUID, m *meal.Meal) error {
	return nil
}

func (r *fixedMealRepo) FindByID(ctx context.Context, id uuid.UUID) (*meal.Meal, error) {
	if r.meal == nil || r.meal.ID != id {
		return nil, errors.NewMealNotFoundError(id.String())
	}
	return r.meal, nil
}

func (r *fixedMealRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*meal.Meal, error) {
	return nil, nil
}

func TestAddItemsMergesDuplicates(t *testing.T) {
	repo := newMemShoppingRepo()
	svc := NewService(repo, &fixedMealRepo{}, zap.NewNop())
	userID := uuid.New()

	_, err := svc.AddItems(context.Background(), userID, []inbound.NewItemCommand{
		{Name: "Chicken", Quantity: "2", Unit: "lb"},
	})
	require.NoError(t, err)

	items, err := svc.AddItems(context.Background(), userID, []inbound.NewItemCommand{
		{Name: "chicken", Quantity: "1", Unit: "lb"},
		{Name: "rice", Quantity: "1", Unit: "bag"},
	})
	require.NoError(t, err)

	require.Len(t, items, 2, "duplicate name and unit must merge into one line")
	for _, item := range items {
		if item.Unit == "lb" {
			assert.Equal(t, "3", item.Quantity)
		}
	}
}

func TestAddItemsRequiresName(t *testing.T) {
	svc := NewService(newMemShoppingRepo(), &fixedMealRepo{}, zap.NewNop())

	_, err := svc.AddItems(context.Background(), uuid.New(), []inbound.NewItemCommand{{Name: "  "}})
	assert.Error(t, err)
}

func TestAddFromMealTagsSource(t *testing.T) {
	m := meal.New("Quinoa Bowl")
	m.Ingredients = []meal.Ingredient{
		{Name: "quinoa", Amount: "1 cup"},
		{Name: "kale", Amount: "2 cups"},
	}

	repo := newMemShoppingRepo()
	svc := NewService(repo, &fixedMealRepo{meal: m}, zap.NewNop())
	userID := uuid.New()

	items, err := svc.AddFromMeal(context.Background(), userID, m.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, "Quinoa Bowl", item.Note)
	}
}

func TestAddFromMealUnknownMeal(t *testing.T) {
	svc := NewService(newMemShoppingRepo(), &fixedMealRepo{}, zap.NewNop())

	_, err := svc.AddFromMeal(context.Background(), uuid.New(), uuid.New())
	assert.Error(t, err)
}

func TestRemoveDeletesItem(t *testing.T) {
	repo := newMemShoppingRepo()
	svc := NewService(repo, &fixedMealRepo{}, zap.NewNop())
	userID := uuid.New()

	items, err := svc.AddItems(context.Background(), userID, []inbound.NewItemCommand{{Name: "eggs"}})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), userID, items[0].ID))

	remaining, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
