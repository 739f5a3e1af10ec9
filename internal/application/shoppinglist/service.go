// Package shoppinglist provides the application layer for the shopping
// list aggregate.
package shoppinglist

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealpathway/v1/internal/domain/shopping"
	"github.com/mealpathway/v1/internal/ports/inbound"
	"github.com/mealpathway/v1/internal/ports/outbound"
	"github.com/mealpathway/v1/pkg/errors"
)

// Service implements the shopping list use cases. Every add is a merge:
// the stored list stays deduplicated by item name and unit.
type Service struct {
	shoppingRepo outbound.ShoppingRepository
	mealRepo     outbound.MealRepository
	logger       *zap.Logger
}

// NewService creates a new shopping list service.
func NewService(
	shoppingRepo outbound.ShoppingRepository,
	mealRepo outbound.MealRepository,
	logger *zap.Logger,
) inbound.ShoppingService {
	return &Service{
		shoppingRepo: shoppingRepo,
		mealRepo:     mealRepo,
		logger:       logger.Named("shopping-service"),
	}
}

// AddItems merges new items into the user's list.
func (s *Service) AddItems(ctx context.Context, userID uuid.UUID, items []inbound.NewItemCommand) ([]*shopping.Item, error) {
	if userID == uuid.Nil {
		return nil, errors.NewValidationError("userId is required")
	}

	incoming := make([]*shopping.Item, 0, len(items))
	for _, cmd := range items {
		name := strings.TrimSpace(cmd.Name)
		if name == "" {
			return nil, errors.NewValidationError("item name is required")
		}
		incoming = append(incoming, shopping.NewItem(userID, name, cmd.Quantity, cmd.Unit, cmd.Note))
	}
	if len(incoming) == 0 {
		return nil, errors.NewValidationError("at least one item is required")
	}

	return s.merge(ctx, userID, incoming)
}

// AddFromMeal merges a stored meal's ingredients into the list, tagging
// each item with the meal name.
func (s *Service) AddFromMeal(ctx context.Context, userID, mealID uuid.UUID) ([]*shopping.Item, error) {
	if userID == uuid.Nil {
		return nil, errors.NewValidationError("userId is required")
	}

	m, err := s.mealRepo.FindByID(ctx, mealID)
	if err != nil {
		return nil, err
	}

	incoming := shopping.FromIngredients(userID, m.Name, m.Ingredients)
	if len(incoming) == 0 {
		return s.List(ctx, userID)
	}

	return s.merge(ctx, userID, incoming)
}

// List returns the user's current list.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*shopping.Item, error) {
	if userID == uuid.Nil {
		return nil, errors.NewValidationError("userId is required")
	}

	items, err := s.shoppingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("list shopping items", err)
	}
	return items, nil
}

// Remove deletes one item from the user's list.
func (s *Service) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	return s.shoppingRepo.Delete(ctx, userID, itemID)
}

func (s *Service) merge(ctx context.Context, userID uuid.UUID, incoming []*shopping.Item) ([]*shopping.Item, error) {
	existing, err := s.shoppingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("list shopping items", err)
	}

	merged := shopping.Merge(existing, incoming)

	if err := s.shoppingRepo.Replace(ctx, userID, merged); err != nil {
		return nil, errors.NewDatabaseError("replace shopping list", err)
	}

	s.logger.Debug("shopping list merged",
		zap.String("user_id", userID.String()),
		zap.Int("incoming", len(incoming)),
		zap.Int("total", len(merged)))

	return merged, nil
}
