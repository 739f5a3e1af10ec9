package gorm

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealpathway/v1/internal/domain/shopping"
	"github.com/mealpathway/v1/internal/ports/outbound"
	apperrors "github.com/mealpathway/v1/pkg/errors"
)

// ShoppingRepository implements the shopping repository interface using GORM
type ShoppingRepository struct {
	db *gorm.DB
}

// NewShoppingRepository creates a new shopping repository
func NewShoppingRepository(db *gorm.DB) outbound.ShoppingRepository {
	return &ShoppingRepository{db: db}
}

// Save inserts new items.
func (r *ShoppingRepository) Save(ctx context.Context, items []*shopping.Item) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]*ShoppingItemModel, len(items))
	for i, item := range items {
		models[i] = ItemToModel(item)
	}
	return r.db.WithContext(ctx).Create(models).Error
}

// Replace swaps a user's whole list for the merged result in one
// transaction.
func (r *ShoppingRepository) Replace(ctx context.Context, userID uuid.UUID, items []*shopping.Item) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&ShoppingItemModel{}).Error; err != nil {
			return err
		}

		if len(items) == 0 {
			return nil
		}

		models := make([]*ShoppingItemModel, len(items))
		for i, item := range items {
			models[i] = ItemToModel(item)
		}
		return tx.Create(models).Error
	})
}

// ListByUser returns a user's items in insertion order.
func (r *ShoppingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*shopping.Item, error) {
	var models []ShoppingItemModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	items := make([]*shopping.Item, len(models))
	for i := range models {
		items[i] = ModelToItem(&models[i])
	}
	return items, nil
}

// Delete removes a single item owned by the user.
func (r *ShoppingRepository) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, itemID).
		Delete(&ShoppingItemModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("shopping item")
	}
	return nil
}
