package outbound

import (
	"context"

	"github.com/mealpathway/v1/internal/domain/meal"
)

// ImageResolver resolves image URLs for meals and arbitrary subjects.
// Implementations never fail; the worst case is a static fallback path for
// meals and "" for generic subjects.
type ImageResolver interface {
	Resolve(ctx context.Context, imageType, name string) string
	ResolveMeal(ctx context.Context, m *meal.Meal, style string) string
	BatchMealImages(ctx context.Context, meals []*meal.Meal, style string)
}
