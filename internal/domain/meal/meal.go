// Package meal contains the canonical meal record and the normalization
// layer that converts heterogeneous generation payloads into it.
package meal

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Ingredient is a single ingredient line on a meal.
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount,omitempty"`
}

// Macros holds optional per-serving macro nutrients. A nil field means the
// upstream payload did not provide a usable value; zero is a real value.
type Macros struct {
	Calories *float64 `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fats     *float64 `json:"fats,omitempty"`
}

// Meal is the canonical, app-internal meal shape. Every generation endpoint
// response is normalized into this before rendering or persistence.
type Meal struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	ImageURL     string       `json:"imageUrl,omitempty"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	Macros       Macros       `json:"macros"`
	Labels       []string     `json:"labels"`
	Badges       []string     `json:"badges"`
	Source       string       `json:"source,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// New creates a meal with identity and defaults applied. Slices are never
// nil so JSON consumers always see arrays.
func New(name string) *Meal {
	return &Meal{
		ID:           uuid.New(),
		Name:         name,
		Ingredients:  []Ingredient{},
		Instructions: []string{},
		Labels:       []string{},
		Badges:       []string{},
		CreatedAt:    time.Now(),
	}
}

// Slot categorizes a meal name into a coarse meal slot used for fallback
// image selection: breakfast and lunch by substring, everything else dinner.
func Slot(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "breakfast"):
		return "breakfast"
	case strings.Contains(lower, "lunch"):
		return "lunch"
	default:
		return "dinner"
	}
}
