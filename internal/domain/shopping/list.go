// Package shopping implements the shopping list aggregate: items merged from
// meal ingredient lists and free-form adds, deduplicated on merge.
package shopping

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mealpathway/v1/internal/domain/meal"
)

// Item is a single shopping list entry. Quantity is kept as a string so
// non-numeric amounts ("a pinch", "1 can") survive round trips; numeric
// quantities are summed on dedup.
type Item struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	Quantity  string    `json:"quantity,omitempty"`
	Unit      string    `json:"unit,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewItem builds a shopping item for a user.
func NewItem(userID uuid.UUID, name, quantity, unit, note string) *Item {
	return &Item{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		Quantity:  strings.TrimSpace(quantity),
		Unit:      strings.TrimSpace(unit),
		Note:      note,
		CreatedAt: time.Now(),
	}
}

// FromIngredients converts a meal's ingredient lines into shopping items,
// tagging each with the meal name as its source note.
func FromIngredients(userID uuid.UUID, mealName string, ingredients []meal.Ingredient) []*Item {
	items := make([]*Item, 0, len(ingredients))
	for _, ing := range ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			continue
		}
		qty, unit := splitAmount(ing.Amount)
		items = append(items, NewItem(userID, ing.Name, qty, unit, mealName))
	}
	return items
}

// Merge appends incoming items into existing, deduplicating on
// case-insensitive name+unit. Numeric quantities are summed; anything else
// keeps both entries. The result preserves existing order, then appends new
// items in arrival order.
func Merge(existing, incoming []*Item) []*Item {
	merged := make([]*Item, len(existing))
	copy(merged, existing)

	index := make(map[string]*Item, len(merged))
	for _, item := range merged {
		index[dedupeKey(item)] = item
	}

	for _, item := range incoming {
		key := dedupeKey(item)
		prior, ok := index[key]
		if !ok {
			merged = append(merged, item)
			index[key] = item
			continue
		}

		if prior.Quantity != "" && item.Quantity != "" {
			pa, errA := strconv.ParseFloat(prior.Quantity, 64)
			pb, errB := strconv.ParseFloat(item.Quantity, 64)
			if errA == nil && errB == nil {
				prior.Quantity = strconv.FormatFloat(pa+pb, 'f', -1, 64)
				continue
			}
		}
		// Non-numeric quantities cannot be summed; keep both entries and
		// point the index at the newest so later duplicates merge into it.
		merged = append(merged, item)
		index[key] = item
	}
	return merged
}

func dedupeKey(item *Item) string {
	return strings.ToLower(strings.TrimSpace(item.Name)) + "|" + strings.ToLower(strings.TrimSpace(item.Unit))
}

// splitAmount separates a combined amount string ("2 lb") into quantity and
// unit parts; a bare number has no unit, a bare word is all unit.
func splitAmount(amount string) (qty, unit string) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return "", ""
	}
	fields := strings.Fields(amount)
	if _, err := strconv.ParseFloat(fields[0], 64); err != nil {
		return "", amount
	}
	if len(fields) == 1 {
		return fields[0], ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
