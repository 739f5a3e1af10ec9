package assistant

import (
	"regexp"
	"strconv"
	"strings"
)

// AddToListSlots is the extracted payload of an add-to-shopping-list
// command. Qty is nil when the utterance carried no quantity.
type AddToListSlots struct {
	Item string   `json:"item"`
	Qty  *float64 `json:"qty,omitempty"`
	Unit string   `json:"unit,omitempty"`
}

// addToListPattern pulls an optional quantity+unit token and the item phrase
// out of "add 2 lb chicken to my shopping list" style commands.
var addToListPattern = regexp.MustCompile(
	`(?i)\b(?:add|put)\s+(?:(\d+(?:\.\d+)?)\s*)?(?:(lbs?|kgs?|g|oz|cups?|tbsp|tsp|cans?|packs?|bunche?s?|dozen)\s+)?(.+?)(?:\s+(?:to|on|in)\s+(?:my\s+|the\s+)?(?:shopping\s+)?(?:list|cart|groceries))?\s*[.!?]*$`)

// ParseAddToList extracts quantity, unit, and item from an add command.
// Returns false when the utterance is not an add command at all.
func ParseAddToList(utterance string) (AddToListSlots, bool) {
	m := addToListPattern.FindStringSubmatch(strings.TrimSpace(utterance))
	if m == nil {
		return AddToListSlots{}, false
	}

	slots := AddToListSlots{
		Item: strings.TrimSpace(m[3]),
		Unit: strings.ToLower(m[2]),
	}
	if m[1] != "" {
		if qty, err := strconv.ParseFloat(m[1], 64); err == nil {
			slots.Qty = &qty
		}
	}
	if slots.Item == "" {
		return AddToListSlots{}, false
	}
	return slots, true
}

// navigationPhrase is a literal phrase resolved before any keyword check, in
// order. Earlier entries win on overlapping matches.
type navigationPhrase struct {
	phrase string
	route  string
}

var navigationPhrases = []navigationPhrase{
	{"fitbrain", "/fitbrain-rush"},
	{"brain game", "/fitbrain-rush"},
	{"craving creator", "/craving-creator"},
	{"fridge rescue", "/fridge-rescue"},
	{"shopping list", "/shopping-list"},
	{"meal plan", "/meal-plan"},
}

// navigationKeywords are the looser single-keyword fallbacks checked after
// the literal phrases.
var navigationKeywords = []navigationPhrase{
	{"dashboard", "/dashboard"},
	{"home", "/dashboard"},
	{"shopping", "/shopping-list"},
	{"groceries", "/shopping-list"},
	{"planner", "/meal-plan"},
	{"glucose", "/diabetes"},
	{"diabetes", "/diabetes"},
	{"settings", "/settings"},
	{"profile", "/profile"},
	{"pricing", "/pricing"},
	{"upgrade", "/pricing"},
	{"progress", "/progress"},
	{"tracker", "/progress"},
}

// ParseNavigation resolves an utterance to a destination route. Literal
// phrases are checked before keywords; returns false when nothing matches.
func ParseNavigation(utterance string) (string, bool) {
	text := strings.ToLower(utterance)
	for _, p := range navigationPhrases {
		if strings.Contains(text, p.phrase) {
			return p.route, true
		}
	}
	for _, k := range navigationKeywords {
		if strings.Contains(text, k.phrase) {
			return k.route, true
		}
	}
	return "", false
}
