package meal

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParseWarning records a field that could not be coerced during
// normalization. Warnings are non-fatal; the field keeps its default.
type ParseWarning struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ErrNotAnObject is returned when the payload's top level is not a JSON
// object at all; nothing useful can be salvaged from it.
var ErrNotAnObject = fmt.Errorf("meal payload is not a JSON object")

// Field aliases seen across the generation endpoints. First present alias
// wins.
var (
	nameAliases        = []string{"name", "title", "mealName", "recipeName"}
	descAliases        = []string{"description", "summary", "desc"}
	imageAliases       = []string{"imageUrl", "imageURL", "image", "img", "image_url"}
	ingredientAliases  = []string{"ingredients", "items"}
	instructionAliases = []string{"instructions", "steps", "directions"}
	labelAliases       = []string{"labels", "tags"}
	caloriesAliases    = []string{"calories", "kcal", "caloriesPerServing"}
	proteinAliases     = []string{"protein", "proteinG", "protein_g", "proteinGrams"}
	carbsAliases       = []string{"carbs", "carbsG", "carbs_g", "carbohydrates"}
	fatsAliases        = []string{"fats", "fat", "fatG", "fat_g"}
)

// Normalize converts an arbitrary upstream JSON payload into the canonical
// meal record. All arrays default to empty, all macro numerics default to
// nil when absent or unparseable, and each coercion failure is reported as a
// warning instead of silently dropped.
func Normalize(raw []byte, source string) (*Meal, []ParseWarning, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, nil, ErrNotAnObject
	}
	return NormalizeMap(payload, source)
}

// NormalizeMap normalizes an already-decoded payload object.
func NormalizeMap(payload map[string]interface{}, source string) (*Meal, []ParseWarning, error) {
	if payload == nil {
		return nil, nil, ErrNotAnObject
	}

	var warnings []ParseWarning
	warn := func(field, reason string) {
		warnings = append(warnings, ParseWarning{Field: field, Reason: reason})
	}

	m := New(firstString(payload, nameAliases))
	m.Source = source
	m.Description = firstString(payload, descAliases)
	m.ImageURL = firstString(payload, imageAliases)

	if raw, key := firstValue(payload, ingredientAliases); key != "" {
		ings, ok := coerceIngredients(raw)
		if !ok {
			warn(key, "not a recognizable ingredient list")
		}
		m.Ingredients = ings
	}

	if raw, key := firstValue(payload, instructionAliases); key != "" {
		steps, ok := coerceStrings(raw, "text", "step", "instruction")
		if !ok {
			warn(key, "not a recognizable instruction list")
		}
		m.Instructions = steps
	}

	if raw, key := firstValue(payload, labelAliases); key != "" {
		labels, ok := coerceStrings(raw)
		if !ok {
			warn(key, "not a string list")
		}
		m.Labels = labels
	}
	if raw, ok := payload["badges"]; ok {
		badges, good := coerceStrings(raw)
		if !good {
			warn("badges", "not a string list")
		}
		m.Badges = badges
	}

	// Macros may live at the top level or under a nutrition object.
	macroSource := payload
	for _, key := range []string{"macros", "nutrition"} {
		if nested, ok := payload[key].(map[string]interface{}); ok {
			macroSource = nested
			break
		}
	}
	m.Macros.Calories = firstNumber(macroSource, caloriesAliases, warn)
	m.Macros.Protein = firstNumber(macroSource, proteinAliases, warn)
	m.Macros.Carbs = firstNumber(macroSource, carbsAliases, warn)
	m.Macros.Fats = firstNumber(macroSource, fatsAliases, warn)

	return m, warnings, nil
}

// firstString returns the first alias present with a non-empty string value.
func firstString(payload map[string]interface{}, aliases []string) string {
	for _, key := range aliases {
		if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstValue returns the first alias present at all, with the key that hit.
func firstValue(payload map[string]interface{}, aliases []string) (interface{}, string) {
	for _, key := range aliases {
		if v, ok := payload[key]; ok {
			return v, key
		}
	}
	return nil, ""
}

// firstNumber coerces the first present alias into a float, reporting a
// warning when a value exists but cannot be parsed.
func firstNumber(payload map[string]interface{}, aliases []string, warn func(string, string)) *float64 {
	for _, key := range aliases {
		v, ok := payload[key]
		if !ok || v == nil {
			continue
		}
		if f, ok := toFloat(v); ok {
			return &f
		}
		warn(key, "not numeric")
		return nil
	}
	return nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		// Upstreams sometimes send "350" or "350 kcal".
		trimmed := strings.TrimSpace(n)
		if i := strings.IndexByte(trimmed, ' '); i > 0 {
			trimmed = trimmed[:i]
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// coerceIngredients accepts either a list of strings ("2 lb chicken") or a
// list of objects carrying name/amount fields.
func coerceIngredients(raw interface{}) ([]Ingredient, bool) {
	list, ok := raw.([]interface{})
	if !ok {
		return []Ingredient{}, false
	}

	out := make([]Ingredient, 0, len(list))
	clean := true
	for _, item := range list {
		switch v := item.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				out = append(out, Ingredient{Name: strings.TrimSpace(v)})
			}
		case map[string]interface{}:
			ing := Ingredient{
				Name:   firstString(v, []string{"name", "item", "ingredient"}),
				Amount: coerceAmount(v),
			}
			if ing.Name == "" {
				clean = false
				continue
			}
			out = append(out, ing)
		default:
			clean = false
		}
	}
	return out, clean
}

// coerceAmount flattens amount/quantity plus an optional unit into one
// display string.
func coerceAmount(v map[string]interface{}) string {
	var amount string
	for _, key := range []string{"amount", "quantity", "qty"} {
		raw, ok := v[key]
		if !ok || raw == nil {
			continue
		}
		if s, ok := raw.(string); ok {
			amount = strings.TrimSpace(s)
		} else if f, ok := toFloat(raw); ok {
			amount = strconv.FormatFloat(f, 'f', -1, 64)
		}
		break
	}
	if unit, ok := v["unit"].(string); ok && unit != "" && amount != "" {
		amount = amount + " " + unit
	}
	return amount
}

// coerceStrings accepts a list of strings, or a list of objects whose text
// lives under one of the given keys.
func coerceStrings(raw interface{}, objectKeys ...string) ([]string, bool) {
	list, ok := raw.([]interface{})
	if !ok {
		return []string{}, false
	}

	out := make([]string, 0, len(list))
	clean := true
	for _, item := range list {
		switch v := item.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				out = append(out, strings.TrimSpace(v))
			}
		case map[string]interface{}:
			s := firstString(v, objectKeys)
			if s == "" {
				clean = false
				continue
			}
			out = append(out, s)
		default:
			clean = false
		}
	}
	return out, clean
}
