package mealplan

import (
	"fmt"
	"strings"
)

const mealJSONContract = `CRITICAL: Respond with ONLY a valid JSON object in the exact format below. No explanatory text, no markdown fences.

{
  "name": "Meal Name",
  "description": "One or two sentences",
  "ingredients": [
    {"name": "ingredient", "amount": "1 cup"}
  ],
  "instructions": ["Step one", "Step two"],
  "macros": {"calories": 420, "protein": 30, "carbs": 40, "fats": 15},
  "labels": ["high-protein"],
  "badges": ["quick"]
}`

const menuJSONContract = `CRITICAL: Respond with ONLY a valid JSON array of up to three objects in the exact format below. No explanatory text, no markdown fences.

[
  {
    "name": "Dish Name",
    "description": "Why this pick fits the goals",
    "macros": {"calories": 550},
    "labels": ["best-pick"],
    "badges": []
  }
]`

func cravingSystemPrompt(preferences []string, maxCalories int) string {
	prompt := "You are a registered-dietitian meal designer. Turn the user's craving into one realistic, home-cookable meal.\n\n" + mealJSONContract

	if len(preferences) > 0 {
		prompt += fmt.Sprintf("\n\nDietary preferences: %s", strings.Join(preferences, ", "))
	}
	if maxCalories > 0 {
		prompt += fmt.Sprintf("\nMaximum calories: %d", maxCalories)
	}

	return prompt
}

func cravingUserPrompt(craving string) string {
	return fmt.Sprintf("I'm craving: %s", craving)
}

func fridgeSystemPrompt(preferences []string) string {
	prompt := "You are a resourceful home cook. Build one meal using primarily the ingredients the user already has. Pantry staples (oil, salt, spices) may be assumed.\n\n" + mealJSONContract

	if len(preferences) > 0 {
		prompt += fmt.Sprintf("\n\nDietary preferences: %s", strings.Join(preferences, ", "))
	}

	return prompt
}

func fridgeUserPrompt(ingredients []string) string {
	return fmt.Sprintf("Ingredients on hand: %s", strings.Join(ingredients, ", "))
}

func menuSystemPrompt(goals []string) string {
	prompt := "You are a nutrition coach reading a restaurant menu. Recommend the dishes that best fit the user's goals, with a short reason each.\n\n" + menuJSONContract

	if len(goals) > 0 {
		prompt += fmt.Sprintf("\n\nUser goals: %s", strings.Join(goals, ", "))
	}

	return prompt
}

func menuUserPrompt(menuText string) string {
	return "Menu:\n" + menuText
}
