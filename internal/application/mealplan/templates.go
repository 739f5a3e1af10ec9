package mealplan

import (
	"fmt"
	"strings"

	"github.com/mealpathway/v1/internal/domain/meal"
)

// Template meals served when the generation provider is unavailable or
// returns something unparseable. The generation endpoints never surface a
// provider outage to the client.

func templateCravingMeal(craving string, preferences []string) *meal.Meal {
	m := meal.New("Comforting " + mainDish(craving))
	m.Description = fmt.Sprintf("A simple take on your craving for %s.", craving)
	if len(preferences) > 0 {
		m.Description += fmt.Sprintf(" Made %s-friendly.", strings.Join(preferences, " and "))
	}
	m.Ingredients = baseIngredients(craving)
	m.Instructions = baseInstructions()
	m.Macros = templateMacros(420, 25, 40, 15)
	m.Labels = append([]string{"template"}, preferences...)
	m.Source = sourceCraving
	return m
}

func templateFridgeMeal(ingredients []string) *meal.Meal {
	name := "Everything Skillet"
	if len(ingredients) > 0 {
		name = strings.Title(ingredients[0]) + " Skillet"
	}

	m := meal.New(name)
	m.Description = "A one-pan meal built from what you already have."
	for _, ing := range ingredients {
		m.Ingredients = append(m.Ingredients, meal.Ingredient{Name: ing})
	}
	m.Ingredients = append(m.Ingredients,
		meal.Ingredient{Name: "olive oil", Amount: "2 tbsp"},
		meal.Ingredient{Name: "salt", Amount: "1 tsp"},
	)
	m.Instructions = baseInstructions()
	m.Macros = templateMacros(380, 22, 35, 14)
	m.Labels = []string{"template", "fridge-rescue"}
	m.Source = sourceFridge
	return m
}

func templateMenuPicks(goals []string) []*meal.Meal {
	grilled := meal.New("Grilled Protein Plate")
	grilled.Description = "Grilled mains with a vegetable side are usually the safest pick on any menu."
	grilled.Macros = templateMacros(550, 40, 20, 25)
	grilled.Labels = append([]string{"template", "best-pick"}, goals...)
	grilled.Source = sourceMenu

	salad := meal.New("Entree Salad, Dressing on the Side")
	salad.Description = "An entree salad keeps portions in check; ask for dressing on the side."
	salad.Macros = templateMacros(420, 28, 25, 20)
	salad.Labels = []string{"template"}
	salad.Source = sourceMenu

	return []*meal.Meal{grilled, salad}
}

func templateMacros(calories, protein, carbs, fats float64) meal.Macros {
	return meal.Macros{
		Calories: &calories,
		Protein:  &protein,
		Carbs:    &carbs,
		Fats:     &fats,
	}
}

func mainDish(prompt string) string {
	prompt = strings.ToLower(prompt)
	dishes := []struct {
		keyword string
		dish    string
	}{
		{"pasta", "Pasta"},
		{"chicken", "Chicken Bowl"},
		{"beef", "Beef Plate"},
		{"fish", "Fish Plate"},
		{"salad", "Salad"},
		{"soup", "Soup"},
		{"curry", "Curry"},
		{"pizza", "Flatbread"},
		{"burger", "Burger"},
		{"taco", "Tacos"},
	}

	for _, d := range dishes {
		if strings.Contains(prompt, d.keyword) {
			return d.dish
		}
	}
	return "Bowl"
}

func baseIngredients(prompt string) []meal.Ingredient {
	ingredients := []meal.Ingredient{
		{Name: "olive oil", Amount: "2 tbsp"},
		{Name: "salt", Amount: "1 tsp"},
		{Name: "black pepper", Amount: "1/2 tsp"},
	}

	prompt = strings.ToLower(prompt)
	if strings.Contains(prompt, "chicken") {
		ingredients = append(ingredients, meal.Ingredient{Name: "chicken breast", Amount: "1 lb"})
	}
	if strings.Contains(prompt, "pasta") {
		ingredients = append(ingredients, meal.Ingredient{Name: "pasta", Amount: "8 oz"})
	}
	if strings.Contains(prompt, "tomato") {
		ingredients = append(ingredients, meal.Ingredient{Name: "diced tomatoes", Amount: "1 can"})
	}

	if len(ingredients) < 5 {
		ingredients = append(ingredients,
			meal.Ingredient{Name: "garlic", Amount: "3 cloves"},
			meal.Ingredient{Name: "fresh herbs", Amount: "2 tbsp"},
		)
	}

	return ingredients
}

func baseInstructions() []string {
	return []string{
		"Heat olive oil in a large pan over medium heat.",
		"Add the main ingredients and cook through.",
		"Season with salt and pepper to taste.",
		"Plate and serve warm.",
	}
}
