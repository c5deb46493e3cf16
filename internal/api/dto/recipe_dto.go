package dto

import "github.com/spec-kit/recipe-service/internal/domain"

// IngredientPayload is the wire shape for ingredients.
type IngredientPayload struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit,omitempty"`
}

// RecipePayload is the wire shape for recipes, used on both requests and
// responses of the batch endpoints.
type RecipePayload struct {
	ID          string              `json:"id,omitempty"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	ImagePath   string              `json:"imagePath,omitempty"`
	Category    string              `json:"category,omitempty"`
	Ingredients []IngredientPayload `json:"ingredients"`
}

// ToDomain converts the payload to a domain recipe.
func (p RecipePayload) ToDomain() *domain.Recipe {
	ingredients := make([]domain.Ingredient, 0, len(p.Ingredients))
	for _, ing := range p.Ingredients {
		ingredients = append(ingredients, domain.Ingredient{
			Name:   ing.Name,
			Amount: ing.Amount,
			Unit:   ing.Unit,
		})
	}
	return &domain.Recipe{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImagePath:   p.ImagePath,
		Category:    domain.MealCategory(p.Category),
		Ingredients: ingredients,
	}
}

// FromRecipe converts a domain recipe to the wire shape.
func FromRecipe(recipe *domain.Recipe) RecipePayload {
	ingredients := make([]IngredientPayload, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		ingredients = append(ingredients, IngredientPayload{
			Name:   ing.Name,
			Amount: ing.Amount,
			Unit:   ing.Unit,
		})
	}
	return RecipePayload{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Description: recipe.Description,
		ImagePath:   recipe.ImagePath,
		Category:    string(recipe.Category),
		Ingredients: ingredients,
	}
}

// FromRecipes maps a slice of domain recipes.
func FromRecipes(recipes []*domain.Recipe) []RecipePayload {
	payloads := make([]RecipePayload, 0, len(recipes))
	for _, recipe := range recipes {
		payloads = append(payloads, FromRecipe(recipe))
	}
	return payloads
}

// ToDomainRecipes maps a slice of payloads.
func ToDomainRecipes(payloads []RecipePayload) []*domain.Recipe {
	recipes := make([]*domain.Recipe, 0, len(payloads))
	for _, payload := range payloads {
		recipes = append(recipes, payload.ToDomain())
	}
	return recipes
}
