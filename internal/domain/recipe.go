package domain

import "time"

// MealCategory buckets recipes for filtering.
type MealCategory string

const (
	MealCategoryBreakfast MealCategory = "BREAKFAST"
	MealCategoryLunch     MealCategory = "LUNCH"
	MealCategoryDinner    MealCategory = "DINNER"
	MealCategoryDessert   MealCategory = "DESSERT"
	MealCategoryOther     MealCategory = "OTHER"
)

// Ingredient is a line item belonging to a recipe.
type Ingredient struct {
	ID     string
	Name   string
	Amount float64
	Unit   string
}

// Recipe is the domain model for stored recipes.
type Recipe struct {
	ID          string
	Name        string
	Description string
	ImagePath   string
	Category    MealCategory
	Ingredients []Ingredient
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FavoriteRecipe links a user to a recipe they marked as favorite.
type FavoriteRecipe struct {
	ID        string
	UserID    string
	RecipeID  string
	CreatedAt time.Time
}
