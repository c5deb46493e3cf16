package service

import (
	"context"

	"github.com/spec-kit/recipe-service/internal/domain"
	"github.com/spec-kit/recipe-service/internal/repository"
)

// RecipeService exposes batch recipe operations.
type RecipeService struct {
	recipes repository.RecipeRepository
}

// NewRecipeService builds the service.
func NewRecipeService(recipes repository.RecipeRepository) *RecipeService {
	return &RecipeService{recipes: recipes}
}

// SaveAll persists the given recipes, creating or updating as needed.
func (s *RecipeService) SaveAll(ctx context.Context, recipes []*domain.Recipe) ([]*domain.Recipe, error) {
	if err := s.recipes.SaveAll(ctx, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// GetAll returns every stored recipe with its ingredients.
func (s *RecipeService) GetAll(ctx context.Context) ([]*domain.Recipe, error) {
	return s.recipes.GetAll(ctx)
}

// ReplaceAll deletes the existing recipe set and stores the given one.
func (s *RecipeService) ReplaceAll(ctx context.Context, recipes []*domain.Recipe) ([]*domain.Recipe, error) {
	if err := s.recipes.ReplaceAll(ctx, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}
