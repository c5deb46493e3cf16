package service

import (
	"context"

	"github.com/spec-kit/recipe-service/internal/domain"
	"github.com/spec-kit/recipe-service/internal/repository"
	apperrors "github.com/spec-kit/recipe-service/pkg/util"
)

// FavoriteService manages per-user favorite recipes.
type FavoriteService struct {
	favorites repository.FavoriteRepository
	recipes   repository.RecipeRepository
}

// NewFavoriteService builds the service.
func NewFavoriteService(favorites repository.FavoriteRepository, recipes repository.RecipeRepository) *FavoriteService {
	return &FavoriteService{favorites: favorites, recipes: recipes}
}

// ListRecipes returns the recipes the user has marked as favorite.
func (s *FavoriteService) ListRecipes(ctx context.Context, userID string) ([]*domain.Recipe, error) {
	favorites, err := s.favorites.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	recipes := make([]*domain.Recipe, 0, len(favorites))
	for _, fav := range favorites {
		recipe, err := s.recipes.GetByID(ctx, fav.RecipeID)
		if err != nil {
			if repository.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// Add marks a recipe as favorite. Returns false without error when it was
// already a favorite.
func (s *FavoriteService) Add(ctx context.Context, userID, recipeID string) (bool, error) {
	if _, err := s.recipes.GetByID(ctx, recipeID); err != nil {
		if repository.IsNotFound(err) {
			return false, apperrors.NewNotFound("recipe", map[string]any{"recipe_id": recipeID})
		}
		return false, err
	}

	if _, err := s.favorites.Find(ctx, userID, recipeID); err == nil {
		return false, nil
	} else if !repository.IsNotFound(err) {
		return false, err
	}

	favorite := &domain.FavoriteRecipe{UserID: userID, RecipeID: recipeID}
	if err := s.favorites.Create(ctx, favorite); err != nil {
		return false, err
	}
	return true, nil
}

// IsFavorite reports whether the user has marked the recipe as favorite.
func (s *FavoriteService) IsFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	if _, err := s.recipes.GetByID(ctx, recipeID); err != nil {
		if repository.IsNotFound(err) {
			return false, apperrors.NewNotFound("recipe", map[string]any{"recipe_id": recipeID})
		}
		return false, err
	}

	if _, err := s.favorites.Find(ctx, userID, recipeID); err != nil {
		if repository.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Remove unmarks a favorite recipe. Returns false without error when the
// recipe was not a favorite.
func (s *FavoriteService) Remove(ctx context.Context, userID, recipeID string) (bool, error) {
	if _, err := s.recipes.GetByID(ctx, recipeID); err != nil {
		if repository.IsNotFound(err) {
			return false, apperrors.NewNotFound("recipe", map[string]any{"recipe_id": recipeID})
		}
		return false, err
	}

	favorite, err := s.favorites.Find(ctx, userID, recipeID)
	if err != nil {
		if repository.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	if err := s.favorites.Delete(ctx, favorite.ID); err != nil {
		return false, err
	}
	return true, nil
}
