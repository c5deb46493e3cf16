package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/recipe-service/internal/api/dto"
	"github.com/spec-kit/recipe-service/internal/auth"
	"github.com/spec-kit/recipe-service/internal/service"
)

// FavoritesHandler exposes per-user favorite recipe endpoints.
type FavoritesHandler struct {
	favorites *service.FavoriteService
}

// NewFavoritesHandler constructs the handler.
func NewFavoritesHandler(favoriteService *service.FavoriteService) *FavoritesHandler {
	return &FavoritesHandler{favorites: favoriteService}
}

// List handles GET /api/favorites.
func (h *FavoritesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "user not authenticated")
	}

	recipes, err := h.favorites.ListRecipes(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromRecipes(recipes))
}

// IsFavorite handles GET /api/favorites/:recipeId.
func (h *FavoritesHandler) IsFavorite(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "user not authenticated")
	}

	isFavorite, err := h.favorites.IsFavorite(c.UserContext(), principal.User.ID, c.Params("recipeId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"isFavorite": isFavorite})
}

// Add handles POST /api/favorites/:recipeId.
func (h *FavoritesHandler) Add(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "user not authenticated")
	}

	added, err := h.favorites.Add(c.UserContext(), principal.User.ID, c.Params("recipeId"))
	if err != nil {
		return err
	}
	if !added {
		return c.JSON(fiber.Map{"message": "Recipe already in favorites"})
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "Recipe added to favorites"})
}

// Remove handles DELETE /api/favorites/:recipeId.
func (h *FavoritesHandler) Remove(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "user not authenticated")
	}

	removed, err := h.favorites.Remove(c.UserContext(), principal.User.ID, c.Params("recipeId"))
	if err != nil {
		return err
	}
	if !removed {
		return c.JSON(fiber.Map{"message": "Recipe not in favorites"})
	}
	return c.JSON(fiber.Map{"message": "Recipe removed from favorites"})
}
