package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/recipe-service/internal/api/dto"
	"github.com/spec-kit/recipe-service/internal/service"
	apperrors "github.com/spec-kit/recipe-service/pkg/util"
)

// RecipesHandler exposes batch recipe endpoints.
type RecipesHandler struct {
	recipes *service.RecipeService
}

// NewRecipesHandler constructs the handler.
func NewRecipesHandler(recipeService *service.RecipeService) *RecipesHandler {
	return &RecipesHandler{recipes: recipeService}
}

// SaveBatch handles POST /api/batch/recipes.
func (h *RecipesHandler) SaveBatch(c *fiber.Ctx) error {
	var payloads []dto.RecipePayload
	if err := c.BodyParser(&payloads); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	saved, err := h.recipes.SaveAll(c.UserContext(), dto.ToDomainRecipes(payloads))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FromRecipes(saved))
}

// UpdateBatch handles PUT /api/batch/recipes.
func (h *RecipesHandler) UpdateBatch(c *fiber.Ctx) error {
	return h.SaveBatch(c)
}

// GetBatch handles GET /api/batch/recipes.
func (h *RecipesHandler) GetBatch(c *fiber.Ctx) error {
	recipes, err := h.recipes.GetAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.FromRecipes(recipes))
}

// ReplaceAll handles PUT /api/recipes/replace-all.
func (h *RecipesHandler) ReplaceAll(c *fiber.Ctx) error {
	var payloads []dto.RecipePayload
	if err := c.BodyParser(&payloads); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	saved, err := h.recipes.ReplaceAll(c.UserContext(), dto.ToDomainRecipes(payloads))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromRecipes(saved))
}
