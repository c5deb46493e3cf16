package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/recipe-service/internal/api/http/handlers"
	"github.com/spec-kit/recipe-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Recipes        *handlers.RecipesHandler
	Favorites      *handlers.FavoritesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. The auth filter runs on the whole /api
// tree; it only resolves identity. RequireUser on the protected groups is
// what actually rejects unauthenticated access.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh-token", cfg.Auth.Refresh)

	recipes := api.Group("", auth.RequireUser())
	recipes.Get("/batch/recipes", cfg.Recipes.GetBatch)
	recipes.Post("/batch/recipes", cfg.Recipes.SaveBatch)
	recipes.Put("/batch/recipes", cfg.Recipes.UpdateBatch)
	recipes.Put("/recipes/replace-all", cfg.Recipes.ReplaceAll)

	favorites := api.Group("/favorites", auth.RequireUser())
	favorites.Get("", cfg.Favorites.List)
	favorites.Get("/:recipeId", cfg.Favorites.IsFavorite)
	favorites.Post("/:recipeId", cfg.Favorites.Add)
	favorites.Delete("/:recipeId", cfg.Favorites.Remove)
}
