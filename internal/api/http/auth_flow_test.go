package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/recipe-service/internal/api/dto"
	"github.com/spec-kit/recipe-service/internal/api/http/handlers"
	"github.com/spec-kit/recipe-service/internal/auth"
	"github.com/spec-kit/recipe-service/internal/config"
	"github.com/spec-kit/recipe-service/internal/domain"
	"github.com/spec-kit/recipe-service/internal/events"
	"github.com/spec-kit/recipe-service/internal/observability"
	"github.com/spec-kit/recipe-service/internal/ratelimit"
	"github.com/spec-kit/recipe-service/internal/service"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Email]; exists {
		return &pgconn.PgError{Code: "23505"}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	r.users[user.Email] = user
	return nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[email]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

type memRecipeRepo struct {
	mu      sync.Mutex
	recipes map[string]*domain.Recipe
	order   []string
}

func newMemRecipeRepo() *memRecipeRepo {
	return &memRecipeRepo{recipes: map[string]*domain.Recipe{}}
}

func (r *memRecipeRepo) SaveAll(_ context.Context, recipes []*domain.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, recipe := range recipes {
		if recipe.ID == "" {
			recipe.ID = uuid.NewString()
		}
		if _, exists := r.recipes[recipe.ID]; !exists {
			r.order = append(r.order, recipe.ID)
		}
		r.recipes[recipe.ID] = recipe
	}
	return nil
}

func (r *memRecipeRepo) GetAll(_ context.Context) ([]*domain.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Recipe, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.recipes[id])
	}
	return out, nil
}

func (r *memRecipeRepo) GetByID(_ context.Context, id string) (*domain.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if recipe, ok := r.recipes[id]; ok {
		return recipe, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memRecipeRepo) ReplaceAll(ctx context.Context, recipes []*domain.Recipe) error {
	r.mu.Lock()
	r.recipes = map[string]*domain.Recipe{}
	r.order = nil
	r.mu.Unlock()
	return r.SaveAll(ctx, recipes)
}

type memFavoriteRepo struct {
	mu        sync.Mutex
	favorites map[string]*domain.FavoriteRecipe
}

func newMemFavoriteRepo() *memFavoriteRepo {
	return &memFavoriteRepo{favorites: map[string]*domain.FavoriteRecipe{}}
}

func (r *memFavoriteRepo) ListByUser(_ context.Context, userID string) ([]*domain.FavoriteRecipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.FavoriteRecipe, 0)
	for _, fav := range r.favorites {
		if fav.UserID == userID {
			out = append(out, fav)
		}
	}
	return out, nil
}

func (r *memFavoriteRepo) Find(_ context.Context, userID, recipeID string) (*domain.FavoriteRecipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, fav := range r.favorites {
		if fav.UserID == userID && fav.RecipeID == recipeID {
			return fav, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memFavoriteRepo) Create(_ context.Context, favorite *domain.FavoriteRecipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if favorite.ID == "" {
		favorite.ID = uuid.NewString()
	}
	r.favorites[favorite.ID] = favorite
	return nil
}

func (r *memFavoriteRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.favorites[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.favorites, id)
	return nil
}

func testAuthConfig() config.AuthConfig {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i + 1)
	}
	return config.AuthConfig{
		JWTSecret:              base64.StdEncoding.EncodeToString(key),
		AccessTokenTTLSeconds:  3600,
		RefreshTokenTTLSeconds: 86400,
		BcryptCost:             4,
	}
}

func newTestApp(t *testing.T) (*fiber.App, *service.AuthService) {
	t.Helper()

	logger := zap.NewNop()
	userRepo := &memUserRepo{users: map[string]*domain.User{}}
	recipeRepo := newMemRecipeRepo()
	favoriteRepo := newMemFavoriteRepo()

	authService, err := service.NewAuthService(testAuthConfig(), service.AuthDependencies{
		UserRepo:   userRepo,
		Limiter:    ratelimit.NewLoginLimiter(nil, 0, 0, logger),
		Dispatcher: events.NewInMemoryDispatcher(),
	})
	require.NoError(t, err)

	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:         nil,
		Auth:           handlers.NewAuthHandler(authService),
		Recipes:        handlers.NewRecipesHandler(service.NewRecipeService(recipeRepo)),
		Favorites:      handlers.NewFavoritesHandler(service.NewFavoriteService(favoriteRepo, recipeRepo)),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), userRepo),
	})
	return app, authService
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) (*http.Response, []byte) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	return envelope.Error.Code
}

func TestSignupLoginRefreshFlow(t *testing.T) {
	app, authService := newTestApp(t)

	resp, raw := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", dto.AuthRequest{
		Email: "a@x.com", Password: "pw", ReturnSecureToken: true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var signup dto.AuthResponse
	require.NoError(t, json.Unmarshal(raw, &signup))
	assert.Equal(t, dto.VerifyPasswordKind, signup.Kind)
	assert.Equal(t, "a@x.com", signup.Email)
	assert.NotEmpty(t, signup.LocalID)
	assert.NotEmpty(t, signup.IDToken)
	assert.NotEmpty(t, signup.RefreshToken)
	assert.True(t, signup.Registered)
	assert.Equal(t, 3600, signup.ExpiresIn)

	resp, raw = doJSON(t, app, http.MethodPost, "/api/auth/login", "", dto.AuthRequest{
		Email: "a@x.com", Password: "pw",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var login dto.AuthResponse
	require.NoError(t, json.Unmarshal(raw, &login))
	assert.Equal(t, "a@x.com", authService.TokenManager().ExtractSubject(login.IDToken))

	resp, raw = doJSON(t, app, http.MethodPost, "/api/auth/refresh-token", "", dto.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var refreshed dto.AuthResponse
	require.NoError(t, json.Unmarshal(raw, &refreshed))
	assert.Equal(t, login.RefreshToken, refreshed.RefreshToken)
	assert.NotEmpty(t, refreshed.IDToken)
	assert.Equal(t, "a@x.com", authService.TokenManager().ExtractSubject(refreshed.IDToken))
}

func TestLoginFailuresAreDistinguishable(t *testing.T) {
	app, _ := newTestApp(t)

	resp, raw := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", dto.AuthRequest{
		Email: "a@x.com", Password: "pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = doJSON(t, app, http.MethodPost, "/api/auth/login", "", dto.AuthRequest{
		Email: "a@x.com", Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, raw))

	resp, raw = doJSON(t, app, http.MethodPost, "/api/auth/login", "", dto.AuthRequest{
		Email: "nobody@x.com", Password: "pw",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "IDENTITY_NOT_FOUND", errorCode(t, raw))
}

func TestDuplicateSignupConflicts(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", dto.AuthRequest{
		Email: "a@x.com", Password: "pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", dto.AuthRequest{
		Email: "a@x.com", Password: "pw",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_IDENTITY", errorCode(t, raw))
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	app, _ := newTestApp(t)

	_, raw := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", dto.AuthRequest{
		Email: "a@x.com", Password: "pw",
	})
	var signup dto.AuthResponse
	require.NoError(t, json.Unmarshal(raw, &signup))

	resp, raw := doJSON(t, app, http.MethodPost, "/api/auth/refresh-token", "", dto.RefreshTokenRequest{
		RefreshToken: signup.IDToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_REFRESH_TOKEN", errorCode(t, raw))
}

func TestProtectedRoutesRequireAuthentication(t *testing.T) {
	app, _ := newTestApp(t)

	resp, raw := doJSON(t, app, http.MethodGet, "/api/batch/recipes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, raw))

	_, raw = doJSON(t, app, http.MethodPost, "/api/auth/signup", "", dto.AuthRequest{
		Email: "a@x.com", Password: "pw",
	})
	var signup dto.AuthResponse
	require.NoError(t, json.Unmarshal(raw, &signup))

	resp, raw = doJSON(t, app, http.MethodGet, "/api/batch/recipes", signup.IDToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var recipes []dto.RecipePayload
	require.NoError(t, json.Unmarshal(raw, &recipes))
	assert.Empty(t, recipes)
}

func TestRecipeAndFavoriteFlow(t *testing.T) {
	app, _ := newTestApp(t)

	_, raw := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", dto.AuthRequest{
		Email: "a@x.com", Password: "pw",
	})
	var signup dto.AuthResponse
	require.NoError(t, json.Unmarshal(raw, &signup))
	token := signup.IDToken

	resp, raw := doJSON(t, app, http.MethodPost, "/api/batch/recipes", token, []dto.RecipePayload{
		{Name: "Pancakes", Category: "BREAKFAST", Ingredients: []dto.IngredientPayload{
			{Name: "Flour", Amount: 200, Unit: "g"},
		}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var saved []dto.RecipePayload
	require.NoError(t, json.Unmarshal(raw, &saved))
	require.Len(t, saved, 1)
	recipeID := saved[0].ID
	require.NotEmpty(t, recipeID)

	resp, raw = doJSON(t, app, http.MethodGet, "/api/favorites/"+recipeID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.JSONEq(t, `{"isFavorite": false}`, string(raw))

	resp, raw = doJSON(t, app, http.MethodPost, "/api/favorites/"+recipeID, token, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	// Adding again is idempotent.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/favorites/"+recipeID, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = doJSON(t, app, http.MethodGet, "/api/favorites/"+recipeID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.JSONEq(t, `{"isFavorite": true}`, string(raw))

	resp, raw = doJSON(t, app, http.MethodGet, "/api/favorites", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var favorites []dto.RecipePayload
	require.NoError(t, json.Unmarshal(raw, &favorites))
	require.Len(t, favorites, 1)
	assert.Equal(t, "Pancakes", favorites[0].Name)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/favorites/"+recipeID, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, raw = doJSON(t, app, http.MethodGet, "/api/favorites", token, nil)
	favorites = nil
	require.NoError(t, json.Unmarshal(raw, &favorites))
	assert.Empty(t, favorites)
}

func TestFavoritesUnknownRecipeIs404(t *testing.T) {
	app, _ := newTestApp(t)

	_, raw := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", dto.AuthRequest{
		Email: "a@x.com", Password: "pw",
	})
	var signup dto.AuthResponse
	require.NoError(t, json.Unmarshal(raw, &signup))

	resp, raw := doJSON(t, app, http.MethodPost, "/api/favorites/"+uuid.NewString(), signup.IDToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))

	resp, raw = doJSON(t, app, http.MethodGet, "/api/favorites/"+uuid.NewString(), signup.IDToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))
}

type ctxRecordingUserRepo struct {
	*memUserRepo
	captured context.Context
}

func (r *ctxRecordingUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.captured = ctx
	return r.memUserRepo.GetByEmail(ctx, email)
}

// The request timeout middleware sets the deadline on the fiber user context;
// handlers must hand that context to the services for it to bind to any I/O.
func TestRequestTimeoutReachesServiceContext(t *testing.T) {
	logger := zap.NewNop()
	repo := &ctxRecordingUserRepo{memUserRepo: &memUserRepo{users: map[string]*domain.User{}}}

	authService, err := service.NewAuthService(testAuthConfig(), service.AuthDependencies{
		UserRepo:   repo,
		Limiter:    ratelimit.NewLoginLimiter(nil, 0, 0, logger),
		Dispatcher: events.NewInMemoryDispatcher(),
	})
	require.NoError(t, err)

	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), time.Second)
	RegisterRoutes(app, RouteConfig{
		Auth:           handlers.NewAuthHandler(authService),
		Recipes:        handlers.NewRecipesHandler(service.NewRecipeService(newMemRecipeRepo())),
		Favorites:      handlers.NewFavoritesHandler(service.NewFavoriteService(newMemFavoriteRepo(), newMemRecipeRepo())),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), repo),
	})

	resp, raw := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", dto.AuthRequest{
		Email: "a@x.com", Password: "pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	require.NotNil(t, repo.captured)
	_, hasDeadline := repo.captured.Deadline()
	assert.True(t, hasDeadline)
}

func TestSignupRejectsMissingFields(t *testing.T) {
	app, _ := newTestApp(t)

	resp, raw := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", dto.AuthRequest{
		Email: "a@x.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, raw))
}

func TestReplaceAllSwapsRecipeSet(t *testing.T) {
	app, _ := newTestApp(t)

	_, raw := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", dto.AuthRequest{
		Email: "a@x.com", Password: "pw",
	})
	var signup dto.AuthResponse
	require.NoError(t, json.Unmarshal(raw, &signup))
	token := signup.IDToken

	resp, _ := doJSON(t, app, http.MethodPost, "/api/batch/recipes", token, []dto.RecipePayload{
		{Name: "Old", Ingredients: []dto.IngredientPayload{}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw = doJSON(t, app, http.MethodPut, "/api/recipes/replace-all", token, []dto.RecipePayload{
		{Name: "New", Ingredients: []dto.IngredientPayload{}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	_, raw = doJSON(t, app, http.MethodGet, "/api/batch/recipes", token, nil)
	var recipes []dto.RecipePayload
	require.NoError(t, json.Unmarshal(raw, &recipes))
	require.Len(t, recipes, 1)
	assert.Equal(t, "New", recipes[0].Name)
}
