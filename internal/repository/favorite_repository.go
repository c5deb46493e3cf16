package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/recipe-service/internal/domain"
)

// FavoriteRepository defines persistence access for per-user favorite recipes.
type FavoriteRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*domain.FavoriteRecipe, error)
	Find(ctx context.Context, userID, recipeID string) (*domain.FavoriteRecipe, error)
	Create(ctx context.Context, favorite *domain.FavoriteRecipe) error
	Delete(ctx context.Context, id string) error
}

type favoriteRepository struct {
	pool *pgxpool.Pool
}

// NewFavoriteRepository returns a Postgres-backed implementation.
func NewFavoriteRepository(pool *pgxpool.Pool) FavoriteRepository {
	return &favoriteRepository{pool: pool}
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID string) ([]*domain.FavoriteRecipe, error) {
	const query = `
        SELECT id, user_id, recipe_id, created_at
        FROM favorite_recipes WHERE user_id=$1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favorites := make([]*domain.FavoriteRecipe, 0)
	for rows.Next() {
		var fav domain.FavoriteRecipe
		if err := rows.Scan(&fav.ID, &fav.UserID, &fav.RecipeID, &fav.CreatedAt); err != nil {
			return nil, err
		}
		favorites = append(favorites, &fav)
	}
	return favorites, rows.Err()
}

func (r *favoriteRepository) Find(ctx context.Context, userID, recipeID string) (*domain.FavoriteRecipe, error) {
	const query = `
        SELECT id, user_id, recipe_id, created_at
        FROM favorite_recipes WHERE user_id=$1 AND recipe_id=$2`

	var fav domain.FavoriteRecipe
	if err := r.pool.QueryRow(ctx, query, userID, recipeID).Scan(
		&fav.ID,
		&fav.UserID,
		&fav.RecipeID,
		&fav.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &fav, nil
}

func (r *favoriteRepository) Create(ctx context.Context, favorite *domain.FavoriteRecipe) error {
	if favorite.ID == "" {
		favorite.ID = uuid.NewString()
	}

	const query = `
        INSERT INTO favorite_recipes (id, user_id, recipe_id)
        VALUES ($1, $2, $3)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		favorite.ID,
		favorite.UserID,
		favorite.RecipeID,
	).Scan(&favorite.CreatedAt)
}

func (r *favoriteRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM favorite_recipes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// IsNotFound reports whether an error is the repository's not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
