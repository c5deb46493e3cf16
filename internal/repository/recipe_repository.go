package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/recipe-service/internal/domain"
)

// RecipeRepository defines persistence access for recipes.
type RecipeRepository interface {
	SaveAll(ctx context.Context, recipes []*domain.Recipe) error
	GetAll(ctx context.Context) ([]*domain.Recipe, error)
	GetByID(ctx context.Context, id string) (*domain.Recipe, error)
	ReplaceAll(ctx context.Context, recipes []*domain.Recipe) error
}

type recipeRepository struct {
	pool *pgxpool.Pool
}

// NewRecipeRepository returns a Postgres-backed implementation.
func NewRecipeRepository(pool *pgxpool.Pool) RecipeRepository {
	return &recipeRepository{pool: pool}
}

func (r *recipeRepository) SaveAll(ctx context.Context, recipes []*domain.Recipe) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := saveRecipes(ctx, tx, recipes); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *recipeRepository) ReplaceAll(ctx context.Context, recipes []*domain.Recipe) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM recipes`); err != nil {
		return err
	}
	if err := saveRecipes(ctx, tx, recipes); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func saveRecipes(ctx context.Context, tx pgx.Tx, recipes []*domain.Recipe) error {
	const recipeQuery = `
        INSERT INTO recipes (id, name, description, image_path, category)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE
        SET name=EXCLUDED.name, description=EXCLUDED.description,
            image_path=EXCLUDED.image_path, category=EXCLUDED.category,
            updated_at=NOW()
        RETURNING created_at, updated_at`

	const ingredientQuery = `
        INSERT INTO ingredients (id, recipe_id, name, amount, unit)
        VALUES ($1, $2, $3, $4, $5)`

	for _, recipe := range recipes {
		if recipe.ID == "" {
			recipe.ID = uuid.NewString()
		}
		if recipe.Category == "" {
			recipe.Category = domain.MealCategoryOther
		}
		if err := tx.QueryRow(ctx, recipeQuery,
			recipe.ID,
			recipe.Name,
			recipe.Description,
			recipe.ImagePath,
			recipe.Category,
		).Scan(&recipe.CreatedAt, &recipe.UpdatedAt); err != nil {
			return err
		}

		// Ingredients are owned by the recipe; rewrite them wholesale.
		if _, err := tx.Exec(ctx, `DELETE FROM ingredients WHERE recipe_id=$1`, recipe.ID); err != nil {
			return err
		}
		for i := range recipe.Ingredients {
			ing := &recipe.Ingredients[i]
			if ing.ID == "" {
				ing.ID = uuid.NewString()
			}
			if _, err := tx.Exec(ctx, ingredientQuery,
				ing.ID,
				recipe.ID,
				ing.Name,
				ing.Amount,
				ing.Unit,
			); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *recipeRepository) GetAll(ctx context.Context) ([]*domain.Recipe, error) {
	const query = `
        SELECT id, name, description, image_path, category, created_at, updated_at
        FROM recipes ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := make([]*domain.Recipe, 0)
	byID := make(map[string]*domain.Recipe)
	for rows.Next() {
		var recipe domain.Recipe
		if err := rows.Scan(
			&recipe.ID,
			&recipe.Name,
			&recipe.Description,
			&recipe.ImagePath,
			&recipe.Category,
			&recipe.CreatedAt,
			&recipe.UpdatedAt,
		); err != nil {
			return nil, err
		}
		recipe.Ingredients = []domain.Ingredient{}
		recipes = append(recipes, &recipe)
		byID[recipe.ID] = &recipe
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadIngredients(ctx, byID); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id string) (*domain.Recipe, error) {
	const query = `
        SELECT id, name, description, image_path, category, created_at, updated_at
        FROM recipes WHERE id=$1`

	var recipe domain.Recipe
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&recipe.ID,
		&recipe.Name,
		&recipe.Description,
		&recipe.ImagePath,
		&recipe.Category,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	); err != nil {
		return nil, err
	}
	recipe.Ingredients = []domain.Ingredient{}

	if err := r.loadIngredients(ctx, map[string]*domain.Recipe{recipe.ID: &recipe}); err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) loadIngredients(ctx context.Context, byID map[string]*domain.Recipe) error {
	if len(byID) == 0 {
		return nil
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	const query = `
        SELECT id, recipe_id, name, amount, unit
        FROM ingredients WHERE recipe_id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ing domain.Ingredient
		var recipeID string
		if err := rows.Scan(&ing.ID, &recipeID, &ing.Name, &ing.Amount, &ing.Unit); err != nil {
			return err
		}
		if recipe, ok := byID[recipeID]; ok {
			recipe.Ingredients = append(recipe.Ingredients, ing)
		}
	}
	return rows.Err()
}
