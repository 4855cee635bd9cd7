package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/osse101/ashfall/internal/crafting"
)

// DBTX is the subset of pgxpool.Pool and pgx.Tx the repository uses
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// KnownRecipeRepository implements crafting.KnownRecipeRepository for PostgreSQL
type KnownRecipeRepository struct {
	db DBTX
}

var _ crafting.KnownRecipeRepository = (*KnownRecipeRepository)(nil)

// NewKnownRecipeRepository creates a new KnownRecipeRepository
func NewKnownRecipeRepository(db DBTX) *KnownRecipeRepository {
	return &KnownRecipeRepository{db: db}
}

const (
	listKnownRecipes = `SELECT recipe_id FROM known_recipes WHERE crafter_id = $1 ORDER BY recipe_id`
	isKnownRecipe    = `SELECT EXISTS (SELECT 1 FROM known_recipes WHERE crafter_id = $1 AND recipe_id = $2)`
	learnRecipe      = `INSERT INTO known_recipes (crafter_id, recipe_id, source) VALUES ($1, $2, $3)
		ON CONFLICT (crafter_id, recipe_id) DO NOTHING`
	forgetRecipe = `DELETE FROM known_recipes WHERE crafter_id = $1 AND recipe_id = $2`
)

// KnownRecipes lists the recipes a crafter knows, sorted by id
func (r *KnownRecipeRepository) KnownRecipes(ctx context.Context, crafterID string) ([]string, error) {
	rows, err := r.db.Query(ctx, listKnownRecipes, crafterID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListKnownRecipes, err)
	}
	recipes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListKnownRecipes, err)
	}
	return recipes, nil
}

// IsKnown reports whether the crafter knows recipe
func (r *KnownRecipeRepository) IsKnown(ctx context.Context, crafterID, recipe string) (bool, error) {
	var known bool
	if err := r.db.QueryRow(ctx, isKnownRecipe, crafterID, recipe).Scan(&known); err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToCheckKnownRecipe, err)
	}
	return known, nil
}

// LearnRecipe records recipe as known. It reports false when the crafter
// already knew it; the original source is kept.
func (r *KnownRecipeRepository) LearnRecipe(ctx context.Context, crafterID, recipe, source string) (bool, error) {
	tag, err := r.db.Exec(ctx, learnRecipe, crafterID, recipe, source)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToLearnRecipe, err)
	}
	return tag.RowsAffected() == 1, nil
}

// ForgetRecipe removes recipe from the crafter's known list
func (r *KnownRecipeRepository) ForgetRecipe(ctx context.Context, crafterID, recipe string) error {
	if _, err := r.db.Exec(ctx, forgetRecipe, crafterID, recipe); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToForgetRecipe, err)
	}
	return nil
}
