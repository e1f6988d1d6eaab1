package repo

import (
	"context"
	"fmt"

	"github.com/jpalmer/traveldex/backend/internal/domain"
)

// categoryOrDefault maps an unset category to the catch-all row so writes
// never violate the stop_categories foreign key.
func categoryOrDefault(c string) string {
	if c == "" {
		return "other"
	}
	return c
}

// CategoryRepo lists the stop/adventure categories.
type CategoryRepo interface {
	// List returns all categories ordered by name.
	List(ctx context.Context) ([]domain.StopCategory, error)
}

type pgCategoryRepo struct {
	db db
}

// NewCategoryRepo constructs a CategoryRepo backed by the provided db connection.
func NewCategoryRepo(db db) CategoryRepo {
	return &pgCategoryRepo{db: db}
}

func (r *pgCategoryRepo) List(ctx context.Context) ([]domain.StopCategory, error) {
	const q = `SELECT name, emoji FROM stop_categories ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.CategoryRepo.List: %w", err)
	}
	defer rows.Close()

	cats := []domain.StopCategory{}
	for rows.Next() {
		var c domain.StopCategory
		if err := rows.Scan(&c.Name, &c.Emoji); err != nil {
			return nil, fmt.Errorf("repo.CategoryRepo.List: scan: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CategoryRepo.List: rows: %w", err)
	}
	return cats, nil
}
