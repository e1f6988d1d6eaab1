package service

import (
	"context"
	"fmt"

	"github.com/jpalmer/traveldex/backend/internal/domain"
	"github.com/jpalmer/traveldex/backend/internal/repo"
)

// CategoryService exposes the stop category reference data.
type CategoryService struct {
	categories repo.CategoryRepo
}

// NewCategoryService constructs a CategoryService backed by the provided repo.
func NewCategoryService(categories repo.CategoryRepo) *CategoryService {
	return &CategoryService{categories: categories}
}

// List returns all stop categories in display order.
func (s *CategoryService) List(ctx context.Context) ([]domain.StopCategory, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CategoryService.List: %w", err)
	}
	if categories == nil {
		return []domain.StopCategory{}, nil
	}
	return categories, nil
}
