package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jpalmer/traveldex/backend/internal/domain"
	"github.com/jpalmer/traveldex/backend/internal/repo"
)

// AdventureService implements business logic for Adventure operations.
type AdventureService struct {
	adventures repo.AdventureRepo
}

// NewAdventureService constructs an AdventureService backed by the provided repo.
func NewAdventureService(adventures repo.AdventureRepo) *AdventureService {
	return &AdventureService{adventures: adventures}
}

// Create validates and persists a new adventure.
func (s *AdventureService) Create(ctx context.Context, adv domain.Adventure) (domain.Adventure, error) {
	if err := validateAdventure(adv); err != nil {
		return domain.Adventure{}, err
	}
	result, err := s.adventures.Create(ctx, adv)
	if err != nil {
		return domain.Adventure{}, fmt.Errorf("service.AdventureService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single adventure by ID.
func (s *AdventureService) GetByID(ctx context.Context, id uuid.UUID) (domain.Adventure, error) {
	result, err := s.adventures.GetByID(ctx, id)
	if err != nil {
		return domain.Adventure{}, fmt.Errorf("service.AdventureService.GetByID: %w", err)
	}
	return result, nil
}

// List returns all adventures, most recent first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *AdventureService) List(ctx context.Context) ([]domain.Adventure, error) {
	advs, err := s.adventures.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.AdventureService.List: %w", err)
	}
	if advs == nil {
		return []domain.Adventure{}, nil
	}
	return advs, nil
}

// Update validates and persists changes to an existing adventure.
func (s *AdventureService) Update(ctx context.Context, adv domain.Adventure) (domain.Adventure, error) {
	if err := validateAdventure(adv); err != nil {
		return domain.Adventure{}, err
	}
	result, err := s.adventures.Update(ctx, adv)
	if err != nil {
		return domain.Adventure{}, fmt.Errorf("service.AdventureService.Update: %w", err)
	}
	return result, nil
}

// Delete removes an adventure by ID.
func (s *AdventureService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.adventures.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.AdventureService.Delete: %w", err)
	}
	return nil
}

// validateAdventure enforces business rules common to Create and Update.
func validateAdventure(adv domain.Adventure) error {
	if strings.TrimSpace(adv.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if adv.StartDate != nil && adv.EndDate != nil && adv.EndDate.Before(*adv.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	return nil
}
