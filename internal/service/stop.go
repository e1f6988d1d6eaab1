package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jpalmer/traveldex/backend/internal/domain"
	"github.com/jpalmer/traveldex/backend/internal/repo"
)

// StopService implements business logic for Stop operations.
type StopService struct {
	stops repo.StopRepo
}

// NewStopService constructs a StopService backed by the provided StopRepo.
func NewStopService(stops repo.StopRepo) *StopService {
	return &StopService{stops: stops}
}

// Create validates and persists a new stop.
func (s *StopService) Create(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	if err := validateStop(stop); err != nil {
		return domain.Stop{}, err
	}
	result, err := s.stops.Create(ctx, stop)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single stop by ID.
func (s *StopService) GetByID(ctx context.Context, id uuid.UUID) (domain.Stop, error) {
	result, err := s.stops.GetByID(ctx, id)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.GetByID: %w", err)
	}
	return result, nil
}

// ListByTripID returns all stops for a trip in date order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *StopService) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error) {
	stops, err := s.stops.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.StopService.ListByTripID: %w", err)
	}
	if stops == nil {
		return []domain.Stop{}, nil
	}
	return stops, nil
}

// Update validates and persists changes to an existing stop.
func (s *StopService) Update(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	if err := validateStop(stop); err != nil {
		return domain.Stop{}, err
	}
	result, err := s.stops.Update(ctx, stop)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a stop by ID.
func (s *StopService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.stops.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.StopService.Delete: %w", err)
	}
	return nil
}

// validateStop enforces business rules common to Create and Update.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - A stop is attached to a leg or a node, never neither.
//   - EndDate, if set alongside StartDate, must not precede it.
func validateStop(stop domain.Stop) error {
	if strings.TrimSpace(stop.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if stop.LegID == nil && stop.NodeID == nil {
		return fmt.Errorf("%w: stop must reference a leg or a node", domain.ErrValidation)
	}
	if stop.StartDate != nil && stop.EndDate != nil && stop.EndDate.Before(*stop.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	return nil
}
