package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jpalmer/traveldex/backend/internal/domain"
	"github.com/jpalmer/traveldex/backend/internal/repo"
)

// LegService implements business logic for Leg operations, including the
// per-mode detail rows carried alongside a leg.
type LegService struct {
	legs repo.LegRepo
}

// NewLegService constructs a LegService backed by the provided LegRepo.
func NewLegService(legs repo.LegRepo) *LegService {
	return &LegService{legs: legs}
}

// Create validates and persists a new leg. When the leg carries a Flight or
// Car detail struct, the corresponding detail row is upserted as well.
func (s *LegService) Create(ctx context.Context, leg domain.Leg) (domain.Leg, error) {
	if err := validateLeg(leg); err != nil {
		return domain.Leg{}, err
	}
	created, err := s.legs.Create(ctx, leg)
	if err != nil {
		return domain.Leg{}, fmt.Errorf("service.LegService.Create: %w", err)
	}
	if err := s.saveDetails(ctx, created.ID, leg); err != nil {
		return domain.Leg{}, fmt.Errorf("service.LegService.Create: %w", err)
	}
	result, err := s.legs.GetByID(ctx, created.ID)
	if err != nil {
		return domain.Leg{}, fmt.Errorf("service.LegService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single leg with its detail rows.
func (s *LegService) GetByID(ctx context.Context, id uuid.UUID) (domain.Leg, error) {
	result, err := s.legs.GetByID(ctx, id)
	if err != nil {
		return domain.Leg{}, fmt.Errorf("service.LegService.GetByID: %w", err)
	}
	return result, nil
}

// ListByTripID returns all legs for a trip in date order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *LegService) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Leg, error) {
	legs, err := s.legs.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.LegService.ListByTripID: %w", err)
	}
	if legs == nil {
		return []domain.Leg{}, nil
	}
	return legs, nil
}

// Update validates and persists changes to an existing leg and its details.
func (s *LegService) Update(ctx context.Context, leg domain.Leg) (domain.Leg, error) {
	if err := validateLeg(leg); err != nil {
		return domain.Leg{}, err
	}
	if _, err := s.legs.Update(ctx, leg); err != nil {
		return domain.Leg{}, fmt.Errorf("service.LegService.Update: %w", err)
	}
	if err := s.saveDetails(ctx, leg.ID, leg); err != nil {
		return domain.Leg{}, fmt.Errorf("service.LegService.Update: %w", err)
	}
	result, err := s.legs.GetByID(ctx, leg.ID)
	if err != nil {
		return domain.Leg{}, fmt.Errorf("service.LegService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a leg by ID; detail rows cascade in the store.
func (s *LegService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.legs.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.LegService.Delete: %w", err)
	}
	return nil
}

func (s *LegService) saveDetails(ctx context.Context, id uuid.UUID, leg domain.Leg) error {
	if leg.Flight != nil {
		if err := s.legs.SetFlightDetail(ctx, id, *leg.Flight); err != nil {
			return err
		}
	}
	if leg.Car != nil {
		if err := s.legs.SetCarDetail(ctx, id, *leg.Car); err != nil {
			return err
		}
	}
	return nil
}

// validateLeg enforces business rules common to Create and Update.
func validateLeg(leg domain.Leg) error {
	if !leg.Type.Valid() {
		return fmt.Errorf("%w: invalid leg type %q", domain.ErrValidation, leg.Type)
	}
	if leg.Flight != nil && leg.Type != domain.LegFlight {
		return fmt.Errorf("%w: flight_detail only allowed on flight legs", domain.ErrValidation)
	}
	if leg.Car != nil && leg.Type != domain.LegCar {
		return fmt.Errorf("%w: car_detail only allowed on car legs", domain.ErrValidation)
	}
	return nil
}
