package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jpalmer/traveldex/backend/internal/domain"
	"github.com/jpalmer/traveldex/backend/internal/repo"
)

// NodeService implements business logic for Node operations.
// It holds the trip repo as well because creating a node under a trip
// requires verifying the parent exists.
type NodeService struct {
	trips repo.TripRepo
	nodes repo.NodeRepo
}

// NewNodeService constructs a NodeService backed by the provided repos.
func NewNodeService(trips repo.TripRepo, nodes repo.NodeRepo) *NodeService {
	return &NodeService{trips: trips, nodes: nodes}
}

// Create validates the node, verifies the parent trip when one is given,
// then persists.
func (s *NodeService) Create(ctx context.Context, node domain.Node) (domain.Node, error) {
	if err := validateNode(node); err != nil {
		return domain.Node{}, err
	}
	if node.TripID != nil {
		if _, err := s.trips.GetByID(ctx, *node.TripID); err != nil {
			return domain.Node{}, fmt.Errorf("service.NodeService.Create: %w", err)
		}
	}
	result, err := s.nodes.Create(ctx, node)
	if err != nil {
		return domain.Node{}, fmt.Errorf("service.NodeService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single node by ID.
func (s *NodeService) GetByID(ctx context.Context, id uuid.UUID) (domain.Node, error) {
	result, err := s.nodes.GetByID(ctx, id)
	if err != nil {
		return domain.Node{}, fmt.Errorf("service.NodeService.GetByID: %w", err)
	}
	return result, nil
}

// ListByTripID returns all nodes for a trip in visit order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *NodeService) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Node, error) {
	nodes, err := s.nodes.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.NodeService.ListByTripID: %w", err)
	}
	if nodes == nil {
		return []domain.Node{}, nil
	}
	return nodes, nil
}

// Update validates and persists changes to an existing node.
func (s *NodeService) Update(ctx context.Context, node domain.Node) (domain.Node, error) {
	if err := validateNode(node); err != nil {
		return domain.Node{}, err
	}
	result, err := s.nodes.Update(ctx, node)
	if err != nil {
		return domain.Node{}, fmt.Errorf("service.NodeService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a node by ID.
func (s *NodeService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.nodes.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.NodeService.Delete: %w", err)
	}
	return nil
}

// validateNode enforces business rules common to Create and Update.
func validateNode(node domain.Node) error {
	if strings.TrimSpace(node.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if node.ArrivalDate != nil && node.DepartureDate != nil && node.DepartureDate.Before(*node.ArrivalDate) {
		return fmt.Errorf("%w: departure_date must not be before arrival_date", domain.ErrValidation)
	}
	return nil
}
