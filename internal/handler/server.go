// Package handler implements the HTTP handlers for the Traveldex API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jpalmer/traveldex/backend/internal/domain"
	"github.com/jpalmer/traveldex/backend/internal/service"
)

// TripServicer defines the business operations the trip handler depends on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context) ([]domain.Trip, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NodeServicer defines the business operations the node handler depends on.
type NodeServicer interface {
	Create(ctx context.Context, node domain.Node) (domain.Node, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Node, error)
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Node, error)
	Update(ctx context.Context, node domain.Node) (domain.Node, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LegServicer defines the business operations the leg handler depends on.
type LegServicer interface {
	Create(ctx context.Context, leg domain.Leg) (domain.Leg, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Leg, error)
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Leg, error)
	Update(ctx context.Context, leg domain.Leg) (domain.Leg, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// StopServicer defines the business operations the stop handler depends on.
type StopServicer interface {
	Create(ctx context.Context, stop domain.Stop) (domain.Stop, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Stop, error)
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error)
	Update(ctx context.Context, stop domain.Stop) (domain.Stop, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdventureServicer defines the business operations the adventure handler
// depends on.
type AdventureServicer interface {
	Create(ctx context.Context, adv domain.Adventure) (domain.Adventure, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Adventure, error)
	List(ctx context.Context) ([]domain.Adventure, error)
	Update(ctx context.Context, adv domain.Adventure) (domain.Adventure, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryServicer defines the business operations the category handler
// depends on.
type CategoryServicer interface {
	List(ctx context.Context) ([]domain.StopCategory, error)
}

// ListServicer defines the business operations the list handler depends on.
type ListServicer interface {
	Create(ctx context.Context, name string, matchType domain.MatchType, rawItems string) (domain.List, error)
	List(ctx context.Context) ([]domain.List, error)
	GetMatches(ctx context.Context, id uuid.UUID) (domain.ListMatches, error)
	Update(ctx context.Context, id uuid.UUID, upd service.ListUpdate) (domain.List, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddOverride(ctx context.Context, id uuid.UUID, item string) (domain.List, error)
	RemoveOverride(ctx context.Context, id uuid.UUID, item string) (domain.List, error)
}

// SearchServicer defines the business operations the search handler depends on.
type SearchServicer interface {
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
}

// Server holds the service dependencies for all API endpoints.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	trips      TripServicer
	nodes      NodeServicer
	legs       LegServicer
	stops      StopServicer
	adventures AdventureServicer
	categories CategoryServicer
	lists      ListServicer
	search     SearchServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(
	trips TripServicer,
	nodes NodeServicer,
	legs LegServicer,
	stops StopServicer,
	adventures AdventureServicer,
	categories CategoryServicer,
	lists ListServicer,
	search SearchServicer,
) *Server {
	return &Server{
		trips:      trips,
		nodes:      nodes,
		legs:       legs,
		stops:      stops,
		adventures: adventures,
		categories: categories,
		lists:      lists,
		search:     search,
	}
}

// Routes mounts every endpoint on a fresh chi router. Middleware is applied
// by the caller, around the returned router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.getHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/trips", func(r chi.Router) {
			r.Post("/", s.createTrip)
			r.Get("/", s.listTrips)
			r.Get("/{id}", s.getTrip)
			r.Put("/{id}", s.updateTrip)
			r.Delete("/{id}", s.deleteTrip)
		})

		r.Route("/nodes", func(r chi.Router) {
			r.Post("/", s.createNode)
			r.Get("/", s.listNodes)
			r.Get("/{id}", s.getNode)
			r.Put("/{id}", s.updateNode)
			r.Delete("/{id}", s.deleteNode)
		})

		r.Route("/legs", func(r chi.Router) {
			r.Post("/", s.createLeg)
			r.Get("/", s.listLegs)
			r.Get("/{id}", s.getLeg)
			r.Put("/{id}", s.updateLeg)
			r.Delete("/{id}", s.deleteLeg)
		})

		r.Route("/stops", func(r chi.Router) {
			r.Post("/", s.createStop)
			r.Get("/", s.listStops)
			r.Get("/{id}", s.getStop)
			r.Put("/{id}", s.updateStop)
			r.Delete("/{id}", s.deleteStop)
		})

		r.Route("/adventures", func(r chi.Router) {
			r.Post("/", s.createAdventure)
			r.Get("/", s.listAdventures)
			r.Get("/{id}", s.getAdventure)
			r.Put("/{id}", s.updateAdventure)
			r.Delete("/{id}", s.deleteAdventure)
		})

		r.Get("/categories", s.listCategories)

		r.Route("/lists", func(r chi.Router) {
			r.Post("/", s.createList)
			r.Get("/", s.listLists)
			r.Get("/{id}", s.getListMatches)
			r.Put("/{id}", s.updateList)
			r.Delete("/{id}", s.deleteList)
			r.Post("/{id}/overrides", s.addListOverride)
			r.Delete("/{id}/overrides", s.removeListOverride)
		})

		r.Get("/search", s.getSearch)
	})

	return r
}
