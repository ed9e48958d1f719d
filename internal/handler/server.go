// Package handler implements the HTTP API of the trip planner.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, node.go, etc.) but share the same Server struct
// so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/mapprovider"
	"github.com/pkordes/trip-planner/internal/store"
)

// TripServicer defines the trip operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the store or service layer.
type TripServicer interface {
	State(ctx context.Context) store.State
	List(ctx context.Context) []domain.Trip
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetCurrent(ctx context.Context, id *uuid.UUID) *domain.Trip
	Current(ctx context.Context) (domain.Trip, error)
	Days(ctx context.Context, id uuid.UUID) ([]domain.DayPlan, error)
}

// NodeServicer defines the node operations on the current trip.
type NodeServicer interface {
	Add(ctx context.Context, node domain.Node) (domain.Node, error)
	Update(ctx context.Context, node domain.Node) (domain.Node, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, nodes []domain.Node) ([]domain.Node, error)
	ReorderDay(ctx context.Context, day int, orderedIDs []uuid.UUID) ([]domain.Node, error)
	SetRoutes(ctx context.Context, routes []domain.RouteSegment) ([]domain.RouteSegment, error)
}

// ExportServicer flattens all trips into export rows.
type ExportServicer interface {
	Export(ctx context.Context) []domain.ExportRow
}

// MapServicer is the map provider as seen by the handlers: a geocoder that
// can also hand out static-map canvases.
type MapServicer interface {
	mapprovider.Geocoder
	Available() bool
	NewCanvas() *mapprovider.StaticCanvas
}

// Server holds the dependencies of every handler.
// Wire it in main.go and mount Routes() on the root router.
type Server struct {
	trips  TripServicer
	nodes  NodeServicer
	export ExportServicer
	maps   MapServicer
}

// NewServer constructs the Server with all its dependencies. Any of them may
// be nil in tests that only exercise other endpoints.
func NewServer(trips TripServicer, nodes NodeServicer, export ExportServicer, maps MapServicer) *Server {
	return &Server{trips: trips, nodes: nodes, export: export, maps: maps}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil)
}

// Routes returns the API router. Cross-cutting middleware (request ids,
// logging, CORS, body limits) is applied by the caller.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/state", s.GetState)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)
		r.Route("/{tripId}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)
			r.Get("/days", s.GetTripDays)
			r.Get("/map", s.GetTripMap)
		})
	})

	r.Route("/current-trip", func(r chi.Router) {
		r.Get("/", s.GetCurrentTrip)
		r.Put("/", s.SetCurrentTrip)
		r.Post("/nodes", s.AddNode)
		r.Put("/nodes", s.ReorderNodes)
		r.Put("/nodes/{nodeId}", s.UpdateNode)
		r.Delete("/nodes/{nodeId}", s.DeleteNode)
		r.Put("/days/{day}/order", s.ReorderDay)
		r.Put("/routes", s.SetRoutes)
	})

	r.Get("/node-types", s.ListNodeTypes)
	r.Get("/export", s.ExportData)

	r.Get("/places", s.SearchPlaces)
	r.Get("/places/reverse", s.ReverseGeocode)
	r.Post("/map/click", s.MapClick)

	return r
}
