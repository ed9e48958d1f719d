package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/domain"
)

// TripRequest is the body of POST /trips and PUT /trips/{tripId}.
// Nodes, routes and timestamps are owned by the server and cannot be set here.
type TripRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	CoverImage  string             `json:"coverImage,omitempty"`
	StartDate   openapi_types.Date `json:"startDate"`
	Days        int                `json:"days"`
	TotalBudget *float64           `json:"totalBudget,omitempty"`
}

// TripList is the body of GET /trips.
type TripList struct {
	Data []domain.Trip `json:"data"`
}

// DayList is the body of GET /trips/{tripId}/days.
type DayList struct {
	Data []domain.DayPlan `json:"data"`
}

// CurrentTripRequest is the body of PUT /current-trip. A null or missing
// tripId clears the selection.
type CurrentTripRequest struct {
	TripID *uuid.UUID `json:"tripId"`
}

// CurrentTripResponse is the body of PUT /current-trip.
type CurrentTripResponse struct {
	CurrentTrip *domain.Trip `json:"currentTrip"`
}

// GetState handles GET /state.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.trips.State(r.Context()))
}

// ListTrips handles GET /trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TripList{Data: s.trips.List(r.Context())})
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body TripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.trips.Create(r.Context(), body.toTrip(uuid.Nil))
	if err != nil {
		writeError(w, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// TripDetail is the body of GET /trips/{tripId}: the trip plus its totals.
type TripDetail struct {
	domain.Trip
	Totals domain.TripTotals `json:"totals"`
}

// GetTrip handles GET /trips/{tripId}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, TripDetail{Trip: trip, Totals: trip.Totals()})
}

// UpdateTrip handles PUT /trips/{tripId}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var body TripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.trips.Update(r.Context(), body.toTrip(id))
	if err != nil {
		writeError(w, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTrip handles DELETE /trips/{tripId}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	if err := s.trips.Delete(r.Context(), id); err != nil {
		writeError(w, err, "trip not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetTripDays handles GET /trips/{tripId}/days.
func (s *Server) GetTripDays(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	plans, err := s.trips.Days(r.Context(), id)
	if err != nil {
		writeError(w, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, DayList{Data: plans})
}

// GetCurrentTrip handles GET /current-trip.
func (s *Server) GetCurrentTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.Current(r.Context())
	if err != nil {
		writeError(w, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// SetCurrentTrip handles PUT /current-trip.
// An id that matches no trip clears the selection rather than failing.
func (s *Server) SetCurrentTrip(w http.ResponseWriter, r *http.Request) {
	var body CurrentTripRequest
	if !decodeBody(w, r, &body) {
		return
	}
	writeJSON(w, http.StatusOK, CurrentTripResponse{CurrentTrip: s.trips.SetCurrent(r.Context(), body.TripID)})
}

// --- mapping helpers --------------------------------------------------------

func (b TripRequest) toTrip(id uuid.UUID) domain.Trip {
	return domain.Trip{
		ID:          id,
		Title:       b.Title,
		Description: b.Description,
		CoverImage:  b.CoverImage,
		StartDate:   b.StartDate,
		Days:        b.Days,
		TotalBudget: b.TotalBudget,
	}
}

// pathUUID parses a UUID path parameter, writing a 422 when it is malformed.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		badRequest(w, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
