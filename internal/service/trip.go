// Package service contains the business logic for the trip planner.
// Services validate inputs at the call boundary and turn each public
// operation into store intents. Invalid input is rejected before anything is
// dispatched, so a failed call never leaves a partial change behind.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/store"
)

// Store is the subset of *store.Store the services need. Every write goes
// through Do so that the checks a service makes against the state hold when
// its intent is applied.
type Store interface {
	Do(ctx context.Context, fn func(store.State) (store.Intent, error)) (store.State, error)
	State() store.State
}

// Option configures a service.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() uuid.UUID
}

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDs replaces uuid.New as the source of trip and node ids.
func WithIDs(newID func() uuid.UUID) Option {
	return func(o *options) { o.newID = newID }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, newID: uuid.New}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// TripService implements the trip-level public operations.
type TripService struct {
	store Store
	opts  options
}

// NewTripService constructs a TripService on top of st.
func NewTripService(st Store, opts ...Option) *TripService {
	return &TripService{store: st, opts: buildOptions(opts)}
}

// State returns a snapshot of the whole store.
func (s *TripService) State(_ context.Context) store.State {
	return s.store.State()
}

// List returns every trip in insertion order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(_ context.Context) []domain.Trip {
	return s.store.State().Trips
}

// GetByID returns a single trip.
// Returns domain.ErrNotFound if no trip with that ID exists.
func (s *TripService) GetByID(_ context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, ok := s.store.State().Trip(id)
	if !ok {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", domain.ErrNotFound)
	}
	return trip, nil
}

// Create validates a new trip, assigns its id and timestamps, adds it to the
// collection and selects it as the current trip. ID, Nodes, Routes and the
// timestamps of the input are ignored.
// Returns domain.ErrValidation if input violates business rules.
func (s *TripService) Create(ctx context.Context, in domain.Trip) (domain.Trip, error) {
	in.Title = normalizeName(in.Title)
	if err := validateTrip(in); err != nil {
		return domain.Trip{}, err
	}

	now := s.opts.now().UTC()
	trip := domain.Trip{
		ID:          s.opts.newID(),
		Title:       in.Title,
		Description: in.Description,
		CoverImage:  in.CoverImage,
		StartDate:   in.StartDate,
		Days:        in.Days,
		Nodes:       []domain.Node{},
		Routes:      []domain.RouteSegment{},
		CreatedAt:   now,
		UpdatedAt:   now,
		TotalBudget: in.TotalBudget,
	}
	if _, err := s.store.Do(ctx, func(store.State) (store.Intent, error) {
		return store.CreateTrip{Trip: trip}, nil
	}); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return trip, nil
}

// Update overwrites the editable fields of an existing trip (title,
// description, cover image, start date, days, budget) and refreshes
// UpdatedAt. Nodes, routes and CreatedAt are kept. Shrinking Days does not
// move or drop nodes; nodes beyond the new range just stop appearing in any day.
// Returns domain.ErrValidation for invalid input, domain.ErrNotFound if the
// trip does not exist.
func (s *TripService) Update(ctx context.Context, in domain.Trip) (domain.Trip, error) {
	in.Title = normalizeName(in.Title)
	if err := validateTrip(in); err != nil {
		return domain.Trip{}, err
	}

	st, err := s.store.Do(ctx, func(cur store.State) (store.Intent, error) {
		existing, ok := cur.Trip(in.ID)
		if !ok {
			return nil, fmt.Errorf("service.TripService.Update: %w", domain.ErrNotFound)
		}
		existing.Title = in.Title
		existing.Description = in.Description
		existing.CoverImage = in.CoverImage
		existing.StartDate = in.StartDate
		existing.Days = in.Days
		existing.TotalBudget = in.TotalBudget
		existing.UpdatedAt = later(s.opts.now().UTC(), existing.UpdatedAt)
		return store.UpdateTrip{Trip: existing}, nil
	})
	if err != nil {
		return domain.Trip{}, err
	}
	updated, _ := st.Trip(in.ID)
	return updated, nil
}

// Delete removes a trip together with its nodes and routes. If it was the
// current trip, no trip is selected afterwards.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.store.Do(ctx, func(cur store.State) (store.Intent, error) {
		if _, ok := cur.Trip(id); !ok {
			return nil, fmt.Errorf("service.TripService.Delete: %w", domain.ErrNotFound)
		}
		return store.DeleteTrip{TripID: id}, nil
	})
	return err
}

// SetCurrent selects the trip with the given id for editing. A nil id, or an
// id that matches no trip, clears the selection. The selected trip is
// returned, or nil when nothing is selected.
func (s *TripService) SetCurrent(ctx context.Context, id *uuid.UUID) *domain.Trip {
	st, _ := s.store.Do(ctx, func(cur store.State) (store.Intent, error) {
		var selected *domain.Trip
		if id != nil {
			if trip, ok := cur.Trip(*id); ok {
				selected = &trip
			}
		}
		return store.SetCurrentTrip{Trip: selected}, nil
	})
	return st.CurrentTrip
}

// Current returns the trip selected for editing.
// Returns domain.ErrNoCurrentTrip if none is selected.
func (s *TripService) Current(_ context.Context) (domain.Trip, error) {
	st := s.store.State()
	if st.CurrentTrip == nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Current: %w", domain.ErrNoCurrentTrip)
	}
	return *st.CurrentTrip, nil
}

// Days returns the trip's nodes grouped into one plan per day.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) Days(_ context.Context, id uuid.UUID) ([]domain.DayPlan, error) {
	trip, ok := s.store.State().Trip(id)
	if !ok {
		return nil, fmt.Errorf("service.TripService.Days: %w", domain.ErrNotFound)
	}
	return domain.GroupByDay(trip), nil
}

// validateTrip enforces business rules common to both Create and Update.
//   - Title must be non-empty after trimming.
//   - StartDate must be set.
//   - Days must be positive.
//   - TotalBudget, if set, must not be negative.
func validateTrip(t domain.Trip) error {
	if t.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if t.StartDate.Time.IsZero() {
		return fmt.Errorf("%w: startDate is required", domain.ErrValidation)
	}
	if t.Days < 1 {
		return fmt.Errorf("%w: days must be at least 1", domain.ErrValidation)
	}
	if t.TotalBudget != nil && *t.TotalBudget < 0 {
		return fmt.Errorf("%w: totalBudget must not be negative", domain.ErrValidation)
	}
	return nil
}

// normalizeName trims s and converts it to Unicode NFC so visually equal
// names compare equal.
func normalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b.Add(time.Millisecond)
}
