package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Saver persists the full trip collection. Failures are logged by the store
// and never retried.
type Saver interface {
	Save(ctx context.Context, trips []domain.Trip) error
}

// Loader reads the persisted trip collection. Implementations fail soft: a
// missing or unreadable snapshot is an empty collection.
type Loader interface {
	Load(ctx context.Context) []domain.Trip
}

// Store owns the single State value. Intents are applied one at a time under
// a mutex; readers receive deep copies and can never reach the store's own
// slices. Callers that derive an intent from the state use Do.
type Store struct {
	mu          sync.Mutex
	state       State
	saver       Saver
	log         *slog.Logger
	saveTimeout time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithSaveTimeout bounds a single snapshot write. Defaults to 5 seconds.
func WithSaveTimeout(d time.Duration) Option {
	return func(s *Store) { s.saveTimeout = d }
}

// New constructs a Store in the loading state. saver may be nil for a store
// that is never persisted.
func New(saver Saver, log *slog.Logger, opts ...Option) *Store {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{
		state:       Initial(),
		saver:       saver,
		log:         log,
		saveTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init completes the initial load with the given persisted snapshot.
// Until Init runs, state changes are not written back to storage.
func (s *Store) Init(ctx context.Context, trips []domain.Trip) State {
	return s.Dispatch(ctx, SetTrips{Trips: trips})
}

// InitFrom loads the snapshot from l and completes the initial load with it.
func (s *Store) InitFrom(ctx context.Context, l Loader) State {
	return s.Init(ctx, l.Load(ctx))
}

// Dispatch applies in and returns a copy of the resulting state. The store
// takes ownership of the intent's payload. When the trip collection changed
// and the initial load has completed, the collection is saved before
// Dispatch returns; a failed save is logged and otherwise ignored.
func (s *Store) Dispatch(ctx context.Context, in Intent) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.apply(ctx, in)
	return s.state.Clone()
}

// Do derives an intent from the current state and applies it without
// releasing the lock in between, so no other intent can land between the
// read and the write. fn gets a copy of the state and must not call back
// into the store. If fn fails, nothing is applied and its error is returned.
// A nil intent applies nothing.
func (s *Store) Do(ctx context.Context, fn func(State) (Intent, error)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, err := fn(s.state.Clone())
	if err != nil {
		return State{}, err
	}
	if in != nil {
		s.apply(ctx, in)
	}
	return s.state.Clone(), nil
}

func (s *Store) apply(ctx context.Context, in Intent) {
	prev := s.state
	s.state = Apply(prev, in)
	intentsTotal.WithLabelValues(in.Name()).Inc()

	if !s.state.IsLoading && tripsReplaced(prev.Trips, s.state.Trips) {
		s.persist(ctx, s.state.Trips)
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Store) persist(ctx context.Context, trips []domain.Trip) {
	if s.saver == nil {
		return
	}
	// The write outlives the caller's request: a cancelled request must not
	// leave storage behind the in-memory state.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.saveTimeout)
	defer cancel()

	if err := s.saver.Save(ctx, trips); err != nil {
		snapshotSavesTotal.WithLabelValues("error").Inc()
		s.log.ErrorContext(ctx, "save trips snapshot", "error", err, "trips", len(trips))
		return
	}
	snapshotSavesTotal.WithLabelValues("ok").Inc()
}

// tripsReplaced reports whether Apply produced a new trip collection.
// Apply never edits a collection in place, so identity is enough.
func tripsReplaced(a, b []domain.Trip) bool {
	if len(a) != len(b) {
		return true
	}
	return len(a) > 0 && &a[0] != &b[0]
}
