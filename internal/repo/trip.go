package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pkordes/trip-planner/internal/domain"
)

// DefaultKey is the blob key the trip collection is stored under.
const DefaultKey = "travel-planner-trips"

// TripRepo reads and writes the whole trip collection as a single JSON array.
// It satisfies store.Loader and store.Saver.
type TripRepo struct {
	blobs BlobStore
	key   string
	log   *slog.Logger
}

// NewTripRepo constructs a TripRepo over blobs. An empty key selects DefaultKey.
func NewTripRepo(blobs BlobStore, key string, log *slog.Logger) *TripRepo {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = slog.Default()
	}
	return &TripRepo{blobs: blobs, key: key, log: log}
}

// Load returns the persisted trips. A missing, unreadable, or malformed
// snapshot yields an empty collection; only the last two are logged.
func (r *TripRepo) Load(ctx context.Context) []domain.Trip {
	raw, err := r.blobs.Get(ctx, r.key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.log.WarnContext(ctx, "read trips snapshot", "key", r.key, "error", err)
		}
		return []domain.Trip{}
	}

	var trips []domain.Trip
	if err := json.Unmarshal(raw, &trips); err != nil {
		r.log.WarnContext(ctx, "decode trips snapshot", "key", r.key, "error", err)
		return []domain.Trip{}
	}

	for i := range trips {
		if trips[i].Nodes == nil {
			trips[i].Nodes = []domain.Node{}
		}
		if trips[i].Routes == nil {
			trips[i].Routes = []domain.RouteSegment{}
		}
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips
}

// Save overwrites the persisted snapshot with trips.
func (r *TripRepo) Save(ctx context.Context, trips []domain.Trip) error {
	if trips == nil {
		trips = []domain.Trip{}
	}
	raw, err := json.Marshal(trips)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Save: encode: %w", err)
	}
	if err := r.blobs.Put(ctx, r.key, raw); err != nil {
		return fmt.Errorf("repo.TripRepo.Save: %w", err)
	}
	return nil
}
