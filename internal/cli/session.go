package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/internal/service"
	"github.com/pkordes/trip-planner/internal/store"
)

// session is one command's view of the planner: a store loaded from the
// SQLite snapshot and the services on top of it. Every change is written
// back before the service call returns.
type session struct {
	trips  *service.TripService
	nodes  *service.NodeService
	export *service.ExportService
	close  func()
}

func openSession(ctx context.Context, opts *RootOptions, stderr io.Writer) (*session, error) {
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	blobs, closeBlobs, err := repo.Open(ctx, repo.Options{Driver: repo.DriverSQLite, SQLitePath: opts.DB}, log)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.DB, err)
	}

	trips := repo.NewTripRepo(blobs, opts.Key, log)
	st := store.New(trips, log)
	st.InitFrom(ctx, trips)

	return &session{
		trips:  service.NewTripService(st),
		nodes:  service.NewNodeService(st),
		export: service.NewExportService(st),
		close:  closeBlobs,
	}, nil
}
