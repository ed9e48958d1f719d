package domain

import "errors"

// ErrNotFound is returned when the requested trip or node does not exist.
// The store treats writes against a missing id as no-ops; the service layer
// reports them with this error so callers can tell.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. empty title, day outside the trip).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrNoCurrentTrip is returned by node operations issued while no trip is
// selected. Handlers should map this to HTTP 409 Conflict.
var ErrNoCurrentTrip = errors.New("no current trip")
