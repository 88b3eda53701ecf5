package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// location does not exist in the store.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when a draft fails business
// rule validation (e.g. missing city, latitude out of range).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrLookupFailed is returned when a geocode lookup yields no coordinates,
// whatever the cause (transport failure, bad status, empty result).
// The entry form falls back to manual coordinate entry.
var ErrLookupFailed = errors.New("lookup failed")
