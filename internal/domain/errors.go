package domain

import "errors"

// ErrValidation is returned by service functions when search input fails
// the pre-query checks (no region selected, or both text fields empty).
// Handlers should map this to HTTP 422 or an inline warning.
var ErrValidation = errors.New("validation error")

// ErrStoreUnavailable is returned by repo functions when the backing license
// store is missing, corrupt, or does not have the expected schema.
// Handlers should map this to HTTP 503. No partial results accompany it.
var ErrStoreUnavailable = errors.New("license store unavailable")
