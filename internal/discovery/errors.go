package discovery

import "opportunity/discovery-service/internal/store"

// ErrNotFound is returned when no stored record has the requested id.
var ErrNotFound = store.ErrNotFound

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }
