package entities

import "errors"

// ErrInvalidConfiguration marks catalog definitions that cannot be played.
// Every validation failure wraps it so callers can test with errors.Is.
var ErrInvalidConfiguration = errors.New("invalid configuration")
