package domain

import "errors"

// ErrConfiguration marks failures caused by missing or invalid
// configuration (e.g. an absent inference credential). They fail fast,
// are never retried, and surface to the caller with no partial
// decision attached.
var ErrConfiguration = errors.New("configuration error")
