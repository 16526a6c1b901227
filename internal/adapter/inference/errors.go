package inference

import (
	"errors"
	"fmt"

	"github.com/lexiweek/matcher/internal/domain"
)

// ErrMissingCredential is returned immediately when no API token is
// configured. It is a configuration error, never a retry condition.
var ErrMissingCredential = fmt.Errorf("inference: missing API token: %w", domain.ErrConfiguration)

// StatusError is a non-retryable HTTP response (a 4xx other than the
// configured retryable set). It escalates immediately without
// consuming the retry budget.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("inference: non-retryable status %d", e.Code)
}

// ExhaustedError is returned once every retry attempt has been
// consumed. It embeds the last failure.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("inference: %d attempts exhausted: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// IsRemoteFailure reports whether err is a survivable remote-service
// failure (exhausted retries or a hard status), as opposed to a
// configuration error that must surface to the caller.
func IsRemoteFailure(err error) bool {
	var exhausted *ExhaustedError
	var status *StatusError
	return errors.As(err, &exhausted) || errors.As(err, &status)
}
