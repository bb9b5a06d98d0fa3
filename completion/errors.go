package completion

import (
	"context"
	"errors"
	"fmt"
)

// ErrCancelled is returned when a request's context ends before the
// pipeline finishes. It wraps context.Canceled.
var ErrCancelled = fmt.Errorf("completion cancelled: %w", context.Canceled)

func cancelled(cause error) error {
	if cause == nil || errors.Is(cause, context.Canceled) {
		return ErrCancelled
	}
	return fmt.Errorf("%w: %w", ErrCancelled, cause)
}
