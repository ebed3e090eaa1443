package contextutils

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextCheckResult represents the result of a context cancellation check
type ContextCheckResult struct {
	Cancelled bool
	Error     error
}

// CheckCancellationWithLog checks for context cancellation and logs if cancelled
func CheckCancellationWithLog(ctx context.Context, logger zerolog.Logger, operation string) ContextCheckResult {
	result := CheckCancellation(ctx)
	if result.Cancelled {
		logger.Info().Str("operation", operation).Msg("Context cancelled")
	}
	return result
}

// CheckCancellation checks if the context is cancelled without blocking.
func CheckCancellation(ctx context.Context) ContextCheckResult {
	select {
	case <-ctx.Done():
		return ContextCheckResult{Cancelled: true, Error: ctx.Err()}
	default:
		return ContextCheckResult{}
	}
}
