package services

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// BulkFailure is one item of a bulk operation that the backend rejected
type BulkFailure struct {
	Key string
	Err error
}

// BulkResult is the aggregate outcome of a bulk operation.
// Every item is attempted; a failure does not stop the others.
type BulkResult struct {
	Attempted int
	Succeeded int
	Failures  []BulkFailure
	Err       error // all failures combined, nil when every item succeeded
}

// runBulk calls op once per key, all in parallel, and waits for every call to finish
func runBulk(ctx context.Context, keys []string, op func(ctx context.Context, key string) error) *BulkResult {
	errs := make([]error, len(keys))

	var g errgroup.Group
	for i, key := range keys {
		g.Go(func() error {
			errs[i] = op(ctx, key)
			// Never fail the group: a failed item must not cancel its siblings
			return nil
		})
	}
	_ = g.Wait()

	result := &BulkResult{Attempted: len(keys)}
	for i, err := range errs {
		if err == nil {
			result.Succeeded++
			continue
		}
		result.Failures = append(result.Failures, BulkFailure{Key: keys[i], Err: err})
		result.Err = multierr.Append(result.Err, fmt.Errorf("%s: %w", keys[i], err))
	}

	return result
}

// notifyBulk shows the single aggregate message for a finished bulk update of what
// (price, capacity) and returns the combined error, marked as notified, when anything failed
func notifyBulk(n Notifier, what string, result *BulkResult) error {
	if result.Err == nil {
		n.Notify(LevelSuccess, fmt.Sprintf("Updated %s for %d dates", what, result.Succeeded))
		return nil
	}

	n.Notify(LevelError, fmt.Sprintf("Failed to update %s for %d of %d dates", what, len(result.Failures), result.Attempted))
	return &notifiedError{err: result.Err}
}
