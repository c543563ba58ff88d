package apperrors

import "errors"

// Every quantity-conservation violation is rejected before any write and
// surfaced as one of these sentinels. None of them is retried automatically:
// each guards a financial or physical-quantity invariant where a blind retry
// could double-count.
var (
	// ErrCapacityExceeded - an assignment or packaging event would push a
	// bundle past its cut capacity.
	ErrCapacityExceeded = errors.New("bundle capacity exceeded")

	// ErrBelowClosed - an assignment quantity would drop below what the
	// worker has already packed or defected.
	ErrBelowClosed = errors.New("quantity below already closed amount")

	// ErrAlreadyClosed - worker reassignment after packaging exists for the
	// old worker.
	ErrAlreadyClosed = errors.New("packaging already recorded for this worker")

	// ErrBundleOverClosed - the bundle-wide closed total would exceed
	// capacity even after auto-assignment inference.
	ErrBundleOverClosed = errors.New("bundle closed quantity exceeds capacity")

	// ErrMissingPrice - invoice finalization attempted without a price for a
	// produced (product, color) position.
	ErrMissingPrice = errors.New("price missing for produced position")

	// ErrInsufficientStock - an issue movement would drive a warehouse or
	// inventory balance negative.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrBundleReferenced - bundle capacity edit or delete while assignments
	// or packaging events reference it.
	ErrBundleReferenced = errors.New("bundle already has assignments or packaging")

	// ErrNotFound - the referenced entity does not exist, or belongs to
	// another organization. Cross-tenant access is reported identically to
	// not-found so existence never leaks.
	ErrNotFound = errors.New("record not found")
)

// IsConflict reports whether err is one of the conservation-invariant
// rejections (mapped to 409 by the handlers).
func IsConflict(err error) bool {
	return errors.Is(err, ErrCapacityExceeded) ||
		errors.Is(err, ErrBelowClosed) ||
		errors.Is(err, ErrAlreadyClosed) ||
		errors.Is(err, ErrBundleOverClosed) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrBundleReferenced)
}

// IsValidation reports whether err is a user-correctable input rejection
// (mapped to 400).
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingPrice)
}
