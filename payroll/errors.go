/*
errors.go - Centralized error types

PURPOSE:
  All error values in one place for consistency and discoverability. The
  computation itself never fails for structurally valid input - edge cases
  degrade to zero-valued buckets or exclusions. These errors belong to the
  surrounding shell: providers, stores, and the preconditions callers must
  enforce before invoking the engine.

CALLER PRECONDITIONS (validated upstream, never inside the engine):
  - An open shift (no end time) has no computable pay
  - A negative hourly rate has no business meaning

USAGE:
    if errors.Is(err, payroll.ErrEmployeeNotFound) { ... }
*/
package payroll

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrOpenShift is returned when a caller asks for pay on a shift with
	// no end time. Open shifts must be rejected before computation.
	ErrOpenShift = errors.New("shift has no end time")

	// ErrNegativeRate is returned for a negative hourly rate.
	ErrNegativeRate = errors.New("negative hourly rate")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrShiftNotFound is returned when a referenced shift doesn't exist.
	ErrShiftNotFound = errors.New("shift not found")

	// ErrBonusNotFound is returned when a referenced bonus doesn't exist.
	ErrBonusNotFound = errors.New("bonus not found")

	// ErrRulesNotFound is returned when an organization has no persisted
	// rules AND the caller asked for no fallback. Providers normally fall
	// back to DefaultRules instead of returning this.
	ErrRulesNotFound = errors.New("work rules not found")

	// ErrInvalidInterval is returned when a shift's end precedes its start.
	ErrInvalidInterval = errors.New("invalid interval: end before start")
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrShiftNotFound) ||
		errors.Is(err, ErrBonusNotFound) ||
		errors.Is(err, ErrRulesNotFound)
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrOpenShift) ||
		errors.Is(err, ErrNegativeRate) ||
		errors.Is(err, ErrInvalidInterval)
}
