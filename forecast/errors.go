package forecast

import "errors"

// Sentinel errors returned by the estimation routines. Callers can match
// them with errors.Is to distinguish failure causes.
var (
	// ErrLengthMismatch indicates that the true or predicted series does
	// not have one value per dataset row.
	ErrLengthMismatch = errors.New("true and predicted series must have one value per observation")

	// ErrEmptyDataset indicates that no observations were supplied.
	ErrEmptyDataset = errors.New("dataset has no observations")

	// ErrUnknownGranularity indicates an unsupported granularity value.
	ErrUnknownGranularity = errors.New("unknown granularity")

	// ErrEmptySeries indicates that a metric or series was requested over
	// zero data points.
	ErrEmptySeries = errors.New("series has no points")
)
