package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrNoMatchupAvailable signals that zero eligible voting pairs exist.
	ErrNoMatchupAvailable = errors.New("no matchup available")
	// ErrInvalidVote is returned for malformed vote payloads (bad side, missing pair).
	ErrInvalidVote = errors.New("invalid vote")
	// ErrSeedInvalid marks a seed catalog that failed validation thresholds.
	ErrSeedInvalid = errors.New("seed invalid")
	// ErrRetryExhausted is returned when a conflicting transaction ran out of attempts.
	ErrRetryExhausted = errors.New("retry attempts exhausted")
)
