package scoring

import "fmt"

// Sentinel errors for the scoring engine's closed error taxonomy (spec §7).
// Every failure wraps one of these so callers can classify it with
// errors.Is, and none of them is ever recovered internally -- a scoring
// call either fully succeeds or fully fails.
var (
	// ErrInputTooLarge is returned when |reference| + |played| exceeds the
	// engine's bound.
	ErrInputTooLarge = fmt.Errorf("scoring: input too large")

	// ErrAlignmentStuck is returned when the backtracker cannot find any
	// valid predecessor cell. This indicates a bug in the DP recurrence or
	// the backtrack tie-break order, not a caller error.
	ErrAlignmentStuck = fmt.Errorf("scoring: alignment stuck")

	// ErrMalformedInput is returned when a note has a negative time,
	// negative duration, or an out-of-range pitch.
	ErrMalformedInput = fmt.Errorf("scoring: malformed input")
)

// MaxCombinedNotes is the largest allowed value of |reference| + |played|.
const MaxCombinedNotes = 10_000
