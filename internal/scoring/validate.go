package scoring

import "fmt"

// ValidateNotes rejects malformed input before it reaches the DP (spec §7):
// negative start times, negative durations, or pitches outside the MIDI
// range 0-127.
func ValidateNotes(notes []*Note) error {
	for _, n := range notes {
		if n.Pitch < 0 || n.Pitch > 127 {
			return fmt.Errorf("%w: pitch %d out of range 0-127", ErrMalformedInput, n.Pitch)
		}
		if n.StartTime < 0 {
			return fmt.Errorf("%w: negative start time %v", ErrMalformedInput, n.StartTime)
		}
		if n.Duration < 0 {
			return fmt.Errorf("%w: negative duration %v", ErrMalformedInput, n.Duration)
		}
	}
	return nil
}
