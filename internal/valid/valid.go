// Package valid provides the small validation helpers the HTTP front end
// runs before handing a request body to the scoring engine. Note-level
// bounds (pitch, time, duration) are the engine's own concern
// (internal/scoring.ValidateNotes); this package only guards the things a
// transport layer is responsible for.
package valid

import "fmt"

// MaxBodyBytes bounds the size of an uploaded notes payload or audio
// recording before it is even parsed.
const MaxBodyBytes = 32 << 20 // 32 MiB

// ContentLength returns an error if n exceeds MaxBodyBytes.
func ContentLength(n int64) error {
	if n < 0 {
		return fmt.Errorf("valid: negative content length %d", n)
	}
	if n > MaxBodyBytes {
		return fmt.Errorf("valid: content length %d exceeds limit %d", n, MaxBodyBytes)
	}
	return nil
}

// AudioContentTypes lists the MIME types the transcriber accepts.
var AudioContentTypes = []string{"audio/wav", "audio/x-wav", "audio/webm", "audio/ogg"}

// AudioContentType returns true if ct is one of AudioContentTypes.
func AudioContentType(ct string) bool {
	for _, accepted := range AudioContentTypes {
		if ct == accepted {
			return true
		}
	}
	return false
}

// PageNumber returns true if page is a plausible 0-based score page index.
func PageNumber(page int) bool {
	return page >= 0 && page < 1000
}
