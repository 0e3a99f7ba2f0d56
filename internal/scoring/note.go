// Package scoring implements the note-alignment scoring engine: given a
// reference score's notes and a transcribed performance's notes, it computes
// an alignment, a localized edit script, confidence adjustments for likely
// octave/third transcription mistakes, and a piecewise tempo analysis.
//
// The package holds no state, spawns no goroutines, and performs no I/O. A
// caller that wants to cancel a scoring pass simply drops the call; there is
// nothing to cancel mid-flight because there are no suspension points.
package scoring

import (
	"math"
	"sort"
)

// roundTo is the quantization step (seconds) used when sorting notes by
// start time, so that near-simultaneous notes compare as equal.
const roundTo = 0.1

// EditOperation tags the kind of localized performance error an Edit
// records. Values are normative (see the wire schema) and must not change.
type EditOperation int32

const (
	OpInsert EditOperation = iota
	OpSubstitute
	OpDelete
)

func (op EditOperation) String() string {
	switch op {
	case OpInsert:
		return "INSERT"
	case OpSubstitute:
		return "SUBSTITUTE"
	case OpDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// BBox is an optional rectangle in page-local coordinates locating a note on
// a rendered score page.
type BBox struct {
	X, Y, W, H float32
}

// Note is a single transcribed or reference musical note.
type Note struct {
	Pitch      int32 // MIDI pitch, 0-127
	StartTime  float64
	Duration   float64
	Velocity   int32 // 0-127, optional
	Page       int32 // 0-based
	Track      int32 // 0 = treble, 1 = bass, other = misc
	BBox       *BBox // optional
	Confidence int32 // 1-5, rewritten by the confidence post-processor
	ID         int32 // stable index within the owning NoteList, rewritten on sort
}

// Copy returns a shallow copy of n, duplicating the BBox pointer target if
// present so the copy doesn't alias the original's box.
func (n *Note) Copy() *Note {
	if n == nil {
		return nil
	}
	c := *n
	if n.BBox != nil {
		b := *n.BBox
		c.BBox = &b
	}
	return &c
}

// PageSize is a (width, height) pair describing one page of a rendered
// score, in the same units as Note.BBox.
type PageSize struct {
	Width, Height float32
}

// NoteList is an ordered sequence of notes plus the page dimensions they
// were extracted against.
type NoteList struct {
	Notes []*Note
	Size  []PageSize
}

// Edit is a single localized edit operation addressing a reference position
// (Pos) and, where relevant, a played position (TPos).
type Edit struct {
	Operation EditOperation
	Pos       int32 // index into the reference sequence
	TPos      int32 // index into the played sequence
	SChar     *Note // reference note snapshot (SUBSTITUTE/DELETE; advisory context on INSERT)
	TChar     *Note // played note snapshot (SUBSTITUTE/INSERT)
}

// TempoSection is a contiguous range of aligned reference indices treated as
// having constant tempo.
type TempoSection struct {
	StartIndex int32
	EndIndex   int32
	Tempo      float64
}

// ScoringResult is the full output of a scoring pass: the edit script plus
// the tempo analysis, packaged together for the wire.
type ScoringResult struct {
	Edits         []*Edit
	Size          []PageSize
	UnstableRate  float64
	TempoSections []*TempoSection
}

// Recording is the top-level artifact combining a performance's notes with
// its computed scoring result.
type Recording struct {
	PlayedNotes   *NoteList
	ComputedEdits *ScoringResult
	CreatedAt     int64 // unix seconds, UTC
}

// quantize rounds t to the nearest roundTo step, matching the Python
// original's `round(start_time / ROUND_TO) * ROUND_TO`.
func quantize(t float64) float64 {
	return math.Round(t/roundTo) * roundTo
}

// sortKey orders notes by (page, quantized start time, pitch). Any
// stable-or-unstable sort satisfies the contract because IDs are reassigned
// immediately afterward.
func sortKey(notes []*Note) func(i, j int) bool {
	return func(i, j int) bool {
		a, b := notes[i], notes[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		qa, qb := quantize(a.StartTime), quantize(b.StartTime)
		if qa != qb {
			return qa < qb
		}
		return a.Pitch < b.Pitch
	}
}

// sortAndReindex sorts notes in place by sortKey and rewrites each note's ID
// to its index in the resulting order.
func sortAndReindex(notes []*Note) {
	sort.Slice(notes, sortKey(notes))
	for i, n := range notes {
		n.ID = int32(i)
	}
}

// Preprocess sorts reference and played in place by the canonical key,
// renumbers their IDs, and extracts the dense pitch/time arrays the DP
// kernel operates on. It is component C1 of the scoring engine.
func Preprocess(reference, played []*Note) (refPitches, playedPitches []int32, refTimes, playedTimes []float64) {
	sortAndReindex(reference)
	sortAndReindex(played)

	refPitches = make([]int32, len(reference))
	refTimes = make([]float64, len(reference))
	for i, n := range reference {
		refPitches[i] = n.Pitch
		refTimes[i] = n.StartTime
	}

	playedPitches = make([]int32, len(played))
	playedTimes = make([]float64, len(played))
	for i, n := range played {
		playedPitches[i] = n.Pitch
		playedTimes[i] = n.StartTime
	}
	return
}
