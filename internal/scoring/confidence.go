package scoring

import "sort"

// octaveSemitones and thirdSemitones are the two confusions the transcriber
// is known to make (spec §4.4).
const (
	octaveSemitones = 12
	thirdSemitones  = 4
	neighborWindow  = 0.1 // seconds
)

// timeIndex is an ascending-by-start-time view over a reference note slice,
// built once per confidence pass so each DELETE lookup can binary search
// instead of scanning.
type timeIndex struct {
	notes []*Note
}

func newTimeIndex(reference []*Note) *timeIndex {
	notes := make([]*Note, len(reference))
	copy(notes, reference)
	sort.Slice(notes, func(i, j int) bool { return notes[i].StartTime < notes[j].StartTime })
	return &timeIndex{notes: notes}
}

// neighbors returns the notes whose start time falls within neighborWindow
// seconds of t, located via binary search over the ascending-time array.
func (ti *timeIndex) neighbors(t float64) []*Note {
	lo := sort.Search(len(ti.notes), func(i int) bool {
		return ti.notes[i].StartTime >= t-neighborWindow
	})
	hi := sort.Search(len(ti.notes), func(i int) bool {
		return ti.notes[i].StartTime > t+neighborWindow
	})
	return ti.notes[lo:hi]
}

// adjustConfidence is component C4: for every DELETE edit, demote the
// deleted note's confidence when a same-time neighbor in the reference is an
// octave or major third away, since that pattern usually means the
// transcriber misheard a note that is actually present rather than the
// performer actually omitting it.
func adjustConfidence(reference []*Note, edits []*Edit) {
	ti := newTimeIndex(reference)
	for _, e := range edits {
		if e.Operation != OpDelete || e.SChar == nil {
			continue
		}
		e.SChar.Confidence = 5
		pitch := e.SChar.Pitch
		neighbors := ti.neighbors(e.SChar.StartTime)

		hasOctave, hasThird := false, false
		for _, n := range neighbors {
			if n == e.SChar {
				continue
			}
			diff := n.Pitch - pitch
			if diff == octaveSemitones || diff == -octaveSemitones {
				hasOctave = true
			}
			if diff == thirdSemitones || diff == -thirdSemitones {
				hasThird = true
			}
		}

		switch {
		case hasOctave:
			e.SChar.Confidence = 3
		case hasThird:
			e.SChar.Confidence = 4
		}
	}
}
