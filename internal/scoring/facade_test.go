package scoring

import (
	"errors"
	"testing"
)

func note(pitch int32, start, dur float64) *Note {
	return &Note{Pitch: pitch, StartTime: start, Duration: dur, Confidence: 5}
}

func TestFindOpsExactMatch(t *testing.T) {
	reference := []*Note{note(60, 0.0, 0.5), note(62, 0.5, 0.5), note(64, 1.0, 0.5)}
	played := []*Note{note(60, 0.0, 0.5), note(62, 0.5, 0.5), note(64, 1.0, 0.5)}

	edits, pairs, err := FindOps(reference, played)
	if err != nil {
		t.Fatalf("FindOps: %v", err)
	}
	if len(edits) != 0 {
		t.Errorf("exp 0 edits, got %d: %+v", len(edits), edits)
	}
	want := []AlignedPair{{0, 0}, {1, 1}, {2, 2}}
	if !pairsEqual(pairs, want) {
		t.Errorf("exp %v, got %v", want, pairs)
	}
}

func TestFindOpsOneSubstitution(t *testing.T) {
	reference := []*Note{note(60, 0.0, 0.5), note(62, 0.5, 0.5), note(64, 1.0, 0.5)}
	played := []*Note{note(60, 0.0, 0.5), note(63, 0.5, 0.5), note(64, 1.0, 0.5)}

	edits, pairs, err := FindOps(reference, played)
	if err != nil {
		t.Fatalf("FindOps: %v", err)
	}
	if len(edits) != 1 {
		t.Fatalf("exp 1 edit, got %d: %+v", len(edits), edits)
	}
	e := edits[0]
	if e.Operation != OpSubstitute || e.Pos != 1 || e.TPos != 1 {
		t.Errorf("exp SUBSTITUTE pos=1 t_pos=1, got %+v", e)
	}
	if !containsPair(pairs, AlignedPair{0, 0}) || !containsPair(pairs, AlignedPair{2, 2}) {
		t.Errorf("expected alignment to include (0,0) and (2,2), got %v", pairs)
	}
}

func TestFindOpsSingleInsertion(t *testing.T) {
	reference := []*Note{note(60, 0.0, 0.5), note(64, 1.0, 0.5)}
	played := []*Note{note(60, 0.0, 0.5), note(62, 0.5, 0.5), note(64, 1.0, 0.5)}

	edits, _, err := FindOps(reference, played)
	if err != nil {
		t.Fatalf("FindOps: %v", err)
	}
	if len(edits) != 1 {
		t.Fatalf("exp 1 edit, got %d: %+v", len(edits), edits)
	}
	e := edits[0]
	if e.Operation != OpInsert || e.Pos != 1 || e.TPos != 1 {
		t.Errorf("exp INSERT pos=1 t_pos=1, got %+v", e)
	}
}

func TestFindOpsMoveWithinWindow(t *testing.T) {
	reference := []*Note{note(60, 0.0, 0.5), note(62, 0.5, 0.5), note(64, 1.0, 0.5), note(65, 1.5, 0.5)}
	played := []*Note{note(60, 0.0, 0.5), note(64, 0.5, 0.5), note(62, 1.0, 0.5), note(65, 1.5, 0.5)}

	edits, _, err := FindOps(reference, played)
	if err != nil {
		t.Fatalf("FindOps: %v", err)
	}
	for _, e := range edits {
		if e.Operation == OpSubstitute {
			t.Errorf("exp no substitutions, got %+v", e)
		}
	}
}

func TestFindOpsTrailingTrim(t *testing.T) {
	reference := []*Note{
		note(60, 0.0, 0.5), note(62, 0.5, 0.5), note(64, 1.0, 0.5),
		note(65, 1.5, 0.5), note(67, 2.0, 0.5),
	}
	played := []*Note{note(60, 0.0, 0.5), note(62, 0.5, 0.5), note(64, 1.0, 0.5)}

	edits, pairs, err := FindOps(reference, played)
	if err != nil {
		t.Fatalf("FindOps: %v", err)
	}
	if len(edits) != 0 {
		t.Errorf("exp 0 edits, got %d: %+v", len(edits), edits)
	}
	if len(pairs) != 3 {
		t.Errorf("exp alignment to cover first 3 notes, got %v", pairs)
	}
}

func TestFindOpsOctaveConfusion(t *testing.T) {
	reference := []*Note{note(60, 0.0, 0.5), note(72, 0.02, 0.5)}
	played := []*Note{note(72, 0.0, 0.5)}

	edits, _, err := FindOps(reference, played)
	if err != nil {
		t.Fatalf("FindOps: %v", err)
	}
	var del *Edit
	for _, e := range edits {
		if e.Operation == OpDelete {
			del = e
		}
	}
	if del == nil {
		t.Fatalf("expected a DELETE edit, got %+v", edits)
	}
	if del.SChar.Pitch != 60 {
		t.Errorf("exp deleted pitch 60, got %d", del.SChar.Pitch)
	}
	if del.SChar.Confidence != 3 {
		t.Errorf("exp confidence 3 for octave confusion, got %d", del.SChar.Confidence)
	}
}

func TestFindOpsIdentity(t *testing.T) {
	notes := []*Note{
		note(60, 0.0, 0.5), note(64, 0.5, 0.5), note(67, 1.0, 0.5),
		note(72, 1.5, 0.5), note(69, 2.0, 0.5),
	}
	edits, pairs, err := FindOps(notes, notes)
	if err != nil {
		t.Fatalf("FindOps: %v", err)
	}
	if len(edits) != 0 {
		t.Errorf("exp 0 edits for identity, got %d: %+v", len(edits), edits)
	}
	for i, p := range pairs {
		if p.RefIndex != i || p.PlayedIndex != i {
			t.Errorf("exp aligned pair (%d,%d), got %+v", i, i, p)
		}
	}
}

func TestFindOpsBoundedCost(t *testing.T) {
	reference := []*Note{note(60, 0.0, 0.5), note(61, 0.5, 0.5), note(62, 1.0, 0.5)}
	played := []*Note{note(90, 0.0, 0.5), note(91, 0.5, 0.5), note(92, 1.0, 0.5), note(93, 1.5, 0.5)}

	edits, _, err := FindOps(reference, played)
	if err != nil {
		t.Fatalf("FindOps: %v", err)
	}
	if len(edits) > len(reference)+len(played) {
		t.Errorf("exp at most %d edits, got %d", len(reference)+len(played), len(edits))
	}
}

func TestFindOpsInputTooLarge(t *testing.T) {
	big := make([]*Note, MaxCombinedNotes/2+1)
	for i := range big {
		big[i] = note(60, float64(i), 0.1)
	}
	_, _, err := FindOps(big, big)
	if err == nil {
		t.Fatal("expected ErrInputTooLarge, got nil")
	}
	if !errors.Is(err, ErrInputTooLarge) {
		t.Errorf("exp ErrInputTooLarge, got %v", err)
	}
}

func TestFindOpsMalformedInput(t *testing.T) {
	bad := []*Note{{Pitch: 200, StartTime: 0}}
	_, _, err := FindOps(bad, bad)
	if !errors.Is(err, ErrMalformedInput) {
		t.Errorf("exp ErrMalformedInput, got %v", err)
	}
}

func pairsEqual(got, want []AlignedPair) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func containsPair(pairs []AlignedPair, p AlignedPair) bool {
	for _, q := range pairs {
		if q == p {
			return true
		}
	}
	return false
}
