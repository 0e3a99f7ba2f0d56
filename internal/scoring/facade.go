package scoring

import "fmt"

// FindOps is the scoring facade, component C6: it orchestrates preprocessing,
// the alignment DP, backtracking and confidence adjustment into a single
// call, enforcing the engine's input-size bound along the way. Tempo
// analysis is not run here; callers that want tempo_sections invoke
// AnalyzeTempo separately against the same aligned pairs, since it has no
// bearing on the edit script.
func FindOps(reference, played []*Note) ([]*Edit, []AlignedPair, error) {
	if err := guardInputSize(reference, played); err != nil {
		return nil, nil, err
	}

	refPitches, playedPitches, _, _ := Preprocess(reference, played)
	return findOpsPrepared(reference, played, refPitches, playedPitches)
}

func guardInputSize(reference, played []*Note) error {
	if len(reference)+len(played) > MaxCombinedNotes {
		return fmt.Errorf("%w: %d reference + %d played notes exceeds %d",
			ErrInputTooLarge, len(reference), len(played), MaxCombinedNotes)
	}
	if err := ValidateNotes(reference); err != nil {
		return err
	}
	return ValidateNotes(played)
}

func findOpsPrepared(reference, played []*Note, refPitches, playedPitches []int32) ([]*Edit, []AlignedPair, error) {
	dp := computeDP(refPitches, playedPitches)

	edits, pairs, err := backtrack(dp, reference, played, refPitches, playedPitches)
	if err != nil {
		return nil, nil, err
	}

	adjustConfidence(reference, edits)
	return edits, pairs, nil
}

// Score runs the C1-C4 pipeline plus AnalyzeTempo (C5), bundling both into a
// single ScoringResult the way the wire schema expects it packaged.
func Score(reference, played []*Note, size []PageSize, params TempoParams) (*ScoringResult, error) {
	if err := guardInputSize(reference, played); err != nil {
		return nil, err
	}

	refPitches, playedPitches, refTimes, playedTimes := Preprocess(reference, played)

	edits, pairs, err := findOpsPrepared(reference, played, refPitches, playedPitches)
	if err != nil {
		return nil, err
	}

	sections, unstableRate := AnalyzeTempo(refTimes, playedTimes, pairs, params)

	return &ScoringResult{
		Edits:         edits,
		Size:          size,
		UnstableRate:  unstableRate,
		TempoSections: sections,
	}, nil
}
