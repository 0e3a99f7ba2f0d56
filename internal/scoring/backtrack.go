package scoring

import "fmt"

// AlignedPair is a (reference index, played index) mapping produced while
// walking the DP table backward.
type AlignedPair struct {
	RefIndex, PlayedIndex int
}

// backtrack walks the DP table from (i*, m) toward (0, 0), emitting edits and
// aligned pairs. i* is chosen by the free end-trim (bestTrimRow). The
// check order at each step is the deterministic tie-break from spec §4.3:
// match/substitute, delete, insert, move-backward, move-forward, swap.
func backtrack(dp *dpTable, reference, played []*Note, refPitches, playedPitches []int32) ([]*Edit, []AlignedPair, error) {
	m := dp.m
	i := dp.bestTrimRow()
	j := m

	var edits []*Edit
	var pairs []AlignedPair

	for i > 0 && j > 0 {
		cur := dp.at(i, j)
		subCost := int32(0)
		if refPitches[i-1] != playedPitches[j-1] {
			subCost = opCost
		}

		switch {
		case cur == dp.at(i-1, j-1)+subCost:
			pairs = append(pairs, AlignedPair{i - 1, j - 1})
			if subCost != 0 {
				edits = append(edits, &Edit{
					Operation: OpSubstitute,
					Pos:       int32(i - 1),
					TPos:      int32(j - 1),
					SChar:     reference[i-1],
					TChar:     played[j-1],
				})
			}
			i--
			j--
			continue

		case cur == dp.at(i-1, j)+opCost:
			edits = append(edits, &Edit{
				Operation: OpDelete,
				Pos:       int32(i - 1),
				TPos:      int32(j),
				SChar:     reference[i-1],
			})
			i--
			continue

		case cur == dp.at(i, j-1)+opCost:
			edits = append(edits, &Edit{
				Operation: OpInsert,
				Pos:       int32(i),
				TPos:      int32(j - 1),
				SChar:     reference[i-1],
				TChar:     played[j-1],
			})
			j--
			continue
		}

		if k, ok := findMoveBackward(dp, i, j, cur); ok {
			pairs = append(pairs, AlignedPair{i - 1, j - 1 - k})
			i--
			j -= 1 + k
			continue
		}

		if k, ok := findMoveForward(dp, i, j, cur); ok {
			pairs = append(pairs, AlignedPair{i - 1, j + k})
			i--
			j += k
			continue
		}

		if k, ok := findSwap(dp, i, j, cur, refPitches, playedPitches); ok {
			pairs = append(pairs, AlignedPair{i - 1, j - 1 - k})
			pairs = append(pairs, AlignedPair{i - 1 - k, j - 1})
			i -= 1 + k
			j -= 1 + k
			continue
		}

		return nil, nil, fmt.Errorf("%w: stuck at dp[%d][%d]", ErrAlignmentStuck, i, j)
	}

	// Leftover played-prefix notes are flushed as leading inserts. There is
	// no corresponding reference note at this point (i is already 0), so
	// SChar is left nil rather than indexed off the played-side remainder.
	for j > 0 {
		edits = append(edits, &Edit{
			Operation: OpInsert,
			Pos:       0,
			TPos:      int32(j - 1),
			SChar:     nil,
			TChar:     played[j-1],
		})
		j--
	}

	reverseEdits(edits)
	reversePairs(pairs)

	if err := checkMonotone(pairs); err != nil {
		return nil, nil, err
	}
	return edits, pairs, nil
}

func findMoveBackward(dp *dpTable, i, j int, cur int32) (k int, ok bool) {
	for k = 1; k <= maxMoveSwap; k++ {
		if j-1-k < 0 {
			break
		}
		if cur == dp.at(i-1, j-1-k)+moveSwapCost {
			return k, true
		}
	}
	return 0, false
}

func findMoveForward(dp *dpTable, i, j int, cur int32) (k int, ok bool) {
	for k = 1; k <= maxMoveSwap; k++ {
		if j+k > dp.m {
			break
		}
		if cur == dp.at(i-1, j+k)+moveSwapCost {
			return k, true
		}
	}
	return 0, false
}

func findSwap(dp *dpTable, i, j int, cur int32, refPitches, playedPitches []int32) (k int, ok bool) {
	for k = 1; k <= maxMoveSwap; k++ {
		if i-1-k < 0 || j-1-k < 0 {
			break
		}
		if cur == dp.at(i-1-k, j-1-k)+moveSwapCost &&
			refPitches[i-1] == playedPitches[j-1-k] &&
			refPitches[i-1-k] == playedPitches[j-1] {
			return k, true
		}
	}
	return 0, false
}

func reverseEdits(edits []*Edit) {
	for l, r := 0, len(edits)-1; l < r; l, r = l+1, r-1 {
		edits[l], edits[r] = edits[r], edits[l]
	}
}

func reversePairs(pairs []AlignedPair) {
	for l, r := 0, len(pairs)-1; l < r; l, r = l+1, r-1 {
		pairs[l], pairs[r] = pairs[r], pairs[l]
	}
}

// checkMonotone verifies aligned pairs strictly increase in both
// components, except for the single adjacent-pair crossing a swap
// introduces (open question (a) in spec §9: added as an explicit
// post-check rather than trusting the recurrence blindly).
func checkMonotone(pairs []AlignedPair) error {
	for k := 1; k < len(pairs); k++ {
		prev, next := pairs[k-1], pairs[k]
		if next.RefIndex <= prev.RefIndex {
			return fmt.Errorf("%w: non-increasing reference index at pair %d", ErrAlignmentStuck, k)
		}
		// The played index may cross exactly once per swap (the two pairs a
		// swap contributes are emitted back-to-back); anything worse than a
		// single-step regression indicates a genuine DP/backtrack bug.
		if next.PlayedIndex <= prev.PlayedIndex && k >= 2 {
			if pairs[k-2].PlayedIndex >= next.PlayedIndex {
				return fmt.Errorf("%w: non-increasing played index at pair %d", ErrAlignmentStuck, k)
			}
		}
	}
	return nil
}
