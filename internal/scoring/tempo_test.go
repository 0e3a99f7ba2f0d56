package scoring

import "testing"

func TestAnalyzeTempoTooFewPairsReturnsZero(t *testing.T) {
	sections, rate := AnalyzeTempo([]float64{0}, []float64{0}, []AlignedPair{{0, 0}}, DefaultTempoParams())
	if sections != nil {
		t.Errorf("exp nil sections, got %v", sections)
	}
	if rate != 0 {
		t.Errorf("exp 0 unstable_rate, got %v", rate)
	}
}

func TestAnalyzeTempoSteadyTempoIsOneSection(t *testing.T) {
	n := 40
	refTimes := make([]float64, n)
	playedTimes := make([]float64, n)
	pairs := make([]AlignedPair, n)
	for i := 0; i < n; i++ {
		refTimes[i] = float64(i) * 0.5
		playedTimes[i] = float64(i) * 0.5
		pairs[i] = AlignedPair{i, i}
	}

	sections, rate := AnalyzeTempo(refTimes, playedTimes, pairs, DefaultTempoParams())
	if len(sections) != 1 {
		t.Fatalf("exp 1 section for perfectly steady tempo, got %d: %+v", len(sections), sections)
	}
	if sections[0].StartIndex != 0 || sections[0].EndIndex != int32(n-1) {
		t.Errorf("exp section to cover [0,%d], got [%d,%d]", n-1, sections[0].StartIndex, sections[0].EndIndex)
	}
	if rate != 0 {
		t.Errorf("exp unstable_rate 0 for zero residual variance, got %v", rate)
	}
}

func TestAnalyzeTempoSectionsContiguousAndOrdered(t *testing.T) {
	n := 60
	refTimes := make([]float64, n)
	playedTimes := make([]float64, n)
	pairs := make([]AlignedPair, n)
	for i := 0; i < n; i++ {
		refTimes[i] = float64(i) * 0.5
		pairs[i] = AlignedPair{i, i}
		if i < n/2 {
			playedTimes[i] = float64(i) * 0.5
		} else {
			// doubles the playback rate partway through
			playedTimes[i] = playedTimes[n/2-1] + float64(i-(n/2-1))*0.25
		}
	}

	sections, _ := AnalyzeTempo(refTimes, playedTimes, pairs, DefaultTempoParams())
	if len(sections) == 0 {
		t.Fatal("exp at least one tempo section")
	}
	if sections[0].StartIndex != 0 {
		t.Errorf("exp first section to start at 0, got %d", sections[0].StartIndex)
	}
	if sections[len(sections)-1].EndIndex != int32(n-1) {
		t.Errorf("exp last section to end at %d, got %d", n-1, sections[len(sections)-1].EndIndex)
	}
	for i := 1; i < len(sections); i++ {
		if sections[i].StartIndex != sections[i-1].EndIndex {
			t.Errorf("section %d does not contiguously follow section %d: %+v, %+v",
				i, i-1, sections[i-1], sections[i])
		}
	}
}

func TestReflectIndexMirrorsWithoutRepeatingEdge(t *testing.T) {
	n := 5
	cases := map[int]int{
		0: 0, 4: 4,
		-1: 1, -2: 2, -5: 3,
		5: 3, 6: 2, 9: 1,
	}
	for in, want := range cases {
		if got := reflectIndex(in, n); got != want {
			t.Errorf("reflectIndex(%d, %d): exp %d, got %d", in, n, want, got)
		}
	}
}

func TestMovingAverageConstantInputIsUnchanged(t *testing.T) {
	d := []float64{3, 3, 3, 3, 3, 3, 3}
	out := movingAverage(d, 3)
	for i, v := range out {
		if v != 3 {
			t.Errorf("index %d: exp 3, got %v", i, v)
		}
	}
}

func TestCenteredGradientOfLinearRampIsConstant(t *testing.T) {
	d := []float64{0, 2, 4, 6, 8, 10}
	out := centeredGradient(d)
	for i, v := range out {
		if v != 2 {
			t.Errorf("index %d: exp slope 2, got %v", i, v)
		}
	}
}
