package scoring

import "math"

// TempoParams configures the piecewise tempo analyzer. All fields have
// documented defaults (DefaultTempoParams) and are never tuned per call by
// the engine itself; callers supply their own only to match an external
// deployment's calibration.
type TempoParams struct {
	// MinWindow is the smallest allowed smoothing/min-separation window,
	// regardless of how few aligned pairs there are.
	MinWindow int
	// WindowDivisor sizes the smoothing window as len(residuals)/WindowDivisor.
	WindowDivisor int
	// ThresholdMultiplier scales the stddev term of the change-point
	// threshold: tau = mean(|s|) + ThresholdMultiplier*stddev(|s|).
	ThresholdMultiplier float64
	// MinSeparationFloor is the smallest allowed gap between accepted
	// change points, regardless of window size.
	MinSeparationFloor int
	// UnstableScale converts stddev(|s|) into the human-facing unstable_rate
	// metric.
	UnstableScale float64
}

// DefaultTempoParams returns the engine's standard tempo analysis
// configuration (spec §4.5).
func DefaultTempoParams() TempoParams {
	return TempoParams{
		MinWindow:           3,
		WindowDivisor:       20,
		ThresholdMultiplier: 2,
		MinSeparationFloor:  5,
		UnstableScale:       1e4,
	}
}

// AnalyzeTempo is component C5: it partitions the aligned range into
// piecewise-constant tempo sections and computes a single unstable_rate
// scalar summarizing timing jitter. It consumes the aligned pairs produced
// by backtrack and is independent of the edit script.
func AnalyzeTempo(refTimes, playedTimes []float64, pairs []AlignedPair, params TempoParams) ([]*TempoSection, float64) {
	if len(pairs) < 2 {
		return nil, 0
	}

	residuals := make([]float64, len(pairs))
	for k, p := range pairs {
		residuals[k] = refTimes[p.RefIndex] - playedTimes[p.PlayedIndex]
	}

	w := params.MinWindow
	if d := len(residuals) / params.WindowDivisor; d > w {
		w = d
	}

	smoothed := movingAverage(residuals, w)
	slopes := centeredGradient(smoothed)

	absSlopes := make([]float64, len(slopes))
	for i, s := range slopes {
		absSlopes[i] = math.Abs(s)
	}
	mu := mean(absSlopes)
	sigma := stddev(absSlopes, mu)
	tau := mu + params.ThresholdMultiplier*sigma

	minSep := params.MinSeparationFloor
	if w > minSep {
		minSep = w
	}

	var changePoints []int
	lastAccepted := -minSep - 1
	for k, s := range slopes {
		if k == 0 {
			continue // a breakpoint at the very start yields an empty leading section
		}
		if math.Abs(s) > tau && k-lastAccepted >= minSep {
			changePoints = append(changePoints, k)
			lastAccepted = k
		}
	}

	var sections []*TempoSection
	start := 0
	for _, cp := range changePoints {
		sections = append(sections, &TempoSection{
			StartIndex: int32(pairs[start].RefIndex),
			EndIndex:   int32(pairs[cp].RefIndex),
			Tempo:      mean(slopes[start:cp]),
		})
		start = cp
	}
	sections = append(sections, &TempoSection{
		StartIndex: int32(pairs[start].RefIndex),
		EndIndex:   int32(pairs[len(pairs)-1].RefIndex),
		Tempo:      mean(slopes[start:]),
	})

	unstableRate := sigma * params.UnstableScale
	return sections, unstableRate
}

// reflectIndex maps an out-of-range index into [0, n) using the standard
// no-repeated-edge reflection, e.g. for n=5: ..., 2, 1, 0, 1, 2, 3, 4, 3, 2, ...
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}

// movingAverage computes a same-length centered moving average of window w,
// reflect-padding at the boundaries.
func movingAverage(d []float64, w int) []float64 {
	n := len(d)
	out := make([]float64, n)
	loOff := -(w / 2)
	hiOff := w - 1 + loOff
	for i := 0; i < n; i++ {
		sum := 0.0
		for off := loOff; off <= hiOff; off++ {
			sum += d[reflectIndex(i+off, n)]
		}
		out[i] = sum / float64(w)
	}
	return out
}

// centeredGradient mirrors numpy.gradient with unit spacing: second-order
// centered differences in the interior, first-order one-sided differences
// at the two endpoints.
func centeredGradient(d []float64) []float64 {
	n := len(d)
	out := make([]float64, n)
	if n == 1 {
		return out
	}
	out[0] = d[1] - d[0]
	out[n-1] = d[n-1] - d[n-2]
	for i := 1; i < n-1; i++ {
		out[i] = (d[i+1] - d[i-1]) / 2
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64, mu float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		diff := x - mu
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(xs)))
}
