package midiimport

import "testing"

func TestTicksToSecondsAtDefaultTempo(t *testing.T) {
	// 480 ticks per quarter, default 500000 us/quarter (120 BPM):
	// one quarter note should take exactly 0.5s.
	got := ticksToSeconds(480, defaultMicrosecondsPerQuarter, 480)
	if got != 0.5 {
		t.Errorf("exp 0.5s for one quarter note, got %v", got)
	}
}

func TestTickClockSecondsAccumulatesAcrossTempoChanges(t *testing.T) {
	clock := newTickClock(480, []tempoChange{
		{tick: 0, usPerQtr: defaultMicrosecondsPerQuarter}, // 120 BPM until tick 480
		{tick: 480, usPerQtr: 250000},                      // then 240 BPM
	})

	if got := clock.seconds(0); got != 0 {
		t.Errorf("exp 0s at tick 0, got %v", got)
	}
	if got := clock.seconds(480); got != 0.5 {
		t.Errorf("exp 0.5s at tick 480 (still at 120 BPM), got %v", got)
	}
	// one more quarter note at 240 BPM takes 0.25s
	if got := clock.seconds(960); got != 0.75 {
		t.Errorf("exp 0.75s at tick 960, got %v", got)
	}
}

func TestTickClockNoTempoChangesUsesDefault(t *testing.T) {
	clock := newTickClock(480, []tempoChange{{tick: 0, usPerQtr: defaultMicrosecondsPerQuarter}})
	if got := clock.seconds(240); got != 0.25 {
		t.Errorf("exp 0.25s at tick 240, got %v", got)
	}
}
