// Package midiimport turns a standard MIDI file into the note-alignment
// engine's NoteList shape. It is the one place in this module that touches
// raw MIDI bytes; everything downstream works with (pitch, time, duration)
// triples.
package midiimport

import (
	"fmt"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/orangishcat/note/internal/scoring"
)

const defaultMicrosecondsPerQuarter = 500000 // 120 BPM, same default the format itself assumes

// tempoChange records a tempo-meta event at a given absolute tick.
type tempoChange struct {
	tick     int64
	usPerQtr int64
}

// Import reads the SMF file at path and returns a NoteList with one Note per
// matched note-on/note-off pair, ordered by start time with IDs renumbered to
// match that order (the caller is expected to run scoring.Preprocess before
// comparing it against anything).
func Import(path string) (*scoring.NoteList, error) {
	s, err := smf.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("midiimport: reading %s: %w", path, err)
	}

	ticksPerQuarter, err := resolution(s)
	if err != nil {
		return nil, err
	}

	tempos := collectTempoChanges(s)
	clock := newTickClock(ticksPerQuarter, tempos)

	var notes []*scoring.Note
	for trackNo, track := range s.Tracks {
		notes = append(notes, extractTrackNotes(track, trackNo, clock)...)
	}

	sort.Slice(notes, func(i, j int) bool { return notes[i].StartTime < notes[j].StartTime })
	for i, n := range notes {
		n.ID = int32(i)
	}

	return &scoring.NoteList{Notes: notes}, nil
}

func resolution(s smf.SMF) (int64, error) {
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return 0, fmt.Errorf("midiimport: only metric-tick SMF files are supported")
	}
	return int64(mt.Ticks4th()), nil
}

func collectTempoChanges(s smf.SMF) []tempoChange {
	changes := []tempoChange{{tick: 0, usPerQtr: defaultMicrosecondsPerQuarter}}
	for _, track := range s.Tracks {
		var abs int64
		for _, ev := range track {
			abs += int64(ev.Delta)
			var bpm float64
			if ev.Message.GetMetaTempo(&bpm) && bpm > 0 {
				changes = append(changes, tempoChange{tick: abs, usPerQtr: int64(60000000 / bpm)})
			}
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].tick < changes[j].tick })
	return changes
}

// tickClock converts absolute tick counts to seconds, integrating across
// tempo changes the way a sequencer's transport would.
type tickClock struct {
	ticksPerQuarter int64
	changes         []tempoChange
}

func newTickClock(ticksPerQuarter int64, changes []tempoChange) *tickClock {
	return &tickClock{ticksPerQuarter: ticksPerQuarter, changes: changes}
}

func (c *tickClock) seconds(tick int64) float64 {
	var seconds float64
	var prevTick int64
	usPerQtr := int64(defaultMicrosecondsPerQuarter)

	for _, ch := range c.changes {
		if ch.tick >= tick {
			break
		}
		seconds += ticksToSeconds(ch.tick-prevTick, usPerQtr, c.ticksPerQuarter)
		prevTick = ch.tick
		usPerQtr = ch.usPerQtr
	}
	seconds += ticksToSeconds(tick-prevTick, usPerQtr, c.ticksPerQuarter)
	return seconds
}

func ticksToSeconds(ticks, usPerQtr, ticksPerQuarter int64) float64 {
	if ticksPerQuarter == 0 {
		return 0
	}
	return float64(ticks) * float64(usPerQtr) / float64(ticksPerQuarter) / 1e6
}

func extractTrackNotes(track smf.Track, trackNo int, clock *tickClock) []*scoring.Note {
	type pending struct {
		startTick int64
		velocity  uint8
	}
	open := map[uint8]pending{}

	var notes []*scoring.Note
	var abs int64
	for _, ev := range track {
		abs += int64(ev.Delta)
		var channel, key, velocity uint8

		if ev.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0 {
			open[key] = pending{startTick: abs, velocity: velocity}
			continue
		}

		isNoteOff := ev.Message.GetNoteOff(&channel, &key, &velocity)
		isZeroVelocityOn := ev.Message.GetNoteOn(&channel, &key, &velocity) && velocity == 0
		if isNoteOff || isZeroVelocityOn {
			p, ok := open[key]
			if !ok {
				continue
			}
			delete(open, key)
			start := clock.seconds(p.startTick)
			end := clock.seconds(abs)
			notes = append(notes, &scoring.Note{
				Pitch:      int32(key),
				StartTime:  start,
				Duration:   end - start,
				Velocity:   int32(p.velocity),
				Track:      int32(trackNo),
				Confidence: 5,
			})
		}
	}
	return notes
}
