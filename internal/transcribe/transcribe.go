// Package transcribe calls out to the external audio-to-notes transcription
// model. The model itself (a neural transcriber run on separate GPU
// infrastructure in the original deployment) is an external collaborator;
// this package only knows its HTTP contract.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/orangishcat/note/internal/scoring"
)

// noteEvent is the transcriber's wire shape for a single detected note:
// start/end in seconds, pitch and velocity as small integers.
type noteEvent struct {
	Pitch    int32   `json:"pitch"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Velocity int32   `json:"velocity"`
}

// Transcriber turns a raw audio byte stream into a NoteList.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, size []scoring.PageSize) (*scoring.NoteList, error)
}

// HTTPTranscriber posts audio bytes to a transcription endpoint and decodes
// its JSON note-event array, the Go-side equivalent of the original's
// Replicate/Beam remote call plus parse_rep_output.
type HTTPTranscriber struct {
	endpoint string
	client   *http.Client
}

// NewHTTPTranscriber builds an HTTPTranscriber against endpoint with a
// generous timeout, since transcription runs a neural model and is not a
// fast call.
func NewHTTPTranscriber(endpoint string) *HTTPTranscriber {
	return &HTTPTranscriber{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 2 * time.Minute},
	}
}

func (t *HTTPTranscriber) Transcribe(ctx context.Context, audio []byte, size []scoring.PageSize) (*scoring.NoteList, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(audio))
	if err != nil {
		return nil, fmt.Errorf("transcribe: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcribe: calling %s: %w", t.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transcribe: %s returned status %d", t.endpoint, resp.StatusCode)
	}

	var events []noteEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("transcribe: decoding response: %w", err)
	}

	return parseEvents(events, size), nil
}

// parseEvents converts the transcriber's flat event list into a NoteList,
// matching the original's parse_rep_output: page and track default to 0,
// ids are assigned in arrival order.
func parseEvents(events []noteEvent, size []scoring.PageSize) *scoring.NoteList {
	notes := make([]*scoring.Note, len(events))
	for i, ev := range events {
		notes[i] = &scoring.Note{
			Pitch:      ev.Pitch,
			StartTime:  ev.Start,
			Duration:   ev.End - ev.Start,
			Velocity:   ev.Velocity,
			Confidence: 5,
			ID:         int32(i),
		}
	}
	return &scoring.NoteList{Notes: notes, Size: size}
}
