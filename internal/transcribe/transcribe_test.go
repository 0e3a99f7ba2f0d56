package transcribe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPTranscriberTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("exp POST, got %s", r.Method)
		}
		events := []noteEvent{
			{Pitch: 60, Start: 0.0, End: 0.5, Velocity: 90},
			{Pitch: 64, Start: 0.5, End: 1.0, Velocity: 80},
		}
		_ = json.NewEncoder(w).Encode(events)
	}))
	defer srv.Close()

	tr := NewHTTPTranscriber(srv.URL)
	nl, err := tr.Transcribe(context.Background(), []byte("fake-audio"), nil)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(nl.Notes) != 2 {
		t.Fatalf("exp 2 notes, got %d", len(nl.Notes))
	}
	if nl.Notes[0].Pitch != 60 || nl.Notes[0].Duration != 0.5 {
		t.Errorf("exp pitch 60 duration 0.5, got %+v", nl.Notes[0])
	}
	if nl.Notes[1].ID != 1 {
		t.Errorf("exp second note ID 1, got %d", nl.Notes[1].ID)
	}
}

func TestHTTPTranscriberNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tr := NewHTTPTranscriber(srv.URL)
	if _, err := tr.Transcribe(context.Background(), nil, nil); err == nil {
		t.Error("exp error for 500 response, got nil")
	}
}
