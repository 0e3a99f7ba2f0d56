package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/orangishcat/note/internal/scoring"
	"github.com/orangishcat/note/internal/storage"
)

func testServer(t *testing.T) (*Server, *storage.LocalFixtureBucket) {
	t.Helper()
	bucket, err := storage.NewLocalFixtureBucket(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFixtureBucket: %v", err)
	}
	srv := NewServer(bucket, nil, nil, scoring.DefaultTempoParams(), 100, 100)
	return srv, bucket
}

func note(pitch int32, start, dur float64) *scoring.Note {
	return &scoring.Note{Pitch: pitch, StartTime: start, Duration: dur, Confidence: 5}
}

func TestStatusPageReturnsOK(t *testing.T) {
	srv, _ := testServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/status")
	if err != nil {
		t.Fatalf("GET /status: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("exp 200, got %d", resp.StatusCode)
	}
}

func TestReceiveNotesMissingHeadersRejected(t *testing.T) {
	srv, _ := testServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/scoring/receive-notes", "application/octet-stream", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("exp 400 for missing score/notes IDs, got %d", resp.StatusCode)
	}
}

func TestReceiveNotesRoundTrip(t *testing.T) {
	srv, bucket := testServer(t)

	reference := &scoring.NoteList{Notes: []*scoring.Note{note(60, 0, 0.5), note(62, 0.5, 0.5)}}
	key, err := bucket.Put(context.Background(), "NoteList", scoring.MarshalNoteList(reference))
	if err != nil {
		t.Fatalf("seeding reference fixture: %v", err)
	}

	played := &scoring.NoteList{Notes: []*scoring.Note{note(60, 0, 0.5), note(62, 0.5, 0.5)}}
	body := scoring.MarshalNoteList(played)

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/scoring/receive-notes", io.NopCloser(bytes.NewReader(body)))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("X-Score-ID", "score-1")
	req.Header.Set("X-Notes-ID", key)
	req.ContentLength = int64(len(body))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("exp 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Response-Format") != "recording" {
		t.Errorf("exp X-Response-Format: recording header")
	}
}
