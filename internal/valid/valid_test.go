package valid

import "testing"

func TestContentLength(t *testing.T) {
	if err := ContentLength(1024); err != nil {
		t.Errorf("exp nil for small body, got %v", err)
	}
	if err := ContentLength(MaxBodyBytes + 1); err == nil {
		t.Error("exp error for oversized body, got nil")
	}
	if err := ContentLength(-1); err == nil {
		t.Error("exp error for negative length, got nil")
	}
}

func TestAudioContentType(t *testing.T) {
	if !AudioContentType("audio/wav") {
		t.Error("exp audio/wav to be accepted")
	}
	if AudioContentType("text/plain") {
		t.Error("exp text/plain to be rejected")
	}
}

func TestPageNumber(t *testing.T) {
	if !PageNumber(0) {
		t.Error("exp page 0 to be valid")
	}
	if PageNumber(-1) {
		t.Error("exp negative page to be invalid")
	}
}
