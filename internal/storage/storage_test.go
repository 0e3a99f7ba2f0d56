package storage

import (
	"context"
	"testing"
)

func TestLocalFixtureBucketPutThenGet(t *testing.T) {
	b, err := NewLocalFixtureBucket(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFixtureBucket: %v", err)
	}

	ctx := context.Background()
	want := []byte("recording payload")
	key, err := b.Put(ctx, "Recording-score1", want)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := b.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("exp %q, got %q", want, got)
	}
}

func TestLocalFixtureBucketGetMissingKeyErrors(t *testing.T) {
	b, err := NewLocalFixtureBucket(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFixtureBucket: %v", err)
	}
	if _, err := b.Get(context.Background(), "does-not-exist"); err == nil {
		t.Error("exp error for missing key, got nil")
	}
}
