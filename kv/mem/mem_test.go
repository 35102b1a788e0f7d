package mem

import (
	"context"
	"testing"
	"time"

	"github.com/wayfind/metasearch-core/kv"
)

func TestGetSetRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get = %q, want v", got)
	}
}

func TestGetMissingReturnsErrNotFound(t *testing.T) {
	s := New()
	_, err := s.Get(context.Background(), "missing")
	if err != kv.ErrNotFound {
		t.Errorf("err = %v, want kv.ErrNotFound", err)
	}
}

func TestTTLExpiry(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.Set(ctx, "k", []byte("v"), 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	_, err := s.Get(ctx, "k")
	if err != kv.ErrNotFound {
		t.Errorf("expected expired key to miss, got err = %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.Set(ctx, "k", []byte("v"), 0)
	s.Delete(ctx, "k")
	if _, err := s.Get(ctx, "k"); err != kv.ErrNotFound {
		t.Errorf("expected deleted key to miss, got err = %v", err)
	}
}

func TestListAppendRemoveRange(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.ListAppend(ctx, "idx", "a")
	s.ListAppend(ctx, "idx", "b")
	s.ListAppend(ctx, "idx", "c")

	got, _ := s.ListRange(ctx, "idx")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	s.ListRemove(ctx, "idx", "b")
	got, _ = s.ListRange(ctx, "idx")
	want = []string{"a", "c"}
	if len(got) != len(want) {
		t.Fatalf("after remove: got %v, want %v", got, want)
	}
}
