package cache

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/wayfind/metasearch-core/kv/mem"
)

func TestKeyHashDeterministic(t *testing.T) {
	k1 := Key{Query: "cats", Page: 1, PerPage: 10, Language: "en"}
	k2 := Key{Query: "cats", Page: 1, PerPage: 10, Language: "en"}
	if k1.Hash() != k2.Hash() {
		t.Error("identical keys must hash identically (P1)")
	}
}

func TestKeyHashDiffersOnPage(t *testing.T) {
	k1 := Key{Query: "cats", Page: 1}
	k2 := Key{Query: "cats", Page: 2}
	if k1.Hash() == k2.Hash() {
		t.Error("cache must key on the full tuple, not query alone (I6)")
	}
}

func TestSearchRoundTrip(t *testing.T) {
	s := New(mem.New())
	ctx := context.Background()
	k := Key{Query: "go", Page: 1, PerPage: 10}

	if _, err := s.GetSearch(ctx, k); err == nil {
		t.Fatal("expected miss before Set")
	}
	if err := s.SetSearch(ctx, k, []byte(`{"results":[]}`)); err != nil {
		t.Fatalf("SetSearch: %v", err)
	}
	got, err := s.GetSearch(ctx, k)
	if err != nil {
		t.Fatalf("GetSearch: %v", err)
	}
	if string(got) != `{"results":[]}` {
		t.Errorf("got %q", got)
	}
}

func TestKnowledgeKeyedByQueryNotHash(t *testing.T) {
	backing := mem.New()
	s := New(backing)
	ctx := context.Background()
	s.SetKnowledge(ctx, "einstein", []byte(`{"title":"Einstein"}`))
	got, err := s.GetKnowledge(ctx, "einstein")
	if err != nil {
		t.Fatalf("GetKnowledge: %v", err)
	}
	if string(got) != `{"title":"Einstein"}` {
		t.Errorf("got %q", got)
	}
	if _, err := backing.Get(ctx, "knowledge:einstein"); err != nil {
		t.Errorf("expected the entry under the raw query key knowledge:einstein: %v", err)
	}
}

func TestGetOrComputeCallsOnceOnMiss(t *testing.T) {
	s := New(mem.New())
	ctx := context.Background()
	var calls int32

	compute := func() (string, error) {
		atomic.AddInt32(&calls, 1)
		return "computed", nil
	}

	v1, err := GetOrCompute(ctx, s, "instant", "abc", TTLInstant, compute)
	if err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}
	if v1 != "computed" {
		t.Errorf("v1 = %q", v1)
	}

	v2, err := GetOrCompute(ctx, s, "instant", "abc", TTLInstant, compute)
	if err != nil {
		t.Fatalf("GetOrCompute second call: %v", err)
	}
	if v2 != "computed" {
		t.Errorf("v2 = %q", v2)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("compute called %d times, want 1 (second call should hit cache)", calls)
	}
}
