package bangs

import (
	"context"
	"testing"

	"github.com/wayfind/metasearch-core/kv/mem"
)

func newStore() *Store {
	return NewStore(mem.New())
}

func TestParseLeadingBangWins(t *testing.T) {
	s := newStore()
	r := s.Parse(context.Background(), "!gh search !i golang")
	if r.Bang == nil || r.Bang.Trigger != "gh" {
		t.Fatalf("expected leading bang gh to win, got %+v", r.Bang)
	}
	if r.Query != "search !i golang" {
		t.Errorf("Query = %q", r.Query)
	}
}

func TestParseTrailingBang(t *testing.T) {
	s := newStore()
	r := s.Parse(context.Background(), "golang tutorial !yt")
	if r.Bang == nil || r.Bang.Trigger != "yt" {
		t.Fatalf("expected trailing bang yt, got %+v", r.Bang)
	}
	if r.Query != "golang tutorial" {
		t.Errorf("Query = %q", r.Query)
	}
}

func TestParseMiddleBangIsNotABang(t *testing.T) {
	s := newStore()
	r := s.Parse(context.Background(), "search !gh for repos")
	if r.Bang != nil {
		t.Errorf("mid-query bang must not trigger (P6), got %+v", r.Bang)
	}
	if r.Query != "search !gh for repos" {
		t.Errorf("Query = %q, want unchanged", r.Query)
	}
}

func TestParseUnknownBangPassesThrough(t *testing.T) {
	s := newStore()
	r := s.Parse(context.Background(), "!nope something")
	if r.Bang != nil {
		t.Errorf("unknown trigger should not match, got %+v", r.Bang)
	}
}

func TestInternalBangClassification(t *testing.T) {
	s := newStore()
	r := s.Parse(context.Background(), "!i cats")
	if r.Bang == nil {
		t.Fatal("expected !i to match")
	}
	if r.Category != "images" {
		t.Errorf("Category = %q, want images", r.Category)
	}
	if r.Redirect != "/images?q=cats" {
		t.Errorf("Redirect = %q", r.Redirect)
	}
}

func TestExternalBangRedirect(t *testing.T) {
	s := newStore()
	r := s.Parse(context.Background(), "!g golang")
	if r.Redirect != "https://www.google.com/search?q=golang" {
		t.Errorf("Redirect = %q", r.Redirect)
	}
}

func TestCreateCannotShadowBuiltin(t *testing.T) {
	s := newStore()
	err := s.Create(context.Background(), Bang{Trigger: "g", Name: "Evil", URLTemplate: "https://evil.example/{query}"})
	if err == nil {
		t.Fatal("expected shadowing a built-in to fail (P7)")
	}
}

func TestCreateCustomBangAndParse(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	if err := s.Create(ctx, Bang{Trigger: "mine", Name: "Mine", URLTemplate: "https://mine.example/?q={query}", Category: "general"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	r := s.Parse(ctx, "!mine hello")
	if r.Bang == nil || r.Bang.Name != "Mine" {
		t.Fatalf("expected custom bang to parse, got %+v", r.Bang)
	}
}

func TestListIncludesBuiltinsAndCustom(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	s.Create(ctx, Bang{Trigger: "mine", Name: "Mine", URLTemplate: "https://mine.example/?q={query}"})
	list := s.List(ctx)
	if len(list) != len(builtins)+1 {
		t.Errorf("List length = %d, want %d", len(list), len(builtins)+1)
	}
}

func TestDeleteCannotRemoveBuiltin(t *testing.T) {
	s := newStore()
	if err := s.Delete(context.Background(), "g"); err == nil {
		t.Fatal("expected deleting a built-in to fail")
	}
}
