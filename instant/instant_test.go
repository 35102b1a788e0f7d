package instant

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/wayfind/metasearch-core/kv/mem"
)

func TestDetectCalculator(t *testing.T) {
	e := New(nil, NewCurrencyResolver(nil, mem.New(), zerolog.Nop()), zerolog.Nop())
	a, err := e.Detect(context.Background(), "2 + 2")
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	if a == nil || a.Type != "calculator" || a.Calculator.Value != 4 {
		t.Fatalf("got %+v", a)
	}
}

func TestDetectConversion(t *testing.T) {
	e := New(nil, NewCurrencyResolver(nil, mem.New(), zerolog.Nop()), zerolog.Nop())
	a, err := e.Detect(context.Background(), "10 km to mi")
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	if a == nil || a.Type != "unit_conversion" {
		t.Fatalf("got %+v", a)
	}
}

func TestDetectNoMatchReturnsNil(t *testing.T) {
	e := New(nil, NewCurrencyResolver(nil, mem.New(), zerolog.Nop()), zerolog.Nop())
	a, err := e.Detect(context.Background(), "the capital of france")
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	if a != nil {
		t.Fatalf("expected nil for non-matching query, got %+v", a)
	}
}

func TestDetectEmptyQueryReturnsNil(t *testing.T) {
	e := New(nil, NewCurrencyResolver(nil, mem.New(), zerolog.Nop()), zerolog.Nop())
	a, err := e.Detect(context.Background(), "   ")
	if err != nil || a != nil {
		t.Fatalf("expected (nil, nil) for blank query, got (%+v, %v)", a, err)
	}
}
