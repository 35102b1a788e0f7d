package instant

import (
	"math"
	"strings"
	"testing"
)

func TestLooksLikeCalculation(t *testing.T) {
	cases := map[string]bool{
		"2 + 2":        true,
		"sqrt(16)":     true,
		"weather in SF": false,
		"define cat":   false,
	}
	for q, want := range cases {
		if got := looksLikeCalculation(q); got != want {
			t.Errorf("looksLikeCalculation(%q) = %v, want %v", q, got, want)
		}
	}
}

func TestCalculatePrecedence(t *testing.T) {
	r, err := Calculate("2 + 3 * 4")
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if r.Value != 14 {
		t.Errorf("Value = %v, want 14", r.Value)
	}
}

func TestCalculateExponentRightAssociative(t *testing.T) {
	r, err := Calculate("2 ^ 3 ^ 2")
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if r.Value != 512 {
		t.Errorf("Value = %v, want 512 (2^(3^2))", r.Value)
	}
}

func TestCalculateParentheses(t *testing.T) {
	r, err := Calculate("(2 + 3) * 4")
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if r.Value != 20 {
		t.Errorf("Value = %v, want 20", r.Value)
	}
}

func TestCalculateFunctionCall(t *testing.T) {
	r, err := Calculate("sqrt(16)")
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if r.Value != 4 {
		t.Errorf("Value = %v, want 4", r.Value)
	}
}

func TestCalculateTwoArgFunction(t *testing.T) {
	r, err := Calculate("max(3, 7)")
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if r.Value != 7 {
		t.Errorf("Value = %v, want 7", r.Value)
	}
}

func TestCalculateConstants(t *testing.T) {
	r, err := Calculate("pi * 2")
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if math.Abs(r.Value-2*math.Pi) > 1e-9 {
		t.Errorf("Value = %v, want 2*pi", r.Value)
	}
}

func TestCalculateDivisionByZero(t *testing.T) {
	if _, err := Calculate("1 / 0"); err == nil {
		t.Error("expected division by zero to fail")
	}
}

func TestCalculateUnaryMinus(t *testing.T) {
	r, err := Calculate("-5 + 3")
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if r.Value != -2 {
		t.Errorf("Value = %v, want -2", r.Value)
	}
}

func TestFormatCalcValueScientificForExtremes(t *testing.T) {
	got := formatCalcValue(1e16)
	if got == "" {
		t.Fatal("expected non-empty formatted value")
	}
	if !strings.Contains(got, "e+16") {
		t.Errorf("formatCalcValue(1e16) = %q, want scientific notation", got)
	}
}
