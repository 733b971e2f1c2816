package normalization

import (
	"encoding/json"
	"math"
	"testing"
)

func TestAsString(t *testing.T) {
	cases := []struct {
		input    any
		expected string
	}{
		{" abc ", "abc"},
		{float64(12), "12"},
		{12.5, "12.5"},
		{json.Number("7"), "7"},
		{nil, ""},
		{true, ""},
	}
	for _, tc := range cases {
		if got := AsString(tc.input); got != tc.expected {
			t.Fatalf("AsString(%#v) expected %q got %q", tc.input, tc.expected, got)
		}
	}
}

func TestAsOptionalFloat64(t *testing.T) {
	if v, ok := AsOptionalFloat64(" 4.5 "); !ok || v != 4.5 {
		t.Fatalf("expected 4.5, got %v %v", v, ok)
	}
	if _, ok := AsOptionalFloat64("abc"); ok {
		t.Fatal("expected invalid string to be rejected")
	}
	if _, ok := AsOptionalFloat64(math.NaN()); ok {
		t.Fatal("expected NaN to be rejected")
	}
	if _, ok := AsOptionalFloat64(nil); ok {
		t.Fatal("expected nil to be rejected")
	}
	if v := AsFloat64(int64(3)); v != 3 {
		t.Fatalf("expected 3, got %v", v)
	}
}

func TestFirstPositive(t *testing.T) {
	source := map[string]any{"distance": 0, "dist": "-1", "distanceKm": "2.5", "range": 9}
	v, ok := FirstPositive(source, "distance", "dist", "distanceKm", "range")
	if !ok || v != 2.5 {
		t.Fatalf("expected 2.5 from distanceKm, got %v %v", v, ok)
	}
	if _, ok := FirstPositive(map[string]any{}, "distance"); ok {
		t.Fatal("expected no value")
	}
}

func TestMapFromPayload(t *testing.T) {
	wrapped := map[string]any{"data": map[string]any{"id": 1}}
	if got := MapFromPayload(wrapped); got["id"] != 1 {
		t.Fatalf("expected unwrapped data, got %#v", got)
	}
	if got := MapFromPayload("nope"); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
}

func TestNormalizeEntity(t *testing.T) {
	cases := map[string]string{
		"":              "",
		" Restaurant ":  "restaurants",
		"transaction":   "orders",
		"listings":      "listing",
		"custom_entity": "custom-entity",
	}
	for input, expected := range cases {
		if got := NormalizeEntity(input); got != expected {
			t.Fatalf("NormalizeEntity(%q) expected %q got %q", input, expected, got)
		}
	}
	if !IsValidEntity("cart") || IsValidEntity("tables") {
		t.Fatal("unexpected entity validity")
	}
}
