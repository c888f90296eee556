package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name       string
		current    string
		remembered string
		ok         bool
		want       Movement
	}{
		{"up", "105", "100", true, MovementUp},
		{"down", "100", "105", true, MovementDown},
		{"flat", "100", "100", true, MovementFlat},
		{"flat different scale", "100.10", "100.1", true, MovementFlat},
		{"tiny up", "0.30000000000000001", "0.3", true, MovementUp},
		{"unknown", "100", "0", false, MovementUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(decimal.RequireFromString(tt.current), decimal.RequireFromString(tt.remembered), tt.ok)
			if got != tt.want {
				t.Errorf("Compare(%s, %s, %v) = %v, want %v", tt.current, tt.remembered, tt.ok, got, tt.want)
			}
		})
	}
}

func TestCompareIsSymmetric(t *testing.T) {
	prices := []string{"0", "0.01", "1", "99.99", "100", "86000.5", "123456789.123"}
	for _, a := range prices {
		for _, b := range prices {
			p1, p2 := decimal.RequireFromString(a), decimal.RequireFromString(b)
			if !p1.GreaterThan(p2) {
				continue
			}
			if got := Compare(p1, p2, true); got != MovementUp {
				t.Errorf("Compare(%s, %s) = %v, want up", a, b, got)
			}
			if got := Compare(p2, p1, true); got != MovementDown {
				t.Errorf("Compare(%s, %s) = %v, want down", b, a, got)
			}
		}
		p := decimal.RequireFromString(a)
		if got := Compare(p, p, true); got != MovementFlat {
			t.Errorf("Compare(%s, %s) = %v, want flat", a, a, got)
		}
	}
}

func TestMarkersDistinguishAllMovements(t *testing.T) {
	for _, mk := range []Markers{DefaultMarkers} {
		seen := map[string]Movement{}
		for _, m := range []Movement{MovementUnknown, MovementUp, MovementDown, MovementFlat} {
			s := mk.For(m)
			if prev, dup := seen[s]; dup {
				t.Fatalf("marker %q used for both %v and %v", s, prev, m)
			}
			seen[s] = m
		}
	}
}
