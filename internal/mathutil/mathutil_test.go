package mathutil

import (
	"math"
	"testing"
)

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"quarter", math.Pi / 2, math.Pi / 2},
		{"full turn", TwoPi, 0},
		{"negative quarter", -math.Pi / 2, 3 * math.Pi / 2},
		{"three turns and a bit", 3*TwoPi + 0.25, 0.25},
		{"just under a turn", TwoPi - 1e-9, TwoPi - 1e-9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAngle(tt.in)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if got < 0 || got >= TwoPi {
				t.Errorf("NormalizeAngle(%v) = %v, outside [0, 2π)", tt.in, got)
			}
		})
	}
}

func TestNormalizeAngle_TinyNegative(t *testing.T) {
	got := NormalizeAngle(-1e-18)
	if got < 0 || got >= TwoPi {
		t.Fatalf("expected result in [0, 2π), got %v", got)
	}
}

func TestIntClamp(t *testing.T) {
	if got := IntClamp(-5, 0, 10); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if got := IntClamp(15, 0, 10); got != 10 {
		t.Errorf("expected 10, got %d", got)
	}
	if got := IntClamp(7, 0, 10); got != 7 {
		t.Errorf("expected 7, got %d", got)
	}
}

func TestDistance(t *testing.T) {
	if got := Distance(0, 0, 3, 4); math.Abs(got-5) > 1e-12 {
		t.Errorf("expected 5, got %v", got)
	}
}
