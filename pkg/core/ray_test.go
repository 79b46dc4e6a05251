package core

import "testing"

func TestRay_At(t *testing.T) {
	ray := NewRay(NewPoint(1, 2, 3), NewVec3(0, 0, -2))

	tests := []struct {
		name     string
		t        float64
		expected Point
	}{
		{"origin", 0, NewPoint(1, 2, 3)},
		{"forward", 1.5, NewPoint(1, 2, 0)},
		{"behind", -1, NewPoint(1, 2, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ray.At(tt.t)
			if !vecClose(got.Vec3(), tt.expected.Vec3(), tolerance) {
				t.Errorf("At(%f): expected %v, got %v", tt.t, tt.expected, got)
			}
		})
	}
}

func TestColor_Accessors(t *testing.T) {
	c := NewColor(0.1, 0.2, 0.3)
	if c.R() != 0.1 || c.G() != 0.2 || c.B() != 0.3 {
		t.Errorf("Unexpected channels for %v", c)
	}
}

func TestColor_Lerp(t *testing.T) {
	white := NewColor(1, 1, 1)
	sky := NewColor(0.5, 0.7, 1.0)

	if got := white.Lerp(sky, 0); got != white {
		t.Errorf("Lerp(0) expected %v, got %v", white, got)
	}
	if got := white.Lerp(sky, 1); got != sky {
		t.Errorf("Lerp(1) expected %v, got %v", sky, got)
	}
	mid := white.Lerp(sky, 0.5)
	if !vecClose(mid.Vec3(), NewVec3(0.75, 0.85, 1.0), tolerance) {
		t.Errorf("Lerp(0.5) expected (0.75, 0.85, 1), got %v", mid)
	}
}

func TestPoint_Sub(t *testing.T) {
	d := NewPoint(1, 1, 1).Sub(NewPoint(0, 1, -1))
	if d != NewVec3(1, 0, 2) {
		t.Errorf("Expected (1, 0, 2), got %v", d)
	}
}
