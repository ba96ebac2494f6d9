package mathutil

import "math"

// TwoPi is a full turn in radians.
const TwoPi = 2 * math.Pi

// NormalizeAngle maps any angle into [0, 2π).
func NormalizeAngle(angle float64) float64 {
	angle = math.Remainder(angle, TwoPi)
	if angle < 0 {
		angle += TwoPi
	}
	// Remainder can hand back exactly 2π after the correction above for tiny
	// negative inputs.
	if angle >= TwoPi {
		angle -= TwoPi
	}
	return angle
}

// Distance returns the straight-line distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
