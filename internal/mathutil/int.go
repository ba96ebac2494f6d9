package mathutil

// IntClamp limits x to the closed range [lo, hi].
func IntClamp(x, lo, hi int) int {
	return min(max(x, lo), hi)
}

// IntSign returns -1, 0, or 1 based on sign.
func IntSign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
