package common

// Logical resolution of the debug viewer.
const (
	ViewWidth  = 960
	ViewHeight = 540
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
