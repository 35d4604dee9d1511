package common

import "testing"

func TestLerp(t *testing.T) {
	cases := []struct {
		a, b, t, want float64
	}{
		{0, 10, 0, 0},
		{0, 10, 1, 10},
		{0, 10, 0.25, 2.5},
		{4, 2, 0.5, 3},
	}
	for _, c := range cases {
		if got := Lerp(c.a, c.b, c.t); got != c.want {
			t.Fatalf("Lerp(%v, %v, %v) = %v, want %v", c.a, c.b, c.t, got, c.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-1, 0, 2) != 0 || Clamp(3, 0, 2) != 2 || Clamp(1.5, 0, 2) != 1.5 {
		t.Fatalf("clamp out of range")
	}
}
