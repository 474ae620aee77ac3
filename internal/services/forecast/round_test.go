package forecast

import "testing"

func TestRound2(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{3.14159, 3.14},
		{1.005, 1.00}, // binary value sits below the tie
		{2.675, 2.67},
		{0.125, 0.13},
		{1.375, 1.38},
		{0.625, 0.63},
		{-0.125, -0.13},
		{10.235, 10.23},
		{99.995, 100},
		{0, 0},
		{42, 42},
	}
	for _, c := range cases {
		if got := round2(c.in); got != c.want {
			t.Fatalf("round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
