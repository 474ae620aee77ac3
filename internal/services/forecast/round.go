package forecast

import (
	"math"
	"strconv"
)

// round2 rounds to two decimals the way a decimal fixed-point formatter does:
// the exact binary value is rounded to the nearest hundredth and exact ties go
// away from zero. strconv breaks ties to even, so ties are nudged first.
func round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	if isHundredthTie(x) {
		x = math.Nextafter(x, math.Copysign(math.Inf(1), x))
	}
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	if err != nil {
		return x
	}
	return v
}

// A binary float sits exactly between two hundredths only when it is an odd
// multiple of 1/8 (…125, …375, …625, …875).
func isHundredthTie(x float64) bool {
	e := x * 8
	if e != math.Trunc(e) || math.Abs(e) >= 1<<52 {
		return false
	}
	return math.Mod(e, 2) != 0
}
