package common

import "math"

// Mod returns a modulo m in [0, m) for any a, including negatives.
func Mod(a, m int) int {
	if m <= 0 {
		return 0
	}
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// Step returns the n-th of total evenly spaced integer positions between start
// and target, rounding halves up. Step(start, target, total, total) is always
// exactly target.
func Step(start, target, n, total int) int {
	if total <= 0 || n >= total {
		return target
	}
	if n <= 0 {
		return start
	}
	return int(math.Floor(float64(target-start)*float64(n)/float64(total)+0.5)) + start
}
