package engine

import "math"

// lnFloor returns floor(ln(n)) for n >= 1. Used by RepackingIncrementalLN.
func lnFloor(n int) int {
	if n < 1 {
		return 0
	}
	return int(math.Floor(math.Log(float64(n))))
}
