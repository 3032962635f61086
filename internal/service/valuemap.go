package service

import "math"

// MapValue places value, taken from [srcMin, srcMax], at the equivalent
// position of [dstMin, dstMax]. The source range must not be empty.
func MapValue(value, srcMin, srcMax, dstMin, dstMax float64) float64 {
	return dstMin + (value-srcMin)*(dstMax-dstMin)/(srcMax-srcMin)
}

// AlignmentCell buckets a displacement total in [-limit, limit] into one of the
// three table cells.
func AlignmentCell(total, limit int) int {
	cell := int(math.Floor(MapValue(float64(total), float64(-limit), float64(limit+1), 0, 3)))
	return min(max(cell, 0), 2)
}
