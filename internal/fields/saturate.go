package fields

import "math"

// Saturating conversions from the float64 store representation to record
// field widths. Values are rounded to the nearest integer, NaN becomes 0 and
// out of range values clamp to the destination's min or max.

func clamp(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v <= lo:
		return lo
	case v >= hi:
		return hi
	default:
		return math.Round(v)
	}
}

// SaturateU8 converts v to uint8.
func SaturateU8(v float64) uint8 { return uint8(clamp(v, 0, math.MaxUint8)) }

// SaturateU16 converts v to uint16.
func SaturateU16(v float64) uint16 { return uint16(clamp(v, 0, math.MaxUint16)) }

// SaturateU32 converts v to uint32.
func SaturateU32(v float64) uint32 { return uint32(clamp(v, 0, math.MaxUint32)) }

// SaturateI8 converts v to int8.
func SaturateI8(v float64) int8 { return int8(clamp(v, math.MinInt8, math.MaxInt8)) }

// SaturateI16 converts v to int16.
func SaturateI16(v float64) int16 { return int16(clamp(v, math.MinInt16, math.MaxInt16)) }

// SaturateI32 converts v to int32.
func SaturateI32(v float64) int32 { return int32(clamp(v, math.MinInt32, math.MaxInt32)) }

// SaturateU64 converts v to uint64. Values at or above 2^64 clamp to the max.
func SaturateU64(v float64) uint64 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 1<<64:
		return math.MaxUint64
	default:
		return uint64(math.Round(v))
	}
}

// SaturateI64 converts v to int64.
func SaturateI64(v float64) int64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v <= math.MinInt64:
		return math.MinInt64
	case v >= 1<<63:
		return math.MaxInt64
	default:
		return int64(math.Round(v))
	}
}

// SaturateBits converts v to an unsigned value of the given bit width.
func SaturateBits(v float64, bits uint) uint8 {
	return uint8(clamp(v, 0, float64(uint(1)<<bits-1)))
}

// Flag converts v to a single bit: 1 for any positive value.
func Flag(v float64) uint8 {
	if v > 0 {
		return 1
	}
	return 0
}
