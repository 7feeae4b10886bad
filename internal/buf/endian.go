// Package buf contains helpers for endian-safe decoding routines.
//
// LAS stores every multi-byte field little-endian. Readers return the zero
// value when the slice is too short so callers can decode optional trailing
// fields without a separate length check; writers panic on short slices like
// encoding/binary does.
package buf

import (
	"encoding/binary"
	"math"
)

// U16LE reads a little-endian uint16 from b. Returns 0 when b is too short.
func U16LE(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// U32LE reads a little-endian uint32 from b. Returns 0 when b is too short.
func U32LE(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// U64LE reads a little-endian uint64 from b. Returns 0 when b is too short.
func U64LE(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// I16LE reads a little-endian int16 from b. Returns 0 when b is too short.
func I16LE(b []byte) int16 {
	return int16(U16LE(b))
}

// I32LE reads a little-endian int32 from b. Returns 0 when b is too short.
func I32LE(b []byte) int32 {
	return int32(U32LE(b))
}

// I64LE reads a little-endian int64 from b. Returns 0 when b is too short.
func I64LE(b []byte) int64 {
	return int64(U64LE(b))
}

// F32LE reads a little-endian IEEE-754 float32 from b.
func F32LE(b []byte) float32 {
	return math.Float32frombits(U32LE(b))
}

// F64LE reads a little-endian IEEE-754 float64 from b.
func F64LE(b []byte) float64 {
	return math.Float64frombits(U64LE(b))
}

// PutU16LE writes v to b[0:2].
func PutU16LE(b []byte, v uint16) {
	binary.LittleEndian.PutUint16(b, v)
}

// PutU32LE writes v to b[0:4].
func PutU32LE(b []byte, v uint32) {
	binary.LittleEndian.PutUint32(b, v)
}

// PutU64LE writes v to b[0:8].
func PutU64LE(b []byte, v uint64) {
	binary.LittleEndian.PutUint64(b, v)
}

// PutI16LE writes v to b[0:2].
func PutI16LE(b []byte, v int16) {
	binary.LittleEndian.PutUint16(b, uint16(v))
}

// PutI32LE writes v to b[0:4].
func PutI32LE(b []byte, v int32) {
	binary.LittleEndian.PutUint32(b, uint32(v))
}

// PutF32LE writes v to b[0:4].
func PutF32LE(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

// PutF64LE writes v to b[0:8].
func PutF64LE(b []byte, v float64) {
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
}
