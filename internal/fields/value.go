package fields

import (
	"math"

	"github.com/joshuapare/laskit/internal/buf"
	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/internal/schema"
)

// Value is one decoded extra bytes component. The kind tag says which of
// the three representations is set; integers are widened to 64 bits.
type Value struct {
	Kind schema.Kind
	U    uint64
	I    int64
	F    float64
}

// Float64 converts the value to the store representation.
func (v Value) Float64() float64 {
	switch v.Kind {
	case schema.Signed:
		return float64(v.I)
	case schema.Floating:
		return v.F
	default:
		return float64(v.U)
	}
}

// DecodeElement reads one component of type t from b.
func DecodeElement(t schema.DataType, b []byte) Value {
	v := Value{Kind: t.Kind()}
	switch size := t.ElementSize(); v.Kind {
	case schema.Floating:
		if size == 4 {
			v.F = float64(buf.F32LE(b))
		} else {
			v.F = buf.F64LE(b)
		}
	case schema.Signed:
		switch size {
		case 1:
			v.I = int64(int8(b[0]))
		case 2:
			v.I = int64(buf.I16LE(b))
		case 4:
			v.I = int64(buf.I32LE(b))
		case 8:
			v.I = buf.I64LE(b)
		}
	default:
		switch size {
		case 1:
			v.U = uint64(b[0])
		case 2:
			v.U = uint64(buf.U16LE(b))
		case 4:
			v.U = uint64(buf.U32LE(b))
		case 8:
			v.U = buf.U64LE(b)
		}
	}
	return v
}

// EncodeElement writes v as one component of type t into b, saturating to
// the destination width.
func EncodeElement(t schema.DataType, b []byte, v float64) {
	switch size := t.ElementSize(); t.Kind() {
	case schema.Floating:
		if size == 4 {
			buf.PutF32LE(b, float32(v))
		} else {
			buf.PutF64LE(b, v)
		}
	case schema.Signed:
		switch size {
		case 1:
			b[0] = byte(SaturateI8(v))
		case 2:
			buf.PutI16LE(b, SaturateI16(v))
		case 4:
			buf.PutI32LE(b, SaturateI32(v))
		case 8:
			buf.PutU64LE(b, uint64(SaturateI64(v)))
		}
	default:
		switch size {
		case 1:
			b[0] = SaturateU8(v)
		case 2:
			buf.PutU16LE(b, SaturateU16(v))
		case 4:
			buf.PutU32LE(b, SaturateU32(v))
		case 8:
			buf.PutU64LE(b, SaturateU64(v))
		}
	}
}

// isNoData compares a raw component against the field's no-data slot in
// the component's own representation.
func isNoData(f *schema.ExtraField, i int, v Value) bool {
	slot := f.NoData[i][:]
	switch v.Kind {
	case schema.Signed:
		return v.I == buf.I64LE(slot)
	case schema.Floating:
		nd := buf.F64LE(slot)
		if f.ElementSize() == 4 {
			return float32(v.F) == float32(nd)
		}
		return v.F == nd || (math.IsNaN(v.F) && math.IsNaN(nd))
	default:
		return v.U == buf.U64LE(slot)
	}
}

// decodeComponent turns raw component i into its store value: NaN for
// no-data, otherwise value*scale+offset for the relevant option bits.
func decodeComponent(f *schema.ExtraField, i int, raw []byte) float64 {
	v := DecodeElement(f.Type, raw)
	if f.NoDataIsRelevant() && isNoData(f, i, v) {
		return math.NaN()
	}
	out := v.Float64()
	if f.ScaleIsRelevant() {
		out *= f.Scales[i]
	}
	if f.OffsetIsRelevant() {
		out += f.Offsets[i]
	}
	return out
}

// encodeComponent is the inverse of decodeComponent.
func encodeComponent(f *schema.ExtraField, i int, dst []byte, v float64) {
	if math.IsNaN(v) {
		if f.NoDataIsRelevant() {
			copy(dst[:f.ElementSize()], noDataBytes(f, i))
			return
		}
		EncodeElement(f.Type, dst, 0)
		return
	}
	if f.OffsetIsRelevant() {
		v -= f.Offsets[i]
	}
	if f.ScaleIsRelevant() && f.Scales[i] != 0 {
		v /= f.Scales[i]
	}
	EncodeElement(f.Type, dst, v)
}

// noDataBytes returns the no-data sentinel of component i at the element
// width. Integer sentinels are little-endian, so narrowing is a prefix.
func noDataBytes(f *schema.ExtraField, i int) []byte {
	if f.Kind() == schema.Floating {
		out := make([]byte, format.EBSlotSize)
		EncodeElement(f.Type, out, f.SlotValue(f.NoData[i]))
		return out[:f.ElementSize()]
	}
	return f.NoData[i][:f.ElementSize()]
}
