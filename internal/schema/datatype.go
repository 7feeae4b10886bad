package schema

// DataType is the type code of an extra bytes descriptor. Codes 1-10 are
// scalars, 11-20 two-element arrays and 21-30 three-element arrays of the
// same element kinds.
type DataType uint8

const (
	Undocumented DataType = iota
	U8
	I8
	U16
	I16
	U32
	I32
	U64
	I64
	F32
	F64
	U8x2
	I8x2
	U16x2
	I16x2
	U32x2
	I32x2
	U64x2
	I64x2
	F32x2
	F64x2
	U8x3
	I8x3
	U16x3
	I16x3
	U32x3
	I32x3
	U64x3
	I64x3
	F32x3
	F64x3
	Invalid
)

// Kind is the element representation of a data type.
type Kind int

const (
	Unsigned Kind = iota
	Signed
	Floating
)

// DataTypeFromValue maps a stored type code to a DataType. Codes above 30
// map to Invalid.
func DataTypeFromValue(v uint8) DataType {
	if v > uint8(F64x3) {
		return Invalid
	}
	return DataType(v)
}

// TypeCode returns the value stored in the descriptor.
func (t DataType) TypeCode() uint8 {
	return uint8(t)
}

// base returns the scalar type of an array type.
func (t DataType) base() DataType {
	switch {
	case t >= U8x3 && t <= F64x3:
		return t - 20
	case t >= U8x2 && t <= F64x2:
		return t - 10
	default:
		return t
	}
}

// Supported reports whether values of t can be mapped to columns.
func (t DataType) Supported() bool {
	return t != Undocumented && t < Invalid
}

// ElementSize returns the size of one component in bytes. Undocumented
// data counts as bytes; Invalid has size 0.
func (t DataType) ElementSize() int {
	switch t.base() {
	case Undocumented, U8, I8:
		return 1
	case U16, I16:
		return 2
	case U32, I32, F32:
		return 4
	case U64, I64, F64:
		return 8
	default:
		return 0
	}
}

// NumElements returns the array arity. Undocumented types carry their byte
// count in the options byte.
func (t DataType) NumElements(options uint8) int {
	switch {
	case t == Undocumented:
		return int(options)
	case t >= U8 && t <= F64:
		return 1
	case t >= U8x2 && t <= F64x2:
		return 2
	case t >= U8x3 && t <= F64x3:
		return 3
	default:
		return 0
	}
}

// Kind returns how components are represented.
func (t DataType) Kind() Kind {
	switch t.base() {
	case I8, I16, I32, I64:
		return Signed
	case F32, F64:
		return Floating
	default:
		return Unsigned
	}
}

var typeNames = [...]string{
	"undocumented",
	"u8", "i8", "u16", "i16", "u32", "i32", "u64", "i64", "f32", "f64",
}

func (t DataType) String() string {
	if t >= Invalid {
		return "invalid"
	}
	name := typeNames[t.base()]
	switch n := t.NumElements(0); {
	case t == Undocumented:
		return name
	case n > 1:
		return name + "[" + string(rune('0'+n)) + "]"
	default:
		return name
	}
}

// ParseDataType is the inverse of String for supported types.
func ParseDataType(s string) (DataType, bool) {
	for t := U8; t < Invalid; t++ {
		if t.String() == s {
			return t, true
		}
	}
	return Invalid, false
}

// ArrayOf returns the type with the same element kind as t and n components.
func (t DataType) ArrayOf(n int) DataType {
	b := t.base()
	if !b.Supported() {
		return t
	}
	switch n {
	case 2:
		return b + 10
	case 3:
		return b + 20
	default:
		return b
	}
}
