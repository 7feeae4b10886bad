package schema

import (
	"fmt"
	"math"
	"strconv"

	"github.com/joshuapare/laskit/internal/buf"
	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/pkg/types"
)

// Option bits of an extra bytes descriptor.
const (
	OptionNoData uint8 = 1 << iota
	OptionMin
	OptionMax
	OptionScale
	OptionOffset
)

// ClashSuffix is appended to the column name of an extra field whose name
// collides with a standard field or an existing column.
const ClashSuffix = " (extra)"

// ExtraField is one user-defined attribute declared by the extra bytes VLR.
// Array fields (arity 2 or 3) map to one column per component.
type ExtraField struct {
	Type        DataType
	Options     uint8
	Name        [format.EBNameSize]byte
	Description [format.EBDescriptionSize]byte
	NoData      [format.EBMaxComponents][format.EBSlotSize]byte
	Min         [format.EBMaxComponents][format.EBSlotSize]byte
	Max         [format.EBMaxComponents][format.EBSlotSize]byte
	Scales      [format.EBMaxComponents]float64
	Offsets     [format.EBMaxComponents]float64

	// ByteOffset is the position of the field inside the record's extra
	// bytes region. Maintained by UpdateByteOffsets.
	ByteOffset int

	// Columns holds one handle per component; unused entries are NoColumn.
	Columns [format.EBMaxComponents]types.ColumnHandle

	// DisplayName replaces the raw name as column name when they clash.
	// Empty when the raw name is used.
	DisplayName string
}

// NewExtraField returns a field of type t named name with no options set.
func NewExtraField(name string, t DataType) ExtraField {
	f := ExtraField{Type: t}
	f.SetName(name)
	f.ResetColumns()
	return f
}

func fromRecord(r format.ExtraBytesRecord) ExtraField {
	f := ExtraField{
		Type:        DataTypeFromValue(r.DataType),
		Options:     r.Options,
		Name:        r.Name,
		Description: r.Description,
		NoData:      r.NoData,
		Min:         r.Min,
		Max:         r.Max,
		Scales:      r.Scale,
		Offsets:     r.Offset,
	}
	f.ResetColumns()
	return f
}

func (f *ExtraField) record() format.ExtraBytesRecord {
	return format.ExtraBytesRecord{
		DataType:    f.Type.TypeCode(),
		Options:     f.Options,
		Name:        f.Name,
		Description: f.Description,
		NoData:      f.NoData,
		Min:         f.Min,
		Max:         f.Max,
		Scale:       f.Scales,
		Offset:      f.Offsets,
	}
}

// NameString returns the raw name as text.
func (f *ExtraField) NameString() string {
	return format.DecodeFixedString(f.Name[:])
}

// SetName stores name, truncated to 32 bytes.
func (f *ExtraField) SetName(name string) {
	format.EncodeFixedString(f.Name[:], name)
}

// DescriptionString returns the raw description as text.
func (f *ExtraField) DescriptionString() string {
	return format.DecodeFixedString(f.Description[:])
}

// SetDescription stores desc, truncated to 32 bytes.
func (f *ExtraField) SetDescription(desc string) {
	format.EncodeFixedString(f.Description[:], desc)
}

// ColumnBaseName is the name columns of this field are derived from.
func (f *ExtraField) ColumnBaseName() string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.NameString()
}

// ComponentName returns the column name of component i: the base name for
// scalars, "<name> [i]" for arrays.
func (f *ExtraField) ComponentName(i int) string {
	if f.NumElements() > 1 {
		return f.NameString() + " [" + strconv.Itoa(i) + "]"
	}
	return f.ColumnBaseName()
}

// ResetColumns unbinds every component.
func (f *ExtraField) ResetColumns() {
	for i := range f.Columns {
		f.Columns[i] = types.NoColumn
	}
}

func (f *ExtraField) ElementSize() int { return f.Type.ElementSize() }
func (f *ExtraField) NumElements() int { return f.Type.NumElements(f.Options) }
func (f *ExtraField) ByteSize() int    { return f.ElementSize() * f.NumElements() }
func (f *ExtraField) Kind() Kind       { return f.Type.Kind() }

func (f *ExtraField) NoDataIsRelevant() bool { return f.Options&OptionNoData != 0 }
func (f *ExtraField) MinIsRelevant() bool    { return f.Options&OptionMin != 0 }
func (f *ExtraField) MaxIsRelevant() bool    { return f.Options&OptionMax != 0 }
func (f *ExtraField) ScaleIsRelevant() bool  { return f.Options&OptionScale != 0 }
func (f *ExtraField) OffsetIsRelevant() bool { return f.Options&OptionOffset != 0 }

// SlotValue interprets an 8-byte no-data/min/max slot according to the
// field's kind: u64 for unsigned, i64 for signed, f64 for floating types.
func (f *ExtraField) SlotValue(slot [format.EBSlotSize]byte) float64 {
	switch f.Kind() {
	case Signed:
		return float64(buf.I64LE(slot[:]))
	case Floating:
		return buf.F64LE(slot[:])
	default:
		return float64(buf.U64LE(slot[:]))
	}
}

// EncodeSlot is the inverse of SlotValue.
func (f *ExtraField) EncodeSlot(v float64) [format.EBSlotSize]byte {
	var slot [format.EBSlotSize]byte
	switch f.Kind() {
	case Signed:
		buf.PutU64LE(slot[:], uint64(int64(v)))
	case Floating:
		buf.PutF64LE(slot[:], v)
	default:
		if v < 0 {
			v = 0
		}
		buf.PutU64LE(slot[:], uint64(v))
	}
	return slot
}

// SetNoData records v as the no-data sentinel of component i and sets the
// no-data option bit.
func (f *ExtraField) SetNoData(i int, v float64) {
	f.NoData[i] = f.EncodeSlot(v)
	f.Options |= OptionNoData
}

// SetScaleOffset records the scale and offset of component i and sets both
// option bits.
func (f *ExtraField) SetScaleOffset(i int, scale, offset float64) {
	f.Scales[i] = scale
	f.Offsets[i] = offset
	f.Options |= OptionScale | OptionOffset
}

// ParseReport lists what ParseExtraFields skipped.
type ParseReport struct {
	// Dropped names descriptors whose type is undocumented or invalid.
	Dropped []string
	// Remainder is the number of trailing bytes that do not form a whole
	// descriptor; they are ignored.
	Remainder int
}

// FindExtraBytesVLR returns the first extra bytes VLR of vlrs.
func FindExtraBytesVLR(vlrs []format.VLR) (format.VLR, bool) {
	for _, v := range vlrs {
		if v.IsExtraBytes() {
			return v, true
		}
	}
	return format.VLR{}, false
}

// ParseExtraFields decodes the descriptors of an extra bytes VLR. Byte
// offsets are computed over every descriptor, then undocumented and invalid
// ones are dropped so that the surviving offsets still point at the right
// bytes. A VLR that is not the extra bytes VLR yields no fields.
func ParseExtraFields(vlr format.VLR) ([]ExtraField, ParseReport) {
	var report ParseReport
	if !vlr.IsExtraBytes() {
		return nil, report
	}

	records, rest := format.DecodeExtraBytesRecords(vlr.Data)
	report.Remainder = rest

	fields := make([]ExtraField, 0, len(records))
	offset := 0
	for _, r := range records {
		f := fromRecord(r)
		f.ByteOffset = offset
		offset += f.ByteSize()
		if !f.Type.Supported() {
			report.Dropped = append(report.Dropped, f.NameString())
			continue
		}
		fields = append(fields, f)
	}
	return fields, report
}

// EncodeExtraBytesVLR serialises fields into a LASF_Spec/4 VLR.
func EncodeExtraBytesVLR(fields []ExtraField) format.VLR {
	data := make([]byte, 0, len(fields)*format.EBRecordSize)
	for i := range fields {
		data = fields[i].record().AppendTo(data)
	}
	return format.VLR{
		UserID:   format.UserIDLASFSpec,
		RecordID: format.RecordIDExtraBytes,
		Data:     data,
	}
}

// UpdateByteOffsets makes the offsets a running sum of the byte sizes.
func UpdateByteOffsets(fields []ExtraField) {
	offset := 0
	for i := range fields {
		fields[i].ByteOffset = offset
		offset += fields[i].ByteSize()
	}
}

// TotalExtraBytesSize returns the sum of the fields' byte sizes.
func TotalExtraBytesSize(fields []ExtraField) int {
	total := 0
	for i := range fields {
		total += fields[i].ByteSize()
	}
	return total
}

// MatchExtraBytesToColumns binds each field to the store's columns and
// returns the fields for which every component was found. Partial matches
// are dropped. Applying it twice with the same store is a no-op the second
// time.
func MatchExtraBytesToColumns(fields []ExtraField, store types.AttributeStore) (matched []ExtraField, missing []string) {
	matched = fields[:0:0]
	for _, f := range fields {
		f.ResetColumns()
		ok := true
		for i := 0; i < f.NumElements() && i < format.EBMaxComponents; i++ {
			name := f.ComponentName(i)
			h := store.FindColumn(name)
			if !h.Valid() {
				missing = append(missing, name)
				ok = false
				continue
			}
			f.Columns[i] = h
		}
		if ok {
			matched = append(matched, f)
		}
	}
	return matched, missing
}

// ResolveDisplayName sets DisplayName when the field's name collides with a
// standard field name or with a column that already exists in store.
func (f *ExtraField) ResolveDisplayName(store types.AttributeStore) {
	f.DisplayName = ""
	if f.NumElements() > 1 {
		return
	}
	name := f.NameString()
	if IsStandardName(name) || store.FindColumn(name).Valid() {
		f.DisplayName = name + ClashSuffix
	}
}

// Validate checks the invariants a field must hold before it is encoded.
func (f *ExtraField) Validate() error {
	if !f.Type.Supported() {
		return fmt.Errorf("extra field %q: type %d: %w", f.NameString(), f.Type, format.ErrUnsupported)
	}
	if f.NameString() == "" {
		return fmt.Errorf("extra field without name: %w", format.ErrMalformed)
	}
	for i := 0; i < f.NumElements(); i++ {
		if f.ScaleIsRelevant() && (f.Scales[i] == 0 || math.IsNaN(f.Scales[i])) {
			return fmt.Errorf("extra field %q component %d: zero scale: %w", f.NameString(), i, format.ErrMalformed)
		}
	}
	return nil
}
