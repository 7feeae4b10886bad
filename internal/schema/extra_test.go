package schema

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/laskit/internal/cloud"
	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/pkg/types"
)

func descriptor(dataType, options uint8, name string) []byte {
	b := make([]byte, format.EBRecordSize)
	b[format.EBDataTypeOffset] = dataType
	b[format.EBOptionsOffset] = options
	copy(b[format.EBNameOffset:], name)
	return b
}

func extraVLR(records ...[]byte) format.VLR {
	var data []byte
	for _, r := range records {
		data = append(data, r...)
	}
	return format.VLR{UserID: format.UserIDLASFSpec, RecordID: format.RecordIDExtraBytes, Data: data}
}

func TestDataTypeTable(t *testing.T) {
	cases := []struct {
		code  uint8
		size  int
		arity int
		kind  Kind
	}{
		{1, 1, 1, Unsigned}, {2, 1, 1, Signed}, {3, 2, 1, Unsigned}, {4, 2, 1, Signed},
		{5, 4, 1, Unsigned}, {6, 4, 1, Signed}, {7, 8, 1, Unsigned}, {8, 8, 1, Signed},
		{9, 4, 1, Floating}, {10, 8, 1, Floating},
		{11, 1, 2, Unsigned}, {14, 2, 2, Signed}, {20, 8, 2, Floating},
		{21, 1, 3, Unsigned}, {28, 8, 3, Signed}, {29, 4, 3, Floating}, {30, 8, 3, Floating},
	}
	for _, tc := range cases {
		dt := DataTypeFromValue(tc.code)
		assert.Equal(t, tc.code, dt.TypeCode())
		assert.Equal(t, tc.size, dt.ElementSize(), "code %d", tc.code)
		assert.Equal(t, tc.arity, dt.NumElements(0), "code %d", tc.code)
		assert.Equal(t, tc.kind, dt.Kind(), "code %d", tc.code)
	}
	assert.Equal(t, Invalid, DataTypeFromValue(31))
	assert.Equal(t, Invalid, DataTypeFromValue(255))
	assert.Equal(t, 5, Undocumented.NumElements(5))
	assert.Equal(t, "i16[2]", I16x2.String())
	dt, ok := ParseDataType("f32[3]")
	require.True(t, ok)
	assert.Equal(t, F32x3, dt)
	assert.Equal(t, U16x3, U16.ArrayOf(3))
}

func TestParseTwoDescriptors(t *testing.T) {
	fields, report := ParseExtraFields(extraVLR(descriptor(4, 0, "a"), descriptor(9, 0, "b")))
	require.Len(t, fields, 2)
	assert.Empty(t, report.Dropped)
	assert.Zero(t, report.Remainder)
	assert.Equal(t, 0, fields[0].ByteOffset)
	assert.Equal(t, fields[0].ByteSize(), fields[1].ByteOffset)
	assert.Equal(t, 6, TotalExtraBytesSize(fields))
}

func TestParseSkipsUndocumentedButKeepsItsBytes(t *testing.T) {
	fields, report := ParseExtraFields(extraVLR(
		descriptor(1, 0, "first"),
		descriptor(0, 3, "blob"),
		descriptor(99, 0, "bogus"),
		descriptor(6, 0, "last"),
	))
	require.Len(t, fields, 2)
	assert.Equal(t, []string{"blob", "bogus"}, report.Dropped)
	assert.Equal(t, "last", fields[1].NameString())
	// 1 byte u8 + 3 undocumented bytes + 0 for the invalid entry
	assert.Equal(t, 4, fields[1].ByteOffset)
}

func TestParseRemainder(t *testing.T) {
	v := extraVLR(descriptor(1, 0, "x"), make([]byte, 100))
	fields, report := ParseExtraFields(v)
	assert.Len(t, fields, 1)
	assert.Equal(t, 100, report.Remainder)

	none, _ := ParseExtraFields(format.VLR{UserID: "other", RecordID: 4, Data: v.Data})
	assert.Empty(t, none)
}

func TestEncodeParseRoundTrip(t *testing.T) {
	a := NewExtraField("amplitude", F32)
	a.SetNoData(0, -1)
	a.SetScaleOffset(0, 0.01, 5)
	a.SetDescription("echo amplitude")
	b := NewExtraField("normal", I16x3)
	for i := 0; i < 3; i++ {
		b.SetScaleOffset(i, 1e-3, 0)
	}
	c := NewExtraField("flags", U8)
	in := []ExtraField{a, b, c}
	UpdateByteOffsets(in)

	v := EncodeExtraBytesVLR(in)
	assert.True(t, v.IsExtraBytes())
	assert.Len(t, v.Data, 3*format.EBRecordSize)

	out, report := ParseExtraFields(v)
	assert.Empty(t, report.Dropped)
	if diff := cmp.Diff(in, out, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{0, 4, 10}, []int{out[0].ByteOffset, out[1].ByteOffset, out[2].ByteOffset})
	assert.Equal(t, 11, TotalExtraBytesSize(out))
}

func TestUpdateByteOffsetsRunningSum(t *testing.T) {
	fields := []ExtraField{
		NewExtraField("a", F64x3),
		NewExtraField("b", U8),
		NewExtraField("c", I32x2),
		NewExtraField("d", U16),
	}
	for i := range fields {
		fields[i].ByteOffset = 999
	}
	UpdateByteOffsets(fields)
	sum := 0
	for _, f := range fields {
		assert.Equal(t, sum, f.ByteOffset)
		sum += f.ByteSize()
	}
	assert.Equal(t, sum, TotalExtraBytesSize(fields))
	assert.Equal(t, 24+1+8+2, sum)
}

func TestOptionAccessors(t *testing.T) {
	f := ExtraField{Options: OptionNoData | OptionMax | OptionOffset}
	assert.True(t, f.NoDataIsRelevant())
	assert.False(t, f.MinIsRelevant())
	assert.True(t, f.MaxIsRelevant())
	assert.False(t, f.ScaleIsRelevant())
	assert.True(t, f.OffsetIsRelevant())
}

func TestSlotInterpretation(t *testing.T) {
	f := NewExtraField("s", I16)
	var slot [8]byte
	binary.LittleEndian.PutUint64(slot[:], uint64(math.MaxUint64)) // -1 as i64
	assert.Equal(t, -1.0, f.SlotValue(slot))

	fl := NewExtraField("f", F32)
	assert.Equal(t, 2.5, fl.SlotValue(fl.EncodeSlot(2.5)))

	u := NewExtraField("u", U32)
	assert.Equal(t, 0.0, u.SlotValue(u.EncodeSlot(-3)))
}

func TestMatchExtraBytesToColumns(t *testing.T) {
	store := cloud.New("match", types.Limits{})
	for _, name := range []string{"amplitude", "normal [0]", "normal [1]", "normal [2]", "rgbish [0]", "Intensity (extra)"} {
		_, err := store.AddColumn(name)
		require.NoError(t, err)
	}

	intensity := NewExtraField("Intensity", U16)
	intensity.DisplayName = "Intensity (extra)"
	fields := []ExtraField{
		NewExtraField("amplitude", F32),
		NewExtraField("normal", F32x3),
		NewExtraField("rgbish", U8x3), // only component 0 exists
		NewExtraField("missing", U8),
		intensity,
	}
	UpdateByteOffsets(fields)

	first, missing := MatchExtraBytesToColumns(fields, store)
	require.Len(t, first, 3)
	assert.Equal(t, []string{"rgbish [1]", "rgbish [2]", "missing"}, missing)
	assert.Equal(t, "amplitude", first[0].NameString())
	assert.Equal(t, store.FindColumn("normal [2]"), first[1].Columns[2])
	assert.Equal(t, store.FindColumn("Intensity (extra)"), first[2].Columns[0])
	assert.Equal(t, types.NoColumn, first[0].Columns[1])

	second, missing := MatchExtraBytesToColumns(first, store)
	assert.Empty(t, missing)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("match is not idempotent (-first +second):\n%s", diff)
	}
}

func TestResolveDisplayName(t *testing.T) {
	store := cloud.New("names", types.Limits{})
	_, err := store.AddColumn("height")
	require.NoError(t, err)

	std := NewExtraField("Classification", U8)
	std.ResolveDisplayName(store)
	assert.Equal(t, "Classification (extra)", std.ComponentName(0))

	existing := NewExtraField("height", F32)
	existing.ResolveDisplayName(store)
	assert.Equal(t, "height (extra)", existing.ColumnBaseName())

	fresh := NewExtraField("amplitude", F32)
	fresh.ResolveDisplayName(store)
	assert.Equal(t, "amplitude", fresh.ComponentName(0))

	arr := NewExtraField("Intensity", U8x2)
	arr.ResolveDisplayName(store)
	assert.Equal(t, "Intensity [1]", arr.ComponentName(1))
}

func TestValidate(t *testing.T) {
	f := NewExtraField("ok", F64)
	require.NoError(t, f.Validate())

	f.Options |= OptionScale
	require.ErrorIs(t, f.Validate(), format.ErrMalformed)

	bad := NewExtraField("x", Undocumented)
	require.ErrorIs(t, bad.Validate(), format.ErrUnsupported)
}
