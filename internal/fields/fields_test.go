package fields

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/laskit/internal/buf"
	"github.com/joshuapare/laskit/internal/cloud"
	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/internal/schema"
	"github.com/joshuapare/laskit/pkg/types"
)

func TestSaturation(t *testing.T) {
	assert.Equal(t, uint8(255), SaturateU8(300))
	assert.Equal(t, uint8(0), SaturateU8(-5))
	assert.Equal(t, uint8(0), SaturateU8(math.NaN()))
	assert.Equal(t, uint8(4), SaturateU8(3.6))
	assert.Equal(t, int8(-128), SaturateI8(-1000))
	assert.Equal(t, int16(math.MaxInt16), SaturateI16(1e9))
	assert.Equal(t, uint32(math.MaxUint32), SaturateU32(1e12))
	assert.Equal(t, uint64(math.MaxUint64), SaturateU64(1e30))
	assert.Equal(t, int64(math.MinInt64), SaturateI64(-1e30))
	assert.Equal(t, uint8(7), SaturateBits(42, 3))
	assert.Equal(t, uint8(15), SaturateBits(42, 4))
	assert.Equal(t, uint8(1), Flag(0.5))
	assert.Equal(t, uint8(0), Flag(-1))
}

func TestExtendedScanAngle(t *testing.T) {
	var rec format.PointRecord
	setStandardValue(types.FieldExtendedScanAngle, &rec, 6.0)
	assert.Equal(t, int16(100), rec.ExtendedScanAngle)
	assert.InDelta(t, 6.0, standardValue(types.FieldExtendedScanAngle, &rec), 1e-9)
}

func TestLegacyScanAngleRankStaysInDegrees(t *testing.T) {
	var rec format.PointRecord
	setStandardValue(types.FieldScanAngleRank, &rec, -12)
	assert.Equal(t, int8(-12), rec.ScanAngleRank)
	assert.Equal(t, int16(0), rec.ExtendedScanAngle)
	setStandardValue(types.FieldScanAngleRank, &rec, 500)
	assert.Equal(t, int8(127), rec.ScanAngleRank)
}

func TestOverlapAndClassificationWrite(t *testing.T) {
	rec := format.PointRecord{ExtendedClassificationFlags: 0x01}
	setStandardValue(types.FieldOverlapFlag, &rec, 1)
	assert.True(t, rec.Overlap())
	assert.Equal(t, uint8(0x01|format.OverlapFlagMask), rec.ExtendedClassificationFlags)
	setStandardValue(types.FieldOverlapFlag, &rec, 0)
	assert.False(t, rec.Overlap())

	setStandardValue(types.FieldClassification, &rec, 40)
	assert.Equal(t, uint8(31), rec.Classification)
	assert.Equal(t, uint8(0), rec.ExtendedClassification)
	setStandardValue(types.FieldExtendedClassification, &rec, 40)
	assert.Equal(t, uint8(40), rec.ExtendedClassification)
}

func TestLegacyClassificationMasked(t *testing.T) {
	rec := format.PointRecord{Classification: 0xE2}
	assert.Equal(t, 2.0, standardValue(types.FieldClassification, &rec))
}

func loadRecords(t *testing.T, pf uint8, recs []format.PointRecord) (*cloud.Cloud, *Loader) {
	t.Helper()
	c := cloud.New("t", types.Limits{})
	l := NewLoader(pf, schema.StandardFieldsForPointFormat(pf), nil, nil)
	for i := range recs {
		require.NoError(t, c.AppendPoint([3]float64{}))
		require.NoError(t, l.ReadStandardFields(c, &recs[i]))
		require.NoError(t, l.ReadRGB(c, &recs[i]))
	}
	return c, l
}

func TestConstantFieldsAreSuppressed(t *testing.T) {
	recs := []format.PointRecord{
		{Intensity: 10, Classification: 2},
		{Intensity: 10, Classification: 2},
		{Intensity: 11, Classification: 2},
		{Intensity: 12, Classification: 2},
	}
	c, l := loadRecords(t, 0, recs)

	assert.Equal(t, types.NoColumn, c.FindColumn(types.NameClassification))
	h := c.FindColumn(types.NameIntensity)
	require.True(t, h.Valid())
	assert.Equal(t, []float64{10, 10, 11, 12}, c.Values(h))
	assert.False(t, c.HasColors())

	for i, f := range l.StandardFields() {
		if f.ID == types.FieldClassification {
			v, ok := l.ConstantValue(i)
			assert.True(t, ok)
			assert.Equal(t, 2.0, v)
		}
	}
}

func TestBackfilledColumnsHaveOneValuePerPoint(t *testing.T) {
	recs := make([]format.PointRecord, 50)
	for i := range recs {
		recs[i].UserData = 7
		if i >= 31 {
			recs[i].UserData = uint8(i)
		}
		recs[i].PointSourceID = uint16(i % 3)
	}
	c, _ := loadRecords(t, 1, recs)
	for _, name := range []string{types.NameUserData, types.NamePointSourceID} {
		h := c.FindColumn(name)
		require.True(t, h.Valid(), name)
		require.Len(t, c.Values(h), len(recs), name)
		for i := range recs {
			assert.Equal(t, standardValue(mustID(t, name), &recs[i]), c.ValueAt(h, i))
		}
	}
}

func mustID(t *testing.T, name string) types.FieldID {
	t.Helper()
	id, err := schema.IDFromName(name, 0)
	require.NoError(t, err)
	return id
}

func TestGpsTimeShift(t *testing.T) {
	recs := []format.PointRecord{{GpsTime: 123456789.25}, {GpsTime: 123456790.5}}
	c, _ := loadRecords(t, 1, recs)
	h := c.FindColumn(types.NameGpsTime)
	require.True(t, h.Valid())
	assert.Equal(t, 123456789.0, c.ColumnShift(h))
	assert.Equal(t, []float64{0.25, 1.5}, c.Values(h))

	s := NewSaver(1, boundFields(1, c), nil, nil)
	var rec format.PointRecord
	s.WriteStandardFields(c, 1, &rec)
	assert.Equal(t, 123456790.5, rec.GpsTime)
}

func boundFields(pf uint8, store types.AttributeStore) []schema.StandardField {
	fields := schema.StandardFieldsForPointFormat(pf)
	schema.BindColumns(fields, store)
	return fields
}

func TestColorsNarrowAndWiden(t *testing.T) {
	recs := []format.PointRecord{
		{RGB: [4]uint16{0xFF00, 0x1000, 0}},
		{RGB: [4]uint16{0xFF00, 0x1000, 0}},
		{RGB: [4]uint16{0x0100, 0x2000, 0x3000}},
	}
	c, _ := loadRecords(t, 2, recs)
	require.True(t, c.HasColors())
	assert.Equal(t, types.Color{0xFF, 0x10, 0}, c.ColorAt(0))
	assert.Equal(t, types.Color{0xFF, 0x10, 0}, c.ColorAt(1))
	assert.Equal(t, types.Color{0x01, 0x20, 0x30}, c.ColorAt(2))

	var rec format.PointRecord
	NewSaver(2, nil, nil, nil).WriteRGB(c, 2, &rec)
	assert.Equal(t, [4]uint16{0x0100, 0x2000, 0x3000, 0}, rec.RGB)
}

func TestDarkLeadingColorsUseTheSameScale(t *testing.T) {
	recs := []format.PointRecord{
		{RGB: [4]uint16{0, 0, 0}},
		{RGB: [4]uint16{100, 50, 20}},
		{RGB: [4]uint16{60000, 60000, 60000}},
	}
	c, _ := loadRecords(t, 2, recs)
	require.True(t, c.HasColors())
	assert.Equal(t, types.Color{0, 0, 0}, c.ColorAt(0))
	assert.Equal(t, types.Color{0, 0, 0}, c.ColorAt(1))
	assert.Equal(t, types.Color{234, 234, 234}, c.ColorAt(2))
}

func TestSaverWritesConstantsForUnboundFields(t *testing.T) {
	c := cloud.New("t", types.Limits{})
	h, err := c.AddColumn(types.NameIntensity)
	require.NoError(t, err)
	require.NoError(t, c.AppendPoint([3]float64{}))
	require.NoError(t, c.Append(h, 40))

	s := NewSaver(2, boundFields(2, c), nil, nil)
	s.SetConstants(map[string]float64{types.NameClassification: 6, types.NameIntensity: 1}, &types.Color{1, 2, 3})
	var rec format.PointRecord
	s.WriteStandardFields(c, 0, &rec)
	s.WriteRGB(c, 0, &rec)
	assert.Equal(t, uint16(40), rec.Intensity, "a bound column wins over a constant")
	assert.Equal(t, uint8(6), rec.Classification)
	assert.Equal(t, [4]uint16{0x0100, 0x0200, 0x0300, 0}, rec.RGB)
}

func TestStandardRoundTripExtended(t *testing.T) {
	rec := format.PointRecord{
		Intensity:                   900,
		ExtendedReturnNumber:        12,
		ExtendedNumberOfReturns:     15,
		ExtendedScannerChannel:      3,
		ExtendedClassification:      200,
		ExtendedClassificationFlags: format.OverlapFlagMask,
		ExtendedScanAngle:           -1500,
		UserData:                    9,
		PointSourceID:               77,
		GpsTime:                     42.5,
		RGB:                         [4]uint16{0, 0, 0, 4000},
	}
	recs := []format.PointRecord{{}, rec}
	c, _ := loadRecords(t, 8, recs)

	s := NewSaver(8, boundFields(8, c), nil, nil)
	var out format.PointRecord
	s.WriteStandardFields(c, 1, &out)
	assert.Equal(t, rec.Intensity, out.Intensity)
	assert.Equal(t, rec.ExtendedReturnNumber, out.ExtendedReturnNumber)
	assert.Equal(t, rec.ExtendedNumberOfReturns, out.ExtendedNumberOfReturns)
	assert.Equal(t, rec.ExtendedScannerChannel, out.ExtendedScannerChannel)
	assert.Equal(t, rec.ExtendedClassification, out.ExtendedClassification)
	assert.True(t, out.Overlap())
	assert.Equal(t, rec.ExtendedScanAngle, out.ExtendedScanAngle)
	assert.Equal(t, rec.PointSourceID, out.PointSourceID)
	assert.Equal(t, rec.GpsTime, out.GpsTime)
	assert.Equal(t, rec.RGB[3], out.RGB[3])
}

func TestExtraFieldsScaleOffsetAndNoData(t *testing.T) {
	temp := schema.NewExtraField("temperature", schema.I16)
	temp.SetScaleOffset(0, 0.1, -40)
	temp.SetNoData(0, -32768)
	vec := schema.NewExtraField("normal", schema.F32x3)
	fields := []schema.ExtraField{temp, vec}
	schema.UpdateByteOffsets(fields)
	size := schema.TotalExtraBytesSize(fields)
	require.Equal(t, 14, size)

	c := cloud.New("t", types.Limits{})
	l := NewLoader(0, nil, fields, nil)
	dropped, err := l.CreateExtraColumns(c)
	require.NoError(t, err)
	require.Empty(t, dropped)
	for _, name := range []string{"temperature", "normal [0]", "normal [1]", "normal [2]"} {
		assert.True(t, c.FindColumn(name).Valid(), name)
	}

	raw := make([]byte, size)
	buf.PutI16LE(raw, 650)
	buf.PutF32LE(raw[2:], 0.5)
	buf.PutF32LE(raw[6:], -1)
	buf.PutF32LE(raw[10:], 2)
	require.NoError(t, l.ReadExtraFields(c, &format.PointRecord{ExtraBytes: raw}))

	nodata := make([]byte, size)
	buf.PutI16LE(nodata, -32768)
	require.NoError(t, l.ReadExtraFields(c, &format.PointRecord{ExtraBytes: nodata}))

	// Records shorter than the declared fields read as NaN.
	require.NoError(t, l.ReadExtraFields(c, &format.PointRecord{ExtraBytes: raw[:4]}))

	h := c.FindColumn("temperature")
	assert.InDelta(t, 25.0, c.ValueAt(h, 0), 1e-9)
	assert.True(t, math.IsNaN(c.ValueAt(h, 1)))
	assert.InDelta(t, 25.0, c.ValueAt(h, 2), 1e-9)
	assert.Equal(t, -1.0, c.ValueAt(c.FindColumn("normal [1]"), 0))
	assert.True(t, math.IsNaN(c.ValueAt(c.FindColumn("normal [2]"), 2)))

	matched, missing := schema.MatchExtraBytesToColumns(fields, c)
	require.Empty(t, missing)
	s := NewSaver(0, nil, matched, nil)
	require.Equal(t, size, s.ExtraBytesSize())

	out := format.PointRecord{ExtraBytes: make([]byte, size)}
	require.NoError(t, s.WriteExtraFields(c, 0, &out))
	assert.Equal(t, raw, out.ExtraBytes)
	require.NoError(t, s.WriteExtraFields(c, 1, &out))
	assert.Equal(t, int16(-32768), buf.I16LE(out.ExtraBytes))

	short := format.PointRecord{ExtraBytes: make([]byte, 3)}
	require.ErrorIs(t, s.WriteExtraFields(c, 0, &short), format.ErrTruncated)
}

func TestExtraFieldClashGetsDisplayName(t *testing.T) {
	fields := []schema.ExtraField{schema.NewExtraField(types.NameIntensity, schema.U8)}
	c := cloud.New("t", types.Limits{})
	l := NewLoader(0, nil, fields, nil)
	_, err := l.CreateExtraColumns(c)
	require.NoError(t, err)
	assert.True(t, c.FindColumn(types.NameIntensity+schema.ClashSuffix).Valid())
	assert.Equal(t, types.NameIntensity+schema.ClashSuffix, l.ExtraFields()[0].DisplayName)
}

func TestDuplicateArrayFieldIsDropped(t *testing.T) {
	fields := []schema.ExtraField{
		schema.NewExtraField("normal", schema.F32x3),
		schema.NewExtraField("normal", schema.I16x3),
		schema.NewExtraField("range", schema.U16),
	}
	schema.UpdateByteOffsets(fields)
	c := cloud.New("t", types.Limits{})
	l := NewLoader(0, nil, fields, nil)

	dropped, err := l.CreateExtraColumns(c)
	require.NoError(t, err)
	assert.Equal(t, []string{"normal"}, dropped)
	require.Len(t, l.ExtraFields(), 2)
	assert.Equal(t, schema.F32x3, l.ExtraFields()[0].Type)
	assert.Equal(t, "range", l.ExtraFields()[1].NameString())
	assert.Equal(t, 4, c.ColumnCount())
}

func TestDecodeElementWidens(t *testing.T) {
	b := make([]byte, 8)
	buf.PutU64LE(b, math.MaxUint64)
	assert.Equal(t, uint64(math.MaxUint64), DecodeElement(schema.U64, b).U)
	assert.Equal(t, int64(-1), DecodeElement(schema.I64, b).I)
	assert.Equal(t, int64(-1), DecodeElement(schema.I8, b).I)
	assert.Equal(t, 255.0, DecodeElement(schema.U8, b).Float64())

	EncodeElement(schema.U16, b, 70000)
	assert.Equal(t, uint16(math.MaxUint16), buf.U16LE(b))
}
