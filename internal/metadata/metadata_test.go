package metadata

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/internal/schema"
	"github.com/joshuapare/laskit/pkg/types"
)

func sampleInfo() *SavedInfo {
	h := format.Header{
		FileSourceID:   7,
		GlobalEncoding: format.GlobalEncodingGPSStandardTime | format.GlobalEncodingWaveformInternal,
		SystemID:       "survey rig",
		VersionMinor:   2,
		PointFormat:    3,
		Scale:          [3]float64{0.01, 0.01, 0.001},
	}
	vlrs := []format.VLR{
		{UserID: "LASF_Projection", RecordID: 34735, Data: []byte{1, 2, 3}},
		{UserID: format.UserIDLaszip, RecordID: format.RecordIDLaszip, Data: []byte{9}},
		schema.EncodeExtraBytesVLR([]schema.ExtraField{schema.NewExtraField("a", schema.U8)}),
		{UserID: format.UserIDLASFSpec, RecordID: 101, Data: make([]byte, 26)},
	}
	return FromHeader(h, vlrs, []schema.ExtraField{schema.NewExtraField("a", schema.U8)})
}

func TestFromHeaderKeepsForeignVLRs(t *testing.T) {
	s := sampleInfo()
	require.Len(t, s.VLRs, 1)
	assert.Equal(t, "LASF_Projection", s.VLRs[0].UserID)
	assert.Len(t, s.ExtraFields, 1)
	assert.Equal(t, uint8(3), s.PointFormat)
}

func TestCloneIsDeep(t *testing.T) {
	s := sampleInfo()
	s.Constants = map[string]float64{"Classification": 2}
	s.ConstantColor = &types.Color{1, 2, 3}
	c := s.Clone()
	c.Constants["Classification"] = 6
	c.ConstantColor[0] = 9
	assert.Equal(t, 2.0, s.Constants["Classification"])
	assert.Equal(t, types.Color{1, 2, 3}, *s.ConstantColor)
	c.VLRs[0].Data[0] = 0xFF
	c.ExtraFields[0].SetName("b")
	assert.Equal(t, byte(1), s.VLRs[0].Data[0])
	assert.Equal(t, "a", s.ExtraFields[0].NameString())

	taken := c.TakeVLRs()
	assert.Len(t, taken, 1)
	assert.Empty(t, c.VLRs)
	assert.Len(t, s.VLRs, 1)
	assert.Nil(t, (*SavedInfo)(nil).Clone())
}

func TestProjectIDRoundTrip(t *testing.T) {
	s := &SavedInfo{}
	assert.False(t, s.HasProjectID())
	id := uuid.MustParse("01234567-89ab-cdef-0011-223344556677")
	s.SetProjectID(id)
	assert.Equal(t, uint32(0x01234567), s.GUID1)
	assert.Equal(t, uint16(0x89ab), s.GUID2)
	assert.Equal(t, uint16(0xcdef), s.GUID3)
	assert.Equal(t, [8]byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77}, s.GUID4)
	assert.Equal(t, id, s.ProjectID())
	assert.True(t, s.HasProjectID())
}

func TestBuildHeaderConsumesVLRs(t *testing.T) {
	s := sampleInfo()
	eb := schema.EncodeExtraBytesVLR(s.ExtraFields)
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	h, vlrs, err := BuildHeader(s, HeaderParams{
		VersionMinor:      3,
		PointFormat:       5,
		Scale:             [3]float64{0.001, 0.001, 0.001},
		Offset:            [3]float64{100, 200, 0},
		ExtraBytes:        1,
		VLRs:              []format.VLR{eb},
		ExternalWaveforms: true,
		Now:               now,
	})
	require.NoError(t, err)
	require.Len(t, vlrs, 2)
	assert.Empty(t, s.VLRs, "snapshot VLRs are consumed")
	assert.Equal(t, uint32(2), h.NumberOfVLRs)
	assert.Equal(t, uint16(235), h.HeaderSize)
	assert.Equal(t, uint32(235+format.SizeOfVLRs(vlrs)), h.OffsetToPoints)
	assert.Equal(t, uint16(64), h.PointRecordLength)
	assert.Equal(t, uint16(32), h.CreationDay)
	assert.Equal(t, uint16(2024), h.CreationYear)
	assert.Equal(t, "survey rig", h.SystemID)
	assert.Equal(t, GeneratingSoftware, h.GeneratingSoftware)
	assert.Equal(t, uint16(7), h.FileSourceID)
	assert.Equal(t, uint16(format.GlobalEncodingGPSStandardTime|format.GlobalEncodingWaveformExternal), h.GlobalEncoding)
}

func TestBuildHeaderRejects(t *testing.T) {
	_, _, err := BuildHeader(nil, HeaderParams{VersionMinor: 2, PointFormat: 6, Scale: [3]float64{1, 1, 1}})
	assert.ErrorIs(t, err, format.ErrUnsupported)
	_, _, err = BuildHeader(nil, HeaderParams{VersionMinor: 2, PointFormat: 0, Scale: [3]float64{1, 0, 1}})
	assert.ErrorIs(t, err, format.ErrMalformed)
}

func TestOptimalScale(t *testing.T) {
	s := OptimalScale([3]float64{1000, 0, 2e6})
	assert.InDelta(t, 1e-6, s[0], 1e-18)
	assert.Greater(t, s[1], 0.0)
	assert.InDelta(t, 2e-3, s[2], 1e-15)
}

func TestSelectBestVersion(t *testing.T) {
	cases := []struct {
		c     Content
		minor uint8
		pf    uint8
	}{
		{Content{}, 2, 0},
		{Content{GpsTime: true}, 2, 1},
		{Content{Colors: true}, 2, 2},
		{Content{Colors: true, GpsTime: true}, 2, 3},
		{Content{Waveforms: true}, 3, 4},
		{Content{Waveforms: true, Colors: true}, 3, 5},
		{Content{Extended: true}, 4, 6},
		{Content{Extended: true, Colors: true}, 4, 7},
		{Content{NearInfrared: true}, 4, 8},
		{Content{Extended: true, Waveforms: true}, 4, 9},
		{Content{NearInfrared: true, Waveforms: true}, 4, 10},
	}
	for _, tc := range cases {
		minor, pf := SelectBestVersion(tc.c)
		assert.Equal(t, tc.minor, minor, "%+v", tc.c)
		assert.Equal(t, tc.pf, pf, "%+v", tc.c)
		assert.True(t, Carries(pf, tc.c), "%+v", tc.c)
		assert.True(t, format.FormatAllowedForVersion(minor, pf))
	}
	assert.False(t, Carries(4, Content{Colors: true}))
	assert.False(t, Carries(8, Content{Waveforms: true}))
}
