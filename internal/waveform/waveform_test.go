package waveform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/pkg/types"
)

func descriptorVLR(recordID uint16, gain float64) format.VLR {
	return format.VLR{
		UserID:   format.UserIDLASFSpec,
		RecordID: recordID,
		Data: format.WaveformDescriptorRecord{
			BitsPerSample:   8,
			NumberOfSamples: 64,
			SamplingRatePs:  1000,
			DigitizerGain:   gain,
		}.Encode(),
	}
}

func TestParseDescriptors(t *testing.T) {
	report := types.NewDiagnosticReport("x.las")
	vlrs := []format.VLR{
		descriptorVLR(100, 0),
		descriptorVLR(102, 2.5),
		{UserID: format.UserIDLASFSpec, RecordID: 101, Data: make([]byte, 20)},
		{UserID: "other", RecordID: 103, Data: make([]byte, 26)},
		descriptorVLR(99, 1),
	}
	got := ParseDescriptors(vlrs, report, nil)
	require.Len(t, got, 2)
	assert.Equal(t, 1.0, got[0].DigitizerGain)
	assert.Equal(t, 2.5, got[2].DigitizerGain)
	assert.Equal(t, uint32(64), got[2].NumberOfSamples)
	assert.Equal(t, 1, report.Summary.Warnings)

	back := ParseDescriptors(DescriptorVLRs(got), nil, nil)
	assert.Equal(t, got, back)
}

func packet(idx uint8, offset uint64, count uint32) [format.WavePacketSize]byte {
	var b [format.WavePacketSize]byte
	_ = format.WavePacket{
		DescriptorIndex: idx,
		ByteOffset:      offset,
		ByteCount:       count,
		ReturnLocation:  1234.5,
		Direction:       [3]float32{0.1, 0.2, -0.9},
	}.Encode(b[:])
	return b
}

func TestLinkPoint(t *testing.T) {
	descs := map[uint8]types.WaveformDescriptor{0: {BitsPerSample: 8}}
	report := types.NewDiagnosticReport("")
	l := NewLinker(descs, &Source{Base: format.EVLRHeaderSize}, 6, report, nil)

	rec := format.PointRecord{WavePacket: packet(0, 100, 10)}
	_, ok := l.LinkPoint(&rec)
	assert.False(t, ok, "descriptor index 0 means no waveform")

	rec = format.PointRecord{WavePacket: packet(1, 160, 64), ExtendedReturnNumber: 3, ReturnNumber: 1}
	link, ok := l.LinkPoint(&rec)
	require.True(t, ok)
	assert.Equal(t, types.WaveformLink{
		DescriptorID: 0,
		DataOffset:   100,
		ByteCount:    64,
		EchoTimePs:   1234.5,
		BeamDir:      [3]float32{0.1, 0.2, -0.9},
		ReturnIndex:  3,
	}, link)

	var out format.PointRecord
	EncodeLink(link, &out)
	assert.Equal(t, rec.WavePacket, out.WavePacket)

	for i := 0; i < 3; i++ {
		_, ok = l.LinkPoint(&format.PointRecord{WavePacket: packet(5, 60, 1)})
		assert.False(t, ok)
	}
	assert.Equal(t, 1, report.Summary.Warnings, "missing descriptor warned once")
}

func TestLinkPointLegacyReturnIndex(t *testing.T) {
	l := NewLinker(map[uint8]types.WaveformDescriptor{0: {}}, nil, 4, nil, nil)
	link, ok := l.LinkPoint(&format.PointRecord{WavePacket: packet(1, 7, 1), ReturnNumber: 2})
	require.True(t, ok)
	assert.Equal(t, uint8(2), link.ReturnIndex)
	assert.Equal(t, uint64(7), link.DataOffset)
}

func lasWithEVLR(recordID uint16, payload []byte, declared uint64) ([]byte, format.Header) {
	file := make([]byte, 400)
	evlr := format.WaveformEVLRHeader(declared)
	evlr.RecordID = recordID
	file = append(file, evlr.Encode()...)
	file = append(file, payload...)
	return file, format.Header{WaveformStart: 400, VersionMinor: 3}
}

func TestOpenDataSourceInternal(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5, 6}
	file, h := lasWithEVLR(format.RecordIDWaveformDataPackets, payload, 4)
	src := OpenDataSource(h, "x.las", file, types.Limits{}, nil, nil)
	require.NotNil(t, src)
	assert.Equal(t, payload[:4], src.Data)
	assert.Equal(t, uint64(format.EVLRHeaderSize), src.Base)
	assert.False(t, src.External)

	file, h = lasWithEVLR(format.RecordIDWaveformDataPackets, payload, 0)
	src = OpenDataSource(h, "x.las", file, types.Limits{}, nil, nil)
	require.NotNil(t, src)
	assert.Equal(t, payload, src.Data, "length 0 reads the rest of the file")
}

func TestOpenDataSourceWrongRecordID(t *testing.T) {
	file, h := lasWithEVLR(4, []byte{1, 2, 3}, 3)
	report := types.NewDiagnosticReport("")
	assert.Nil(t, OpenDataSource(h, "x.las", file, types.Limits{}, report, nil))
	assert.True(t, report.HasAnyIssues())
}

func TestOpenDataSourceLimit(t *testing.T) {
	file, h := lasWithEVLR(format.RecordIDWaveformDataPackets, make([]byte, 100), 100)
	assert.Nil(t, OpenDataSource(h, "x.las", file, types.Limits{MaxWaveformBytes: 10}, nil, nil))
}

func TestExternalRoundTrip(t *testing.T) {
	dir := t.TempDir()
	lasPath := filepath.Join(dir, "scan.las")
	assert.Equal(t, filepath.Join(dir, "scan.wdp"), SiblingPath(lasPath))

	samples := []byte("waveform-samples")
	require.NoError(t, WriteExternal(SiblingPath(lasPath), samples))

	h := format.Header{GlobalEncoding: format.GlobalEncodingWaveformExternal}
	src := OpenDataSource(h, lasPath, nil, types.Limits{}, nil, nil)
	require.NotNil(t, src)
	assert.True(t, src.External)
	assert.Equal(t, samples, src.Data)
	assert.Equal(t, uint64(format.EVLRHeaderSize), src.Base)

	got, ok := Samples(src.Data, types.WaveformLink{DataOffset: 9, ByteCount: 7})
	require.True(t, ok)
	assert.Equal(t, "samples", string(got))
	_, ok = Samples(src.Data, types.WaveformLink{DataOffset: 10, ByteCount: 70})
	assert.False(t, ok)
}

func TestExternalWithoutHeader(t *testing.T) {
	dir := t.TempDir()
	lasPath := filepath.Join(dir, "raw.las")
	raw := make([]byte, 80)
	raw[0] = 0xAB
	require.NoError(t, os.WriteFile(SiblingPath(lasPath), raw, 0o644))

	h := format.Header{GlobalEncoding: format.GlobalEncodingWaveformExternal}
	src := OpenDataSource(h, lasPath, nil, types.Limits{}, nil, nil)
	require.NotNil(t, src)
	assert.Equal(t, raw, src.Data)
	assert.Zero(t, src.Base)
}

func TestExternalMissingFile(t *testing.T) {
	report := types.NewDiagnosticReport("")
	h := format.Header{GlobalEncoding: format.GlobalEncodingWaveformExternal}
	assert.Nil(t, OpenDataSource(h, filepath.Join(t.TempDir(), "a.las"), nil, types.Limits{}, report, nil))
	assert.Equal(t, 1, report.Summary.Warnings)
}
