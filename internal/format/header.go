package format

import (
	"bytes"
	"fmt"
	"math"

	"github.com/joshuapare/laskit/internal/buf"
)

// Header is the LAS public header block. The diagram below highlights the
// offsets shared by every version; 1.3 appends the waveform start and 1.4
// the EVLR table and 64-bit point counts.
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	   0     4    'L' 'A' 'S' 'F'
//	   4     2    File source id
//	   6     2    Global encoding
//	   8    16    Project GUID (u32, u16, u16, [8]byte)
//	  24     2    Version major, minor
//	  26    64    System identifier, generating software
//	  94     2    Header size
//	  96     4    Offset to point data
//	 100     4    Number of VLRs
//	 104     1    Point data format (bits 6-7 set by LASzip)
//	 105     2    Point data record length
//	 107    24    Legacy point counts (total + 5 by return)
//	 131    96    Scale, offset, max/min bounds (float64)
//	 227     8    Start of waveform data packet record (1.3+)
//	 235    20    First EVLR offset, EVLR count (1.4)
//	 247   128    Point count and 15 counts by return (1.4)
type Header struct {
	FileSourceID       uint16
	GlobalEncoding     uint16
	GUID1              uint32
	GUID2              uint16
	GUID3              uint16
	GUID4              [HdrGUID4Size]byte
	VersionMajor       uint8
	VersionMinor       uint8
	SystemID           string
	GeneratingSoftware string
	CreationDay        uint16
	CreationYear       uint16
	HeaderSize         uint16
	OffsetToPoints     uint32
	NumberOfVLRs       uint32
	PointFormat        uint8
	PointRecordLength  uint16
	Scale              [3]float64
	Offset             [3]float64
	Min                [3]float64
	Max                [3]float64

	LegacyPointCount     uint32
	LegacyPointsByReturn [HdrLegacyReturnCount]uint32

	WaveformStart  uint64
	FirstEVLR      uint64
	NumberOfEVLRs  uint32
	PointCount     uint64
	PointsByReturn [HdrExtendedReturnCount]uint64

	// Compressed is set when the point format byte carried the LASzip flag.
	Compressed bool
}

// ParseHeader validates and extracts the public header block.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HdrMinSize {
		return Header{}, fmt.Errorf("header: %w (have %d, need %d)", ErrTruncated, len(b), HdrMinSize)
	}
	if !bytes.Equal(b[:len(LASFSignature)], LASFSignature) {
		return Header{}, fmt.Errorf("header: %w", ErrSignatureMismatch)
	}

	h := Header{
		FileSourceID:       buf.U16LE(b[HdrFileSourceIDOffset:]),
		GlobalEncoding:     buf.U16LE(b[HdrGlobalEncodingOffset:]),
		GUID1:              buf.U32LE(b[HdrGUID1Offset:]),
		GUID2:              buf.U16LE(b[HdrGUID2Offset:]),
		GUID3:              buf.U16LE(b[HdrGUID3Offset:]),
		VersionMajor:       b[HdrVersionMajorOffset],
		VersionMinor:       b[HdrVersionMinorOffset],
		SystemID:           DecodeFixedString(b[HdrSystemIDOffset : HdrSystemIDOffset+HdrFixedStringSize]),
		GeneratingSoftware: DecodeFixedString(b[HdrGeneratingSoftwareOffset : HdrGeneratingSoftwareOffset+HdrFixedStringSize]),
		CreationDay:        buf.U16LE(b[HdrCreationDayOffset:]),
		CreationYear:       buf.U16LE(b[HdrCreationYearOffset:]),
		HeaderSize:         buf.U16LE(b[HdrHeaderSizeOffset:]),
		OffsetToPoints:     buf.U32LE(b[HdrOffsetToPointsOffset:]),
		NumberOfVLRs:       buf.U32LE(b[HdrNumberOfVLRsOffset:]),
		PointFormat:        b[HdrPointFormatOffset],
		PointRecordLength:  buf.U16LE(b[HdrPointRecordLengthOffset:]),
		LegacyPointCount:   buf.U32LE(b[HdrLegacyPointCountOffset:]),
	}
	copy(h.GUID4[:], b[HdrGUID4Offset:HdrGUID4Offset+HdrGUID4Size])

	if h.PointFormat&(HdrCompressedFormatFlag|HdrCompressedFormatFlag2) != 0 {
		h.Compressed = true
		h.PointFormat &^= HdrCompressedFormatFlag | HdrCompressedFormatFlag2
	}

	for i := range h.LegacyPointsByReturn {
		h.LegacyPointsByReturn[i] = buf.U32LE(b[HdrLegacyByReturnOffset+4*i:])
	}
	for i := 0; i < 3; i++ {
		h.Scale[i] = buf.F64LE(b[HdrScaleOffset+8*i:])
		h.Offset[i] = buf.F64LE(b[HdrOffsetOffset+8*i:])
		// max and min are interleaved per axis: MaxX, MinX, MaxY, MinY, ...
		h.Max[i] = buf.F64LE(b[HdrMaxXOffset+16*i:])
		h.Min[i] = buf.F64LE(b[HdrMaxXOffset+16*i+8:])
	}

	if int(h.HeaderSize) > len(b) {
		return Header{}, fmt.Errorf("header size %d: %w (have %d)", h.HeaderSize, ErrTruncated, len(b))
	}
	if h.HeaderSize < HdrMinSize {
		return Header{}, fmt.Errorf("header size %d below %d: %w", h.HeaderSize, HdrMinSize, ErrMalformed)
	}

	if h.VersionMinor >= 3 && h.HeaderSize >= HdrVersion13Size {
		h.WaveformStart = buf.U64LE(b[HdrWaveformStartOffset:])
	}
	if h.VersionMinor >= 4 && h.HeaderSize >= HdrVersion14Size {
		h.FirstEVLR = buf.U64LE(b[HdrFirstEVLROffset:])
		h.NumberOfEVLRs = buf.U32LE(b[HdrNumberOfEVLRsOffset:])
		h.PointCount = buf.U64LE(b[HdrPointCountOffset:])
		for i := range h.PointsByReturn {
			h.PointsByReturn[i] = buf.U64LE(b[HdrPointsByReturnOffset+8*i:])
		}
	}
	return h, nil
}

// NumberOfPoints returns the point count, preferring the 64-bit 1.4 field.
func (h Header) NumberOfPoints() uint64 {
	if h.VersionMinor >= 4 && h.PointCount != 0 {
		return h.PointCount
	}
	return uint64(h.LegacyPointCount)
}

// ExtraBytesPerRecord returns the number of bytes each record carries after
// the standard fields of its format.
func (h Header) ExtraBytesPerRecord() int {
	std := int(RecordLength(h.PointFormat))
	if std == 0 || int(h.PointRecordLength) < std {
		return 0
	}
	return int(h.PointRecordLength) - std
}

// Encode serialises the header. The output length is the larger of
// HeaderSize and the size defined for the header's minor version; any bytes
// past the known fields are zero.
func (h Header) Encode() []byte {
	size := int(HeaderSize(h.VersionMinor))
	if int(h.HeaderSize) > size {
		size = int(h.HeaderSize)
	}
	b := make([]byte, size)

	copy(b[HdrSignatureOffset:], LASFSignature)
	buf.PutU16LE(b[HdrFileSourceIDOffset:], h.FileSourceID)
	buf.PutU16LE(b[HdrGlobalEncodingOffset:], h.GlobalEncoding)
	buf.PutU32LE(b[HdrGUID1Offset:], h.GUID1)
	buf.PutU16LE(b[HdrGUID2Offset:], h.GUID2)
	buf.PutU16LE(b[HdrGUID3Offset:], h.GUID3)
	copy(b[HdrGUID4Offset:HdrGUID4Offset+HdrGUID4Size], h.GUID4[:])
	b[HdrVersionMajorOffset] = h.VersionMajor
	b[HdrVersionMinorOffset] = h.VersionMinor
	EncodeFixedString(b[HdrSystemIDOffset:HdrSystemIDOffset+HdrFixedStringSize], h.SystemID)
	EncodeFixedString(b[HdrGeneratingSoftwareOffset:HdrGeneratingSoftwareOffset+HdrFixedStringSize], h.GeneratingSoftware)
	buf.PutU16LE(b[HdrCreationDayOffset:], h.CreationDay)
	buf.PutU16LE(b[HdrCreationYearOffset:], h.CreationYear)
	buf.PutU16LE(b[HdrHeaderSizeOffset:], uint16(size))
	buf.PutU32LE(b[HdrOffsetToPointsOffset:], h.OffsetToPoints)
	buf.PutU32LE(b[HdrNumberOfVLRsOffset:], h.NumberOfVLRs)
	b[HdrPointFormatOffset] = h.PointFormat
	buf.PutU16LE(b[HdrPointRecordLengthOffset:], h.PointRecordLength)
	buf.PutU32LE(b[HdrLegacyPointCountOffset:], h.LegacyPointCount)
	for i, n := range h.LegacyPointsByReturn {
		buf.PutU32LE(b[HdrLegacyByReturnOffset+4*i:], n)
	}
	for i := 0; i < 3; i++ {
		buf.PutF64LE(b[HdrScaleOffset+8*i:], h.Scale[i])
		buf.PutF64LE(b[HdrOffsetOffset+8*i:], h.Offset[i])
		buf.PutF64LE(b[HdrMaxXOffset+16*i:], h.Max[i])
		buf.PutF64LE(b[HdrMaxXOffset+16*i+8:], h.Min[i])
	}

	if size >= HdrVersion13Size {
		buf.PutU64LE(b[HdrWaveformStartOffset:], h.WaveformStart)
	}
	if size >= HdrVersion14Size {
		buf.PutU64LE(b[HdrFirstEVLROffset:], h.FirstEVLR)
		buf.PutU32LE(b[HdrNumberOfEVLRsOffset:], h.NumberOfEVLRs)
		buf.PutU64LE(b[HdrPointCountOffset:], h.PointCount)
		for i, n := range h.PointsByReturn {
			buf.PutU64LE(b[HdrPointsByReturnOffset+8*i:], n)
		}
	}
	return b
}

// SetPointCount stores n in the count fields the header version defines.
// The legacy 32-bit fields are left at zero for 1.4 files using extended
// formats or when n does not fit, as LAS 1.4 requires.
func (h *Header) SetPointCount(n uint64, byReturn [HdrExtendedReturnCount]uint64) {
	h.PointCount = 0
	h.PointsByReturn = [HdrExtendedReturnCount]uint64{}
	h.LegacyPointCount = 0
	h.LegacyPointsByReturn = [HdrLegacyReturnCount]uint32{}

	if h.VersionMinor >= 4 {
		h.PointCount = n
		h.PointsByReturn = byReturn
		if IsExtended(h.PointFormat) || n > math.MaxUint32 {
			return
		}
	}
	if n > math.MaxUint32 {
		return
	}
	h.LegacyPointCount = uint32(n)
	for i := range h.LegacyPointsByReturn {
		if byReturn[i] <= math.MaxUint32 {
			h.LegacyPointsByReturn[i] = uint32(byReturn[i])
		}
	}
}
