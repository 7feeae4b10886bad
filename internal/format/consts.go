// Package format houses low-level decoders for the ASPRS LAS point cloud
// file format. The goal is to keep the parsing focused, allocation-light, and
// independent from the public API so higher-level packages can orchestrate
// the data in a more ergonomic form.
package format

var (
	// LASFSignature is the four-byte signature at the start of every LAS file.
	LASFSignature = []byte{'L', 'A', 'S', 'F'}
)

// Well-known VLR user ids and record ids.
const (
	// UserIDLASFSpec owns the records defined by the LAS specification itself
	// (extra bytes, waveform packet descriptors, waveform data packets).
	UserIDLASFSpec = "LASF_Spec"

	// UserIDLaszip owns the record describing the compressor configuration.
	UserIDLaszip = "laszip encoded"

	// RecordIDLaszip identifies the LASzip VLR.
	RecordIDLaszip = 22204

	// RecordIDExtraBytes identifies the extra bytes VLR.
	RecordIDExtraBytes = 4

	// RecordIDWaveformDescriptorFirst and RecordIDWaveformDescriptorLast bound
	// the waveform packet descriptor VLRs. The descriptor index used by point
	// records is record_id - RecordIDWaveformDescriptorFirst.
	RecordIDWaveformDescriptorFirst = 100
	RecordIDWaveformDescriptorLast  = 354

	// RecordIDWaveformDataPackets identifies the EVLR holding waveform samples.
	RecordIDWaveformDataPackets = 65535
)

// ============================================================================
// Public Header Block
// ============================================================================
// Field offsets within the public header block (all little-endian).
const (
	HdrSignatureOffset          = 0   // [4]char "LASF"
	HdrFileSourceIDOffset       = 4   // uint16
	HdrGlobalEncodingOffset     = 6   // uint16
	HdrGUID1Offset              = 8   // uint32
	HdrGUID2Offset              = 12  // uint16
	HdrGUID3Offset              = 14  // uint16
	HdrGUID4Offset              = 16  // [8]byte
	HdrVersionMajorOffset       = 24  // uint8
	HdrVersionMinorOffset       = 25  // uint8
	HdrSystemIDOffset           = 26  // [32]char
	HdrGeneratingSoftwareOffset = 58  // [32]char
	HdrCreationDayOffset        = 90  // uint16
	HdrCreationYearOffset       = 92  // uint16
	HdrHeaderSizeOffset         = 94  // uint16
	HdrOffsetToPointsOffset     = 96  // uint32
	HdrNumberOfVLRsOffset       = 100 // uint32
	HdrPointFormatOffset        = 104 // uint8
	HdrPointRecordLengthOffset  = 105 // uint16
	HdrLegacyPointCountOffset   = 107 // uint32
	HdrLegacyByReturnOffset     = 111 // [5]uint32
	HdrScaleOffset              = 131 // [3]float64
	HdrOffsetOffset             = 155 // [3]float64
	HdrMaxXOffset               = 179 // float64, then MinX, MaxY, MinY, MaxZ, MinZ

	// LAS 1.3 additions.
	HdrWaveformStartOffset = 227 // uint64

	// LAS 1.4 additions.
	HdrFirstEVLROffset       = 235 // uint64
	HdrNumberOfEVLRsOffset   = 243 // uint32
	HdrPointCountOffset      = 247 // uint64
	HdrPointsByReturnOffset  = 255 // [15]uint64
	HdrLegacyReturnCount     = 5
	HdrExtendedReturnCount   = 15
	HdrFixedStringSize       = 32
	HdrGUID4Size             = 8
	HdrMinSize               = 227
	HdrVersion13Size         = 235
	HdrVersion14Size         = 375
	HdrCompressedFormatFlag  = 0x80 // set on the point format byte by LASzip
	HdrCompressedFormatFlag2 = 0x40 // older LASzip releases
)

// Global encoding bits.
const (
	GlobalEncodingGPSStandardTime  = 1 << 0
	GlobalEncodingWaveformInternal = 1 << 1
	GlobalEncodingWaveformExternal = 1 << 2
	GlobalEncodingSyntheticReturns = 1 << 3
	GlobalEncodingWKT              = 1 << 4
)

// ============================================================================
// Variable Length Records
// ============================================================================
const (
	VLRReservedOffset     = 0  // uint16
	VLRUserIDOffset       = 2  // [16]char
	VLRRecordIDOffset     = 18 // uint16
	VLRRecordLengthOffset = 20 // uint16
	VLRDescriptionOffset  = 22 // [32]char
	VLRHeaderSize         = 54

	VLRUserIDSize      = 16
	VLRDescriptionSize = 32
)

// Extended VLR header. Same prefix as a VLR but with a 64-bit length.
const (
	EVLRUserIDOffset       = 2  // [16]char
	EVLRRecordIDOffset     = 18 // uint16
	EVLRRecordLengthOffset = 20 // uint64
	EVLRDescriptionOffset  = 28 // [32]char
	EVLRHeaderSize         = 60
)

// ============================================================================
// Extra Bytes descriptor (one per user-defined attribute)
// ============================================================================
const (
	EBReservedOffset    = 0   // [2]byte
	EBDataTypeOffset    = 2   // uint8
	EBOptionsOffset     = 3   // uint8
	EBNameOffset        = 4   // [32]char
	EBUnusedOffset      = 36  // [4]byte
	EBNoDataOffset      = 40  // [3][8]byte
	EBMinOffset         = 64  // [3][8]byte
	EBMaxOffset         = 88  // [3][8]byte
	EBScaleOffset       = 112 // [3]float64
	EBOffsetOffset      = 136 // [3]float64
	EBDescriptionOffset = 160 // [32]char
	EBRecordSize        = 192

	EBNameSize        = 32
	EBDescriptionSize = 32
	EBSlotSize        = 8
	EBMaxComponents   = 3
)

// ============================================================================
// Waveform packets
// ============================================================================

// Per-point wave packet field (29 bytes).
const (
	WPDescriptorIndexOffset = 0  // uint8, 0 = no waveform
	WPByteOffsetOffset      = 1  // uint64, absolute offset of the samples
	WPByteCountOffset       = 9  // uint32
	WPReturnLocationOffset  = 13 // float32, picoseconds
	WPDirectionOffset       = 17 // [3]float32
	WavePacketSize          = 29
)

// Waveform packet descriptor VLR payload (26 bytes).
const (
	WDBitsPerSampleOffset   = 0  // uint8
	WDCompressionOffset     = 1  // uint8, ignored
	WDSampleCountOffset     = 2  // uint32
	WDSamplingRateOffset    = 6  // uint32, picoseconds
	WDDigitizerGainOffset   = 10 // float64
	WDDigitizerOffsetOffset = 18 // float64
	WaveformDescriptorSize  = 26
)

// ScanAngleScale converts the 16-bit extended scan angle to degrees.
const ScanAngleScale = 0.06

// ExternalWaveformExt is the extension of the sibling waveform data file.
const ExternalWaveformExt = ".wdp"
