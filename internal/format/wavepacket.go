package format

import (
	"fmt"

	"github.com/joshuapare/laskit/internal/buf"
)

// WavePacket is the decoded 29-byte wave packet field of a point record.
//
//	Offset  Size  Description
//	------  ----  ---------------------------------------------
//	   0     1    Descriptor index (1-based, 0 = none)
//	   1     8    Byte offset of the samples
//	   9     4    Packet size in bytes
//	  13     4    Return point location (float32, picoseconds)
//	  17    12    Parametric direction x(t), y(t), z(t) (float32)
type WavePacket struct {
	DescriptorIndex uint8
	ByteOffset      uint64
	ByteCount       uint32
	ReturnLocation  float32
	Direction       [3]float32
}

// DecodeWavePacket parses the wave packet field.
func DecodeWavePacket(b []byte) (WavePacket, error) {
	if len(b) < WavePacketSize {
		return WavePacket{}, fmt.Errorf("wave packet: %w (have %d, need %d)", ErrTruncated, len(b), WavePacketSize)
	}
	return WavePacket{
		DescriptorIndex: b[WPDescriptorIndexOffset],
		ByteOffset:      buf.U64LE(b[WPByteOffsetOffset:]),
		ByteCount:       buf.U32LE(b[WPByteCountOffset:]),
		ReturnLocation:  buf.F32LE(b[WPReturnLocationOffset:]),
		Direction: [3]float32{
			buf.F32LE(b[WPDirectionOffset:]),
			buf.F32LE(b[WPDirectionOffset+4:]),
			buf.F32LE(b[WPDirectionOffset+8:]),
		},
	}, nil
}

// Encode writes the packet into b, which must hold WavePacketSize bytes.
func (w WavePacket) Encode(b []byte) error {
	if len(b) < WavePacketSize {
		return fmt.Errorf("wave packet: %w (have %d, need %d)", ErrTruncated, len(b), WavePacketSize)
	}
	b[WPDescriptorIndexOffset] = w.DescriptorIndex
	buf.PutU64LE(b[WPByteOffsetOffset:], w.ByteOffset)
	buf.PutU32LE(b[WPByteCountOffset:], w.ByteCount)
	buf.PutF32LE(b[WPReturnLocationOffset:], w.ReturnLocation)
	for i, d := range w.Direction {
		buf.PutF32LE(b[WPDirectionOffset+4*i:], d)
	}
	return nil
}

// WaveformDescriptorRecord is the raw payload of a waveform packet
// descriptor VLR.
//
//	Offset  Size  Description
//	------  ----  ---------------------------------------------
//	   0     1    Bits per sample
//	   1     1    Compression type (unused)
//	   2     4    Number of samples
//	   6     4    Temporal sample spacing (picoseconds)
//	  10     8    Digitizer gain
//	  18     8    Digitizer offset
type WaveformDescriptorRecord struct {
	BitsPerSample   uint8
	CompressionType uint8
	NumberOfSamples uint32
	SamplingRatePs  uint32
	DigitizerGain   float64
	DigitizerOffset float64
}

// DecodeWaveformDescriptor parses a descriptor payload.
func DecodeWaveformDescriptor(b []byte) (WaveformDescriptorRecord, error) {
	if len(b) < WaveformDescriptorSize {
		return WaveformDescriptorRecord{}, fmt.Errorf("waveform descriptor: %w (have %d, need %d)", ErrTruncated, len(b), WaveformDescriptorSize)
	}
	return WaveformDescriptorRecord{
		BitsPerSample:   b[WDBitsPerSampleOffset],
		CompressionType: b[WDCompressionOffset],
		NumberOfSamples: buf.U32LE(b[WDSampleCountOffset:]),
		SamplingRatePs:  buf.U32LE(b[WDSamplingRateOffset:]),
		DigitizerGain:   buf.F64LE(b[WDDigitizerGainOffset:]),
		DigitizerOffset: buf.F64LE(b[WDDigitizerOffsetOffset:]),
	}, nil
}

// Encode returns the 26-byte payload.
func (d WaveformDescriptorRecord) Encode() []byte {
	b := make([]byte, WaveformDescriptorSize)
	b[WDBitsPerSampleOffset] = d.BitsPerSample
	b[WDCompressionOffset] = d.CompressionType
	buf.PutU32LE(b[WDSampleCountOffset:], d.NumberOfSamples)
	buf.PutU32LE(b[WDSamplingRateOffset:], d.SamplingRatePs)
	buf.PutF64LE(b[WDDigitizerGainOffset:], d.DigitizerGain)
	buf.PutF64LE(b[WDDigitizerOffsetOffset:], d.DigitizerOffset)
	return b
}
