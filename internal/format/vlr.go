package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/joshuapare/laskit/internal/buf"
)

// VLR is a variable length record.
//
//	Offset  Size  Description
//	------  ----  ---------------------------
//	   0     2    Reserved
//	   2    16    User id
//	  18     2    Record id
//	  20     2    Record length after header
//	  22    32    Description
//	  54     n    Payload
type VLR struct {
	UserID      string
	RecordID    uint16
	Description string
	Data        []byte
}

// Clone returns a deep copy of v.
func (v VLR) Clone() VLR {
	out := v
	if v.Data != nil {
		out.Data = append([]byte(nil), v.Data...)
	}
	return out
}

// IsLaszip reports whether v describes a LASzip compressor configuration.
// Writers disagree on the capitalisation of the user id.
func (v VLR) IsLaszip() bool {
	return strings.EqualFold(v.UserID, UserIDLaszip) && v.RecordID == RecordIDLaszip
}

// IsExtraBytes reports whether v is the extra bytes VLR.
func (v VLR) IsExtraBytes() bool {
	return v.UserID == UserIDLASFSpec && v.RecordID == RecordIDExtraBytes
}

// IsWaveformDescriptor reports whether v is a waveform packet descriptor.
func (v VLR) IsWaveformDescriptor() bool {
	return v.UserID == UserIDLASFSpec &&
		v.RecordID >= RecordIDWaveformDescriptorFirst &&
		v.RecordID <= RecordIDWaveformDescriptorLast
}

// EncodedSize returns the size of v on disk including its header.
func (v VLR) EncodedSize() int {
	return VLRHeaderSize + len(v.Data)
}

// AppendTo appends the encoded VLR to dst.
func (v VLR) AppendTo(dst []byte) ([]byte, error) {
	if len(v.Data) > math.MaxUint16 {
		return dst, fmt.Errorf("vlr %q/%d payload %d bytes: %w", v.UserID, v.RecordID, len(v.Data), ErrMalformed)
	}
	var hdr [VLRHeaderSize]byte
	EncodeFixedString(hdr[VLRUserIDOffset:VLRUserIDOffset+VLRUserIDSize], v.UserID)
	buf.PutU16LE(hdr[VLRRecordIDOffset:], v.RecordID)
	buf.PutU16LE(hdr[VLRRecordLengthOffset:], uint16(len(v.Data)))
	EncodeFixedString(hdr[VLRDescriptionOffset:VLRDescriptionOffset+VLRDescriptionSize], v.Description)
	dst = append(dst, hdr[:]...)
	return append(dst, v.Data...), nil
}

// DecodeVLRs parses count records starting at b[0]. The returned VLRs own
// copies of their payloads. n is the number of bytes consumed.
func DecodeVLRs(b []byte, count uint32) (vlrs []VLR, n int, err error) {
	vlrs = make([]VLR, 0, min(int(count), len(b)/VLRHeaderSize))
	off := 0
	for i := uint32(0); i < count; i++ {
		if off+VLRHeaderSize > len(b) {
			return vlrs, off, fmt.Errorf("vlr %d: %w (have %d, need %d)", i, ErrTruncated, len(b)-off, VLRHeaderSize)
		}
		h := b[off : off+VLRHeaderSize]
		length := int(buf.U16LE(h[VLRRecordLengthOffset:]))
		payload, ok := buf.Slice(b, off+VLRHeaderSize, length)
		if !ok {
			return vlrs, off, fmt.Errorf("vlr %d payload: %w (have %d, need %d)", i, ErrTruncated, len(b)-off-VLRHeaderSize, length)
		}
		vlrs = append(vlrs, VLR{
			UserID:      DecodeFixedString(h[VLRUserIDOffset : VLRUserIDOffset+VLRUserIDSize]),
			RecordID:    buf.U16LE(h[VLRRecordIDOffset:]),
			Description: DecodeFixedString(h[VLRDescriptionOffset : VLRDescriptionOffset+VLRDescriptionSize]),
			Data:        append([]byte(nil), payload...),
		})
		off += VLRHeaderSize + length
	}
	return vlrs, off, nil
}

// SizeOfVLRs returns the encoded size of vlrs.
func SizeOfVLRs(vlrs []VLR) int {
	total := 0
	for _, v := range vlrs {
		total += v.EncodedSize()
	}
	return total
}

// EVLRHeader is the 60-byte header of an extended variable length record.
//
//	Offset  Size  Description
//	------  ----  ---------------------------
//	   0     2    Reserved
//	   2    16    User id
//	  18     2    Record id (65535 = waveform data packets)
//	  20     8    Record length after header
//	  28    32    Description
type EVLRHeader struct {
	UserID       string
	RecordID     uint16
	RecordLength uint64
	Description  string
}

// DecodeEVLRHeader parses an EVLR header.
func DecodeEVLRHeader(b []byte) (EVLRHeader, error) {
	if len(b) < EVLRHeaderSize {
		return EVLRHeader{}, fmt.Errorf("evlr: %w (have %d, need %d)", ErrTruncated, len(b), EVLRHeaderSize)
	}
	return EVLRHeader{
		UserID:       DecodeFixedString(b[EVLRUserIDOffset : EVLRUserIDOffset+VLRUserIDSize]),
		RecordID:     buf.U16LE(b[EVLRRecordIDOffset:]),
		RecordLength: buf.U64LE(b[EVLRRecordLengthOffset:]),
		Description:  DecodeFixedString(b[EVLRDescriptionOffset : EVLRDescriptionOffset+VLRDescriptionSize]),
	}, nil
}

// Encode serialises the header into a new 60-byte slice.
func (h EVLRHeader) Encode() []byte {
	b := make([]byte, EVLRHeaderSize)
	EncodeFixedString(b[EVLRUserIDOffset:EVLRUserIDOffset+VLRUserIDSize], h.UserID)
	buf.PutU16LE(b[EVLRRecordIDOffset:], h.RecordID)
	buf.PutU64LE(b[EVLRRecordLengthOffset:], h.RecordLength)
	EncodeFixedString(b[EVLRDescriptionOffset:EVLRDescriptionOffset+VLRDescriptionSize], h.Description)
	return b
}

// IsWaveformDataPackets reports whether the header announces waveform data.
func (h EVLRHeader) IsWaveformDataPackets() bool {
	return h.RecordID == RecordIDWaveformDataPackets
}

// WaveformEVLRHeader returns the header that precedes waveform samples,
// both inside a LAS file and at the start of a .wdp file.
func WaveformEVLRHeader(length uint64) EVLRHeader {
	return EVLRHeader{
		UserID:       UserIDLASFSpec,
		RecordID:     RecordIDWaveformDataPackets,
		RecordLength: length,
		Description:  "Waveform data packets",
	}
}
