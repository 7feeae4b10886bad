package format

import (
	"fmt"

	"github.com/joshuapare/laskit/internal/buf"
)

// OverlapFlagMask is the bit of PointRecord.ExtendedClassificationFlags that
// carries the overlap flag. On disk the flag lives at bit 3 of byte 15.
const OverlapFlagMask = 1 << 5

// PointRecord is one decoded point. Which fields are meaningful depends on
// the point format; fields a format does not carry are left at zero.
type PointRecord struct {
	X, Y, Z   int32
	Intensity uint16

	// Legacy bit fields (formats 0-5).
	ReturnNumber    uint8 // 3 bits
	NumberOfReturns uint8 // 3 bits
	Classification  uint8 // 5 bits
	ScanAngleRank   int8

	// Shared flags.
	ScanDirectionFlag uint8
	EdgeOfFlightLine  uint8
	SyntheticFlag     uint8
	KeypointFlag      uint8
	WithheldFlag      uint8

	UserData      uint8
	PointSourceID uint16
	GpsTime       float64

	// RGB holds red, green, blue and near infrared in that order.
	RGB [4]uint16

	// Extended fields (formats 6-10).
	ExtendedReturnNumber        uint8 // 4 bits
	ExtendedNumberOfReturns     uint8 // 4 bits
	ExtendedScannerChannel      uint8 // 2 bits
	ExtendedClassificationFlags uint8 // see OverlapFlagMask
	ExtendedClassification      uint8
	ExtendedScanAngle           int16

	WavePacket [WavePacketSize]byte

	// ExtraBytes is the region following the standard fields.
	ExtraBytes []byte
}

// Reset zeroes every field, keeping the ExtraBytes backing array.
func (p *PointRecord) Reset() {
	eb := p.ExtraBytes
	clear(eb)
	*p = PointRecord{ExtraBytes: eb}
}

// Overlap reports whether the overlap flag is set.
func (p *PointRecord) Overlap() bool {
	return p.ExtendedClassificationFlags&OverlapFlagMask != 0
}

// DecodePoint decodes one record of format pf from b into p. The bytes
// beyond RecordLength(pf) are copied into p.ExtraBytes, which is resized
// as needed.
func DecodePoint(b []byte, pf uint8, p *PointRecord) error {
	std := int(RecordLength(pf))
	if std == 0 {
		return fmt.Errorf("point format %d: %w", pf, ErrUnsupported)
	}
	if len(b) < std {
		return fmt.Errorf("point: %w (have %d, need %d)", ErrTruncated, len(b), std)
	}

	p.X = buf.I32LE(b[0:])
	p.Y = buf.I32LE(b[4:])
	p.Z = buf.I32LE(b[8:])
	p.Intensity = buf.U16LE(b[12:])

	off := 0
	if IsExtended(pf) {
		p.ExtendedReturnNumber = b[14] & 0x0F
		p.ExtendedNumberOfReturns = b[14] >> 4
		flags := b[15]
		p.SyntheticFlag = flags & 0x01
		p.KeypointFlag = (flags >> 1) & 0x01
		p.WithheldFlag = (flags >> 2) & 0x01
		p.ExtendedClassificationFlags = 0
		if flags&0x08 != 0 {
			p.ExtendedClassificationFlags = OverlapFlagMask
		}
		p.ExtendedScannerChannel = (flags >> 4) & 0x03
		p.ScanDirectionFlag = (flags >> 6) & 0x01
		p.EdgeOfFlightLine = flags >> 7
		p.ExtendedClassification = b[16]
		p.UserData = b[17]
		p.ExtendedScanAngle = buf.I16LE(b[18:])
		p.PointSourceID = buf.U16LE(b[20:])
		p.GpsTime = buf.F64LE(b[22:])
		off = 30

		// Mirror into the legacy fields the way LASzip does.
		p.ReturnNumber = min(p.ExtendedReturnNumber, 7)
		p.NumberOfReturns = min(p.ExtendedNumberOfReturns, 7)
		p.Classification = min(p.ExtendedClassification, 31)
		p.ScanAngleRank = int8(clampInt(int(float64(p.ExtendedScanAngle)*ScanAngleScale), -128, 127))
	} else {
		p.ReturnNumber = b[14] & 0x07
		p.NumberOfReturns = (b[14] >> 3) & 0x07
		p.ScanDirectionFlag = (b[14] >> 6) & 0x01
		p.EdgeOfFlightLine = b[14] >> 7
		p.Classification = b[15] & 0x1F
		p.SyntheticFlag = (b[15] >> 5) & 0x01
		p.KeypointFlag = (b[15] >> 6) & 0x01
		p.WithheldFlag = b[15] >> 7
		p.ScanAngleRank = int8(b[16])
		p.UserData = b[17]
		p.PointSourceID = buf.U16LE(b[18:])
		off = 20
		if HasGpsTime(pf) {
			p.GpsTime = buf.F64LE(b[off:])
			off += 8
		}
	}

	if HasRGBField(pf) {
		p.RGB[0] = buf.U16LE(b[off:])
		p.RGB[1] = buf.U16LE(b[off+2:])
		p.RGB[2] = buf.U16LE(b[off+4:])
		off += 6
	}
	if HasNearInfrared(pf) {
		p.RGB[3] = buf.U16LE(b[off:])
		off += 2
	}
	if HasWavePacketField(pf) {
		copy(p.WavePacket[:], b[off:off+WavePacketSize])
		off += WavePacketSize
	}

	extra := len(b) - off
	if cap(p.ExtraBytes) < extra {
		p.ExtraBytes = make([]byte, extra)
	}
	p.ExtraBytes = p.ExtraBytes[:extra]
	copy(p.ExtraBytes, b[off:])
	return nil
}

// EncodePoint writes p as a record of format pf into b. len(b) must be at
// least RecordLength(pf); the remainder receives p.ExtraBytes, zero padded.
func EncodePoint(b []byte, pf uint8, p *PointRecord) error {
	std := int(RecordLength(pf))
	if std == 0 {
		return fmt.Errorf("point format %d: %w", pf, ErrUnsupported)
	}
	if len(b) < std {
		return fmt.Errorf("point: %w (have %d, need %d)", ErrTruncated, len(b), std)
	}

	buf.PutI32LE(b[0:], p.X)
	buf.PutI32LE(b[4:], p.Y)
	buf.PutI32LE(b[8:], p.Z)
	buf.PutU16LE(b[12:], p.Intensity)

	off := 0
	if IsExtended(pf) {
		b[14] = (p.ExtendedReturnNumber & 0x0F) | (p.ExtendedNumberOfReturns&0x0F)<<4
		flags := (p.SyntheticFlag & 0x01) |
			(p.KeypointFlag&0x01)<<1 |
			(p.WithheldFlag&0x01)<<2 |
			(p.ExtendedScannerChannel&0x03)<<4 |
			(p.ScanDirectionFlag&0x01)<<6 |
			(p.EdgeOfFlightLine&0x01)<<7
		if p.Overlap() {
			flags |= 0x08
		}
		b[15] = flags
		b[16] = p.ExtendedClassification
		b[17] = p.UserData
		buf.PutI16LE(b[18:], p.ExtendedScanAngle)
		buf.PutU16LE(b[20:], p.PointSourceID)
		buf.PutF64LE(b[22:], p.GpsTime)
		off = 30
	} else {
		b[14] = (p.ReturnNumber & 0x07) |
			(p.NumberOfReturns&0x07)<<3 |
			(p.ScanDirectionFlag&0x01)<<6 |
			(p.EdgeOfFlightLine&0x01)<<7
		b[15] = (p.Classification & 0x1F) |
			(p.SyntheticFlag&0x01)<<5 |
			(p.KeypointFlag&0x01)<<6 |
			(p.WithheldFlag&0x01)<<7
		b[16] = byte(p.ScanAngleRank)
		b[17] = p.UserData
		buf.PutU16LE(b[18:], p.PointSourceID)
		off = 20
		if HasGpsTime(pf) {
			buf.PutF64LE(b[off:], p.GpsTime)
			off += 8
		}
	}

	if HasRGBField(pf) {
		buf.PutU16LE(b[off:], p.RGB[0])
		buf.PutU16LE(b[off+2:], p.RGB[1])
		buf.PutU16LE(b[off+4:], p.RGB[2])
		off += 6
	}
	if HasNearInfrared(pf) {
		buf.PutU16LE(b[off:], p.RGB[3])
		off += 2
	}
	if HasWavePacketField(pf) {
		copy(b[off:off+WavePacketSize], p.WavePacket[:])
		off += WavePacketSize
	}

	rest := b[off:]
	n := copy(rest, p.ExtraBytes)
	clear(rest[n:])
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
