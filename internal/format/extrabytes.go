package format

import (
	"fmt"

	"github.com/joshuapare/laskit/internal/buf"
)

// ExtraBytesRecord is one raw 192-byte descriptor of the extra bytes VLR.
// Interpretation of the slots is left to the schema layer.
//
//	Offset  Size  Description
//	------  ----  ---------------------------------------------
//	   0     2    Reserved
//	   2     1    Data type (0 = undocumented, 1..30 typed)
//	   3     1    Options (no_data, min, max, scale, offset bits)
//	   4    32    Name
//	  36     4    Unused
//	  40    24    No data, one 8-byte slot per component
//	  64    24    Min
//	  88    24    Max
//	 112    24    Scale (float64 x3)
//	 136    24    Offset (float64 x3)
//	 160    32    Description
type ExtraBytesRecord struct {
	DataType    uint8
	Options     uint8
	Name        [EBNameSize]byte
	NoData      [EBMaxComponents][EBSlotSize]byte
	Min         [EBMaxComponents][EBSlotSize]byte
	Max         [EBMaxComponents][EBSlotSize]byte
	Scale       [EBMaxComponents]float64
	Offset      [EBMaxComponents]float64
	Description [EBDescriptionSize]byte
}

// DecodeExtraBytesRecord parses a single descriptor.
func DecodeExtraBytesRecord(b []byte) (ExtraBytesRecord, error) {
	if len(b) < EBRecordSize {
		return ExtraBytesRecord{}, fmt.Errorf("extra bytes: %w (have %d, need %d)", ErrTruncated, len(b), EBRecordSize)
	}
	var r ExtraBytesRecord
	r.DataType = b[EBDataTypeOffset]
	r.Options = b[EBOptionsOffset]
	copy(r.Name[:], b[EBNameOffset:EBNameOffset+EBNameSize])
	for i := 0; i < EBMaxComponents; i++ {
		copy(r.NoData[i][:], b[EBNoDataOffset+i*EBSlotSize:])
		copy(r.Min[i][:], b[EBMinOffset+i*EBSlotSize:])
		copy(r.Max[i][:], b[EBMaxOffset+i*EBSlotSize:])
		r.Scale[i] = buf.F64LE(b[EBScaleOffset+i*EBSlotSize:])
		r.Offset[i] = buf.F64LE(b[EBOffsetOffset+i*EBSlotSize:])
	}
	copy(r.Description[:], b[EBDescriptionOffset:EBDescriptionOffset+EBDescriptionSize])
	return r, nil
}

// DecodeExtraBytesRecords splits a VLR payload into descriptors. A trailing
// remainder shorter than one record is returned as rest.
func DecodeExtraBytesRecords(payload []byte) (records []ExtraBytesRecord, rest int) {
	count := len(payload) / EBRecordSize
	records = make([]ExtraBytesRecord, 0, count)
	for i := 0; i < count; i++ {
		r, _ := DecodeExtraBytesRecord(payload[i*EBRecordSize:])
		records = append(records, r)
	}
	return records, len(payload) % EBRecordSize
}

// AppendTo appends the 192-byte encoding of r to dst.
func (r ExtraBytesRecord) AppendTo(dst []byte) []byte {
	var b [EBRecordSize]byte
	b[EBDataTypeOffset] = r.DataType
	b[EBOptionsOffset] = r.Options
	copy(b[EBNameOffset:EBNameOffset+EBNameSize], r.Name[:])
	for i := 0; i < EBMaxComponents; i++ {
		copy(b[EBNoDataOffset+i*EBSlotSize:], r.NoData[i][:])
		copy(b[EBMinOffset+i*EBSlotSize:], r.Min[i][:])
		copy(b[EBMaxOffset+i*EBSlotSize:], r.Max[i][:])
		buf.PutF64LE(b[EBScaleOffset+i*EBSlotSize:], r.Scale[i])
		buf.PutF64LE(b[EBOffsetOffset+i*EBSlotSize:], r.Offset[i])
	}
	copy(b[EBDescriptionOffset:EBDescriptionOffset+EBDescriptionSize], r.Description[:])
	return append(dst, b[:]...)
}
