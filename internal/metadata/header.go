package metadata

import (
	"fmt"
	"math"
	"time"

	"github.com/joshuapare/laskit/internal/format"
)

// GeneratingSoftware is written into every header this module produces.
const GeneratingSoftware = "laskit"

// OptimalScale returns the scale that spreads diag over the int32 range.
// Degenerate axes fall back to a tiny positive scale.
func OptimalScale(diag [3]float64) [3]float64 {
	var s [3]float64
	for i, d := range diag {
		s[i] = 1e-9 * math.Max(d, zeroTolerance)
	}
	return s
}

const zeroTolerance = 1e-12

// HeaderParams describes the header of a file about to be written.
type HeaderParams struct {
	VersionMinor uint8
	PointFormat  uint8
	Scale        [3]float64
	Offset       [3]float64
	// ExtraBytes is the size of the extra bytes region of each record.
	ExtraBytes int
	// VLRs are written in order after the header.
	VLRs []format.VLR
	// ExternalWaveforms sets the global encoding bit announcing a .wdp file.
	ExternalWaveforms bool
	Now               time.Time
}

// BuildHeader creates the output header. The VLRs of info are consumed:
// they are moved into the header's VLR list ahead of params.VLRs, leaving
// info without VLRs. info may be nil.
func BuildHeader(info *SavedInfo, params HeaderParams) (format.Header, []format.VLR, error) {
	if !format.FormatAllowedForVersion(params.VersionMinor, params.PointFormat) {
		return format.Header{}, nil, fmt.Errorf("point format %d in LAS 1.%d: %w", params.PointFormat, params.VersionMinor, format.ErrUnsupported)
	}
	if params.ExtraBytes < 0 || int(format.RecordLength(params.PointFormat))+params.ExtraBytes > math.MaxUint16 {
		return format.Header{}, nil, fmt.Errorf("%d extra bytes per record: %w", params.ExtraBytes, format.ErrUnsupported)
	}
	for i, s := range params.Scale {
		if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			return format.Header{}, nil, fmt.Errorf("scale[%d] = %g: %w", i, s, format.ErrMalformed)
		}
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}

	day, year := format.CreationFields(now)
	var vlrs []format.VLR
	h := format.Header{
		VersionMajor:       1,
		VersionMinor:       params.VersionMinor,
		GeneratingSoftware: GeneratingSoftware,
		SystemID:           GeneratingSoftware,
		CreationDay:        day,
		CreationYear:       year,
		HeaderSize:         format.HeaderSize(params.VersionMinor),
		PointFormat:        params.PointFormat,
		PointRecordLength:  format.RecordLength(params.PointFormat) + uint16(params.ExtraBytes),
		Scale:              params.Scale,
		Offset:             params.Offset,
	}
	if info != nil {
		h.FileSourceID = info.FileSourceID
		h.GUID1, h.GUID2, h.GUID3, h.GUID4 = info.GUID1, info.GUID2, info.GUID3, info.GUID4
		if info.SystemID != "" {
			h.SystemID = info.SystemID
		}
		h.GlobalEncoding = info.GlobalEncoding & (format.GlobalEncodingGPSStandardTime | format.GlobalEncodingWKT)
		vlrs = info.TakeVLRs()
	}
	vlrs = append(vlrs, params.VLRs...)
	if params.ExternalWaveforms {
		h.GlobalEncoding |= format.GlobalEncodingWaveformExternal
	}
	if format.IsExtended(params.PointFormat) {
		h.GlobalEncoding |= format.GlobalEncodingWKT
	}

	vlrSize := format.SizeOfVLRs(vlrs)
	offset := int(h.HeaderSize) + vlrSize
	if offset > math.MaxUint32 {
		return format.Header{}, nil, fmt.Errorf("vlrs of %d bytes: %w", vlrSize, format.ErrMalformed)
	}
	h.NumberOfVLRs = uint32(len(vlrs))
	h.OffsetToPoints = uint32(offset)
	return h, vlrs, nil
}
