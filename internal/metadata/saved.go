// Package metadata keeps what a load learned about a file so that a later
// save can reproduce it: identification fields, the scale, the VLRs the
// core does not own, and the extra field schema.
package metadata

import (
	"encoding/binary"
	"maps"

	"github.com/google/uuid"

	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/internal/schema"
	"github.com/joshuapare/laskit/pkg/types"
)

// SavedInfo is the snapshot taken at load time.
type SavedInfo struct {
	FileSourceID   uint16
	GlobalEncoding uint16
	GUID1          uint32
	GUID2          uint16
	GUID3          uint16
	GUID4          [format.HdrGUID4Size]byte
	SystemID       string
	VersionMinor   uint8
	PointFormat    uint8
	Scale          [3]float64

	// VLRs excludes the LASzip, extra bytes and waveform descriptor VLRs;
	// those are regenerated on save.
	VLRs        []format.VLR
	ExtraFields []schema.ExtraField

	// Constants holds the standard fields that kept one value on every
	// record and so have no column. ConstantColor is the colour shared by
	// every record when no colours were stored.
	Constants     map[string]float64
	ConstantColor *types.Color
}

// FromHeader snapshots h and vlrs. extra is the parsed extra field list.
func FromHeader(h format.Header, vlrs []format.VLR, extra []schema.ExtraField) *SavedInfo {
	s := &SavedInfo{
		FileSourceID:   h.FileSourceID,
		GlobalEncoding: h.GlobalEncoding,
		GUID1:          h.GUID1,
		GUID2:          h.GUID2,
		GUID3:          h.GUID3,
		GUID4:          h.GUID4,
		SystemID:       h.SystemID,
		VersionMinor:   h.VersionMinor,
		PointFormat:    h.PointFormat,
		Scale:          h.Scale,
		ExtraFields:    append([]schema.ExtraField(nil), extra...),
	}
	for _, v := range vlrs {
		if v.IsLaszip() || v.IsExtraBytes() || v.IsWaveformDescriptor() {
			continue
		}
		s.VLRs = append(s.VLRs, v.Clone())
	}
	return s
}

// Clone returns a deep copy. A save always works on a clone so the
// cloud's snapshot survives.
func (s *SavedInfo) Clone() *SavedInfo {
	if s == nil {
		return nil
	}
	out := *s
	if s.VLRs != nil {
		out.VLRs = make([]format.VLR, len(s.VLRs))
		for i, v := range s.VLRs {
			out.VLRs[i] = v.Clone()
		}
	}
	out.ExtraFields = append([]schema.ExtraField(nil), s.ExtraFields...)
	out.Constants = maps.Clone(s.Constants)
	if s.ConstantColor != nil {
		col := *s.ConstantColor
		out.ConstantColor = &col
	}
	return &out
}

// TakeVLRs hands the VLRs over to the caller and leaves s without any.
func (s *SavedInfo) TakeVLRs() []format.VLR {
	vlrs := s.VLRs
	s.VLRs = nil
	return vlrs
}

// ProjectID returns the project GUID. The first three groups are stored
// little-endian on disk and big-endian in the canonical UUID form.
func (s *SavedInfo) ProjectID() uuid.UUID {
	var u uuid.UUID
	binary.BigEndian.PutUint32(u[0:4], s.GUID1)
	binary.BigEndian.PutUint16(u[4:6], s.GUID2)
	binary.BigEndian.PutUint16(u[6:8], s.GUID3)
	copy(u[8:], s.GUID4[:])
	return u
}

// SetProjectID stores u as the project GUID.
func (s *SavedInfo) SetProjectID(u uuid.UUID) {
	s.GUID1 = binary.BigEndian.Uint32(u[0:4])
	s.GUID2 = binary.BigEndian.Uint16(u[4:6])
	s.GUID3 = binary.BigEndian.Uint16(u[6:8])
	copy(s.GUID4[:], u[8:])
}

// HasProjectID reports whether a non-nil GUID is recorded.
func (s *SavedInfo) HasProjectID() bool {
	return s.ProjectID() != uuid.Nil
}
