package types

import (
	"github.com/joshuapare/laskit/internal/format"
)

// -----------------------------------------------------------------------------
// Core Identifiers
// -----------------------------------------------------------------------------

// ColumnHandle is a small, copyable reference to a column of an
// AttributeStore. Handles are only meaningful for the store that issued them.
type ColumnHandle int

// NoColumn marks an unbound field.
const NoColumn ColumnHandle = -1

// Valid reports whether h refers to a column.
func (h ColumnHandle) Valid() bool { return h >= 0 }

// Re-exported wire types so callers of the public API don't import
// internal packages.
type (
	// PointRecord is one decoded point record.
	PointRecord = format.PointRecord
	// Header is the LAS public header block.
	Header = format.Header
	// VLR is a variable length record.
	VLR = format.VLR
)

// Color is an 8-bit RGB triple.
type Color [3]uint8

// WaveformDescriptor describes how the samples of a waveform packet are
// digitised. Descriptors are keyed by record_id - 100.
type WaveformDescriptor struct {
	BitsPerSample   uint8
	NumberOfSamples uint32
	SamplingRatePs  uint32
	DigitizerGain   float64 // never 0; a stored 0 reads as 1.0
	DigitizerOffset float64
}

// WaveformLink locates the samples of one point's waveform.
type WaveformLink struct {
	DescriptorID uint8  // zero-based, record_id - 100
	DataOffset   uint64 // relative to the start of the sample payload
	ByteCount    uint32
	EchoTimePs   float32
	BeamDir      [3]float32
	ReturnIndex  uint8
}

// -----------------------------------------------------------------------------
// Collaborators
// -----------------------------------------------------------------------------

// AttributeStore holds per-point scalar columns.
type AttributeStore interface {
	// AddColumn creates an empty column. Fails with ErrKindMemory when the
	// store cannot hold another column.
	AddColumn(name string) (ColumnHandle, error)
	// FindColumn returns NoColumn when no column has that name.
	FindColumn(name string) ColumnHandle
	ColumnCount() int
	ColumnName(h ColumnHandle) string
	// Append adds one sample to a column. Fails with ErrKindMemory when the
	// column cannot grow.
	Append(h ColumnHandle, v float64) error
	ValueAt(h ColumnHandle, row int) float64
	// ColumnShift is the offset subtracted from values before they were
	// stored (used for GPS time).
	ColumnShift(h ColumnHandle) float64
	SetColumnShift(h ColumnHandle, shift float64)
	// Len returns the number of points.
	Len() int
}

// ColorStore receives per-point colours.
type ColorStore interface {
	HasColors() bool
	AppendColor(c Color) error
	ColorAt(row int) Color
}

// WaveformStore receives waveform descriptors and per-point links.
type WaveformStore interface {
	SetWaveformDescriptors(d map[uint8]WaveformDescriptor)
	WaveformDescriptors() map[uint8]WaveformDescriptor
	// SetWaveformData stores the raw sample payload all links point into.
	SetWaveformData(data []byte)
	WaveformData() []byte
	SetWaveformLink(row int, link WaveformLink) error
	WaveformLink(row int) (WaveformLink, bool)
	HasWaveforms() bool
}

// PointReader hands decoded records to the core one at a time.
type PointReader interface {
	Header() Header
	VLRs() []VLR
	// ReadPoint fills p with the next record. Returns io.EOF after the last.
	ReadPoint(p *PointRecord) error
	// LastError returns the last codec failure, if any.
	LastError() error
	Close() error
}

// PointWriter consumes records produced by the core. Nothing is visible at
// the destination until Commit succeeds; Abort discards everything written.
type PointWriter interface {
	WritePoint(p *PointRecord) error
	Commit() error
	Abort() error
	LastError() error
}
