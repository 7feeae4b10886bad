// Package lasio is the uncompressed LAS codec: it reads and writes the
// public header block, the VLR table and point records.
package lasio

import (
	"fmt"
	"io"

	"github.com/joshuapare/laskit/internal/buf"
	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/internal/mmfile"
)

// Reader decodes point records from a mapped LAS file.
type Reader struct {
	path    string
	mapping *mmfile.Mapping
	data    []byte

	header format.Header
	vlrs   []format.VLR

	recordLen int
	count     uint64
	next      uint64
	lastErr   error
}

// Open maps path and parses its header and VLRs.
func Open(path string) (*Reader, error) {
	m, err := mmfile.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(m.Data)
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	r.path = path
	r.mapping = m
	return r, nil
}

// NewReader parses a LAS file held in data. data must stay unchanged while
// the reader is in use.
func NewReader(data []byte) (*Reader, error) {
	h, err := format.ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if h.Compressed {
		return nil, fmt.Errorf("point format %d: %w", h.PointFormat, format.ErrCompressed)
	}
	std := int(format.RecordLength(h.PointFormat))
	if std == 0 {
		return nil, fmt.Errorf("point format %d: %w", h.PointFormat, format.ErrUnsupported)
	}
	if int(h.PointRecordLength) < std {
		return nil, fmt.Errorf("record length %d below %d for format %d: %w", h.PointRecordLength, std, h.PointFormat, format.ErrMalformed)
	}

	vlrs, n, err := format.DecodeVLRs(data[h.HeaderSize:], h.NumberOfVLRs)
	if err != nil {
		return nil, err
	}
	if end := int(h.HeaderSize) + n; end > int(h.OffsetToPoints) {
		return nil, fmt.Errorf("vlrs end at %d past point data at %d: %w", end, h.OffsetToPoints, format.ErrMalformed)
	}

	return &Reader{
		data:      data,
		header:    h,
		vlrs:      vlrs,
		recordLen: int(h.PointRecordLength),
		count:     h.NumberOfPoints(),
	}, nil
}

// Header returns the parsed header.
func (r *Reader) Header() format.Header { return r.header }

// VLRs returns the parsed VLRs.
func (r *Reader) VLRs() []format.VLR { return r.vlrs }

// Path returns the file path, or "" for in-memory readers.
func (r *Reader) Path() string { return r.path }

// Bytes returns the whole file.
func (r *Reader) Bytes() []byte { return r.data }

// Remaining returns the number of records not yet read.
func (r *Reader) Remaining() uint64 { return r.count - r.next }

// ReadPoint decodes the next record into p. It returns io.EOF after the
// last record. A record that does not fit in the file fails with
// format.ErrTruncated, which LastError also reports.
func (r *Reader) ReadPoint(p *format.PointRecord) error {
	if r.lastErr != nil {
		return r.lastErr
	}
	if r.next >= r.count {
		return io.EOF
	}
	off := int(r.header.OffsetToPoints) + int(r.next)*r.recordLen
	end, err := buf.CheckTableBounds(len(r.data), off, 1, r.recordLen)
	if err != nil {
		r.lastErr = fmt.Errorf("point %d: %w (%v)", r.next, format.ErrTruncated, err)
		return r.lastErr
	}
	if err := format.DecodePoint(r.data[off:end], r.header.PointFormat, p); err != nil {
		r.lastErr = fmt.Errorf("point %d: %w", r.next, err)
		return r.lastErr
	}
	r.next++
	return nil
}

// LastError returns the error that stopped reading, if any.
func (r *Reader) LastError() error { return r.lastErr }

// Close releases the mapping.
func (r *Reader) Close() error {
	if r.mapping == nil {
		return nil
	}
	err := r.mapping.Close()
	r.mapping = nil
	r.data = nil
	return err
}
