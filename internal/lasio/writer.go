package lasio

import (
	"fmt"
	"math"

	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/internal/writer"
)

// Writer encodes point records into a sink. The header is written up front
// and patched on Commit with the point count, the counts by return and the
// bounds of the written points.
type Writer struct {
	sink   writer.Sink
	header format.Header
	buf    []byte

	count    uint64
	byReturn [format.HdrExtendedReturnCount]uint64
	min, max [3]float64

	lastErr error
	closed  bool
}

// NewWriter writes h and vlrs to sink. h.OffsetToPoints must leave room
// for the header and the VLRs; any gap is zero filled.
func NewWriter(sink writer.Sink, h format.Header, vlrs []format.VLR) (*Writer, error) {
	if format.RecordLength(h.PointFormat) == 0 || h.PointRecordLength < format.RecordLength(h.PointFormat) {
		return nil, fmt.Errorf("point format %d record length %d: %w", h.PointFormat, h.PointRecordLength, format.ErrUnsupported)
	}
	h.NumberOfVLRs = uint32(len(vlrs))
	out := h.Encode()
	var err error
	for _, v := range vlrs {
		if out, err = v.AppendTo(out); err != nil {
			return nil, err
		}
	}
	if len(out) > int(h.OffsetToPoints) {
		return nil, fmt.Errorf("header and vlrs take %d bytes, points start at %d: %w", len(out), h.OffsetToPoints, format.ErrMalformed)
	}
	out = append(out, make([]byte, int(h.OffsetToPoints)-len(out))...)
	if _, err := sink.Write(out); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	w := &Writer{
		sink:   sink,
		header: h,
		buf:    make([]byte, h.PointRecordLength),
	}
	for i := range w.min {
		w.min[i] = math.Inf(1)
		w.max[i] = math.Inf(-1)
	}
	return w, nil
}

// Header returns the header as it will be patched on Commit.
func (w *Writer) Header() format.Header { return w.finalHeader() }

// WritePoint encodes p and appends it.
func (w *Writer) WritePoint(p *format.PointRecord) error {
	if w.lastErr != nil {
		return w.lastErr
	}
	if w.closed {
		return writer.ErrClosed
	}
	if err := format.EncodePoint(w.buf, w.header.PointFormat, p); err != nil {
		w.lastErr = err
		return err
	}
	if _, err := w.sink.Write(w.buf); err != nil {
		w.lastErr = fmt.Errorf("write point %d: %w", w.count, err)
		return w.lastErr
	}
	w.count++
	w.track(p)
	return nil
}

func (w *Writer) track(p *format.PointRecord) {
	rn := int(p.ReturnNumber)
	limit := format.HdrLegacyReturnCount
	if format.IsExtended(w.header.PointFormat) {
		rn = int(p.ExtendedReturnNumber)
		limit = format.HdrExtendedReturnCount
	}
	if rn >= 1 && rn <= limit {
		w.byReturn[rn-1]++
	}
	raw := [3]int32{p.X, p.Y, p.Z}
	for i, v := range raw {
		g := float64(v)*w.header.Scale[i] + w.header.Offset[i]
		w.min[i] = math.Min(w.min[i], g)
		w.max[i] = math.Max(w.max[i], g)
	}
}

func (w *Writer) finalHeader() format.Header {
	h := w.header
	h.SetPointCount(w.count, w.byReturn)
	if w.count > 0 {
		h.Min, h.Max = w.min, w.max
	} else {
		h.Min, h.Max = [3]float64{}, [3]float64{}
	}
	return h
}

// Commit patches the header and publishes the output.
func (w *Writer) Commit() error {
	if w.lastErr != nil {
		_ = w.Abort()
		return w.lastErr
	}
	if w.closed {
		return writer.ErrClosed
	}
	if _, err := w.sink.WriteAt(w.finalHeader().Encode(), 0); err != nil {
		w.lastErr = fmt.Errorf("patch header: %w", err)
		_ = w.Abort()
		return w.lastErr
	}
	w.closed = true
	if err := w.sink.Commit(); err != nil {
		w.lastErr = err
		return err
	}
	return nil
}

// Abort discards the output.
func (w *Writer) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.sink.Abort()
}

// LastError returns the error that stopped writing, if any.
func (w *Writer) LastError() error { return w.lastErr }

// Count returns the number of records written.
func (w *Writer) Count() uint64 { return w.count }
