package fields

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/internal/logger"
	"github.com/joshuapare/laskit/internal/schema"
	"github.com/joshuapare/laskit/pkg/types"
)

// Saver fills output records from store columns for one save operation.
type Saver struct {
	pointFormat uint8
	standard    []schema.StandardField
	extra       []schema.ExtraField
	extraSize   int
	log         *slog.Logger

	unbound   []schema.StandardField
	constants []constantValue
	color     *types.Color
}

type constantValue struct {
	id types.FieldID
	v  float64
}

// NewSaver prepares a saver for records of pointFormat. Fields without a
// bound column are left at zero in every record unless SetConstants gives
// them a value.
func NewSaver(pointFormat uint8, standard []schema.StandardField, extra []schema.ExtraField, log *slog.Logger) *Saver {
	s := &Saver{
		pointFormat: pointFormat,
		extra:       append([]schema.ExtraField(nil), extra...),
		log:         logger.For(log, "fields"),
	}
	for _, f := range standard {
		if f.Column.Valid() {
			s.standard = append(s.standard, f)
		} else {
			s.unbound = append(s.unbound, f)
		}
	}
	schema.UpdateByteOffsets(s.extra)
	s.extraSize = schema.TotalExtraBytesSize(s.extra)
	return s
}

// ExtraBytesSize is the number of bytes WriteExtraFields needs per record.
func (s *Saver) ExtraBytesSize() int { return s.extraSize }

// BoundStandardFields returns the standard fields that will be written.
func (s *Saver) BoundStandardFields() []schema.StandardField { return s.standard }

// SetConstants gives unbound fields the value stored under their name in
// values. color is written for every record when the store has no colours.
func (s *Saver) SetConstants(values map[string]float64, color *types.Color) {
	s.constants = s.constants[:0]
	for _, f := range s.unbound {
		if v, ok := values[f.Name]; ok {
			s.constants = append(s.constants, constantValue{id: f.ID, v: v})
		}
	}
	s.color = color
}

// WriteStandardFields copies row of each bound column into rec. Column
// shifts are added back before conversion.
func (s *Saver) WriteStandardFields(store types.AttributeStore, row int, rec *format.PointRecord) {
	for _, f := range s.standard {
		v := store.ValueAt(f.Column, row) + store.ColumnShift(f.Column)
		setStandardValue(f.ID, rec, v)
	}
	for _, c := range s.constants {
		setStandardValue(c.id, rec, c.v)
	}
}

// WriteRGB widens the colour of row to 16 bits per channel.
func (s *Saver) WriteRGB(colors types.ColorStore, row int, rec *format.PointRecord) {
	var c types.Color
	switch {
	case colors.HasColors():
		c = colors.ColorAt(row)
	case s.color != nil:
		c = *s.color
	default:
		return
	}
	rec.RGB[0] = uint16(c[0]) << 8
	rec.RGB[1] = uint16(c[1]) << 8
	rec.RGB[2] = uint16(c[2]) << 8
}

// WriteExtraFields encodes row of each extra field into rec.ExtraBytes,
// which must hold at least ExtraBytesSize bytes.
func (s *Saver) WriteExtraFields(store types.AttributeStore, row int, rec *format.PointRecord) error {
	if len(rec.ExtraBytes) < s.extraSize {
		return fmt.Errorf("extra bytes: %w (have %d, need %d)", format.ErrTruncated, len(rec.ExtraBytes), s.extraSize)
	}
	for i := range s.extra {
		f := &s.extra[i]
		size := f.ElementSize()
		for c := 0; c < f.NumElements(); c++ {
			dst := rec.ExtraBytes[f.ByteOffset+c*size : f.ByteOffset+(c+1)*size]
			if !f.Columns[c].Valid() {
				clear(dst)
				continue
			}
			encodeComponent(f, c, dst, store.ValueAt(f.Columns[c], row))
		}
	}
	return nil
}
