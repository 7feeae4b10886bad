package fields

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/internal/logger"
	"github.com/joshuapare/laskit/internal/schema"
	"github.com/joshuapare/laskit/pkg/types"
)

type fieldState struct {
	first float64
	shift float64
}

// Loader copies record values into store columns for one load operation.
// It is not safe for concurrent use.
type Loader struct {
	pointFormat uint8
	standard    []schema.StandardField
	extra       []schema.ExtraField
	log         *slog.Logger

	state  []fieldState
	stdRow int

	firstRGB [3]uint16
	colorsOn bool // colour sink receiving values
	rgbRow   int
}

// NewLoader prepares a loader for records of pointFormat. standard and extra
// are copied; their Column handles are filled in as columns are created.
func NewLoader(pointFormat uint8, standard []schema.StandardField, extra []schema.ExtraField, log *slog.Logger) *Loader {
	l := &Loader{
		pointFormat: pointFormat,
		standard:    append([]schema.StandardField(nil), standard...),
		extra:       append([]schema.ExtraField(nil), extra...),
		log:         logger.For(log, "fields"),
	}
	for i := range l.standard {
		l.standard[i].Column = types.NoColumn
	}
	l.state = make([]fieldState, len(l.standard))
	return l
}

// StandardFields returns the loader's standard fields with the columns it
// created. Fields that stayed constant have no column.
func (l *Loader) StandardFields() []schema.StandardField { return l.standard }

// ExtraFields returns the loader's extra fields with their bound columns.
func (l *Loader) ExtraFields() []schema.ExtraField { return l.extra }

// ConstantValue returns the value field i held on every record read so far
// when it never produced a column.
func (l *Loader) ConstantValue(i int) (float64, bool) {
	if l.stdRow == 0 || l.standard[i].Column.Valid() {
		return 0, false
	}
	return l.state[i].first, true
}

// CreateExtraColumns adds one column per extra field component. Names that
// clash with standard fields or existing columns get a display name. A field
// whose columns would still collide is dropped and its name returned.
func (l *Loader) CreateExtraColumns(store types.AttributeStore) (dropped []string, err error) {
	kept := l.extra[:0]
	for i := range l.extra {
		f := l.extra[i]
		f.ResetColumns()
		f.ResolveDisplayName(store)
		if name, ok := collidingComponent(&f, store); ok {
			l.log.Warn("extra field dropped, column exists", "name", f.NameString(), "column", name)
			dropped = append(dropped, f.NameString())
			continue
		}
		for c := 0; c < f.NumElements(); c++ {
			h, err := store.AddColumn(f.ComponentName(c))
			if err != nil {
				return dropped, fmt.Errorf("extra field %q: %w", f.NameString(), err)
			}
			f.Columns[c] = h
		}
		if f.DisplayName != "" {
			l.log.Warn("extra field renamed", "name", f.NameString(), "column", f.DisplayName)
		}
		kept = append(kept, f)
	}
	l.extra = kept
	return dropped, nil
}

func collidingComponent(f *schema.ExtraField, store types.AttributeStore) (string, bool) {
	for c := 0; c < f.NumElements(); c++ {
		if name := f.ComponentName(c); store.FindColumn(name).Valid() {
			return name, true
		}
	}
	return "", false
}

// ReadStandardFields appends the standard field values of rec.
func (l *Loader) ReadStandardFields(store types.AttributeStore, rec *format.PointRecord) error {
	row := l.stdRow
	for i := range l.standard {
		f := &l.standard[i]
		st := &l.state[i]
		v := standardValue(f.ID, rec)

		if row == 0 {
			st.first = v
			if f.ID == types.FieldGpsTime {
				st.shift = GpsTimeShift(v)
			}
			continue
		}
		if !f.Column.Valid() {
			if sameValue(v, st.first) {
				continue
			}
			if err := l.createColumn(store, f, st, row); err != nil {
				return err
			}
		}
		if err := store.Append(f.Column, v-st.shift); err != nil {
			return fmt.Errorf("field %q row %d: %w", f.Name, row, err)
		}
	}
	l.stdRow++
	return nil
}

func (l *Loader) createColumn(store types.AttributeStore, f *schema.StandardField, st *fieldState, rows int) error {
	h, err := store.AddColumn(f.Name)
	if err != nil {
		return fmt.Errorf("field %q: %w", f.Name, err)
	}
	store.SetColumnShift(h, st.shift)
	backfill := st.first - st.shift
	for r := 0; r < rows; r++ {
		if err := store.Append(h, backfill); err != nil {
			return fmt.Errorf("field %q backfill: %w", f.Name, err)
		}
	}
	f.Column = h
	l.log.Debug("column created", "field", f.Name, "backfill", rows, "shift", st.shift)
	return nil
}

func sameValue(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

// ReadRGB appends the colour of rec. Channels are narrowed to 8 bits by
// dropping the low byte.
func (l *Loader) ReadRGB(sink types.ColorStore, rec *format.PointRecord) error {
	row := l.rgbRow
	l.rgbRow++
	rgb := [3]uint16{rec.RGB[0], rec.RGB[1], rec.RGB[2]}

	if row == 0 {
		l.firstRGB = rgb
		return nil
	}
	if !l.colorsOn {
		if rgb == l.firstRGB {
			return nil
		}
		l.colorsOn = true
		first := narrowColor(l.firstRGB)
		for r := 0; r < row; r++ {
			if err := sink.AppendColor(first); err != nil {
				return fmt.Errorf("colour backfill: %w", err)
			}
		}
	}
	if err := sink.AppendColor(narrowColor(rgb)); err != nil {
		return fmt.Errorf("colour row %d: %w", row, err)
	}
	return nil
}

// ConstantColor returns the colour every record carried when no colour was
// ever stored.
func (l *Loader) ConstantColor() (types.Color, bool) {
	if l.rgbRow == 0 || l.colorsOn {
		return types.Color{}, false
	}
	return narrowColor(l.firstRGB), true
}

func narrowColor(rgb [3]uint16) types.Color {
	return types.Color{uint8(rgb[0] >> 8), uint8(rgb[1] >> 8), uint8(rgb[2] >> 8)}
}

// ReadExtraFields appends the extra field values of rec. Components that
// fall outside the record's extra bytes read as NaN.
func (l *Loader) ReadExtraFields(store types.AttributeStore, rec *format.PointRecord) error {
	for i := range l.extra {
		f := &l.extra[i]
		size := f.ElementSize()
		for c := 0; c < f.NumElements(); c++ {
			if !f.Columns[c].Valid() {
				continue
			}
			v := math.NaN()
			start := f.ByteOffset + c*size
			if start+size <= len(rec.ExtraBytes) {
				v = decodeComponent(f, c, rec.ExtraBytes[start:start+size])
			}
			if err := store.Append(f.Columns[c], v); err != nil {
				return fmt.Errorf("extra field %q: %w", f.ComponentName(c), err)
			}
		}
	}
	return nil
}
