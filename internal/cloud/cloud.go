// Package cloud is an in-memory point cloud: coordinates, scalar columns,
// colours and waveform links. It implements the store interfaces of
// pkg/types and enforces types.Limits in place of allocation failures.
package cloud

import (
	"fmt"

	"github.com/joshuapare/laskit/pkg/types"
)

type column struct {
	name   string
	values []float64
	shift  float64
}

// Cloud is not safe for concurrent use.
type Cloud struct {
	name   string
	limits types.Limits

	points [][3]float64 // local coordinates, global = local + shift
	shift  [3]float64

	columns []*column
	byName  map[string]types.ColumnHandle

	colors []types.Color

	wfDescriptors map[uint8]types.WaveformDescriptor
	wfData        []byte
	wfLinks       []types.WaveformLink
	wfPresent     []bool
	wfCount       int
}

// New returns an empty cloud bounded by limits. Zero limit fields take the
// defaults.
func New(name string, limits types.Limits) *Cloud {
	return &Cloud{
		name:   name,
		limits: limits.WithDefaults(),
		byName: make(map[string]types.ColumnHandle),
	}
}

// Name returns the cloud's name.
func (c *Cloud) Name() string { return c.name }

// SetName renames the cloud.
func (c *Cloud) SetName(name string) { c.name = name }

// Limits returns the limits in force.
func (c *Cloud) Limits() types.Limits { return c.limits }

func memoryError(format string, args ...any) error {
	return types.Wrap(types.ErrNotEnoughMemory, fmt.Errorf(format, args...))
}

// -----------------------------------------------------------------------------
// Points
// -----------------------------------------------------------------------------

// Reserve checks that n points fit and preallocates storage for them.
func (c *Cloud) Reserve(n int) error {
	if n < 0 || int64(n) > c.limits.MaxPoints {
		return memoryError("reserve %d points (limit %d)", n, c.limits.MaxPoints)
	}
	if cap(c.points) < n {
		grown := make([][3]float64, len(c.points), n)
		copy(grown, c.points)
		c.points = grown
	}
	return nil
}

// AppendPoint adds a point given in local coordinates.
func (c *Cloud) AppendPoint(p [3]float64) error {
	if int64(len(c.points)) >= c.limits.MaxPoints {
		return memoryError("point %d exceeds limit %d", len(c.points), c.limits.MaxPoints)
	}
	c.points = append(c.points, p)
	return nil
}

// Len returns the number of points.
func (c *Cloud) Len() int { return len(c.points) }

// Point returns point i in local coordinates.
func (c *Cloud) Point(i int) [3]float64 { return c.points[i] }

// GlobalPoint returns point i in global coordinates.
func (c *Cloud) GlobalPoint(i int) [3]float64 {
	p := c.points[i]
	return [3]float64{p[0] + c.shift[0], p[1] + c.shift[1], p[2] + c.shift[2]}
}

// GlobalShift returns the offset added to local coordinates to obtain
// global ones.
func (c *Cloud) GlobalShift() [3]float64 { return c.shift }

// SetGlobalShift sets the global shift without moving the points.
func (c *Cloud) SetGlobalShift(s [3]float64) { c.shift = s }

// IsShifted reports whether a non-zero global shift is set.
func (c *Cloud) IsShifted() bool { return c.shift != [3]float64{} }

// -----------------------------------------------------------------------------
// Scalar columns (types.AttributeStore)
// -----------------------------------------------------------------------------

var _ types.AttributeStore = (*Cloud)(nil)

// AddColumn creates an empty column. Names must be unique.
func (c *Cloud) AddColumn(name string) (types.ColumnHandle, error) {
	if _, ok := c.byName[name]; ok {
		return types.NoColumn, types.Errorf(types.ErrKindArgument, fmt.Sprintf("column %q already exists", name), nil)
	}
	if len(c.columns) >= c.limits.MaxColumns {
		return types.NoColumn, memoryError("column %q exceeds limit %d", name, c.limits.MaxColumns)
	}
	h := types.ColumnHandle(len(c.columns))
	c.columns = append(c.columns, &column{name: name, values: make([]float64, 0, cap(c.points))})
	c.byName[name] = h
	return h, nil
}

// FindColumn returns the handle of the column called name.
func (c *Cloud) FindColumn(name string) types.ColumnHandle {
	if h, ok := c.byName[name]; ok {
		return h
	}
	return types.NoColumn
}

// ColumnCount returns the number of columns.
func (c *Cloud) ColumnCount() int { return len(c.columns) }

// ColumnName returns the name of h, or "" for an invalid handle.
func (c *Cloud) ColumnName(h types.ColumnHandle) string {
	if !c.valid(h) {
		return ""
	}
	return c.columns[h].name
}

// ColumnNames lists the column names in creation order.
func (c *Cloud) ColumnNames() []string {
	out := make([]string, len(c.columns))
	for i, col := range c.columns {
		out[i] = col.name
	}
	return out
}

// ColumnLen returns the number of samples stored in h.
func (c *Cloud) ColumnLen(h types.ColumnHandle) int {
	if !c.valid(h) {
		return 0
	}
	return len(c.columns[h].values)
}

// Values returns the samples of h. The slice aliases the store.
func (c *Cloud) Values(h types.ColumnHandle) []float64 {
	if !c.valid(h) {
		return nil
	}
	return c.columns[h].values
}

// Append adds one sample to h.
func (c *Cloud) Append(h types.ColumnHandle, v float64) error {
	if !c.valid(h) {
		return types.Errorf(types.ErrKindArgument, fmt.Sprintf("invalid column handle %d", h), nil)
	}
	col := c.columns[h]
	if int64(len(col.values)) >= c.limits.MaxPoints {
		return memoryError("column %q exceeds limit %d", col.name, c.limits.MaxPoints)
	}
	col.values = append(col.values, v)
	return nil
}

// ValueAt returns sample row of h.
func (c *Cloud) ValueAt(h types.ColumnHandle, row int) float64 {
	return c.columns[h].values[row]
}

// ColumnShift returns the shift subtracted from the samples of h.
func (c *Cloud) ColumnShift(h types.ColumnHandle) float64 {
	if !c.valid(h) {
		return 0
	}
	return c.columns[h].shift
}

// SetColumnShift records the shift of h.
func (c *Cloud) SetColumnShift(h types.ColumnHandle, shift float64) {
	if c.valid(h) {
		c.columns[h].shift = shift
	}
}

func (c *Cloud) valid(h types.ColumnHandle) bool {
	return h >= 0 && int(h) < len(c.columns)
}

// -----------------------------------------------------------------------------
// Colours (types.ColorStore)
// -----------------------------------------------------------------------------

var _ types.ColorStore = (*Cloud)(nil)

// HasColors reports whether any colour was stored.
func (c *Cloud) HasColors() bool { return len(c.colors) > 0 }

// AppendColor adds the colour of the next point.
func (c *Cloud) AppendColor(col types.Color) error {
	if int64(len(c.colors)) >= c.limits.MaxPoints {
		return memoryError("colour %d exceeds limit %d", len(c.colors), c.limits.MaxPoints)
	}
	c.colors = append(c.colors, col)
	return nil
}

// ColorAt returns the colour of point row.
func (c *Cloud) ColorAt(row int) types.Color { return c.colors[row] }

// -----------------------------------------------------------------------------
// Waveforms (types.WaveformStore)
// -----------------------------------------------------------------------------

var _ types.WaveformStore = (*Cloud)(nil)

// SetWaveformDescriptors replaces the descriptor table.
func (c *Cloud) SetWaveformDescriptors(d map[uint8]types.WaveformDescriptor) {
	c.wfDescriptors = d
}

// WaveformDescriptors returns the descriptor table.
func (c *Cloud) WaveformDescriptors() map[uint8]types.WaveformDescriptor {
	return c.wfDescriptors
}

// SetWaveformData stores the sample payload.
func (c *Cloud) SetWaveformData(data []byte) { c.wfData = data }

// WaveformData returns the sample payload.
func (c *Cloud) WaveformData() []byte { return c.wfData }

// SetWaveformLink records the waveform of point row.
func (c *Cloud) SetWaveformLink(row int, link types.WaveformLink) error {
	if row < 0 || int64(row) >= c.limits.MaxPoints {
		return memoryError("waveform link for row %d exceeds limit %d", row, c.limits.MaxPoints)
	}
	if row >= len(c.wfLinks) {
		n := max(row+1, cap(c.points))
		links := make([]types.WaveformLink, n)
		present := make([]bool, n)
		copy(links, c.wfLinks)
		copy(present, c.wfPresent)
		c.wfLinks, c.wfPresent = links, present
	}
	if !c.wfPresent[row] {
		c.wfCount++
	}
	c.wfLinks[row] = link
	c.wfPresent[row] = true
	return nil
}

// WaveformLink returns the waveform of point row, if any.
func (c *Cloud) WaveformLink(row int) (types.WaveformLink, bool) {
	if row < 0 || row >= len(c.wfLinks) || !c.wfPresent[row] {
		return types.WaveformLink{}, false
	}
	return c.wfLinks[row], true
}

// HasWaveforms reports whether at least one point links to a waveform.
func (c *Cloud) HasWaveforms() bool {
	return c.wfCount > 0 && len(c.wfDescriptors) > 0
}

// WaveformCount returns the number of points with a waveform.
func (c *Cloud) WaveformCount() int { return c.wfCount }
