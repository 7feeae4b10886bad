package cloud

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/joshuapare/laskit/pkg/types"
)

// ColumnStats summarises the finite samples of a column.
type ColumnStats struct {
	Name   string  `json:"name"`
	Count  int     `json:"count"`
	NaN    int     `json:"nan,omitempty"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Stats computes min, max, mean and standard deviation of h, ignoring NaN
// samples (no-data values). The column shift is added back.
func (c *Cloud) Stats(h types.ColumnHandle) ColumnStats {
	s := ColumnStats{Name: c.ColumnName(h)}
	values := c.Values(h)
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) {
			s.NaN++
			continue
		}
		finite = append(finite, v)
	}
	s.Count = len(finite)
	if s.Count == 0 {
		return s
	}
	shift := c.ColumnShift(h)
	s.Min = floats.Min(finite) + shift
	s.Max = floats.Max(finite) + shift
	mean, std := stat.MeanStdDev(finite, nil)
	s.Mean = mean + shift
	if s.Count > 1 {
		s.StdDev = std
	}
	return s
}

// AllStats returns Stats for every column in creation order.
func (c *Cloud) AllStats() []ColumnStats {
	out := make([]ColumnStats, 0, len(c.columns))
	for i := range c.columns {
		out = append(out, c.Stats(types.ColumnHandle(i)))
	}
	return out
}

// Bounds returns the global bounding box. ok is false for an empty cloud.
func (c *Cloud) Bounds() (lo, hi [3]float64, ok bool) {
	if len(c.points) == 0 {
		return lo, hi, false
	}
	axis := make([]float64, len(c.points))
	for k := 0; k < 3; k++ {
		for i, p := range c.points {
			axis[i] = p[k]
		}
		lo[k] = floats.Min(axis) + c.shift[k]
		hi[k] = floats.Max(axis) + c.shift[k]
	}
	return lo, hi, true
}

// Diagonal returns the length of the bounding box diagonal.
func (c *Cloud) Diagonal() float64 {
	lo, hi, ok := c.Bounds()
	if !ok {
		return 0
	}
	d := make([]float64, 3)
	floats.SubTo(d, hi[:], lo[:])
	return floats.Norm(d, 2)
}
