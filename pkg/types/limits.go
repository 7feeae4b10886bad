package types

// ============================================================================
// Resource Limits
// ============================================================================
// A store that refuses to grow past these limits reports ErrKindMemory, the
// same signal an allocation failure produces.

const (
	// DefaultMaxPoints is the largest point count a LAS file can declare in
	// the fields this package reads (2^32 - 1).
	DefaultMaxPoints = 1<<32 - 1

	// DefaultMaxColumns bounds the number of scalar columns of one cloud.
	// 20 standard fields plus a generous number of extra fields.
	DefaultMaxColumns = 1024

	// DefaultMaxWaveformBytes caps the waveform sample payload (4 GiB).
	DefaultMaxWaveformBytes = 4 << 30

	// StrictMaxPoints is a conservative point count for constrained hosts.
	StrictMaxPoints = 50_000_000

	// StrictMaxColumns is a conservative column count.
	StrictMaxColumns = 64

	// StrictMaxWaveformBytes is a conservative waveform payload size.
	StrictMaxWaveformBytes = 256 << 20
)

// Limits defines resource constraints for load and save operations.
type Limits struct {
	// MaxPoints is the maximum number of points a store accepts.
	MaxPoints int64

	// MaxColumns is the maximum number of scalar columns.
	MaxColumns int

	// MaxWaveformBytes is the maximum size of the waveform payload.
	MaxWaveformBytes int64
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxPoints:        DefaultMaxPoints,
		MaxColumns:       DefaultMaxColumns,
		MaxWaveformBytes: DefaultMaxWaveformBytes,
	}
}

// StrictLimits returns conservative limits for constrained environments.
func StrictLimits() Limits {
	return Limits{
		MaxPoints:        StrictMaxPoints,
		MaxColumns:       StrictMaxColumns,
		MaxWaveformBytes: StrictMaxWaveformBytes,
	}
}

// WithDefaults fills zero fields from DefaultLimits.
func (l Limits) WithDefaults() Limits {
	d := DefaultLimits()
	if l.MaxPoints <= 0 {
		l.MaxPoints = d.MaxPoints
	}
	if l.MaxColumns <= 0 {
		l.MaxColumns = d.MaxColumns
	}
	if l.MaxWaveformBytes <= 0 {
		l.MaxWaveformBytes = d.MaxWaveformBytes
	}
	return l
}
