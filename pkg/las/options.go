package las

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joshuapare/laskit/pkg/types"
)

// Limits bounds what a load may allocate.
// This is an alias to types.Limits for convenience.
type Limits = types.Limits

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits { return types.DefaultLimits() }

// StrictLimits returns conservative limits for constrained hosts.
func StrictLimits() Limits { return types.StrictLimits() }

// LoadOptions controls Load.
type LoadOptions struct {
	// Logger receives progress and warnings. Nil discards them.
	Logger *slog.Logger

	// Limits caps points, columns and waveform bytes. Zero fields use
	// DefaultLimits.
	Limits Limits

	// StandardFields names the standard fields to import.
	// Nil imports every field of the point format.
	StandardFields []string

	// ExtraFields names the extra bytes fields to import.
	// Nil imports all of them.
	ExtraFields []string

	// SkipWaveforms ignores waveform descriptors and data.
	SkipWaveforms bool
}

// ScaleMode selects the scale written to the output header.
type ScaleMode int

const (
	// ScaleOriginal reuses the scale of the loaded file.
	ScaleOriginal ScaleMode = iota
	// ScaleOptimal derives the scale from the cloud's extent.
	ScaleOptimal
	// ScaleCustom uses SaveOptions.Scale.
	ScaleCustom
)

func (m ScaleMode) String() string {
	switch m {
	case ScaleOriginal:
		return "original"
	case ScaleOptimal:
		return "optimal"
	case ScaleCustom:
		return "custom"
	default:
		return fmt.Sprintf("ScaleMode(%d)", int(m))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m ScaleMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ScaleMode) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "", "original":
		*m = ScaleOriginal
	case "optimal":
		*m = ScaleOptimal
	case "custom":
		*m = ScaleCustom
	default:
		return fmt.Errorf("unknown scale mode %q", string(b))
	}
	return nil
}

// SaveOptions controls Save.
type SaveOptions struct {
	// Logger receives progress and warnings. Nil discards them.
	Logger *slog.Logger

	// VersionMinor selects LAS 1.x. Zero keeps the loaded version, or picks
	// the smallest one able to hold the cloud when PointFormat is nil too.
	VersionMinor uint8

	// PointFormat selects the output point format. Nil keeps the loaded
	// format.
	PointFormat *uint8

	// ScaleMode picks the scale. Scale set implies ScaleCustom.
	ScaleMode ScaleMode
	Scale     *[3]float64

	// StandardFields maps LAS field names to the columns that feed them.
	// Nil writes every field from the same-named column; fields missing
	// from a non-nil map are written as zero.
	StandardFields map[string]string

	// SkipWaveforms drops waveform data even when the format carries it.
	SkipWaveforms bool
}

// BestFit asks Save to choose the version and point format from the
// cloud's content instead of the loaded file.
func (o *SaveOptions) BestFit() bool {
	return o.VersionMinor == 0 && o.PointFormat == nil
}
