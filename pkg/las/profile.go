package las

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/pkg/types"
)

// profile is the YAML form of SaveOptions.
//
//	version: "1.4"
//	point_format: 7
//	scale_mode: custom
//	scale: [0.001, 0.001, 0.0001]
//	fields:
//	  Intensity: Amplitude
//	skip_waveforms: true
type profile struct {
	Version       string            `yaml:"version"`
	PointFormat   *uint8            `yaml:"point_format"`
	ScaleMode     ScaleMode         `yaml:"scale_mode"`
	Scale         []float64         `yaml:"scale"`
	Fields        map[string]string `yaml:"fields"`
	SkipWaveforms bool              `yaml:"skip_waveforms"`
}

// LoadSaveOptions reads an export profile. Unknown keys are rejected.
func LoadSaveOptions(r io.Reader) (SaveOptions, error) {
	var p profile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return SaveOptions{}, types.Errorf(types.ErrKindArgument, "parse export profile", err)
	}

	opts := SaveOptions{
		PointFormat:    p.PointFormat,
		ScaleMode:      p.ScaleMode,
		StandardFields: p.Fields,
		SkipWaveforms:  p.SkipWaveforms,
	}
	if p.Version != "" {
		minor, err := ParseVersion(p.Version)
		if err != nil {
			return SaveOptions{}, err
		}
		opts.VersionMinor = minor
	}
	switch len(p.Scale) {
	case 0:
	case 1:
		opts.Scale = &[3]float64{p.Scale[0], p.Scale[0], p.Scale[0]}
	case 3:
		opts.Scale = &[3]float64{p.Scale[0], p.Scale[1], p.Scale[2]}
	default:
		return SaveOptions{}, types.Errorf(types.ErrKindArgument, fmt.Sprintf("scale needs 1 or 3 values, got %d", len(p.Scale)), nil)
	}
	if opts.Scale != nil {
		for _, s := range opts.Scale {
			if s <= 0 {
				return SaveOptions{}, types.Errorf(types.ErrKindArgument, fmt.Sprintf("scale %g is not positive", s), nil)
			}
		}
		opts.ScaleMode = ScaleCustom
	}
	if opts.ScaleMode == ScaleCustom && opts.Scale == nil {
		return SaveOptions{}, types.Errorf(types.ErrKindArgument, "scale_mode custom needs a scale", nil)
	}
	return opts, nil
}

// ParseVersion turns "1.2", "1.3" or "1.4" into a minor version.
func ParseVersion(v string) (uint8, error) {
	if !slices.Contains(format.AvailableVersions, v) {
		return 0, types.Errorf(types.ErrKindArgument, fmt.Sprintf("unsupported LAS version %q (want one of %v)", v, format.AvailableVersions), nil)
	}
	return v[2] - '0', nil
}
