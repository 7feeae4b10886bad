package metadata

import "github.com/joshuapare/laskit/internal/format"

// Content summarises what a cloud carries that a point format must hold.
type Content struct {
	Colors       bool
	GpsTime      bool
	Waveforms    bool
	NearInfrared bool
	// Extended is set when extended-only fields (scanner channel, overlap,
	// classes above 31, more than 7 returns) are present.
	Extended bool
}

// SelectBestVersion returns the smallest version and point format able to
// carry c.
func SelectBestVersion(c Content) (versionMinor, pointFormat uint8) {
	if c.Extended || c.NearInfrared {
		switch {
		case c.NearInfrared && c.Waveforms:
			return 4, 10
		case c.NearInfrared:
			return 4, 8
		case c.Waveforms && c.Colors:
			return 4, 10
		case c.Waveforms:
			return 4, 9
		case c.Colors:
			return 4, 7
		default:
			return 4, 6
		}
	}
	if c.Waveforms {
		if c.Colors {
			return 3, 5
		}
		return 3, 4
	}
	switch {
	case c.Colors && c.GpsTime:
		return 2, 3
	case c.Colors:
		return 2, 2
	case c.GpsTime:
		return 2, 1
	default:
		return 2, 0
	}
}

// Carries reports whether point format pf can hold c without loss.
func Carries(pf uint8, c Content) bool {
	if c.Colors && !format.HasRGBField(pf) {
		return false
	}
	if c.GpsTime && !format.HasGpsTime(pf) {
		return false
	}
	if c.Waveforms && !format.HasWavePacketField(pf) {
		return false
	}
	if c.NearInfrared && !format.HasNearInfrared(pf) {
		return false
	}
	if c.Extended && !format.IsExtended(pf) {
		return false
	}
	return true
}
