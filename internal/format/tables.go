package format

import "strconv"

// Static knowledge about point formats and header versions.
//
//	Format  Size  GPS  RGB  NIR  Wave  Layout
//	------  ----  ---  ---  ---  ----  ------------------------------
//	   0     20    -    -    -    -    legacy core
//	   1     28    x    -    -    -    core + gps
//	   2     26    -    x    -    -    core + rgb
//	   3     34    x    x    -    -    core + gps + rgb
//	   4     57    x    -    -    x    core + gps + wave packet
//	   5     63    x    x    -    x    core + gps + rgb + wave packet
//	   6     30    x    -    -    -    extended core (includes gps)
//	   7     36    x    x    -    -    extended + rgb
//	   8     38    x    x    x    -    extended + rgb + nir
//	   9     59    x    -    -    x    extended + wave packet
//	  10     67    x    x    x    x    extended + rgb + nir + wave packet
//
// PointFormatSize leaves out the wave packet formats 4, 5, 9 and 10; their
// records are sized with RecordLength.

// AvailableVersions lists the LAS versions offered for export.
var AvailableVersions = []string{"1.2", "1.3", "1.4"}

var (
	pointFormatsV12 = []uint8{0, 1, 2, 3}
	pointFormatsV13 = []uint8{0, 1, 2, 3, 4, 5}
	pointFormatsV14 = []uint8{6, 7, 8, 9, 10}
)

// PointFormatsAvailableForVersion returns the point formats a version
// supports. The version must be "major.minor"; ok is false for anything else.
func PointFormatsAvailableForVersion(version string) ([]uint8, bool) {
	var formats []uint8
	switch version {
	case "1.2":
		formats = pointFormatsV12
	case "1.3":
		formats = pointFormatsV13
	case "1.4":
		formats = pointFormatsV14
	default:
		return nil, false
	}
	out := make([]uint8, len(formats))
	copy(out, formats)
	return out, true
}

// FormatAllowedForVersion reports whether pointFormat may be stored in a file
// of the given minor version.
func FormatAllowedForVersion(versionMinor, pointFormat uint8) bool {
	formats, ok := PointFormatsAvailableForVersion(VersionString(versionMinor))
	if !ok {
		return false
	}
	for _, f := range formats {
		if f == pointFormat {
			return true
		}
	}
	return false
}

// VersionString formats a 1.x minor version as "1.x".
func VersionString(versionMinor uint8) string {
	return "1." + strconv.Itoa(int(versionMinor))
}

// PointFormatSize returns the record size of the point formats that can be
// written. Returns 0 for formats that are not handled.
func PointFormatSize(pointFormat uint8) uint16 {
	switch pointFormat {
	case 0:
		return 20
	case 1:
		return 28
	case 2:
		return 26
	case 3:
		return 34
	case 6:
		return 30
	case 7:
		return 36
	case 8:
		return 38
	default:
		return 0
	}
}

// RecordLength returns the on-disk size of the standard part of a point
// record for every format defined by LAS 1.4, or 0 for unknown formats.
func RecordLength(pointFormat uint8) uint16 {
	switch pointFormat {
	case 4:
		return 57
	case 5:
		return 63
	case 9:
		return 59
	case 10:
		return 67
	default:
		return PointFormatSize(pointFormat)
	}
}

// HeaderSize returns the public header block size for a 1.x minor version.
func HeaderSize(versionMinor uint8) uint16 {
	switch versionMinor {
	case 2:
		return HdrMinSize
	case 3:
		return HdrVersion13Size
	case 4:
		return HdrVersion14Size
	default:
		return HdrMinSize
	}
}

// IsExtended reports whether the format uses the LAS 1.4 extended core.
func IsExtended(pointFormat uint8) bool {
	return pointFormat >= 6
}

// HasGpsTime reports whether the point format carries GPS time.
func HasGpsTime(pointFormat uint8) bool {
	return pointFormat == 1 || pointFormat == 3 || pointFormat == 5 || pointFormat >= 6
}

// HasRGB reports whether the point format carries colours.
func HasRGB(pointFormat uint8) bool {
	return (pointFormat >= 2 && pointFormat <= 5) || pointFormat >= 7
}

// HasRGBField follows the physical record layout. HasRGB answers the
// catalog question and also reports true for formats 4 and 9, whose records
// hold no colour.
func HasRGBField(pointFormat uint8) bool {
	switch pointFormat {
	case 2, 3, 5, 7, 8, 10:
		return true
	default:
		return false
	}
}

// HasWaveform reports whether the point format is associated with waveforms.
func HasWaveform(pointFormat uint8) bool {
	return pointFormat == 4 || pointFormat == 5 || pointFormat >= 8
}

// HasNearInfrared reports whether the point format carries a NIR channel.
func HasNearInfrared(pointFormat uint8) bool {
	return pointFormat == 8 || pointFormat == 10
}

// HasWavePacketField reports whether records of this format physically
// contain the 29-byte wave packet field. Format 8 is associated with
// waveforms by HasWaveform but its records have no room for the field.
func HasWavePacketField(pointFormat uint8) bool {
	switch pointFormat {
	case 4, 5, 9, 10:
		return true
	default:
		return false
	}
}
