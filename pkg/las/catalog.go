package las

import (
	"fmt"

	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/internal/schema"
	"github.com/joshuapare/laskit/pkg/types"
)

// FormatInfo describes a point data format.
type FormatInfo struct {
	PointFormat  uint8    `json:"point_format"`
	RecordLength uint16   `json:"record_length"`
	Versions     []string `json:"versions"`
	Extended     bool     `json:"extended"`
	GpsTime      bool     `json:"gps_time"`
	RGB          bool     `json:"rgb"`
	NearInfrared bool     `json:"near_infrared"`
	WavePackets  bool     `json:"wave_packets"`
	Fields       []string `json:"fields"`
}

// DescribePointFormat returns what records of point format pf hold.
func DescribePointFormat(pf uint8) (FormatInfo, error) {
	n := format.RecordLength(pf)
	if n == 0 {
		return FormatInfo{}, types.Wrap(types.ErrUnsupported, fmt.Errorf("point format %d", pf))
	}
	fi := FormatInfo{
		PointFormat:  pf,
		RecordLength: n,
		Extended:     format.IsExtended(pf),
		GpsTime:      format.HasGpsTime(pf),
		RGB:          format.HasRGBField(pf),
		NearInfrared: format.HasNearInfrared(pf),
		WavePackets:  format.HasWavePacketField(pf),
	}
	for _, v := range format.AvailableVersions {
		minor, _ := ParseVersion(v)
		if format.FormatAllowedForVersion(minor, pf) {
			fi.Versions = append(fi.Versions, v)
		}
	}
	for _, f := range schema.StandardFieldsForPointFormat(pf) {
		fi.Fields = append(fi.Fields, f.Name)
	}
	return fi, nil
}
