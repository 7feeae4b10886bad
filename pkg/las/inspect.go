package las

import (
	"log/slog"
	"slices"
	"time"

	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/internal/lasio"
	"github.com/joshuapare/laskit/internal/logger"
	"github.com/joshuapare/laskit/internal/metadata"
	"github.com/joshuapare/laskit/internal/mmfile"
	"github.com/joshuapare/laskit/internal/schema"
	"github.com/joshuapare/laskit/internal/waveform"
	"github.com/joshuapare/laskit/pkg/types"
)

// Info summarises a LAS file without reading its points. Compressed files
// are described too; only their points are out of reach.
type Info struct {
	Path               string     `json:"path"`
	Version            string     `json:"version"`
	PointFormat        uint8      `json:"point_format"`
	Compressed         bool       `json:"compressed"`
	Points             uint64     `json:"points"`
	RecordLength       uint16     `json:"record_length"`
	ExtraBytes         int        `json:"extra_bytes"`
	SystemID           string     `json:"system_id"`
	GeneratingSoftware string     `json:"generating_software"`
	Created            string     `json:"created,omitempty"`
	FileSourceID       uint16     `json:"file_source_id"`
	ProjectID          string     `json:"project_id,omitempty"`
	Scale              [3]float64 `json:"scale"`
	Offset             [3]float64 `json:"offset"`
	Min                [3]float64 `json:"min"`
	Max                [3]float64 `json:"max"`

	GpsTime           bool `json:"gps_time"`
	RGB               bool `json:"rgb"`
	NearInfrared      bool `json:"near_infrared"`
	WavePackets       bool `json:"wave_packets"`
	ExternalWaveforms bool `json:"external_waveforms"`

	Fields      []string                `json:"fields"`
	ExtraFields []ExtraInfo             `json:"extra_fields,omitempty"`
	VLRs        []VLRInfo               `json:"vlrs"`
	Waveforms   []WaveformInfo          `json:"waveform_descriptors,omitempty"`
	Diagnostics *types.DiagnosticReport `json:"diagnostics"`
}

// ExtraInfo describes one extra bytes field.
type ExtraInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	Offset      int    `json:"offset"`
	Size        int    `json:"size"`
	NoData      bool   `json:"no_data,omitempty"`
	Scaled      bool   `json:"scaled,omitempty"`
	Offsetted   bool   `json:"offsetted,omitempty"`
}

// VLRInfo describes one variable length record.
type VLRInfo struct {
	UserID      string `json:"user_id"`
	RecordID    uint16 `json:"record_id"`
	Description string `json:"description"`
	Length      int    `json:"length"`
}

// WaveformInfo is a waveform packet descriptor with its id.
type WaveformInfo struct {
	ID uint8 `json:"id"`
	types.WaveformDescriptor
}

// Inspect reads the header and VLRs of path.
func Inspect(path string, log *slog.Logger) (*Info, error) {
	log = logger.For(log, "inspect")
	m, err := mmfile.Open(path)
	if err != nil {
		return nil, classify(err)
	}
	defer m.Close()

	h, err := format.ParseHeader(m.Data)
	if err != nil {
		return nil, classify(err)
	}
	vlrs, _, err := format.DecodeVLRs(m.Data[h.HeaderSize:], h.NumberOfVLRs)
	if err != nil {
		return nil, classify(err)
	}
	report := types.NewDiagnosticReport(path)

	info := &Info{
		Path:               path,
		Version:            format.VersionString(h.VersionMinor),
		PointFormat:        h.PointFormat,
		Compressed:         h.Compressed,
		Points:             h.NumberOfPoints(),
		RecordLength:       h.PointRecordLength,
		ExtraBytes:         h.ExtraBytesPerRecord(),
		SystemID:           h.SystemID,
		GeneratingSoftware: h.GeneratingSoftware,
		FileSourceID:       h.FileSourceID,
		Scale:              h.Scale,
		Offset:             h.Offset,
		Min:                h.Min,
		Max:                h.Max,
		GpsTime:            format.HasGpsTime(h.PointFormat),
		RGB:                format.HasRGBField(h.PointFormat),
		NearInfrared:       format.HasNearInfrared(h.PointFormat),
		WavePackets:        format.HasWavePacketField(h.PointFormat),
		ExternalWaveforms:  h.GlobalEncoding&format.GlobalEncodingWaveformExternal != 0,
		Diagnostics:        report,
	}
	if created, ok := format.CreationDate(h.CreationDay, h.CreationYear); ok {
		info.Created = created.Format(time.DateOnly)
	}
	if saved := metadata.FromHeader(h, nil, nil); saved.HasProjectID() {
		info.ProjectID = saved.ProjectID().String()
	}
	for _, f := range schema.StandardFieldsForPointFormat(h.PointFormat) {
		info.Fields = append(info.Fields, f.Name)
	}
	for _, v := range vlrs {
		info.VLRs = append(info.VLRs, VLRInfo{UserID: v.UserID, RecordID: v.RecordID, Description: v.Description, Length: len(v.Data)})
	}
	for _, f := range loadExtraFields(h, vlrs, nil, report, log) {
		info.ExtraFields = append(info.ExtraFields, ExtraInfo{
			Name:        f.NameString(),
			Description: f.DescriptionString(),
			Type:        f.Type.String(),
			Offset:      f.ByteOffset,
			Size:        f.ByteSize(),
			NoData:      f.NoDataIsRelevant(),
			Scaled:      f.ScaleIsRelevant(),
			Offsetted:   f.OffsetIsRelevant(),
		})
	}
	if info.WavePackets {
		descs := waveform.ParseDescriptors(vlrs, report, log)
		ids := make([]uint8, 0, len(descs))
		for id := range descs {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			info.Waveforms = append(info.Waveforms, WaveformInfo{ID: id, WaveformDescriptor: descs[id]})
		}
	}
	if !h.Compressed {
		if _, err := lasio.NewReader(m.Data); err != nil {
			report.Add(types.Diagnostic{Severity: types.SevError, Structure: "Points", Issue: err.Error()})
		}
	}
	return info, nil
}
