// Package waveform attaches full-waveform data to loaded points and writes
// it back on save.
//
// Descriptors come from LASF_Spec VLRs 100-354 and are keyed by
// record_id - 100. The sample payload is either an EVLR inside the LAS file
// or a sibling .wdp file. Each point's 29-byte wave packet field is turned
// into a types.WaveformLink whose offset is relative to the payload.
package waveform

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/internal/logger"
	"github.com/joshuapare/laskit/pkg/types"
)

const structure = "Waveform"

func warn(report *types.DiagnosticReport, log *slog.Logger, msg string, args ...any) {
	text := fmt.Sprintf(msg, args...)
	log.Warn(text)
	if report != nil {
		report.Warn(structure, "waveforms", "%s", text)
	}
}

// ParseDescriptors collects the waveform packet descriptors of vlrs. A
// descriptor whose payload is shorter than 26 bytes is skipped with a
// warning. A stored digitizer gain of 0 reads as 1.
func ParseDescriptors(vlrs []format.VLR, report *types.DiagnosticReport, log *slog.Logger) map[uint8]types.WaveformDescriptor {
	log = logger.For(log, "waveform")
	out := make(map[uint8]types.WaveformDescriptor)
	for _, v := range vlrs {
		if !v.IsWaveformDescriptor() {
			continue
		}
		rec, err := format.DecodeWaveformDescriptor(v.Data)
		if err != nil {
			warn(report, log, "invalid descriptor VLR %d: %v", v.RecordID, err)
			continue
		}
		gain := rec.DigitizerGain
		if gain == 0 {
			gain = 1
		}
		id := uint8(v.RecordID - format.RecordIDWaveformDescriptorFirst)
		out[id] = types.WaveformDescriptor{
			BitsPerSample:   rec.BitsPerSample,
			NumberOfSamples: rec.NumberOfSamples,
			SamplingRatePs:  rec.SamplingRatePs,
			DigitizerGain:   gain,
			DigitizerOffset: rec.DigitizerOffset,
		}
		log.Debug("descriptor", "record_id", v.RecordID, "index", id)
	}
	return out
}

// DescriptorVLRs encodes descriptors as VLRs ordered by record id.
func DescriptorVLRs(descriptors map[uint8]types.WaveformDescriptor) []format.VLR {
	ids := make([]int, 0, len(descriptors))
	for id := range descriptors {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)

	vlrs := make([]format.VLR, 0, len(ids))
	for _, id := range ids {
		d := descriptors[uint8(id)]
		vlrs = append(vlrs, format.VLR{
			UserID:      format.UserIDLASFSpec,
			RecordID:    uint16(format.RecordIDWaveformDescriptorFirst + id),
			Description: "Waveform packet descriptor",
			Data: format.WaveformDescriptorRecord{
				BitsPerSample:   d.BitsPerSample,
				NumberOfSamples: d.NumberOfSamples,
				SamplingRatePs:  d.SamplingRatePs,
				DigitizerGain:   d.DigitizerGain,
				DigitizerOffset: d.DigitizerOffset,
			}.Encode(),
		})
	}
	return vlrs
}
