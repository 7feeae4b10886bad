package waveform

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/internal/logger"
	"github.com/joshuapare/laskit/internal/mmfile"
	"github.com/joshuapare/laskit/pkg/types"
)

// Source is a loaded waveform sample payload.
type Source struct {
	// Data is the sample payload, without any EVLR header.
	Data []byte
	// Base is the value wave packet offsets carry for Data[0].
	Base uint64
	// Path names the file the payload came from.
	Path string
	// External is set when the payload came from a .wdp file.
	External bool
}

// SiblingPath returns the .wdp path that accompanies lasPath.
func SiblingPath(lasPath string) string {
	return strings.TrimSuffix(lasPath, filepath.Ext(lasPath)) + format.ExternalWaveformExt
}

// OpenDataSource locates the waveform payload for a file with header h.
// file holds the bytes of the LAS file itself. The payload is copied so it
// outlives the caller's mapping. Any problem disables waveforms with a
// warning and returns nil.
func OpenDataSource(h format.Header, lasPath string, file []byte, limits types.Limits, report *types.DiagnosticReport, log *slog.Logger) *Source {
	log = logger.For(log, "waveform")
	limits = limits.WithDefaults()

	var src *Source
	switch {
	case h.WaveformStart != 0:
		src = internalSource(h, lasPath, file, report, log)
	case h.GlobalEncoding&format.GlobalEncodingWaveformExternal != 0:
		path := SiblingPath(lasPath)
		m, err := mmfile.Open(path)
		if err != nil {
			warn(report, log, "failed to read the waveform data packets file %q: %v", path, err)
			return nil
		}
		defer m.Close()
		src = externalSource(path, m.Data)
	default:
		return nil
	}
	if src == nil || len(src.Data) == 0 {
		return nil
	}
	if limits.MaxWaveformBytes > 0 && int64(len(src.Data)) > limits.MaxWaveformBytes {
		warn(report, log, "not enough memory to import %d bytes of waveform data", len(src.Data))
		return nil
	}
	src.Data = bytes.Clone(src.Data)
	log.Info("waveform data", "path", src.Path, "bytes", len(src.Data), "external", src.External)
	return src
}

func internalSource(h format.Header, lasPath string, file []byte, report *types.DiagnosticReport, log *slog.Logger) *Source {
	if h.WaveformStart > uint64(len(file)) {
		warn(report, log, "waveform data packets header at %d is past the end of the file", h.WaveformStart)
		return nil
	}
	rest := file[h.WaveformStart:]
	evlr, err := format.DecodeEVLRHeader(rest)
	if err != nil {
		warn(report, log, "failed to read the waveform data packets header: %v", err)
		return nil
	}
	if !evlr.IsWaveformDataPackets() {
		warn(report, log, "invalid waveform EVLR (record id %d)", evlr.RecordID)
		return nil
	}
	payload := rest[format.EVLRHeaderSize:]
	if evlr.RecordLength == 0 {
		log.Warn("waveform data packet size is 0, using the rest of the file")
	} else if evlr.RecordLength <= uint64(len(payload)) {
		payload = payload[:evlr.RecordLength]
	} else {
		warn(report, log, "waveform data packets truncated (have %d, need %d)", len(payload), evlr.RecordLength)
	}
	return &Source{Data: payload, Base: format.EVLRHeaderSize, Path: lasPath}
}

func externalSource(path string, data []byte) *Source {
	src := &Source{Data: data, Path: path, External: true}
	if len(data) > format.EVLRHeaderSize {
		evlr, err := format.DecodeEVLRHeader(data)
		if err == nil && strings.HasPrefix(evlr.UserID, format.UserIDLASFSpec) {
			src.Data = data[format.EVLRHeaderSize:]
			src.Base = format.EVLRHeaderSize
		}
	}
	return src
}
