package waveform

import (
	"log/slog"

	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/internal/logger"
	"github.com/joshuapare/laskit/pkg/types"
)

// Linker converts wave packet fields into links for one load operation.
type Linker struct {
	descriptors map[uint8]types.WaveformDescriptor
	base        uint64
	extended    bool
	report      *types.DiagnosticReport
	log         *slog.Logger
	warned      map[uint8]bool
}

// NewLinker returns a linker for records of pointFormat whose offsets are
// relative to src.
func NewLinker(descriptors map[uint8]types.WaveformDescriptor, src *Source, pointFormat uint8, report *types.DiagnosticReport, log *slog.Logger) *Linker {
	l := &Linker{
		descriptors: descriptors,
		extended:    format.IsExtended(pointFormat),
		report:      report,
		log:         logger.For(log, "waveform"),
		warned:      make(map[uint8]bool),
	}
	if src != nil {
		l.base = src.Base
	}
	return l
}

// LinkPoint decodes the wave packet of rec. ok is false when the point has
// no waveform (descriptor index 0) or references a missing descriptor.
func (l *Linker) LinkPoint(rec *format.PointRecord) (link types.WaveformLink, ok bool) {
	wp, err := format.DecodeWavePacket(rec.WavePacket[:])
	if err != nil || wp.DescriptorIndex == 0 {
		return types.WaveformLink{}, false
	}
	id := wp.DescriptorIndex - 1
	if _, found := l.descriptors[id]; !found {
		if !l.warned[id] {
			l.warned[id] = true
			warn(l.report, l.log, "no valid descriptor VLR for index %d", id)
		}
		return types.WaveformLink{}, false
	}

	returnIndex := rec.ReturnNumber
	if l.extended {
		returnIndex = rec.ExtendedReturnNumber
	}
	return types.WaveformLink{
		DescriptorID: id,
		DataOffset:   wp.ByteOffset - l.base,
		ByteCount:    wp.ByteCount,
		EchoTimePs:   wp.ReturnLocation,
		BeamDir:      wp.Direction,
		ReturnIndex:  returnIndex,
	}, true
}

// EncodeLink writes link into the wave packet field of rec. It is the
// inverse of LinkPoint for payloads that start after an EVLR header, which
// is how WriteExternal lays them out.
func EncodeLink(link types.WaveformLink, rec *format.PointRecord) {
	wp := format.WavePacket{
		DescriptorIndex: link.DescriptorID + 1,
		ByteOffset:      link.DataOffset + format.EVLRHeaderSize,
		ByteCount:       link.ByteCount,
		ReturnLocation:  link.EchoTimePs,
		Direction:       link.BeamDir,
	}
	_ = wp.Encode(rec.WavePacket[:])
}

// Samples returns the bytes link refers to in data.
func Samples(data []byte, link types.WaveformLink) ([]byte, bool) {
	end := link.DataOffset + uint64(link.ByteCount)
	if end < link.DataOffset || end > uint64(len(data)) {
		return nil, false
	}
	return data[link.DataOffset:end], true
}
