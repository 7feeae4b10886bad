package waveform

import (
	"fmt"

	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/internal/writer"
)

// WriteExternal writes data as a .wdp file at path: a waveform data packets
// EVLR header followed by the samples. The file appears atomically.
func WriteExternal(path string, data []byte) error {
	w, err := writer.CreateAtomic(path)
	if err != nil {
		return fmt.Errorf("waveform: %w", err)
	}
	if _, err := w.Write(format.WaveformEVLRHeader(uint64(len(data))).Encode()); err != nil {
		_ = w.Abort()
		return fmt.Errorf("waveform: write header: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Abort()
		return fmt.Errorf("waveform: write samples: %w", err)
	}
	return w.Commit()
}
