// Package mmfile maps LAS and waveform files read-only into memory.
package mmfile

import "os"

// Mapping is a read-only view of a whole file. Data stays valid until Close.
type Mapping struct {
	Data    []byte
	release func() error
}

// Len returns the size of the mapped file.
func (m *Mapping) Len() int { return len(m.Data) }

// Close releases the mapping. Calling it twice is a no-op.
func (m *Mapping) Close() error {
	if m == nil || m.release == nil {
		return nil
	}
	release := m.release
	m.release = nil
	m.Data = nil
	return release()
}

func readAll(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Mapping{Data: data, release: func() error { return nil }}, nil
}
