//go:build unix

package mmfile

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Open maps the file at path. Point records are read front to back, so the
// kernel is told to read ahead aggressively.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() // mapping keeps pages alive

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		return &Mapping{Data: []byte{}, release: func() error { return nil }}, nil
	}
	if size > int64(^uint(0)>>1) {
		return nil, fmt.Errorf("mmfile: file too large to map (%d bytes)", size)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		// Pipes and some virtual filesystems cannot be mapped.
		if errors.Is(err, unix.ENODEV) || errors.Is(err, unix.EACCES) {
			return readAll(path)
		}
		return nil, fmt.Errorf("mmfile: mmap %s: %w", path, err)
	}
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
	return &Mapping{
		Data: data,
		release: func() error {
			if err := unix.Munmap(data); err != nil && !errors.Is(err, unix.EINVAL) {
				return err
			}
			return nil
		},
	}, nil
}
