//go:build !unix

package mmfile

// Open reads the entire file when mmap is not available.
func Open(path string) (*Mapping, error) {
	return readAll(path)
}
