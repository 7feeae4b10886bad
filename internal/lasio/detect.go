package lasio

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joshuapare/laskit/internal/format"
)

// FileType classifies a file by signature and compression flag.
type FileType int

const (
	FileUnknown FileType = iota
	FileLAS
	FileLAZ
)

func (t FileType) String() string {
	switch t {
	case FileLAS:
		return "LAS"
	case FileLAZ:
		return "LAZ"
	default:
		return "UNKNOWN"
	}
}

// DetectFile reads the start of path. A file is LAZ when the point format
// byte carries the compression flag, or when it has the LASF signature and
// a .laz extension.
func DetectFile(path string) FileType {
	f, err := os.Open(path)
	if err != nil {
		return FileUnknown
	}
	defer f.Close()

	head := make([]byte, format.HdrPointFormatOffset+1)
	n, err := io.ReadFull(f, head)
	if err != nil && n < len(format.LASFSignature) {
		return FileUnknown
	}
	return DetectBytes(head[:n], path)
}

// DetectBytes is DetectFile over an in-memory prefix of the file.
func DetectBytes(head []byte, name string) FileType {
	if !bytes.HasPrefix(head, format.LASFSignature) {
		return FileUnknown
	}
	if len(head) > format.HdrPointFormatOffset &&
		head[format.HdrPointFormatOffset]&(format.HdrCompressedFormatFlag|format.HdrCompressedFormatFlag2) != 0 {
		return FileLAZ
	}
	if strings.EqualFold(filepath.Ext(name), ".laz") {
		return FileLAZ
	}
	return FileLAS
}
