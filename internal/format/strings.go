package format

import (
	"bytes"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Fixed-width character fields (user ids, descriptions, system identifier,
// extra field names) are NUL-padded 8-bit text. Writers in the wild use
// Windows-1252 rather than strict ASCII, so decode through that code page.

// DecodeFixedString returns the text before the first NUL of b.
func DecodeFixedString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	if isASCII(b) {
		return string(b)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(decoded)
}

// EncodeFixedString zeroes dst and writes s into it, truncated to len(dst).
// Characters outside Windows-1252 are replaced.
func EncodeFixedString(dst []byte, s string) {
	clear(dst)
	raw := []byte(s)
	if !isASCII(raw) {
		enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
		if encoded, err := enc.Bytes(raw); err == nil {
			raw = encoded
		}
	}
	copy(dst, raw)
}

// FixedString builds an n-byte NUL-padded field from s.
func FixedString(s string, n int) []byte {
	out := make([]byte, n)
	EncodeFixedString(out, s)
	return out
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
