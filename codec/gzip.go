// Package codec compresses request bodies and decompresses response bodies
// exchanged with the GameUp service.
package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// CompressionThreshold is the body size above which request compression applies.
// Bodies of this size or smaller are always sent as-is.
const CompressionThreshold = 300

// ContentEncodingGzip is the Content-Encoding / Accept-Encoding token for gzip.
const ContentEncodingGzip = "gzip"

var gzipMagic = []byte{0x1f, 0x8b}

// ShouldCompress reports whether body is large enough to be compressed.
func ShouldCompress(body []byte) bool {
	return len(body) > CompressionThreshold
}

// IsGzip reports whether data starts with the gzip magic number.
func IsGzip(data []byte) bool {
	return bytes.HasPrefix(data, gzipMagic)
}

// Compress returns data wrapped in a gzip container.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("gzip write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress inflates a gzip stream and returns it as UTF-8 text.
// Callers check IsGzip first; a stream that fails here is corrupt.
func Decompress(data []byte) (string, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("gzip header: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("gzip body: %w", err)
	}
	return string(out), nil
}
