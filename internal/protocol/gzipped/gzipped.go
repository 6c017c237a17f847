// Package gzipped inflates gzip_packed payloads into word buffers.
package gzipped

import (
	"bytes"
	"errors"
	"io"
	"slices"

	"github.com/danmuck/tlvdump/internal/protocol"
	"github.com/danmuck/tlvdump/internal/protocol/wire"
	"github.com/klauspost/compress/gzip"
)

// Limits bounds the memory one inflate may use. MaxBytes <= 0 disables the
// bound.
type Limits struct {
	MaxBytes int
}

func DefaultLimits() Limits {
	return Limits{MaxBytes: 16 * 1024 * 1024}
}

// Stats describes one successful inflate.
type Stats struct {
	Packed   int
	Inflated int
}

// Inflate decompresses a single gzip member and reinterprets the output as
// words. Output grows in steps of len(packed) until the stream ends.
func Inflate(packed []byte, limits Limits) ([]uint32, Stats, error) {
	st := Stats{Packed: len(packed)}
	zr, err := gzip.NewReader(bytes.NewReader(packed))
	if err != nil {
		return nil, st, &protocol.DecompressionError{Stage: protocol.StageInit, Err: err}
	}
	defer zr.Close()
	zr.Multistream(false)

	chunk := max(len(packed), wire.WordSize)
	out := make([]byte, 0, chunk)
	for {
		if len(out) == cap(out) {
			out = slices.Grow(out, chunk)
		}
		n, err := zr.Read(out[len(out):cap(out)])
		out = out[:len(out)+n]
		if limits.MaxBytes > 0 && len(out) > limits.MaxBytes {
			return nil, st, &protocol.DecompressionError{Stage: protocol.StageLimit, Size: len(out)}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, st, &protocol.DecompressionError{Stage: protocol.StageInflate, Size: len(out), Err: err}
		}
	}

	st.Inflated = len(out)
	if len(out)%wire.WordSize != 0 {
		return nil, st, &protocol.DecompressionError{Stage: protocol.StageLength, Size: len(out)}
	}
	if len(out) == 0 {
		return nil, st, &protocol.DecompressionError{Stage: protocol.StageVoid}
	}
	words, err := wire.Words(out)
	if err != nil {
		return nil, st, err
	}
	return words, st, nil
}
