// Package tlbuild encodes TL fixtures for tests.
package tlbuild

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/danmuck/tlvdump/internal/protocol"
	"github.com/klauspost/compress/gzip"
)

// Builder appends words. Methods return the builder so fixtures read in
// wire order.
type Builder struct {
	words []uint32
}

func New() *Builder {
	return &Builder{}
}

func (b *Builder) Words() []uint32 {
	out := make([]uint32, len(b.words))
	copy(out, b.words)
	return out
}

// Bytes returns the little-endian byte form of the buffer.
func (b *Builder) Bytes() []byte {
	out := make([]byte, len(b.words)*4)
	for i, w := range b.words {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}
	return out
}

func (b *Builder) Word(v uint32) *Builder {
	b.words = append(b.words, v)
	return b
}

func (b *Builder) Tag(t protocol.Tag) *Builder {
	return b.Word(uint32(t))
}

func (b *Builder) Int(v int32) *Builder {
	return b.Word(uint32(v))
}

func (b *Builder) Long(v int64) *Builder {
	return b.Word(uint32(uint64(v))).Word(uint32(uint64(v) >> 32))
}

func (b *Builder) Double(v float64) *Builder {
	return b.Long(int64(math.Float64bits(v)))
}

func (b *Builder) Int128(hi, lo uint64) *Builder {
	return b.Long(int64(lo)).Long(int64(hi))
}

func (b *Builder) Int256(hh, hl, lh, ll uint64) *Builder {
	return b.Int128(lh, ll).Int128(hh, hl)
}

// Blob appends a length-prefixed, word-padded byte string.
func (b *Builder) Blob(s []byte) *Builder {
	var raw []byte
	if len(s) < 254 {
		raw = append(raw, byte(len(s)))
	} else {
		raw = append(raw, 254, byte(len(s)), byte(len(s)>>8), byte(len(s)>>16))
	}
	raw = append(raw, s...)
	for len(raw)%4 != 0 {
		raw = append(raw, 0)
	}
	for i := 0; i < len(raw); i += 4 {
		b.Word(binary.LittleEndian.Uint32(raw[i:]))
	}
	return b
}

func (b *Builder) Text(s string) *Builder {
	return b.Blob([]byte(s))
}

// Gzip appends a gzip_packed envelope around inner.
func (b *Builder) Gzip(inner *Builder) *Builder {
	return b.Tag(protocol.TagGzipPacked).Blob(Pack(inner.Bytes()))
}

// Pack gzips raw bytes.
func Pack(raw []byte) []byte {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write(raw)
	_ = zw.Close()
	return buf.Bytes()
}
