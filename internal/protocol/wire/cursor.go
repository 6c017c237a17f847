package wire

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/danmuck/tlvdump/internal/protocol"
)

// WordSize is the width of one wire word in bytes.
const WordSize = 4

// Cursor is a bounds-checked read position over a word buffer. The buffer is
// never modified. A failed read leaves the position unchanged.
type Cursor struct {
	words []uint32
	pos   int
}

func NewCursor(words []uint32) *Cursor {
	return &Cursor{words: words}
}

func (c *Cursor) Pos() int {
	return c.pos
}

func (c *Cursor) Remaining() int {
	return len(c.words) - c.pos
}

func (c *Cursor) Done() bool {
	return c.pos >= len(c.words)
}

func (c *Cursor) take(n int) ([]uint32, error) {
	if n < 0 || c.Remaining() < n {
		return nil, protocol.ErrTruncated
	}
	out := c.words[c.pos : c.pos+n]
	c.pos += n
	return out, nil
}

func (c *Cursor) Uint32() (uint32, error) {
	w, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return w[0], nil
}

func (c *Cursor) Int32() (int32, error) {
	v, err := c.Uint32()
	return int32(v), err
}

// Tag reads one word as a constructor id.
func (c *Cursor) Tag() (protocol.Tag, error) {
	v, err := c.Uint32()
	return protocol.Tag(v), err
}

// Uint64 reads two words, low word first.
func (c *Cursor) Uint64() (uint64, error) {
	w, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return uint64(w[0]) | uint64(w[1])<<32, nil
}

func (c *Cursor) Int64() (int64, error) {
	v, err := c.Uint64()
	return int64(v), err
}

func (c *Cursor) Float64() (float64, error) {
	v, err := c.Uint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// Int128 is a 128-bit value kept as its two unsigned halves.
type Int128 struct {
	Low  uint64
	High uint64
}

// Int256 is a 256-bit value kept as its two 128-bit halves.
type Int256 struct {
	Low  Int128
	High Int128
}

// Int128 reads four words: low half then high half.
func (c *Cursor) Int128() (Int128, error) {
	if c.Remaining() < 4 {
		return Int128{}, protocol.ErrTruncated
	}
	lo, _ := c.Uint64()
	hi, _ := c.Uint64()
	return Int128{Low: lo, High: hi}, nil
}

// Int256 reads eight words: low half then high half.
func (c *Cursor) Int256() (Int256, error) {
	if c.Remaining() < 8 {
		return Int256{}, protocol.ErrTruncated
	}
	lo, _ := c.Int128()
	hi, _ := c.Int128()
	return Int256{Low: lo, High: hi}, nil
}

// Bytes reads a length-prefixed byte string. Lengths below 254 use a one
// byte header; 254 is followed by a 24-bit little-endian length. Header and
// payload are padded to a word boundary. A 255 header is malformed.
func (c *Cursor) Bytes() ([]byte, error) {
	if c.Done() {
		return nil, protocol.ErrTruncated
	}
	first := c.words[c.pos]
	n := int(first & 0xff)
	header := 1
	switch n {
	case 254:
		n = int(first >> 8)
		header = WordSize
	case 255:
		return nil, fmt.Errorf("%w: string header 0xff", protocol.ErrTruncated)
	}
	total := header + n
	words := (total + WordSize - 1) / WordSize
	if c.Remaining() < words {
		return nil, protocol.ErrTruncated
	}
	raw := make([]byte, words*WordSize)
	for i, w := range c.words[c.pos : c.pos+words] {
		binary.LittleEndian.PutUint32(raw[i*WordSize:], w)
	}
	c.pos += words
	return raw[header:total], nil
}

// Words reinterprets b as little-endian words.
func Words(b []byte) ([]uint32, error) {
	if len(b)%WordSize != 0 {
		return nil, protocol.ErrUnaligned
	}
	out := make([]uint32, len(b)/WordSize)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[i*WordSize:])
	}
	return out, nil
}
