package wire

import (
	"errors"
	"math"
	"testing"

	"github.com/danmuck/tlvdump/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorFixedWidthReads(t *testing.T) {
	bits := math.Float64bits(2.5)
	c := NewCursor([]uint32{
		0xffffffff,
		5, 0,
		uint32(bits), uint32(bits >> 32),
		1, 2, 3, 4,
	})

	i, err := c.Int32()
	require.NoError(t, err)
	assert.Equal(t, int32(-1), i)

	l, err := c.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(5), l)

	f, err := c.Float64()
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	v, err := c.Int128()
	require.NoError(t, err)
	assert.Equal(t, Int128{Low: 1 | 2<<32, High: 3 | 4<<32}, v)
	assert.True(t, c.Done())
}

func TestCursorTruncationLeavesPosition(t *testing.T) {
	c := NewCursor([]uint32{1, 2, 3})
	if _, err := c.Uint32(); err != nil {
		t.Fatalf("read word: %v", err)
	}
	if _, err := c.Int128(); !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if c.Pos() != 1 {
		t.Fatalf("position moved on failed read: %d", c.Pos())
	}
	if _, err := c.Int256(); !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if _, err := c.Uint64(); err != nil {
		t.Fatalf("read long: %v", err)
	}
	if _, err := c.Uint32(); !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated at end, got %v", err)
	}
}

func TestCursorBytesShortHeader(t *testing.T) {
	// len=3 "abc" fits one word exactly
	c := NewCursor([]uint32{3 | 'a'<<8 | 'b'<<16 | 'c'<<24, 0xdead})
	b, err := c.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), b)
	assert.Equal(t, 1, c.Pos())
}

func TestCursorBytesEmptyAndPadded(t *testing.T) {
	c := NewCursor([]uint32{0, 4 | 'w'<<8 | 'x'<<16 | 'y'<<24, 'z'})
	b, err := c.Bytes()
	require.NoError(t, err)
	assert.Empty(t, b)

	b, err = c.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("wxyz"), b)
	assert.True(t, c.Done())
}

func TestCursorBytesLongHeader(t *testing.T) {
	payload := make([]byte, 300)
	for i := range payload {
		payload[i] = byte(i)
	}
	raw := append([]byte{254, 0x2c, 0x01, 0x00}, payload...)
	words, err := Words(raw)
	require.NoError(t, err)

	c := NewCursor(words)
	b, err := c.Bytes()
	require.NoError(t, err)
	assert.Equal(t, payload, b)
	assert.True(t, c.Done())
}

func TestCursorBytesTruncatedBody(t *testing.T) {
	c := NewCursor([]uint32{10 | 'a'<<8})
	if _, err := c.Bytes(); !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if c.Pos() != 0 {
		t.Fatalf("position moved on failed read: %d", c.Pos())
	}
	if _, err := NewCursor(nil).Bytes(); !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated on empty buffer, got %v", err)
	}
}

func TestCursorBytesRejectsHeader255(t *testing.T) {
	words := make([]uint32, 64)
	words[0] = 255
	c := NewCursor(words)
	if _, err := c.Bytes(); !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated for 0xff header, got %v", err)
	}
	if c.Pos() != 0 {
		t.Fatalf("position moved on failed read: %d", c.Pos())
	}
}

func TestWordsRejectsUnaligned(t *testing.T) {
	if _, err := Words([]byte{1, 2, 3}); !errors.Is(err, protocol.ErrUnaligned) {
		t.Fatalf("expected ErrUnaligned, got %v", err)
	}
	w, err := Words([]byte{0xda, 0x9b, 0x50, 0xa8})
	require.NoError(t, err)
	assert.Equal(t, []uint32{uint32(protocol.TagInt)}, w)
}
