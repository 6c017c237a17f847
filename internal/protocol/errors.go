package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated          = errors.New("protocol: truncated data")
	ErrDecompression      = errors.New("protocol: decompression failed")
	ErrUnknownConstructor = errors.New("protocol: unknown constructor")
	ErrDepthExceeded      = errors.New("protocol: nesting depth exceeded")
	ErrLimitExceeded      = errors.New("protocol: decode limit exceeded")
	ErrUnaligned          = errors.New("protocol: input not word aligned")
)

// UnknownConstructorError reports a tag that matched no built-in kind and no
// layer wrapper.
type UnknownConstructorError struct {
	Tag Tag
}

func (e *UnknownConstructorError) Error() string {
	return fmt.Sprintf("protocol: unknown constructor 0x%x", uint32(e.Tag))
}

func (e *UnknownConstructorError) Is(target error) bool {
	return target == ErrUnknownConstructor
}

// Decompression stages.
const (
	StageInit    = "init"
	StageInflate = "inflate"
	StageLength  = "length"
	StageVoid    = "void"
	StageLimit   = "limit"
)

// DecompressionError reports a packed payload that could not be turned into
// a word buffer. Size is the number of bytes produced so far.
type DecompressionError struct {
	Stage string
	Size  int
	Err   error
}

func (e *DecompressionError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("protocol: ungzip %s: %v", e.Stage, e.Err)
	case e.Stage == StageLength || e.Stage == StageLimit:
		return fmt.Sprintf("protocol: ungzip %s, size: %d", e.Stage, e.Size)
	default:
		return fmt.Sprintf("protocol: ungzip %s", e.Stage)
	}
}

func (e *DecompressionError) Unwrap() error {
	return e.Err
}

func (e *DecompressionError) Is(target error) bool {
	if target == ErrDecompression {
		return true
	}
	return e.Stage == StageLimit && target == ErrLimitExceeded
}

// Classify maps err onto a stable, low-cardinality label.
func Classify(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrDepthExceeded):
		return "depth"
	case errors.Is(err, ErrDecompression):
		return "decompression"
	case errors.Is(err, ErrLimitExceeded):
		return "limit"
	case errors.Is(err, ErrTruncated):
		return "truncated"
	case errors.Is(err, ErrUnknownConstructor):
		return "unknown_constructor"
	case errors.Is(err, ErrUnaligned):
		return "unaligned"
	default:
		return "other"
	}
}
