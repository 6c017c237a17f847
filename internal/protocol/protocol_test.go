package protocol

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestKindOfBuiltins(t *testing.T) {
	cases := map[Tag]Kind{
		TagInt:          KindInt,
		TagLong:         KindLong,
		TagInt128:       KindInt128,
		TagInt256:       KindInt256,
		TagDouble:       KindDouble,
		TagString:       KindString,
		TagBoolTrue:     KindBool,
		TagBoolFalse:    KindBool,
		TagVector:       KindVector,
		TagError:        KindError,
		TagNull:         KindNull,
		TagRPCResult:    KindRPCResult,
		TagMsgContainer: KindMsgContainer,
		TagCoreMessage:  KindCoreMessage,
		TagGzipPacked:   KindGzipPacked,
		0x53835315:      KindLayerOrUnknown,
		TagNone:         KindLayerOrUnknown,
	}
	for tag, want := range cases {
		if got := KindOf(tag); got != want {
			t.Fatalf("KindOf(%s) = %s, want %s", tag, got, want)
		}
	}
}

func TestKindsAreNamed(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != int(kindCount) || kinds[0] != KindLayerOrUnknown {
		t.Fatalf("unexpected kind list: %v", kinds)
	}
	seen := make(map[string]bool)
	for _, k := range kinds {
		name := k.String()
		if name == "" || seen[name] {
			t.Fatalf("kind %d has empty or duplicate name %q", k, name)
		}
		seen[name] = true
	}
	if got := Kind(200).String(); got != "kind(200)" {
		t.Fatalf("unexpected out-of-range name: %q", got)
	}
}

func TestZeroWidthKinds(t *testing.T) {
	for _, k := range Kinds() {
		want := k == KindBool || k == KindNull
		if k.ZeroWidth() != want {
			t.Fatalf("kind %s zero width = %v", k, k.ZeroWidth())
		}
	}
}

func TestUnknownConstructorError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &UnknownConstructorError{Tag: 0xdeadbeef})
	if !errors.Is(err, ErrUnknownConstructor) {
		t.Fatalf("expected ErrUnknownConstructor match")
	}
	var uc *UnknownConstructorError
	if !errors.As(err, &uc) || uc.Tag != 0xdeadbeef {
		t.Fatalf("expected tag to survive wrapping, got %v", err)
	}
	if uc.Error() != "protocol: unknown constructor 0xdeadbeef" {
		t.Fatalf("unexpected message: %q", uc.Error())
	}
}

func TestDecompressionErrorMessages(t *testing.T) {
	cases := []struct {
		err  *DecompressionError
		want string
	}{
		{&DecompressionError{Stage: StageInit, Err: io.EOF}, "protocol: ungzip init: EOF"},
		{&DecompressionError{Stage: StageLength, Size: 7}, "protocol: ungzip length, size: 7"},
		{&DecompressionError{Stage: StageVoid}, "protocol: ungzip void"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("got %q want %q", got, tc.want)
		}
		if !errors.Is(tc.err, ErrDecompression) {
			t.Fatalf("%v should match ErrDecompression", tc.err)
		}
	}
	if !errors.Is(&DecompressionError{Stage: StageInflate, Err: io.ErrUnexpectedEOF}, io.ErrUnexpectedEOF) {
		t.Fatalf("expected inflate error to unwrap")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{ErrTruncated, "truncated"},
		{fmt.Errorf("%w: vector count", ErrTruncated), "truncated"},
		{&DecompressionError{Stage: StageVoid}, "decompression"},
		{&DecompressionError{Stage: StageLimit, Size: 10}, "decompression"},
		{&UnknownConstructorError{Tag: 1}, "unknown_constructor"},
		{fmt.Errorf("%w: limit 4", ErrDepthExceeded), "depth"},
		{ErrLimitExceeded, "limit"},
		{ErrUnaligned, "unaligned"},
		{errors.New("boom"), "other"},
	}
	for _, tc := range cases {
		if got := Classify(tc.err); got != tc.want {
			t.Fatalf("Classify(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestParseTag(t *testing.T) {
	cases := map[string]Tag{
		"0xa8509bda": TagInt,
		"0XA8509BDA": TagInt,
		" 0x0 ":      TagNone,
		"481085":     481085,
	}
	for raw, want := range cases {
		got, err := ParseTag(raw)
		if err != nil || got != want {
			t.Fatalf("ParseTag(%q) = %v, %v; want %v", raw, got, err, want)
		}
	}
	for _, raw := range []string{"", "0x", "zz", "0x1ffffffff", "-1"} {
		if _, err := ParseTag(raw); err == nil {
			t.Fatalf("expected ParseTag(%q) to fail", raw)
		}
	}
}
