package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// Tag is a constructor id as it appears on the wire.
type Tag uint32

// TagNone asks the dumper to read the tag from the stream.
const TagNone Tag = 0

// Core constructor ids.
const (
	TagInt          Tag = 0xa8509bda
	TagLong         Tag = 0x22076cba
	TagInt128       Tag = 0x4bb5362b
	TagInt256       Tag = 0x0929c32f
	TagDouble       Tag = 0x2210c154
	TagString       Tag = 0xb5286e24
	TagVector       Tag = 0x1cb5c415
	TagBoolTrue     Tag = 0x997275b5
	TagBoolFalse    Tag = 0xbc799737
	TagError        Tag = 0xc4b9f9bb
	TagNull         Tag = 0x56730bcc
	TagRPCResult    Tag = 0xf35c6d01
	TagMsgContainer Tag = 0x73f1f8dc
	TagCoreMessage  Tag = 0x5bb8e511
	TagGzipPacked   Tag = 0x3072cfa1
)

func (t Tag) String() string {
	return fmt.Sprintf("0x%08x", uint32(t))
}

// Kind is the closed set of rules the dumper knows how to apply.
type Kind uint8

const (
	KindLayerOrUnknown Kind = iota
	KindInt
	KindLong
	KindInt128
	KindInt256
	KindDouble
	KindString
	KindBool
	KindVector
	KindError
	KindNull
	KindRPCResult
	KindMsgContainer
	KindCoreMessage
	KindGzipPacked

	kindCount
)

// Kinds lists every kind, fallback first.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

var kindNames = [kindCount]string{
	KindLayerOrUnknown: "layer_or_unknown",
	KindInt:            "int",
	KindLong:           "long",
	KindInt128:         "int128",
	KindInt256:         "int256",
	KindDouble:         "double",
	KindString:         "string",
	KindBool:           "bool",
	KindVector:         "vector",
	KindError:          "error",
	KindNull:           "null",
	KindRPCResult:      "rpc_result",
	KindMsgContainer:   "msg_container",
	KindCoreMessage:    "core_message",
	KindGzipPacked:     "gzip_packed",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// KindOf maps a tag onto its rule. Anything not built in falls back to
// KindLayerOrUnknown.
func KindOf(t Tag) Kind {
	switch t {
	case TagInt:
		return KindInt
	case TagLong:
		return KindLong
	case TagInt128:
		return KindInt128
	case TagInt256:
		return KindInt256
	case TagDouble:
		return KindDouble
	case TagString:
		return KindString
	case TagBoolTrue, TagBoolFalse:
		return KindBool
	case TagVector:
		return KindVector
	case TagError:
		return KindError
	case TagNull:
		return KindNull
	case TagRPCResult:
		return KindRPCResult
	case TagMsgContainer:
		return KindMsgContainer
	case TagCoreMessage:
		return KindCoreMessage
	case TagGzipPacked:
		return KindGzipPacked
	default:
		return KindLayerOrUnknown
	}
}

// ZeroWidth reports whether values of kind k carry no payload words.
func (k Kind) ZeroWidth() bool {
	return k == KindBool || k == KindNull
}

// ParseTag accepts hex with a 0x prefix or plain decimal.
func ParseTag(raw string) (Tag, error) {
	s := strings.TrimSpace(raw)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, fmt.Errorf("protocol: invalid tag %q: %w", raw, err)
	}
	return Tag(v), nil
}
