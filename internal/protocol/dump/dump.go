// Package dump renders word-aligned TL values as indented diagnostic text.
//
// Output format (two spaces per level):
//
//	{ rpc_result
//	  req_msg_id: 5 [LONG],
//	  result: [ vector<0xa8509bda>
//	    1 [INT],
//	    2 [INT],
//	  ],
//	}
//
// Any error aborts the whole walk. The partial text returned next to an error
// is for diagnostics only.
package dump

import (
	"fmt"

	"github.com/danmuck/tlvdump/internal/protocol"
	"github.com/danmuck/tlvdump/internal/protocol/gzipped"
	"github.com/danmuck/tlvdump/internal/protocol/layer"
	"github.com/danmuck/tlvdump/internal/protocol/wire"
	"github.com/rs/zerolog"
)

// Options configures a Decoder. Zero limits fall back to the defaults.
type Options struct {
	// MaxDepth bounds recursion through fields, elements, gzip envelopes
	// and layer wrappers.
	MaxDepth int
	// MaxVectorLen bounds vectors whose elements carry no payload words.
	MaxVectorLen int
	// MaxInflatedBytes bounds the combined output of every gzip_packed
	// payload inflated during one call.
	MaxInflatedBytes int
	Layers           *layer.Table
	Logger           *zerolog.Logger
	// OnInflate, when set, observes every successful inflate.
	OnInflate func(gzipped.Stats)
}

const (
	DefaultMaxDepth     = 512
	DefaultMaxVectorLen = 1 << 16
)

func DefaultOptions() Options {
	return Options{
		MaxDepth:         DefaultMaxDepth,
		MaxVectorLen:     DefaultMaxVectorLen,
		MaxInflatedBytes: gzipped.DefaultLimits().MaxBytes,
		Layers:           layer.Default(),
		Logger:           &nopLogger,
	}
}

var nopLogger = zerolog.Nop()

// Decoder is immutable after New and safe for concurrent use.
type Decoder struct {
	opts Options
}

func New(opts Options) *Decoder {
	def := DefaultOptions()
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = def.MaxDepth
	}
	if opts.MaxVectorLen <= 0 {
		opts.MaxVectorLen = def.MaxVectorLen
	}
	if opts.MaxInflatedBytes <= 0 {
		opts.MaxInflatedBytes = def.MaxInflatedBytes
	}
	if opts.Layers == nil {
		opts.Layers = def.Layers
	}
	if opts.Logger == nil {
		opts.Logger = def.Logger
	}
	return &Decoder{opts: opts}
}

func (d *Decoder) Options() Options {
	return d.opts
}

// Dump renders one value from words. tag may be protocol.TagNone to read the
// tag from the stream; vcons is the element tag when tag is a bare vector.
func (d *Decoder) Dump(words []uint32, tag protocol.Tag, level int, vcons protocol.Tag) (string, error) {
	w := walker{opts: &d.opts}
	err := w.value(wire.NewCursor(words), tag, level, vcons)
	return w.out.String(), err
}

// DumpBytes is Dump over a little-endian byte buffer.
func (d *Decoder) DumpBytes(b []byte, tag protocol.Tag, level int, vcons protocol.Tag) (string, error) {
	words, err := wire.Words(b)
	if err != nil {
		return "", err
	}
	return d.Dump(words, tag, level, vcons)
}

var defaultDecoder = New(DefaultOptions())

// Render dumps a self-describing value with the default options.
func Render(words []uint32) (string, error) {
	return defaultDecoder.Dump(words, protocol.TagNone, 0, protocol.TagNone)
}

// walker is the state of one top-level call.
type walker struct {
	opts     *Options
	out      Sink
	depth    int
	inflated int
}

func (w *walker) value(c *wire.Cursor, tag protocol.Tag, level int, vcons protocol.Tag) error {
	if w.depth >= w.opts.MaxDepth {
		return fmt.Errorf("%w: limit %d", protocol.ErrDepthExceeded, w.opts.MaxDepth)
	}
	w.depth++
	defer func() { w.depth-- }()

	if tag == protocol.TagNone {
		t, err := c.Tag()
		if err != nil {
			return err
		}
		tag = t
	}

	kind := protocol.KindOf(tag)
	switch kind {
	case protocol.KindInt:
		v, err := c.Int32()
		if err != nil {
			return err
		}
		w.out.add(fmt.Sprint(v), " [INT]")
	case protocol.KindLong:
		v, err := c.Int64()
		if err != nil {
			return err
		}
		w.out.add(fmt.Sprint(v), " [LONG]")
	case protocol.KindInt128:
		v, err := c.Int128()
		if err != nil {
			return err
		}
		w.out.add(formatInt128(v), " [INT128]")
	case protocol.KindInt256:
		v, err := c.Int256()
		if err != nil {
			return err
		}
		w.out.add(formatInt256(v), " [INT256]")
	case protocol.KindDouble:
		v, err := c.Float64()
		if err != nil {
			return err
		}
		w.out.add(formatDouble(v), " [DOUBLE]")
	case protocol.KindString:
		b, err := c.Bytes()
		if err != nil {
			return err
		}
		w.out.add(formatString(b))
	case protocol.KindBool:
		if tag == protocol.TagBoolTrue {
			w.out.add("[TRUE]")
		} else {
			w.out.add("[FALSE]")
		}
	case protocol.KindVector:
		return w.vector(c, level, vcons)
	case protocol.KindError:
		return w.record(c, level, "error",
			field{"code", protocol.TagInt, 0},
			field{"text", protocol.TagString, 0},
		)
	case protocol.KindNull:
		w.out.add("{ null }")
	case protocol.KindRPCResult:
		return w.record(c, level, "rpc_result",
			field{"req_msg_id", protocol.TagLong, 0},
			field{"result", protocol.TagNone, 0},
		)
	case protocol.KindMsgContainer:
		return w.record(c, level, "msg_container",
			field{"messages", protocol.TagVector, protocol.TagCoreMessage},
		)
	case protocol.KindCoreMessage:
		return w.record(c, level, "core_message",
			field{"msg_id", protocol.TagLong, 0},
			field{"seq_no", protocol.TagInt, 0},
			field{"bytes", protocol.TagInt, 0},
			field{"body", protocol.TagNone, 0},
		)
	case protocol.KindGzipPacked:
		return w.gzipPacked(c, level)
	case protocol.KindLayerOrUnknown:
		return w.layer(c, tag, level)
	default:
		return fmt.Errorf("dump: no rule for kind %s", kind)
	}
	return nil
}

func (w *walker) vector(c *wire.Cursor, level int, vcons protocol.Tag) error {
	n, err := c.Uint32()
	if err != nil {
		return err
	}
	count := int(int32(n))
	if count < 0 {
		return fmt.Errorf("%w: vector count %d", protocol.ErrTruncated, count)
	}
	if vcons != protocol.TagNone && protocol.KindOf(vcons).ZeroWidth() {
		if count > w.opts.MaxVectorLen {
			return fmt.Errorf("%w: vector of %d empty elements", protocol.ErrLimitExceeded, count)
		}
	} else if count > c.Remaining() {
		return fmt.Errorf("%w: vector count %d over %d remaining words", protocol.ErrTruncated, count, c.Remaining())
	}

	w.out.add("[ vector<0x", fmt.Sprintf("%x", uint32(vcons)), ">")
	if count == 0 {
		w.out.add(" ]")
		return nil
	}
	w.out.newline(level)
	for i := 0; i < count; i++ {
		w.out.add("  ")
		if err := w.value(c, vcons, level+1, protocol.TagNone); err != nil {
			return err
		}
		w.out.add(",").newline(level)
	}
	w.out.add("]")
	return nil
}

type field struct {
	name  string
	tag   protocol.Tag
	vcons protocol.Tag
}

func (w *walker) record(c *wire.Cursor, level int, name string, fields ...field) error {
	w.out.add("{ ", name).newline(level)
	for _, f := range fields {
		w.out.add("  ", f.name, ": ")
		if err := w.value(c, f.tag, level+1, f.vcons); err != nil {
			return err
		}
		w.out.add(",").newline(level)
	}
	w.out.add("}")
	return nil
}

func (w *walker) gzipPacked(c *wire.Cursor, level int) error {
	packed, err := c.Bytes()
	if err != nil {
		return err
	}
	budget := w.opts.MaxInflatedBytes - w.inflated
	if budget <= 0 {
		return &protocol.DecompressionError{Stage: protocol.StageLimit, Size: w.inflated}
	}
	words, st, err := gzipped.Inflate(packed, gzipped.Limits{MaxBytes: budget})
	if err != nil {
		w.opts.Logger.Debug().Err(err).Int("packed", st.Packed).Msg("gzip_packed rejected")
		return err
	}
	w.inflated += st.Inflated
	w.opts.Logger.Trace().
		Int("packed", st.Packed).
		Int("inflated", st.Inflated).
		Int("total", w.inflated).
		Msg("gzip_packed inflated")
	if w.opts.OnInflate != nil {
		w.opts.OnInflate(st)
	}
	w.out.add("[GZIPPED] ")
	return w.value(wire.NewCursor(words), protocol.TagNone, level, protocol.TagNone)
}

func (w *walker) layer(c *wire.Cursor, tag protocol.Tag, level int) error {
	i, ok := w.opts.Layers.Lookup(tag)
	if !ok {
		return &protocol.UnknownConstructorError{Tag: tag}
	}
	w.out.add("[LAYER", fmt.Sprint(layer.Version(i)), "] ")
	return w.value(c, protocol.TagNone, level, protocol.TagNone)
}
