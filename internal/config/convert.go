package config

import (
	"fmt"

	"github.com/danmuck/tlvdump/internal/protocol"
	"github.com/danmuck/tlvdump/internal/protocol/dump"
	"github.com/danmuck/tlvdump/internal/protocol/layer"
)

// DecodeOptions turns cfg into decoder options. Zero limits keep the
// decoder defaults; extra layers follow the built-in table.
func DecodeOptions(cfg DecodeConfig) (dump.Options, error) {
	opts := dump.DefaultOptions()
	if cfg.MaxDepth > 0 {
		opts.MaxDepth = cfg.MaxDepth
	}
	if cfg.MaxVectorLen > 0 {
		opts.MaxVectorLen = cfg.MaxVectorLen
	}
	if cfg.MaxInflatedBytes > 0 {
		opts.MaxInflatedBytes = cfg.MaxInflatedBytes
	}
	extra, err := parseLayers(cfg.ExtraLayers)
	if err != nil {
		return dump.Options{}, err
	}
	if len(extra) > 0 {
		opts.Layers = layer.Default().Extend(extra...)
	}
	return opts, nil
}

func parseLayers(raw []string) ([]protocol.Tag, error) {
	tags := make([]protocol.Tag, 0, len(raw))
	for i, s := range raw {
		tag, err := protocol.ParseTag(s)
		if err != nil {
			return nil, fmt.Errorf("extra_layers[%d]: %w", i, err)
		}
		if protocol.KindOf(tag) != protocol.KindLayerOrUnknown || tag == protocol.TagNone {
			return nil, fmt.Errorf("extra_layers[%d]: %s is a built-in constructor", i, tag)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
