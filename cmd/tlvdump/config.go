package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/tlvdump/internal/logging"
	"github.com/danmuck/tlvdump/internal/protocol"
	"github.com/danmuck/tlvdump/internal/protocol/dump"
	"github.com/danmuck/tlvdump/internal/protocol/layer"
	"github.com/rs/zerolog"
)

type fileConfig struct {
	MaxDepth         int      `toml:"max_depth"`
	MaxVectorLen     int      `toml:"max_vector_len"`
	MaxInflatedBytes int      `toml:"max_inflated_bytes"`
	ExtraLayers      []string `toml:"extra_layers"`
	LogLevel         string   `toml:"log_level"`
}

type cliConfig struct {
	Options  dump.Options
	LogLevel zerolog.Level
}

func defaultCLIConfig() cliConfig {
	return cliConfig{
		Options:  dump.DefaultOptions(),
		LogLevel: zerolog.WarnLevel,
	}
}

func loadCLIConfig(path string) (cliConfig, error) {
	cfg := defaultCLIConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return cliConfig{}, fmt.Errorf("load tlvdump config: %w", err)
	}

	if meta.IsDefined("max_depth") {
		if raw.MaxDepth <= 0 {
			return cliConfig{}, fmt.Errorf("max_depth must be positive: %d", raw.MaxDepth)
		}
		cfg.Options.MaxDepth = raw.MaxDepth
	}

	if meta.IsDefined("max_vector_len") {
		if raw.MaxVectorLen <= 0 {
			return cliConfig{}, fmt.Errorf("max_vector_len must be positive: %d", raw.MaxVectorLen)
		}
		cfg.Options.MaxVectorLen = raw.MaxVectorLen
	}

	if meta.IsDefined("max_inflated_bytes") {
		if raw.MaxInflatedBytes <= 0 {
			return cliConfig{}, fmt.Errorf("max_inflated_bytes must be positive: %d", raw.MaxInflatedBytes)
		}
		cfg.Options.MaxInflatedBytes = raw.MaxInflatedBytes
	}

	if meta.IsDefined("extra_layers") {
		tags, err := parseLayerTags(raw.ExtraLayers)
		if err != nil {
			return cliConfig{}, err
		}
		cfg.Options.Layers = layer.Default().Extend(tags...)
	}

	if meta.IsDefined("log_level") {
		lvl, ok := logging.ParseLevel(raw.LogLevel)
		if !ok {
			return cliConfig{}, fmt.Errorf("parse log_level: %q", raw.LogLevel)
		}
		cfg.LogLevel = lvl
	}

	return cfg, nil
}

func parseLayerTags(in []string) ([]protocol.Tag, error) {
	out := make([]protocol.Tag, 0, len(in))
	for _, s := range in {
		v := strings.TrimSpace(s)
		if v == "" {
			continue
		}
		tag, err := protocol.ParseTag(v)
		if err != nil {
			return nil, fmt.Errorf("parse extra_layers: %w", err)
		}
		out = append(out, tag)
	}
	return out, nil
}
