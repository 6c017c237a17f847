package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ServerConfig configures the inspect server.
type ServerConfig struct {
	Name         string       `toml:"name"`
	Addr         string       `toml:"addr"`
	CorsOrigins  []string     `toml:"cors_origins"`
	MaxBodyBytes int64        `toml:"max_body_bytes"`
	Decode       DecodeConfig `toml:"decode"`
}

// DecodeConfig carries decoder limits and extra layer wrapper tags.
type DecodeConfig struct {
	MaxDepth         int      `toml:"max_depth"`
	MaxVectorLen     int      `toml:"max_vector_len"`
	MaxInflatedBytes int      `toml:"max_inflated_bytes"`
	ExtraLayers      []string `toml:"extra_layers"`
}

const (
	DefaultName         = "tlvdumpd"
	DefaultAddr         = ":9400"
	DefaultMaxBodyBytes = 4 * 1024 * 1024
)

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Name:         DefaultName,
		Addr:         DefaultAddr,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	if err := loadToml(path, &cfg); err != nil {
		return ServerConfig{}, err
	}
	if strings.TrimSpace(cfg.Name) == "" {
		cfg.Name = DefaultName
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if err := ValidateServerConfig(cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateServerConfig(cfg ServerConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("server config missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("server config missing addr")
	}
	if cfg.MaxBodyBytes < 0 {
		return fmt.Errorf("max_body_bytes must not be negative")
	}
	if err := ValidateDecodeConfig(cfg.Decode); err != nil {
		return fmt.Errorf("decode invalid: %w", err)
	}
	return nil
}

func ValidateDecodeConfig(cfg DecodeConfig) error {
	if cfg.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative")
	}
	if cfg.MaxVectorLen < 0 {
		return fmt.Errorf("max_vector_len must not be negative")
	}
	if cfg.MaxInflatedBytes < 0 {
		return fmt.Errorf("max_inflated_bytes must not be negative")
	}
	if _, err := parseLayers(cfg.ExtraLayers); err != nil {
		return err
	}
	return nil
}
