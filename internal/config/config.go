package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "LOGGEN_"

type Config struct {
	Listen    string          `yaml:"listen" koanf:"listen" validate:"required"`
	LogLevel  string          `yaml:"log_level" koanf:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat string          `yaml:"log_format" koanf:"log_format" validate:"oneof=console json"`
	Generator GeneratorConfig `yaml:"generator" koanf:"generator"`
	Export    ExportConfig    `yaml:"export" koanf:"export"`
}

type GeneratorConfig struct {
	MaxQuantity     int     `yaml:"max_quantity" koanf:"max_quantity" validate:"min=1"`
	DefaultQuantity int     `yaml:"default_quantity" koanf:"default_quantity" validate:"min=1,ltefield=MaxQuantity"`
	DefaultBias     float64 `yaml:"default_bias" koanf:"default_bias" validate:"min=0,max=1"`
	Seed            uint64  `yaml:"seed" koanf:"seed"`
}

type ExportConfig struct {
	Compression string `yaml:"compression" koanf:"compression" validate:"oneof=none gzip zstd"`
}

func Default() *Config {
	return &Config{
		Listen:    ":8080",
		LogLevel:  "info",
		LogFormat: "console",
		Generator: GeneratorConfig{
			MaxQuantity:     500,
			DefaultQuantity: 50,
			DefaultBias:     0.5,
		},
		Export: ExportConfig{Compression: "none"},
	}
}

// Load reads path (a missing file is fine), overlays LOGGEN_* environment
// variables and validates the result. Nested keys use a double underscore:
// LOGGEN_GENERATOR__MAX_QUANTITY sets generator.max_quantity.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("apply env: %w", err)
	}

	cfg.fillDefaults()
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = d.LogFormat
	}
	if c.Generator.MaxQuantity <= 0 {
		c.Generator.MaxQuantity = d.Generator.MaxQuantity
	}
	if c.Generator.DefaultQuantity <= 0 {
		c.Generator.DefaultQuantity = min(d.Generator.DefaultQuantity, c.Generator.MaxQuantity)
	}
	if c.Export.Compression == "" {
		c.Export.Compression = d.Export.Compression
	}
}
