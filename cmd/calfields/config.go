package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/reoring/calfields"
)

// Config is the optional YAML file passed with --config. Flags override it.
type Config struct {
	Fields   []string     `yaml:"fields"`
	Required []string     `yaml:"required"`
	Mode     string       `yaml:"mode"`
	Format   string       `yaml:"format"`
	Decode   DecodeConfig `yaml:"decode"`
}

// DecodeConfig mirrors calfields.DecodeOpt.
type DecodeConfig struct {
	OnDuplicateKey string `yaml:"onDuplicateKey"`
	MaxDepth       int    `yaml:"maxDepth"`
	MaxBytes       int64  `yaml:"maxBytes"`
}

func loadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// DecodeOpt converts the decode section into library options.
func (c DecodeConfig) DecodeOpt() (calfields.DecodeOpt, error) {
	opt := calfields.DefaultDecodeOpt()
	if c.OnDuplicateKey != "" {
		sev, ok := calfields.ParseSeverity(c.OnDuplicateKey)
		if !ok {
			return opt, fmt.Errorf("unknown onDuplicateKey %q", c.OnDuplicateKey)
		}
		opt.Strictness.OnDuplicateKey = sev
	}
	opt.MaxDepth = c.MaxDepth
	opt.MaxBytes = c.MaxBytes
	return opt, nil
}
