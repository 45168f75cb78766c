package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"audioevents/internal/common/fsutil"
)

// Defaults applied by ApplyDefaults when the corresponding field is unset.
const (
	DefaultAddr                 = ":9464"
	DefaultLogLevel             = "info"
	DefaultProducers            = 2
	DefaultUnderrunsPerProducer = 10
	DefaultUnderrunIntervalMs   = 50
	DefaultDecoderName          = "sim.audio.decoder"
	DefaultBufferSizeBytes      = 16384
	DefaultRecorderCapacity     = 256
)

// Config holds runtime parameters for the daemon and the simulated renderer.
// Zero values mean "unspecified" and are replaced by ApplyDefaults.
type Config struct {
	Addr     string `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`
	// MaxPending caps the delivery loop queue; 0 leaves it unbounded.
	MaxPending       int `json:"max_pending" yaml:"max_pending" toml:"max_pending"`
	RecorderCapacity int `json:"recorder_capacity" yaml:"recorder_capacity" toml:"recorder_capacity"`

	Producers            int    `json:"producers" yaml:"producers" toml:"producers"`
	UnderrunsPerProducer int    `json:"underruns_per_producer" yaml:"underruns_per_producer" toml:"underruns_per_producer"`
	UnderrunIntervalMs   int    `json:"underrun_interval_ms" yaml:"underrun_interval_ms" toml:"underrun_interval_ms"`
	DecoderName          string `json:"decoder_name" yaml:"decoder_name" toml:"decoder_name"`
	BufferSizeBytes      int32  `json:"buffer_size_bytes" yaml:"buffer_size_bytes" toml:"buffer_size_bytes"`
	// Passthrough makes every simulated track report an unknown buffer duration.
	Passthrough bool  `json:"passthrough" yaml:"passthrough" toml:"passthrough"`
	Seed        int64 `json:"seed" yaml:"seed" toml:"seed"`

	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml. A leading '~' is expanded.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(p)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", p, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", p, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", p, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.RecorderCapacity <= 0 {
		c.RecorderCapacity = DefaultRecorderCapacity
	}
	if c.Producers <= 0 {
		c.Producers = DefaultProducers
	}
	if c.UnderrunsPerProducer <= 0 {
		c.UnderrunsPerProducer = DefaultUnderrunsPerProducer
	}
	if c.UnderrunIntervalMs <= 0 {
		c.UnderrunIntervalMs = DefaultUnderrunIntervalMs
	}
	if c.DecoderName == "" {
		c.DecoderName = DefaultDecoderName
	}
	if c.BufferSizeBytes <= 0 {
		c.BufferSizeBytes = DefaultBufferSizeBytes
	}
	if c.MaxPending < 0 {
		c.MaxPending = 0
	}
}

// Merge overlays non-zero fields of o onto c. Booleans are only ever
// switched on.
func (c *Config) Merge(o Config) {
	if o.Addr != "" {
		c.Addr = o.Addr
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.MaxPending != 0 {
		c.MaxPending = o.MaxPending
	}
	if o.RecorderCapacity != 0 {
		c.RecorderCapacity = o.RecorderCapacity
	}
	if o.Producers != 0 {
		c.Producers = o.Producers
	}
	if o.UnderrunsPerProducer != 0 {
		c.UnderrunsPerProducer = o.UnderrunsPerProducer
	}
	if o.UnderrunIntervalMs != 0 {
		c.UnderrunIntervalMs = o.UnderrunIntervalMs
	}
	if o.DecoderName != "" {
		c.DecoderName = o.DecoderName
	}
	if o.BufferSizeBytes != 0 {
		c.BufferSizeBytes = o.BufferSizeBytes
	}
	if o.Passthrough {
		c.Passthrough = true
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if len(o.CORSOrigins) > 0 {
		c.CORSOrigins = append([]string(nil), o.CORSOrigins...)
	}
}
