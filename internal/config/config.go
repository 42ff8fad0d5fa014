// Package config loads sobel-mcp settings.
//
// Settings are resolved in three layers, each overriding the previous one:
//
//  1. Built-in defaults (Default).
//  2. An optional TOML file.
//  3. SOBEL_MCP_* environment variables.
//
// # File Format
//
//	[log]
//	level = "debug"
//
//	[scratch]
//	max_bytes = 268435456
//
//	[gradient]
//	workers = 4
//
//	[http]
//	addr = ":8080"
//	max_body_bytes = 33554432
//
//	[cache]
//	redis_addr = "localhost:6379"
//	ttl = "10m"
//
//	[edge]
//	kernel = "magnitude"
//	palette = "heat"
//	threshold = 64
//	blur = 1.0
//
// Unknown keys are rejected so typos do not silently fall back to defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SOBEL_MCP_"

// Config holds every tunable setting.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Scratch  ScratchConfig  `toml:"scratch"`
	Gradient GradientConfig `toml:"gradient"`
	HTTP     HTTPConfig     `toml:"http"`
	Cache    CacheConfig    `toml:"cache"`
	Edge     EdgeConfig     `toml:"edge"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// ScratchConfig controls gradient plane allocation.
type ScratchConfig struct {
	// MaxBytes caps a single gradient plane; 0 means unlimited.
	MaxBytes int64 `toml:"max_bytes"`
}

// GradientConfig controls the gradient primitive.
type GradientConfig struct {
	// Workers is the number of concurrent bands; 1 selects the single-threaded
	// primitive and 0 uses GOMAXPROCS.
	Workers int `toml:"workers"`
}

// HTTPConfig controls the HTTP edge service.
type HTTPConfig struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// CacheConfig controls the HTTP result cache.
type CacheConfig struct {
	// RedisAddr enables the Redis cache when non-empty.
	RedisAddr string `toml:"redis_addr"`

	// Memory enables an in-process cache when RedisAddr is empty.
	Memory bool `toml:"memory"`

	TTL time.Duration `toml:"ttl"`
}

// EdgeConfig holds defaults for edge requests that do not specify them.
type EdgeConfig struct {
	Kernel    string  `toml:"kernel"`
	Palette   string  `toml:"palette"`
	Threshold uint8   `toml:"threshold"`
	Blur      float64 `toml:"blur"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:      LogConfig{Level: "info"},
		Scratch:  ScratchConfig{MaxBytes: 256 << 20},
		Gradient: GradientConfig{Workers: 1},
		HTTP: HTTPConfig{
			Addr:         ":8080",
			MaxBodyBytes: 32 << 20,
		},
		Cache: CacheConfig{TTL: 10 * time.Minute},
		Edge: EdgeConfig{
			Kernel:    "magnitude",
			Threshold: 64,
		},
	}
}

// Load returns the defaults overridden by the TOML file at path (if path is
// non-empty) and then by the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q: want debug, info, warn or error", c.Log.Level)
	}
	if c.Scratch.MaxBytes < 0 {
		return fmt.Errorf("invalid scratch.max_bytes %d: must be >= 0", c.Scratch.MaxBytes)
	}
	if c.Gradient.Workers < 0 {
		return fmt.Errorf("invalid gradient.workers %d: must be >= 0", c.Gradient.Workers)
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid http.max_body_bytes %d: must be > 0", c.HTTP.MaxBodyBytes)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("invalid cache.ttl %s: must be >= 0", c.Cache.TTL)
	}
	if c.Edge.Blur < 0 {
		return fmt.Errorf("invalid edge.blur %g: must be >= 0", c.Edge.Blur)
	}
	return nil
}

// applyEnv overrides fields from SOBEL_MCP_* variables found by lookup.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	num := func(name string, bits int, set func(int64)) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return nil
		}
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, bits)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, name, err)
		}
		set(n)
		return nil
	}

	str("LOG_LEVEL", &c.Log.Level)
	str("HTTP_ADDR", &c.HTTP.Addr)
	str("REDIS_ADDR", &c.Cache.RedisAddr)
	str("EDGE_KERNEL", &c.Edge.Kernel)
	str("EDGE_PALETTE", &c.Edge.Palette)

	if err := num("SCRATCH_MAX_BYTES", 64, func(n int64) { c.Scratch.MaxBytes = n }); err != nil {
		return err
	}
	if err := num("GRADIENT_WORKERS", 32, func(n int64) { c.Gradient.Workers = int(n) }); err != nil {
		return err
	}
	if err := num("HTTP_MAX_BODY_BYTES", 64, func(n int64) { c.HTTP.MaxBodyBytes = n }); err != nil {
		return err
	}

	if v, ok := lookup(EnvPrefix + "CACHE_TTL"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %sCACHE_TTL: %w", EnvPrefix, err)
		}
		c.Cache.TTL = d
	}
	if v, ok := lookup(EnvPrefix + "CACHE_MEMORY"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %sCACHE_MEMORY: %w", EnvPrefix, err)
		}
		c.Cache.Memory = b
	}
	return nil
}
