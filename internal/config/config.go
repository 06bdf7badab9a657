// Package config loads damasim scenario configuration using koanf/v2.
//
// Supports YAML files and environment variable overrides, in the same
// layering gobfd's daemon config uses: defaults, then file, then
// environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds a complete damasim scenario.
type Config struct {
	Log       LogConfig       `koanf:"log"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Channel   ChannelConfig   `koanf:"channel"`
	Mac       MacConfig       `koanf:"mac"`
	RAloha    RAlohaConfig    `koanf:"raloha"`
	Noordwijk NoordwijkConfig `koanf:"noordwijk"`
	Nodes     int             `koanf:"nodes"`
	SeedRNG   uint64          `koanf:"seed"`
}

// LogConfig controls the driver's logger.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `koanf:"level"`
}

// MetricsConfig controls the optional Prometheus HTTP endpoint.
type MetricsConfig struct {
	// Addr is the HTTP listen address; empty disables the endpoint.
	Addr string `koanf:"addr"`
	// Path is the URL path serving collected metrics.
	Path string `koanf:"path"`
}

// ChannelConfig configures the shared broadcast channel (spec.md §6,
// "DAMA: channel propagation time").
type ChannelConfig struct {
	PropagationMS int64 `koanf:"propagation_ms"`
}

// MacConfig configures every node's Mac (spec.md §6, "Mac MaxPacketNumber").
type MacConfig struct {
	MaxPacketNumber int `koanf:"max_packet_number"`
}

// RAlohaConfig configures the TDMA/R-ALOHA controller (spec.md §6,
// "R-ALOHA slot-count N, SlotTime, GuardTime, InterFrameTime, DataRate").
type RAlohaConfig struct {
	NumSlots       int   `koanf:"num_slots"`
	SlotTimeMS     int64 `koanf:"slot_time_ms"`
	GuardTimeMS    int64 `koanf:"guard_time_ms"`
	InterFrameMS   int64 `koanf:"inter_frame_ms"`
	DataRateBps    int64 `koanf:"data_rate_bps"`
}

// NoordwijkConfig configures the congestion control tunables (spec.md §6,
// "Noordwijk: BurstSize (B0), TxTimer, B, S").
type NoordwijkConfig struct {
	DefaultBurstSize int   `koanf:"default_burst_size"`
	DefaultTxTimerMS int64 `koanf:"default_tx_timer_ms"`
	BMS              int64 `koanf:"b_ms"`
	S                int   `koanf:"s"`
	MaxTxTimerMS     int64 `koanf:"max_tx_timer_ms"`
}

// DefaultConfig returns a Config populated with THE CORE's reference
// defaults (spec.md §3, §4.1, §4.4).
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Metrics: MetricsConfig{
			Addr: "",
			Path: "/metrics",
		},
		Channel: ChannelConfig{PropagationMS: 200},
		Mac:     MacConfig{MaxPacketNumber: 400},
		RAloha: RAlohaConfig{
			NumSlots:     4,
			SlotTimeMS:   100,
			GuardTimeMS:  10,
			InterFrameMS: 0,
			DataRateBps:  1_000_000,
		},
		Noordwijk: NoordwijkConfig{
			DefaultBurstSize: 20,
			DefaultTxTimerMS: 500,
			BMS:              200,
			S:                2,
			MaxTxTimerMS:     60_000,
		},
		Nodes:   2,
		SeedRNG: 1,
	}
}

const envPrefix = "DAMASIM_"

// Load reads configuration from the YAML file at path (if non-empty),
// overlays environment variable overrides (DAMASIM_ prefix), and merges on
// top of DefaultConfig(). Missing fields inherit defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := loadDefaults(k, DefaultConfig()); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config from %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// envKeyMapper transforms DAMASIM_RALOHA_NUM_SLOTS -> raloha.num_slots.
func envKeyMapper(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.Replace(s, "_", ".", 1)
}

// loadDefaults sets every Config field into k as the base layer, the same
// way gobfd's internal/config seeds koanf from DefaultConfig before
// layering file and environment sources on top.
func loadDefaults(k *koanf.Koanf, d *Config) error {
	defaults := map[string]interface{}{
		"log.level":                     d.Log.Level,
		"metrics.addr":                  d.Metrics.Addr,
		"metrics.path":                  d.Metrics.Path,
		"channel.propagation_ms":        d.Channel.PropagationMS,
		"mac.max_packet_number":         d.Mac.MaxPacketNumber,
		"raloha.num_slots":              d.RAloha.NumSlots,
		"raloha.slot_time_ms":           d.RAloha.SlotTimeMS,
		"raloha.guard_time_ms":          d.RAloha.GuardTimeMS,
		"raloha.inter_frame_ms":         d.RAloha.InterFrameMS,
		"raloha.data_rate_bps":          d.RAloha.DataRateBps,
		"noordwijk.default_burst_size":  d.Noordwijk.DefaultBurstSize,
		"noordwijk.default_tx_timer_ms": d.Noordwijk.DefaultTxTimerMS,
		"noordwijk.b_ms":                d.Noordwijk.BMS,
		"noordwijk.s":                   d.Noordwijk.S,
		"noordwijk.max_tx_timer_ms":     d.Noordwijk.MaxTxTimerMS,
		"nodes":                         d.Nodes,
		"seed":                          d.SeedRNG,
	}
	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}
	return nil
}

// Validation errors.
var (
	ErrNoNodes        = errors.New("nodes must be >= 1")
	ErrInvalidSlots   = errors.New("raloha.num_slots must be >= 1")
	ErrInvalidBurst   = errors.New("noordwijk.default_burst_size must be >= 1")
	ErrInvalidS       = errors.New("noordwijk.s must be >= 1")
)

// Validate checks the configuration for logical errors.
func Validate(cfg *Config) error {
	if cfg.Nodes < 1 {
		return ErrNoNodes
	}
	if cfg.RAloha.NumSlots < 1 {
		return ErrInvalidSlots
	}
	if cfg.Noordwijk.DefaultBurstSize < 1 {
		return ErrInvalidBurst
	}
	if cfg.Noordwijk.S < 1 {
		return ErrInvalidS
	}
	return nil
}

// SlotTime returns the configured slot time as a time.Duration, for
// callers outside the simclock package's unit system.
func (c RAlohaConfig) SlotTime() time.Duration {
	return time.Duration(c.SlotTimeMS) * time.Millisecond
}
