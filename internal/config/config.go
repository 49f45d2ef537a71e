// Package config loads SteelMC's startup configuration through viper, the
// same config library the teacher's dependency set (and go.minekube.com/gate,
// which this corpus also carries) uses for its proxy config. Recognized
// keys mirror spec §6 exactly; everything else is a SteelMC-specific
// extension (chat grace windows, keep-alive interval) called out as
// config-overridable by the Open Question resolutions in SPEC_FULL.md.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
)

// Config is the fully-resolved startup configuration for one server
// process.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	World  WorldConfig  `mapstructure:"world"`
	Chat   ChatConfig   `mapstructure:"chat"`
}

// ServerConfig holds the options named in spec §6 under "server.*".
type ServerConfig struct {
	Address               string `mapstructure:"address"`
	OnlineMode             bool   `mapstructure:"online_mode"`
	CompressionThreshold   int    `mapstructure:"compression_threshold"`
	MaxPlayers             int    `mapstructure:"max_players"`
	ViewDistance           int    `mapstructure:"view_distance"`
	MOTD                   string `mapstructure:"motd"`
	MetricsAddress         string `mapstructure:"metrics_address"`
	KeepAliveIntervalMS    int    `mapstructure:"keepalive_interval_ms"`
	KeepAliveTimeoutMS     int    `mapstructure:"keepalive_timeout_ms"`
	StateTimeoutMS         int    `mapstructure:"state_timeout_ms"`
}

// WorldConfig holds "world.*".
type WorldConfig struct {
	Seed      int64  `mapstructure:"seed"`
	Generator string `mapstructure:"generator"`
}

// ChatConfig holds the chat signature policy, config-overridable per
// SPEC_FULL.md's Open Question resolution.
type ChatConfig struct {
	GracePastMS   int64  `mapstructure:"grace_past_ms"`
	GraceFutureMS int64  `mapstructure:"grace_future_ms"`
	Policy        string `mapstructure:"policy"` // "strict" or "downgrade"
}

// Default returns the spec §6 defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:              "0.0.0.0:25565",
			OnlineMode:           true,
			CompressionThreshold: 256,
			MaxPlayers:           20,
			ViewDistance:         10,
			MOTD:                 "A SteelMC Server",
			MetricsAddress:       "0.0.0.0:9090",
			KeepAliveIntervalMS:  15000,
			KeepAliveTimeoutMS:   30000,
			StateTimeoutMS:       30000,
		},
		World: WorldConfig{
			Seed:      0,
			Generator: "flat",
		},
		Chat: ChatConfig{
			GracePastMS:   2 * 60 * 1000,
			GraceFutureMS: 60 * 1000,
			Policy:        "downgrade",
		},
	}
}

// Load reads path (a TOML file per spec §6) into a Config seeded with
// Default's values, so an absent or partial file still yields a usable
// configuration.
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.address", cfg.Server.Address)
	v.SetDefault("server.online_mode", cfg.Server.OnlineMode)
	v.SetDefault("server.compression_threshold", cfg.Server.CompressionThreshold)
	v.SetDefault("server.max_players", cfg.Server.MaxPlayers)
	v.SetDefault("server.view_distance", cfg.Server.ViewDistance)
	v.SetDefault("server.motd", cfg.Server.MOTD)
	v.SetDefault("server.metrics_address", cfg.Server.MetricsAddress)
	v.SetDefault("server.keepalive_interval_ms", cfg.Server.KeepAliveIntervalMS)
	v.SetDefault("server.keepalive_timeout_ms", cfg.Server.KeepAliveTimeoutMS)
	v.SetDefault("server.state_timeout_ms", cfg.Server.StateTimeoutMS)
	v.SetDefault("world.seed", cfg.World.Seed)
	v.SetDefault("world.generator", cfg.World.Generator)
	v.SetDefault("chat.grace_past_ms", cfg.Chat.GracePastMS)
	v.SetDefault("chat.grace_future_ms", cfg.Chat.GraceFutureMS)
	v.SetDefault("chat.policy", cfg.Chat.Policy)
}

// Validate rejects configurations spec §6 forbids outright (exit code 1).
func (c *Config) Validate() error {
	if c.Server.ViewDistance < 2 || c.Server.ViewDistance > 32 {
		return fmt.Errorf("server.view_distance must be in 2..=32, got %d", c.Server.ViewDistance)
	}
	if c.Server.CompressionThreshold < -1 {
		return fmt.Errorf("server.compression_threshold must be >= -1, got %d", c.Server.CompressionThreshold)
	}
	if c.World.Generator != "flat" {
		return fmt.Errorf("world.generator: only %q is supported, got %q", "flat", c.World.Generator)
	}
	if c.Chat.Policy != "strict" && c.Chat.Policy != "downgrade" {
		return fmt.Errorf("chat.policy must be %q or %q, got %q", "strict", "downgrade", c.Chat.Policy)
	}
	return nil
}
