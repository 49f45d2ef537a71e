package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steelmc.toml")
	contents := "[server]\naddress = \"127.0.0.1:25566\"\nonline_mode = false\ncompression_threshold = -1\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:25566", cfg.Server.Address)
	require.False(t, cfg.Server.OnlineMode)
	require.Equal(t, -1, cfg.Server.CompressionThreshold)
	require.Equal(t, "flat", cfg.World.Generator)
}

func TestValidateRejectsBadViewDistance(t *testing.T) {
	cfg := Default()
	cfg.Server.ViewDistance = 1
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownGenerator(t *testing.T) {
	cfg := Default()
	cfg.World.Generator = "noise"
	require.Error(t, cfg.Validate())
}
