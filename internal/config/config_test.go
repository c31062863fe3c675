package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 80, cfg.Node.Height)
	assert.Equal(t, 10.0, cfg.Link.PickTolerance)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "rectlink.toml", `
[canvas]
width = 1600

[node]
height = 60

[log]
level = "debug"
development = true

[metrics]
addr = "127.0.0.1:9464"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1600, cfg.Canvas.Width)
	assert.Equal(t, 800, cfg.Canvas.Height)
	assert.Equal(t, 60, cfg.Node.Height)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
	assert.Equal(t, "127.0.0.1:9464", cfg.Metrics.Addr)
	assert.Equal(t, 1, cfg.Drag.AdjacencyTolerance)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "rectlink.yml", `
link:
  pick_tolerance: 4.5
color:
  max_retries: 8
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4.5, cfg.Link.PickTolerance)
	assert.Equal(t, 8, cfg.Color.MaxRetries)
	assert.Equal(t, 80, cfg.Node.Height)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		invalid bool
	}{
		{"unknown extension", "rectlink.ini", "x=1", false},
		{"bad toml", "rectlink.toml", "[canvas\nwidth=", false},
		{"bad level", "rectlink.toml", "[log]\nlevel = \"loud\"", true},
		{"negative tolerance", "rectlink.yaml", "drag:\n  adjacency_tolerance: -1", true},
		{"zero pick tolerance", "rectlink.yaml", "link:\n  pick_tolerance: 0", true},
		{"bad metrics addr", "rectlink.yaml", "metrics:\n  addr: nope", true},
		{"node too large", "rectlink.toml", "[node]\nheight = 700", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalid)
			} else {
				assert.NotErrorIs(t, err, ErrInvalid)
			}
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
