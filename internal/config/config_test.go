package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWritesDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "superboard")
	conf, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), conf)

	_, err = os.Stat(filepath.Join(dir, configFile))
	require.NoError(t, err)

	again, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, conf, again)
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	dir := t.TempDir()
	data := "eraser = \"large\"\n\n[pen]\ntype = \"chalk\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFile), []byte(data), 0o644))

	conf, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "large", conf.Eraser)
	assert.Equal(t, "chalk", conf.Pen.Type)
	assert.Equal(t, "#ffffff", conf.Pen.Color)
	assert.Equal(t, 1920, conf.Canvas.Width)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	conf := Default()
	conf.Palette = []string{"#123456"}
	conf.Bridge = Bridge{Enabled: true, Port: 9000}
	require.NoError(t, Save(dir, conf))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, conf, got)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	data := "log_level = \"loud\"\n\n[pen]\nsize = 90.0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFile), []byte(data), 0o644))

	_, err := Load(dir)
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "pen size 90")
	assert.Contains(t, err.Error(), `log level "loud"`)

	require.NoError(t, os.WriteFile(filepath.Join(dir, configFile), []byte("[canvas\n"), 0o644))
	_, err = Load(dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"size", func(c *Config) { c.Canvas.Width = 0 }},
		{"background", func(c *Config) { c.Canvas.Background = "green" }},
		{"history", func(c *Config) { c.History.Max = 0 }},
		{"pen type", func(c *Config) { c.Pen.Type = "crayon" }},
		{"pen color", func(c *Config) { c.Pen.Color = "#12" }},
		{"eraser", func(c *Config) { c.Eraser = "huge" }},
		{"palette", func(c *Config) { c.Palette = []string{"nope"} }},
		{"port", func(c *Config) { c.Bridge.Port = 70000 }},
	}
	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}

func TestLevel(t *testing.T) {
	c := Default()
	c.LogLevel = "debug"
	l, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)

	c.LogLevel = ""
	l, err = c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, l)
}

func TestDirUsesXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	assert.Equal(t, filepath.Join(xdg, "superboard"), Dir())

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(xdg, "missing"))
	t.Setenv("HOME", "/home/board")
	assert.Equal(t, "/home/board/.config/superboard", Dir())
}
