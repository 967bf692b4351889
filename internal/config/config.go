// Package config reads and writes the board's config.toml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"SuperBoard/internal/tools"

	"github.com/BurntSushi/toml"
)

const configFile = "config.toml"

var ErrInvalid = errors.New("config: invalid")

type Canvas struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Background string `toml:"background"`
}

type History struct {
	Max   int `toml:"max"`
	Cache int `toml:"cache"`
}

type Pen struct {
	Type  string  `toml:"type"`
	Color string  `toml:"color"`
	Size  float64 `toml:"size"`
}

type Bridge struct {
	Enabled bool `toml:"enabled"`
	Port    int  `toml:"port"`
	MDNS    bool `toml:"mdns"`
}

type Config struct {
	Canvas  Canvas  `toml:"canvas"`
	History History `toml:"history"`
	Pen     Pen     `toml:"pen"`
	Eraser  string  `toml:"eraser"`
	// Palette holds the user's custom colours.
	Palette  []string `toml:"palette,omitempty"`
	Bridge   Bridge   `toml:"bridge"`
	PagesDir string   `toml:"pages_dir"`
	LogLevel string   `toml:"log_level"`
}

func Default() Config {
	return Config{
		Canvas:   Canvas{Width: 1920, Height: 1080, Background: "#0d2b20"},
		History:  History{Max: 50, Cache: 8},
		Pen:      Pen{Type: string(tools.Pencil), Color: "#ffffff", Size: 2},
		Eraser:   string(tools.EraserMedium),
		Bridge:   Bridge{Enabled: false, Port: 8080, MDNS: true},
		LogLevel: "info",
	}
}

// Dir is the directory holding config.toml.
func Dir() string {
	return filepath.Join(xdgOrFallback("XDG_CONFIG_HOME", filepath.Join(os.Getenv("HOME"), ".config")), "superboard")
}

// Load reads config.toml from dir, writing the defaults first when the file
// does not exist. Keys missing from the file keep their default values.
func Load(dir string) (Config, error) {
	conf := Default()
	path := filepath.Join(dir, configFile)
	ok, err := exists(path)
	if err != nil {
		return conf, fmt.Errorf("config: stat %s: %w", path, err)
	}
	if !ok {
		log.Println("Initializing config")
		return conf, Save(dir, conf)
	}
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return conf, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := conf.Validate(); err != nil {
		return conf, err
	}
	return conf, nil
}

// Save writes conf to dir/config.toml, creating dir if needed.
func Save(dir string, conf Config) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("config: create %s: %w", dir, err)
	}
	var buffer bytes.Buffer
	if err := toml.NewEncoder(&buffer).Encode(conf); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFile), buffer.Bytes(), 0o644); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size %dx%d", c.Canvas.Width, c.Canvas.Height))
	}
	if _, err := tools.ParseHexColor(c.Canvas.Background); err != nil {
		errs = append(errs, fmt.Errorf("canvas background: %w", err))
	}
	if c.History.Max < 1 {
		errs = append(errs, fmt.Errorf("history max %d", c.History.Max))
	}
	if _, ok := tools.PenType(c.Pen.Type).Spec(); !ok {
		errs = append(errs, fmt.Errorf("pen type %q", c.Pen.Type))
	}
	if _, err := tools.ParseHexColor(c.Pen.Color); err != nil {
		errs = append(errs, fmt.Errorf("pen color: %w", err))
	}
	if c.Pen.Size < tools.MinPenSize || c.Pen.Size > tools.MaxPenSize {
		errs = append(errs, fmt.Errorf("pen size %g", c.Pen.Size))
	}
	if _, ok := tools.EraserSize(c.Eraser).Radius(); !ok {
		errs = append(errs, fmt.Errorf("eraser size %q", c.Eraser))
	}
	for _, hex := range c.Palette {
		if _, err := tools.ParseHexColor(hex); err != nil {
			errs = append(errs, fmt.Errorf("palette: %w", err))
		}
	}
	if c.Bridge.Port < 0 || c.Bridge.Port > 65535 {
		errs = append(errs, fmt.Errorf("bridge port %d", c.Bridge.Port))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Level parses LogLevel. An empty level is info.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q", c.LogLevel)
	}
	return l, nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func xdgOrFallback(xdg string, fallback string) string {
	dir := os.Getenv(xdg)
	if dir != "" {
		if ok, err := exists(dir); ok && err == nil {
			return dir
		}
	}
	return fallback
}
