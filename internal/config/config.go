// Package config loads the immutable daemon configuration.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"coverd/internal/domain"
)

const (
	defaultFilename = "current_cover.jpg"
	defaultWidth    = 800
	defaultHeight   = 480
)

// MPD holds the playback daemon connection parameters.
type MPD struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	// Socket, when set, selects a unix socket connection over TCP.
	Socket   string `toml:"socket"`
	Password string `toml:"password"`
}

// Output holds artifact paths and canvas dimensions.
type Output struct {
	Dir      string `toml:"dir"`
	Filename string `toml:"filename"`
	// FallbackImage is copied to the artifact path when a track has no art.
	FallbackImage string `toml:"fallback_image"`
	Width         int    `toml:"width"`
	Height        int    `toml:"height"`
}

// Display configures the external display invocation.
type Display struct {
	// Command overrides fbi autodetection; {path} is replaced with the
	// artifact path.
	Command string `toml:"command"`
}

// HTTP holds the control server bind parameters and shared secret.
type HTTP struct {
	Bind  string `toml:"bind"`
	Port  int    `toml:"port"`
	Token string `toml:"token"`
}

// Config is the full daemon configuration. It is loaded once at startup and
// never mutated afterwards.
type Config struct {
	MPD     MPD     `toml:"mpd"`
	Output  Output  `toml:"output"`
	Display Display `toml:"display"`
	HTTP    HTTP    `toml:"http"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cacheDir := "/tmp/coverd"
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".cache", "coverd")
	}
	return &Config{
		MPD: MPD{
			Host: "localhost",
			Port: 6600,
		},
		Output: Output{
			Dir:      cacheDir,
			Filename: defaultFilename,
			Width:    defaultWidth,
			Height:   defaultHeight,
		},
		HTTP: HTTP{
			Bind: "127.0.0.1",
			Port: 8080,
		},
	}
}

// DefaultPath is the config file location used when none is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "coverd", "config.toml")
}

// Load reads the TOML file at path, applying its values over the defaults.
// A missing file yields the defaults unchanged. An empty path falls back to
// DefaultPath.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Defaults apply.
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.Output.Dir = expandHome(cfg.Output.Dir)
	cfg.Output.FallbackImage = expandHome(cfg.Output.FallbackImage)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants the rest of the daemon relies on.
func (c *Config) Validate() error {
	if c.Output.Dir == "" {
		return errors.New("output.dir must be set")
	}
	if c.Output.Filename == "" {
		return errors.New("output.filename must be set")
	}
	if c.Output.Width <= 0 || c.Output.Height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", c.Output.Width, c.Output.Height)
	}
	if c.MPD.Socket == "" && (c.MPD.Port <= 0 || c.MPD.Port > 65535) {
		return fmt.Errorf("invalid mpd.port %d", c.MPD.Port)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http.port %d", c.HTTP.Port)
	}
	return nil
}

// Network returns the dial network for the daemon connection.
func (m MPD) Network() string {
	if m.Socket != "" {
		return "unix"
	}
	return "tcp"
}

// Addr returns the dial address for the daemon connection.
func (m MPD) Addr() string {
	if m.Socket != "" {
		return m.Socket
	}
	return net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
}

// Addr returns the control server bind address.
func (h HTTP) Addr() string {
	return net.JoinHostPort(h.Bind, strconv.Itoa(h.Port))
}

// ArtifactPath is the fixed location of the single output image.
func (c *Config) ArtifactPath() string {
	return filepath.Join(c.Output.Dir, c.Output.Filename)
}

// Canvas returns the configured output dimensions.
func (c *Config) Canvas() domain.CanvasSize {
	return domain.CanvasSize{Width: c.Output.Width, Height: c.Output.Height}
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
