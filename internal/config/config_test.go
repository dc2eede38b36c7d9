package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MPD.Host != "localhost" || cfg.MPD.Port != 6600 {
		t.Errorf("unexpected MPD defaults: %+v", cfg.MPD)
	}
	if cfg.Output.Width != 800 || cfg.Output.Height != 480 {
		t.Errorf("unexpected canvas defaults: %+v", cfg.Output)
	}
	if cfg.Output.Filename != "current_cover.jpg" {
		t.Errorf("unexpected filename default: %q", cfg.Output.Filename)
	}
	if cfg.HTTP.Addr() != "127.0.0.1:8080" {
		t.Errorf("unexpected HTTP addr: %q", cfg.HTTP.Addr())
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	content := `
[mpd]
socket = "/run/mpd/socket"
password = "secret"

[output]
dir = "/var/lib/coverd"
width = 1024
height = 600

[http]
bind = "0.0.0.0"
port = 9090
token = "tok123"
`
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MPD.Network() != "unix" || cfg.MPD.Addr() != "/run/mpd/socket" {
		t.Errorf("socket config not applied: %s %s", cfg.MPD.Network(), cfg.MPD.Addr())
	}
	if cfg.MPD.Password != "secret" {
		t.Errorf("password not applied: %q", cfg.MPD.Password)
	}
	if cfg.ArtifactPath() != "/var/lib/coverd/current_cover.jpg" {
		t.Errorf("artifact path: %q", cfg.ArtifactPath())
	}
	if size := cfg.Canvas(); size.Width != 1024 || size.Height != 600 {
		t.Errorf("canvas: %+v", size)
	}
	if cfg.HTTP.Token != "tok123" || cfg.HTTP.Addr() != "0.0.0.0:9090" {
		t.Errorf("http config: %+v", cfg.HTTP)
	}
	// Unset sections keep their defaults.
	if cfg.Output.Filename != "current_cover.jpg" {
		t.Errorf("filename default lost: %q", cfg.Output.Filename)
	}
}

func TestLoad_InvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not = [valid"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"Valid Defaults", func(c *Config) {}, ""},
		{"Zero Canvas", func(c *Config) { c.Output.Width = 0 }, "invalid canvas size"},
		{"Empty Filename", func(c *Config) { c.Output.Filename = "" }, "output.filename"},
		{"Bad MPD Port", func(c *Config) { c.MPD.Port = -1 }, "invalid mpd.port"},
		{"Socket Ignores Port", func(c *Config) { c.MPD.Port = 0; c.MPD.Socket = "/run/mpd/socket" }, ""},
		{"Bad HTTP Port", func(c *Config) { c.HTTP.Port = 70000 }, "invalid http.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir in test environment")
	}
	if got := expandHome("~/pics/fallback.jpg"); got != filepath.Join(home, "pics", "fallback.jpg") {
		t.Errorf("expandHome: got %q", got)
	}
	if got := expandHome("/absolute/path"); got != "/absolute/path" {
		t.Errorf("absolute path mangled: %q", got)
	}
}
