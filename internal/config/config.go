package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Tools names the external commands termview invokes. Multi-word values are
// allowed for tools addressed through a dispatcher binary ("kitten icat").
type Tools struct {
	FFmpeg    string `toml:"ffmpeg"`
	Img2Sixel string `toml:"img2sixel"`
	Kitten    string `toml:"kitten"`
	JP2A      string `toml:"jp2a"`
	Img2Txt   string `toml:"img2txt"`
	MPV       string `toml:"mpv"`
}

// Logging contains log output configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the merged termview configuration.
type Config struct {
	Tools       Tools   `toml:"tools"`
	Logging     Logging `toml:"logging"`
	ProfilePath string  `toml:"profile_path"`
}

// DefaultConfigPath returns the well-known configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/termview/config.toml")
}

// DefaultProfilePath returns the well-known profile override location.
func DefaultProfilePath() (string, error) {
	return ExpandPath("~/.config/termview/profiles.toml")
}

// Load reads the configuration at path, or the default location when path is
// empty. A missing file yields the defaults. The returned profile path is
// expanded and ready to open.
func Load(path string) (*Config, error) {
	cfg := Default()

	resolved := strings.TrimSpace(path)
	if resolved == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		resolved = defaultPath
	} else {
		expanded, err := ExpandPath(resolved)
		if err != nil {
			return nil, err
		}
		resolved = expanded
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return finalize(&cfg)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", resolved, err)
	}

	return finalize(&cfg)
}

func finalize(cfg *Config) (*Config, error) {
	applyDefaults(cfg)
	if cfg.ProfilePath == "" {
		profilePath, err := DefaultProfilePath()
		if err != nil {
			return nil, err
		}
		cfg.ProfilePath = profilePath
	} else {
		expanded, err := ExpandPath(cfg.ProfilePath)
		if err != nil {
			return nil, err
		}
		cfg.ProfilePath = expanded
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	for _, tool := range []struct {
		key   string
		value string
	}{
		{"tools.ffmpeg", c.Tools.FFmpeg},
		{"tools.img2sixel", c.Tools.Img2Sixel},
		{"tools.kitten", c.Tools.Kitten},
		{"tools.jp2a", c.Tools.JP2A},
		{"tools.img2txt", c.Tools.Img2Txt},
		{"tools.mpv", c.Tools.MPV},
	} {
		if strings.TrimSpace(tool.value) == "" {
			return fmt.Errorf("%s must not be empty", tool.key)
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// ExpandPath resolves a leading ~ against the current user's home directory.
func ExpandPath(pathValue string) (string, error) {
	trimmed := strings.TrimSpace(pathValue)
	if trimmed == "" {
		return "", errors.New("path must not be empty")
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Clean(trimmed), nil
}
