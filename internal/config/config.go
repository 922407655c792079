// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

// Package config loads and saves the lian configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/janderssonse/lian/internal/domain"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

// Defaults.
const (
	DefaultModel       = "deepseek-reasoner"
	DefaultTemperature = 0.8
	DefaultAPIURL      = "https://api.deepseek.com/chat/completions"
	DefaultReportDir   = "~/.lian/pacman"
	DefaultLockPath    = "/var/lib/pacman/db.lck"
	DefaultLockTool    = "pacman"

	MinTemperature = 0.0
	MaxTemperature = 2.0

	// APIKeyEnv overrides api_key from the file.
	APIKeyEnv = "LIAN_AI_KEY"
)

// ErrInvalidTemperature is returned for temperatures that are not a number
// in [MinTemperature, MaxTemperature].
var ErrInvalidTemperature = errors.New("temperature must be a number between 0 and 2")

// AIToggles enables analysis per operation.
type AIToggles struct {
	Update  bool `toml:"update"`
	Install bool `toml:"install"`
	Remove  bool `toml:"remove"`
}

// Enabled reports whether analysis runs after op.
func (a AIToggles) Enabled(op domain.Operation) bool {
	switch op {
	case domain.OpUpdate:
		return a.Update
	case domain.OpInstall:
		return a.Install
	case domain.OpRemove:
		return a.Remove
	default:
		return false
	}
}

// LockConfig names the package database lock and the tool owning it.
type LockConfig struct {
	Path string `toml:"path"`
	Tool string `toml:"tool"`
}

// Config is the on-disk configuration.
type Config struct {
	Model       string     `toml:"model"`
	Temperature float64    `toml:"temperature"`
	APIURL      string     `toml:"api_url"`
	APIKey      string     `toml:"api_key"`
	Proxy       string     `toml:"proxy"`
	ReportDir   string     `toml:"report_dir"`
	AI          AIToggles  `toml:"ai"`
	Lock        LockConfig `toml:"lock"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		APIURL:      DefaultAPIURL,
		ReportDir:   DefaultReportDir,
		AI:          AIToggles{Update: true},
		Lock:        LockConfig{Path: DefaultLockPath, Tool: DefaultLockTool},
	}
}

// HasAPIKey reports whether analysis can be requested at all.
func (c Config) HasAPIKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// ReportRoot returns ReportDir with ~ expanded.
func (c Config) ReportRoot() string {
	return ExpandPath(c.ReportDir)
}

// Normalize fills empty fields with defaults and clamps the temperature.
func (c *Config) Normalize() {
	def := Default()

	if strings.TrimSpace(c.Model) == "" {
		c.Model = def.Model
	}

	if strings.TrimSpace(c.APIURL) == "" {
		c.APIURL = def.APIURL
	}

	if strings.TrimSpace(c.ReportDir) == "" {
		c.ReportDir = def.ReportDir
	}

	if c.Lock.Path == "" {
		c.Lock.Path = def.Lock.Path
	}

	if c.Lock.Tool == "" {
		c.Lock.Tool = def.Lock.Tool
	}

	c.Temperature = ClampTemperature(c.Temperature)
}

// ApplyEnv lets the environment override secrets from the file.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if key, ok := lookup(APIKeyEnv); ok && key != "" {
		c.APIKey = key
	}
}

// ClampTemperature bounds t to [MinTemperature, MaxTemperature].
func ClampTemperature(t float64) float64 {
	return min(max(t, MinTemperature), MaxTemperature)
}

// ParseTemperature parses user input for the temperature setting.
func ParseTemperature(s string) (float64, error) {
	t, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || t < MinTemperature || t > MaxTemperature {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTemperature, s)
	}

	return t, nil
}

// Load reads the config file at path. A missing file yields defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) // #nosec G304 - path is the user's config file
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg.ApplyEnv(os.LookupEnv)

			return cfg, nil
		}

		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.Normalize()
	cfg.ApplyEnv(os.LookupEnv)

	return cfg, nil
}

// Save writes cfg to path atomically.
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}

	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("failed to write config: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace config %s: %w", path, err)
	}

	return nil
}

// Store persists settings edited in the UI.
type Store struct {
	Path   string
	Logger *zap.Logger
}

// NewStore creates a store for path.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{Path: path, Logger: logger}
}

// Save normalizes and writes cfg, returning what was written.
func (s *Store) Save(cfg Config) (Config, error) {
	cfg.Normalize()

	if err := Save(s.Path, cfg); err != nil {
		s.Logger.Warn("config save failed", zap.String("path", s.Path), zap.Error(err))

		return cfg, err
	}

	s.Logger.Info("config saved", zap.String("path", s.Path))

	return cfg, nil
}
