// pkg/core/config.go
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds portix configuration
type Config struct {
	// Root is prepended to every system path (/etc, /var).
	Root string `yaml:"root"`
	// Portdir is the main repository; it becomes overlay 0.
	Portdir string `yaml:"portdir"`
	// Profile overrides the profile directory when set.
	Profile string `yaml:"profile"`
	// PortageProfile is taken relative to Root, like PORTAGE_PROFILE.
	PortageProfile string `yaml:"portage_profile"`
	// MakeConf is read for ACCEPT_KEYWORDS and PORTAGE_PROFILE.
	MakeConf string `yaml:"make_conf"`
	// VarDB is the installed package database below Root.
	VarDB string `yaml:"vardb"`
	// ReposDir holds one TOML descriptor per overlay.
	ReposDir       string   `yaml:"repos_dir"`
	CacheMethod    string   `yaml:"cache_method"`
	AcceptKeywords []string `yaml:"accept_keywords"`
	UpgradeToBest  bool     `yaml:"upgrade_to_best"`
	Debug          bool     `yaml:"debug"`
	LogLevel       string   `yaml:"log_level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	cfg := &Config{
		Root:          "/",
		Portdir:       "/var/db/repos/gentoo",
		MakeConf:      "/etc/portage/make.conf",
		VarDB:         "/var/db/pkg",
		ReposDir:      filepath.Join(configDir(), "repos.d"),
		CacheMethod:   "metadata-md5",
		UpgradeToBest: true,
		LogLevel:      "info",
	}
	cfg.applyEnv()
	return cfg
}

// DefaultPath returns $HOME/.config/portix/config.yaml
func DefaultPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// LoadConfig loads configuration from file. Keys missing from the file
// keep their defaults; a missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyEnv()

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// RootPath joins p below Root.
func (c *Config) RootPath(p string) string {
	if p == "" {
		return ""
	}
	return filepath.Join(c.Root, p)
}

// applyEnv lets PORTIX_ROOT and PORTIX_LOG_LEVEL override the file.
func (c *Config) applyEnv() {
	if root := os.Getenv("PORTIX_ROOT"); root != "" {
		c.Root = root
	}
	if level := os.Getenv("PORTIX_LOG_LEVEL"); level != "" {
		c.LogLevel = strings.ToLower(level)
	}
	if c.Root == "" {
		c.Root = "/"
	}
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "portix")
	}
	return filepath.Join(home, ".config", "portix")
}
