package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultAPIBaseURL points at a local TherapEase backend.
const DefaultAPIBaseURL = "http://localhost:8000"

type Config struct {
	APIBaseURL  string
	SessionsDir string // where analysis results and reports are written
	StateDir    string // where the token file and recording state live
	Email       string // default login email, optional
}

type fileConfig struct {
	APIBaseURL  string `toml:"api_base_url"`
	SessionsDir string `toml:"sessions_dir"`
	Email       string `toml:"email"`
}

func Load() (*Config, error) {
	cfg := &Config{
		APIBaseURL:  DefaultAPIBaseURL,
		SessionsDir: defaultSessionsDir(),
		StateDir:    defaultStateDir(),
	}

	if configPath := configFilePath(); configPath != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(configPath, &fc); err == nil {
			if fc.APIBaseURL != "" {
				cfg.APIBaseURL = strings.TrimRight(fc.APIBaseURL, "/")
			}
			if fc.SessionsDir != "" {
				cfg.SessionsDir = expandTilde(fc.SessionsDir)
			}
			cfg.Email = fc.Email
		}
	}

	applyEnvOverrides(cfg)

	// Ensure directories exist
	for _, dir := range []string{cfg.SessionsDir, cfg.StateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("THERAPEASE_API_URL"); v != "" {
		cfg.APIBaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("THERAPEASE_SESSIONS_DIR"); v != "" {
		cfg.SessionsDir = expandTilde(v)
	}
	if v := os.Getenv("THERAPEASE_STATE_DIR"); v != "" {
		cfg.StateDir = expandTilde(v)
	}
	if v := os.Getenv("THERAPEASE_EMAIL"); v != "" {
		cfg.Email = v
	}
}

func configFilePath() string {
	var configDir string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		configDir = filepath.Join(xdg, "therapease")
	} else if home, err := os.UserHomeDir(); err == nil {
		configDir = filepath.Join(home, ".config", "therapease")
	} else {
		return ""
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

func defaultSessionsDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "therapease-sessions")
	}
	return filepath.Join(".", "therapease-sessions")
}

func defaultStateDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".therapease")
	}
	return filepath.Join(".", ".therapease")
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
