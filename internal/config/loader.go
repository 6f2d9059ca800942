package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// checkConfigFilePermissions rejects group/world-readable config files
// with an error. A config file can carry a seed, file paths and access
// lists, so we hold it to the same bar as a private key file.
func checkConfigFilePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return nil // file access errors are handled by the caller
	}
	mode := info.Mode().Perm()
	if mode&0077 != 0 {
		return fmt.Errorf("config file %s has overly permissive mode %04o; expected 0600 — fix with: chmod 600 %s", path, mode, path)
	}
	return nil
}

// Load reads and validates a YAML config file at path.
func Load(path string) (*Config, error) {
	if err := checkConfigFilePermissions(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ResolveSavePath(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolveSavePath turns the "default" sentinel (or an empty value) into a
// concrete per-user cache directory, the Go-native equivalent of the
// original CLI's directories_next::ProjectDirs resolution. Exported so
// the CLI layer can apply the same resolution to a config assembled from
// flags alone, with no YAML file on disk.
func ResolveSavePath(cfg *Config) error {
	if cfg.SavePath != "" && cfg.SavePath != "default" {
		return nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return fmt.Errorf("resolve default save path: %w", err)
	}
	cfg.SavePath = filepath.Join(dir, "onboardbase", "secure-share")
	return nil
}

// ValidateSend checks a config loaded for a send run: it must name at
// least one secret, message, or file.
func ValidateSend(cfg *Config) error {
	if !cfg.HasItems() {
		return ErrNoItemsToSend
	}
	return nil
}
