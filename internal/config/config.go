// Package config loads and validates the YAML configuration file that
// drives a send/receive/list run.
package config

import "errors"

// Secret is a single key/value pair supplied inline or over YAML.
type Secret struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// Config is the full set of user-facing settings, mirroring the historical
// secure-share CLI's flat configuration shape: a single YAML document (or
// an equivalent set of CLI flags) describing what to send, where to listen,
// and who to let through.
type Config struct {
	Port     int    `yaml:"port"`
	Debug    int    `yaml:"debug,omitempty"`
	Seed     string `yaml:"seed,omitempty"`
	SavePath string `yaml:"save_path,omitempty"`

	Secret  []Secret `yaml:"secret,omitempty"`
	Message []string `yaml:"message,omitempty"`
	File    []string `yaml:"file,omitempty"`

	Whitelists []string `yaml:"whitelists,omitempty"`
	Blacklists []string `yaml:"blacklists,omitempty"`
}

// ErrNoItemsToSend is returned when a send run is configured with no
// secrets, messages, or files at all.
var ErrNoItemsToSend = errors.New("no secret, message, or file configured to send")

// HasItems reports whether the config carries anything to send.
func (c *Config) HasItems() bool {
	return len(c.Secret) > 0 || len(c.Message) > 0 || len(c.File) > 0
}
