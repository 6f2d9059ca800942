package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadParsesFullConfig(t *testing.T) {
	path := writeConfig(t, `
port: 5555
save_path: 'default'
secret:
  - key: foo
    value: bar
message:
  - hello there
debug: 1
blacklists:
  - 142.132.198.26
whitelists:
  - 142.132.198.26
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 5555 {
		t.Fatalf("expected port 5555, got %d", cfg.Port)
	}
	if len(cfg.Secret) != 1 || cfg.Secret[0].Key != "foo" || cfg.Secret[0].Value != "bar" {
		t.Fatalf("unexpected secrets: %+v", cfg.Secret)
	}
	if cfg.SavePath == "default" || cfg.SavePath == "" {
		t.Fatalf("expected save_path to be resolved, got %q", cfg.SavePath)
	}
}

func TestLoadRejectsWorldReadable(t *testing.T) {
	path := writeConfig(t, "port: 5555\n")
	if err := os.Chmod(path, 0644); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected permission error")
	}
}

func TestValidateSendRequiresItems(t *testing.T) {
	cfg := &Config{Port: 1}
	if err := ValidateSend(cfg); err != ErrNoItemsToSend {
		t.Fatalf("expected ErrNoItemsToSend, got %v", err)
	}
	cfg.Message = []string{"hi"}
	if err := ValidateSend(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
