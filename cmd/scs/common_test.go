package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveConfigMergesFlagsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "port: 4000\nsecret:\n  - key: fromfile\n    value: v\nmessage:\n  - file message\n"
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := resolveConfig(sharedFlags{
		port:    5000,
		config:  path,
		secrets: stringList{"fromflag,v2"},
		message: stringList{"flag message"},
	})
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}

	if cfg.Port != 5000 {
		t.Fatalf("flag port should win, got %d", cfg.Port)
	}
	if len(cfg.Secret) != 2 || cfg.Secret[0].Key != "fromfile" || cfg.Secret[1].Key != "fromflag" {
		t.Fatalf("flag secrets should extend file secrets: %+v", cfg.Secret)
	}
	if len(cfg.Message) != 2 || cfg.Message[1] != "flag message" {
		t.Fatalf("flag messages should extend file messages: %+v", cfg.Message)
	}
	if cfg.SavePath == "" || cfg.SavePath == "default" {
		t.Fatalf("save path should be resolved, got %q", cfg.SavePath)
	}
}

func TestResolveConfigWithoutFile(t *testing.T) {
	cfg, err := resolveConfig(sharedFlags{message: stringList{"hi"}})
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if len(cfg.Message) != 1 {
		t.Fatalf("unexpected messages: %+v", cfg.Message)
	}
	if cfg.SavePath == "" || cfg.SavePath == "default" {
		t.Fatalf("save path should be resolved, got %q", cfg.SavePath)
	}
}

func TestResolveConfigRejectsBadSecret(t *testing.T) {
	if _, err := resolveConfig(sharedFlags{secrets: stringList{"nocomma"}}); err == nil {
		t.Fatalf("expected error for malformed secret flag")
	}
}
