package item

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/Onboardbase/secure-share/internal/config"
)

func TestBuildOrdersSecretsMessagesFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := &config.Config{
		Secret:  []config.Secret{{Key: "u", Value: "p"}},
		Message: []string{"hi"},
		File:    []string{path},
	}
	items, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if _, ok := items[0].(Secret); !ok {
		t.Fatalf("expected secret first, got %T", items[0])
	}
	if _, ok := items[1].(Message); !ok {
		t.Fatalf("expected message second, got %T", items[1])
	}
	if _, ok := items[2].(File); !ok {
		t.Fatalf("expected file last, got %T", items[2])
	}
}

func TestBuildFailsOnUnreadableFile(t *testing.T) {
	cfg := &config.Config{File: []string{filepath.Join(t.TempDir(), "missing")}}
	if _, err := Build(cfg); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSaveAllCountsSuccesses(t *testing.T) {
	dir := t.TempDir()
	items := []Item{
		Secret{Key: "u", Value: "p"},
		Message{Text: "hi"},
		File{Name: "f.bin", Data: []byte{1, 2, 3}},
	}
	resp := SaveAll(items, dir)
	if resp.Status != StatusSuccess {
		t.Fatalf("expected status %q, got %q", StatusSuccess, resp.Status)
	}
	if resp.NoOfSuccess != 3 || resp.NoOfFails != 0 {
		t.Fatalf("unexpected counts: %+v", resp)
	}
}

func TestSaveAllCountsFailuresWithoutAborting(t *testing.T) {
	// A regular file in place of the save directory makes every Save fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	dir := filepath.Join(blocker, "sub")

	items := []Item{Message{Text: "a"}, Message{Text: "b"}}
	resp := SaveAll(items, dir)
	if resp.NoOfFails != 2 || resp.NoOfSuccess != 0 {
		t.Fatalf("unexpected counts: %+v", resp)
	}
	if resp.Status != StatusSuccess {
		t.Fatalf("per-item failures must not flip the status, got %q", resp.Status)
	}
	if resp.Err == "" {
		t.Fatalf("expected first failure's error to be reported")
	}
}

func TestSaveAllCountsSumToBatchLength(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		dir, err := os.MkdirTemp("", "batch_test")
		if err != nil {
			t.Fatalf("mkdirtemp: %v", err)
		}
		t.Cleanup(func() { os.RemoveAll(dir) })
		n := rapid.IntRange(0, 20).Draw(t, "n")
		items := make([]Item, n)
		for i := range items {
			switch rapid.IntRange(0, 2).Draw(t, fmt.Sprintf("kind%d", i)) {
			case 0:
				items[i] = Secret{Key: "k", Value: "v"}
			case 1:
				items[i] = Message{Text: "m"}
			default:
				items[i] = File{Name: "f.bin", Data: []byte{0}}
			}
		}
		resp := SaveAll(items, dir)
		if resp.NoOfSuccess+resp.NoOfFails != n {
			t.Fatalf("counts %d+%d != batch length %d", resp.NoOfSuccess, resp.NoOfFails, n)
		}
	})
}

func TestResponseWireFormat(t *testing.T) {
	data, err := json.Marshal(Response{Status: StatusSuccess, NoOfSuccess: 3})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(data)
	for _, key := range []string{`"status":"Succes"`, `"no_of_success":3`, `"no_of_fails":0`} {
		if !strings.Contains(got, key) {
			t.Errorf("response %s missing %s", got, key)
		}
	}
}
