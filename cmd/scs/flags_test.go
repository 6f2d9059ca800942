package main

import (
	"flag"
	"io"
	"testing"
)

func TestStringListAccumulates(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var l stringList
	fs.Var(&l, "m", "")
	if err := fs.Parse([]string{"-m", "one", "-m", "two"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(l) != 2 || l[0] != "one" || l[1] != "two" {
		t.Fatalf("unexpected values: %v", l)
	}
}

func TestCountFlagCountsOccurrences(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var c countFlag
	fs.Var(&c, "d", "")
	if err := fs.Parse([]string{"-d", "-d", "-d"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if int(c) != 3 {
		t.Fatalf("expected 3, got %d", c)
	}
}

func TestSplitSecret(t *testing.T) {
	tests := []struct {
		in         string
		key, value string
		wantErr    bool
	}{
		{in: "user,pass", key: "user", value: "pass"},
		{in: "k,", key: "k", value: ""},
		{in: "nocomma", wantErr: true},
		{in: "a,b,c", wantErr: true},
	}
	for _, tt := range tests {
		key, value, err := splitSecret(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("splitSecret(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("splitSecret(%q): %v", tt.in, err)
			continue
		}
		if key != tt.key || value != tt.value {
			t.Errorf("splitSecret(%q) = %q/%q, want %q/%q", tt.in, key, value, tt.key, tt.value)
		}
	}
}
