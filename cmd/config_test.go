// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 LoopAndLearn

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/loopandlearn/omnikit/pkg/pod"
)

func TestParseFamily(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    pod.Family
		wantErr bool
	}{
		{name: "eros", arg: "eros", want: pod.FamilyEros},
		{name: "dash", arg: "dash", want: pod.FamilyDash},
		{name: "unknown family", arg: "omnipod5", wantErr: true},
		{name: "empty", arg: "", wantErr: true},
		{name: "case sensitive", arg: "Eros", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFamily(tt.arg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseFamily(%q) expected error, got %v", tt.arg, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseFamily(%q) error: %v", tt.arg, err)
			}
			if got != tt.want {
				t.Errorf("parseFamily(%q) = %v, want %v", tt.arg, got, tt.want)
			}
		})
	}
}

func TestFileConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     fileConfig
		wantErr bool
	}{
		{name: "empty config", cfg: fileConfig{}},
		{name: "serial defaults", cfg: fileConfig{Port: "/dev/ttyUSB0", Baud: 115200}},
		{name: "websocket defaults", cfg: fileConfig{URL: "wss://bridge.local/pod", Username: "loop"}},
		{name: "valid family", cfg: fileConfig{Family: "dash"}},
		{name: "negative baud", cfg: fileConfig{Baud: -9600}, wantErr: true},
		{name: "bad family", cfg: fileConfig{Family: "classic"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr && err == nil {
				t.Error("validate() expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("validate() unexpected error: %v", err)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "config.yaml")
	content := []byte("port: /dev/ttyACM0\nbaud: 57600\nfamily: dash\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadFileConfig(path)
	if err != nil {
		t.Fatalf("loadFileConfig() error: %v", err)
	}
	if cfg.Port != "/dev/ttyACM0" {
		t.Errorf("Port = %q, want /dev/ttyACM0", cfg.Port)
	}
	if cfg.Baud != 57600 {
		t.Errorf("Baud = %d, want 57600", cfg.Baud)
	}
	if cfg.Family != "dash" {
		t.Errorf("Family = %q, want dash", cfg.Family)
	}
}

func TestLoadFileConfigMissing(t *testing.T) {
	_, err := loadFileConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadFileConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not yaml", content: "{{{"},
		{name: "bad family", content: "family: omnipod5\n"},
		{name: "negative baud", content: "baud: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := loadFileConfig(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
