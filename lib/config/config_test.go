// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/roomstate/lib/ref"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roomstate.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Environment != Development {
		t.Errorf("expected environment=development, got %s", cfg.Environment)
	}
	if cfg.Display.Style != "position" || cfg.Display.Color != "auto" {
		t.Errorf("unexpected display defaults: %+v", cfg.Display)
	}
	if cfg.Checkpoint.Compression != "zstd" {
		t.Errorf("expected compression=zstd, got %s", cfg.Checkpoint.Compression)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() does not validate: %v", err)
	}
}

func TestLoad_RequiresConfigVariable(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	_, err := Load()
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Load() error = %v, want ErrNotConfigured", err)
	}
}

func TestLoad_WithConfigVariable(t *testing.T) {
	path := writeConfig(t, `
environment: staging
self_user_id: "@alice:test"
`)
	t.Setenv(EnvironmentVariable, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Environment != Staging {
		t.Errorf("expected environment=staging, got %s", cfg.Environment)
	}
	if cfg.SelfUserID != "@alice:test" {
		t.Errorf("expected self_user_id=@alice:test, got %s", cfg.SelfUserID)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
environment: staging

display:
  color: never
  disambiguation_color: "#ff8800"
  style: user_id

checkpoint:
  directory: /var/lib/roomstate
  compression: lz4

log:
  level: debug
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Display.Color != "never" || cfg.Display.DisambiguationColor != "#ff8800" || cfg.Display.Style != "user_id" {
		t.Errorf("display = %+v", cfg.Display)
	}
	if cfg.Checkpoint.Directory != "/var/lib/roomstate" || cfg.Checkpoint.Compression != "lz4" {
		t.Errorf("checkpoint = %+v", cfg.Checkpoint)
	}
	level, err := cfg.LogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("LogLevel() = %v, %v; want debug", level, err)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadFile(absent) = %v, want not-exist", err)
	}
	if _, err := LoadFile(writeConfig(t, "display: [unclosed")); err == nil {
		t.Error("LoadFile accepted malformed YAML")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantLevel string
		wantColor string
		wantSelf  string
	}{
		{
			name: "development section applies",
			content: `
environment: development
self_user_id: "@base:test"
development:
  self_user_id: "@dev:test"
  log:
    level: debug
production:
  log:
    level: error
`,
			wantLevel: "debug",
			wantColor: "auto",
			wantSelf:  "@dev:test",
		},
		{
			name: "explicit production section",
			content: `
environment: production
production:
  display:
    color: always
`,
			wantLevel: "info",
			wantColor: "always",
		},
		{
			name:      "production defaults",
			content:   "environment: production\n",
			wantLevel: "warn",
			wantColor: "never",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg, err := LoadFile(writeConfig(t, test.content))
			if err != nil {
				t.Fatalf("LoadFile failed: %v", err)
			}
			if cfg.Log.Level != test.wantLevel {
				t.Errorf("log.level = %q, want %q", cfg.Log.Level, test.wantLevel)
			}
			if cfg.Display.Color != test.wantColor {
				t.Errorf("display.color = %q, want %q", cfg.Display.Color, test.wantColor)
			}
			if cfg.SelfUserID != test.wantSelf {
				t.Errorf("self_user_id = %q, want %q", cfg.SelfUserID, test.wantSelf)
			}
		})
	}
}

func TestEnvVarsDoNotOverride(t *testing.T) {
	t.Setenv("ROOMSTATE_SELF_USER_ID", "@env:test")
	t.Setenv("ROOMSTATE_ENVIRONMENT", "staging")

	cfg, err := LoadFile(writeConfig(t, `
environment: development
self_user_id: "@file:test"
`))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Environment != Development || cfg.SelfUserID != "@file:test" {
		t.Errorf("environment %s, self %s: env vars should not override the file", cfg.Environment, cfg.SelfUserID)
	}
}

func TestCheckpointDirectoryExpansion(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	cfg, err := LoadFile(writeConfig(t, "checkpoint:\n  directory: ${HOME}/rs\n"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Checkpoint.Directory != "/home/tester/rs" {
		t.Errorf("directory = %q, want /home/tester/rs", cfg.Checkpoint.Directory)
	}
}

func TestExpandVars(t *testing.T) {
	tests := []struct {
		input    string
		vars     map[string]string
		expected string
	}{
		{"${HOME}/roomstate", map[string]string{"HOME": "/home/user"}, "/home/user/roomstate"},
		{"${ROOMSTATE_TEST_MISSING:-default}", map[string]string{}, "default"},
		{"${PRESENT:-default}", map[string]string{"PRESENT": "value"}, "value"},
		{"${A}/${B}", map[string]string{"A": "first", "B": "second"}, "first/second"},
		{"no variables here", map[string]string{}, "no variables here"},
	}

	for _, test := range tests {
		if result := expandVars(test.input, test.vars); result != test.expected {
			t.Errorf("expandVars(%q) = %q, want %q", test.input, result, test.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config failed validation: %v", err)
	}

	invalid := Default()
	invalid.Environment = "testing"
	invalid.SelfUserID = "alice"
	invalid.Display.Color = "sometimes"
	invalid.Display.Style = "emoji"
	invalid.Checkpoint.Compression = "gzip"
	invalid.Log.Level = "loud"

	err := invalid.Validate()
	if err == nil {
		t.Fatal("invalid config passed validation")
	}
	for _, fragment := range []string{"environment", "self_user_id", "display.color", "display.style", "checkpoint.compression", "log.level"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("validation error does not mention %s: %v", fragment, err)
		}
	}
}

func TestCheckpointPath(t *testing.T) {
	cfg := Default()
	cfg.Checkpoint.Directory = "/data"

	tests := []struct {
		roomID string
		want   string
	}{
		{"!abc123:example.org", "/data/abc123_example.org.rsck"},
		{"!abc:localhost:6167", "/data/abc_localhost_6167.rsck"},
		{"!..:example.org", "/data/.._example.org.rsck"},
	}
	for _, test := range tests {
		got := cfg.CheckpointPath(ref.MustParseRoomID(test.roomID))
		if got != test.want {
			t.Errorf("CheckpointPath(%s) = %q, want %q", test.roomID, got, test.want)
		}
		if filepath.Dir(got) != "/data" {
			t.Errorf("CheckpointPath(%s) = %q escapes the checkpoint directory", test.roomID, got)
		}
	}
}

func TestEnsureCheckpointDirectory(t *testing.T) {
	cfg := Default()
	cfg.Checkpoint.Directory = filepath.Join(t.TempDir(), "nested", "checkpoints")

	if err := cfg.EnsureCheckpointDirectory(); err != nil {
		t.Fatalf("EnsureCheckpointDirectory: %v", err)
	}
	if info, err := os.Stat(cfg.Checkpoint.Directory); err != nil || !info.IsDir() {
		t.Errorf("directory not created: %v", err)
	}
}
