// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/roomstate/internal/cli"
)

const lobbyEvents = `// Lobby with two members named bob.
{"type":"m.room.create","state_key":"","room_id":"!lobby:test","content":{"creator":"@me:test"}}
{"type":"m.room.name","state_key":"","content":{"name":"Lobby"}}
{"type":"m.room.history_visibility","state_key":"","content":{"history_visibility":"joined"}}
{"type":"m.room.power_levels","state_key":"","content":{"users":{"@me:test":100}}}
{"type":"m.room.member","state_key":"@me:test","content":{"membership":"join","displayname":"Me"}}
{"type":"m.room.member","state_key":"@b:test","content":{"membership":"join","displayname":"bob"}}
{"type":"m.room.member","state_key":"@a:test","content":{"membership":"join","displayname":"bob"}}
{"type":"m.room.message","content":{"body":"hello"}}
{"type":"m.presence","sender":"@c:test","content":{"displayname":"Carol"}}
`

type fixture struct {
	directory  string
	configPath string
	eventsPath string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	directory := t.TempDir()
	f := fixture{
		directory:  directory,
		configPath: filepath.Join(directory, "roomstate.yaml"),
		eventsPath: filepath.Join(directory, "events.jsonl"),
	}
	config := "self_user_id: \"@me:test\"\ncheckpoint:\n  directory: " + filepath.Join(directory, "checkpoints") + "\nlog:\n  level: error\n"
	if err := os.WriteFile(f.configPath, []byte(config), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if err := os.WriteFile(f.eventsPath, []byte(lobbyEvents), 0o644); err != nil {
		t.Fatalf("writing events: %v", err)
	}
	return f
}

func (f fixture) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(append([]string{"--config", f.configPath, "--no-color"}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func (f fixture) runJSON(t *testing.T, args ...string) roomReport {
	t.Helper()
	stdout, stderr, err := f.run(t, append([]string{"--json"}, args...)...)
	if err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr)
	}
	var report roomReport
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("decoding report %q: %v", stdout, err)
	}
	return report
}

func TestRunTextReport(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	stdout, _, err := f.run(t, f.eventsPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{
		"Lobby\n",
		"history visibility: joined",
		"can back-paginate:  yes (as @me:test)",
		"events applied:     7 of 8",
		"Members (3)",
		"bob (1)",
		"bob (2)",
		"power 100",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output does not contain %q:\n%s", want, stdout)
		}
	}
}

func TestRunJSONReport(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	report := f.runJSON(t, f.eventsPath)
	if report.RoomID != "!lobby:test" || report.DisplayName != "Lobby" {
		t.Errorf("room %q named %q", report.RoomID, report.DisplayName)
	}
	if report.CanBackPaginate == nil || !*report.CanBackPaginate {
		t.Error("self cannot back-paginate")
	}
	var names []string
	levels := map[string]int{}
	for _, member := range report.Members {
		names = append(names, member.Name)
		if member.PowerLevel == nil {
			t.Errorf("member %s has no power level", member.UserID)
			continue
		}
		levels[member.UserID] = *member.PowerLevel
	}
	if want := []string{"Me", "bob (2)", "bob (1)"}; strings.Join(names, "|") != strings.Join(want, "|") {
		t.Errorf("member names = %v, want %v", names, want)
	}
	if levels["@me:test"] != 100 || levels["@a:test"] != 0 || levels["@b:test"] != 0 {
		t.Errorf("power levels = %v, want @me:test at 100 and the rest at 0", levels)
	}
}

func TestRunUserIDDisambiguation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	if err := os.WriteFile(f.configPath, []byte("display:\n  style: user_id\nlog:\n  level: error\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	stdout, _, err := f.run(t, "--member", "@a:test", f.eventsPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(stdout, "bob (@a:test)  join  @a:test") {
		t.Errorf("member line = %q", stdout)
	}
}

func TestRunMember(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	stdout, _, err := f.run(t, "--member", "@b:test", f.eventsPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stdout != "bob (2)  join  @b:test\n" {
		t.Errorf("member line = %q", stdout)
	}

	_, stderr, err := f.run(t, "--member", "@c:test", f.eventsPath)
	var exitError *cli.ExitError
	if !errors.As(err, &exitError) || exitError.Code != 1 {
		t.Fatalf("run for a non-member = %v, want exit code 1", err)
	}
	if !strings.Contains(stderr, "@c:test is not in !lobby:test") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRunCheckpointRoundTrip(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	checkpointPath := filepath.Join(f.directory, "lobby.rsck")

	if _, _, err := f.run(t, "--save-checkpoint="+checkpointPath, "--compression", "lz4", f.eventsPath); err != nil {
		t.Fatalf("run with --save-checkpoint: %v", err)
	}

	restored := f.runJSON(t, "--from-checkpoint", checkpointPath)
	if restored.DisplayName != "Lobby" || len(restored.Members) != 3 {
		t.Errorf("restored report = %+v", restored)
	}

	// Reverting the same events from the saved state walks the room
	// back to empty.
	reverted := f.runJSON(t, "--from-checkpoint", checkpointPath, "--direction", "revert", f.eventsPath)
	if reverted.DisplayName != "!lobby:test" || len(reverted.Members) != 0 {
		t.Errorf("reverted report = %+v", reverted)
	}
}

func TestRunDumpCheckpoint(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	checkpointPath := filepath.Join(f.directory, "lobby.rsck")

	if _, _, err := f.run(t, "--save-checkpoint="+checkpointPath, "--compression", "zstd", f.eventsPath); err != nil {
		t.Fatalf("run with --save-checkpoint: %v", err)
	}

	stdout, stderr, err := f.run(t, "--from-checkpoint", checkpointPath, "--dump-checkpoint")
	if err != nil {
		t.Fatalf("--dump-checkpoint: %v\nstderr: %s", err, stderr)
	}
	for _, want := range []string{`"room_id": "!lobby:test"`, `"name": "Lobby"`, `"@a:test"`} {
		if !strings.Contains(stdout, want) {
			t.Errorf("dump does not contain %s:\n%s", want, stdout)
		}
	}
}

func TestRunSavesToConfiguredDirectory(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	if _, _, err := f.run(t, "--save-checkpoint", f.eventsPath); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.directory, "checkpoints", "lobby_test.rsck")); err != nil {
		t.Errorf("default checkpoint not written: %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ambiguous := filepath.Join(f.directory, "sync.json")
	if err := os.WriteFile(ambiguous, []byte(`{"next_batch":"s1","rooms":{"join":{"!a:test":{},"!b:test":{}}}}`), 0o644); err != nil {
		t.Fatalf("writing sync response: %v", err)
	}
	traversal := filepath.Join(f.directory, "traversal.jsonl")
	if err := os.WriteFile(traversal, []byte(`{"type":"m.room.name","state_key":"","room_id":"!../../evil:test","content":{"name":"X"}}`), 0o644); err != nil {
		t.Fatalf("writing events: %v", err)
	}
	roomless := filepath.Join(f.directory, "roomless.jsonl")
	if err := os.WriteFile(roomless, []byte(`{"type":"m.room.name","state_key":"","content":{"name":"X"}}`), 0o644); err != nil {
		t.Fatalf("writing events: %v", err)
	}

	tests := []struct {
		name     string
		args     []string
		category cli.ErrorCategory
	}{
		{"no events file", nil, cli.CategoryValidation},
		{"two events files", []string{f.eventsPath, f.eventsPath}, cli.CategoryValidation},
		{"unknown flag", []string{"--frobnicate", f.eventsPath}, cli.CategoryValidation},
		{"bad direction", []string{"--direction", "sideways", f.eventsPath}, cli.CategoryValidation},
		{"bad compression", []string{"--compression", "gzip", f.eventsPath}, cli.CategoryValidation},
		{"missing events", []string{filepath.Join(f.directory, "absent.json")}, cli.CategoryNotFound},
		{"missing checkpoint", []string{"--from-checkpoint", filepath.Join(f.directory, "absent.rsck")}, cli.CategoryNotFound},
		{"ambiguous sync response", []string{ambiguous}, cli.CategoryValidation},
		{"room not in sync response", []string{"--room", "!c:test", ambiguous}, cli.CategoryNotFound},
		{"no room", []string{roomless}, cli.CategoryValidation},
		{"invalid room", []string{"--room", "lobby", roomless}, cli.CategoryValidation},
		{"path separator in room", []string{"--save-checkpoint", traversal}, cli.CategoryValidation},
		{"dump without checkpoint", []string{"--dump-checkpoint", f.eventsPath}, cli.CategoryValidation},
		{"dump missing checkpoint", []string{"--dump-checkpoint", "--from-checkpoint", filepath.Join(f.directory, "absent.rsck")}, cli.CategoryNotFound},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := f.run(t, test.args...)
			var toolError *cli.ToolError
			if !errors.As(err, &toolError) {
				t.Fatalf("run error = %v, want a ToolError", err)
			}
			if toolError.Category != test.category {
				t.Errorf("category = %s, want %s (%v)", toolError.Category, test.category, err)
			}
		})
	}
}

func TestRunVersionAndHelp(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	if err := run([]string{"--version"}, &stdout, &stderr); err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "bureau-room-state ") {
		t.Errorf("--version output = %q", stdout.String())
	}

	stdout.Reset()
	if err := run([]string{"--help"}, &stdout, &stderr); err != nil {
		t.Fatalf("--help: %v", err)
	}
	if !strings.Contains(stderr.String(), "--from-checkpoint") {
		t.Errorf("help does not list flags:\n%s", stderr.String())
	}
}
