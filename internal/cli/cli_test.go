// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
)

func TestToolErrorHint(t *testing.T) {
	t.Parallel()

	plain := Validation("missing events file")
	if plain.Error() != "missing events file" {
		t.Errorf("Error() = %q", plain.Error())
	}

	hinted := NotFound("room %s not in sync response", "!r:test").WithHint("Pass --room.")
	if want := "room !r:test not in sync response\n\nPass --room."; hinted.Error() != want {
		t.Errorf("Error() = %q, want %q", hinted.Error(), want)
	}
}

func TestToolErrorUnwrap(t *testing.T) {
	t.Parallel()

	inner := Internal("reading checkpoint: %w", os.ErrPermission)
	wrapped := fmt.Errorf("replay: %w", inner)

	var toolError *ToolError
	if !errors.As(wrapped, &toolError) || toolError.Category != CategoryInternal {
		t.Fatalf("errors.As did not find the ToolError in %v", wrapped)
	}
	if !errors.Is(wrapped, os.ErrPermission) {
		t.Error("errors.Is did not reach the inner error")
	}
}

func TestExitCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  interface{ ExitCode() int }
		want int
	}{
		{Validation("x"), 2},
		{NotFound("x"), 3},
		{Internal("x"), 1},
		{&ExitError{Code: 4}, 4},
	}
	for _, test := range tests {
		if got := test.err.ExitCode(); got != test.want {
			t.Errorf("%v ExitCode() = %d, want %d", test.err, got, test.want)
		}
	}
}

func TestNewCommandLoggerUsesJSONWhenPiped(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	logger := NewCommandLogger(&buffer, slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("replayed", "events", 3)

	var record map[string]any
	if err := json.Unmarshal(buffer.Bytes(), &record); err != nil {
		t.Fatalf("log output %q is not one JSON record: %v", buffer.String(), err)
	}
	if record["msg"] != "replayed" || record["events"] != float64(3) {
		t.Errorf("record = %v", record)
	}
	if IsTerminal(&buffer) {
		t.Error("IsTerminal reported a buffer as a terminal")
	}
}
