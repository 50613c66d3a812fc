// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"strings"
	"testing"
)

func TestParseUserID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		input         string
		wantLocalpart string
		wantServer    string
		wantErr       string
	}{
		{name: "simple", input: "@alice:example.org", wantLocalpart: "alice", wantServer: "example.org"},
		{name: "server with port", input: "@bob:localhost:8448", wantLocalpart: "bob", wantServer: "localhost:8448"},
		{name: "historical localpart", input: "@Carol.Smith:example.org", wantLocalpart: "Carol.Smith", wantServer: "example.org"},
		{name: "empty", input: "", wantErr: "empty user ID"},
		{name: "room sigil", input: "!room:example.org", wantErr: "must start with '@'"},
		{name: "no server", input: "@alice", wantErr: "missing ':server'"},
		{name: "empty localpart", input: "@:example.org", wantErr: "empty local part"},
		{name: "sigil in server", input: "@alice:#bad", wantErr: "server name contains"},
		{name: "slash in localpart", input: "@a/b:example.org", wantErr: "local part contains '/'"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			userID, err := ParseUserID(test.input)
			if test.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), test.wantErr) {
					t.Fatalf("ParseUserID(%q) error = %v, want substring %q", test.input, err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseUserID(%q): %v", test.input, err)
			}
			if got := userID.Localpart(); got != test.wantLocalpart {
				t.Errorf("Localpart() = %q, want %q", got, test.wantLocalpart)
			}
			if got := userID.Server(); got != test.wantServer {
				t.Errorf("Server() = %q, want %q", got, test.wantServer)
			}
		})
	}
}

func TestZeroUserIDAccessors(t *testing.T) {
	t.Parallel()

	var userID UserID
	if !userID.IsZero() {
		t.Fatal("zero UserID reports IsZero() = false")
	}
	if userID.Localpart() != "" || userID.Server() != "" {
		t.Errorf("zero UserID accessors = (%q, %q), want empty", userID.Localpart(), userID.Server())
	}
}
