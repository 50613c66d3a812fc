// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
	"strings"
)

// parseSigilID splits a Matrix identifier of the form
// "<sigil>localpart:server" into its local part and server name. The
// label names the identifier kind in error messages ("user ID",
// "room alias").
func parseSigilID(raw string, sigil byte, label string) (localpart, server string, err error) {
	if raw == "" {
		return "", "", fmt.Errorf("empty %s", label)
	}
	if raw[0] != sigil {
		return "", "", fmt.Errorf("%s must start with '%c': %q", label, sigil, raw)
	}

	colonIndex := strings.IndexByte(raw[1:], ':')
	if colonIndex < 0 {
		return "", "", fmt.Errorf("%s missing ':server' suffix: %q", label, raw)
	}
	if colonIndex == 0 {
		return "", "", fmt.Errorf("%s has empty local part: %q", label, raw)
	}

	localpart = raw[1 : 1+colonIndex]
	server = raw[1+colonIndex+1:]
	if err := validateLocalpart(localpart); err != nil {
		return "", "", fmt.Errorf("%s %q: %w", label, raw, err)
	}
	if err := validateServer(server); err != nil {
		return "", "", fmt.Errorf("%s %q: %w", label, raw, err)
	}
	return localpart, server, nil
}

// validateLocalpart rejects control characters and path separators.
// Identifiers end up in file names, so neither '/' nor a backslash may appear.
func validateLocalpart(localpart string) error {
	for i := 0; i < len(localpart); i++ {
		c := localpart[i]
		if c < ' ' || c == 0x7f {
			return fmt.Errorf("local part contains control character at position %d", i)
		}
		if c == '/' || c == '\\' {
			return fmt.Errorf("local part contains %q at position %d", c, i)
		}
	}
	return nil
}

// validateServer checks that a Matrix server name is minimally valid:
// non-empty, no whitespace or control characters, no Matrix sigils.
// Ports ("localhost:6167") are allowed.
func validateServer(server string) error {
	if server == "" {
		return fmt.Errorf("server name is empty")
	}
	for i := 0; i < len(server); i++ {
		c := server[i]
		if c <= ' ' || c == 0x7f {
			return fmt.Errorf("server name contains control or space character at position %d", i)
		}
		switch c {
		case '@', '#', '!', '/':
			return fmt.Errorf("server name contains %q at position %d", c, i)
		}
	}
	return nil
}
