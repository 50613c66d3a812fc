// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides strongly typed, immutable references for the
// Matrix identifiers the room state engine works with: room IDs
// ("!opaque:server"), user IDs ("@localpart:server"), and event type
// strings.
//
// Constructors validate the structural format (sigil, non-empty local
// part, ':server' suffix) and return errors for malformed input. Once
// constructed a ref is immutable. Values arriving from event content
// (state keys, alias lists) are deliberately kept as plain strings by
// the engine: the engine must stay lenient toward whatever the server
// sent, so refs are parsed only at the boundaries that can reject bad
// input (command-line flags, checkpoint files, configuration).
//
// JSON and CBOR marshaling use the canonical string form via
// encoding.TextMarshaler.
//
// This package depends on no other packages in this module.
package ref
