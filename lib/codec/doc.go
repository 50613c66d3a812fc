// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the shared CBOR configuration used for room state
// checkpoints.
//
// Matrix events stay JSON end to end; CBOR is only the on-disk form of
// a captured room state. The encoder uses Core Deterministic Encoding:
// sorted map keys, smallest integer encoding, no indefinite-length
// items. Identical state always yields identical bytes, which is what
// lets a checkpoint carry a content digest.
//
// Types that cross both worlds (schema.PowerLevels, roomstate.Member)
// carry only `json` tags; fxamacker/cbor falls back to them when no
// `cbor` tag is present. Types that only ever live in a checkpoint use
// `cbor` tags. Never put both on one field.
package codec
