// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package checkpoint saves and restores a room's projected state so a
// replay can start from a known position instead of the room's first
// event.
//
// A checkpoint file is a small fixed header followed by the body:
//
//	offset  size  field
//	0       4     magic "RSCK"
//	4       1     format version (1)
//	5       1     compression tag (0 none, 1 lz4, 2 zstd)
//	6       4     uncompressed body length, big-endian
//	10      32    BLAKE3 keyed digest of the uncompressed body
//	42      n     body, compressed per the tag
//
// The body is the deterministic CBOR encoding of a [Snapshot]. The
// digest is computed over the uncompressed bytes, so the same state
// digests identically whichever compression it was stored with.
//
// Checkpoints are local replay aids. They are not a server format and
// carry no timeline history, only the state at one position (recorded
// in the snapshot's pagination token).
package checkpoint
