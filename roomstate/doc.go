// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package roomstate projects a stream of Matrix state events onto the
// current authoritative state of one room.
//
// [RoomState] is the aggregate root. It owns a [Registry] of members
// (keyed by user ID, safe for concurrent readers) and a metadata store
// holding the scalar room attributes: name, topic, aliases, canonical
// alias, join rule, creator, history visibility, and power levels.
//
// [RoomState.ApplyState] is the state machine. Given an [Event] and a
// [Direction] it applies either the event's content (Forward) or its
// previous content (Revert). Starting from a known snapshot and applying
// a suffix of events Forward, or walking a prefix backwards with
// Revert, reconstructs the room at any historical point. Malformed
// content never stops replay: the affected attribute is cleared and the
// event still counts as handled.
//
// [RoomState.DisplayName] derives the room's human-facing name from its
// name, alias, or members. [RoomState.ResolveMemberName] produces a
// member's display name, disambiguating members who share one either by
// user ID or by 1-based position; for positional disambiguation the
// byte span of the suffix is returned so a presentation layer can style
// exactly that substring. [RoomState.CanBackPaginate] answers whether a
// user may read history older than their membership.
//
// Nothing in this package performs I/O or blocks. Profile lookups for
// users not yet in the room go through the optional [UserDirectory]
// collaborator supplied with [WithUserDirectory].
package roomstate
