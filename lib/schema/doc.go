// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the standard Matrix room state event types the
// room state engine understands, together with the Go structs for their
// JSON content.
//
// Event type constants (MatrixEventType*) are the "type" field of a
// Matrix state event. [StateKind] is the closed enumeration the engine
// dispatches on; [ParseStateKind] maps an event type onto it and
// returns [StateKindUnknown] for anything else.
//
// Content structs mirror the Matrix client-server specification:
//
//   - [RoomNameContent], [RoomTopicContent], [RoomCreateContent],
//     [JoinRulesContent], [RoomAliasesContent], [CanonicalAliasContent],
//     [HistoryVisibilityContent] -- scalar room attributes
//   - [MemberContent] -- m.room.member, with [Membership] values
//   - [PowerLevels] -- m.room.power_levels, with a DeepCopy method
//
// This package depends only on lib/ref.
package schema
