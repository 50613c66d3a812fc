// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import "github.com/bureau-foundation/roomstate/lib/ref"

// Standard Matrix state event types consumed by the room state engine.
const (
	// MatrixEventTypeRoomName sets the room's human-readable name.
	// State key: "" (singleton per room)
	MatrixEventTypeRoomName ref.EventType = "m.room.name"

	// MatrixEventTypeRoomTopic sets the room topic.
	// State key: ""
	MatrixEventTypeRoomTopic ref.EventType = "m.room.topic"

	// MatrixEventTypeRoomCreate is the first event of every room and
	// names its creator.
	// State key: ""
	MatrixEventTypeRoomCreate ref.EventType = "m.room.create"

	// MatrixEventTypeJoinRules sets who may join ("public", "invite", ...).
	// State key: ""
	MatrixEventTypeJoinRules ref.EventType = "m.room.join_rules"

	// MatrixEventTypeRoomAliases lists the aliases a server publishes for
	// the room. Servers echo their own list, so duplicates are possible.
	// State key: the publishing server name
	MatrixEventTypeRoomAliases ref.EventType = "m.room.aliases"

	// MatrixEventTypeCanonicalAlias names the preferred alias.
	// State key: ""
	MatrixEventTypeCanonicalAlias ref.EventType = "m.room.canonical_alias"

	// MatrixEventTypeHistoryVisibility controls who can read history
	// predating their own membership.
	// State key: ""
	MatrixEventTypeHistoryVisibility ref.EventType = "m.room.history_visibility"

	// MatrixEventTypeRoomMember carries one user's membership.
	// State key: the subject user ID
	MatrixEventTypeRoomMember ref.EventType = "m.room.member"

	// MatrixEventTypePowerLevels holds the room's permission levels.
	// State key: ""
	MatrixEventTypePowerLevels ref.EventType = "m.room.power_levels"

	// MatrixEventTypePresence is an ephemeral (non-state) event that
	// reports a user's presence and profile. Consumed by lib/presence.
	MatrixEventTypePresence ref.EventType = "m.presence"
)

// StateKind is the closed set of state event kinds the engine applies.
// Every recognized event type maps to exactly one kind; everything else
// is StateKindUnknown.
type StateKind int

const (
	StateKindUnknown StateKind = iota
	StateKindName
	StateKindTopic
	StateKindCreate
	StateKindJoinRules
	StateKindAliases
	StateKindCanonicalAlias
	StateKindHistoryVisibility
	StateKindMember
	StateKindPowerLevels
)

var stateKinds = map[ref.EventType]StateKind{
	MatrixEventTypeRoomName:          StateKindName,
	MatrixEventTypeRoomTopic:         StateKindTopic,
	MatrixEventTypeRoomCreate:        StateKindCreate,
	MatrixEventTypeJoinRules:         StateKindJoinRules,
	MatrixEventTypeRoomAliases:       StateKindAliases,
	MatrixEventTypeCanonicalAlias:    StateKindCanonicalAlias,
	MatrixEventTypeHistoryVisibility: StateKindHistoryVisibility,
	MatrixEventTypeRoomMember:        StateKindMember,
	MatrixEventTypePowerLevels:       StateKindPowerLevels,
}

// ParseStateKind maps an event type onto its StateKind. Matching is
// exact and case-sensitive.
func ParseStateKind(eventType ref.EventType) StateKind {
	return stateKinds[eventType]
}

// String returns the Matrix event type for the kind, or "unknown".
func (kind StateKind) String() string {
	for eventType, candidate := range stateKinds {
		if candidate == kind {
			return string(eventType)
		}
	}
	return "unknown"
}

// Membership is a user's relationship to a room.
type Membership string

const (
	MembershipInvite Membership = "invite"
	MembershipJoin   Membership = "join"
	MembershipLeave  Membership = "leave"
	MembershipBan    Membership = "ban"
)

// Departed reports whether the membership means the user is no longer
// in the room (left or banned).
func (m Membership) Departed() bool {
	return m == MembershipLeave || m == MembershipBan
}

// HistoryVisibility is the room-wide policy controlling access to
// history that predates a member's own membership.
type HistoryVisibility string

const (
	HistoryVisibilityShared  HistoryVisibility = "shared"
	HistoryVisibilityInvited HistoryVisibility = "invited"
	HistoryVisibilityJoined  HistoryVisibility = "joined"
)

// Room visibility in the public directory. Not carried by any state
// event; set by the owner of the room state.
const (
	VisibilityPrivate = "private"
	VisibilityPublic  = "public"
)

// RoomNameContent is the content of an m.room.name event.
type RoomNameContent struct {
	Name string `json:"name"`
}

// RoomTopicContent is the content of an m.room.topic event.
type RoomTopicContent struct {
	Topic string `json:"topic"`
}

// RoomCreateContent is the content of an m.room.create event. Only the
// creator is tracked; room version and predecessor are ignored.
type RoomCreateContent struct {
	Creator string `json:"creator"`
}

// JoinRulesContent is the content of an m.room.join_rules event.
type JoinRulesContent struct {
	JoinRule string `json:"join_rule"`
}

// RoomAliasesContent is the content of an m.room.aliases event.
type RoomAliasesContent struct {
	Aliases []string `json:"aliases"`
}

// CanonicalAliasContent is the content of an m.room.canonical_alias
// event.
type CanonicalAliasContent struct {
	Alias string `json:"alias"`
}

// HistoryVisibilityContent is the content of an
// m.room.history_visibility event.
type HistoryVisibilityContent struct {
	HistoryVisibility HistoryVisibility `json:"history_visibility"`
}

// MemberContent is the content of an m.room.member event. The subject
// user is the event's state key, not a content field.
type MemberContent struct {
	Membership  Membership `json:"membership"`
	DisplayName string     `json:"displayname,omitempty"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
}

// PresenceContent is the content of an m.presence event. Only the
// profile fields are read; presence state is carried for completeness.
type PresenceContent struct {
	Presence    string `json:"presence,omitempty"`
	DisplayName string `json:"displayname,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}
