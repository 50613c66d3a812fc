// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package roomstate

import (
	"log/slog"

	"github.com/bureau-foundation/roomstate/lib/ref"
	"github.com/bureau-foundation/roomstate/lib/schema"
)

// UserDirectory looks up profile information for users who may not
// (yet) be members of the room, typically from presence data. It is
// only consulted when the room itself has no display name for a user.
type UserDirectory interface {
	// DisplayName returns the user's display name, or false when the
	// directory knows nothing about the user.
	DisplayName(userID string) (string, bool)
}

// RoomState is the current state of one Matrix room. It is safe for
// concurrent readers alongside a single goroutine applying events;
// event application itself must be sequenced by the caller.
type RoomState struct {
	roomID    ref.RoomID
	metadata  metadataStore
	members   *Registry
	directory UserDirectory
	logger    *slog.Logger
}

// Option configures a RoomState at construction.
type Option func(*RoomState)

// WithUserDirectory installs the fallback profile lookup used when a
// user has no display name in the room.
func WithUserDirectory(directory UserDirectory) Option {
	return func(state *RoomState) {
		state.directory = directory
	}
}

// WithLogger sets the logger used to report content that failed to
// decode. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(state *RoomState) {
		if logger != nil {
			state.logger = logger
		}
	}
}

// New returns an empty state for roomID.
func New(roomID ref.RoomID, options ...Option) *RoomState {
	state := &RoomState{
		roomID:  roomID,
		members: NewRegistry(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(state)
	}
	return state
}

// RoomID returns the room this state belongs to. It never changes.
func (s *RoomState) RoomID() ref.RoomID { return s.roomID }

// Clone returns a deep copy: metadata, aliases, power levels, and every
// member are copied, so mutating either state never affects the other.
// The user directory and logger are collaborators and are shared.
func (s *RoomState) Clone() *RoomState {
	clone := &RoomState{
		roomID:    s.roomID,
		members:   s.members.Clone(),
		directory: s.directory,
		logger:    s.logger,
	}
	clone.metadata.replace(s.metadata.snapshot())
	return clone
}

// Metadata returns a copy of all room attributes.
func (s *RoomState) Metadata() Metadata {
	return s.metadata.snapshot()
}

// SetMetadata replaces every room attribute with a copy of metadata.
// Members are not affected.
func (s *RoomState) SetMetadata(metadata Metadata) {
	s.metadata.replace(metadata)
}

// Name returns the m.room.name value, or "" when unset.
func (s *RoomState) Name() string {
	return peek(&s.metadata, func(m *Metadata) string { return m.Name })
}

// Topic returns the m.room.topic value, or "" when unset.
func (s *RoomState) Topic() string {
	return peek(&s.metadata, func(m *Metadata) string { return m.Topic })
}

// Creator returns the user ID from m.room.create.
func (s *RoomState) Creator() string {
	return peek(&s.metadata, func(m *Metadata) string { return m.Creator })
}

// JoinRule returns the m.room.join_rules value.
func (s *RoomState) JoinRule() string {
	return peek(&s.metadata, func(m *Metadata) string { return m.JoinRule })
}

// CanonicalAlias returns the m.room.canonical_alias value.
func (s *RoomState) CanonicalAlias() string {
	return peek(&s.metadata, func(m *Metadata) string { return m.CanonicalAlias })
}

// Alias returns the canonical alias, falling back to the first entry of
// the aliases list, or "" when the room has neither.
func (s *RoomState) Alias() string {
	return peek(&s.metadata, (*Metadata).Alias)
}

// Aliases returns a copy of the m.room.aliases list.
func (s *RoomState) Aliases() []string {
	return s.metadata.snapshot().Aliases
}

// HistoryVisibility returns the room's history visibility policy. An
// unset policy reads as shared.
func (s *RoomState) HistoryVisibility() schema.HistoryVisibility {
	visibility := peek(&s.metadata, func(m *Metadata) schema.HistoryVisibility { return m.HistoryVisibility })
	if visibility == "" {
		return schema.HistoryVisibilityShared
	}
	return visibility
}

// Visibility returns the room's directory visibility ("private" or
// "public"), or "" when unknown.
func (s *RoomState) Visibility() string {
	return peek(&s.metadata, func(m *Metadata) string { return m.Visibility })
}

// SetVisibility records the room's directory visibility.
func (s *RoomState) SetVisibility(visibility string) {
	s.metadata.update(func(m *Metadata) { m.Visibility = visibility })
}

// RoomAliasName returns the local alias name the room was created with.
func (s *RoomState) RoomAliasName() string {
	return peek(&s.metadata, func(m *Metadata) string { return m.RoomAliasName })
}

// SetRoomAliasName records the local alias name the room was created with.
func (s *RoomState) SetRoomAliasName(name string) {
	s.metadata.update(func(m *Metadata) { m.RoomAliasName = name })
}

// Token returns the pagination token this state corresponds to.
func (s *RoomState) Token() string {
	return peek(&s.metadata, func(m *Metadata) string { return m.Token })
}

// SetToken records the pagination token this state corresponds to.
func (s *RoomState) SetToken(token string) {
	s.metadata.update(func(m *Metadata) { m.Token = token })
}

// PowerLevels returns a copy of the room's power levels, or nil when
// the room has none. Modifying the result does not affect the room.
func (s *RoomState) PowerLevels() *schema.PowerLevels {
	return peek(&s.metadata, func(m *Metadata) *schema.PowerLevels { return m.PowerLevels.DeepCopy() })
}

// SetPowerLevels stores a copy of powerLevels.
func (s *RoomState) SetPowerLevels(powerLevels *schema.PowerLevels) {
	powerLevels = powerLevels.DeepCopy()
	s.metadata.update(func(m *Metadata) { m.PowerLevels = powerLevels })
}

// Members returns a copy of every member in registry order.
func (s *RoomState) Members() []Member {
	return s.members.Snapshot()
}

// MemberCount returns the number of members in the registry, whatever
// their membership.
func (s *RoomState) MemberCount() int {
	return s.members.Len()
}

// Member returns the member record for userID.
func (s *RoomState) Member(userID string) (Member, bool) {
	return s.members.Get(userID)
}

// SetMember inserts or replaces the member stored under userID. A
// member without a user ID is assigned userID.
func (s *RoomState) SetMember(userID string, member Member) {
	s.members.Upsert(userID, member)
}

// RemoveMember deletes userID from the roster and reports whether it
// was present.
func (s *RoomState) RemoveMember(userID string) bool {
	return s.members.Remove(userID)
}
