// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package roomstate

import (
	"bytes"
	"encoding/json"

	"github.com/bureau-foundation/roomstate/lib/schema"
)

// ApplyState applies one state event to the room in the given
// direction and reports whether the event was handled.
//
// It returns false, without touching the room, when the event has no
// state key, when a membership event removes a member who is already
// absent, and when a membership event describes exactly the member
// already stored. Every other state event returns true, including
// unrecognized types and events whose content does not decode: a
// malformed payload clears the attribute it would have set, so one
// corrupt event never halts replay of a room.
//
// ApplyState assumes events for one room are delivered one at a time.
func (s *RoomState) ApplyState(event Event, direction Direction) bool {
	if event.StateKey == nil {
		return false
	}

	content := event.Content
	if direction == Revert {
		content = event.PrevContent
	}

	switch schema.ParseStateKind(event.Type) {
	case schema.StateKindName:
		decoded, _ := decodeContent[schema.RoomNameContent](s, event, content)
		s.metadata.update(func(m *Metadata) { m.Name = decoded.Name })

	case schema.StateKindTopic:
		decoded, _ := decodeContent[schema.RoomTopicContent](s, event, content)
		s.metadata.update(func(m *Metadata) { m.Topic = decoded.Topic })

	case schema.StateKindCreate:
		decoded, _ := decodeContent[schema.RoomCreateContent](s, event, content)
		s.metadata.update(func(m *Metadata) { m.Creator = decoded.Creator })

	case schema.StateKindJoinRules:
		decoded, _ := decodeContent[schema.JoinRulesContent](s, event, content)
		s.metadata.update(func(m *Metadata) { m.JoinRule = decoded.JoinRule })

	case schema.StateKindAliases:
		decoded, _ := decodeContent[schema.RoomAliasesContent](s, event, content)
		s.metadata.update(func(m *Metadata) { m.Aliases = decoded.Aliases })

	case schema.StateKindCanonicalAlias:
		decoded, _ := decodeContent[schema.CanonicalAliasContent](s, event, content)
		s.metadata.update(func(m *Metadata) { m.CanonicalAlias = decoded.Alias })

	case schema.StateKindHistoryVisibility:
		decoded, _ := decodeContent[schema.HistoryVisibilityContent](s, event, content)
		s.metadata.update(func(m *Metadata) { m.HistoryVisibility = decoded.HistoryVisibility })

	case schema.StateKindPowerLevels:
		var powerLevels *schema.PowerLevels
		if decoded, ok := decodeContent[schema.PowerLevels](s, event, content); ok {
			powerLevels = &decoded
		}
		s.metadata.update(func(m *Metadata) { m.PowerLevels = powerLevels })

	case schema.StateKindMember:
		return s.applyMember(event, content, direction)

	case schema.StateKindUnknown:
		// Not ours to interpret; handled in the sense that nothing
		// further is owed.
	}

	return true
}

// applyMember handles m.room.member. The state key is the subject.
func (s *RoomState) applyMember(event Event, content json.RawMessage, direction Direction) bool {
	userID := *event.StateKey

	decoded, ok := decodeContent[schema.MemberContent](s, event, content)
	if !ok || decoded.Membership == "" {
		if !s.members.Remove(userID) {
			return false
		}
		s.logger.Debug("member removed from room state",
			"room_id", s.roomID,
			"user_id", userID,
			"direction", direction,
		)
		return true
	}

	member := memberFromContent(userID, decoded)
	current, exists := s.members.Get(userID)

	// Departing members' events no longer carry an avatar. Keep the
	// last known one, but only when moving forward: a revert restores
	// exactly what the previous content said. This runs before the
	// duplicate check so a repeated leave reports no change.
	if direction == Forward && exists && member.Membership.Departed() && member.AvatarURL == "" {
		member.AvatarURL = current.AvatarURL
	}

	if exists && member == current {
		return false
	}

	s.members.Upsert(userID, member)
	return true
}

// ApplyEvents applies a batch of events and returns how many of them
// changed (or were handled by) the room state. Forward applies events
// in order; Revert walks them from last to first, so the same slice can
// be replayed and then undone.
func (s *RoomState) ApplyEvents(events []Event, direction Direction) int {
	applied := 0
	if direction == Revert {
		for i := len(events) - 1; i >= 0; i-- {
			if s.ApplyState(events[i], direction) {
				applied++
			}
		}
		return applied
	}
	for _, event := range events {
		if s.ApplyState(event, direction) {
			applied++
		}
	}
	return applied
}

// decodeContent decodes raw event content into T. Absent content
// (missing or JSON null) and content that fails to decode both yield
// the zero value and false; decode failures are logged at debug level.
func decodeContent[T any](s *RoomState, event Event, raw json.RawMessage) (T, bool) {
	var decoded T
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return decoded, false
	}
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		s.logger.Debug("ignoring malformed state event content",
			"room_id", s.roomID,
			"type", event.Type,
			"state_key", *event.StateKey,
			"error", err,
		)
		var zero T
		return zero, false
	}
	return decoded, true
}
