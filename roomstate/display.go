// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package roomstate

import (
	"fmt"
	"slices"
	"strings"
)

// groupThreshold is the registry size (self included) from which a
// nameless, aliasless room is named after its members as a group.
const groupThreshold = 3

// Disambiguation selects how members sharing a display name are told
// apart.
type Disambiguation int

const (
	// ByUserID appends " (<user ID>)".
	ByUserID Disambiguation = iota

	// ByPosition appends " (<n>)", n being the member's 1-based
	// position among the colliding user IDs in sorted order, and
	// reports the suffix's span.
	ByPosition
)

// Span is a half-open byte range [Start, End) within a name.
type Span struct {
	Start int
	End   int
}

// IsZero reports whether the span is empty.
func (s Span) IsZero() bool { return s.Start == s.End }

// MemberName is a resolved member display name. Disambiguator covers
// the positional suffix when one was appended, and is zero otherwise;
// a presentation layer can style Text[Disambiguator.Start:Disambiguator.End]
// without re-deriving it.
type MemberName struct {
	Text          string
	Disambiguator Span
}

// Base returns the name without the positional suffix.
func (n MemberName) Base() string {
	if n.Disambiguator.IsZero() {
		return n.Text
	}
	return n.Text[:n.Disambiguator.Start]
}

// Suffix returns the positional suffix, or "".
func (n MemberName) Suffix() string {
	return n.Text[n.Disambiguator.Start:n.Disambiguator.End]
}

// DisplayName returns the name to show for the room from the point of
// view of selfUserID (which may be empty when unknown):
//
//  1. the room name, if set;
//  2. otherwise the room alias (canonical, else the first alias);
//  3. otherwise, with at least three members and a known self,
//     "(N) a, b, c" listing every member but self in roster order;
//  4. otherwise the name of the first member who is not self, or
//     self's own name in a room with nobody else.
//
// A name from steps 1, 3 or 4 is followed by " (<alias>)" when the room
// has an alias that differs from it. A room with nothing to go on is
// called by its room ID.
func (s *RoomState) DisplayName(selfUserID string) string {
	metadata := s.metadata.snapshot()
	alias := metadata.Alias()
	entries := s.members.entries()

	var displayName string
	switch {
	case metadata.Name != "":
		displayName = metadata.Name
	case alias != "":
		displayName = alias
	case len(entries) >= groupThreshold && selfUserID != "":
		displayName = s.groupName(entries, selfUserID)
	case len(entries) > 0:
		displayName = s.directName(entries, selfUserID)
	}

	if displayName == "" {
		return s.roomID.String()
	}
	if alias != "" && displayName != alias {
		displayName += " (" + alias + ")"
	}
	return displayName
}

func (s *RoomState) groupName(entries []registryEntry, selfUserID string) string {
	var names []string
	for _, entry := range entries {
		if entry.userID == selfUserID {
			continue
		}
		names = append(names, s.memberName(entries, entry.userID, ByUserID).Text)
	}
	return fmt.Sprintf("(%d) %s", len(names), strings.Join(names, ", "))
}

// directName names a one-to-one room after the other party.
func (s *RoomState) directName(entries []registryEntry, selfUserID string) string {
	for _, entry := range entries {
		if entry.userID != selfUserID {
			return s.memberName(entries, entry.userID, ByUserID).Text
		}
	}
	return s.memberName(entries, selfUserID, ByUserID).Text
}

// MemberName returns userID's display name, disambiguated by user ID
// when another member shares it. Returns "" for an empty userID.
func (s *RoomState) MemberName(userID string) string {
	name, _ := s.ResolveMemberName(userID, ByUserID)
	return name.Text
}

// ResolveMemberName returns userID's display name:
//
//  1. the member's display name in this room, disambiguated with the
//     given style when two or more members share it;
//  2. otherwise the name the UserDirectory knows, if any;
//  3. otherwise the user ID itself.
//
// The second result is false only when userID is empty.
func (s *RoomState) ResolveMemberName(userID string, style Disambiguation) (MemberName, bool) {
	if userID == "" {
		return MemberName{}, false
	}
	return s.memberName(s.members.entries(), userID, style), true
}

// memberName resolves against one registry snapshot so a group name
// sees a consistent roster.
func (s *RoomState) memberName(entries []registryEntry, userID string, style Disambiguation) MemberName {
	var name MemberName

	index := slices.IndexFunc(entries, func(entry registryEntry) bool { return entry.userID == userID })
	if index >= 0 && entries[index].member.DisplayName != "" {
		name.Text = entries[index].member.DisplayName

		var colliding []string
		for _, entry := range entries {
			if entry.member.DisplayName == name.Text {
				colliding = append(colliding, entry.userID)
			}
		}

		if len(colliding) > 1 {
			switch style {
			case ByPosition:
				slices.Sort(colliding)
				position := slices.Index(colliding, userID)
				suffix := fmt.Sprintf(" (%d)", position+1)
				name.Disambiguator = Span{Start: len(name.Text), End: len(name.Text) + len(suffix)}
				name.Text += suffix
			default:
				name.Text += " (" + userID + ")"
			}
		}
	}

	if name.Text == "" && s.directory != nil {
		if displayName, ok := s.directory.DisplayName(userID); ok {
			name.Text = displayName
		}
	}

	if name.Text == "" {
		name.Text = userID
	}
	return name
}
