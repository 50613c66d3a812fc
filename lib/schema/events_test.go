// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"testing"

	"github.com/bureau-foundation/roomstate/lib/ref"
)

func TestParseStateKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		eventType ref.EventType
		want      StateKind
	}{
		{"m.room.name", StateKindName},
		{"m.room.topic", StateKindTopic},
		{"m.room.create", StateKindCreate},
		{"m.room.join_rules", StateKindJoinRules},
		{"m.room.aliases", StateKindAliases},
		{"m.room.canonical_alias", StateKindCanonicalAlias},
		{"m.room.history_visibility", StateKindHistoryVisibility},
		{"m.room.member", StateKindMember},
		{"m.room.power_levels", StateKindPowerLevels},
		{"M.ROOM.NAME", StateKindUnknown},
		{"m.room.message", StateKindUnknown},
		{"", StateKindUnknown},
	}

	for _, test := range tests {
		if got := ParseStateKind(test.eventType); got != test.want {
			t.Errorf("ParseStateKind(%q) = %v, want %v", test.eventType, got, test.want)
		}
	}
}

func TestStateKindString(t *testing.T) {
	t.Parallel()

	if got := StateKindMember.String(); got != "m.room.member" {
		t.Errorf("StateKindMember.String() = %q", got)
	}
	if got := StateKindUnknown.String(); got != "unknown" {
		t.Errorf("StateKindUnknown.String() = %q", got)
	}
}

func TestMembershipDeparted(t *testing.T) {
	t.Parallel()

	departed := map[Membership]bool{
		MembershipInvite: false,
		MembershipJoin:   false,
		MembershipLeave:  true,
		MembershipBan:    true,
		"knock":          false,
	}
	for membership, want := range departed {
		if got := membership.Departed(); got != want {
			t.Errorf("%q.Departed() = %v, want %v", membership, got, want)
		}
	}
}
