// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package roomstate

import "github.com/bureau-foundation/roomstate/lib/schema"

// backPaginationGrant is one row of the back-pagination decision
// table. An empty field matches anything.
type backPaginationGrant struct {
	visibility schema.HistoryVisibility
	membership schema.Membership
}

func (grant backPaginationGrant) matches(visibility schema.HistoryVisibility, membership schema.Membership) bool {
	return (grant.visibility == "" || grant.visibility == visibility) &&
		(grant.membership == "" || grant.membership == membership)
}

// backPaginationGrants lists every combination that permits reading
// history older than the reader's membership. Anything not listed is
// denied. The joined policy has no row of its own: joined members are
// already covered by the membership row.
var backPaginationGrants = []backPaginationGrant{
	{visibility: schema.HistoryVisibilityShared},
	{membership: schema.MembershipJoin},
	{visibility: schema.HistoryVisibilityInvited, membership: schema.MembershipInvite},
}

// CanBackPaginate reports whether userID may page back through the
// room's history, based on the room's history visibility (unset reads
// as shared) and the user's membership (absent when not in the roster).
func (s *RoomState) CanBackPaginate(userID string) bool {
	var membership schema.Membership
	if member, ok := s.members.Get(userID); ok {
		membership = member.Membership
	}
	return canBackPaginate(s.HistoryVisibility(), membership)
}

func canBackPaginate(visibility schema.HistoryVisibility, membership schema.Membership) bool {
	for _, grant := range backPaginationGrants {
		if grant.matches(visibility, membership) {
			return true
		}
	}
	return false
}
