// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package roomstate

import "github.com/bureau-foundation/roomstate/lib/schema"

// Member is one user's membership record in a room. Member is a plain
// value: copying it copies everything, and two members are equal (==)
// exactly when every field matches.
type Member struct {
	UserID      string            `json:"user_id"`
	Membership  schema.Membership `json:"membership"`
	DisplayName string            `json:"displayname,omitempty"`
	AvatarURL   string            `json:"avatar_url,omitempty"`
}

// memberFromContent builds the member record an m.room.member event
// describes for userID.
func memberFromContent(userID string, content schema.MemberContent) Member {
	return Member{
		UserID:      userID,
		Membership:  content.Membership,
		DisplayName: content.DisplayName,
		AvatarURL:   content.AvatarURL,
	}
}
