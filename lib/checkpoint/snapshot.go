// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package checkpoint

import (
	"github.com/bureau-foundation/roomstate/lib/ref"
	"github.com/bureau-foundation/roomstate/lib/schema"
	"github.com/bureau-foundation/roomstate/roomstate"
)

// Snapshot is the serializable form of a RoomState. It holds every
// attribute the state tracks; members keep registry order so a
// restored room names itself exactly as the original did.
type Snapshot struct {
	RoomID            ref.RoomID               `cbor:"room_id"`
	Token             string                   `cbor:"token,omitempty"`
	Name              string                   `cbor:"name,omitempty"`
	Topic             string                   `cbor:"topic,omitempty"`
	RoomAliasName     string                   `cbor:"room_alias_name,omitempty"`
	CanonicalAlias    string                   `cbor:"canonical_alias,omitempty"`
	Aliases           []string                 `cbor:"aliases,omitempty"`
	Visibility        string                   `cbor:"visibility,omitempty"`
	Creator           string                   `cbor:"creator,omitempty"`
	JoinRule          string                   `cbor:"join_rule,omitempty"`
	HistoryVisibility schema.HistoryVisibility `cbor:"history_visibility,omitempty"`
	PowerLevels       *schema.PowerLevels      `cbor:"power_levels,omitempty"`
	Members           []roomstate.Member       `cbor:"members,omitempty"`
}

// Capture copies state into a Snapshot. The snapshot shares nothing
// with state.
func Capture(state *roomstate.RoomState) Snapshot {
	metadata := state.Metadata()
	return Snapshot{
		RoomID:            state.RoomID(),
		Token:             metadata.Token,
		Name:              metadata.Name,
		Topic:             metadata.Topic,
		RoomAliasName:     metadata.RoomAliasName,
		CanonicalAlias:    metadata.CanonicalAlias,
		Aliases:           metadata.Aliases,
		Visibility:        metadata.Visibility,
		Creator:           metadata.Creator,
		JoinRule:          metadata.JoinRule,
		HistoryVisibility: metadata.HistoryVisibility,
		PowerLevels:       metadata.PowerLevels,
		Members:           state.Members(),
	}
}

// Restore builds a RoomState from the snapshot. Options are passed to
// roomstate.New, so the restored state can be given its own logger and
// user directory.
func (snapshot Snapshot) Restore(options ...roomstate.Option) *roomstate.RoomState {
	state := roomstate.New(snapshot.RoomID, options...)
	state.SetMetadata(roomstate.Metadata{
		Name:              snapshot.Name,
		Topic:             snapshot.Topic,
		RoomAliasName:     snapshot.RoomAliasName,
		CanonicalAlias:    snapshot.CanonicalAlias,
		Visibility:        snapshot.Visibility,
		Creator:           snapshot.Creator,
		JoinRule:          snapshot.JoinRule,
		HistoryVisibility: snapshot.HistoryVisibility,
		Aliases:           snapshot.Aliases,
		Token:             snapshot.Token,
		PowerLevels:       snapshot.PowerLevels,
	})
	for _, member := range snapshot.Members {
		state.SetMember(member.UserID, member)
	}
	return state
}
