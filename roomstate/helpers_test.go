// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package roomstate

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/bureau-foundation/roomstate/lib/ref"
	"github.com/bureau-foundation/roomstate/lib/schema"
)

const testRoomID = "!room:test"

func newTestState(options ...Option) *RoomState {
	return New(ref.MustParseRoomID(testRoomID), options...)
}

// stateEvent builds a state event. Empty content strings leave the
// corresponding field absent.
func stateEvent(eventType ref.EventType, stateKey, content, prevContent string) Event {
	event := Event{Type: eventType, StateKey: &stateKey}
	if content != "" {
		event.Content = json.RawMessage(content)
	}
	if prevContent != "" {
		event.PrevContent = json.RawMessage(prevContent)
	}
	return event
}

func memberEvent(userID, content, prevContent string) Event {
	return stateEvent(schema.MatrixEventTypeRoomMember, userID, content, prevContent)
}

func join(t *testing.T, state *RoomState, userID, displayName string) {
	t.Helper()
	content, err := json.Marshal(schema.MemberContent{Membership: schema.MembershipJoin, DisplayName: displayName})
	if err != nil {
		t.Fatalf("marshal member content: %v", err)
	}
	if !state.ApplyState(memberEvent(userID, string(content), ""), Forward) {
		t.Fatalf("join of %s was not applied", userID)
	}
}

// requireSameState fails the test when two states differ in any
// attribute or member.
func requireSameState(t *testing.T, got, want *RoomState) {
	t.Helper()
	if got.RoomID() != want.RoomID() {
		t.Errorf("room ID = %q, want %q", got.RoomID(), want.RoomID())
	}
	if gotMetadata, wantMetadata := got.Metadata(), want.Metadata(); !reflect.DeepEqual(gotMetadata, wantMetadata) {
		t.Errorf("metadata = %+v, want %+v", gotMetadata, wantMetadata)
	}
	if gotMembers, wantMembers := got.Members(), want.Members(); !reflect.DeepEqual(gotMembers, wantMembers) {
		t.Errorf("members = %+v, want %+v", gotMembers, wantMembers)
	}
}
