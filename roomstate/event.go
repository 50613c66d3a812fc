// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package roomstate

import (
	"encoding/json"
	"fmt"

	"github.com/bureau-foundation/roomstate/lib/ref"
)

// Event is an already-parsed Matrix event as the engine consumes it.
// Only events with a StateKey (possibly empty) are state events.
//
// PrevContent is the content that was current for (Type, StateKey)
// before this event; Matrix servers deliver it in unsigned.prev_content.
// It is what Revert applies.
type Event struct {
	Type        ref.EventType   `json:"type"`
	StateKey    *string         `json:"state_key,omitempty"`
	Content     json.RawMessage `json:"content,omitempty"`
	PrevContent json.RawMessage `json:"prev_content,omitempty"`
}

// IsState reports whether the event carries a state key.
func (e Event) IsState() bool { return e.StateKey != nil }

// Direction selects which content of an event ApplyState uses.
type Direction int

const (
	// Forward applies the event's content: the room moves to the
	// state after the event.
	Forward Direction = iota

	// Revert applies the event's previous content: the room moves
	// back to the state before the event.
	Revert
)

// String returns "forward" or "revert".
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Revert:
		return "revert"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection parses "forward" or "revert" (also "f" and "b", the
// Matrix pagination spellings).
func ParseDirection(raw string) (Direction, error) {
	switch raw {
	case "forward", "forwards", "f":
		return Forward, nil
	case "revert", "backward", "backwards", "b":
		return Revert, nil
	default:
		return 0, fmt.Errorf("unknown direction %q (want forward or revert)", raw)
	}
}
