// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"maps"

	"github.com/bureau-foundation/roomstate/lib/ref"
)

// PowerLevels is a typed representation of the Matrix
// m.room.power_levels state event content.
//
// Pointer-to-int fields distinguish "not set" (nil, omitted from JSON)
// from "explicitly set to 0" (pointer to 0). This preserves server
// defaults for fields the sender didn't touch.
//
// The room state engine treats PowerLevels as an opaque value and only
// ever hands out copies made with DeepCopy.
type PowerLevels struct {
	Users         map[string]int `json:"users,omitempty"`
	UsersDefault  *int           `json:"users_default,omitempty"`
	Events        map[string]int `json:"events,omitempty"`
	EventsDefault *int           `json:"events_default,omitempty"`
	StateDefault  *int           `json:"state_default,omitempty"`
	Invite        *int           `json:"invite,omitempty"`
	Ban           *int           `json:"ban,omitempty"`
	Kick          *int           `json:"kick,omitempty"`
	Redact        *int           `json:"redact,omitempty"`
	Notifications map[string]int `json:"notifications,omitempty"`
}

// UserLevel returns the power level for a Matrix user ID string. If the
// user has an explicit entry in the Users map, that value is returned.
// Otherwise falls back to UsersDefault, and to 0 when that is unset.
func (powerLevels *PowerLevels) UserLevel(userID string) int {
	if level, ok := powerLevels.Users[userID]; ok {
		return level
	}
	if powerLevels.UsersDefault != nil {
		return *powerLevels.UsersDefault
	}
	return 0
}

// SetUserLevel sets the power level for a Matrix user ID. Initializes
// the Users map if nil.
func (powerLevels *PowerLevels) SetUserLevel(userID ref.UserID, level int) {
	if powerLevels.Users == nil {
		powerLevels.Users = make(map[string]int)
	}
	powerLevels.Users[userID.String()] = level
}

// DeepCopy returns a copy sharing no maps or pointers with the
// receiver. A nil receiver yields nil.
func (powerLevels *PowerLevels) DeepCopy() *PowerLevels {
	if powerLevels == nil {
		return nil
	}
	return &PowerLevels{
		Users:         maps.Clone(powerLevels.Users),
		UsersDefault:  copyLevel(powerLevels.UsersDefault),
		Events:        maps.Clone(powerLevels.Events),
		EventsDefault: copyLevel(powerLevels.EventsDefault),
		StateDefault:  copyLevel(powerLevels.StateDefault),
		Invite:        copyLevel(powerLevels.Invite),
		Ban:           copyLevel(powerLevels.Ban),
		Kick:          copyLevel(powerLevels.Kick),
		Redact:        copyLevel(powerLevels.Redact),
		Notifications: maps.Clone(powerLevels.Notifications),
	}
}

func copyLevel(level *int) *int {
	if level == nil {
		return nil
	}
	value := *level
	return &value
}
