// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package presence keeps the profile information carried by m.presence
// events, so member names can be resolved for users the room itself
// knows nothing about.
package presence

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/bureau-foundation/roomstate/lib/schema"
)

// Profile is what presence tells us about a user.
type Profile struct {
	Presence    string
	DisplayName string
	AvatarURL   string
}

// Directory is a concurrency-safe map from user ID to Profile. It
// implements roomstate.UserDirectory.
type Directory struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{profiles: make(map[string]Profile)}
}

// Set records the profile for userID, replacing any previous one.
func (directory *Directory) Set(userID string, profile Profile) {
	directory.mu.Lock()
	defer directory.mu.Unlock()
	directory.profiles[userID] = profile
}

// Get returns the profile recorded for userID.
func (directory *Directory) Get(userID string) (Profile, bool) {
	directory.mu.RLock()
	defer directory.mu.RUnlock()
	profile, ok := directory.profiles[userID]
	return profile, ok
}

// Len returns the number of users with a recorded profile.
func (directory *Directory) Len() int {
	directory.mu.RLock()
	defer directory.mu.RUnlock()
	return len(directory.profiles)
}

// DisplayName returns the display name presence reported for userID.
// A user known only by presence state, without a display name, is
// reported as unknown.
func (directory *Directory) DisplayName(userID string) (string, bool) {
	profile, ok := directory.Get(userID)
	if !ok || profile.DisplayName == "" {
		return "", false
	}
	return profile.DisplayName, true
}

// Apply records the profile carried by one m.presence event. sender is
// the event's sender, which is the user the presence describes.
// Fields absent from the content keep their previous values, since
// presence updates are often partial.
func (directory *Directory) Apply(sender string, content json.RawMessage) error {
	if sender == "" {
		return fmt.Errorf("presence event has no sender")
	}
	var decoded schema.PresenceContent
	if err := json.Unmarshal(content, &decoded); err != nil {
		return fmt.Errorf("decoding presence for %s: %w", sender, err)
	}

	directory.mu.Lock()
	defer directory.mu.Unlock()
	profile := directory.profiles[sender]
	if decoded.Presence != "" {
		profile.Presence = decoded.Presence
	}
	if decoded.DisplayName != "" {
		profile.DisplayName = decoded.DisplayName
	}
	if decoded.AvatarURL != "" {
		profile.AvatarURL = decoded.AvatarURL
	}
	directory.profiles[sender] = profile
	return nil
}
