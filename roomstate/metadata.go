// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package roomstate

import (
	"slices"
	"sync"

	"github.com/bureau-foundation/roomstate/lib/schema"
)

// Metadata is a point-in-time copy of a room's scalar and collection
// attributes. Values returned by RoomState.Metadata share nothing with
// the live state.
type Metadata struct {
	Name           string
	Topic          string
	RoomAliasName  string
	CanonicalAlias string
	Visibility     string
	Creator        string
	JoinRule       string

	// HistoryVisibility is the stored value, which may be empty. Use
	// RoomState.HistoryVisibility for the normalized policy.
	HistoryVisibility schema.HistoryVisibility

	// Aliases is the m.room.aliases list in server order. Duplicates
	// from server echoes are kept.
	Aliases []string

	// Token is the opaque pagination token of the timeline position
	// this state corresponds to.
	Token string

	PowerLevels *schema.PowerLevels
}

// Alias returns the alias the room is best known by: the canonical
// alias when set, otherwise the first entry of Aliases, otherwise "".
func (m *Metadata) Alias() string {
	if m.CanonicalAlias != "" {
		return m.CanonicalAlias
	}
	if len(m.Aliases) > 0 {
		return m.Aliases[0]
	}
	return ""
}

func (m Metadata) deepCopy() Metadata {
	m.Aliases = slices.Clone(m.Aliases)
	m.PowerLevels = m.PowerLevels.DeepCopy()
	return m
}

// metadataStore guards a Metadata value so readers on other goroutines
// never observe a half-applied event.
type metadataStore struct {
	mu   sync.RWMutex
	data Metadata
}

func (store *metadataStore) snapshot() Metadata {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.data.deepCopy()
}

func (store *metadataStore) replace(data Metadata) {
	data = data.deepCopy()
	store.mu.Lock()
	defer store.mu.Unlock()
	store.data = data
}

func (store *metadataStore) update(mutate func(*Metadata)) {
	store.mu.Lock()
	defer store.mu.Unlock()
	mutate(&store.data)
}

// peek reads one field under the read lock without copying the rest.
// The accessor must not return a reference into the store (slices,
// maps, pointers); those go through snapshot.
func peek[T any](store *metadataStore, field func(*Metadata) T) T {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return field(&store.data)
}
