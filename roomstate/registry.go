// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package roomstate

import (
	"maps"
	"slices"
	"sync"
)

// Registry maps user IDs to member records. All operations are guarded
// by a single lock per registry, so readers (display name resolution)
// may run concurrently with the event application path.
//
// Iteration order is insertion order: replacing a member keeps its
// position, removing it drops it. Room display names built from the
// roster depend on this order being stable.
type Registry struct {
	mu      sync.RWMutex
	members map[string]Member
	order   []string
}

// registryEntry pairs a registry key with its member. The key is
// authoritative; Member.UserID normally equals it.
type registryEntry struct {
	userID string
	member Member
}

// NewRegistry returns an empty registry. The zero Registry is also
// ready to use.
func NewRegistry() *Registry {
	return &Registry{members: make(map[string]Member)}
}

// Upsert inserts or replaces the member stored under userID. A member
// without a user ID is assigned userID.
func (r *Registry) Upsert(userID string, member Member) {
	if member.UserID == "" {
		member.UserID = userID
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.members == nil {
		r.members = make(map[string]Member)
	}
	if _, exists := r.members[userID]; !exists {
		r.order = append(r.order, userID)
	}
	r.members[userID] = member
}

// Get returns the member stored under userID.
func (r *Registry) Get(userID string) (Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	member, ok := r.members[userID]
	return member, ok
}

// Remove deletes the member stored under userID and reports whether
// one was present.
func (r *Registry) Remove(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.members[userID]; !exists {
		return false
	}
	delete(r.members, userID)
	if index := slices.Index(r.order, userID); index >= 0 {
		r.order = slices.Delete(r.order, index, index+1)
	}
	return true
}

// Len returns the number of members.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// Snapshot returns a copy of every member in registry order. The slice
// belongs to the caller and is unaffected by later mutation.
func (r *Registry) Snapshot() []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make([]Member, 0, len(r.order))
	for _, userID := range r.order {
		snapshot = append(snapshot, r.members[userID])
	}
	return snapshot
}

// Clone returns an independent registry holding copies of every member.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &Registry{
		members: maps.Clone(r.members),
		order:   slices.Clone(r.order),
	}
}

func (r *Registry) entries() []registryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]registryEntry, 0, len(r.order))
	for _, userID := range r.order {
		entries = append(entries, registryEntry{userID: userID, member: r.members[userID]})
	}
	return entries
}
