// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// bureau-room-state replays recorded Matrix events into a room state
// and prints what a client would show for the room: its display name,
// attributes, whether the viewer may page back through history, and
// the member roster with disambiguated names.
//
// Events come from a file holding a JSON array of client events, JSON
// Lines, or a /sync response; comments are allowed. Replay can run
// forwards or, with --direction revert, backwards from a later state,
// and can start from and save to a checkpoint file:
//
//	bureau-room-state --room '!lobby:example.org' --self @me:example.org sync.json
//	bureau-room-state --from-checkpoint lobby.rsck --save-checkpoint=lobby.rsck more.jsonl
//	bureau-room-state --direction revert --from-checkpoint lobby.rsck page.json
//
// Members who share a display name get a " (n)" suffix by default; on
// a color terminal the suffix is dimmed so the shared name stands out.
package main
