// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package eventlog reads recorded Matrix events for replay into a
// room state.
//
// Three shapes are accepted, and may be mixed in one file:
//
//   - a JSON array of client events;
//   - JSON Lines, one client event per line;
//   - a /sync response, from which the chosen joined room's state
//     events followed by its timeline events are taken, together with
//     the top-level presence events.
//
// Files may contain // and /* */ comments and trailing commas; they are
// stripped with jsonc before decoding, so hand-written fixtures can be
// annotated.
//
// Homeservers put the previous content of a state event in
// unsigned.prev_content; older ones and many fixtures put it at the top
// level. Both are honored, the top level taking precedence.
package eventlog
