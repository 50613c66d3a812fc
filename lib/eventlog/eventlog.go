// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/roomstate/lib/ref"
	"github.com/bureau-foundation/roomstate/lib/schema"
	"github.com/bureau-foundation/roomstate/roomstate"
)

var (
	// ErrRoomNotFound means a sync response has no joined room with
	// the requested ID.
	ErrRoomNotFound = errors.New("eventlog: room not in sync response")

	// ErrAmbiguousRoom means a sync response holds several joined
	// rooms and no room was requested.
	ErrAmbiguousRoom = errors.New("eventlog: sync response holds several rooms")
)

// ClientEvent is a Matrix event in the client-server API format. Only
// the fields replay needs are decoded.
type ClientEvent struct {
	Type        ref.EventType   `json:"type"`
	StateKey    *string         `json:"state_key,omitempty"`
	Sender      string          `json:"sender,omitempty"`
	EventID     string          `json:"event_id,omitempty"`
	RoomID      string          `json:"room_id,omitempty"`
	Content     json.RawMessage `json:"content,omitempty"`
	PrevContent json.RawMessage `json:"prev_content,omitempty"`
	Unsigned    *Unsigned       `json:"unsigned,omitempty"`
}

// Unsigned holds the server-added fields of a client event.
type Unsigned struct {
	PrevContent json.RawMessage `json:"prev_content,omitempty"`
}

// StateEvent converts the event for ApplyState.
func (event ClientEvent) StateEvent() roomstate.Event {
	converted := roomstate.Event{
		Type:        event.Type,
		StateKey:    event.StateKey,
		Content:     event.Content,
		PrevContent: event.PrevContent,
	}
	if len(converted.PrevContent) == 0 && event.Unsigned != nil {
		converted.PrevContent = event.Unsigned.PrevContent
	}
	return converted
}

// Log is the decoded content of an event file.
type Log struct {
	// RoomID is the room the events belong to: the requested or only
	// room of a sync response, or the room_id carried by the first
	// event that has one. Empty when nothing names a room.
	RoomID string

	// Events are the room events in file order.
	Events []ClientEvent

	// Presence holds m.presence events, which belong to no room.
	Presence []ClientEvent

	// PrevBatch is the timeline's prev_batch token from a sync
	// response: the pagination token the replayed state corresponds
	// to when walking backwards.
	PrevBatch string

	// NextBatch is the sync response's next_batch token.
	NextBatch string
}

// StateEvents converts Events for ApplyEvents. Events without a state
// key are included; ApplyState ignores them.
func (log *Log) StateEvents() []roomstate.Event {
	events := make([]roomstate.Event, len(log.Events))
	for i, event := range log.Events {
		events[i] = event.StateEvent()
	}
	return events
}

type syncResponse struct {
	NextBatch string `json:"next_batch"`
	Rooms     *struct {
		Join map[string]joinedRoom `json:"join"`
	} `json:"rooms"`
	Presence struct {
		Events []ClientEvent `json:"events"`
	} `json:"presence"`
}

type joinedRoom struct {
	State struct {
		Events []ClientEvent `json:"events"`
	} `json:"state"`
	Timeline struct {
		Events    []ClientEvent `json:"events"`
		PrevBatch string        `json:"prev_batch"`
	} `json:"timeline"`
}

// Parse decodes data. roomID selects the room of a sync response; it
// may be empty when the response holds exactly one joined room.
func Parse(data []byte, roomID string) (*Log, error) {
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	log := &Log{}

	for value := 1; ; value++ {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("value %d: %w", value, err)
		}

		switch leadingByte(raw) {
		case '[':
			var events []ClientEvent
			if err := json.Unmarshal(raw, &events); err != nil {
				return nil, fmt.Errorf("value %d: decoding event array: %w", value, err)
			}
			for _, event := range events {
				log.add(event)
			}

		case '{':
			if err := log.addObject(raw, roomID); err != nil {
				return nil, fmt.Errorf("value %d: %w", value, err)
			}

		default:
			return nil, fmt.Errorf("value %d: expected an event, an event array, or a sync response", value)
		}
	}

	if log.RoomID == "" {
		log.RoomID = roomID
	}
	return log, nil
}

// ReadFile reads and parses the event file at path.
func ReadFile(path, roomID string) (*Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	log, err := Parse(data, roomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return log, nil
}

func (log *Log) add(event ClientEvent) {
	if event.Type == schema.MatrixEventTypePresence {
		log.Presence = append(log.Presence, event)
		return
	}
	if log.RoomID == "" {
		log.RoomID = event.RoomID
	}
	log.Events = append(log.Events, event)
}

// addObject handles a top-level object, which is either one event or
// a sync response. Events always carry "type"; sync responses never do.
func (log *Log) addObject(raw json.RawMessage, roomID string) error {
	var probe struct {
		Type      *string         `json:"type"`
		Rooms     json.RawMessage `json:"rooms"`
		NextBatch *string         `json:"next_batch"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return err
	}

	if probe.Type != nil || (probe.Rooms == nil && probe.NextBatch == nil) {
		var event ClientEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			return fmt.Errorf("decoding event: %w", err)
		}
		log.add(event)
		return nil
	}

	var response syncResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return fmt.Errorf("decoding sync response: %w", err)
	}
	log.NextBatch = response.NextBatch
	log.Presence = append(log.Presence, response.Presence.Events...)

	var joined map[string]joinedRoom
	if response.Rooms != nil {
		joined = response.Rooms.Join
	}
	selected, err := selectRoom(joined, roomID)
	if err != nil {
		return err
	}
	if selected == "" {
		return nil
	}

	room := joined[selected]
	log.RoomID = selected
	log.PrevBatch = room.Timeline.PrevBatch
	for _, event := range room.State.Events {
		log.add(event)
	}
	for _, event := range room.Timeline.Events {
		log.add(event)
	}
	return nil
}

func selectRoom(joined map[string]joinedRoom, roomID string) (string, error) {
	if roomID != "" {
		if _, ok := joined[roomID]; !ok {
			return "", fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
		}
		return roomID, nil
	}
	switch len(joined) {
	case 0:
		return "", nil
	case 1:
		for id := range joined {
			return id, nil
		}
	}
	rooms := slices.Sorted(maps.Keys(joined))
	return "", fmt.Errorf("%w: %s (choose one)", ErrAmbiguousRoom, strings.Join(rooms, ", "))
}

func leadingByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
