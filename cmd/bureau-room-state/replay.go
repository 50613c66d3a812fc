// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/roomstate/internal/cli"
	"github.com/bureau-foundation/roomstate/lib/checkpoint"
	"github.com/bureau-foundation/roomstate/lib/codec"
	"github.com/bureau-foundation/roomstate/lib/config"
	"github.com/bureau-foundation/roomstate/lib/eventlog"
	"github.com/bureau-foundation/roomstate/lib/presence"
	"github.com/bureau-foundation/roomstate/lib/ref"
	"github.com/bureau-foundation/roomstate/roomstate"
)

type replayRequest struct {
	roomID         string
	eventsPath     string
	fromCheckpoint string
	direction      roomstate.Direction
	logger         *slog.Logger
}

type replayResult struct {
	state     *roomstate.RoomState
	directory *presence.Directory

	// events is the number of events read; applied is how many of
	// them ApplyState handled.
	events  int
	applied int
}

// replay builds the starting state (empty, or restored from a
// checkpoint), feeds presence into the user directory, and applies the
// event file in the requested direction.
func replay(request replayRequest) (*replayResult, error) {
	result := &replayResult{directory: presence.NewDirectory()}
	stateOptions := []roomstate.Option{
		roomstate.WithLogger(request.logger),
		roomstate.WithUserDirectory(result.directory),
	}

	var log *eventlog.Log
	if request.eventsPath != "" {
		var err error
		log, err = eventlog.ReadFile(request.eventsPath, request.roomID)
		switch {
		case err == nil:
		case errors.Is(err, os.ErrNotExist):
			return nil, cli.NotFound("events file %s does not exist", request.eventsPath)
		case errors.Is(err, eventlog.ErrRoomNotFound):
			return nil, cli.NotFound("%w", err)
		case errors.Is(err, eventlog.ErrAmbiguousRoom):
			return nil, cli.Validation("%w", err).WithHint("Pass --room to choose the room to replay.")
		default:
			return nil, cli.Validation("reading events: %w", err)
		}
	}

	if request.fromCheckpoint != "" {
		snapshot, err := checkpoint.LoadFile(request.fromCheckpoint)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, cli.NotFound("checkpoint %s does not exist", request.fromCheckpoint)
			}
			return nil, cli.Internal("loading checkpoint: %w", err)
		}
		if request.roomID != "" && request.roomID != snapshot.RoomID.String() {
			return nil, cli.Validation("checkpoint is for %s, not %s", snapshot.RoomID, request.roomID)
		}
		if log != nil && log.RoomID != "" && log.RoomID != snapshot.RoomID.String() {
			return nil, cli.Validation("events are for %s but the checkpoint is for %s", log.RoomID, snapshot.RoomID)
		}
		result.state = snapshot.Restore(stateOptions...)
		request.logger.Debug("restored checkpoint",
			"path", request.fromCheckpoint,
			"room_id", snapshot.RoomID,
			"members", result.state.MemberCount(),
		)
	} else {
		roomID := request.roomID
		if roomID == "" && log != nil {
			roomID = log.RoomID
		}
		if roomID == "" {
			return nil, cli.Validation("the events name no room").WithHint("Pass --room with the room ID.")
		}
		parsed, err := ref.ParseRoomID(roomID)
		if err != nil {
			return nil, cli.Validation("--room: %w", err)
		}
		result.state = roomstate.New(parsed, stateOptions...)
	}

	if log == nil {
		return result, nil
	}

	for _, event := range log.Presence {
		if err := result.directory.Apply(event.Sender, event.Content); err != nil {
			request.logger.Warn("ignoring presence event", "error", err)
		}
	}

	events := log.StateEvents()
	result.events = len(events)
	result.applied = result.state.ApplyEvents(events, request.direction)

	// A forward replay of a sync response ends at next_batch; a
	// revert walks back to the timeline's prev_batch.
	token := log.NextBatch
	if request.direction == roomstate.Revert {
		token = log.PrevBatch
	}
	if token != "" {
		result.state.SetToken(token)
	}

	request.logger.Info("replayed events",
		"room_id", result.state.RoomID(),
		"direction", request.direction,
		"events", result.events,
		"applied", result.applied,
		"presence", len(log.Presence),
	)
	return result, nil
}

// saveCheckpoint writes state to target, or to the room's default file
// in the configured directory when target is the bare-flag value.
func saveCheckpoint(cfg *config.Config, target string, state *roomstate.RoomState, logger *slog.Logger) error {
	compression, err := checkpoint.ParseCompression(cfg.Checkpoint.Compression)
	if err != nil {
		return cli.Validation("%w", err)
	}

	if target == defaultCheckpointPath {
		if err := cfg.EnsureCheckpointDirectory(); err != nil {
			return cli.Internal("%w", err)
		}
		target = cfg.CheckpointPath(state.RoomID())
	}

	digest, err := checkpoint.SaveFile(target, checkpoint.Capture(state), compression)
	if err != nil {
		return cli.Internal("saving checkpoint: %w", err)
	}
	logger.Info("saved checkpoint",
		"path", target,
		"compression", compression,
		"digest", digest,
	)
	return nil
}

// dumpCheckpoint prints the verified body of the checkpoint at path in
// CBOR diagnostic notation.
func dumpCheckpoint(w io.Writer, path string) error {
	body, err := checkpoint.LoadBody(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cli.NotFound("checkpoint %s does not exist", path)
		}
		return cli.Internal("loading checkpoint: %w", err)
	}
	diagnostic, err := codec.Diagnose(body)
	if err != nil {
		return cli.Internal("diagnosing checkpoint body: %w", err)
	}
	_, err = fmt.Fprintln(w, diagnostic)
	return err
}
