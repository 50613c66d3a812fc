// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/bureau-foundation/roomstate/lib/config"
	"github.com/bureau-foundation/roomstate/lib/schema"
	"github.com/bureau-foundation/roomstate/roomstate"
)

// reportView resolves everything the output shows from one replay
// result.
type reportView struct {
	result *replayResult
	self   string
	style  roomstate.Disambiguation
}

func newReportView(result *replayResult, cfg *config.Config) reportView {
	style := roomstate.ByPosition
	if cfg.Display.Style == "user_id" {
		style = roomstate.ByUserID
	}
	return reportView{result: result, self: cfg.SelfUserID, style: style}
}

type roomReport struct {
	RoomID            string       `json:"room_id"`
	DisplayName       string       `json:"display_name"`
	Topic             string       `json:"topic,omitempty"`
	Alias             string       `json:"alias,omitempty"`
	CanonicalAlias    string       `json:"canonical_alias,omitempty"`
	Creator           string       `json:"creator,omitempty"`
	JoinRule          string       `json:"join_rule,omitempty"`
	HistoryVisibility string       `json:"history_visibility"`
	Token             string       `json:"token,omitempty"`
	Self              string       `json:"self,omitempty"`
	CanBackPaginate   *bool        `json:"can_back_paginate,omitempty"`
	EventsRead        int          `json:"events_read"`
	EventsApplied     int          `json:"events_applied"`
	Members           []memberView `json:"members"`
}

type memberView struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Membership string `json:"membership"`
	AvatarURL  string `json:"avatar_url,omitempty"`
	PowerLevel *int   `json:"power_level,omitempty"`

	// resolved carries the disambiguation span for styled output.
	resolved roomstate.MemberName
}

func (view reportView) report() roomReport {
	state := view.result.state
	metadata := state.Metadata()

	report := roomReport{
		RoomID:            state.RoomID().String(),
		DisplayName:       state.DisplayName(view.self),
		Topic:             metadata.Topic,
		Alias:             metadata.Alias(),
		CanonicalAlias:    metadata.CanonicalAlias,
		Creator:           metadata.Creator,
		JoinRule:          metadata.JoinRule,
		HistoryVisibility: string(state.HistoryVisibility()),
		Token:             metadata.Token,
		Self:              view.self,
		EventsRead:        view.result.events,
		EventsApplied:     view.result.applied,
		Members:           []memberView{},
	}
	if view.self != "" {
		allowed := state.CanBackPaginate(view.self)
		report.CanBackPaginate = &allowed
	}
	powerLevels := state.PowerLevels()
	for _, member := range state.Members() {
		report.Members = append(report.Members, view.memberView(member, powerLevels))
	}
	return report
}

func (view reportView) member(userID string) (memberView, bool) {
	member, ok := view.result.state.Member(userID)
	if !ok {
		return memberView{}, false
	}
	return view.memberView(member, view.result.state.PowerLevels()), true
}

// memberView resolves one member. powerLevels may be nil, in which
// case the view carries no power level.
func (view reportView) memberView(member roomstate.Member, powerLevels *schema.PowerLevels) memberView {
	resolved, _ := view.result.state.ResolveMemberName(member.UserID, view.style)
	result := memberView{
		UserID:     member.UserID,
		Name:       resolved.Text,
		Membership: string(member.Membership),
		AvatarURL:  member.AvatarURL,
		resolved:   resolved,
	}
	if powerLevels != nil {
		level := powerLevels.UserLevel(member.UserID)
		result.PowerLevel = &level
	}
	return result
}
