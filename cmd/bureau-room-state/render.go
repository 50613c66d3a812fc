// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/roomstate/internal/cli"
)

// styles renders the text report. With the Ascii profile every style
// is a no-op, so uncolored output is the same code path.
type styles struct {
	title          lipgloss.Style
	label          lipgloss.Style
	disambiguation lipgloss.Style
	departed       lipgloss.Style
}

// colorProfile picks the termenv profile for a color mode: "never"
// forces plain text, "always" forces 256 colors, and "auto" detects
// from the environment when output is a terminal.
func colorProfile(output io.Writer, mode string) termenv.Profile {
	switch mode {
	case "never":
		return termenv.Ascii
	case "always":
		return termenv.ANSI256
	default:
		if !cli.IsTerminal(output) {
			return termenv.Ascii
		}
		return termenv.NewOutput(output).EnvColorProfile()
	}
}

func newStyles(output io.Writer, mode, disambiguationColor string) styles {
	profile := colorProfile(output, mode)
	// SetColorProfile is required: the renderer otherwise re-detects
	// from the environment and ignores the profile chosen here.
	renderer := lipgloss.NewRenderer(output, termenv.WithProfile(profile))
	renderer.SetColorProfile(profile)

	return styles{
		title:          renderer.NewStyle().Bold(true),
		label:          renderer.NewStyle().Faint(true),
		disambiguation: renderer.NewStyle().Foreground(lipgloss.Color(disambiguationColor)),
		departed:       renderer.NewStyle().Strikethrough(true),
	}
}

// memberName styles exactly the disambiguation span of a resolved
// name, leaving the shared base name untouched.
func (s styles) memberName(view memberView) string {
	name := view.resolved
	if name.Disambiguator.IsZero() {
		return name.Text
	}
	return name.Base() + s.disambiguation.Render(name.Suffix()) + name.Text[name.Disambiguator.End:]
}

func writeReport(w io.Writer, s styles, report roomReport) error {
	var builder strings.Builder
	builder.WriteString(s.title.Render(report.DisplayName))
	builder.WriteString("\n")

	fields := [][2]string{
		{"room", report.RoomID},
		{"topic", report.Topic},
		{"alias", report.Alias},
		{"creator", report.Creator},
		{"join rule", report.JoinRule},
		{"history visibility", report.HistoryVisibility},
		{"token", report.Token},
	}
	if report.CanBackPaginate != nil {
		fields = append(fields, [2]string{"can back-paginate", yesNo(*report.CanBackPaginate) + " (as " + report.Self + ")"})
	}
	fields = append(fields, [2]string{"events applied", fmt.Sprintf("%d of %d", report.EventsApplied, report.EventsRead)})

	for _, field := range fields {
		if field[1] == "" {
			continue
		}
		label := fmt.Sprintf("%-19s", field[0]+":")
		builder.WriteString("  " + s.label.Render(label) + " " + field[1] + "\n")
	}

	builder.WriteString("\n")
	builder.WriteString(s.title.Render(fmt.Sprintf("Members (%d)", len(report.Members))))
	builder.WriteString("\n")

	names := make([]string, len(report.Members))
	width := 0
	for i, member := range report.Members {
		names[i] = s.memberName(member)
		width = max(width, lipgloss.Width(names[i]))
	}
	for i, member := range report.Members {
		membership := member.Membership
		if membership == "leave" || membership == "ban" {
			membership = s.departed.Render(membership)
		}
		builder.WriteString("  " + names[i] + strings.Repeat(" ", width-lipgloss.Width(names[i])))
		builder.WriteString("  " + membership + strings.Repeat(" ", max(0, 6-len(member.Membership))))
		builder.WriteString("  " + member.UserID)
		if member.PowerLevel != nil && *member.PowerLevel != 0 {
			builder.WriteString("  " + s.label.Render("power "+strconv.Itoa(*member.PowerLevel)))
		}
		builder.WriteString("\n")
	}

	_, err := io.WriteString(w, builder.String())
	return err
}

func writeMember(w io.Writer, s styles, member memberView) error {
	line := s.memberName(member) + "  " + member.Membership + "  " + member.UserID
	if member.AvatarURL != "" {
		line += "  " + member.AvatarURL
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
