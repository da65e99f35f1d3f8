// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal output styling for the vhub CLI.
//
// Output degrades to plain text when stdout is not a terminal (pipes,
// CI) or when NO_COLOR is set, so scripted callers get stable output.
package ux

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/volunteerhub/vhub/pkg/events"
)

// vhub color palette - sunrise ambers over civic blues
var (
	// Primary palette
	ColorAmberBright = lipgloss.Color("#FFB347") // Bright amber - highlights
	ColorAmber       = lipgloss.Color("#F59E0B") // Primary amber - brand color
	ColorBlueSky     = lipgloss.Color("#38BDF8") // Sky blue - interactive elements
	ColorBlueCivic   = lipgloss.Color("#2563EB") // Civic blue - secondary elements
	ColorBlueDeep    = lipgloss.Color("#1E3A8A") // Deep blue - borders, accents

	// Semantic colors
	ColorSuccess = lipgloss.Color("#34D399") // Green for success
	ColorWarning = lipgloss.Color("#F4D03F") // Gold for warnings
	ColorError   = lipgloss.Color("#E74C3C") // Red for errors
	ColorMuted   = lipgloss.Color("#64748B") // Slate for muted text
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style

	Box      lipgloss.Style
	ErrorBox lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorAmberBright),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorBlueSky),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorMuted),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorAmberBright).Bold(true),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlueDeep).
		Padding(0, 1),
	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorError).
		Padding(0, 1),
}

var (
	plainMu    sync.Mutex
	plainSet   bool
	plainValue bool
)

// Plain reports whether styled output should be suppressed. True when
// stdout is not a terminal or NO_COLOR is set, unless overridden by
// SetPlain.
func Plain() bool {
	plainMu.Lock()
	defer plainMu.Unlock()
	if plainSet {
		return plainValue
	}
	if os.Getenv("NO_COLOR") != "" {
		return true
	}
	fd := os.Stdout.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

// SetPlain forces plain or styled output regardless of terminal
// detection. Used by the --plain flag and by tests.
func SetPlain(v bool) {
	plainMu.Lock()
	defer plainMu.Unlock()
	plainSet = true
	plainValue = v
}

// Icon provides themed status icons
type Icon string

const (
	IconSuccess  Icon = "✓"
	IconWarning  Icon = "⚠"
	IconError    Icon = "✗"
	IconPending  Icon = "○"
	IconApproved Icon = "●"
	IconArrow    Icon = "→"
	IconBullet   Icon = "•"
	IconCalendar Icon = "▤"
)

// Render returns the icon with appropriate styling
func (i Icon) Render() string {
	if Plain() {
		return string(i)
	}
	switch i {
	case IconSuccess, IconApproved:
		return Styles.Success.Render(string(i))
	case IconWarning, IconPending:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	default:
		return string(i)
	}
}

// EventStatusIcon maps a moderation status to its icon.
func EventStatusIcon(s events.EventStatus) Icon {
	if s == events.EventStatusApproved {
		return IconApproved
	}
	return IconPending
}

// RegistrationBadge renders a volunteer's registration status for an
// event, or a muted dash when the volunteer is not registered.
func RegistrationBadge(s *events.RegistrationStatus) string {
	if s == nil {
		if Plain() {
			return "-"
		}
		return Styles.Muted.Render("-")
	}
	switch *s {
	case events.RegistrationApproved:
		if Plain() {
			return "approved"
		}
		return Styles.Success.Render("approved")
	default:
		if Plain() {
			return "pending"
		}
		return Styles.Warning.Render("pending")
	}
}

// Title prints a styled title
func Title(text string) {
	if Plain() {
		fmt.Println(text)
		return
	}
	fmt.Println(Styles.Title.Render(text))
}

// Success prints a success message with checkmark
func Success(text string) {
	if Plain() {
		fmt.Printf("OK: %s\n", text)
		return
	}
	fmt.Printf("%s %s\n", IconSuccess.Render(), Styles.Success.Render(text))
}

// Warning prints a warning message to stderr
func Warning(text string) {
	if Plain() {
		fmt.Fprintf(os.Stderr, "WARN: %s\n", text)
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", IconWarning.Render(), Styles.Warning.Render(text))
}

// Error prints an error message to stderr
func Error(text string) {
	if Plain() {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", text)
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", IconError.Render(), Styles.Error.Render(text))
}

// Info prints an informational message
func Info(text string) {
	if Plain() {
		fmt.Println(text)
		return
	}
	fmt.Printf("%s %s\n", Styles.Muted.Render("│"), text)
}

// Muted prints secondary text
func Muted(text string) {
	if Plain() {
		fmt.Println(text)
		return
	}
	fmt.Println(Styles.Muted.Render(text))
}

// Box prints titled content in a rounded box
func Box(title, content string) {
	if Plain() {
		fmt.Printf("%s: %s\n", title, content)
		return
	}
	boxStyle := Styles.Box.Width(60)
	fmt.Println(boxStyle.Render(Styles.Title.Render(title) + "\n" + content))
}
