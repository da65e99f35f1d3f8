// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/volunteerhub/vhub/pkg/events"
	"github.com/volunteerhub/vhub/pkg/ux"
)

func runBoard(cmd *cobra.Command, args []string) {
	a, err := newApp()
	if err != nil {
		fail("startup failed", err)
	}
	defer a.close()

	a.board.Open(a.ctx)
	if msg := a.board.Err(); msg != "" {
		fail("fetching events", fmt.Errorf("%s", msg))
	}

	// Piped output gets the plain table instead of a TUI.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		printEventTable(a.board.FilteredEvents(), a.holder.User() != nil)
		return
	}

	m := newBoardModel(a)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fail("board failed", err)
	}
}

// boardModel is the bubbletea model for the interactive event browser.
type boardModel struct {
	app    *app
	table  table.Model
	status string
	err    string
}

// boardRefreshedMsg signals that a mutation finished and board state
// was refetched.
type boardRefreshedMsg struct {
	status string
	err    string
}

var (
	boardHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ux.ColorAmberBright)
	boardHelpStyle   = lipgloss.NewStyle().Foreground(ux.ColorMuted)
	boardErrStyle    = lipgloss.NewStyle().Foreground(ux.ColorError)
)

func newBoardModel(a *app) boardModel {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Date", Width: 16},
		{Title: "Title", Width: 32},
		{Title: "Channel", Width: 18},
		{Title: "Language", Width: 9},
		{Title: "Location", Width: 18},
		{Title: "Registration", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(ux.ColorBlueSky)
	styles.Selected = styles.Selected.Foreground(ux.ColorAmberBright).Bold(true)
	t.SetStyles(styles)

	m := boardModel{app: a, table: t}
	m.reloadRows()
	return m
}

// reloadRows rebuilds table rows from the board's current snapshot.
func (m *boardModel) reloadRows() {
	list := m.app.board.FilteredEvents()
	rows := make([]table.Row, 0, len(list))
	for _, e := range list {
		badge := "-"
		if status, ok := m.app.board.RegistrationStatusFor(e.ID); ok {
			badge = string(status)
		}
		rows = append(rows, table.Row{
			e.ID,
			e.Date.Local().Format("2006-01-02 15:04"),
			e.Title,
			e.Channel,
			e.Language,
			e.Location,
			badge,
		})
	}
	m.table.SetRows(rows)
}

func (m boardModel) selectedEventID() string {
	row := m.table.SelectedRow()
	if row == nil {
		return ""
	}
	return row[0]
}

func (m boardModel) Init() tea.Cmd {
	return nil
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, m.registerCmd()
		case "u":
			return m, m.unregisterCmd()
		case "g":
			return m, m.refreshCmd()
		}
	case boardRefreshedMsg:
		m.status = msg.status
		m.err = msg.err
		m.reloadRows()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m boardModel) registerCmd() tea.Cmd {
	id := m.selectedEventID()
	if id == "" {
		return nil
	}
	if m.app.holder.User() == nil {
		return func() tea.Msg {
			return boardRefreshedMsg{err: "Sign in with `vhub login` to register."}
		}
	}
	a := m.app
	return func() tea.Msg {
		status, err := a.board.RegisterToEvent(a.ctx, id)
		if err != nil {
			return boardRefreshedMsg{err: events.UserMessage(err)}
		}
		if status == events.RegistrationApproved {
			return boardRefreshedMsg{status: "Registered to event " + id + ": confirmed."}
		}
		return boardRefreshedMsg{status: "Registered to event " + id + ": pending approval."}
	}
}

func (m boardModel) unregisterCmd() tea.Cmd {
	id := m.selectedEventID()
	if id == "" {
		return nil
	}
	a := m.app
	if _, registered := a.board.RegistrationStatusFor(id); !registered {
		return func() tea.Msg {
			return boardRefreshedMsg{err: "Not registered to event " + id + "."}
		}
	}
	return func() tea.Msg {
		if err := a.board.UnregisterFromEvent(a.ctx, id); err != nil {
			return boardRefreshedMsg{err: events.UserMessage(err)}
		}
		return boardRefreshedMsg{status: "Withdrawn from event " + id + "."}
	}
}

func (m boardModel) refreshCmd() tea.Cmd {
	a := m.app
	return func() tea.Msg {
		if err := a.board.RefreshEvents(a.ctx); err != nil {
			return boardRefreshedMsg{err: events.UserMessage(err)}
		}
		a.board.RefreshPersonal(a.ctx)
		return boardRefreshedMsg{status: "Refreshed."}
	}
}

func (m boardModel) View() string {
	header := boardHeaderStyle.Render("Volunteer Events")
	help := boardHelpStyle.Render("↑/↓ move · r register · u unregister · g refresh · q quit")

	footer := ""
	switch {
	case m.err != "":
		footer = boardErrStyle.Render(m.err)
	case m.status != "":
		footer = boardHelpStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, m.table.View(), help, footer)
}
