// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/volunteerhub/vhub/pkg/eventboard"
	"github.com/volunteerhub/vhub/pkg/events"
	"github.com/volunteerhub/vhub/pkg/session"
	"github.com/volunteerhub/vhub/pkg/ux"
)

// app wires the backend client, session holder and event board for one
// command invocation.
type app struct {
	ctx    context.Context
	cancel context.CancelFunc

	client *events.Client
	holder *session.Holder
	board  *eventboard.Board

	stopWatch func() error
}

// newApp builds the stack from the loaded config and restores any
// persisted session. Callers must call close().
func newApp() (*app, error) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	timeout := events.DefaultTimeout
	if cfg.Backend.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Backend.TimeoutSeconds) * time.Second
	}
	client := events.NewClient(cfg.Backend.BaseURL,
		events.WithLogger(logger.Slog()),
		events.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	store := session.NewFileTokenStore(cfg.Auth.TokenPath)
	holder := session.New(client, store, session.WithLogger(logger.Slog()))

	if err := holder.Restore(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("restoring session: %w", err)
	}

	stopWatch, err := session.WatchTokenFile(ctx, holder, store, logger.Slog())
	if err != nil {
		// Cross-process sync is best-effort; the CLI works without it.
		logger.Warn("token file watch unavailable", "error", err.Error())
		stopWatch = func() error { return nil }
	}

	board := eventboard.New(ctx, client, holder, eventboard.WithLogger(logger.Slog()))

	return &app{
		ctx:       ctx,
		cancel:    cancel,
		client:    client,
		holder:    holder,
		board:     board,
		stopWatch: stopWatch,
	}, nil
}

func (a *app) close() {
	a.board.Close()
	_ = a.stopWatch()
	a.cancel()
}

// requireUser exits unless a session is active.
func (a *app) requireUser() *events.User {
	u := a.holder.User()
	if u == nil {
		ux.Error("Not signed in. Run `vhub login` first.")
		os.Exit(CLIExitError)
	}
	return u
}

// requireAdmin exits unless the signed-in user has admin permissions.
func (a *app) requireAdmin() *events.User {
	u := a.requireUser()
	if !u.IsAdmin() {
		ux.Error("This command needs coordinator (admin) access.")
		os.Exit(CLIExitError)
	}
	return u
}

// fail prints the error in the active output mode and exits.
func fail(msg string, err error) {
	if jsonOutput {
		OutputError(true, msg, err)
	} else {
		ux.Error(fmt.Sprintf("%s: %s", msg, events.UserMessage(err)))
		if events.IsAuthRequired(err) {
			ux.Muted("Run `vhub login` to sign in.")
		}
	}
	os.Exit(CLIExitError)
}
