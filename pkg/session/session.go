// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package session holds the authenticated user and bearer token for the
// vhub client.
//
// The Holder is a small state machine:
//
//	Anonymous -> Authenticating -> Authenticated
//	                            -> Anonymous   (restore with invalid token)
//	                            -> AuthError   (login/signup failure)
//
// Every transition is published to subscribers. pkg/eventboard subscribes
// so personal collections track the session without any UI-framework
// lifecycle involved: the causality is an explicit callback, synchronous
// and testable.
//
// The Holder is the single writer of the persisted token; everything else
// reads the token through it.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/volunteerhub/vhub/pkg/events"
)

// State is the session lifecycle state.
type State int

const (
	// StateAnonymous means no user is signed in.
	StateAnonymous State = iota

	// StateAuthenticating means a login, signup, or silent restore is in
	// flight.
	StateAuthenticating

	// StateAuthenticated means a user is signed in and a token is held.
	StateAuthenticated

	// StateAuthError means the last login or signup attempt failed. The
	// failure message is retained; any previously held token is untouched.
	StateAuthError
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "ANONYMOUS"
	case StateAuthenticating:
		return "AUTHENTICATING"
	case StateAuthenticated:
		return "AUTHENTICATED"
	case StateAuthError:
		return "AUTH_ERROR"
	default:
		return "UNKNOWN"
	}
}

// API is the slice of the backend client the Holder needs.
// *events.Client satisfies it; tests supply fakes.
type API interface {
	Login(ctx context.Context, email, password string) (string, events.User, error)
	Signup(ctx context.Context, req events.SignupRequest) error
	Me(ctx context.Context, token string) (events.User, error)
	Logout(ctx context.Context, token string) error
}

// TokenStore persists the bearer token between runs. Implementations must
// tolerate Load on a missing token by returning an empty string.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Change is the payload delivered to subscribers on every transition.
// User is nil unless State is StateAuthenticated.
type Change struct {
	State State
	User  *events.User
}

// Holder owns the current session. Safe for concurrent use.
type Holder struct {
	api   API
	store TokenStore
	log   *slog.Logger

	mu      sync.RWMutex
	state   State
	user    *events.User
	token   string
	lastErr string

	subMu  sync.Mutex
	subs   map[int]func(Change)
	nextID int
}

// Option configures a Holder.
type Option func(*Holder)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(h *Holder) { h.log = l }
}

// New creates an anonymous Holder. Call Restore to attempt a silent
// session restore from the token store; the constructor itself performs
// no I/O so tests can observe every transition.
func New(api API, store TokenStore, opts ...Option) *Holder {
	h := &Holder{
		api:   api,
		store: store,
		log:   slog.Default(),
		state: StateAnonymous,
		subs:  make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers fn for every subsequent state transition and returns
// an unsubscribe function. Callbacks run synchronously on the goroutine
// performing the transition, after the Holder's own state is settled.
func (h *Holder) Subscribe(fn func(Change)) func() {
	h.subMu.Lock()
	defer h.subMu.Unlock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	return func() {
		h.subMu.Lock()
		defer h.subMu.Unlock()
		delete(h.subs, id)
	}
}

// State returns the current session state.
func (h *Holder) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// User returns a copy of the signed-in user, or nil when anonymous.
func (h *Holder) User() *events.User {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return nil
	}
	u := *h.user
	return &u
}

// Token returns the bearer token, or empty when anonymous.
func (h *Holder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Err returns the retained message of the last failed login/signup, or
// empty.
func (h *Holder) Err() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastErr
}

// Restore attempts a silent session restore from the persisted token.
//
// With no persisted token the Holder stays anonymous. An invalid token is
// discarded from the store so the next run doesn't retry it. Restore never
// returns an error for an invalid token; only store I/O failures surface.
func (h *Holder) Restore(ctx context.Context) error {
	token, err := h.store.Load()
	if err != nil {
		return err
	}
	if token == "" {
		h.transition(StateAnonymous, nil, "", "")
		return nil
	}

	h.transition(StateAuthenticating, nil, token, "")
	user, err := h.api.Me(ctx, token)
	if err != nil {
		h.log.Debug("persisted token rejected, discarding", "error", err)
		if cerr := h.store.Clear(); cerr != nil {
			h.log.Warn("failed to clear invalid token", "error", cerr)
		}
		h.transition(StateAnonymous, nil, "", "")
		return nil
	}
	h.transition(StateAuthenticated, &user, token, "")
	h.log.Info("session restored", "user", user.Email)
	return nil
}

// Login authenticates and persists the token on success.
//
// On failure the Holder moves to StateAuthError with the message retained
// and any previously held token untouched, and the error is returned so
// callers can react (the CLI prints it, tests assert on it).
func (h *Holder) Login(ctx context.Context, email, password string) error {
	h.transitionKeepToken(StateAuthenticating, "")

	token, user, err := h.api.Login(ctx, email, password)
	if err != nil {
		h.transitionKeepToken(StateAuthError, events.UserMessage(err))
		return err
	}

	if err := h.store.Save(token); err != nil {
		h.log.Warn("token not persisted; session is in-memory only", "error", err)
	}
	h.transition(StateAuthenticated, &user, token, "")
	h.log.Info("logged in", "user", user.Email)
	return nil
}

// Signup creates the account and then logs in with the same credentials.
// A failure at either step surfaces as StateAuthError.
func (h *Holder) Signup(ctx context.Context, req events.SignupRequest) error {
	h.transitionKeepToken(StateAuthenticating, "")

	if err := h.api.Signup(ctx, req); err != nil {
		h.transitionKeepToken(StateAuthError, events.UserMessage(err))
		return err
	}
	return h.Login(ctx, req.Email, req.Password)
}

// Logout notifies the backend (best-effort) and unconditionally clears the
// local token and user.
func (h *Holder) Logout(ctx context.Context) error {
	token := h.Token()
	if token != "" {
		if err := h.api.Logout(ctx, token); err != nil {
			h.log.Debug("server logout failed; clearing local session anyway", "error", err)
		}
	}
	if err := h.store.Clear(); err != nil {
		h.log.Warn("failed to clear persisted token", "error", err)
	}
	h.transition(StateAnonymous, nil, "", "")
	h.log.Info("logged out")
	return nil
}

// SyncFromStore re-reads the persisted token and reconciles the in-memory
// session with it. Used by the token-file watcher when another vhub
// process logs in or out.
func (h *Holder) SyncFromStore(ctx context.Context) {
	token, err := h.store.Load()
	if err != nil {
		h.log.Warn("token store unreadable during sync", "error", err)
		return
	}
	current := h.Token()
	if token == current {
		return
	}
	if token == "" {
		h.log.Info("token cleared by another process; dropping session")
		h.transition(StateAnonymous, nil, "", "")
		return
	}
	h.log.Info("token changed by another process; re-validating")
	user, err := h.api.Me(ctx, token)
	if err != nil {
		h.transition(StateAnonymous, nil, "", "")
		return
	}
	h.transition(StateAuthenticated, &user, token, "")
}

// transition updates all session fields and notifies subscribers.
func (h *Holder) transition(state State, user *events.User, token, errMsg string) {
	h.mu.Lock()
	h.state = state
	h.user = user
	h.token = token
	h.lastErr = errMsg
	h.mu.Unlock()
	h.notify(Change{State: state, User: user})
}

// transitionKeepToken changes state without touching the held token or
// user pointer visibility rules for failures mid-login.
func (h *Holder) transitionKeepToken(state State, errMsg string) {
	h.mu.Lock()
	h.state = state
	if state != StateAuthenticated {
		h.user = nil
	}
	h.lastErr = errMsg
	user := h.user
	h.mu.Unlock()
	h.notify(Change{State: state, User: user})
}

func (h *Holder) notify(c Change) {
	h.subMu.Lock()
	fns := make([]func(Change), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.subMu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}
