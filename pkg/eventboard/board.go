// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package eventboard aggregates backend event state into one consistent,
// filterable snapshot and coordinates mutations against it.
//
// The Board holds three parallel collections — all events, the current
// user's events, and the user's registration index — and derives filtered
// and per-event registration views from them. It never patches local
// state after a write: every successful mutation triggers a refetch of
// exactly the collections it could have affected, so reads always reflect
// the last known server truth (mutate-then-refetch). Correctness beats
// perceived latency at this request volume.
//
// The Board subscribes to session transitions. When the session becomes
// anonymous the personal collections are cleared; when a user signs in
// they are fetched. No caller action is needed in either case.
//
// Background fetch failures are recorded and readable via Err(); the
// previous successful snapshot stays in place, because stale-but-available
// data beats a blank board.
package eventboard

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/volunteerhub/vhub/pkg/events"
	"github.com/volunteerhub/vhub/pkg/session"
)

// StoreClient is the slice of the backend client the Board uses.
// *events.Client satisfies it; tests supply fakes.
type StoreClient interface {
	ListEvents(ctx context.Context) ([]events.Event, error)
	ListMyEvents(ctx context.Context, token string) ([]events.Event, error)

	CreateEvent(ctx context.Context, token string, req events.CreateEventRequest) error
	UpdateEvent(ctx context.Context, token, eventID string, upd events.EventUpdate) error
	DeleteEvent(ctx context.Context, token, eventID string) error
	ApproveEvent(ctx context.Context, token, eventID string) error
	UnapproveEvent(ctx context.Context, token, eventID string) error

	RegisterToEvent(ctx context.Context, token, eventID string) (events.RegistrationStatus, error)
	UnregisterFromEvent(ctx context.Context, token, eventID string) error
	ListEventPendingRegistrations(ctx context.Context, token, eventID string) ([]events.Registration, error)
	ApproveRegistration(ctx context.Context, token, eventID, userID string) error
	RejectRegistration(ctx context.Context, token, eventID, userID string) error
}

// Session is the slice of pkg/session the Board depends on.
type Session interface {
	Token() string
	User() *events.User
	Subscribe(fn func(session.Change)) func()
}

// RegistrationRef is one entry of the user's registration index, keyed by
// event id.
type RegistrationRef struct {
	EventID string
	Status  events.RegistrationStatus
}

// Board is the aggregation and mutation layer. Safe for concurrent use.
type Board struct {
	client  StoreClient
	session Session
	log     *slog.Logger

	// ctx drives fetches triggered by session transitions, which have no
	// caller to supply one.
	ctx context.Context

	mu            sync.RWMutex
	events        []events.Event
	myEvents      []events.Event
	registrations []RegistrationRef
	filters       events.FilterOptions
	lastErr       string
	loading       int

	// Per-entity in-flight markers so the UI disables only the affected
	// control.
	registeringID   string
	unregisteringID string

	// personalGen invalidates stale personal fetches: a fetch started
	// before a session change must not overwrite state written after it.
	personalGen uint64

	unsubscribe func()
}

// Option configures a Board.
type Option func(*Board)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Board) { b.log = l }
}

// New creates a Board bound to the session. It immediately subscribes to
// session transitions; it does not fetch anything until Open (or a session
// transition) does.
//
// ctx bounds fetches the Board starts on its own (session-triggered
// refreshes). Cancel it to guarantee no late response is applied.
func New(ctx context.Context, client StoreClient, sess Session, opts ...Option) *Board {
	b := &Board{
		client:  client,
		session: sess,
		log:     slog.Default(),
		ctx:     ctx,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.unsubscribe = sess.Subscribe(b.onSessionChange)
	return b
}

// Open performs the initial loads: the public event list unconditionally,
// and the personal collections when a user is already signed in. Filter
// state is reset so filters never leak across uses.
func (b *Board) Open(ctx context.Context) {
	b.ResetFilters()
	b.RefreshEvents(ctx)
	if b.session.User() != nil {
		b.RefreshPersonal(ctx)
	}
}

// Close detaches the Board from the session. Fetches already in flight
// are discarded by the generation guard when they land.
func (b *Board) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
}

// onSessionChange reacts synchronously to session transitions: personal
// collections track the signed-in user and clear on anonymity.
func (b *Board) onSessionChange(c session.Change) {
	switch {
	case c.State == session.StateAuthenticated:
		b.RefreshPersonal(b.ctx)
	case c.State == session.StateAnonymous:
		b.clearPersonal()
	}
}

// -----------------------------------------------------------------------------
// Reads
// -----------------------------------------------------------------------------

// Events returns a copy of the full event list.
func (b *Board) Events() []events.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return copyEvents(b.events)
}

// MyEvents returns a copy of the current user's events, with
// RegistrationStatus populated.
func (b *Board) MyEvents() []events.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return copyEvents(b.myEvents)
}

// Registrations returns a copy of the user's registration index.
func (b *Board) Registrations() []RegistrationRef {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]RegistrationRef, len(b.registrations))
	copy(out, b.registrations)
	return out
}

// Filters returns the active filter set.
func (b *Board) Filters() events.FilterOptions {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.filters
}

// FilteredEvents derives the filtered view: an event passes iff every
// restricted dimension contains its value (AND across dimensions, OR of
// membership within one). Unrestricted dimensions impose nothing.
func (b *Board) FilteredEvents() []events.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.filters.Apply(b.events)
}

// SetFilters replaces the active filter set wholesale; it is not merged
// with the previous one.
func (b *Board) SetFilters(f events.FilterOptions) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filters = f
}

// ResetFilters clears every filter dimension. Idempotent.
func (b *Board) ResetFilters() {
	b.SetFilters(events.FilterOptions{})
}

// RegistrationStatusFor returns the current user's registration status for
// the event, if any.
func (b *Board) RegistrationStatusFor(eventID string) (events.RegistrationStatus, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ref := range b.registrations {
		if ref.EventID == eventID {
			return ref.Status, true
		}
	}
	return "", false
}

// CanRegister reports whether the event is open to the user: true unless
// a registration (pending or approved) already exists for it.
func (b *Board) CanRegister(eventID string) bool {
	_, registered := b.RegistrationStatusFor(eventID)
	return !registered
}

// Err returns the message of the most recent background fetch failure, or
// empty. A failure never clears the previous snapshot.
func (b *Board) Err() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastErr
}

// Loading reports whether any collection fetch is in flight.
func (b *Board) Loading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loading > 0
}

// RegisteringID returns the event id with a register call in flight, or
// empty.
func (b *Board) RegisteringID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.registeringID
}

// UnregisteringID returns the event id with an unregister call in flight,
// or empty.
func (b *Board) UnregisteringID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.unregisteringID
}

// -----------------------------------------------------------------------------
// Fetches
// -----------------------------------------------------------------------------

// RefreshEvents refetches the public event list. On failure the error is
// recorded (readable via Err) and returned; the previous list stays.
func (b *Board) RefreshEvents(ctx context.Context) error {
	b.beginLoad()
	defer b.endLoad()

	list, err := b.client.ListEvents(ctx)
	if err != nil {
		b.recordErr(err)
		return err
	}

	b.mu.Lock()
	b.events = list
	b.lastErr = ""
	b.mu.Unlock()
	b.log.Debug("events refreshed", "count", len(list))
	return nil
}

// RefreshPersonal refetches the user's events and rebuilds the
// registration index from them. With no session it clears both instead.
//
// A concurrent session transition invalidates the fetch: results landing
// after the transition are dropped, never applied to newer state.
func (b *Board) RefreshPersonal(ctx context.Context) error {
	token := b.session.Token()
	if token == "" {
		b.clearPersonal()
		return nil
	}

	b.mu.Lock()
	b.personalGen++
	gen := b.personalGen
	b.mu.Unlock()

	b.beginLoad()
	defer b.endLoad()

	mine, err := b.client.ListMyEvents(ctx, token)
	if err != nil {
		b.recordErr(err)
		return err
	}

	regs := make([]RegistrationRef, 0, len(mine))
	for _, e := range mine {
		if e.RegistrationStatus != nil {
			regs = append(regs, RegistrationRef{EventID: e.ID, Status: *e.RegistrationStatus})
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.personalGen != gen {
		b.log.Debug("stale personal fetch dropped", "gen", gen)
		return nil
	}
	b.myEvents = mine
	b.registrations = regs
	b.lastErr = ""
	return nil
}

// PendingRegistrations lists registrations awaiting review for one event.
// Admin-only; a pass-through query, not cached on the Board.
func (b *Board) PendingRegistrations(ctx context.Context, eventID string) ([]events.Registration, error) {
	return b.client.ListEventPendingRegistrations(ctx, b.session.Token(), eventID)
}

func (b *Board) clearPersonal() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.personalGen++
	b.myEvents = nil
	b.registrations = nil
}

func (b *Board) beginLoad() {
	b.mu.Lock()
	b.loading++
	b.mu.Unlock()
}

func (b *Board) endLoad() {
	b.mu.Lock()
	b.loading--
	b.mu.Unlock()
}

func (b *Board) recordErr(err error) {
	b.mu.Lock()
	b.lastErr = events.UserMessage(err)
	b.mu.Unlock()
}

// -----------------------------------------------------------------------------
// Mutations
// -----------------------------------------------------------------------------

// Every mutation follows the same contract: one HTTP call with the current
// session token; on success, refetch every collection the mutation could
// have affected; on failure, return the typed error with no local state
// touched. Refetch failures are recorded, not returned — the mutation
// itself succeeded and the stale snapshot remains readable.

// CreateEvent submits a new event and refetches the public list (and the
// personal one when signed in).
func (b *Board) CreateEvent(ctx context.Context, req events.CreateEventRequest) error {
	if err := b.client.CreateEvent(ctx, b.session.Token(), req); err != nil {
		return err
	}
	b.refetch(ctx)
	return nil
}

// UpdateEvent applies a partial update and refetches affected collections.
func (b *Board) UpdateEvent(ctx context.Context, eventID string, upd events.EventUpdate) error {
	if err := b.client.UpdateEvent(ctx, b.session.Token(), eventID, upd); err != nil {
		return err
	}
	b.refetch(ctx)
	return nil
}

// DeleteEvent removes an event; after the refetch its id is absent from
// both events and myEvents.
func (b *Board) DeleteEvent(ctx context.Context, eventID string) error {
	if err := b.client.DeleteEvent(ctx, b.session.Token(), eventID); err != nil {
		return err
	}
	b.refetch(ctx)
	return nil
}

// ApproveEvent publishes a pending event.
func (b *Board) ApproveEvent(ctx context.Context, eventID string) error {
	if err := b.client.ApproveEvent(ctx, b.session.Token(), eventID); err != nil {
		return err
	}
	b.refetch(ctx)
	return nil
}

// UnapproveEvent reverts an event to pending.
func (b *Board) UnapproveEvent(ctx context.Context, eventID string) error {
	if err := b.client.UnapproveEvent(ctx, b.session.Token(), eventID); err != nil {
		return err
	}
	b.refetch(ctx)
	return nil
}

// RegisterToEvent signs the user up for the event and returns the
// resulting status ("pending" or "approved") for user messaging. While in
// flight, RegisteringID reports the event id; the marker clears on every
// outcome.
func (b *Board) RegisterToEvent(ctx context.Context, eventID string) (events.RegistrationStatus, error) {
	b.mu.Lock()
	b.registeringID = eventID
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.registeringID = ""
		b.mu.Unlock()
	}()

	status, err := b.client.RegisterToEvent(ctx, b.session.Token(), eventID)
	if err != nil {
		return "", err
	}
	// Only personal state can have changed.
	b.RefreshPersonal(ctx)
	return status, nil
}

// UnregisterFromEvent withdraws the user's registration. While in flight,
// UnregisteringID reports the event id.
func (b *Board) UnregisterFromEvent(ctx context.Context, eventID string) error {
	b.mu.Lock()
	b.unregisteringID = eventID
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.unregisteringID = ""
		b.mu.Unlock()
	}()

	if err := b.client.UnregisterFromEvent(ctx, b.session.Token(), eventID); err != nil {
		return err
	}
	b.refetch(ctx)
	return nil
}

// ApproveRegistration confirms a volunteer's spot on an event (admin).
func (b *Board) ApproveRegistration(ctx context.Context, eventID, userID string) error {
	if err := b.client.ApproveRegistration(ctx, b.session.Token(), eventID, userID); err != nil {
		return err
	}
	b.refetch(ctx)
	return nil
}

// RejectRegistration removes a volunteer's pending registration (admin).
func (b *Board) RejectRegistration(ctx context.Context, eventID, userID string) error {
	if err := b.client.RejectRegistration(ctx, b.session.Token(), eventID, userID); err != nil {
		return err
	}
	b.refetch(ctx)
	return nil
}

// refetch reloads the public list and, when requested and signed in, the
// personal collections in parallel. Failures are recorded on the Board.
func (b *Board) refetch(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b.RefreshEvents(gctx)
		return nil
	})
	if b.session.User() != nil {
		g.Go(func() error {
			b.RefreshPersonal(gctx)
			return nil
		})
	}
	g.Wait()
}

func copyEvents(list []events.Event) []events.Event {
	out := make([]events.Event, len(list))
	copy(out, list)
	return out
}
