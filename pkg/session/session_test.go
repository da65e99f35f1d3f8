// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunteerhub/vhub/pkg/events"
)

// fakeAPI implements API with swappable behavior per test.
type fakeAPI struct {
	loginFn  func(ctx context.Context, email, password string) (string, events.User, error)
	signupFn func(ctx context.Context, req events.SignupRequest) error
	meFn     func(ctx context.Context, token string) (events.User, error)
	logoutFn func(ctx context.Context, token string) error

	logoutCalls int
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (string, events.User, error) {
	return f.loginFn(ctx, email, password)
}

func (f *fakeAPI) Signup(ctx context.Context, req events.SignupRequest) error {
	return f.signupFn(ctx, req)
}

func (f *fakeAPI) Me(ctx context.Context, token string) (events.User, error) {
	return f.meFn(ctx, token)
}

func (f *fakeAPI) Logout(ctx context.Context, token string) error {
	f.logoutCalls++
	if f.logoutFn != nil {
		return f.logoutFn(ctx, token)
	}
	return nil
}

var testUser = events.User{ID: "1", FirstName: "Dana", LastName: "Mizrahi", Email: "dana@example.org"}

func okAPI() *fakeAPI {
	return &fakeAPI{
		loginFn: func(_ context.Context, email, password string) (string, events.User, error) {
			if password != "correct" {
				return "", events.User{}, &events.OpError{Op: "login", Kind: events.KindAuthRequired, Message: "Invalid credentials"}
			}
			return "tok-1", testUser, nil
		},
		signupFn: func(context.Context, events.SignupRequest) error { return nil },
		meFn: func(_ context.Context, token string) (events.User, error) {
			if token != "tok-1" {
				return events.User{}, &events.OpError{Op: "me", Kind: events.KindAuthRequired, Message: "Session check failed"}
			}
			return testUser, nil
		},
	}
}

func TestRestoreWithoutTokenStaysAnonymous(t *testing.T) {
	h := New(okAPI(), &MemoryTokenStore{})
	require.NoError(t, h.Restore(context.Background()))
	assert.Equal(t, StateAnonymous, h.State())
	assert.Nil(t, h.User())
	assert.Empty(t, h.Token())
}

func TestRestoreWithValidToken(t *testing.T) {
	store := &MemoryTokenStore{}
	require.NoError(t, store.Save("tok-1"))

	var states []State
	h := New(okAPI(), store)
	h.Subscribe(func(c Change) { states = append(states, c.State) })

	require.NoError(t, h.Restore(context.Background()))
	assert.Equal(t, StateAuthenticated, h.State())
	require.NotNil(t, h.User())
	assert.Equal(t, "dana@example.org", h.User().Email)
	assert.Equal(t, []State{StateAuthenticating, StateAuthenticated}, states)
}

func TestRestoreDiscardsInvalidToken(t *testing.T) {
	store := &MemoryTokenStore{}
	require.NoError(t, store.Save("stale"))

	h := New(okAPI(), store)
	require.NoError(t, h.Restore(context.Background()))

	assert.Equal(t, StateAnonymous, h.State())
	left, _ := store.Load()
	assert.Empty(t, left, "invalid token must be discarded from the store")
}

func TestLoginSuccessPersistsToken(t *testing.T) {
	store := &MemoryTokenStore{}
	h := New(okAPI(), store)

	require.NoError(t, h.Login(context.Background(), "dana@example.org", "correct"))

	assert.Equal(t, StateAuthenticated, h.State())
	assert.Equal(t, "tok-1", h.Token())
	saved, _ := store.Load()
	assert.Equal(t, "tok-1", saved)
}

func TestLoginFailureRetainsMessageAndRethrows(t *testing.T) {
	h := New(okAPI(), &MemoryTokenStore{})

	err := h.Login(context.Background(), "dana@example.org", "wrong")
	require.Error(t, err)
	assert.Equal(t, StateAuthError, h.State())
	assert.Equal(t, "Invalid credentials", h.Err())
	assert.Nil(t, h.User())
}

func TestSignupChainsIntoLogin(t *testing.T) {
	api := okAPI()
	var signedUp events.SignupRequest
	api.signupFn = func(_ context.Context, req events.SignupRequest) error {
		signedUp = req
		return nil
	}

	h := New(api, &MemoryTokenStore{})
	err := h.Signup(context.Background(), events.SignupRequest{
		FirstName: "Dana", Email: "dana@example.org",
		Password: "correct", ConfirmPassword: "correct",
	})
	require.NoError(t, err)
	assert.Equal(t, "dana@example.org", signedUp.Email)
	assert.Equal(t, StateAuthenticated, h.State(), "signup performs login with the same credentials")
}

func TestSignupFailureSurfacesAsAuthError(t *testing.T) {
	api := okAPI()
	api.signupFn = func(context.Context, events.SignupRequest) error {
		return &events.OpError{Op: "signup", Kind: events.KindRequestFailed, Message: "email already registered"}
	}

	h := New(api, &MemoryTokenStore{})
	err := h.Signup(context.Background(), events.SignupRequest{Email: "dup@example.org"})
	require.Error(t, err)
	assert.Equal(t, StateAuthError, h.State())
	assert.Equal(t, "email already registered", h.Err())
}

func TestLogoutClearsLocallyEvenWhenServerFails(t *testing.T) {
	api := okAPI()
	api.logoutFn = func(context.Context, string) error {
		return errors.New("backend down")
	}

	store := &MemoryTokenStore{}
	h := New(api, store)
	require.NoError(t, h.Login(context.Background(), "dana@example.org", "correct"))

	var last Change
	h.Subscribe(func(c Change) { last = c })

	require.NoError(t, h.Logout(context.Background()))
	assert.Equal(t, 1, api.logoutCalls, "server is notified best-effort")
	assert.Equal(t, StateAnonymous, h.State())
	assert.Empty(t, h.Token())
	saved, _ := store.Load()
	assert.Empty(t, saved)
	assert.Equal(t, StateAnonymous, last.State)
	assert.Nil(t, last.User)
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	h := New(okAPI(), &MemoryTokenStore{})
	calls := 0
	unsub := h.Subscribe(func(Change) { calls++ })

	require.NoError(t, h.Login(context.Background(), "dana@example.org", "correct"))
	after := calls
	unsub()
	require.NoError(t, h.Logout(context.Background()))
	assert.Equal(t, after, calls)
}

func TestSyncFromStorePicksUpExternalLogout(t *testing.T) {
	store := &MemoryTokenStore{}
	h := New(okAPI(), store)
	require.NoError(t, h.Login(context.Background(), "dana@example.org", "correct"))

	// Another process clears the token behind our back.
	require.NoError(t, store.Clear())
	h.SyncFromStore(context.Background())

	assert.Equal(t, StateAnonymous, h.State())
}

func TestFileTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	store := NewFileTokenStore(path)

	tok, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, tok, "missing file is an empty token")

	require.NoError(t, store.Save("tok-9"))
	tok, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-9", tok)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear(), "clearing an absent token is a no-op")
	tok, _ = store.Load()
	assert.Empty(t, tok)
}
