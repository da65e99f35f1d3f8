// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package devserver

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunteerhub/vhub/pkg/events"
)

// newTestClient starts a dev server and returns a real backend client
// pointed at it. The full stack is exercised: client encoding, gin
// routing, and response decoding.
func newTestClient(t *testing.T) *events.Client {
	t.Helper()
	srv := New()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return events.NewClient(ts.URL)
}

func adminToken(t *testing.T, client *events.Client) string {
	t.Helper()
	token, u, err := client.Login(context.Background(), DefaultAdminEmail, DefaultAdminPassword)
	require.NoError(t, err)
	require.True(t, u.IsAdmin())
	return token
}

func signupVolunteer(t *testing.T, client *events.Client, email string) string {
	t.Helper()
	require.NoError(t, client.Signup(context.Background(), events.SignupRequest{
		FirstName:       "Noa",
		LastName:        "Peretz",
		Email:           email,
		Role:            "Guide",
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
	}))
	token, u, err := client.Login(context.Background(), email, "hunter22")
	require.NoError(t, err)
	require.False(t, u.IsAdmin())
	return token
}

func TestLoginRejectsBadPassword(t *testing.T) {
	client := newTestClient(t)

	_, _, err := client.Login(context.Background(), DefaultAdminEmail, "nope")
	require.Error(t, err)
	assert.True(t, events.IsAuthRequired(err))
	assert.Equal(t, "Invalid credentials", events.UserMessage(err))
}

func TestEventLifecycle(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	token := adminToken(t, client)

	date := time.Date(2026, 10, 18, 17, 0, 0, 0, time.UTC)
	require.NoError(t, client.CreateEvent(ctx, token, events.CreateEventRequest{
		Title:    "Community Briefing",
		Channel:  "Virtual",
		Language: "English",
		Location: "Zoom",
		Date:     date,
	}))

	all, err := client.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	created := all[0]
	assert.Equal(t, "Community Briefing", created.Title)
	assert.Equal(t, events.EventStatusPending, created.Status)
	assert.True(t, created.Date.Equal(date))
	assert.Nil(t, created.RegistrationStatus)

	require.NoError(t, client.ApproveEvent(ctx, token, created.ID))
	all, err = client.ListEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, events.EventStatusApproved, all[0].Status)

	require.NoError(t, client.UnapproveEvent(ctx, token, created.ID))
	all, err = client.ListEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, events.EventStatusPending, all[0].Status)

	newTitle := "Community Briefing (Rescheduled)"
	require.NoError(t, client.UpdateEvent(ctx, token, created.ID, events.EventUpdate{Title: &newTitle}))
	all, err = client.ListEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, newTitle, all[0].Title)
	assert.Equal(t, "Virtual", all[0].Channel, "unpatched fields keep their values")

	require.NoError(t, client.DeleteEvent(ctx, token, created.ID))
	all, err = client.ListEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRegistrationRoundTrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	admin := adminToken(t, client)

	require.NoError(t, client.CreateEvent(ctx, admin, events.CreateEventRequest{
		Title:    "Square Shift",
		Channel:  "Hostages Square",
		Language: "Hebrew",
		Location: "Hostages Square",
		Date:     time.Date(2026, 11, 2, 18, 0, 0, 0, time.UTC),
	}))
	all, err := client.ListEvents(ctx)
	require.NoError(t, err)
	eventID := all[0].ID
	require.NoError(t, client.ApproveEvent(ctx, admin, eventID))

	volunteer := signupVolunteer(t, client, "noa@example.org")

	status, err := client.RegisterToEvent(ctx, volunteer, eventID)
	require.NoError(t, err)
	assert.Equal(t, events.RegistrationPending, status)

	mine, err := client.ListMyEvents(ctx, volunteer)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].RegistrationStatus)
	assert.Equal(t, events.RegistrationPending, *mine[0].RegistrationStatus)

	pending, err := client.ListEventPendingRegistrations(ctx, admin, eventID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "noa@example.org", pending[0].UserEmail)
	assert.Equal(t, "Square Shift", pending[0].EventTitle)

	require.NoError(t, client.ApproveRegistration(ctx, admin, eventID, pending[0].UserID))

	mine, err = client.ListMyEvents(ctx, volunteer)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, events.RegistrationApproved, *mine[0].RegistrationStatus)

	pending, err = client.ListEventPendingRegistrations(ctx, admin, eventID)
	require.NoError(t, err)
	assert.Empty(t, pending, "approval removes the registration from the review queue")

	require.NoError(t, client.UnregisterFromEvent(ctx, volunteer, eventID))
	mine, err = client.ListMyEvents(ctx, volunteer)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestRejectRegistrationRemovesIt(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	admin := adminToken(t, client)

	require.NoError(t, client.CreateEvent(ctx, admin, events.CreateEventRequest{
		Title:    "Office Tour",
		Channel:  "Donations",
		Language: "English",
		Location: "Offices",
		Date:     time.Date(2026, 11, 9, 10, 0, 0, 0, time.UTC),
	}))
	all, err := client.ListEvents(ctx)
	require.NoError(t, err)
	eventID := all[0].ID

	volunteer := signupVolunteer(t, client, "reject-me@example.org")
	_, err = client.RegisterToEvent(ctx, volunteer, eventID)
	require.NoError(t, err)

	pending, err := client.ListEventPendingRegistrations(ctx, admin, eventID)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, client.RejectRegistration(ctx, admin, eventID, pending[0].UserID))

	mine, err := client.ListMyEvents(ctx, volunteer)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestAdminEndpointsForbiddenForVolunteers(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	volunteer := signupVolunteer(t, client, "plain@example.org")
	err := client.CreateEvent(ctx, volunteer, events.CreateEventRequest{
		Title:    "Not Allowed",
		Channel:  "Virtual",
		Language: "English",
		Location: "Zoom",
		Date:     time.Now().UTC(),
	})
	require.Error(t, err)
	assert.False(t, events.IsAuthRequired(err), "forbidden is a request failure, not a login prompt")
	assert.Equal(t, "admin access required", events.UserMessage(err))
}

func TestSignupValidation(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	err := client.Signup(ctx, events.SignupRequest{
		FirstName:       "Noa",
		LastName:        "Peretz",
		Email:           "noa@example.org",
		Role:            "Wizard",
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
	})
	require.Error(t, err, "unknown role is rejected")

	err = client.Signup(ctx, events.SignupRequest{
		FirstName:       "Noa",
		LastName:        "Peretz",
		Email:           "noa@example.org",
		Role:            "Guide",
		Password:        "hunter22",
		ConfirmPassword: "different",
	})
	require.Error(t, err, "password confirmation mismatch is rejected")
}

func TestDuplicateSignupConflicts(t *testing.T) {
	client := newTestClient(t)
	signupVolunteer(t, client, "dup@example.org")

	err := client.Signup(context.Background(), events.SignupRequest{
		FirstName:       "Second",
		LastName:        "Copy",
		Email:           "dup@example.org",
		Role:            "Guide",
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
	})
	require.Error(t, err)
	assert.Equal(t, "email already registered", events.UserMessage(err))
}

func TestLogoutRevokesToken(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	token := adminToken(t, client)

	require.NoError(t, client.Logout(ctx, token))

	_, err := client.Me(ctx, token)
	require.Error(t, err)
	assert.True(t, events.IsAuthRequired(err))
}

func TestSeedSampleEvents(t *testing.T) {
	srv := New()
	srv.SeedSampleEvents()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := events.NewClient(ts.URL)
	all, err := client.ListEvents(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
