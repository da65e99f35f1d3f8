// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds a single backend request. No method retries, so
// this is also the worst-case wait a caller sees.
const DefaultTimeout = 30 * time.Second

// Client talks to the coordination backend. One method per endpoint; each
// takes a context for cancellation and returns decoded domain values or an
// *OpError.
//
// The client is stateless apart from its configuration and is safe for
// concurrent use. Tokens are passed per call: session ownership lives in
// pkg/session, not here.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, typically to shorten
// timeouts in tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend URL.
func (c *Client) BaseURL() string { return c.baseURL }

// -----------------------------------------------------------------------------
// Wire Types
// -----------------------------------------------------------------------------

// eventRow is an event as the backend sends it: numeric or string id,
// ISO-8601 date string, string statuses.
type eventRow struct {
	ID                       json.Number `json:"id"`
	Title                    string      `json:"title"`
	Description              string      `json:"description"`
	Channel                  string      `json:"channel"`
	Language                 string      `json:"language"`
	Location                 string      `json:"location"`
	TargetAudience           string      `json:"target_audience"`
	GroupDescription         string      `json:"group_description"`
	AdditionalNotes          string      `json:"additional_notes"`
	ContactPhoneNumber       string      `json:"contact_phone_number"`
	Date                     string      `json:"date"`
	GroupSize                int         `json:"group_size"`
	NumInstructorsNeeded     int         `json:"num_instructors_needed"`
	NumRepresentativesNeeded int         `json:"num_representatives_needed"`
	Status                   string      `json:"status"`
	RegistrationStatus       string      `json:"registration_status,omitempty"`
}

func (r eventRow) toDomain() (Event, error) {
	date, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		return Event{}, fmt.Errorf("event %s: bad date %q: %w", r.ID.String(), r.Date, err)
	}
	status, err := ParseEventStatus(r.Status)
	if err != nil {
		return Event{}, fmt.Errorf("event %s: %w", r.ID.String(), err)
	}
	e := Event{
		ID:                       r.ID.String(),
		Title:                    r.Title,
		Description:              r.Description,
		Channel:                  r.Channel,
		Language:                 r.Language,
		Location:                 r.Location,
		TargetAudience:           r.TargetAudience,
		GroupDescription:         r.GroupDescription,
		AdditionalNotes:          r.AdditionalNotes,
		ContactPhoneNumber:       r.ContactPhoneNumber,
		Date:                     date,
		GroupSize:                r.GroupSize,
		NumInstructorsNeeded:     r.NumInstructorsNeeded,
		NumRepresentativesNeeded: r.NumRepresentativesNeeded,
		Status:                   status,
	}
	if r.RegistrationStatus != "" {
		rs, err := ParseRegistrationStatus(r.RegistrationStatus)
		if err != nil {
			return Event{}, fmt.Errorf("event %s: %w", r.ID.String(), err)
		}
		e.RegistrationStatus = &rs
	}
	return e, nil
}

// registrationRow mirrors the backend's registration shape, with the
// denormalized event fields for admin display.
type registrationRow struct {
	UserID        json.Number `json:"user_id"`
	UserEmail     string      `json:"user_email"`
	UserRole      string      `json:"user_role"`
	EventID       json.Number `json:"event_id"`
	EventTitle    string      `json:"event_title"`
	EventDate     string      `json:"event_date"`
	EventChannel  string      `json:"event_channel"`
	EventLanguage string      `json:"event_language"`
	EventLocation string      `json:"event_location"`
	Status        string      `json:"status"`
}

func (r registrationRow) toDomain() (Registration, error) {
	date, err := time.Parse(time.RFC3339, r.EventDate)
	if err != nil {
		return Registration{}, fmt.Errorf("registration for event %s: bad date %q: %w", r.EventID.String(), r.EventDate, err)
	}
	status, err := ParseRegistrationStatus(r.Status)
	if err != nil {
		return Registration{}, fmt.Errorf("registration for event %s: %w", r.EventID.String(), err)
	}
	return Registration{
		UserID:        r.UserID.String(),
		UserEmail:     r.UserEmail,
		UserRole:      r.UserRole,
		EventID:       r.EventID.String(),
		EventTitle:    r.EventTitle,
		EventDate:     date,
		EventChannel:  r.EventChannel,
		EventLanguage: r.EventLanguage,
		EventLocation: r.EventLocation,
		Status:        status,
	}, nil
}

// userRow is the user shape from /login and /me.
type userRow struct {
	ID          json.Number `json:"id"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Email       string      `json:"email"`
	Permissions string      `json:"permissions"`
	Role        string      `json:"role"`
}

func (r userRow) toDomain() User {
	return User{
		ID:          r.ID.String(),
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Permissions: r.Permissions,
		Role:        r.Role,
	}
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Message string `json:"message"`
}

// -----------------------------------------------------------------------------
// Request Plumbing
// -----------------------------------------------------------------------------

// call describes a single backend request.
type call struct {
	op       string // operation name for errors, e.g. "listEvents"
	method   string
	path     string
	token    string // bearer token; empty for public endpoints
	needAuth bool   // fail with KindAuthRequired if token is empty
	body     any    // JSON-encoded when non-nil
	fallback string // message used when the error body doesn't parse
}

// do executes the call and, when out is non-nil, decodes the 2xx response
// body into it. Every failure is an *OpError; the server's message is
// preferred over the fallback when the error body parses.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	if cl.needAuth && cl.token == "" {
		return &OpError{Op: cl.op, Kind: KindAuthRequired, Message: "Authentication token not found."}
	}

	var reqBody io.Reader
	if cl.body != nil {
		buf, err := json.Marshal(cl.body)
		if err != nil {
			return &OpError{Op: cl.op, Kind: KindRequestFailed, Message: cl.fallback, Err: err}
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, reqBody)
	if err != nil {
		return &OpError{Op: cl.op, Kind: KindRequestFailed, Message: cl.fallback, Err: err}
	}
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &OpError{Op: cl.op, Kind: KindRequestFailed, Message: cl.fallback, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return &OpError{
			Op:         cl.op,
			Kind:       KindAuthRequired,
			StatusCode: resp.StatusCode,
			Message:    serverMessage(resp.Body, cl.fallback),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &OpError{
			Op:         cl.op,
			Kind:       KindRequestFailed,
			StatusCode: resp.StatusCode,
			Message:    serverMessage(resp.Body, cl.fallback),
		}
	}

	if out == nil {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return &OpError{Op: cl.op, Kind: KindDecodeFailed, Message: cl.fallback, Err: err}
	}
	c.log.Debug("backend call succeeded", "op", cl.op, "status", resp.StatusCode)
	return nil
}

// serverMessage reads the error envelope, falling back when the body is
// absent or malformed.
func serverMessage(body io.Reader, fallback string) string {
	var eb errorBody
	if err := json.NewDecoder(body).Decode(&eb); err != nil || eb.Message == "" {
		return fallback
	}
	return eb.Message
}

func decodeEventRows(op string, rows []eventRow) ([]Event, error) {
	out := make([]Event, 0, len(rows))
	for _, row := range rows {
		e, err := row.toDomain()
		if err != nil {
			return nil, &OpError{Op: op, Kind: KindDecodeFailed, Message: err.Error(), Err: err}
		}
		out = append(out, e)
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// Event Endpoints
// -----------------------------------------------------------------------------

// ListEvents fetches all events. Public; no token required.
func (c *Client) ListEvents(ctx context.Context) ([]Event, error) {
	var resp struct {
		Events []eventRow `json:"events"`
	}
	err := c.do(ctx, call{
		op:       "listEvents",
		method:   http.MethodGet,
		path:     "/events",
		fallback: "Failed to fetch events",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return decodeEventRows("listEvents", resp.Events)
}

// ListMyEvents fetches the current user's events, with RegistrationStatus
// populated from the wire's registration_status field.
func (c *Client) ListMyEvents(ctx context.Context, token string) ([]Event, error) {
	var resp struct {
		Events []eventRow `json:"events"`
	}
	err := c.do(ctx, call{
		op:       "listMyEvents",
		method:   http.MethodGet,
		path:     "/me/events",
		token:    token,
		needAuth: true,
		fallback: "Failed to fetch my events",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return decodeEventRows("listMyEvents", resp.Events)
}

// CreateEvent submits a new event. Admin-capable token required
// (server-enforced).
func (c *Client) CreateEvent(ctx context.Context, token string, req CreateEventRequest) error {
	body := map[string]any{
		"title":                      req.Title,
		"description":                req.Description,
		"channel":                    req.Channel,
		"language":                   req.Language,
		"location":                   req.Location,
		"target_audience":            req.TargetAudience,
		"group_description":          req.GroupDescription,
		"additional_notes":           req.AdditionalNotes,
		"contact_phone_number":       req.ContactPhoneNumber,
		"date":                       req.Date.UTC().Format(time.RFC3339),
		"group_size":                 req.GroupSize,
		"num_instructors_needed":     req.NumInstructorsNeeded,
		"num_representatives_needed": req.NumRepresentativesNeeded,
	}
	return c.do(ctx, call{
		op:       "createEvent",
		method:   http.MethodPost,
		path:     "/admin/new",
		token:    token,
		needAuth: true,
		body:     body,
		fallback: "Failed to create event",
	}, nil)
}

// UpdateEvent applies a partial update; only set fields are sent.
func (c *Client) UpdateEvent(ctx context.Context, token, eventID string, upd EventUpdate) error {
	body := map[string]any{}
	setStr := func(key string, v *string) {
		if v != nil {
			body[key] = *v
		}
	}
	setInt := func(key string, v *int) {
		if v != nil {
			body[key] = *v
		}
	}
	setStr("title", upd.Title)
	setStr("description", upd.Description)
	setStr("channel", upd.Channel)
	setStr("language", upd.Language)
	setStr("location", upd.Location)
	setStr("target_audience", upd.TargetAudience)
	setStr("group_description", upd.GroupDescription)
	setStr("additional_notes", upd.AdditionalNotes)
	setStr("contact_phone_number", upd.ContactPhoneNumber)
	setInt("group_size", upd.GroupSize)
	setInt("num_instructors_needed", upd.NumInstructorsNeeded)
	setInt("num_representatives_needed", upd.NumRepresentativesNeeded)
	if upd.Date != nil {
		body["date"] = upd.Date.UTC().Format(time.RFC3339)
	}
	return c.do(ctx, call{
		op:       "updateEvent",
		method:   http.MethodPut,
		path:     "/admin/edit/" + url.PathEscape(eventID),
		token:    token,
		needAuth: true,
		body:     body,
		fallback: "Failed to update event",
	}, nil)
}

// DeleteEvent removes an event.
func (c *Client) DeleteEvent(ctx context.Context, token, eventID string) error {
	return c.do(ctx, call{
		op:       "deleteEvent",
		method:   http.MethodDelete,
		path:     "/admin/delete/" + url.PathEscape(eventID),
		token:    token,
		needAuth: true,
		fallback: "Failed to delete event",
	}, nil)
}

// ApproveEvent publishes a pending event.
func (c *Client) ApproveEvent(ctx context.Context, token, eventID string) error {
	return c.do(ctx, call{
		op:       "approveEvent",
		method:   http.MethodPut,
		path:     "/admin/approve/" + url.PathEscape(eventID),
		token:    token,
		needAuth: true,
		fallback: "Failed to approve event",
	}, nil)
}

// UnapproveEvent reverts an event to pending.
func (c *Client) UnapproveEvent(ctx context.Context, token, eventID string) error {
	return c.do(ctx, call{
		op:       "unapproveEvent",
		method:   http.MethodPut,
		path:     "/admin/unapprove/" + url.PathEscape(eventID),
		token:    token,
		needAuth: true,
		fallback: "Failed to unapprove event",
	}, nil)
}

// -----------------------------------------------------------------------------
// Registration Endpoints
// -----------------------------------------------------------------------------

// RegisterToEvent signs the current user up and returns the resulting
// registration status so the UI can message accordingly (an auto-approved
// backend may answer "approved" directly).
func (c *Client) RegisterToEvent(ctx context.Context, token, eventID string) (RegistrationStatus, error) {
	var resp struct {
		Status string `json:"status"`
	}
	err := c.do(ctx, call{
		op:       "registerToEvent",
		method:   http.MethodPost,
		path:     "/events/" + url.PathEscape(eventID) + "/register",
		token:    token,
		needAuth: true,
		fallback: "Failed to register to event",
	}, &resp)
	if err != nil {
		return "", err
	}
	status, perr := ParseRegistrationStatus(resp.Status)
	if perr != nil {
		return "", &OpError{Op: "registerToEvent", Kind: KindDecodeFailed, Message: perr.Error(), Err: perr}
	}
	return status, nil
}

// UnregisterFromEvent withdraws the current user's registration.
func (c *Client) UnregisterFromEvent(ctx context.Context, token, eventID string) error {
	return c.do(ctx, call{
		op:       "unregisterFromEvent",
		method:   http.MethodDelete,
		path:     "/events/" + url.PathEscape(eventID) + "/unregister",
		token:    token,
		needAuth: true,
		fallback: "Failed to unregister from event",
	}, nil)
}

// ListEventPendingRegistrations fetches registrations awaiting review for
// one event. Admin-only (server-enforced).
func (c *Client) ListEventPendingRegistrations(ctx context.Context, token, eventID string) ([]Registration, error) {
	var resp struct {
		Registrations []registrationRow `json:"registrations"`
	}
	err := c.do(ctx, call{
		op:       "listEventPendingRegistrations",
		method:   http.MethodGet,
		path:     "/events/" + url.PathEscape(eventID) + "/registrations/pending",
		token:    token,
		needAuth: true,
		fallback: "Failed to fetch pending registrations",
	}, &resp)
	if err != nil {
		return nil, err
	}
	out := make([]Registration, 0, len(resp.Registrations))
	for _, row := range resp.Registrations {
		reg, derr := row.toDomain()
		if derr != nil {
			return nil, &OpError{Op: "listEventPendingRegistrations", Kind: KindDecodeFailed, Message: derr.Error(), Err: derr}
		}
		out = append(out, reg)
	}
	return out, nil
}

// ApproveRegistration confirms a volunteer's spot.
func (c *Client) ApproveRegistration(ctx context.Context, token, eventID, userID string) error {
	return c.do(ctx, call{
		op:       "approveRegistration",
		method:   http.MethodPut,
		path:     "/admin/approve-registration/" + url.PathEscape(eventID) + "/" + url.PathEscape(userID),
		token:    token,
		needAuth: true,
		fallback: "Failed to approve registration",
	}, nil)
}

// RejectRegistration removes a volunteer's pending registration.
func (c *Client) RejectRegistration(ctx context.Context, token, eventID, userID string) error {
	return c.do(ctx, call{
		op:       "rejectRegistration",
		method:   http.MethodDelete,
		path:     "/admin/reject-registration/" + url.PathEscape(eventID) + "/" + url.PathEscape(userID),
		token:    token,
		needAuth: true,
		fallback: "Failed to reject registration",
	}, nil)
}

// -----------------------------------------------------------------------------
// Auth Endpoints
// -----------------------------------------------------------------------------

// Login exchanges credentials for a bearer token and the user record.
func (c *Client) Login(ctx context.Context, email, password string) (string, User, error) {
	var resp struct {
		AccessToken string  `json:"access_token"`
		User        userRow `json:"user"`
	}
	err := c.do(ctx, call{
		op:       "login",
		method:   http.MethodPost,
		path:     "/login",
		body:     map[string]string{"email": email, "password": password},
		fallback: "Invalid credentials",
	}, &resp)
	if err != nil {
		return "", User{}, err
	}
	if resp.AccessToken == "" {
		return "", User{}, &OpError{Op: "login", Kind: KindDecodeFailed, Message: "login response carried no access token"}
	}
	return resp.AccessToken, resp.User.toDomain(), nil
}

// Signup creates an account. Callers usually follow with Login using the
// same credentials (pkg/session does this).
func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	body := map[string]string{
		"firstName":       req.FirstName,
		"lastName":        req.LastName,
		"email":           req.Email,
		"phoneNumber":     req.PhoneNumber,
		"role":            req.Role,
		"password":        req.Password,
		"confirmPassword": req.ConfirmPassword,
	}
	return c.do(ctx, call{
		op:       "signup",
		method:   http.MethodPost,
		path:     "/signup",
		body:     body,
		fallback: "Signup failed",
	}, nil)
}

// Me validates a token and returns its user. Used for silent session
// restore.
func (c *Client) Me(ctx context.Context, token string) (User, error) {
	var row userRow
	err := c.do(ctx, call{
		op:       "me",
		method:   http.MethodGet,
		path:     "/me",
		token:    token,
		needAuth: true,
		fallback: "Session check failed",
	}, &row)
	if err != nil {
		return User{}, err
	}
	return row.toDomain(), nil
}

// Logout notifies the backend that the token should be invalidated.
// Callers treat failures as best-effort (the local session clears anyway).
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, call{
		op:       "logout",
		method:   http.MethodPost,
		path:     "/logout",
		token:    token,
		needAuth: true,
		fallback: "Logout failed",
	}, nil)
}
