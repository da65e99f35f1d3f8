// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package events defines the volunteer event domain model and the HTTP
// client for the coordination backend.
//
// The backend owns every Event and Registration record. This package holds
// typed, decoded copies of what the server sent; nothing here mutates a
// record in place. Writes go through Client methods and callers re-read
// server state afterwards (see pkg/eventboard for the refetch policy).
//
// Status values cross the wire as strings. They are decoded into closed
// enum types here, and unrecognized values are a decode error rather than
// a silently forwarded string.
package events

import (
	"fmt"
	"time"
)

// EventStatus is the administrator-controlled lifecycle state of an event.
type EventStatus string

const (
	// EventStatusPending means the event awaits administrator approval
	// and is not yet open for volunteers.
	EventStatusPending EventStatus = "Pending"

	// EventStatusApproved means an administrator published the event.
	EventStatusApproved EventStatus = "Approved"
)

// ParseEventStatus decodes a wire status string.
//
// Unknown values fail loudly so a backend contract change surfaces at the
// boundary instead of leaking untyped strings into the UI.
func ParseEventStatus(s string) (EventStatus, error) {
	switch EventStatus(s) {
	case EventStatusPending, EventStatusApproved:
		return EventStatus(s), nil
	default:
		return "", fmt.Errorf("unrecognized event status %q", s)
	}
}

// RegistrationStatus is the approval state of a volunteer's registration.
type RegistrationStatus string

const (
	// RegistrationPending means the registration awaits admin review.
	RegistrationPending RegistrationStatus = "pending"

	// RegistrationApproved means an administrator confirmed the spot.
	RegistrationApproved RegistrationStatus = "approved"
)

// ParseRegistrationStatus decodes a wire registration status string.
func ParseRegistrationStatus(s string) (RegistrationStatus, error) {
	switch RegistrationStatus(s) {
	case RegistrationPending, RegistrationApproved:
		return RegistrationStatus(s), nil
	default:
		return "", fmt.Errorf("unrecognized registration status %q", s)
	}
}

// Event is a schedulable activity volunteers can register for.
//
// ID is server-assigned, stable across fetches, and is the reconciliation
// key between the public list, the personal list, and registrations.
type Event struct {
	ID          string
	Title       string
	Description string

	// Filter dimensions.
	Channel  string
	Language string
	Location string

	TargetAudience     string
	GroupDescription   string
	AdditionalNotes    string
	ContactPhoneNumber string

	Date time.Time

	// Capacity planning; non-negative.
	GroupSize                int
	NumInstructorsNeeded     int
	NumRepresentativesNeeded int

	Status EventStatus

	// RegistrationStatus is derived client-side for the current user and
	// populated only on personal ("my events") views. Nil elsewhere.
	RegistrationStatus *RegistrationStatus
}

// Registration joins a user to an event, with denormalized event fields so
// admin views render without a second lookup.
type Registration struct {
	UserID    string
	UserEmail string
	UserRole  string
	EventID   string

	EventTitle    string
	EventDate     time.Time
	EventChannel  string
	EventLanguage string
	EventLocation string

	Status RegistrationStatus
}

// User is the authenticated principal, owned by pkg/session. Read-only from
// the aggregation layer's perspective.
type User struct {
	ID        string
	FirstName string
	LastName  string
	Email     string

	// Permissions is the access role ("admin", "super_admin", or empty for
	// a plain user).
	Permissions string

	// Role is the domain role, e.g. "Family Representative" or "Guide".
	Role string
}

// IsAdmin reports whether the user may perform administrative operations.
// The backend enforces this independently; the client only uses it to hide
// controls that would be rejected anyway.
func (u User) IsAdmin() bool {
	return u.Permissions == "admin" || u.Permissions == "super_admin"
}

// FullName returns "First Last" for display.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// CreateEventRequest carries the fields for a new event.
type CreateEventRequest struct {
	Title              string
	Description        string
	Channel            string
	Language           string
	Location           string
	TargetAudience     string
	GroupDescription   string
	AdditionalNotes    string
	ContactPhoneNumber string

	Date time.Time

	GroupSize                int
	NumInstructorsNeeded     int
	NumRepresentativesNeeded int
}

// EventUpdate is a partial update; nil fields are left untouched by the
// backend.
type EventUpdate struct {
	Title              *string
	Description        *string
	Channel            *string
	Language           *string
	Location           *string
	TargetAudience     *string
	GroupDescription   *string
	AdditionalNotes    *string
	ContactPhoneNumber *string

	Date *time.Time

	GroupSize                *int
	NumInstructorsNeeded     *int
	NumRepresentativesNeeded *int
}

// SignupRequest carries account-creation fields. ConfirmPassword is checked
// client-side before submission; the backend checks it again.
type SignupRequest struct {
	FirstName       string
	LastName        string
	Email           string
	PhoneNumber     string
	Role            string
	Password        string
	ConfirmPassword string
}

// FilterOptions restricts the event list along independent dimensions.
//
// An empty or nil slice for a dimension means "no restriction". A non-empty
// slice is an allow-set: the event's field must be a member. Dimensions
// combine as a conjunction (AND across dimensions, OR within one).
type FilterOptions struct {
	Channels  []string
	Languages []string
	Locations []string
}

// IsZero reports whether no dimension is restricted.
func (f FilterOptions) IsZero() bool {
	return len(f.Channels) == 0 && len(f.Languages) == 0 && len(f.Locations) == 0
}

// Matches reports whether the event passes every restricted dimension.
func (f FilterOptions) Matches(e Event) bool {
	if len(f.Channels) > 0 && !contains(f.Channels, e.Channel) {
		return false
	}
	if len(f.Languages) > 0 && !contains(f.Languages, e.Language) {
		return false
	}
	if len(f.Locations) > 0 && !contains(f.Locations, e.Location) {
		return false
	}
	return true
}

// Apply returns the events passing the filter, preserving order.
func (f FilterOptions) Apply(list []Event) []Event {
	if f.IsZero() {
		out := make([]Event, len(list))
		copy(out, list)
		return out
	}
	out := make([]Event, 0, len(list))
	for _, e := range list {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
