// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package devserver

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/volunteerhub/vhub/pkg/validation"
)

var validate = validator.New()

// errorResponse is the error envelope every failure returns.
type errorResponse struct {
	Message string `json:"message"`
}

// loginRequest carries credentials for POST /login.
type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *loginRequest) Validate() error {
	return validate.Struct(r)
}

// signupRequest carries a new account for POST /signup. Field names are
// camelCase to match the web client's payload.
type signupRequest struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	PhoneNumber     string `json:"phoneNumber"`
	Role            string `json:"role" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func (r *signupRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	return validation.ValidateRole(r.Role)
}

// eventRequest carries an event for POST /admin/new.
type eventRequest struct {
	Title                    string `json:"title" validate:"required"`
	Description              string `json:"description"`
	Channel                  string `json:"channel" validate:"required"`
	Language                 string `json:"language" validate:"required"`
	Location                 string `json:"location" validate:"required"`
	TargetAudience           string `json:"target_audience"`
	GroupDescription         string `json:"group_description"`
	AdditionalNotes          string `json:"additional_notes"`
	ContactPhoneNumber       string `json:"contact_phone_number"`
	Date                     string `json:"date" validate:"required"`
	GroupSize                int    `json:"group_size" validate:"gte=0"`
	NumInstructorsNeeded     int    `json:"num_instructors_needed" validate:"gte=0"`
	NumRepresentativesNeeded int    `json:"num_representatives_needed" validate:"gte=0"`
}

func (r *eventRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if err := validation.ValidateChannel(r.Channel); err != nil {
		return err
	}
	if err := validation.ValidateLanguage(r.Language); err != nil {
		return err
	}
	if err := validation.ValidateLocation(r.Location); err != nil {
		return err
	}
	if _, err := time.Parse(time.RFC3339, r.Date); err != nil {
		return fmt.Errorf("date must be RFC 3339: %w", err)
	}
	return nil
}

// eventPatch carries a partial update for PUT /admin/edit/:id. Pointers
// distinguish absent fields from zero values.
type eventPatch struct {
	Title                    *string `json:"title"`
	Description              *string `json:"description"`
	Channel                  *string `json:"channel"`
	Language                 *string `json:"language"`
	Location                 *string `json:"location"`
	TargetAudience           *string `json:"target_audience"`
	GroupDescription         *string `json:"group_description"`
	AdditionalNotes          *string `json:"additional_notes"`
	ContactPhoneNumber       *string `json:"contact_phone_number"`
	Date                     *string `json:"date"`
	GroupSize                *int    `json:"group_size"`
	NumInstructorsNeeded     *int    `json:"num_instructors_needed"`
	NumRepresentativesNeeded *int    `json:"num_representatives_needed"`
}

func (r *eventPatch) Validate() error {
	if r.Channel != nil {
		if err := validation.ValidateChannel(*r.Channel); err != nil {
			return err
		}
	}
	if r.Language != nil {
		if err := validation.ValidateLanguage(*r.Language); err != nil {
			return err
		}
	}
	if r.Location != nil {
		if err := validation.ValidateLocation(*r.Location); err != nil {
			return err
		}
	}
	if r.Date != nil {
		if _, err := time.Parse(time.RFC3339, *r.Date); err != nil {
			return fmt.Errorf("date must be RFC 3339: %w", err)
		}
	}
	return nil
}

// eventRow is an event as sent on the wire. IDs are numeric; clients
// normalize them to strings.
type eventRow struct {
	ID                       int64  `json:"id"`
	Title                    string `json:"title"`
	Description              string `json:"description"`
	Channel                  string `json:"channel"`
	Language                 string `json:"language"`
	Location                 string `json:"location"`
	TargetAudience           string `json:"target_audience"`
	GroupDescription         string `json:"group_description"`
	AdditionalNotes          string `json:"additional_notes"`
	ContactPhoneNumber       string `json:"contact_phone_number"`
	Date                     string `json:"date"`
	GroupSize                int    `json:"group_size"`
	NumInstructorsNeeded     int    `json:"num_instructors_needed"`
	NumRepresentativesNeeded int    `json:"num_representatives_needed"`
	Status                   string `json:"status"`
	RegistrationStatus       string `json:"registration_status,omitempty"`
}

func eventToRow(e *event) eventRow {
	status := "Pending"
	if e.Approved {
		status = "Approved"
	}
	return eventRow{
		ID:                       e.ID,
		Title:                    e.Title,
		Description:              e.Description,
		Channel:                  e.Channel,
		Language:                 e.Language,
		Location:                 e.Location,
		TargetAudience:           e.TargetAudience,
		GroupDescription:         e.GroupDescription,
		AdditionalNotes:          e.AdditionalNotes,
		ContactPhoneNumber:       e.ContactPhoneNumber,
		Date:                     e.Date.UTC().Format(time.RFC3339),
		GroupSize:                e.GroupSize,
		NumInstructorsNeeded:     e.NumInstructorsNeeded,
		NumRepresentativesNeeded: e.NumRepresentativesNeeded,
		Status:                   status,
	}
}

func registrationStatus(approved bool) string {
	if approved {
		return "approved"
	}
	return "pending"
}

// registrationRow is a pending registration as sent to admins, with
// denormalized event fields.
type registrationRow struct {
	UserID        int64  `json:"user_id"`
	UserEmail     string `json:"user_email"`
	UserRole      string `json:"user_role"`
	EventID       int64  `json:"event_id"`
	EventTitle    string `json:"event_title"`
	EventDate     string `json:"event_date"`
	EventChannel  string `json:"event_channel"`
	EventLanguage string `json:"event_language"`
	EventLocation string `json:"event_location"`
	Status        string `json:"status"`
}

// userRow is a user as sent from /login and /me.
type userRow struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Permissions string `json:"permissions"`
	Role        string `json:"role"`
}

func userToRow(u *user) userRow {
	return userRow{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Permissions: u.Permissions,
		Role:        u.Role,
	}
}
