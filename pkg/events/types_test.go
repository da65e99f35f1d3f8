// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package events

import (
	"testing"
)

func TestParseEventStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    EventStatus
		wantErr bool
	}{
		{"Pending", EventStatusPending, false},
		{"Approved", EventStatusApproved, false},
		{"pending", "", true}, // case matters on the wire
		{"archived", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseEventStatus(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseEventStatus(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEventStatus(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseEventStatus(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRegistrationStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    RegistrationStatus
		wantErr bool
	}{
		{"pending", RegistrationPending, false},
		{"approved", RegistrationApproved, false},
		{"Approved", "", true},
		{"rejected", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRegistrationStatus(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRegistrationStatus(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRegistrationStatus(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRegistrationStatus(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFilterOptionsMatches(t *testing.T) {
	event := Event{ID: "1", Channel: "Virtual", Language: "Hebrew", Location: "North"}

	tests := []struct {
		name    string
		filters FilterOptions
		want    bool
	}{
		{"empty filter passes all", FilterOptions{}, true},
		{"single dimension match", FilterOptions{Channels: []string{"Virtual"}}, true},
		{"single dimension miss", FilterOptions{Channels: []string{"Donations"}}, false},
		{
			"conjunction across dimensions",
			FilterOptions{Channels: []string{"Virtual"}, Locations: []string{"North"}},
			true,
		},
		{
			"conjunction fails on one dimension",
			FilterOptions{Channels: []string{"Virtual"}, Locations: []string{"South"}},
			false,
		},
		{
			"unrestricted language ignored",
			FilterOptions{Channels: []string{"Virtual"}, Languages: nil, Locations: []string{"North"}},
			true,
		},
		{
			"disjunction within a dimension",
			FilterOptions{Channels: []string{"Donations", "Virtual"}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filters.Matches(event); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterOptionsApply(t *testing.T) {
	list := []Event{
		{ID: "1", Channel: "Zoom", Language: "Hebrew", Location: "North"},
		{ID: "2", Channel: "Zoom", Language: "English", Location: "South"},
	}

	filters := FilterOptions{Channels: []string{"Zoom"}, Languages: []string{}, Locations: []string{"North"}}
	got := filters.Apply(list)

	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("Apply() = %+v, want only event 1", got)
	}

	// The zero filter returns a copy, not the backing slice.
	all := FilterOptions{}.Apply(list)
	if len(all) != 2 {
		t.Fatalf("zero filter returned %d events, want 2", len(all))
	}
	all[0].ID = "mutated"
	if list[0].ID != "1" {
		t.Error("Apply() must not alias the input slice")
	}
}

func TestUserIsAdmin(t *testing.T) {
	tests := []struct {
		permissions string
		want        bool
	}{
		{"admin", true},
		{"super_admin", true},
		{"", false},
		{"volunteer", false},
	}
	for _, tt := range tests {
		u := User{Permissions: tt.permissions}
		if got := u.IsAdmin(); got != tt.want {
			t.Errorf("IsAdmin() with permissions %q = %v, want %v", tt.permissions, got, tt.want)
		}
	}
}
