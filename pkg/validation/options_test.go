// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package validation

import (
	"strings"
	"testing"
)

func TestValidateChannel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"known channel", "Virtual", false},
		{"known multiword channel", "Hostages Square", false},
		{"unknown channel", "Telegram", true},
		{"case sensitive", "virtual", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChannel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateChannel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFilterSets(t *testing.T) {
	if err := ValidateChannels(nil); err != nil {
		t.Errorf("empty allow-set must be valid: %v", err)
	}
	if err := ValidateLocations([]string{"North", "South"}); err != nil {
		t.Errorf("valid allow-set rejected: %v", err)
	}

	err := ValidateLanguages([]string{"Hebrew", "Klingon", "Elvish"})
	if err == nil {
		t.Fatal("expected error for unknown languages")
	}
	if !strings.Contains(err.Error(), "Klingon") || !strings.Contains(err.Error(), "Elvish") {
		t.Errorf("error should list all invalid values, got: %v", err)
	}
}

func TestValidateRole(t *testing.T) {
	if err := ValidateRole("Guide"); err != nil {
		t.Errorf("ValidateRole(Guide) = %v", err)
	}
	if err := ValidateRole("Admin"); err == nil {
		t.Error("ValidateRole(Admin) should fail; not a domain role")
	}
}
