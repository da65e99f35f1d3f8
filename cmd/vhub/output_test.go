// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandResultRoundTrip(t *testing.T) {
	result := CommandResult{
		APIVersion: "1.0",
		Command:    "events list",
		Timestamp:  time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		DurationMs: 42,
		Success:    true,
		Data:       map[string]any{"count": 3},
	}

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "events list", decoded["command"])
	assert.Equal(t, true, decoded["success"])
	assert.NotContains(t, decoded, "error", "error field is omitted on success")
}

func TestEventDateFlag(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"rfc3339", "2026-10-18T17:00:00Z", time.Date(2026, 10, 18, 17, 0, 0, 0, time.UTC), false},
		{"bare date", "2026-10-18", time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), false},
		{"garbage", "next tuesday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eventDate = tt.input
			got, err := eventDateFlag()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}
