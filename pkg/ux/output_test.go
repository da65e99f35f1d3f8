// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"testing"

	"github.com/volunteerhub/vhub/pkg/events"
)

func usePlain(t *testing.T, v bool) {
	t.Helper()
	SetPlain(v)
	t.Cleanup(func() {
		plainMu.Lock()
		plainSet = false
		plainMu.Unlock()
	})
}

func TestIconRenderPlain(t *testing.T) {
	usePlain(t, true)
	if got := IconSuccess.Render(); got != "✓" {
		t.Errorf("plain icon should carry no escape codes, got %q", got)
	}
}

func TestEventStatusIcon(t *testing.T) {
	if got := EventStatusIcon(events.EventStatusApproved); got != IconApproved {
		t.Errorf("approved status icon = %q", got)
	}
	if got := EventStatusIcon(events.EventStatusPending); got != IconPending {
		t.Errorf("pending status icon = %q", got)
	}
}

func TestRegistrationBadge(t *testing.T) {
	usePlain(t, true)

	if got := RegistrationBadge(nil); got != "-" {
		t.Errorf("unregistered badge = %q, want -", got)
	}

	approved := events.RegistrationApproved
	if got := RegistrationBadge(&approved); got != "approved" {
		t.Errorf("approved badge = %q", got)
	}

	pending := events.RegistrationPending
	if got := RegistrationBadge(&pending); got != "pending" {
		t.Errorf("pending badge = %q", got)
	}
}

func TestSetPlainOverridesDetection(t *testing.T) {
	usePlain(t, false)
	if Plain() {
		t.Error("SetPlain(false) should force styled output")
	}
	SetPlain(true)
	if !Plain() {
		t.Error("SetPlain(true) should force plain output")
	}
}
