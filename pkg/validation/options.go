// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation holds the fixed option catalogs for the filterable
// event dimensions and validates user-supplied values against them.
//
// The catalogs are the coordination program's canonical lists; the backend
// stores free strings, so validating here keeps typos out of filters and
// new events (a filter for a misspelled channel silently matches nothing).
package validation

import (
	"fmt"
	"strings"
)

// Channels is the catalog of outreach channels.
var Channels = []string{
	"Hostages Square",
	"Business Sector",
	"Donations",
	"Religious Zionism",
	"Virtual",
}

// Languages is the catalog of event languages.
var Languages = []string{
	"Hebrew",
	"English",
	"Arabic",
	"Russian",
	"French",
	"Spanish",
	"Other",
}

// Locations is the catalog of event locations.
var Locations = []string{
	"Hostages Square",
	"Zoom",
	"North",
	"South",
	"Offices",
	"Jerusalem",
	"Center",
	"Shfela",
	"Across the green line",
}

// Roles is the catalog of domain roles a volunteer signs up as.
var Roles = []string{
	"Family Representative",
	"Guide",
}

// ValidateChannel checks a single channel value against the catalog.
func ValidateChannel(v string) error {
	return validateOne("channel", v, Channels)
}

// ValidateLanguage checks a single language value against the catalog.
func ValidateLanguage(v string) error {
	return validateOne("language", v, Languages)
}

// ValidateLocation checks a single location value against the catalog.
func ValidateLocation(v string) error {
	return validateOne("location", v, Locations)
}

// ValidateRole checks a domain role against the catalog.
func ValidateRole(v string) error {
	return validateOne("role", v, Roles)
}

// ValidateChannels validates a filter allow-set; empty is valid (no
// restriction).
func ValidateChannels(vals []string) error {
	return validateAll("channel", vals, Channels)
}

// ValidateLanguages validates a filter allow-set; empty is valid.
func ValidateLanguages(vals []string) error {
	return validateAll("language", vals, Languages)
}

// ValidateLocations validates a filter allow-set; empty is valid.
func ValidateLocations(vals []string) error {
	return validateAll("location", vals, Locations)
}

func validateOne(dim, v string, catalog []string) error {
	if v == "" {
		return fmt.Errorf("%s cannot be empty", dim)
	}
	for _, known := range catalog {
		if known == v {
			return nil
		}
	}
	return fmt.Errorf("unknown %s %q (valid: %s)", dim, v, strings.Join(catalog, ", "))
}

func validateAll(dim string, vals, catalog []string) error {
	var invalid []string
	for _, v := range vals {
		if err := validateOne(dim, v, catalog); err != nil {
			invalid = append(invalid, v)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("unknown %s values: %v (valid: %s)", dim, invalid, strings.Join(catalog, ", "))
	}
	return nil
}
