// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/volunteerhub/vhub/pkg/events"
	"github.com/volunteerhub/vhub/pkg/ux"
	"github.com/volunteerhub/vhub/pkg/validation"
)

func validateFilterFlags() {
	for _, check := range []error{
		validation.ValidateChannels(filterChannels),
		validation.ValidateLanguages(filterLanguages),
		validation.ValidateLocations(filterLocations),
	} {
		if check != nil {
			ux.Error(check.Error())
			os.Exit(CLIExitError)
		}
	}
}

func runEventsList(cmd *cobra.Command, args []string) {
	start := time.Now()
	validateFilterFlags()

	a, err := newApp()
	if err != nil {
		fail("startup failed", err)
	}
	defer a.close()

	a.board.Open(a.ctx)
	if msg := a.board.Err(); msg != "" {
		fail("fetching events", fmt.Errorf("%s", msg))
	}

	var list []events.Event
	if showMine {
		a.requireUser()
		list = a.board.MyEvents()
	} else {
		a.board.SetFilters(events.FilterOptions{
			Channels:  filterChannels,
			Languages: filterLanguages,
			Locations: filterLocations,
		})
		list = a.board.FilteredEvents()
		if !showPending {
			published := list[:0]
			for _, e := range list {
				if e.Status == events.EventStatusApproved {
					published = append(published, e)
				}
			}
			list = published
		}
	}

	if OutputData("events list", start, map[string]any{"events": list}) {
		return
	}
	if len(list) == 0 {
		ux.Muted("No events match.")
		return
	}
	printEventTable(list, showMine || a.holder.User() != nil)
}

// printEventTable renders events as an aligned table. The registration
// column only appears for signed-in users.
func printEventTable(list []events.Event, withRegistration bool) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if withRegistration {
		fmt.Fprintln(w, "ID\tDATE\tTITLE\tCHANNEL\tLANGUAGE\tLOCATION\tSTATUS\tREGISTRATION")
	} else {
		fmt.Fprintln(w, "ID\tDATE\tTITLE\tCHANNEL\tLANGUAGE\tLOCATION\tSTATUS")
	}
	for _, e := range list {
		date := e.Date.Local().Format("2006-01-02 15:04")
		if withRegistration {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s %s\t%s\n",
				e.ID, date, e.Title, e.Channel, e.Language, e.Location,
				ux.EventStatusIcon(e.Status).Render(), e.Status, ux.RegistrationBadge(e.RegistrationStatus))
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s %s\n",
				e.ID, date, e.Title, e.Channel, e.Language, e.Location,
				ux.EventStatusIcon(e.Status).Render(), e.Status)
		}
	}
	w.Flush()
}

// eventDateFlag parses the --date flag, accepting a bare date as
// shorthand for midnight UTC.
func eventDateFlag() (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, eventDate); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", eventDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("--date must be RFC 3339 or YYYY-MM-DD, got %q", eventDate)
	}
	return t, nil
}

func runEventsCreate(cmd *cobra.Command, args []string) {
	start := time.Now()
	a, err := newApp()
	if err != nil {
		fail("startup failed", err)
	}
	defer a.close()
	a.requireAdmin()

	for flag, v := range map[string]string{
		"title": eventTitle, "channel": eventChannel,
		"language": eventLanguage, "location": eventLocation, "date": eventDate,
	} {
		if v == "" {
			ux.Error("--" + flag + " is required")
			os.Exit(CLIExitError)
		}
	}
	for _, check := range []error{
		validation.ValidateChannel(eventChannel),
		validation.ValidateLanguage(eventLanguage),
		validation.ValidateLocation(eventLocation),
	} {
		if check != nil {
			ux.Error(check.Error())
			os.Exit(CLIExitError)
		}
	}
	date, err := eventDateFlag()
	if err != nil {
		ux.Error(err.Error())
		os.Exit(CLIExitError)
	}

	req := events.CreateEventRequest{
		Title:                    eventTitle,
		Description:              eventDescription,
		Channel:                  eventChannel,
		Language:                 eventLanguage,
		Location:                 eventLocation,
		TargetAudience:           eventAudience,
		GroupDescription:         eventGroupDesc,
		AdditionalNotes:          eventNotes,
		ContactPhoneNumber:       eventPhone,
		Date:                     date,
		GroupSize:                eventGroupSize,
		NumInstructorsNeeded:     eventInstructors,
		NumRepresentativesNeeded: eventReps,
	}
	if err := a.board.CreateEvent(a.ctx, req); err != nil {
		fail("create failed", err)
	}

	if OutputData("events create", start, map[string]any{"created": req.Title}) {
		return
	}
	ux.Success(fmt.Sprintf("Event %q created (pending approval).", req.Title))
}

func runEventsEdit(cmd *cobra.Command, args []string) {
	start := time.Now()
	a, err := newApp()
	if err != nil {
		fail("startup failed", err)
	}
	defer a.close()
	a.requireAdmin()

	var upd events.EventUpdate
	flags := cmd.Flags()
	if flags.Changed("title") {
		upd.Title = &eventTitle
	}
	if flags.Changed("description") {
		upd.Description = &eventDescription
	}
	if flags.Changed("channel") {
		if err := validation.ValidateChannel(eventChannel); err != nil {
			ux.Error(err.Error())
			os.Exit(CLIExitError)
		}
		upd.Channel = &eventChannel
	}
	if flags.Changed("language") {
		if err := validation.ValidateLanguage(eventLanguage); err != nil {
			ux.Error(err.Error())
			os.Exit(CLIExitError)
		}
		upd.Language = &eventLanguage
	}
	if flags.Changed("location") {
		if err := validation.ValidateLocation(eventLocation); err != nil {
			ux.Error(err.Error())
			os.Exit(CLIExitError)
		}
		upd.Location = &eventLocation
	}
	if flags.Changed("audience") {
		upd.TargetAudience = &eventAudience
	}
	if flags.Changed("group") {
		upd.GroupDescription = &eventGroupDesc
	}
	if flags.Changed("notes") {
		upd.AdditionalNotes = &eventNotes
	}
	if flags.Changed("phone") {
		upd.ContactPhoneNumber = &eventPhone
	}
	if flags.Changed("date") {
		date, err := eventDateFlag()
		if err != nil {
			ux.Error(err.Error())
			os.Exit(CLIExitError)
		}
		upd.Date = &date
	}
	if flags.Changed("size") {
		upd.GroupSize = &eventGroupSize
	}
	if flags.Changed("instructors") {
		upd.NumInstructorsNeeded = &eventInstructors
	}
	if flags.Changed("representatives") {
		upd.NumRepresentativesNeeded = &eventReps
	}

	if err := a.board.UpdateEvent(a.ctx, args[0], upd); err != nil {
		fail("edit failed", err)
	}
	if OutputData("events edit", start, map[string]any{"event_id": args[0]}) {
		return
	}
	ux.Success("Event " + args[0] + " updated.")
}

func runEventsDelete(cmd *cobra.Command, args []string) {
	runEventMutation(args[0], "events delete", "deleted", func(a *app) error {
		return a.board.DeleteEvent(a.ctx, args[0])
	})
}

func runEventsApprove(cmd *cobra.Command, args []string) {
	runEventMutation(args[0], "events approve", "approved", func(a *app) error {
		return a.board.ApproveEvent(a.ctx, args[0])
	})
}

func runEventsUnapprove(cmd *cobra.Command, args []string) {
	runEventMutation(args[0], "events unapprove", "reverted to pending", func(a *app) error {
		return a.board.UnapproveEvent(a.ctx, args[0])
	})
}

func runEventMutation(eventID, cmdName, verb string, mutate func(*app) error) {
	start := time.Now()
	a, err := newApp()
	if err != nil {
		fail("startup failed", err)
	}
	defer a.close()
	a.requireAdmin()

	if err := mutate(a); err != nil {
		fail(cmdName+" failed", err)
	}
	if OutputData(cmdName, start, map[string]any{"event_id": eventID}) {
		return
	}
	ux.Success("Event " + eventID + " " + verb + ".")
}
