// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath  string
	jsonOutput  bool
	compact     bool
	quiet       bool
	plainOutput bool
	verbose     bool

	// auth flags
	loginEmail    string
	loginPassword string

	// event filter flags
	filterChannels  []string
	filterLanguages []string
	filterLocations []string
	showMine        bool
	showPending     bool

	// event create/edit flags
	eventTitle        string
	eventDescription  string
	eventChannel      string
	eventLanguage     string
	eventLocation     string
	eventAudience     string
	eventGroupDesc    string
	eventNotes        string
	eventPhone        string
	eventDate         string
	eventGroupSize    int
	eventInstructors  int
	eventReps         int

	// dev server flags
	devAddr string
	devSeed bool

	rootCmd = &cobra.Command{
		Use:   "vhub",
		Short: "A cli for volunteers and coordinators of the event program",
		Long: `vhub talks to the volunteer event coordination backend.
Volunteers browse events, filter them by channel, language and location,
and register for shifts. Coordinators create events, moderate them and
review volunteer registrations.`,
	}

	// --- Auth ---
	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token locally",
		Run:   runLogin, // Defined in cmd_auth.go
	}
	signupCmd = &cobra.Command{
		Use:   "signup",
		Short: "Create a volunteer account and sign in",
		Run:   runSignup, // Defined in cmd_auth.go
	}
	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Sign out and discard the local session token",
		Run:   runLogout, // Defined in cmd_auth.go
	}
	whoamiCmd = &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Run:   runWhoami, // Defined in cmd_auth.go
	}

	// --- Events ---
	eventsCmd = &cobra.Command{
		Use:   "events",
		Short: "Browse and manage events",
	}
	eventsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List events, optionally filtered by channel/language/location",
		Run:   runEventsList, // Defined in cmd_events.go
	}
	eventsCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a new event (coordinators only)",
		Run:   runEventsCreate, // Defined in cmd_events.go
	}
	eventsEditCmd = &cobra.Command{
		Use:   "edit [event-id]",
		Short: "Edit an event; only the provided flags are changed",
		Args:  cobra.ExactArgs(1),
		Run:   runEventsEdit, // Defined in cmd_events.go
	}
	eventsDeleteCmd = &cobra.Command{
		Use:   "delete [event-id]",
		Short: "Delete an event (coordinators only)",
		Args:  cobra.ExactArgs(1),
		Run:   runEventsDelete, // Defined in cmd_events.go
	}
	eventsApproveCmd = &cobra.Command{
		Use:   "approve [event-id]",
		Short: "Publish a pending event",
		Args:  cobra.ExactArgs(1),
		Run:   runEventsApprove, // Defined in cmd_events.go
	}
	eventsUnapproveCmd = &cobra.Command{
		Use:   "unapprove [event-id]",
		Short: "Revert an event to pending",
		Args:  cobra.ExactArgs(1),
		Run:   runEventsUnapprove, // Defined in cmd_events.go
	}

	// --- Registrations ---
	registerCmd = &cobra.Command{
		Use:   "register [event-id]",
		Short: "Register to an event",
		Args:  cobra.ExactArgs(1),
		Run:   runRegister, // Defined in cmd_registrations.go
	}
	unregisterCmd = &cobra.Command{
		Use:   "unregister [event-id]",
		Short: "Withdraw your registration from an event",
		Args:  cobra.ExactArgs(1),
		Run:   runUnregister, // Defined in cmd_registrations.go
	}
	registrationsCmd = &cobra.Command{
		Use:   "registrations",
		Short: "Review volunteer registrations (coordinators only)",
	}
	registrationsPendingCmd = &cobra.Command{
		Use:   "pending [event-id]",
		Short: "List registrations awaiting review for an event",
		Args:  cobra.ExactArgs(1),
		Run:   runRegistrationsPending, // Defined in cmd_registrations.go
	}
	registrationsApproveCmd = &cobra.Command{
		Use:   "approve [event-id] [user-id]",
		Short: "Approve a volunteer's registration",
		Args:  cobra.ExactArgs(2),
		Run:   runRegistrationsApprove, // Defined in cmd_registrations.go
	}
	registrationsRejectCmd = &cobra.Command{
		Use:   "reject [event-id] [user-id]",
		Short: "Reject a volunteer's pending registration",
		Args:  cobra.ExactArgs(2),
		Run:   runRegistrationsReject, // Defined in cmd_registrations.go
	}

	// --- Interactive Board ---
	boardCmd = &cobra.Command{
		Use:   "board",
		Short: "Browse events in an interactive table",
		Run:   runBoard, // Defined in cmd_board.go
	}

	// --- Dev ---
	devCmd = &cobra.Command{
		Use:   "dev",
		Short: "Development utilities",
	}
	devServeCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run an in-memory backend for local development",
		Run:   runDevServe, // Defined in cmd_dev.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.vhub/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	rootCmd.PersistentFlags().BoolVar(&compact, "compact", false, "Compact JSON output (no indentation)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress output; rely on exit codes")
	rootCmd.PersistentFlags().BoolVar(&plainOutput, "plain", false, "Disable colors and styling")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr while running")

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email address (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password (prompted when omitted)")

	eventsListCmd.Flags().StringSliceVar(&filterChannels, "channel", nil, "Only show events on these channels")
	eventsListCmd.Flags().StringSliceVar(&filterLanguages, "language", nil, "Only show events in these languages")
	eventsListCmd.Flags().StringSliceVar(&filterLocations, "location", nil, "Only show events at these locations")
	eventsListCmd.Flags().BoolVar(&showMine, "mine", false, "Only show events you are registered to")
	eventsListCmd.Flags().BoolVar(&showPending, "pending", false, "Include unpublished events (coordinators)")

	for _, cmd := range []*cobra.Command{eventsCreateCmd, eventsEditCmd} {
		cmd.Flags().StringVar(&eventTitle, "title", "", "Event title")
		cmd.Flags().StringVar(&eventDescription, "description", "", "Event description")
		cmd.Flags().StringVar(&eventChannel, "channel", "", "Outreach channel")
		cmd.Flags().StringVar(&eventLanguage, "language", "", "Event language")
		cmd.Flags().StringVar(&eventLocation, "location", "", "Event location")
		cmd.Flags().StringVar(&eventAudience, "audience", "", "Target audience")
		cmd.Flags().StringVar(&eventGroupDesc, "group", "", "Group description")
		cmd.Flags().StringVar(&eventNotes, "notes", "", "Additional notes")
		cmd.Flags().StringVar(&eventPhone, "phone", "", "Contact phone number")
		cmd.Flags().StringVar(&eventDate, "date", "", "Event date, RFC 3339 (e.g. 2026-10-18T17:00:00Z)")
		cmd.Flags().IntVar(&eventGroupSize, "size", 0, "Expected group size")
		cmd.Flags().IntVar(&eventInstructors, "instructors", 0, "Instructors needed")
		cmd.Flags().IntVar(&eventReps, "representatives", 0, "Family representatives needed")
	}

	devServeCmd.Flags().StringVar(&devAddr, "addr", ":8080", "Address to listen on")
	devServeCmd.Flags().BoolVar(&devSeed, "seed", true, "Seed sample events")

	eventsCmd.AddCommand(eventsListCmd, eventsCreateCmd, eventsEditCmd, eventsDeleteCmd, eventsApproveCmd, eventsUnapproveCmd)
	registrationsCmd.AddCommand(registrationsPendingCmd, registrationsApproveCmd, registrationsRejectCmd)
	devCmd.AddCommand(devServeCmd)

	rootCmd.AddCommand(
		loginCmd, signupCmd, logoutCmd, whoamiCmd,
		eventsCmd, registerCmd, unregisterCmd, registrationsCmd,
		boardCmd, devCmd,
	)
}
