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
)

func runRegister(cmd *cobra.Command, args []string) {
	start := time.Now()
	a, err := newApp()
	if err != nil {
		fail("startup failed", err)
	}
	defer a.close()
	a.requireUser()

	spin := ux.NewSpinner("Registering to event " + args[0])
	spin.Start()
	status, err := a.board.RegisterToEvent(a.ctx, args[0])
	spin.Stop()
	if err != nil {
		fail("registration failed", err)
	}

	if OutputData("register", start, map[string]any{"event_id": args[0], "status": status}) {
		return
	}
	switch status {
	case events.RegistrationApproved:
		ux.Success("Registered. Your spot is confirmed.")
	default:
		ux.Success("Registered. Your spot is pending coordinator approval.")
	}
}

func runUnregister(cmd *cobra.Command, args []string) {
	start := time.Now()
	a, err := newApp()
	if err != nil {
		fail("startup failed", err)
	}
	defer a.close()
	a.requireUser()

	spin := ux.NewSpinner("Withdrawing from event " + args[0])
	spin.Start()
	err = a.board.UnregisterFromEvent(a.ctx, args[0])
	spin.Stop()
	if err != nil {
		fail("unregister failed", err)
	}

	if OutputData("unregister", start, map[string]any{"event_id": args[0]}) {
		return
	}
	ux.Success("Registration withdrawn.")
}

func runRegistrationsPending(cmd *cobra.Command, args []string) {
	start := time.Now()
	a, err := newApp()
	if err != nil {
		fail("startup failed", err)
	}
	defer a.close()
	a.requireAdmin()

	regs, err := a.board.PendingRegistrations(a.ctx, args[0])
	if err != nil {
		fail("fetching pending registrations", err)
	}

	if OutputData("registrations pending", start, map[string]any{"registrations": regs}) {
		return
	}
	if len(regs) == 0 {
		ux.Muted("No registrations awaiting review.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "USER ID\tEMAIL\tROLE\tEVENT\tDATE")
	for _, r := range regs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.UserID, r.UserEmail, r.UserRole, r.EventTitle,
			r.EventDate.Local().Format("2006-01-02 15:04"))
	}
	w.Flush()
}

func runRegistrationsApprove(cmd *cobra.Command, args []string) {
	runRegistrationReview(args[0], args[1], "registrations approve", "approved", func(a *app) error {
		return a.board.ApproveRegistration(a.ctx, args[0], args[1])
	})
}

func runRegistrationsReject(cmd *cobra.Command, args []string) {
	runRegistrationReview(args[0], args[1], "registrations reject", "rejected", func(a *app) error {
		return a.board.RejectRegistration(a.ctx, args[0], args[1])
	})
}

func runRegistrationReview(eventID, userID, cmdName, verb string, mutate func(*app) error) {
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
	if OutputData(cmdName, start, map[string]any{"event_id": eventID, "user_id": userID}) {
		return
	}
	ux.Success(fmt.Sprintf("Registration of user %s for event %s %s.", userID, eventID, verb))
}
