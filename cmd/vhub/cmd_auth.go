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
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/volunteerhub/vhub/pkg/events"
	"github.com/volunteerhub/vhub/pkg/ux"
	"github.com/volunteerhub/vhub/pkg/validation"
)

func runLogin(cmd *cobra.Command, args []string) {
	start := time.Now()
	a, err := newApp()
	if err != nil {
		fail("startup failed", err)
	}
	defer a.close()

	email, password := loginEmail, loginPassword
	if email == "" || password == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Email").Value(&email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
		))
		if err := form.Run(); err != nil {
			fail("login cancelled", err)
		}
	}

	if err := a.holder.Login(a.ctx, email, password); err != nil {
		fail("login failed", err)
	}

	u := a.holder.User()
	if OutputData("login", start, map[string]any{"user": u}) {
		return
	}
	ux.Success(fmt.Sprintf("Signed in as %s (%s)", u.FullName(), u.Email))
	if u.IsAdmin() {
		ux.Muted("Coordinator access enabled.")
	}
}

func runSignup(cmd *cobra.Command, args []string) {
	start := time.Now()
	a, err := newApp()
	if err != nil {
		fail("startup failed", err)
	}
	defer a.close()

	var req events.SignupRequest
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("First name").Value(&req.FirstName),
			huh.NewInput().Title("Last name").Value(&req.LastName),
			huh.NewInput().Title("Email").Value(&req.Email),
			huh.NewInput().Title("Phone number").Value(&req.PhoneNumber),
			huh.NewSelect[string]().
				Title("Role").
				Options(huh.NewOptions(validation.Roles...)...).
				Value(&req.Role),
		),
		huh.NewGroup(
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&req.Password),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&req.ConfirmPassword),
		),
	)
	if err := form.Run(); err != nil {
		fail("signup cancelled", err)
	}
	if req.Password != req.ConfirmPassword {
		ux.Error("Passwords do not match.")
		os.Exit(CLIExitError)
	}

	if err := a.holder.Signup(a.ctx, req); err != nil {
		fail("signup failed", err)
	}

	u := a.holder.User()
	if OutputData("signup", start, map[string]any{"user": u}) {
		return
	}
	ux.Success(fmt.Sprintf("Account created. Signed in as %s.", u.FullName()))
}

func runLogout(cmd *cobra.Command, args []string) {
	start := time.Now()
	a, err := newApp()
	if err != nil {
		fail("startup failed", err)
	}
	defer a.close()

	if a.holder.User() == nil {
		ux.Muted("Not signed in.")
		return
	}
	if err := a.holder.Logout(a.ctx); err != nil {
		fail("logout failed", err)
	}
	if OutputData("logout", start, map[string]any{"signed_out": true}) {
		return
	}
	ux.Success("Signed out.")
}

func runWhoami(cmd *cobra.Command, args []string) {
	start := time.Now()
	a, err := newApp()
	if err != nil {
		fail("startup failed", err)
	}
	defer a.close()

	u := a.requireUser()
	if OutputData("whoami", start, map[string]any{"user": u}) {
		return
	}
	ux.Title(u.FullName())
	ux.Info("Email: " + u.Email)
	ux.Info("Role: " + u.Role)
	if u.IsAdmin() {
		ux.Info("Permissions: coordinator")
	}
}
