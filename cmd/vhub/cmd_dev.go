// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/volunteerhub/vhub/internal/devserver"
	"github.com/volunteerhub/vhub/pkg/ux"
)

func runDevServe(cmd *cobra.Command, args []string) {
	srv := devserver.New(devserver.WithLogger(logger))
	if devSeed {
		srv.SeedSampleEvents()
	}

	httpSrv := &http.Server{
		Addr:              devAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	ux.Title("vhub dev server")
	ux.Info("Listening on " + devAddr)
	ux.Info("Admin login: " + devserver.DefaultAdminEmail + " / " + devserver.DefaultAdminPassword)
	ux.Muted("State is in-memory and lost on exit. Ctrl+C to stop.")

	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fail("dev server failed", err)
	}
	ux.Muted("Stopped.")
}
