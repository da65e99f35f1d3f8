// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package devserver is an in-memory implementation of the coordination
// backend's REST contract. It exists so the CLI can be developed and
// demoed without the production backend: `vhub dev serve` runs it, and
// the client package's integration tests run against it.
//
// State lives in process memory and is lost on exit. Not a deployment
// target: passwords are unhashed and there is no rate limiting.
package devserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/volunteerhub/vhub/pkg/logging"
)

// DefaultAdminEmail and DefaultAdminPassword are the seeded admin
// credentials, printed by `vhub dev serve` on startup.
const (
	DefaultAdminEmail    = "admin@vhub.local"
	DefaultAdminPassword = "admin123"
)

// Server serves the backend REST contract from memory.
type Server struct {
	store  *store
	log    *logging.Logger
	engine *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger. Defaults to logging.Default().
func WithLogger(l *logging.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New creates a Server with a seeded admin account.
func New(opts ...Option) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		store: newStore(),
		log:   logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.store.addUser(user{
		FirstName:   "Dev",
		LastName:    "Admin",
		Email:       DefaultAdminEmail,
		Permissions: "admin",
		Role:        "Guide",
		Password:    DefaultAdminPassword,
	})

	engine := gin.New()
	engine.Use(gin.Recovery())
	s.routes(engine)
	s.engine = engine
	return s
}

// Handler returns the HTTP handler, for mounting in httptest or an
// http.Server.
func (s *Server) Handler() http.Handler { return s.engine }

// SeedSampleEvents loads a handful of approved events so a fresh dev
// server has something to browse.
func (s *Server) SeedSampleEvents() {
	base := time.Now().UTC().Truncate(time.Hour).Add(7 * 24 * time.Hour)
	samples := []event{
		{
			Title: "Square Evening Shift", Channel: "Hostages Square", Language: "Hebrew",
			Location: "Hostages Square", Date: base, GroupSize: 25,
			NumInstructorsNeeded: 2, NumRepresentativesNeeded: 1, Approved: true,
		},
		{
			Title: "Virtual Briefing (EN)", Channel: "Virtual", Language: "English",
			Location: "Zoom", Date: base.Add(48 * time.Hour), GroupSize: 100,
			NumInstructorsNeeded: 1, Approved: true,
		},
		{
			Title: "Northern Communities Visit", Channel: "Business Sector", Language: "Hebrew",
			Location: "North", Date: base.Add(96 * time.Hour), GroupSize: 15,
			NumRepresentativesNeeded: 2,
		},
	}
	for _, e := range samples {
		s.store.addEvent(e)
	}
}

func (s *Server) routes(engine *gin.Engine) {
	engine.POST("/login", s.handleLogin)
	engine.POST("/signup", s.handleSignup)
	engine.GET("/events", s.handleListEvents)

	auth := engine.Group("/", s.requireAuth)
	auth.GET("/me", s.handleMe)
	auth.POST("/logout", s.handleLogout)
	auth.GET("/me/events", s.handleMyEvents)
	auth.POST("/events/:id/register", s.handleRegister)
	auth.DELETE("/events/:id/unregister", s.handleUnregister)

	admin := engine.Group("/", s.requireAuth, s.requireAdmin)
	admin.GET("/events/:id/registrations/pending", s.handlePendingRegistrations)
	admin.POST("/admin/new", s.handleCreateEvent)
	admin.PUT("/admin/edit/:id", s.handleEditEvent)
	admin.DELETE("/admin/delete/:id", s.handleDeleteEvent)
	admin.PUT("/admin/approve/:id", s.handleApproveEvent)
	admin.PUT("/admin/unapprove/:id", s.handleUnapproveEvent)
	admin.PUT("/admin/approve-registration/:eventID/:userID", s.handleApproveRegistration)
	admin.DELETE("/admin/reject-registration/:eventID/:userID", s.handleRejectRegistration)
}

// -----------------------------------------------------------------------------
// Middleware
// -----------------------------------------------------------------------------

const userKey = "devserver.user"

func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: "missing bearer token"})
		return
	}
	u, ok := s.store.userByToken(token)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: "invalid or expired token"})
		return
	}
	c.Set(userKey, u)
	c.Next()
}

func (s *Server) requireAdmin(c *gin.Context) {
	u := currentUser(c)
	if u.Permissions != "admin" && u.Permissions != "super_admin" {
		c.AbortWithStatusJSON(http.StatusForbidden, errorResponse{Message: "admin access required"})
		return
	}
	c.Next()
}

func currentUser(c *gin.Context) *user {
	return c.MustGet(userKey).(*user)
}

func currentToken(c *gin.Context) string {
	token, _ := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	return token
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid id " + c.Param(name)})
		return 0, false
	}
	return id, true
}

// -----------------------------------------------------------------------------
// Auth Handlers
// -----------------------------------------------------------------------------

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}

	u, ok := s.store.userByEmail(req.Email)
	if !ok || u.Password != req.Password {
		c.JSON(http.StatusUnauthorized, errorResponse{Message: "Invalid credentials"})
		return
	}

	token := s.store.issueToken(u.ID)
	s.log.Info("login", "user_id", u.ID, "email", u.Email)
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"user":         userToRow(u),
	})
}

func (s *Server) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}
	if _, exists := s.store.userByEmail(req.Email); exists {
		c.JSON(http.StatusConflict, errorResponse{Message: "email already registered"})
		return
	}

	u := s.store.addUser(user{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Permissions: "user",
		Role:        req.Role,
		Password:    req.Password,
	})
	s.log.Info("signup", "user_id", u.ID, "email", u.Email)
	c.JSON(http.StatusCreated, gin.H{"user": userToRow(u)})
}

func (s *Server) handleMe(c *gin.Context) {
	c.JSON(http.StatusOK, userToRow(currentUser(c)))
}

func (s *Server) handleLogout(c *gin.Context) {
	s.store.revokeToken(currentToken(c))
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// -----------------------------------------------------------------------------
// Event Handlers
// -----------------------------------------------------------------------------

func (s *Server) handleListEvents(c *gin.Context) {
	all := s.store.listEvents()
	rows := make([]eventRow, 0, len(all))
	for _, e := range all {
		rows = append(rows, eventToRow(e))
	}
	c.JSON(http.StatusOK, gin.H{"events": rows})
}

func (s *Server) handleMyEvents(c *gin.Context) {
	u := currentUser(c)
	mine := s.store.userEvents(u.ID)
	rows := make([]eventRow, 0, len(mine))
	for _, entry := range mine {
		row := eventToRow(entry.Event)
		row.RegistrationStatus = registrationStatus(entry.Reg.Approved)
		rows = append(rows, row)
	}
	c.JSON(http.StatusOK, gin.H{"events": rows})
}

func (s *Server) handleCreateEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}

	date, _ := time.Parse(time.RFC3339, req.Date)
	e := s.store.addEvent(event{
		Title:                    req.Title,
		Description:              req.Description,
		Channel:                  req.Channel,
		Language:                 req.Language,
		Location:                 req.Location,
		TargetAudience:           req.TargetAudience,
		GroupDescription:         req.GroupDescription,
		AdditionalNotes:          req.AdditionalNotes,
		ContactPhoneNumber:       req.ContactPhoneNumber,
		Date:                     date,
		GroupSize:                req.GroupSize,
		NumInstructorsNeeded:     req.NumInstructorsNeeded,
		NumRepresentativesNeeded: req.NumRepresentativesNeeded,
	})
	s.log.Info("event created", "event_id", e.ID, "title", e.Title)
	c.JSON(http.StatusCreated, gin.H{"event": eventToRow(e)})
}

func (s *Server) handleEditEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch eventPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}
	if err := patch.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}

	updated, found := s.store.updateEvent(id, func(e *event) { applyPatch(e, patch) })
	if !found {
		c.JSON(http.StatusNotFound, errorResponse{Message: "event not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": eventToRow(&updated)})
}

func applyPatch(e *event, p eventPatch) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Channel != nil {
		e.Channel = *p.Channel
	}
	if p.Language != nil {
		e.Language = *p.Language
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.TargetAudience != nil {
		e.TargetAudience = *p.TargetAudience
	}
	if p.GroupDescription != nil {
		e.GroupDescription = *p.GroupDescription
	}
	if p.AdditionalNotes != nil {
		e.AdditionalNotes = *p.AdditionalNotes
	}
	if p.ContactPhoneNumber != nil {
		e.ContactPhoneNumber = *p.ContactPhoneNumber
	}
	if p.Date != nil {
		date, _ := time.Parse(time.RFC3339, *p.Date)
		e.Date = date
	}
	if p.GroupSize != nil {
		e.GroupSize = *p.GroupSize
	}
	if p.NumInstructorsNeeded != nil {
		e.NumInstructorsNeeded = *p.NumInstructorsNeeded
	}
	if p.NumRepresentativesNeeded != nil {
		e.NumRepresentativesNeeded = *p.NumRepresentativesNeeded
	}
}

func (s *Server) handleDeleteEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !s.store.deleteEvent(id) {
		c.JSON(http.StatusNotFound, errorResponse{Message: "event not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}

func (s *Server) handleApproveEvent(c *gin.Context) {
	s.setApproval(c, true)
}

func (s *Server) handleUnapproveEvent(c *gin.Context) {
	s.setApproval(c, false)
}

func (s *Server) setApproval(c *gin.Context, approved bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !s.store.setEventApproved(id, approved) {
		c.JSON(http.StatusNotFound, errorResponse{Message: "event not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "event updated"})
}

// -----------------------------------------------------------------------------
// Registration Handlers
// -----------------------------------------------------------------------------

func (s *Server) handleRegister(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u := currentUser(c)
	reg, found := s.store.register(id, u.ID)
	if !found {
		c.JSON(http.StatusNotFound, errorResponse{Message: "event not found"})
		return
	}
	s.log.Info("registration", "event_id", id, "user_id", u.ID)
	c.JSON(http.StatusOK, gin.H{"status": registrationStatus(reg.Approved)})
}

func (s *Server) handleUnregister(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u := currentUser(c)
	if !s.store.unregister(id, u.ID) {
		c.JSON(http.StatusNotFound, errorResponse{Message: "registration not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unregistered"})
}

func (s *Server) handlePendingRegistrations(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	e, found := s.store.getEvent(id)
	if !found {
		c.JSON(http.StatusNotFound, errorResponse{Message: "event not found"})
		return
	}

	pending := s.store.pendingRegistrations(id)
	rows := make([]registrationRow, 0, len(pending))
	for _, entry := range pending {
		rows = append(rows, registrationRow{
			UserID:        entry.User.ID,
			UserEmail:     entry.User.Email,
			UserRole:      entry.User.Role,
			EventID:       e.ID,
			EventTitle:    e.Title,
			EventDate:     e.Date.UTC().Format(time.RFC3339),
			EventChannel:  e.Channel,
			EventLanguage: e.Language,
			EventLocation: e.Location,
			Status:        registrationStatus(entry.Reg.Approved),
		})
	}
	c.JSON(http.StatusOK, gin.H{"registrations": rows})
}

func (s *Server) handleApproveRegistration(c *gin.Context) {
	eventID, ok := pathID(c, "eventID")
	if !ok {
		return
	}
	userID, ok := pathID(c, "userID")
	if !ok {
		return
	}
	if !s.store.setRegistrationApproved(eventID, userID, true) {
		c.JSON(http.StatusNotFound, errorResponse{Message: "registration not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "registration approved"})
}

func (s *Server) handleRejectRegistration(c *gin.Context) {
	eventID, ok := pathID(c, "eventID")
	if !ok {
		return
	}
	userID, ok := pathID(c, "userID")
	if !ok {
		return
	}
	if !s.store.unregister(eventID, userID) {
		c.JSON(http.StatusNotFound, errorResponse{Message: "registration not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "registration rejected"})
}
