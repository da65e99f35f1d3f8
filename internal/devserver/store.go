// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package devserver

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// user is a backend account. Passwords are stored as-is: this server is
// a development fixture, never a deployment target.
type user struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Permissions string // "user", "admin" or "super_admin"
	Role        string
	Password    string
}

// event mirrors the backend's event record with a numeric primary key.
type event struct {
	ID                       int64
	Title                    string
	Description              string
	Channel                  string
	Language                 string
	Location                 string
	TargetAudience           string
	GroupDescription         string
	AdditionalNotes          string
	ContactPhoneNumber       string
	Date                     time.Time
	GroupSize                int
	NumInstructorsNeeded     int
	NumRepresentativesNeeded int
	Approved                 bool
}

// registration links a user to an event.
type registration struct {
	UserID   int64
	EventID  int64
	Approved bool
}

// store holds all server state in memory behind one mutex. Uniform
// locking keeps the handlers simple; contention is irrelevant at dev
// scale.
type store struct {
	mu sync.Mutex

	nextUserID  int64
	nextEventID int64

	users         map[int64]*user
	usersByEmail  map[string]*user
	events        map[int64]*event
	registrations map[int64]map[int64]*registration // eventID -> userID -> reg
	tokens        map[string]int64                  // bearer token -> userID
}

func newStore() *store {
	return &store{
		nextUserID:    1,
		nextEventID:   1,
		users:         make(map[int64]*user),
		usersByEmail:  make(map[string]*user),
		events:        make(map[int64]*event),
		registrations: make(map[int64]map[int64]*registration),
		tokens:        make(map[string]int64),
	}
}

func (s *store) addUser(u user) *user {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.nextUserID
	s.nextUserID++
	cp := u
	s.users[cp.ID] = &cp
	s.usersByEmail[cp.Email] = &cp
	return &cp
}

func (s *store) userByEmail(email string) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.usersByEmail[email]
	return u, ok
}

func (s *store) issueToken(userID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.tokens[token] = userID
	return token
}

func (s *store) userByToken(token string) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokens[token]
	if !ok {
		return nil, false
	}
	u, ok := s.users[id]
	return u, ok
}

func (s *store) revokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

func (s *store) addEvent(e event) *event {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextEventID
	s.nextEventID++
	cp := e
	s.events[cp.ID] = &cp
	return &cp
}

func (s *store) getEvent(id int64) (*event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	return e, ok
}

// listEvents returns all events ordered by id so list output is stable
// across refetches.
func (s *store) listEvents() []*event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// updateEvent applies fn to the event under the store lock and returns
// a copy of the result.
func (s *store) updateEvent(id int64, fn func(*event)) (event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return event{}, false
	}
	fn(e)
	return *e, true
}

func (s *store) deleteEvent(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return false
	}
	delete(s.events, id)
	delete(s.registrations, id)
	return true
}

func (s *store) setEventApproved(id int64, approved bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return false
	}
	e.Approved = approved
	return true
}

func (s *store) register(eventID, userID int64) (*registration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[eventID]; !ok {
		return nil, false
	}
	regs := s.registrations[eventID]
	if regs == nil {
		regs = make(map[int64]*registration)
		s.registrations[eventID] = regs
	}
	if existing, ok := regs[userID]; ok {
		return existing, true
	}
	reg := &registration{UserID: userID, EventID: eventID}
	regs[userID] = reg
	return reg, true
}

func (s *store) unregister(eventID, userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	regs, ok := s.registrations[eventID]
	if !ok {
		return false
	}
	if _, ok := regs[userID]; !ok {
		return false
	}
	delete(regs, userID)
	return true
}

func (s *store) setRegistrationApproved(eventID, userID int64, approved bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	regs, ok := s.registrations[eventID]
	if !ok {
		return false
	}
	reg, ok := regs[userID]
	if !ok {
		return false
	}
	reg.Approved = approved
	return true
}

// registrationFor returns the user's registration on an event, if any.
func (s *store) registrationFor(eventID, userID int64) (*registration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	regs, ok := s.registrations[eventID]
	if !ok {
		return nil, false
	}
	reg, ok := regs[userID]
	return reg, ok
}

// userEvents returns the events a user is registered to, with the
// registration, ordered by event id.
func (s *store) userEvents(userID int64) []struct {
	Event *event
	Reg   *registration
} {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []struct {
		Event *event
		Reg   *registration
	}
	for eventID, regs := range s.registrations {
		reg, ok := regs[userID]
		if !ok {
			continue
		}
		e, ok := s.events[eventID]
		if !ok {
			continue
		}
		out = append(out, struct {
			Event *event
			Reg   *registration
		}{e, reg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Event.ID < out[j].Event.ID })
	return out
}

// pendingRegistrations returns unapproved registrations for one event,
// ordered by user id.
func (s *store) pendingRegistrations(eventID int64) []struct {
	User *user
	Reg  *registration
} {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []struct {
		User *user
		Reg  *registration
	}
	for userID, reg := range s.registrations[eventID] {
		if reg.Approved {
			continue
		}
		u, ok := s.users[userID]
		if !ok {
			continue
		}
		out = append(out, struct {
			User *user
			Reg  *registration
		}{u, reg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].User.ID < out[j].User.ID })
	return out
}
