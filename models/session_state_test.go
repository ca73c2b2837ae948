package models

import (
	"errors"
	"testing"
	"time"
)

func TestSessionTransitions(t *testing.T) {
	var s SessionState = &NoActiveSessionState{}

	if _, err := s.BeginCheckOut(); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("checkout without session: got %v", err)
	}

	s, err := s.BeginCheckIn()
	if err != nil || s.Status() != StatusCheckingIn {
		t.Fatalf("begin check-in: %v %v", s.Status(), err)
	}
	if _, err := s.BeginCheckIn(); !errors.Is(err, ErrOperationInProgress) {
		t.Fatalf("double begin: got %v", err)
	}
	if _, err := s.BeginCheckOut(); !errors.Is(err, ErrOperationInProgress) {
		t.Fatalf("checkout while checking in: got %v", err)
	}

	s = s.Resolve(true)
	if s.Status() != StatusActiveSession {
		t.Fatalf("after check-in: %v", s.Status())
	}
	if _, err := s.BeginCheckIn(); !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("check-in while active: got %v", err)
	}

	s, err = s.BeginCheckOut()
	if err != nil || s.Status() != StatusCheckingOut {
		t.Fatalf("begin check-out: %v %v", s.Status(), err)
	}
	if got := s.Resolve(false).Status(); got != StatusActiveSession {
		t.Fatalf("failed checkout should keep session open, got %v", got)
	}
	if got := s.Resolve(true).Status(); got != StatusNoActiveSession {
		t.Fatalf("after check-out: %v", got)
	}
}

func TestFailedCheckInReturnsToIdle(t *testing.T) {
	s, _ := (&NoActiveSessionState{}).BeginCheckIn()
	if got := s.Resolve(false).Status(); got != StatusNoActiveSession {
		t.Fatalf("got %v", got)
	}
}

func TestGetSessionState(t *testing.T) {
	if got := GetSessionState(nil).Status(); got != StatusNoActiveSession {
		t.Fatalf("nil record: %v", got)
	}
	open := &CheckInRecord{ID: "r1", CheckInTime: time.Now()}
	if got := GetSessionState(open).Status(); got != StatusActiveSession {
		t.Fatalf("open record: %v", got)
	}
	out := time.Now()
	open.CheckOutTime = &out
	if got := GetSessionState(open).Status(); got != StatusNoActiveSession {
		t.Fatalf("closed record: %v", got)
	}
}

func TestCloneDoesNotShareCheckOut(t *testing.T) {
	out := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	r := CheckInRecord{ID: "r1", CheckOutTime: &out}
	c := r.Clone()
	*c.CheckOutTime = c.CheckOutTime.Add(time.Hour)
	if !r.CheckOutTime.Equal(out) {
		t.Fatalf("clone mutated original: %v", r.CheckOutTime)
	}
}
