package models

import "testing"

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{from: StatusPending, to: StatusConfirmed, allowed: true},
		{from: StatusPending, to: StatusCompleted, allowed: true},
		{from: StatusPending, to: StatusCancelled, allowed: true},
		{from: StatusConfirmed, to: StatusCompleted, allowed: true},
		{from: StatusConfirmed, to: StatusCancelled, allowed: true},
		{from: StatusConfirmed, to: StatusPending, allowed: false},
		{from: StatusCompleted, to: StatusPending, allowed: false},
		{from: StatusCompleted, to: StatusConfirmed, allowed: false},
		{from: StatusCompleted, to: StatusCancelled, allowed: false},
		{from: StatusCancelled, to: StatusPending, allowed: false},
		{from: StatusCancelled, to: StatusConfirmed, allowed: false},
		{from: StatusCancelled, to: StatusCompleted, allowed: false},
		{from: StatusPending, to: StatusPending, allowed: false},
		{from: StatusCancelled, to: StatusCancelled, allowed: false},
	}

	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.allowed {
			t.Fatalf("%s -> %s: expected allowed=%v, got %v", c.from, c.to, c.allowed, got)
		}
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []AppointmentStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled} {
		if !s.Valid() {
			t.Fatalf("%s should be valid", s)
		}
	}
	for _, s := range []AppointmentStatus{"", "unknown", "PENDING", "done"} {
		if s.Valid() {
			t.Fatalf("%q should not be valid", s)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	cases := []struct {
		status   AppointmentStatus
		terminal bool
	}{
		{status: StatusPending, terminal: false},
		{status: StatusConfirmed, terminal: false},
		{status: StatusCompleted, terminal: true},
		{status: StatusCancelled, terminal: true},
		{status: "unknown", terminal: false},
	}

	for _, c := range cases {
		if got := c.status.Terminal(); got != c.terminal {
			t.Fatalf("Terminal(%s): expected %v, got %v", c.status, c.terminal, got)
		}
	}
}
