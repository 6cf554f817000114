// README: Session lifecycle records: completed bookings and turn results.
package session

import (
	"errors"
	"time"

	"farebot/internal/modules/dialogue"
	"farebot/internal/modules/trip"
	"farebot/internal/types"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrExists   = errors.New("session already exists")
	// ErrConflict means the session changed since it was read.
	ErrConflict = errors.New("session was updated concurrently")
)

// Booking is what a completed dialogue hands to the booking automation.
type Booking struct {
	SessionID   types.ID        `json:"session_id"`
	CompletedAt time.Time       `json:"completed_at"`
	Trip        trip.Request    `json:"flight_info"`
	Traveler    trip.Traveler   `json:"user_info"`
	Transcript  []dialogue.Turn `json:"chat_history"`
}

func BookingOf(s dialogue.Session, at time.Time) Booking {
	return Booking{
		SessionID:   s.ID,
		CompletedAt: at,
		Trip:        s.Trip,
		Traveler:    s.Traveler,
		Transcript:  s.Transcript,
	}
}

// Result is the outcome of one Manager.Turn.
type Result struct {
	SessionID types.ID
	Reply     string
	Complete  bool
	Session   dialogue.Session
}
