package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/modutime/scheduler_bot/internal/grid"
)

// DefaultRoomTitle is used when the organizer leaves the title empty.
const DefaultRoomTitle = "Untitled room"

// Room is a meeting window proposed by an organizer.
type Room struct {
	ID    uuid.UUID   `json:"id"`
	Title string      `json:"title"`
	Dates []time.Time `json:"dates"`
	// StartMinute and EndMinute are nil for whole-day rooms.
	StartMinute     *int       `json:"start_minute"`
	EndMinute       *int       `json:"end_minute"`
	TickMinutes     int        `json:"tick_minutes"`
	HeadCount       *int       `json:"head_count"` // nil = unlimited
	Deadline        *time.Time `json:"deadline"`
	OrganizerChatID int64      `json:"organizer_chat_id"`
	ClosedAt        *time.Time `json:"closed_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Window returns the time-of-day window of the room, or two nils for a whole-day room.
func (r *Room) Window() (start, end *grid.Clock) {
	if r.StartMinute != nil {
		start = grid.ClockPtr(grid.Clock(*r.StartMinute))
	}
	if r.EndMinute != nil {
		end = grid.ClockPtr(grid.Clock(*r.EndMinute))
	}
	return start, end
}

// Tick returns the slot resolution of the room.
func (r *Room) Tick() time.Duration {
	return time.Duration(r.TickMinutes) * time.Minute
}

// IsWholeDay reports whether the room has no time window.
func (r *Room) IsWholeDay() bool {
	return r.StartMinute == nil && r.EndMinute == nil
}

// IsClosed reports whether availability can no longer change.
func (r *Room) IsClosed(now time.Time) bool {
	if r.ClosedAt != nil {
		return true
	}
	return r.Deadline != nil && !now.Before(*r.Deadline)
}

// NewGrid builds an empty availability grid for the room.
func (r *Room) NewGrid() (*grid.Grid, error) {
	start, end := r.Window()
	return grid.New(r.ID.String(), r.Dates, start, end, r.Tick())
}

// RestoreGrid rebuilds the availability grid of the room from stored slots.
func (r *Room) RestoreGrid(records []grid.SlotRecord) (*grid.Grid, error) {
	start, end := r.Window()
	return grid.Restore(r.ID.String(), r.Dates, start, end, r.Tick(), records)
}
