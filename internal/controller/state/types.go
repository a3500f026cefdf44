package state

import "github.com/google/uuid"

// UserState is the current step of a user in a dialog
type UserState string

const (
	StateNone UserState = "" // no active dialog

	// /newroom dialog
	StateNewRoomTitle    UserState = "new_room_title"
	StateNewRoomDates    UserState = "new_room_dates"
	StateNewRoomWindow   UserState = "new_room_window"
	StateNewRoomDeadline UserState = "new_room_deadline"
)

// Data keys used by the /newroom dialog
const (
	KeyTitle = "title"
	KeyDates = "dates"
	KeyStart = "start"
	KeyEnd   = "end"
	KeyTick  = "tick"
	KeyHeads = "head_count"
)

// UserData holds the scratch data of the current dialog
type UserData struct {
	State UserState
	Data  map[string]interface{}
}

// Session is the room a telegram user is logged into.
type Session struct {
	RoomID        uuid.UUID
	Name          string
	ParticipantID int64
}
