package handlers

import (
	"errors"
	"fmt"

	"github.com/modutime/scheduler_bot/internal/grid"
	"github.com/modutime/scheduler_bot/internal/service"
)

const internalErrorText = "❌ Something went wrong. Please try again later."

// userMessage turns a service or grid error into a chat message.
// expected is false for errors the user cannot fix by changing the input.
func userMessage(err error) (text string, expected bool) {
	var selErr *grid.SelectionError
	if errors.As(err, &selErr) {
		return selectionMessage(selErr), true
	}

	switch {
	case errors.Is(err, grid.ErrEmptyDateList):
		return "❌ A room needs at least one date.", true
	case errors.Is(err, grid.ErrDuplicateDate):
		return "❌ Each date may appear only once.", true
	case errors.Is(err, grid.ErrInvalidWindow):
		return "❌ The time window must start before it ends and fit at least one slot.", true
	case errors.Is(err, grid.ErrEmptyParticipant), errors.Is(err, service.ErrInvalidName):
		return "❌ Names must be 1 to 50 characters long.", true
	case errors.Is(err, service.ErrRoomNotFound):
		return "❌ Room not found. Check the room code.", true
	case errors.Is(err, service.ErrRoomClosed):
		return "🔒 Voting in this room is closed.", true
	case errors.Is(err, service.ErrRoomFull):
		return "❌ This room has reached its head count.", true
	case errors.Is(err, service.ErrInvalidHeadCount):
		return "❌ The head count must be a positive number.", true
	case errors.Is(err, service.ErrInvalidTimer):
		return "❌ Deadline values must not be negative.", true
	case errors.Is(err, service.ErrParticipantNotFound):
		return "❌ You are not a participant of this room. Use /join first.", true
	case errors.Is(err, service.ErrInvalidPIN):
		return "❌ The password must be exactly 4 digits.", true
	case errors.Is(err, service.ErrWrongPassword):
		return "❌ Wrong password for this name.", true
	case errors.Is(err, service.ErrNameTaken):
		return "❌ This name is already taken in the room.", true
	case errors.Is(err, service.ErrInvalidEmail):
		return "❌ This does not look like an email address.", true
	}

	return internalErrorText, false
}

func selectionMessage(e *grid.SelectionError) string {
	switch {
	case errors.Is(e.Err, grid.ErrUnknownDate):
		return fmt.Sprintf("❌ %s is not one of the room dates. Nothing was saved.", grid.FormatDate(e.Selection.Date))
	case errors.Is(e.Err, grid.ErrMisalignedTime):
		return fmt.Sprintf("❌ %s is not the start of a slot. Check /room for the window and slot length. Nothing was saved.", e.Selection)
	case errors.Is(e.Err, grid.ErrGranularityMismatch):
		if e.Selection.IsWholeDay() {
			return fmt.Sprintf("❌ This room has time slots, add times after %s. Nothing was saved.", grid.FormatDate(e.Selection.Date))
		}
		return fmt.Sprintf("❌ This room votes on whole days, send %s without times. Nothing was saved.", grid.FormatDate(e.Selection.Date))
	}
	return fmt.Sprintf("❌ %s cannot be selected. Nothing was saved.", e.Selection)
}
