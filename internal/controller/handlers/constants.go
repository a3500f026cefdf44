package handlers

// Input limits for the /newroom dialog
const (
	RoomTitleMaxLength = 100

	// dates per room, counting every day of a range
	RoomMaxDates = 31

	// deadline parts
	TimerMaxDays = 60
)

// "-" skips an optional dialog step
const skipInput = "-"

// /avail argument that clears every selection
const clearSelections = "none"
