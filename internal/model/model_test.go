package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modutime/scheduler_bot/internal/grid"
)

func intPtr(v int) *int { return &v }

func TestRoom_NewGrid(t *testing.T) {
	room := &Room{
		ID:          uuid.New(),
		Dates:       []time.Time{time.Date(2023, 2, 9, 0, 0, 0, 0, time.UTC), time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC)},
		StartMinute: intPtr(11 * 60),
		EndMinute:   intPtr(13 * 60),
		TickMinutes: 30,
	}

	g, err := room.NewGrid()
	require.NoError(t, err)
	assert.Equal(t, room.ID.String(), g.RoomID)
	assert.Equal(t, grid.ModeTimeGranular, g.Mode)
	assert.Equal(t, 8, g.SlotCount())
}

func TestRoom_WholeDayGrid(t *testing.T) {
	room := &Room{ID: uuid.New(), Dates: []time.Time{time.Date(2023, 2, 9, 0, 0, 0, 0, time.UTC)}}

	assert.True(t, room.IsWholeDay())
	g, err := room.NewGrid()
	require.NoError(t, err)
	assert.Equal(t, grid.ModeWholeDay, g.Mode)
}

func TestRoom_IsClosed(t *testing.T) {
	now := time.Date(2023, 2, 10, 12, 0, 0, 0, time.UTC)
	past, future := now.Add(-time.Minute), now.Add(time.Minute)

	assert.False(t, (&Room{}).IsClosed(now))
	assert.False(t, (&Room{Deadline: &future}).IsClosed(now))
	assert.True(t, (&Room{Deadline: &past}).IsClosed(now))
	assert.True(t, (&Room{Deadline: &now}).IsClosed(now))
	assert.True(t, (&Room{ClosedAt: &past, Deadline: &future}).IsClosed(now))
}

func TestIsValidPIN(t *testing.T) {
	assert.True(t, IsValidPIN("0123"))
	assert.False(t, IsValidPIN("123"))
	assert.False(t, IsValidPIN("12345"))
	assert.False(t, IsValidPIN("12a4"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("alice@example.com"))
	assert.True(t, IsValidEmail("alice.kim@mail.example.org"))
	assert.False(t, IsValidEmail("alice"))
	assert.False(t, IsValidEmail("alice@localhost"))
}
