package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/modutime/scheduler_bot/internal/grid"
)

var (
	feb10 = time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC)
	feb11 = time.Date(2023, 2, 11, 0, 0, 0, 0, time.UTC)
)

func clockPtr(t *testing.T, s string) *grid.Clock {
	t.Helper()
	c, err := grid.ParseClock(s)
	require.NoError(t, err)
	return &c
}

type fixture struct {
	rooms        *memRooms
	participants *memParticipants
	slots        *memSlots
	cache        *memCache
	now          time.Time

	roomSvc  *RoomService
	partSvc  *ParticipantService
	availSvc *AvailabilityService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		slots:        newMemSlots(),
		participants: newMemParticipants(),
		cache:        newMemCache(),
		now:          time.Date(2023, 2, 1, 12, 0, 0, 0, time.UTC),
	}
	f.rooms = newMemRooms(f.slots)

	logger := zap.NewNop()
	clock := func() time.Time { return f.now }

	f.roomSvc = NewRoomService(f.rooms, f.participants, grid.DefaultTick, logger)
	f.roomSvc.now = clock

	f.partSvc = NewParticipantService(f.rooms, f.participants, logger)
	f.partSvc.hashCost = 4
	f.partSvc.now = clock

	f.availSvc = NewAvailabilityService(f.rooms, f.participants, f.slots, f.cache, time.Minute, logger)
	f.availSvc.now = clock

	return f
}

func TestRoomService_CreateTimedRoom(t *testing.T) {
	f := newFixture(t)

	room, err := f.roomSvc.Create(context.Background(), CreateRoomInput{
		Title:     "  Retro  ",
		Dates:     []time.Time{feb10, feb11},
		StartTime: clockPtr(t, "11:00"),
		EndTime:   clockPtr(t, "13:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Retro", room.Title)
	assert.Equal(t, 30, room.TickMinutes)
	assert.Nil(t, room.Deadline)

	records, err := f.slots.Load(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Len(t, records, 8)
}

func TestRoomService_CreateDefaults(t *testing.T) {
	f := newFixture(t)

	room, err := f.roomSvc.Create(context.Background(), CreateRoomInput{
		Dates: []time.Time{feb10},
		Timer: &Timer{Day: 1, Hour: 2, Minute: 30},
	})
	require.NoError(t, err)

	assert.Equal(t, "Untitled room", room.Title)
	assert.True(t, room.IsWholeDay())
	require.NotNil(t, room.Deadline)
	assert.Equal(t, f.now.Add(26*time.Hour+30*time.Minute), *room.Deadline)
}

func TestRoomService_CreateErrors(t *testing.T) {
	zero, negative := 0, -1

	tests := []struct {
		name  string
		input CreateRoomInput
		check func(t *testing.T, err error)
	}{
		{
			name:  "no dates",
			input: CreateRoomInput{},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, grid.ErrEmptyDateList) },
		},
		{
			name:  "start after end",
			input: CreateRoomInput{Dates: []time.Time{feb10}, StartTime: clockPtr(t, "13:00"), EndTime: clockPtr(t, "11:00")},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, grid.ErrInvalidWindow) },
		},
		{
			name:  "duplicate dates",
			input: CreateRoomInput{Dates: []time.Time{feb10, feb10}},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, grid.ErrDuplicateDate) },
		},
		{
			name:  "zero head count",
			input: CreateRoomInput{Dates: []time.Time{feb10}, HeadCount: &zero},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrInvalidHeadCount) },
		},
		{
			name:  "negative timer",
			input: CreateRoomInput{Dates: []time.Time{feb10}, Timer: &Timer{Hour: negative}},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrInvalidTimer) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.roomSvc.Create(context.Background(), tt.input)
			require.Error(t, err)
			tt.check(t, err)
			assert.Empty(t, f.rooms.rooms)
		})
	}
}

func TestRoomService_GetUnknown(t *testing.T) {
	f := newFixture(t)
	_, err := f.roomSvc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomService_Info(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room, err := f.roomSvc.Create(ctx, CreateRoomInput{Dates: []time.Time{feb10}})
	require.NoError(t, err)

	for _, name := range []string{"kim", "lee"} {
		_, _, err := f.partSvc.Join(ctx, room.ID, name, "1234", 0)
		require.NoError(t, err)
	}

	info, err := f.roomSvc.Info(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, info.Room.ID)
	assert.Equal(t, []string{"kim", "lee"}, info.Participants)
}

func TestRoomService_CloseExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	expiring, err := f.roomSvc.Create(ctx, CreateRoomInput{Dates: []time.Time{feb10}, Timer: &Timer{Hour: 1}})
	require.NoError(t, err)
	_, err = f.roomSvc.Create(ctx, CreateRoomInput{Dates: []time.Time{feb10}, Timer: &Timer{Day: 3}})
	require.NoError(t, err)
	_, err = f.roomSvc.Create(ctx, CreateRoomInput{Dates: []time.Time{feb10}})
	require.NoError(t, err)

	f.now = f.now.Add(2 * time.Hour)

	closed, err := f.roomSvc.CloseExpired(ctx)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, expiring.ID, closed[0].ID)
	require.NotNil(t, closed[0].ClosedAt)

	again, err := f.roomSvc.CloseExpired(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestTimer_Deadline(t *testing.T) {
	now := time.Date(2023, 2, 1, 12, 0, 0, 0, time.UTC)

	assert.Nil(t, (*Timer)(nil).Deadline(now))
	assert.Nil(t, (&Timer{}).Deadline(now))

	d := (&Timer{Day: 2, Minute: 5}).Deadline(now)
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2023, 2, 3, 12, 5, 0, 0, time.UTC), *d)
}
