package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/modutime/scheduler_bot/internal/grid"
	"github.com/modutime/scheduler_bot/internal/model"
)

// Timer is the voting period of a room, counted from its creation.
type Timer struct {
	Day    int
	Hour   int
	Minute int
}

// Deadline returns nil when the timer is nil or all zero.
func (t *Timer) Deadline(now time.Time) *time.Time {
	if t == nil || (t.Day == 0 && t.Hour == 0 && t.Minute == 0) {
		return nil
	}
	d := now.AddDate(0, 0, t.Day).
		Add(time.Duration(t.Hour) * time.Hour).
		Add(time.Duration(t.Minute) * time.Minute)
	return &d
}

func (t *Timer) valid() bool {
	return t == nil || (t.Day >= 0 && t.Hour >= 0 && t.Minute >= 0)
}

type CreateRoomInput struct {
	Title     string
	Dates     []time.Time
	StartTime *grid.Clock
	EndTime   *grid.Clock
	// Tick defaults to the service tick when zero.
	Tick            time.Duration
	HeadCount       *int
	Timer           *Timer
	OrganizerChatID int64
}

// RoomInfo is the organizer-facing summary of a room.
type RoomInfo struct {
	Room         *model.Room
	Participants []string
}

type RoomService struct {
	rooms        RoomStore
	participants ParticipantStore
	tick         time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

func NewRoomService(rooms RoomStore, participants ParticipantStore, tick time.Duration, logger *zap.Logger) *RoomService {
	return &RoomService{
		rooms:        rooms,
		participants: participants,
		tick:         tick,
		logger:       logger,
		now:          time.Now,
	}
}

// Create validates the room window, then stores the room with an empty grid.
func (s *RoomService) Create(ctx context.Context, in CreateRoomInput) (*model.Room, error) {
	if in.HeadCount != nil && *in.HeadCount <= 0 {
		return nil, ErrInvalidHeadCount
	}
	if !in.Timer.valid() {
		return nil, ErrInvalidTimer
	}

	tick := in.Tick
	if tick <= 0 {
		tick = s.tick
	}
	if tick <= 0 {
		tick = grid.DefaultTick
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = model.DefaultRoomTitle
	}

	now := s.now()
	room := &model.Room{
		ID:              uuid.New(),
		Title:           title,
		TickMinutes:     int(tick / time.Minute),
		HeadCount:       in.HeadCount,
		Deadline:        in.Timer.Deadline(now),
		OrganizerChatID: in.OrganizerChatID,
	}
	if in.StartTime != nil {
		m := int(*in.StartTime)
		room.StartMinute = &m
	}
	if in.EndTime != nil {
		m := int(*in.EndTime)
		room.EndMinute = &m
	}
	for _, d := range in.Dates {
		room.Dates = append(room.Dates, grid.DateOf(d))
	}

	g, err := room.NewGrid()
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	if err := s.rooms.Create(ctx, room, g.Records()); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	s.logger.Info("Room created",
		zap.String("room_id", room.ID.String()),
		zap.String("title", room.Title),
		zap.Int("dates", len(room.Dates)),
		zap.String("mode", g.Mode.String()),
		zap.Int("slots", g.SlotCount()),
	)

	return room, nil
}

// Get returns ErrRoomNotFound for an unknown room
func (s *RoomService) Get(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Info returns the room with the names of everyone who joined it.
func (s *RoomService) Info(ctx context.Context, id uuid.UUID) (*RoomInfo, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	participants, err := s.participants.ListByRoom(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("room info: %w", err)
	}

	info := &RoomInfo{Room: room, Participants: make([]string, 0, len(participants))}
	for _, p := range participants {
		info.Participants = append(info.Participants, p.Name)
	}
	return info, nil
}

// CloseExpired closes every open room whose deadline has passed and returns them.
func (s *RoomService) CloseExpired(ctx context.Context) ([]*model.Room, error) {
	now := s.now()

	expired, err := s.rooms.ListExpired(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("close expired rooms: %w", err)
	}

	var closed []*model.Room
	for _, room := range expired {
		ok, err := s.rooms.MarkClosed(ctx, room.ID, now)
		if err != nil {
			s.logger.Error("Failed to close room", zap.String("room_id", room.ID.String()), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}
		at := now
		room.ClosedAt = &at
		closed = append(closed, room)
	}

	if len(closed) > 0 {
		s.logger.Info("Closed expired rooms", zap.Int("count", len(closed)))
	}
	return closed, nil
}
