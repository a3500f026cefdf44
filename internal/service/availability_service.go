package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/modutime/scheduler_bot/internal/cache"
	"github.com/modutime/scheduler_bot/internal/grid"
	"github.com/modutime/scheduler_bot/internal/model"
)

// AvailabilityService applies participant submissions to room grids.
//
// The stored slot rows are the grid. Every call rebuilds the grid of the room
// from them under the room lock, so mutations of one room are serialized and
// readers never observe half of a replacement.
type AvailabilityService struct {
	rooms        RoomStore
	participants ParticipantStore
	slots        SlotStore
	cache        cache.Cache
	cacheTTL     time.Duration
	locks        *grid.Locks
	logger       *zap.Logger
	now          func() time.Time
}

func NewAvailabilityService(
	rooms RoomStore,
	participants ParticipantStore,
	slots SlotStore,
	projections cache.Cache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *AvailabilityService {
	if projections == nil {
		projections = cache.Nop{}
	}
	return &AvailabilityService{
		rooms:        rooms,
		participants: participants,
		slots:        slots,
		cache:        projections,
		cacheTTL:     cacheTTL,
		locks:        grid.NewLocks(),
		logger:       logger,
		now:          time.Now,
	}
}

func projectionKey(roomID uuid.UUID) string {
	return "cache:projection:" + roomID.String()
}

// Replace makes next the availability of name in the room and returns the slots that changed.
func (s *AvailabilityService) Replace(ctx context.Context, roomID uuid.UUID, name string, next grid.Submission) ([]grid.SlotChange, error) {
	unlock := s.locks.Lock(roomID.String())
	defer unlock()

	room, err := s.room(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.IsClosed(s.now()) {
		return nil, ErrRoomClosed
	}
	if err := s.requireParticipant(ctx, roomID, name); err != nil {
		return nil, err
	}

	g, err := s.load(ctx, room)
	if err != nil {
		return nil, err
	}

	previous := g.CurrentSubmission(name)
	changes, err := g.Apply(name, &previous, next)
	if err != nil {
		return nil, fmt.Errorf("apply availability: %w", err)
	}

	if len(changes) == 0 {
		return nil, nil
	}

	if err := s.slots.Replace(ctx, roomID, grid.ChangeRecords(changes)); err != nil {
		return nil, fmt.Errorf("save availability: %w", err)
	}

	if _, err := s.cache.Del(ctx, projectionKey(roomID)); err != nil {
		s.logger.Warn("Failed to invalidate projection", zap.String("room_id", roomID.String()), zap.Error(err))
	}

	s.logger.Info("Availability replaced",
		zap.String("room_id", roomID.String()),
		zap.String("name", name),
		zap.Int("selections", len(next.Selections)),
		zap.Int("changed_slots", len(changes)),
	)

	return changes, nil
}

// Submission returns the current availability of name in the room.
func (s *AvailabilityService) Submission(ctx context.Context, roomID uuid.UUID, name string) (grid.Submission, error) {
	unlock := s.locks.RLock(roomID.String())
	defer unlock()

	room, err := s.room(ctx, roomID)
	if err != nil {
		return grid.Submission{}, err
	}
	if err := s.requireParticipant(ctx, roomID, name); err != nil {
		return grid.Submission{}, err
	}

	g, err := s.load(ctx, room)
	if err != nil {
		return grid.Submission{}, err
	}

	return g.CurrentSubmission(name), nil
}

// Table returns the per-date, per-slot counts of the room.
func (s *AvailabilityService) Table(ctx context.Context, roomID uuid.UUID) ([]grid.DaySummary, error) {
	unlock := s.locks.RLock(roomID.String())
	defer unlock()

	key := projectionKey(roomID)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var days []grid.DaySummary
		if err := json.Unmarshal([]byte(cached), &days); err == nil {
			return days, nil
		}
		s.logger.Warn("Dropping unreadable projection", zap.String("room_id", roomID.String()))
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("Projection cache unavailable", zap.String("room_id", roomID.String()), zap.Error(err))
	}

	room, err := s.room(ctx, roomID)
	if err != nil {
		return nil, err
	}
	g, err := s.load(ctx, room)
	if err != nil {
		return nil, err
	}

	days := g.Project()
	if data, err := json.Marshal(days); err == nil {
		if err := s.cache.Set(ctx, key, string(data), s.cacheTTL); err != nil {
			s.logger.Warn("Failed to cache projection", zap.String("room_id", roomID.String()), zap.Error(err))
		}
	}

	return days, nil
}

func (s *AvailabilityService) room(ctx context.Context, roomID uuid.UUID) (*model.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (s *AvailabilityService) requireParticipant(ctx context.Context, roomID uuid.UUID, name string) error {
	p, err := s.participants.GetByName(ctx, roomID, name)
	if err != nil {
		return fmt.Errorf("get participant: %w", err)
	}
	if p == nil {
		return ErrParticipantNotFound
	}
	return nil
}

func (s *AvailabilityService) load(ctx context.Context, room *model.Room) (*grid.Grid, error) {
	records, err := s.slots.Load(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("load grid: %w", err)
	}
	g, err := room.RestoreGrid(records)
	if err != nil {
		return nil, fmt.Errorf("restore grid of room %s: %w", room.ID, err)
	}
	return g, nil
}
