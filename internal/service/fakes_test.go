package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/modutime/scheduler_bot/internal/cache"
	"github.com/modutime/scheduler_bot/internal/grid"
	"github.com/modutime/scheduler_bot/internal/model"
	"github.com/modutime/scheduler_bot/internal/repository"
)

type memRooms struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*model.Room
	slots *memSlots
}

func newMemRooms(slots *memSlots) *memRooms {
	return &memRooms{rooms: make(map[uuid.UUID]*model.Room), slots: slots}
}

func (m *memRooms) Create(ctx context.Context, room *model.Room, slots []grid.SlotRecord) error {
	m.mu.Lock()
	room.CreatedAt = time.Now()
	cp := *room
	m.rooms[room.ID] = &cp
	m.mu.Unlock()
	return m.slots.Replace(ctx, room.ID, slots)
}

func (m *memRooms) GetByID(_ context.Context, id uuid.UUID) (*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[id]
	if !ok {
		return nil, nil
	}
	cp := *room
	return &cp, nil
}

func (m *memRooms) ListExpired(_ context.Context, now time.Time) ([]*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Room
	for _, room := range m.rooms {
		if room.ClosedAt == nil && room.Deadline != nil && !now.Before(*room.Deadline) {
			cp := *room
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRooms) MarkClosed(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[id]
	if !ok || room.ClosedAt != nil {
		return false, nil
	}
	room.ClosedAt = &at
	return true, nil
}

type memParticipants struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*model.Participant
}

func newMemParticipants() *memParticipants {
	return &memParticipants{byID: make(map[int64]*model.Participant)}
}

func (m *memParticipants) Create(_ context.Context, p *model.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.RoomID == p.RoomID && existing.Name == p.Name {
			return repository.ErrDuplicate
		}
	}
	m.nextID++
	p.ID = m.nextID
	p.CreatedAt = time.Now()
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memParticipants) GetByName(_ context.Context, roomID uuid.UUID, name string) (*model.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		if p.RoomID == roomID && p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memParticipants) GetByID(_ context.Context, id int64) (*model.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memParticipants) ListByRoom(_ context.Context, roomID uuid.UUID) ([]*model.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Participant
	for id := int64(1); id <= m.nextID; id++ {
		if p, ok := m.byID[id]; ok && p.RoomID == roomID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memParticipants) CountByRoom(ctx context.Context, roomID uuid.UUID) (int, error) {
	list, _ := m.ListByRoom(ctx, roomID)
	return len(list), nil
}

func (m *memParticipants) UpdateEmail(_ context.Context, id int64, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.byID[id]; ok {
		p.Email = &email
	}
	return nil
}

func (m *memParticipants) BindTelegram(_ context.Context, id int64, telegramID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.byID[id]; ok {
		p.TelegramID = telegramID
	}
	return nil
}

type slotKey struct {
	room   uuid.UUID
	date   string
	minute int
}

type memSlots struct {
	mu      sync.Mutex
	rows    map[slotKey]grid.SlotRecord
	writes  int
	failErr error
}

func newMemSlots() *memSlots {
	return &memSlots{rows: make(map[slotKey]grid.SlotRecord)}
}

func keyOf(roomID uuid.UUID, rec grid.SlotRecord) slotKey {
	k := slotKey{room: roomID, date: grid.FormatDate(rec.Date), minute: -1}
	if rec.Time != nil {
		k.minute = int(*rec.Time)
	}
	return k
}

func (m *memSlots) Load(_ context.Context, roomID uuid.UUID) ([]grid.SlotRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []grid.SlotRecord
	for k, rec := range m.rows {
		if k.room == roomID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memSlots) Replace(_ context.Context, roomID uuid.UUID, records []grid.SlotRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.writes++
	for _, rec := range records {
		m.rows[keyOf(roomID, rec)] = rec
	}
	return nil
}

type memCache struct {
	mu      sync.Mutex
	values  map[string]string
	gets    int
	deletes int
}

func newMemCache() *memCache {
	return &memCache{values: make(map[string]string)}
}

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.values[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := c.values[k]; ok {
			delete(c.values, k)
			n++
		}
	}
	c.deletes++
	return n, nil
}

func (c *memCache) Ping(context.Context) error { return nil }
func (c *memCache) Close() error               { return nil }

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok
}
