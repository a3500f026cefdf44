package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/modutime/scheduler_bot/internal/grid"
	"github.com/modutime/scheduler_bot/internal/model"
	"github.com/modutime/scheduler_bot/internal/repository"
)

// RoomStore is implemented by repository.RoomRepository.
type RoomStore interface {
	Create(ctx context.Context, room *model.Room, slots []grid.SlotRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Room, error)
	ListExpired(ctx context.Context, now time.Time) ([]*model.Room, error)
	MarkClosed(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

// ParticipantStore is implemented by repository.ParticipantRepository.
type ParticipantStore interface {
	Create(ctx context.Context, p *model.Participant) error
	GetByName(ctx context.Context, roomID uuid.UUID, name string) (*model.Participant, error)
	GetByID(ctx context.Context, id int64) (*model.Participant, error)
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*model.Participant, error)
	CountByRoom(ctx context.Context, roomID uuid.UUID) (int, error)
	UpdateEmail(ctx context.Context, id int64, email string) error
	BindTelegram(ctx context.Context, id int64, telegramID int64) error
}

// SlotStore is implemented by repository.SlotRepository.
type SlotStore interface {
	Load(ctx context.Context, roomID uuid.UUID) ([]grid.SlotRecord, error)
	Replace(ctx context.Context, roomID uuid.UUID, records []grid.SlotRecord) error
}

var (
	_ RoomStore        = (*repository.RoomRepository)(nil)
	_ ParticipantStore = (*repository.ParticipantRepository)(nil)
	_ SlotStore        = (*repository.SlotRepository)(nil)
)
