package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/modutime/scheduler_bot/internal/grid"
	"github.com/modutime/scheduler_bot/internal/model"
	"github.com/modutime/scheduler_bot/internal/repository"
)

const maxParticipantName = 50

type ParticipantService struct {
	rooms        RoomStore
	participants ParticipantStore
	locks        *grid.Locks
	logger       *zap.Logger
	hashCost     int
	now          func() time.Time
}

func NewParticipantService(rooms RoomStore, participants ParticipantStore, logger *zap.Logger) *ParticipantService {
	return &ParticipantService{
		rooms:        rooms,
		participants: participants,
		locks:        grid.NewLocks(),
		logger:       logger,
		hashCost:     bcrypt.DefaultCost,
		now:          time.Now,
	}
}

// Join logs name into the room, creating the participant on first use.
// It reports whether a new participant was created.
func (s *ParticipantService) Join(ctx context.Context, roomID uuid.UUID, name, pin string, telegramID int64) (*model.Participant, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxParticipantName {
		return nil, false, ErrInvalidName
	}
	if !model.IsValidPIN(pin) {
		return nil, false, ErrInvalidPIN
	}

	// Count, check and create must not interleave with another joiner.
	unlock := s.locks.Lock(roomID.String())
	defer unlock()

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, false, fmt.Errorf("join room: %w", err)
	}
	if room == nil {
		return nil, false, ErrRoomNotFound
	}

	existing, err := s.participants.GetByName(ctx, roomID, name)
	if err != nil {
		return nil, false, fmt.Errorf("join room: %w", err)
	}
	if existing != nil {
		p, err := s.login(ctx, existing, pin, telegramID)
		return p, false, err
	}

	if room.IsClosed(s.now()) {
		return nil, false, ErrRoomClosed
	}

	if room.HeadCount != nil {
		n, err := s.participants.CountByRoom(ctx, roomID)
		if err != nil {
			return nil, false, fmt.Errorf("join room: %w", err)
		}
		if n >= *room.HeadCount {
			return nil, false, ErrRoomFull
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), s.hashCost)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	p := &model.Participant{
		RoomID:       roomID,
		Name:         name,
		PasswordHash: string(hash),
		TelegramID:   telegramID,
	}
	if err := s.participants.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, false, ErrNameTaken
		}
		return nil, false, fmt.Errorf("join room: %w", err)
	}

	s.logger.Info("Participant created",
		zap.String("room_id", roomID.String()),
		zap.String("name", name),
		zap.Int64("participant_id", p.ID),
	)

	return p, true, nil
}

// Login checks the password of an existing participant.
func (s *ParticipantService) Login(ctx context.Context, roomID uuid.UUID, name, pin string, telegramID int64) (*model.Participant, error) {
	p, err := s.participants.GetByName(ctx, roomID, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if p == nil {
		return nil, ErrParticipantNotFound
	}
	return s.login(ctx, p, pin, telegramID)
}

func (s *ParticipantService) login(ctx context.Context, p *model.Participant, pin string, telegramID int64) (*model.Participant, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(pin)); err != nil {
		s.logger.Warn("Wrong participant password",
			zap.String("room_id", p.RoomID.String()),
			zap.String("name", p.Name),
		)
		return nil, ErrWrongPassword
	}

	if telegramID != 0 && telegramID != p.TelegramID {
		if err := s.participants.BindTelegram(ctx, p.ID, telegramID); err != nil {
			return nil, fmt.Errorf("login: %w", err)
		}
		p.TelegramID = telegramID
	}

	return p, nil
}

// RegisterEmail sets the email the participant wants the result sent to.
func (s *ParticipantService) RegisterEmail(ctx context.Context, participantID int64, email string) error {
	email = strings.TrimSpace(email)
	if !model.IsValidEmail(email) {
		return ErrInvalidEmail
	}

	p, err := s.participants.GetByID(ctx, participantID)
	if err != nil {
		return fmt.Errorf("register email: %w", err)
	}
	if p == nil {
		return ErrParticipantNotFound
	}

	if err := s.participants.UpdateEmail(ctx, participantID, email); err != nil {
		return fmt.Errorf("register email: %w", err)
	}

	s.logger.Info("Participant email registered", zap.Int64("participant_id", participantID))
	return nil
}
