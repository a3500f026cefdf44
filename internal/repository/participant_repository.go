package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modutime/scheduler_bot/internal/model"
	"github.com/modutime/scheduler_bot/internal/repository/base"
)

// ErrDuplicate re-exports base.ErrDuplicate for callers of this package.
var ErrDuplicate = base.ErrDuplicate

type ParticipantRepository struct {
	*base.Repository
}

func NewParticipantRepository(pool *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{Repository: base.NewRepository(pool)}
}

// Create stores a participant. A taken (room, name) pair yields ErrDuplicate.
func (r *ParticipantRepository) Create(ctx context.Context, p *model.Participant) error {
	query := `
		INSERT INTO participants (room_id, name, password_hash, email, telegram_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.Pool().QueryRow(ctx, query, p.RoomID, p.Name, p.PasswordHash, p.Email, p.TelegramID).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return fmt.Errorf("create participant %q: %w", p.Name, ErrDuplicate)
		}
		return fmt.Errorf("create participant: %w", err)
	}

	return nil
}

const selectParticipant = `
	SELECT id, room_id, name, password_hash, email, telegram_id, created_at
	FROM participants
`

func scanParticipant(row pgx.Row) (*model.Participant, error) {
	var p model.Participant
	err := row.Scan(&p.ID, &p.RoomID, &p.Name, &p.PasswordHash, &p.Email, &p.TelegramID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByName returns nil, nil when nobody with that name joined the room
func (r *ParticipantRepository) GetByName(ctx context.Context, roomID uuid.UUID, name string) (*model.Participant, error) {
	p, err := scanParticipant(r.Pool().QueryRow(ctx, selectParticipant+` WHERE room_id = $1 AND name = $2`, roomID, name))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get participant by name: %w", err)
	}
	return p, nil
}

// GetByID returns nil, nil when the participant does not exist
func (r *ParticipantRepository) GetByID(ctx context.Context, id int64) (*model.Participant, error) {
	p, err := scanParticipant(r.Pool().QueryRow(ctx, selectParticipant+` WHERE id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get participant by id: %w", err)
	}
	return p, nil
}

// ListByRoom returns the participants of a room in join order
func (r *ParticipantRepository) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*model.Participant, error) {
	rows, err := r.Pool().Query(ctx, selectParticipant+` WHERE room_id = $1 ORDER BY id`, roomID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	var participants []*model.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	return participants, nil
}

// CountByRoom returns how many participants joined the room
func (r *ParticipantRepository) CountByRoom(ctx context.Context, roomID uuid.UUID) (int, error) {
	var n int
	if err := r.Pool().QueryRow(ctx, `SELECT COUNT(*) FROM participants WHERE room_id = $1`, roomID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}
	return n, nil
}

// UpdateEmail sets the notification email of a participant
func (r *ParticipantRepository) UpdateEmail(ctx context.Context, id int64, email string) error {
	tag, err := r.Pool().Exec(ctx, `UPDATE participants SET email = $1 WHERE id = $2`, email, id)
	if err != nil {
		return fmt.Errorf("update participant email: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("participant not found")
	}
	return nil
}

// BindTelegram links a participant to the telegram account that logged in as them
func (r *ParticipantRepository) BindTelegram(ctx context.Context, id int64, telegramID int64) error {
	_, err := r.Pool().Exec(ctx, `UPDATE participants SET telegram_id = $1 WHERE id = $2`, telegramID, id)
	if err != nil {
		return fmt.Errorf("bind participant telegram: %w", err)
	}
	return nil
}
