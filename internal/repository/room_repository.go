package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/modutime/scheduler_bot/internal/grid"
	"github.com/modutime/scheduler_bot/internal/model"
	"github.com/modutime/scheduler_bot/internal/repository/base"
)

type RoomRepository struct {
	*base.Repository
	slots  *SlotRepository
	logger *zap.Logger
}

func NewRoomRepository(pool *pgxpool.Pool, slots *SlotRepository, logger *zap.Logger) *RoomRepository {
	return &RoomRepository{
		Repository: base.NewRepository(pool),
		slots:      slots,
		logger:     logger,
	}
}

// Create stores the room, its dates and its initial slots in one transaction.
func (r *RoomRepository) Create(ctx context.Context, room *model.Room, slots []grid.SlotRecord) error {
	return r.InTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO rooms (id, title, start_minute, end_minute, tick_minutes, head_count, deadline, organizer_chat_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING created_at
		`

		err := tx.QueryRow(
			ctx, query,
			room.ID,
			room.Title,
			room.StartMinute,
			room.EndMinute,
			room.TickMinutes,
			room.HeadCount,
			room.Deadline,
			room.OrganizerChatID,
		).Scan(&room.CreatedAt)
		if err != nil {
			return fmt.Errorf("create room: %w", err)
		}

		batch := &pgx.Batch{}
		for i, d := range room.Dates {
			batch.Queue(`INSERT INTO room_dates (room_id, position, room_date) VALUES ($1, $2, $3)`, room.ID, i, d)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("create room dates: %w", err)
		}

		if err := r.slots.Insert(ctx, tx, room.ID, slots); err != nil {
			return err
		}

		return nil
	})
}

const selectRoom = `
	SELECT id, title, start_minute, end_minute, tick_minutes, head_count, deadline, organizer_chat_id, closed_at, created_at
	FROM rooms
`

func scanRoom(row pgx.Row) (*model.Room, error) {
	var room model.Room
	err := row.Scan(
		&room.ID,
		&room.Title,
		&room.StartMinute,
		&room.EndMinute,
		&room.TickMinutes,
		&room.HeadCount,
		&room.Deadline,
		&room.OrganizerChatID,
		&room.ClosedAt,
		&room.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetByID returns nil, nil when the room does not exist
func (r *RoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	room, err := scanRoom(r.Pool().QueryRow(ctx, selectRoom+` WHERE id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get room by id: %w", err)
	}

	if room.Dates, err = r.dates(ctx, id); err != nil {
		return nil, err
	}

	return room, nil
}

func (r *RoomRepository) dates(ctx context.Context, id uuid.UUID) ([]time.Time, error) {
	rows, err := r.Pool().Query(ctx, `SELECT room_date FROM room_dates WHERE room_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get room dates: %w", err)
	}

	dates, err := pgx.CollectRows(rows, pgx.RowTo[time.Time])
	if err != nil {
		return nil, fmt.Errorf("scan room dates: %w", err)
	}

	for i := range dates {
		dates[i] = grid.DateOf(dates[i])
	}
	return dates, nil
}

// ListExpired returns open rooms whose deadline is at or before now
func (r *RoomRepository) ListExpired(ctx context.Context, now time.Time) ([]*model.Room, error) {
	rows, err := r.Pool().Query(ctx, selectRoom+`
		WHERE closed_at IS NULL
		  AND deadline IS NOT NULL
		  AND deadline <= $1
		ORDER BY deadline
	`, now)
	if err != nil {
		return nil, fmt.Errorf("list expired rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*model.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expired rooms: %w", err)
	}
	rows.Close()

	for _, room := range rooms {
		if room.Dates, err = r.dates(ctx, room.ID); err != nil {
			return nil, err
		}
	}

	return rooms, nil
}

// MarkClosed closes an open room. It reports false if the room was already closed.
func (r *RoomRepository) MarkClosed(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	tag, err := r.Pool().Exec(ctx, `UPDATE rooms SET closed_at = $1 WHERE id = $2 AND closed_at IS NULL`, at, id)
	if err != nil {
		return false, fmt.Errorf("close room: %w", err)
	}

	closed := tag.RowsAffected() == 1
	if closed {
		r.logger.Debug("Room closed", zap.String("room_id", id.String()))
	}
	return closed, nil
}
