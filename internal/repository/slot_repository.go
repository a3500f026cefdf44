package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modutime/scheduler_bot/internal/grid"
	"github.com/modutime/scheduler_bot/internal/repository/base"
)

// SlotRepository persists the availability grid as one row per (room, date, time-or-null).
type SlotRepository struct {
	*base.Repository
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{Repository: base.NewRepository(pool)}
}

const upsertSlot = `
	INSERT INTO grid_slots (room_id, slot_date, slot_minute, participant_names)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT ON CONSTRAINT grid_slots_slot_key
	DO UPDATE SET participant_names = EXCLUDED.participant_names, updated_at = NOW()
`

// Insert writes slot records through q, replacing the names of existing rows.
func (r *SlotRepository) Insert(ctx context.Context, q base.Querier, roomID uuid.UUID, records []grid.SlotRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(upsertSlot, roomID, rec.Date, slotMinute(rec.Time), namesOrEmpty(rec.Names))
	}

	if err := q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("write grid slots: %w", err)
	}
	return nil
}

// Replace overwrites the given slots of a room in one transaction.
func (r *SlotRepository) Replace(ctx context.Context, roomID uuid.UUID, records []grid.SlotRecord) error {
	return r.InTx(ctx, func(tx pgx.Tx) error {
		return r.Insert(ctx, tx, roomID, records)
	})
}

// Load returns every stored slot of a room
func (r *SlotRepository) Load(ctx context.Context, roomID uuid.UUID) ([]grid.SlotRecord, error) {
	query := `
		SELECT slot_date, slot_minute, participant_names
		FROM grid_slots
		WHERE room_id = $1
		ORDER BY slot_date, slot_minute NULLS FIRST
	`

	rows, err := r.Pool().Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("load grid slots: %w", err)
	}
	defer rows.Close()

	var records []grid.SlotRecord
	for rows.Next() {
		var (
			date   time.Time
			minute *int
			names  []string
		)
		if err := rows.Scan(&date, &minute, &names); err != nil {
			return nil, fmt.Errorf("scan grid slot: %w", err)
		}

		rec := grid.SlotRecord{Date: grid.DateOf(date), Names: names}
		if minute != nil {
			rec.Time = grid.ClockPtr(grid.Clock(*minute))
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load grid slots: %w", err)
	}

	return records, nil
}

func slotMinute(c *grid.Clock) *int {
	if c == nil {
		return nil
	}
	m := int(*c)
	return &m
}

func namesOrEmpty(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
