package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/modutime/scheduler_bot/internal/controller/render"
	"github.com/modutime/scheduler_bot/internal/grid"
)

// HandleAvail replaces the availability of the sender with the given selections
func (h *Handlers) HandleAvail(ctx context.Context, b *bot.Bot, msg *models.Message, args string) {
	s, ok := h.requireSession(ctx, b, msg)
	if !ok {
		return
	}

	selections, err := parseSelections(args)
	if err != nil {
		h.sendError(ctx, b, msg.Chat.ID,
			fmt.Sprintf("❌ %v\n\nExample: /avail 2023-02-10 11:00 11:30; 2023-02-11\n/avail none clears your availability.", err))
		return
	}

	next := grid.Submission{ParticipantName: s.Name, Selections: selections}
	changes, err := h.availabilityService.Replace(ctx, s.RoomID, s.Name, next)
	if err != nil {
		h.fail(ctx, b, msg.Chat.ID, "replace availability", err)
		return
	}

	h.logger.Info("Availability submitted",
		zap.Int64("telegram_id", msg.From.ID),
		zap.String("room_id", s.RoomID.String()),
		zap.Int("changed_slots", len(changes)))

	if len(changes) == 0 {
		h.sendMessage(ctx, b, msg.Chat.ID, "✅ Nothing changed.")
		return
	}
	h.sendMessage(ctx, b, msg.Chat.ID, fmt.Sprintf("✅ Saved, %d slots changed.\n\n%s", len(changes), render.Submission(next)))
}

// HandleMine shows the current availability of the sender
func (h *Handlers) HandleMine(ctx context.Context, b *bot.Bot, msg *models.Message, _ string) {
	s, ok := h.requireSession(ctx, b, msg)
	if !ok {
		return
	}

	sub, err := h.availabilityService.Submission(ctx, s.RoomID, s.Name)
	if err != nil {
		h.fail(ctx, b, msg.Chat.ID, "current submission", err)
		return
	}

	h.sendMessage(ctx, b, msg.Chat.ID, render.Submission(sub))
}

// HandleTable sends the availability table and its heat map
func (h *Handlers) HandleTable(ctx context.Context, b *bot.Bot, msg *models.Message, args string) {
	roomID, ok := h.roomArg(ctx, b, msg, args)
	if !ok {
		return
	}

	info, err := h.roomService.Info(ctx, roomID)
	if err != nil {
		h.fail(ctx, b, msg.Chat.ID, "room info", err)
		return
	}
	days, err := h.availabilityService.Table(ctx, roomID)
	if err != nil {
		h.fail(ctx, b, msg.Chat.ID, "availability table", err)
		return
	}

	h.sendMessage(ctx, b, msg.Chat.ID, render.Table(info.Room, days, len(info.Participants)))

	image, err := render.HeatMap(info.Room.Title, days, len(info.Participants))
	if err != nil {
		h.logger.Error("Failed to render heat map", zap.String("room_id", roomID.String()), zap.Error(err))
		return
	}
	h.sendPhoto(ctx, b, msg.Chat.ID, "availability.png", image)
}
