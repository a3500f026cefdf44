package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/modutime/scheduler_bot/internal/controller/state"
)

// HandleJoin handles /join <room> <name> <pin>: creates the participant or logs back in
func (h *Handlers) HandleJoin(ctx context.Context, b *bot.Bot, msg *models.Message, args string) {
	roomArg, name, pin, err := parseJoinArgs(args)
	if err != nil {
		h.sendError(ctx, b, msg.Chat.ID, "❌ Usage: /join <room> <name> <4-digit password>")
		return
	}

	roomID, err := uuid.Parse(roomArg)
	if err != nil {
		h.sendError(ctx, b, msg.Chat.ID, "❌ That is not a room code.")
		return
	}

	p, created, err := h.participantService.Join(ctx, roomID, name, pin, msg.From.ID)
	if err != nil {
		h.fail(ctx, b, msg.Chat.ID, "join", err)
		return
	}

	h.stateManager.SetSession(msg.From.ID, state.Session{
		RoomID:        roomID,
		Name:          p.Name,
		ParticipantID: p.ID,
	})

	h.logger.Info("Participant logged in",
		zap.Int64("telegram_id", msg.From.ID),
		zap.String("room_id", roomID.String()),
		zap.Bool("created", created))

	if created {
		h.sendMessage(ctx, b, msg.Chat.ID,
			"✅ Welcome, "+p.Name+"!\n\n"+
				"/room shows the dates and slots.\n"+
				"/avail 2023-02-10 11:00 11:30; 2023-02-11 sends your availability.")
		return
	}
	h.sendMessage(ctx, b, msg.Chat.ID, "✅ Welcome back, "+p.Name+"! /mine shows what you selected.")
}

// HandleEmail registers the address the result is sent to
func (h *Handlers) HandleEmail(ctx context.Context, b *bot.Bot, msg *models.Message, args string) {
	s, ok := h.requireSession(ctx, b, msg)
	if !ok {
		return
	}
	if args == "" {
		h.sendError(ctx, b, msg.Chat.ID, "❌ Usage: /email <address>")
		return
	}

	if err := h.participantService.RegisterEmail(ctx, s.ParticipantID, args); err != nil {
		h.fail(ctx, b, msg.Chat.ID, "register email", err)
		return
	}
	h.sendMessage(ctx, b, msg.Chat.ID, "✅ Email saved.")
}
