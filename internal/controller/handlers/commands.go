package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/modutime/scheduler_bot/internal/controller/state"
)

// CommandFunc handles one slash command. args is the text after the command.
type CommandFunc func(ctx context.Context, b *bot.Bot, msg *models.Message, args string)

// Commands maps command names to their handlers
func (h *Handlers) Commands() map[string]CommandFunc {
	return map[string]CommandFunc{
		"start":   h.HandleStart,
		"help":    h.HandleHelp,
		"cancel":  h.HandleCancel,
		"newroom": h.HandleNewRoom,
		"join":    h.HandleJoin,
		"email":   h.HandleEmail,
		"avail":   h.HandleAvail,
		"mine":    h.HandleMine,
		"table":   h.HandleTable,
		"room":    h.HandleRoom,
	}
}

// HandleUpdate routes text messages to commands or to the active dialog
func (h *Handlers) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		return
	}

	cmd, args := splitCommand(msg.Text)
	if cmd == "" {
		h.HandleTextMessage(ctx, b, msg)
		return
	}

	handler, ok := h.Commands()[cmd]
	if !ok {
		h.sendError(ctx, b, msg.Chat.ID, "❓ Unknown command. See /help")
		return
	}

	h.logger.Debug("Command received",
		zap.Int64("telegram_id", msg.From.ID),
		zap.String("command", cmd))

	handler(ctx, b, msg, args)
}

// HandleStart handles /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, msg *models.Message, _ string) {
	h.sendMessage(ctx, b, msg.Chat.ID,
		"👋 Hi, "+msg.From.FirstName+"!\n\n"+
			"I help a group find a time to meet.\n\n"+
			"Organizers create a room with /newroom and share the room code.\n"+
			"Participants join with /join and send the slots that suit them with /avail.\n\n"+
			"/help lists every command.")
}

// HandleHelp handles /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, msg *models.Message, _ string) {
	h.sendMessage(ctx, b, msg.Chat.ID,
		"📚 Commands:\n\n"+
			"Organizers:\n"+
			"/newroom - Create a room\n"+
			"/room <room> - Room details and participants\n"+
			"/table <room> - Availability table\n\n"+
			"Participants:\n"+
			"/join <room> <name> <password> - Join or log back in\n"+
			"/avail <selections> - Replace your availability\n"+
			"/mine - Show your availability\n"+
			"/email <address> - Get notified by email\n\n"+
			"Selections are dates followed by slot starts, groups separated by ';':\n"+
			"/avail 2023-02-10 11:00 11:30; 2023-02-11\n"+
			"A date without times selects the whole day. /avail none clears everything.\n\n"+
			"/cancel - Abort the current dialog")
}

// HandleCancel aborts the active dialog
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, msg *models.Message, _ string) {
	telegramID := msg.From.ID

	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendMessage(ctx, b, msg.Chat.ID, "❌ Nothing to cancel.")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, msg.Chat.ID, "✅ Cancelled.\n\nSee /help for the available commands.")
}

// HandleTextMessage feeds plain text to the step the user is at
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, msg *models.Message) {
	telegramID := msg.From.ID
	currentState := h.stateManager.GetState(telegramID)

	if currentState == state.StateNone {
		h.logger.Debug("No active state, ignoring message",
			zap.Int64("telegram_id", telegramID))
		return
	}

	switch currentState {
	case state.StateNewRoomTitle:
		h.handleNewRoomTitleStep(ctx, b, msg)
	case state.StateNewRoomDates:
		h.handleNewRoomDatesStep(ctx, b, msg)
	case state.StateNewRoomWindow:
		h.handleNewRoomWindowStep(ctx, b, msg)
	case state.StateNewRoomDeadline:
		h.handleNewRoomDeadlineStep(ctx, b, msg)
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
		h.stateManager.ClearState(telegramID)
	}
}
