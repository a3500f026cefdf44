package handlers

import (
	"bytes"
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/modutime/scheduler_bot/internal/controller/state"
)

// requireSession returns the room the sender joined with /join
func (h *Handlers) requireSession(ctx context.Context, b *bot.Bot, msg *models.Message) (state.Session, bool) {
	s, ok := h.stateManager.GetSession(msg.From.ID)
	if !ok {
		h.sendError(ctx, b, msg.Chat.ID, "❌ Join a room first:\n/join <room> <name> <4-digit password>")
		return state.Session{}, false
	}
	return s, true
}

// sendError sends an error message and logs if that fails
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage sends a message and logs if that fails
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

func (h *Handlers) sendPhoto(ctx context.Context, b *bot.Bot, chatID int64, filename string, data []byte) {
	_, err := b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: chatID,
		Photo:  &models.InputFileUpload{Filename: filename, Data: bytes.NewReader(data)},
	})
	if err != nil {
		h.logger.Error("Failed to send photo",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// fail maps err to a user message and logs the errors users cannot fix
func (h *Handlers) fail(ctx context.Context, b *bot.Bot, chatID int64, op string, err error) {
	text, expected := userMessage(err)
	if !expected {
		h.logger.Error("Request failed",
			zap.String("op", op),
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
	h.sendError(ctx, b, chatID, text)
}
