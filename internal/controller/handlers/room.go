package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/modutime/scheduler_bot/internal/controller/render"
	"github.com/modutime/scheduler_bot/internal/controller/state"
	"github.com/modutime/scheduler_bot/internal/grid"
	"github.com/modutime/scheduler_bot/internal/model"
	"github.com/modutime/scheduler_bot/internal/service"
)

// HandleNewRoom starts the room creation dialog
func (h *Handlers) HandleNewRoom(ctx context.Context, b *bot.Bot, msg *models.Message, _ string) {
	telegramID := msg.From.ID

	h.stateManager.ClearState(telegramID)
	h.stateManager.SetState(telegramID, state.StateNewRoomTitle)

	h.logger.Info("Starting room creation", zap.Int64("telegram_id", telegramID))

	h.sendMessage(ctx, b, msg.Chat.ID,
		"📝 New room\n\n"+
			"Step 1 of 4: What is the meeting about?\n\n"+
			"Send - to leave it untitled.\n"+
			"Send /cancel to abort.")
}

func (h *Handlers) handleNewRoomTitleStep(ctx context.Context, b *bot.Bot, msg *models.Message) {
	telegramID := msg.From.ID
	title := strings.TrimSpace(msg.Text)
	if title == skipInput {
		title = ""
	}

	if utf8.RuneCountInString(title) > RoomTitleMaxLength {
		h.sendError(ctx, b, msg.Chat.ID,
			fmt.Sprintf("❌ The title is too long, at most %d characters.\n\nTry again:", RoomTitleMaxLength))
		return
	}

	h.stateManager.SetData(telegramID, state.KeyTitle, title)
	h.stateManager.SetState(telegramID, state.StateNewRoomDates)

	h.sendMessage(ctx, b, msg.Chat.ID,
		"Step 2 of 4: Which dates are candidates?\n\n"+
			"Send dates as YYYY-MM-DD separated by spaces, or a range:\n"+
			"2023-02-10 2023-02-13\n"+
			"2023-02-10..2023-02-14")
}

func (h *Handlers) handleNewRoomDatesStep(ctx context.Context, b *bot.Bot, msg *models.Message) {
	telegramID := msg.From.ID

	dates, err := parseDates(msg.Text)
	if err != nil {
		h.sendError(ctx, b, msg.Chat.ID, fmt.Sprintf("❌ %v\n\nTry again:", err))
		return
	}
	if _, err := grid.New("", dates, nil, nil, 0); err != nil {
		text, _ := userMessage(err)
		h.sendError(ctx, b, msg.Chat.ID, text+"\n\nTry again:")
		return
	}

	h.stateManager.SetData(telegramID, state.KeyDates, dates)
	h.stateManager.SetState(telegramID, state.StateNewRoomWindow)

	h.sendMessage(ctx, b, msg.Chat.ID,
		fmt.Sprintf("✅ %d dates\n\n", len(dates))+
			"Step 3 of 4: Which hours of the day?\n\n"+
			"11:00-13:00 splits the window into 30 minute slots.\n"+
			"11:00-13:00 60 uses one hour slots.\n"+
			"Send - to vote on whole days.")
}

func (h *Handlers) handleNewRoomWindowStep(ctx context.Context, b *bot.Bot, msg *models.Message) {
	telegramID := msg.From.ID

	start, end, tick, err := parseWindow(msg.Text)
	if err != nil {
		h.sendError(ctx, b, msg.Chat.ID, fmt.Sprintf("❌ %v\n\nTry again:", err))
		return
	}

	if start != nil {
		data, _ := h.stateManager.GetData(telegramID, state.KeyDates)
		dates, _ := data.([]time.Time)
		if _, err := grid.New("", dates, start, end, tick); err != nil {
			text, _ := userMessage(err)
			h.sendError(ctx, b, msg.Chat.ID, text+"\n\nTry again:")
			return
		}
	}

	h.stateManager.SetData(telegramID, state.KeyStart, start)
	h.stateManager.SetData(telegramID, state.KeyEnd, end)
	h.stateManager.SetData(telegramID, state.KeyTick, tick)
	h.stateManager.SetState(telegramID, state.StateNewRoomDeadline)

	h.sendMessage(ctx, b, msg.Chat.ID,
		"Step 4 of 4: When does voting close, and how many people may join?\n\n"+
			"1d 12h closes voting in a day and a half.\n"+
			"2h 8 closes in two hours and accepts 8 participants.\n"+
			"Send - for no deadline and no limit.")
}

func (h *Handlers) handleNewRoomDeadlineStep(ctx context.Context, b *bot.Bot, msg *models.Message) {
	telegramID := msg.From.ID

	timer, headCount, err := parseLimits(msg.Text)
	if err != nil {
		h.sendError(ctx, b, msg.Chat.ID, fmt.Sprintf("❌ %v\n\nTry again:", err))
		return
	}

	data := h.stateManager.GetAllData(telegramID)
	in := service.CreateRoomInput{
		HeadCount:       headCount,
		Timer:           timer,
		OrganizerChatID: msg.Chat.ID,
	}
	in.Title, _ = data[state.KeyTitle].(string)
	in.Dates, _ = data[state.KeyDates].([]time.Time)
	in.StartTime, _ = data[state.KeyStart].(*grid.Clock)
	in.EndTime, _ = data[state.KeyEnd].(*grid.Clock)
	in.Tick, _ = data[state.KeyTick].(time.Duration)

	room, err := h.roomService.Create(ctx, in)
	if err != nil {
		text, expected := userMessage(err)
		if !expected {
			h.logger.Error("Failed to create room", zap.Int64("telegram_id", telegramID), zap.Error(err))
			h.stateManager.ClearState(telegramID)
			h.sendError(ctx, b, msg.Chat.ID, text)
			return
		}
		h.sendError(ctx, b, msg.Chat.ID, text+"\n\nTry again:")
		return
	}

	h.stateManager.ClearState(telegramID)

	h.sendMessage(ctx, b, msg.Chat.ID,
		"✅ Room created!\n\n"+
			roomDetails(room, nil)+"\n\n"+
			"Share this with the participants:\n"+
			"/join "+room.ID.String()+" <name> <4-digit password>")
}

// HandleRoom shows the room details and who joined
func (h *Handlers) HandleRoom(ctx context.Context, b *bot.Bot, msg *models.Message, args string) {
	roomID, ok := h.roomArg(ctx, b, msg, args)
	if !ok {
		return
	}

	info, err := h.roomService.Info(ctx, roomID)
	if err != nil {
		h.fail(ctx, b, msg.Chat.ID, "room info", err)
		return
	}

	h.sendMessage(ctx, b, msg.Chat.ID, roomDetails(info.Room, info.Participants))
}

// roomArg reads the room code from args, falling back to the joined room
func (h *Handlers) roomArg(ctx context.Context, b *bot.Bot, msg *models.Message, args string) (uuid.UUID, bool) {
	if args == "" {
		s, ok := h.requireSession(ctx, b, msg)
		return s.RoomID, ok
	}

	id, err := uuid.Parse(strings.Fields(args)[0])
	if err != nil {
		h.sendError(ctx, b, msg.Chat.ID, "❌ That is not a room code.")
		return uuid.Nil, false
	}
	return id, true
}

func roomDetails(room *model.Room, participants []string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "🏷 %s\n", room.Title)
	fmt.Fprintf(&sb, "🔑 %s\n", room.ID)

	dates := make([]string, 0, len(room.Dates))
	for _, d := range room.Dates {
		dates = append(dates, render.DateLabel(d))
	}
	fmt.Fprintf(&sb, "📅 %s\n", strings.Join(dates, ", "))

	if room.IsWholeDay() {
		sb.WriteString("🕒 whole days\n")
	} else {
		start, end := room.Window()
		fmt.Fprintf(&sb, "🕒 %s-%s, %d minute slots\n", start, end, room.TickMinutes)
	}

	if room.HeadCount != nil {
		fmt.Fprintf(&sb, "👥 up to %d participants\n", *room.HeadCount)
	}

	switch {
	case room.ClosedAt != nil:
		sb.WriteString("🔒 voting closed\n")
	case room.Deadline != nil:
		fmt.Fprintf(&sb, "⏰ voting closes %s UTC\n", room.Deadline.UTC().Format("2006-01-02 15:04"))
	}

	if participants != nil {
		if len(participants) == 0 {
			sb.WriteString("\nNobody joined yet.")
		} else {
			fmt.Fprintf(&sb, "\nJoined (%d): %s", len(participants), strings.Join(participants, ", "))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
