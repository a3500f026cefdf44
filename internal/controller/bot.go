package controller

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/modutime/scheduler_bot/internal/controller/handlers"
	"github.com/modutime/scheduler_bot/internal/controller/render"
	"github.com/modutime/scheduler_bot/internal/controller/state"
	"github.com/modutime/scheduler_bot/internal/model"
	"github.com/modutime/scheduler_bot/internal/service"
)

type BotController struct {
	bot                 *bot.Bot
	handlers            *handlers.Handlers
	roomService         *service.RoomService
	availabilityService *service.AvailabilityService
	logger              *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	roomService *service.RoomService,
	participantService *service.ParticipantService,
	availabilityService *service.AvailabilityService,
	logger *zap.Logger,
) *BotController {
	stateManager := state.NewManager()

	cmdHandlers := handlers.NewHandlers(
		roomService,
		participantService,
		availabilityService,
		stateManager,
		logger,
	)

	return &BotController{
		bot:                 botInstance,
		handlers:            cmdHandlers,
		roomService:         roomService,
		availabilityService: availabilityService,
		logger:              logger,
	}
}

// RegisterHandlers routes every text message through one handler, which
// dispatches commands and dialog steps
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleUpdate)

	return c.setCommands(ctx)
}

// setCommands sets the command menu of the bot
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Start"},
		{Command: "help", Description: "❓ Commands and input format"},
		{Command: "newroom", Description: "📝 Create a room"},
		{Command: "join", Description: "🔑 Join a room"},
		{Command: "avail", Description: "🗓 Send your availability"},
		{Command: "mine", Description: "👤 Show your availability"},
		{Command: "table", Description: "📊 Availability table"},
		{Command: "room", Description: "🏷 Room details"},
		{Command: "email", Description: "✉️ Register your email"},
		{Command: "cancel", Description: "✖️ Abort the current dialog"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// NotifyDeadline sends the closing summary of a room to its organizer
func (c *BotController) NotifyDeadline(ctx context.Context, room *model.Room) error {
	if room.OrganizerChatID == 0 {
		return nil
	}

	info, err := c.roomService.Info(ctx, room.ID)
	if err != nil {
		return fmt.Errorf("notify deadline: %w", err)
	}
	days, err := c.availabilityService.Table(ctx, room.ID)
	if err != nil {
		return fmt.Errorf("notify deadline: %w", err)
	}

	_, err = c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: room.OrganizerChatID,
		Text:   render.Summary(room, days, len(info.Participants)),
	})
	if err != nil {
		return fmt.Errorf("notify deadline: %w", err)
	}

	c.logger.Info("Organizer notified",
		zap.String("room_id", room.ID.String()),
		zap.Int64("chat_id", room.OrganizerChatID))
	return nil
}

// Start runs long polling until ctx is done
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}
