package handlers

import (
	"go.uber.org/zap"

	"github.com/modutime/scheduler_bot/internal/controller/state"
	"github.com/modutime/scheduler_bot/internal/service"
)

// Handlers holds the dependencies of the command handlers
type Handlers struct {
	roomService         *service.RoomService
	participantService  *service.ParticipantService
	availabilityService *service.AvailabilityService
	stateManager        *state.Manager
	logger              *zap.Logger
}

func NewHandlers(
	roomService *service.RoomService,
	participantService *service.ParticipantService,
	availabilityService *service.AvailabilityService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		roomService:         roomService,
		participantService:  participantService,
		availabilityService: availabilityService,
		stateManager:        stateManager,
		logger:              logger,
	}
}
