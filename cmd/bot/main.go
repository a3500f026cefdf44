package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"

	"github.com/modutime/scheduler_bot/internal/app"
	"github.com/modutime/scheduler_bot/internal/cache"
	"github.com/modutime/scheduler_bot/internal/config"
	"github.com/modutime/scheduler_bot/internal/controller"
	"github.com/modutime/scheduler_bot/internal/repository"
	"github.com/modutime/scheduler_bot/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
	logger.Info("Bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting scheduler bot",
		zap.String("environment", cfg.Environment),
		zap.Duration("slot_tick", cfg.SlotTick()))

	pool, err := app.ConnectDB(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	migrator.Close()

	var projections cache.Cache = cache.Nop{}
	if cfg.RedisURL != "" {
		r, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis unavailable, projections are not cached", zap.Error(err))
		} else {
			defer r.Close()
			projections = r
			logger.Info("Projection cache enabled", zap.Duration("ttl", cfg.ProjectionCacheTTL))
		}
	}

	slotRepo := repository.NewSlotRepository(pool)
	roomRepo := repository.NewRoomRepository(pool, slotRepo, logger)
	participantRepo := repository.NewParticipantRepository(pool)

	roomService := service.NewRoomService(roomRepo, participantRepo, cfg.SlotTick(), logger)
	participantService := service.NewParticipantService(roomRepo, participantRepo, logger)
	availabilityService := service.NewAvailabilityService(roomRepo, participantRepo, slotRepo, projections, cfg.ProjectionCacheTTL, logger)

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return err
	}

	ctrl := controller.NewBotController(b, roomService, participantService, availabilityService, logger)
	if err := ctrl.RegisterHandlers(ctx); err != nil {
		logger.Warn("Bot commands menu not set", zap.Error(err))
	}

	scheduler := app.NewScheduler(roomService, ctrl, cfg.DeadlineCheckInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	ctrl.Start(ctx)
	return nil
}
