package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/modutime/scheduler_bot/internal/model"
)

// RoomCloser closes rooms whose voting deadline has passed.
type RoomCloser interface {
	CloseExpired(ctx context.Context) ([]*model.Room, error)
}

// DeadlineNotifier tells the organizer that a room was closed.
type DeadlineNotifier interface {
	NotifyDeadline(ctx context.Context, room *model.Room) error
}

// Scheduler runs background jobs
type Scheduler struct {
	rooms    RoomCloser
	notifier DeadlineNotifier
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler creates a scheduler that checks room deadlines every interval.
// notifier may be nil.
func NewScheduler(rooms RoomCloser, notifier DeadlineNotifier, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		rooms:    rooms,
		notifier: notifier,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start launches the background jobs
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("deadline_check_interval", s.interval))

	s.wg.Add(1)
	go s.runDeadlineTask(ctx)
}

// Stop stops the background jobs and waits for them to return
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

func (s *Scheduler) runDeadlineTask(ctx context.Context) {
	defer s.wg.Done()

	// Первый запуск сразу при старте
	s.closeExpired(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.closeExpired(ctx)
		case <-s.stopChan:
			s.logger.Info("Deadline task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Deadline task cancelled")
			return
		}
	}
}

func (s *Scheduler) closeExpired(ctx context.Context) {
	closed, err := s.rooms.CloseExpired(ctx)
	if err != nil {
		s.logger.Error("Failed to close expired rooms", zap.Error(err))
		return
	}

	if s.notifier == nil {
		return
	}
	for _, room := range closed {
		if err := s.notifier.NotifyDeadline(ctx, room); err != nil {
			s.logger.Warn("Failed to notify organizer",
				zap.String("room_id", room.ID.String()),
				zap.Int64("chat_id", room.OrganizerChatID),
				zap.Error(err),
			)
		}
	}
}
