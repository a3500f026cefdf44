package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/modutime/scheduler_bot/internal/model"
)

type stubCloser struct {
	mu    sync.Mutex
	calls int
	batch []*model.Room
	err   error
}

func (c *stubCloser) CloseExpired(context.Context) ([]*model.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	out := c.batch
	c.batch = nil
	return out, nil
}

func (c *stubCloser) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type stubNotifier struct {
	mu       sync.Mutex
	notified []uuid.UUID
}

func (n *stubNotifier) NotifyDeadline(_ context.Context, room *model.Room) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notified = append(n.notified, room.ID)
	return errors.New("chat not found")
}

func (n *stubNotifier) ids() []uuid.UUID {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]uuid.UUID(nil), n.notified...)
}

func TestScheduler_ClosesAndNotifies(t *testing.T) {
	a, b := &model.Room{ID: uuid.New()}, &model.Room{ID: uuid.New()}
	closer := &stubCloser{batch: []*model.Room{a, b}}
	notifier := &stubNotifier{}

	s := NewScheduler(closer, notifier, 10*time.Millisecond, zap.NewNop())
	s.Start(context.Background())

	require.Eventually(t, func() bool { return closer.callCount() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()
	s.Stop()

	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, notifier.ids())
}

func TestScheduler_SurvivesStoreErrors(t *testing.T) {
	closer := &stubCloser{err: errors.New("db down")}

	s := NewScheduler(closer, nil, 10*time.Millisecond, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	require.Eventually(t, func() bool { return closer.callCount() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	s.Stop()
}
