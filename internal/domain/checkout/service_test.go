package checkout

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/foodorder-backend/internal/config"
	"github.com/your-org/foodorder-backend/internal/domain/cart"
)

// fakeCartStore serves a fixed order snapshot and records clears.
type fakeCartStore struct {
	mu       sync.Mutex
	snapshot cart.Snapshot
	snapErr  error
	clearErr error
	cleared  []string
}

func (f *fakeCartStore) Snapshot(_ context.Context, _ string) (cart.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot, f.snapErr
}

func (f *fakeCartStore) Clear(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cleared = append(f.cleared, sessionID)
	return nil
}

func (f *fakeCartStore) clearedSessions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.cleared...)
}

func newTestService(carts cartStore) (*Service, *manualScheduler) {
	sched := &manualScheduler{}

	cfg := &config.Config{}
	cfg.Payment.ProcessingDelay = 2 * time.Second
	cfg.Payment.OrderIDPrefix = "ORD"
	cfg.Redis.CartTTL = 24 * time.Hour

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &Service{
		config:   cfg,
		carts:    carts,
		sched:    sched,
		log:      logger,
		sessions: make(map[string]*session),
	}, sched
}

func (s *Service) sessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func TestService_AcknowledgeClearsCart(t *testing.T) {
	carts := &fakeCartStore{snapshot: testOrder(t)}
	svc, sched := newTestService(carts)
	ctx := context.Background()

	_, err := svc.Pay(ctx, "s1", &PayRequest{MethodID: MethodCash})
	require.NoError(t, err)
	sched.fire()

	attempt, err := svc.Acknowledge(ctx, "s1")
	require.NoError(t, err)
	assert.NotEmpty(t, attempt.OrderID)
	assert.Equal(t, []string{"s1"}, carts.clearedSessions())

	// One clear per acknowledged order, never a second.
	_, err = svc.Acknowledge(ctx, "s1")
	assert.ErrorIs(t, err, ErrNoAttempt)
	assert.Equal(t, []string{"s1"}, carts.clearedSessions())
}

func TestService_AcknowledgeClearFailureSurfaces(t *testing.T) {
	carts := &fakeCartStore{snapshot: testOrder(t), clearErr: errors.New("store unavailable")}
	svc, sched := newTestService(carts)
	ctx := context.Background()

	_, err := svc.Pay(ctx, "s1", &PayRequest{MethodID: MethodCash})
	require.NoError(t, err)
	sched.fire()

	_, err = svc.Acknowledge(ctx, "s1")
	assert.Error(t, err)
	assert.Empty(t, carts.clearedSessions())
}

func TestService_PaySnapshotErrorSurfaces(t *testing.T) {
	carts := &fakeCartStore{snapErr: errors.New("store unavailable")}
	svc, _ := newTestService(carts)

	_, err := svc.Pay(context.Background(), "s1", &PayRequest{MethodID: MethodCash})
	assert.Error(t, err)
	assert.Equal(t, StatusIdle, svc.Status("s1").Status)
}

func TestService_FailedAttemptLeavesCartUncleared(t *testing.T) {
	carts := &fakeCartStore{snapshot: testOrder(t)}
	svc, sched := newTestService(carts)
	ctx := context.Background()

	// Total 50000 against OVO's 25000 balance.
	_, err := svc.Pay(ctx, "s1", &PayRequest{MethodID: MethodOVO})
	require.NoError(t, err)
	sched.fire()

	resp := svc.Status("s1")
	require.Equal(t, StatusFailed, resp.Status)
	assert.Empty(t, carts.clearedSessions())

	require.NoError(t, svc.Retry("s1"))
	assert.Empty(t, carts.clearedSessions())
}

func TestService_RejectedPayKeepsSelectedMethod(t *testing.T) {
	carts := &fakeCartStore{snapshot: testOrder(t)}
	svc, sched := newTestService(carts)
	ctx := context.Background()

	_, err := svc.Pay(ctx, "s1", &PayRequest{MethodID: MethodGoPay})
	require.NoError(t, err)

	// A double-tap with a different method is rejected and must not
	// silently change the session's selection.
	_, err = svc.Pay(ctx, "s1", &PayRequest{MethodID: MethodCash})
	require.ErrorIs(t, err, ErrAttemptInProgress)
	assert.Equal(t, MethodGoPay, svc.Status("s1").Method.ID)

	sched.fire()
	assert.Equal(t, MethodGoPay, svc.Status("s1").Method.ID)
}

func TestService_UnknownSessionOperations(t *testing.T) {
	carts := &fakeCartStore{snapshot: testOrder(t)}
	svc, _ := newTestService(carts)
	ctx := context.Background()

	// Read-only and terminal-state operations on a never-seen session
	// answer idle without allocating anything.
	resp := svc.Status("drive-by")
	assert.Equal(t, StatusIdle, resp.Status)
	assert.Equal(t, MethodCash, resp.Method.ID)

	_, err := svc.Acknowledge(ctx, "drive-by")
	assert.ErrorIs(t, err, ErrNoAttempt)
	assert.ErrorIs(t, svc.Retry("drive-by"), ErrNoAttempt)
	_, err = svc.FallbackToCash("drive-by")
	assert.ErrorIs(t, err, ErrNoAttempt)
	assert.NotPanics(t, func() { svc.Cancel("drive-by") })

	assert.Zero(t, svc.sessionCount(), "polling must not grow the session map")
}

func TestService_EvictsExpiredIdleSessions(t *testing.T) {
	carts := &fakeCartStore{snapshot: testOrder(t)}
	svc, _ := newTestService(carts)
	ctx := context.Background()

	_, err := svc.SelectMethod("stale", MethodOVO)
	require.NoError(t, err)
	// This session is mid-attempt and must survive the sweep.
	_, err = svc.Pay(ctx, "busy", &PayRequest{MethodID: MethodCash})
	require.NoError(t, err)

	svc.mu.Lock()
	past := time.Now().Add(-svc.config.Redis.CartTTL - time.Minute)
	svc.sessions["stale"].lastSeen = past
	svc.sessions["busy"].lastSeen = past
	svc.mu.Unlock()

	// Creating a new session sweeps the expired ones.
	_, err = svc.SelectMethod("fresh", MethodGoPay)
	require.NoError(t, err)

	svc.mu.Lock()
	_, staleAlive := svc.sessions["stale"]
	_, busyAlive := svc.sessions["busy"]
	svc.mu.Unlock()

	assert.False(t, staleAlive, "idle session past the cart TTL is dropped")
	assert.True(t, busyAlive, "a submitting session is never dropped")
	assert.Equal(t, 2, svc.sessionCount())
}

func TestService_ConcurrentSelectAndStatus(t *testing.T) {
	carts := &fakeCartStore{snapshot: testOrder(t)}
	svc, _ := newTestService(carts)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = svc.SelectMethod("s1", MethodOVO)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = svc.Status("s1")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, MethodOVO, svc.Status("s1").Method.ID)
}

func TestService_FallbackResetsMethodToCash(t *testing.T) {
	carts := &fakeCartStore{snapshot: testOrder(t)}
	svc, sched := newTestService(carts)
	ctx := context.Background()

	_, err := svc.Pay(ctx, "s1", &PayRequest{MethodID: MethodOVO})
	require.NoError(t, err)
	sched.fire()
	require.Equal(t, StatusFailed, svc.Status("s1").Status)

	m, err := svc.FallbackToCash("s1")
	require.NoError(t, err)
	assert.Equal(t, MethodCash, m.ID)

	resp := svc.Status("s1")
	assert.Equal(t, StatusIdle, resp.Status)
	assert.Equal(t, MethodCash, resp.Method.ID)
}
