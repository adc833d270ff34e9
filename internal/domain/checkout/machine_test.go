package checkout

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/foodorder-backend/internal/domain/cart"
)

// manualScheduler collects scheduled resolutions so tests decide when
// the simulated gateway call completes.
type manualScheduler struct {
	mu  sync.Mutex
	fns []func()
}

func (s *manualScheduler) Schedule(_ time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fns = append(s.fns, fn)
	return func() {}
}

// fire runs every pending resolution
func (s *manualScheduler) fire() {
	s.mu.Lock()
	fns := s.fns
	s.fns = nil
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func testOrder(t *testing.T) cart.Snapshot {
	t.Helper()
	c := cart.New()
	require.NoError(t, c.AddItem("p1", "Nasi Goreng Spesial", 25000, 2))
	return c.Snapshot()
}

func newTestMachine() (*Machine, *manualScheduler) {
	sched := &manualScheduler{}
	return NewMachine(2*time.Second, "ORD", sched), sched
}

func mustMethod(t *testing.T, id string) Method {
	t.Helper()
	m, err := MethodByID(id)
	require.NoError(t, err)
	return m
}

func TestSubmit_EmptyOrderRejected(t *testing.T) {
	m, _ := newTestMachine()

	_, err := m.Submit(cart.New().Snapshot(), DefaultMethod())
	assert.ErrorIs(t, err, ErrEmptyOrder)

	status, attempt := m.Status()
	assert.Equal(t, StatusIdle, status)
	assert.Nil(t, attempt)
}

func TestSubmit_InsufficientBalanceFails(t *testing.T) {
	m, sched := newTestMachine()

	// Total 50000 against OVO's 25000 balance.
	_, err := m.Submit(testOrder(t), mustMethod(t, MethodOVO))
	require.NoError(t, err)

	status, _ := m.Status()
	assert.Equal(t, StatusSubmitting, status)

	sched.fire()

	status, attempt := m.Status()
	require.Equal(t, StatusFailed, status)
	require.NotNil(t, attempt)
	assert.Empty(t, attempt.OrderID)
	assert.Contains(t, attempt.FailureReason, "OVO")
	assert.Contains(t, attempt.FailureReason, "25.000")
}

func TestSubmit_UnlimitedMethodSucceeds(t *testing.T) {
	m, sched := newTestMachine()

	_, err := m.Submit(testOrder(t), mustMethod(t, MethodCash))
	require.NoError(t, err)
	sched.fire()

	status, attempt := m.Status()
	require.Equal(t, StatusSucceeded, status)
	require.NotNil(t, attempt)
	assert.Regexp(t, `^ORD-\d{6}$`, attempt.OrderID)
	assert.Empty(t, attempt.FailureReason)
}

func TestSubmit_SufficientFiniteBalanceSucceeds(t *testing.T) {
	m, sched := newTestMachine()

	// GoPay holds 500000, well above the 50000 total.
	_, err := m.Submit(testOrder(t), mustMethod(t, MethodGoPay))
	require.NoError(t, err)
	sched.fire()

	status, attempt := m.Status()
	assert.Equal(t, StatusSucceeded, status)
	assert.Regexp(t, `^ORD-\d{6}$`, attempt.OrderID)
}

func TestSubmit_ExactBalanceSucceeds(t *testing.T) {
	m, sched := newTestMachine()

	c := cart.New()
	require.NoError(t, c.AddItem("p1", "Nasi Goreng Spesial", 25000, 1))

	_, err := m.Submit(c.Snapshot(), mustMethod(t, MethodOVO))
	require.NoError(t, err)
	sched.fire()

	status, _ := m.Status()
	assert.Equal(t, StatusSucceeded, status)
}

func TestSubmit_ReentrancyGuard(t *testing.T) {
	m, sched := newTestMachine()
	order := testOrder(t)

	_, err := m.Submit(order, mustMethod(t, MethodCash))
	require.NoError(t, err)

	// A second pay-now while submitting has no effect.
	_, err = m.Submit(order, mustMethod(t, MethodGoPay))
	assert.ErrorIs(t, err, ErrAttemptInProgress)

	status, attempt := m.Status()
	assert.Equal(t, StatusSubmitting, status)
	assert.Equal(t, MethodCash, attempt.Method.ID)

	sched.fire()
	status, _ = m.Status()
	assert.Equal(t, StatusSucceeded, status)
}

func TestSubmit_RejectedFromTerminalStates(t *testing.T) {
	m, sched := newTestMachine()
	order := testOrder(t)

	_, err := m.Submit(order, mustMethod(t, MethodCash))
	require.NoError(t, err)
	sched.fire()

	// Succeeded must be acknowledged before another checkout starts.
	_, err = m.Submit(order, mustMethod(t, MethodCash))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = m.Acknowledge()
	require.NoError(t, err)

	_, err = m.Submit(order, mustMethod(t, MethodCash))
	assert.NoError(t, err)
}

func TestCancel_DiscardsLateResolution(t *testing.T) {
	m, sched := newTestMachine()

	_, err := m.Submit(testOrder(t), mustMethod(t, MethodCash))
	require.NoError(t, err)

	m.Cancel()

	// The resolution arrives after the flow was torn down; it must not
	// mutate anything.
	sched.fire()

	status, attempt := m.Status()
	assert.Equal(t, StatusIdle, status)
	assert.Nil(t, attempt)
}

func TestCancel_OutsideSubmittingIsNoOp(t *testing.T) {
	m, sched := newTestMachine()

	m.Cancel()
	status, _ := m.Status()
	assert.Equal(t, StatusIdle, status)

	_, err := m.Submit(testOrder(t), mustMethod(t, MethodCash))
	require.NoError(t, err)
	sched.fire()

	m.Cancel()
	status, attempt := m.Status()
	assert.Equal(t, StatusSucceeded, status)
	assert.NotNil(t, attempt)
}

func TestAcknowledge_OnlyFromSucceeded(t *testing.T) {
	m, sched := newTestMachine()

	_, err := m.Acknowledge()
	assert.ErrorIs(t, err, ErrNoAttempt)

	_, err = m.Submit(testOrder(t), mustMethod(t, MethodCash))
	require.NoError(t, err)
	sched.fire()

	done, err := m.Acknowledge()
	require.NoError(t, err)
	assert.Regexp(t, `^ORD-\d{6}$`, done.OrderID)
	assert.Equal(t, int64(50000), done.Order.GrandTotal)

	status, attempt := m.Status()
	assert.Equal(t, StatusIdle, status)
	assert.Nil(t, attempt)

	// One acknowledgement per order.
	_, err = m.Acknowledge()
	assert.ErrorIs(t, err, ErrNoAttempt)
}

func TestRetry_ReturnsFailedToIdle(t *testing.T) {
	m, sched := newTestMachine()

	_, err := m.Submit(testOrder(t), mustMethod(t, MethodOVO))
	require.NoError(t, err)
	sched.fire()

	status, _ := m.Status()
	require.Equal(t, StatusFailed, status)

	require.NoError(t, m.Retry())
	status, attempt := m.Status()
	assert.Equal(t, StatusIdle, status)
	assert.Nil(t, attempt)

	// Retry only applies to a failed attempt.
	assert.ErrorIs(t, m.Retry(), ErrNoAttempt)
}

func TestFailedAttempt_LeavesOrderIntact(t *testing.T) {
	m, sched := newTestMachine()

	c := cart.New()
	require.NoError(t, c.AddItem("p1", "Nasi Goreng Spesial", 25000, 2))
	before := c.Snapshot()

	_, err := m.Submit(before, mustMethod(t, MethodOVO))
	require.NoError(t, err)
	sched.fire()

	// The failure stores the attempt but the cart the snapshot came
	// from is untouched: same lines, same totals, ready for a retry.
	assert.Equal(t, 2, c.TotalItems())
	assert.Equal(t, int64(50000), c.TotalPrice())

	_, attempt := m.Status()
	assert.Equal(t, before.GrandTotal, attempt.Order.GrandTotal)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusIdle, StatusSubmitting, true},
		{StatusIdle, StatusSucceeded, false},
		{StatusIdle, StatusFailed, false},
		{StatusSubmitting, StatusSucceeded, true},
		{StatusSubmitting, StatusFailed, true},
		{StatusSubmitting, StatusIdle, true},
		{StatusSucceeded, StatusIdle, true},
		{StatusSucceeded, StatusSubmitting, false},
		{StatusFailed, StatusIdle, true},
		{StatusFailed, StatusSubmitting, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}
