// internal/domain/checkout/machine.go
package checkout

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/your-org/foodorder-backend/internal/domain/cart"
	"github.com/your-org/foodorder-backend/internal/pkg/currency"
)

var (
	// ErrEmptyOrder is returned when an order with no lines is submitted
	ErrEmptyOrder = errors.New("cannot check out an empty order")
	// ErrAttemptInProgress is returned when a pay request arrives while
	// a previous attempt is still submitting
	ErrAttemptInProgress = errors.New("a payment attempt is already in progress")
	// ErrNoAttempt is returned when resolving state that requires an
	// attempt in a terminal status
	ErrNoAttempt = errors.New("no payment attempt in this state")
)

// Attempt is the transient record of one payment attempt. It is created
// when checkout starts and discarded when the user acknowledges the
// result, retries, or falls back to cash.
type Attempt struct {
	Order         cart.Snapshot `json:"order"`
	Method        Method        `json:"method"`
	Status        Status        `json:"status"`
	OrderID       string        `json:"order_id,omitempty"`
	FailureReason string        `json:"failure_reason,omitempty"`
	StartedAt     time.Time     `json:"started_at"`
	ResolvedAt    *time.Time    `json:"resolved_at,omitempty"`
}

// Scheduler defers a function by a delay and returns a cancel func.
// Production uses timers; tests substitute a manual implementation so
// attempts resolve without waiting.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) (cancel func())
}

// TimerScheduler schedules on real timers
type TimerScheduler struct{}

// Schedule runs fn after d on a new timer
func (TimerScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Machine drives one session's checkout through
// Idle -> Submitting -> Succeeded/Failed and back to Idle. The
// simulated gateway call is the only suspension point; a generation
// counter discards resolutions that were cancelled while pending.
type Machine struct {
	mu      sync.Mutex
	status  Status
	attempt *Attempt
	gen     uint64
	cancel  func()

	delay  time.Duration
	prefix string
	sched  Scheduler
	rng    *rand.Rand
}

// NewMachine creates a checkout machine in the Idle state
func NewMachine(delay time.Duration, prefix string, sched Scheduler) *Machine {
	if sched == nil {
		sched = TimerScheduler{}
	}
	return &Machine{
		status: StatusIdle,
		delay:  delay,
		prefix: prefix,
		sched:  sched,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Submit starts a payment attempt for the given order snapshot and
// method. The order must have at least one line, and no other attempt
// may be submitting.
func (m *Machine) Submit(order cart.Snapshot, method Method) (*Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == StatusSubmitting {
		return nil, ErrAttemptInProgress
	}
	if err := validateTransition(m.status, StatusSubmitting); err != nil {
		return nil, err
	}
	if len(order.Lines) == 0 {
		return nil, ErrEmptyOrder
	}

	m.status = StatusSubmitting
	m.attempt = &Attempt{
		Order:     order,
		Method:    method,
		Status:    StatusSubmitting,
		StartedAt: time.Now().UTC(),
	}

	m.gen++
	gen := m.gen
	m.cancel = m.sched.Schedule(m.delay, func() { m.resolve(gen) })

	return m.snapshotAttempt(), nil
}

// resolve applies the balance rule once the simulated delay elapses.
// A stale generation means the attempt was cancelled while pending; the
// resolution is discarded without touching any state.
func (m *Machine) resolve(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen || m.status != StatusSubmitting {
		return
	}

	method := m.attempt.Method
	total := m.attempt.Order.GrandTotal
	now := time.Now().UTC()

	if !method.CanCover(total) {
		m.status = StatusFailed
		m.attempt.Status = StatusFailed
		m.attempt.FailureReason = fmt.Sprintf("Saldo %s kurang. Sisa: %s",
			method.Label, currency.Rupiah(*method.Balance))
	} else {
		m.status = StatusSucceeded
		m.attempt.Status = StatusSucceeded
		m.attempt.OrderID = m.newOrderID()
	}
	m.attempt.ResolvedAt = &now
	m.cancel = nil
}

// Cancel discards a pending attempt, for example when the client tears
// down the checkout flow mid-submit. A late resolution of the cancelled
// attempt is ignored. Cancelling outside Submitting is a no-op.
func (m *Machine) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusSubmitting {
		return
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.gen++
	m.status = StatusIdle
	m.attempt = nil
}

// Acknowledge completes a succeeded attempt and returns it. The caller
// clears the cart exactly once per acknowledged order.
func (m *Machine) Acknowledge() (*Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusSucceeded {
		return nil, fmt.Errorf("%w: status is %s", ErrNoAttempt, m.status)
	}

	done := m.snapshotAttempt()
	m.status = StatusIdle
	m.attempt = nil
	return done, nil
}

// Retry returns a failed attempt to Idle, keeping the cart intact so
// the user can pay again with another method.
func (m *Machine) Retry() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusFailed {
		return fmt.Errorf("%w: status is %s", ErrNoAttempt, m.status)
	}
	m.status = StatusIdle
	m.attempt = nil
	return nil
}

// Status returns the current status and a copy of the attempt, if any
func (m *Machine) Status() (Status, *Attempt) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status, m.snapshotAttempt()
}

func (m *Machine) snapshotAttempt() *Attempt {
	if m.attempt == nil {
		return nil
	}
	a := *m.attempt
	return &a
}

// newOrderID generates a receipt number: prefix plus six digits drawn
// uniformly from [100000, 999999]. This is a display value, not a
// security token.
func (m *Machine) newOrderID() string {
	return fmt.Sprintf("%s-%d", m.prefix, 100000+m.rng.Intn(900000))
}
