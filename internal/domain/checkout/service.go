// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/foodorder-backend/internal/config"
	"github.com/your-org/foodorder-backend/internal/domain/cart"
	"gorm.io/gorm"
)

// cartStore is the slice of the cart service checkout needs: an order
// snapshot to submit and a clear on acknowledgement.
type cartStore interface {
	Snapshot(ctx context.Context, sessionID string) (cart.Snapshot, error)
	Clear(ctx context.Context, sessionID string) error
}

// Service coordinates one checkout machine per session. It takes the
// order snapshot from the session cart, drives the machine, and clears
// the cart exactly once when a succeeded attempt is acknowledged.
type Service struct {
	config *config.Config
	carts  cartStore
	sched  Scheduler
	log    *logrus.Logger

	// mu guards sessions and every session's method and lastSeen;
	// the machine carries its own lock.
	mu       sync.Mutex
	sessions map[string]*session
}

// session pairs a machine with the selected method. lastSeen drives
// eviction of sessions that went idle and were never touched again.
type session struct {
	machine  *Machine
	method   Method
	lastSeen time.Time
}

// NewService creates a new checkout service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{
		config:   cfg,
		carts:    cart.NewService(db, redisClient, cfg),
		sched:    TimerScheduler{},
		log:      log,
		sessions: make(map[string]*session),
	}
}

// PayRequest represents a pay-now request. MethodID is optional; the
// session's currently selected method is used when absent.
type PayRequest struct {
	MethodID string `json:"method_id"`
}

// SelectMethodRequest represents a method selection request
type SelectMethodRequest struct {
	MethodID string `json:"method_id" binding:"required"`
}

// StatusResponse represents the state of the session's checkout
type StatusResponse struct {
	Status  Status   `json:"status"`
	Method  Method   `json:"selected_method"`
	Attempt *Attempt `json:"attempt,omitempty"`
}

// ListMethods returns the available payment methods
func (s *Service) ListMethods() []Method {
	return Methods()
}

// SelectMethod sets the session's payment method
func (s *Service) SelectMethod(sessionID, methodID string) (Method, error) {
	m, err := MethodByID(methodID)
	if err != nil {
		return Method{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionLocked(sessionID)
	sess.method = m
	return m, nil
}

// Pay snapshots the session cart and submits a payment attempt with the
// requested method (or the selected one when the request names none).
func (s *Service) Pay(ctx context.Context, sessionID string, req *PayRequest) (*Attempt, error) {
	s.mu.Lock()
	sess := s.sessionLocked(sessionID)
	method := sess.method
	s.mu.Unlock()

	if req != nil && req.MethodID != "" {
		m, err := MethodByID(req.MethodID)
		if err != nil {
			return nil, err
		}
		method = m
	}

	order, err := s.carts.Snapshot(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	attempt, err := sess.machine.Submit(order, method)
	if err != nil {
		return nil, err
	}

	// The explicit method choice sticks only once the attempt is
	// accepted; a rejected double-tap must not change the selection.
	s.mu.Lock()
	sess.method = method
	sess.lastSeen = time.Now()
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"session":     sessionID,
		"method":      method.ID,
		"grand_total": order.GrandTotal,
		"items":       len(order.Lines),
	}).Info("payment attempt submitted")

	return attempt, nil
}

// Status reports the session's checkout state. An unknown session is
// idle with the default method; a status poll never allocates state.
func (s *Service) Status(sessionID string) StatusResponse {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return StatusResponse{Status: StatusIdle, Method: DefaultMethod()}
	}
	method := sess.method
	sess.lastSeen = time.Now()
	s.mu.Unlock()

	status, attempt := sess.machine.Status()
	return StatusResponse{
		Status:  status,
		Method:  method,
		Attempt: attempt,
	}
}

// Acknowledge completes a succeeded attempt and clears the session
// cart. The cart is cleared here and nowhere else, so a stale cart can
// never be charged twice.
func (s *Service) Acknowledge(ctx context.Context, sessionID string) (*Attempt, error) {
	sess := s.lookup(sessionID)
	if sess == nil {
		return nil, fmt.Errorf("%w: status is %s", ErrNoAttempt, StatusIdle)
	}

	attempt, err := sess.machine.Acknowledge()
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"session":  sessionID,
		"order_id": attempt.OrderID,
		"method":   attempt.Method.ID,
	}).Info("order completed")

	return attempt, nil
}

// Retry returns a failed attempt to idle, keeping the selected method
// and the cart contents.
func (s *Service) Retry(sessionID string) error {
	sess := s.lookup(sessionID)
	if sess == nil {
		return fmt.Errorf("%w: status is %s", ErrNoAttempt, StatusIdle)
	}
	return sess.machine.Retry()
}

// FallbackToCash returns a failed attempt to idle and resets the
// session's method to the unlimited default.
func (s *Service) FallbackToCash(sessionID string) (Method, error) {
	sess := s.lookup(sessionID)
	if sess == nil {
		return Method{}, fmt.Errorf("%w: status is %s", ErrNoAttempt, StatusIdle)
	}

	if err := sess.machine.Retry(); err != nil {
		return Method{}, err
	}

	s.mu.Lock()
	sess.method = DefaultMethod()
	m := sess.method
	s.mu.Unlock()
	return m, nil
}

// Cancel discards a pending attempt without touching the cart.
// Cancelling an unknown session is a no-op.
func (s *Service) Cancel(sessionID string) {
	if sess := s.lookup(sessionID); sess != nil {
		sess.machine.Cancel()
	}
}

// lookup returns the existing session, refreshing its activity stamp,
// or nil when none exists.
func (s *Service) lookup(sessionID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	sess.lastSeen = time.Now()
	return sess
}

// sessionLocked returns the session, creating it on first use. The
// caller holds s.mu. Creation doubles as the sweep point for abandoned
// sessions, so the map stays bounded by the active client population.
func (s *Service) sessionLocked(sessionID string) *session {
	if sess, ok := s.sessions[sessionID]; ok {
		sess.lastSeen = time.Now()
		return sess
	}

	s.evictIdleLocked(time.Now())

	sess := &session{
		machine:  NewMachine(s.config.Payment.ProcessingDelay, s.config.Payment.OrderIDPrefix, s.sched),
		method:   DefaultMethod(),
		lastSeen: time.Now(),
	}
	s.sessions[sessionID] = sess
	return sess
}

// evictIdleLocked drops sessions that returned to Idle and have been
// inactive longer than the cart TTL; their carts in Redis are expired
// by then anyway. Sessions with a live attempt are never evicted. The
// caller holds s.mu.
func (s *Service) evictIdleLocked(now time.Time) {
	ttl := s.config.Redis.CartTTL
	if ttl <= 0 {
		return
	}
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) < ttl {
			continue
		}
		if status, _ := sess.machine.Status(); status == StatusIdle {
			delete(s.sessions, id)
		}
	}
}
