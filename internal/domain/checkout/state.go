// internal/domain/checkout/state.go
package checkout

import "fmt"

// Status is the state of a payment attempt
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

// ErrInvalidTransition wraps a rejected state change
var ErrInvalidTransition = fmt.Errorf("invalid checkout transition")

// transitions defines the valid state changes. Idle is both the initial
// state and the state every terminal outcome returns to; nothing blocks
// a further checkout.
var transitions = map[Status][]Status{
	StatusIdle:       {StatusSubmitting},
	StatusSubmitting: {StatusSucceeded, StatusFailed, StatusIdle}, // Idle via cancellation
	StatusSucceeded:  {StatusIdle},                                // after acknowledge
	StatusFailed:     {StatusIdle},                                // retry or fallback
}

// CanTransition checks whether a transition from one status to another
// is allowed.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// validateTransition returns an error describing a rejected transition
func validateTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: cannot go from %s to %s", ErrInvalidTransition, from, to)
	}
	return nil
}
