package chat

import (
	"errors"
	"sync"
)

// ErrNotConfirming is returned when a clear-all answer arrives without a
// pending request.
var ErrNotConfirming = errors.New("no clear-all confirmation pending")

// ConfirmState is the position of the clear-all confirmation flow.
type ConfirmState string

const (
	ConfirmIdle      ConfirmState = "idle"
	ConfirmPending   ConfirmState = "confirming"
	ConfirmExecuted  ConfirmState = "executed"
	ConfirmCancelled ConfirmState = "cancelled"
)

// ClearConfirmation guards Store.ClearAll behind an explicit two-step
// confirmation: Idle -> Confirming -> Executed | Cancelled. A finished flow
// returns to Idle on the next Settle.
type ClearConfirmation struct {
	mu    sync.Mutex
	state ConfirmState
	store *Store
}

// NewClearConfirmation binds a confirmation flow to store.
func NewClearConfirmation(store *Store) *ClearConfirmation {
	return &ClearConfirmation{state: ConfirmIdle, store: store}
}

// State returns the current position of the flow.
func (c *ClearConfirmation) State() ConfirmState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pending reports whether the user is being asked to confirm.
func (c *ClearConfirmation) Pending() bool {
	return c.State() == ConfirmPending
}

// Request starts the confirmation. Repeating it while pending is harmless.
func (c *ClearConfirmation) Request() ConfirmState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = ConfirmPending
	return c.state
}

// Confirm wipes the store. It fails unless a request is pending.
func (c *ClearConfirmation) Confirm() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != ConfirmPending {
		return ErrNotConfirming
	}
	c.store.ClearAll()
	c.state = ConfirmExecuted
	return nil
}

// Cancel abandons a pending request. It fails unless a request is pending.
func (c *ClearConfirmation) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != ConfirmPending {
		return ErrNotConfirming
	}
	c.state = ConfirmCancelled
	return nil
}

// Settle returns a finished flow to Idle. A pending request is kept.
func (c *ClearConfirmation) Settle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == ConfirmExecuted || c.state == ConfirmCancelled {
		c.state = ConfirmIdle
	}
}
