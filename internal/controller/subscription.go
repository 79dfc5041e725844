package controller

import (
	"sync"

	"github.com/google/uuid"
)

// Subscription is a scoped handle to an event registration. Cancelling is
// idempotent and releases the underlying registration deterministically,
// regardless of which teardown path runs first.
type Subscription struct {
	id     uuid.UUID
	once   sync.Once
	cancel func()
}

// NewSubscription wraps a release function in a cancellable handle.
func NewSubscription(cancel func()) *Subscription {
	return &Subscription{id: uuid.New(), cancel: cancel}
}

// ID returns the subscription's unique token.
func (s *Subscription) ID() uuid.UUID {
	return s.id
}

// Cancel releases the registration. Safe to call more than once, and safe
// on a nil subscription.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}
