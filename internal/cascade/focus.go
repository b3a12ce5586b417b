package cascade

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Focus is the exclusively-held UI focus token. The host application's focus
// is shared mutable state: activating or typing into the wrong window
// corrupts it, so at most one resolution may be in flight system-wide. Every
// command acquires the token before its first UI action and releases it only
// when the whole command completes.
type Focus struct {
	sem  *semaphore.Weighted
	held atomic.Bool
}

// NewFocus creates the process-wide focus token.
func NewFocus() *Focus {
	return &Focus{sem: semaphore.NewWeighted(1)}
}

// Acquire blocks until the token is free or the context is done.
func (f *Focus) Acquire(ctx context.Context) error {
	if err := f.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	f.held.Store(true)
	return nil
}

// TryAcquire grabs the token without blocking.
func (f *Focus) TryAcquire() bool {
	if !f.sem.TryAcquire(1) {
		return false
	}
	f.held.Store(true)
	return true
}

// Release returns the token. Must be called exactly once per Acquire.
func (f *Focus) Release() {
	f.held.Store(false)
	f.sem.Release(1)
}

// Held reports whether the token is currently taken. Used as a guard so the
// controller refuses to touch the UI without the mutual-exclusion contract.
func (f *Focus) Held() bool { return f.held.Load() }
