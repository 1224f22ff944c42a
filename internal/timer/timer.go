// Package timer has the cancellable delayed execution used by the debounced
// saves, the soft-delete commits and the notification expiry.
package timer

import (
	"sync"
	"time"
)

// Handle is a scheduled function that can be cancelled.
type Handle interface {
	// Stop cancels the execution, returns false if it already ran or was stopped.
	Stop() bool
}

// Scheduler runs functions after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Handle
}

// Real is the scheduler backed by the runtime timers.
var Real Scheduler = realScheduler{}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Handle { return time.AfterFunc(d, f) }

// Slot holds at most one scheduled function. Scheduling a new one cancels the
// previous, and a replaced function never runs even if its timer already fired.
type Slot struct {
	sched   Scheduler
	mu      sync.Mutex
	idle    *sync.Cond
	gen     uint64
	handle  Handle
	fn      func()
	running int
}

// NewSlot returns a new slot using the scheduler.
func NewSlot(s Scheduler) *Slot {
	if s == nil {
		s = Real
	}
	slot := &Slot{sched: s}
	slot.idle = sync.NewCond(&slot.mu)
	return slot
}

// Schedule replaces the pending function, if any, with f after d.
func (s *Slot) Schedule(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.gen++
	gen := s.gen
	s.fn = f
	s.handle = s.sched.AfterFunc(d, func() { s.run(gen) })
}

// Cancel drops the pending function, returns true if there was one.
func (s *Slot) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.fn != nil
	s.stopLocked()
	s.gen++
	return pending
}

// Wait blocks until the functions whose timer already fired have returned.
func (s *Slot) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.running > 0 {
		s.idle.Wait()
	}
}

// Pending returns true if a function is waiting to run.
func (s *Slot) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fn != nil
}

func (s *Slot) run(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.fn == nil {
		s.mu.Unlock()
		return
	}
	f := s.fn
	s.fn = nil
	s.handle = nil
	s.running++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running--
		if s.running == 0 {
			s.idle.Broadcast()
		}
		s.mu.Unlock()
	}()
	f()
}

func (s *Slot) stopLocked() {
	if s.handle != nil {
		s.handle.Stop()
	}
	s.handle = nil
	s.fn = nil
}
