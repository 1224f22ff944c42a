package fake

import (
	"sort"
	"sync"
	"time"

	"github.com/slok/tdo/internal/timer"
)

// Scheduler is a timer.Scheduler with a manual clock, time only moves on Advance.
type Scheduler struct {
	mu     sync.Mutex
	start  time.Time
	now    time.Duration
	seq    uint64
	timers []*fakeTimer
}

// NewScheduler returns a new fake scheduler whose clock starts at start.
func NewScheduler(start time.Time) *Scheduler {
	return &Scheduler{start: start}
}

type fakeTimer struct {
	s       *Scheduler
	at      time.Duration
	seq     uint64
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// AfterFunc satisfies timer.Scheduler.
func (s *Scheduler) AfterFunc(d time.Duration, f func()) timer.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t := &fakeTimer{s: s, at: s.now + d, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Now returns the current fake time.
func (s *Scheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.start.Add(s.now)
}

// Advance moves the clock forward running every due function in deadline order,
// including the ones scheduled by other functions while advancing.
func (s *Scheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.nextDueLocked(target)
		if next == nil {
			s.now = target
			s.compactLocked()
			s.mu.Unlock()
			return
		}
		next.fired = true
		s.now = next.at
		s.mu.Unlock()

		next.f()
	}
}

// Pending returns the number of functions waiting to run.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (s *Scheduler) nextDueLocked(target time.Duration) *fakeTimer {
	var due []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

func (s *Scheduler) compactLocked() {
	alive := s.timers[:0]
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			alive = append(alive, t)
		}
	}
	s.timers = alive
}
