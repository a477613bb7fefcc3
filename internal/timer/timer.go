// Package timer provides cancellable deadlines driven by simulation time.
//
// Every timed wait in the game (ammo lifetime, spawner waves, invincibility,
// sound effect return) is a Timer owned by one entity. Starting a timer
// replaces any pending wait on it, and stopping it is the early-return path.
// The Scheduler only moves when the game loop ticks it, so pausing the
// simulation (scale 0) freezes every pending wait.
package timer

import (
	"time"
)

// Scheduler keeps simulation time and fires timers whose deadlines pass.
// It is not safe for concurrent use.
type Scheduler struct {
	now    time.Duration
	scale  float64
	seq    uint64
	timers []*Timer
}

// NewScheduler returns a scheduler at time zero with scale 1.
func NewScheduler() *Scheduler {
	return &Scheduler{scale: 1}
}

// Now returns the current simulation time.
func (s *Scheduler) Now() time.Duration { return s.now }

// Scale returns the time scale applied by Tick.
func (s *Scheduler) Scale() float64 { return s.scale }

// SetScale sets the time scale applied by Tick. Zero pauses.
func (s *Scheduler) SetScale(scale float64) {
	s.scale = max(scale, 0)
}

// Tick advances by dt multiplied by the time scale and returns the scaled
// step so callers can integrate motion with the same value.
func (s *Scheduler) Tick(dt time.Duration) time.Duration {
	scaled := time.Duration(float64(dt) * s.scale)
	s.Advance(scaled)
	return scaled
}

// Advance moves simulation time forward by dt, firing due timers in
// deadline order. While a callback runs, Now reports that timer's deadline,
// so a timer re-armed from its own callback keeps an exact cadence.
func (s *Scheduler) Advance(dt time.Duration) {
	target := s.now + max(dt, 0)
	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		s.now = t.deadline
		s.remove(t)
		if t.fn != nil {
			t.fn()
		}
	}
	s.now = target
}

// Pending returns the number of armed timers.
func (s *Scheduler) Pending() int { return len(s.timers) }

func (s *Scheduler) nextDue(target time.Duration) *Timer {
	var next *Timer
	for _, t := range s.timers {
		if t.deadline > target {
			continue
		}
		if next == nil || t.deadline < next.deadline || (t.deadline == next.deadline && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (s *Scheduler) remove(t *Timer) {
	for i, x := range s.timers {
		if x == t {
			last := len(s.timers) - 1
			s.timers[i] = s.timers[last]
			s.timers[last] = nil
			s.timers = s.timers[:last]
			break
		}
	}
	t.armed = false
}

// Timer is a single pending wait. The zero value is not usable; create
// timers with Scheduler.NewTimer.
type Timer struct {
	s        *Scheduler
	deadline time.Duration
	seq      uint64
	armed    bool
	fn       func()
}

// NewTimer returns a stopped timer bound to s.
func (s *Scheduler) NewTimer() *Timer {
	return &Timer{s: s}
}

// Start arms the timer to call fn after d of simulation time, cancelling
// any wait already pending on it.
func (t *Timer) Start(d time.Duration, fn func()) {
	if t.armed {
		t.s.remove(t)
	}
	t.s.seq++
	t.seq = t.s.seq
	t.deadline = t.s.now + max(d, 0)
	t.fn = fn
	t.armed = true
	t.s.timers = append(t.s.timers, t)
}

// Stop cancels the pending wait. It reports whether one was pending.
func (t *Timer) Stop() bool {
	if !t.armed {
		return false
	}
	t.s.remove(t)
	return true
}

// Active reports whether a wait is pending.
func (t *Timer) Active() bool { return t.armed }

// Remaining returns the simulation time left before the timer fires, or 0
// when it is stopped.
func (t *Timer) Remaining() time.Duration {
	if !t.armed {
		return 0
	}
	return t.deadline - t.s.now
}
