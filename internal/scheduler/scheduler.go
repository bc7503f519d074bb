// Package scheduler is the host timer facility. A single goroutine runs
// every timer callback and every posted task to completion, one at a time,
// so state touched only from callbacks needs no locking.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Stop is returned by a TimerFunc to unregister itself.
const Stop time.Duration = -1

var ErrStopped = errors.New("scheduler is not running")

// TimerFunc is a re-armable callback. It returns the delay before its next
// run, or Stop.
type TimerFunc func(ctx context.Context) time.Duration

// marks contexts handed to callbacks on the loop goroutine
type loopKey struct{}

type timer struct {
	fn    TimerFunc
	armed *time.Timer
}

type Scheduler struct {
	logger *zap.Logger

	mu      sync.Mutex
	timers  map[string]*timer
	running bool

	fire  chan string
	tasks chan func(context.Context)
	done  chan struct{}
}

func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		logger: logger.With(zap.String("component", "scheduler")),
		timers: make(map[string]*timer),
		fire:   make(chan string, 16),
		tasks:  make(chan func(context.Context)),
		done:   make(chan struct{}),
	}
}

// Register arms fn to run after first under name. It reports false and does
// nothing when a timer with that name is already registered.
func (s *Scheduler) Register(name string, fn TimerFunc, first time.Duration) bool {
	if fn == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.timers[name]; ok {
		return false
	}
	t := &timer{fn: fn}
	s.timers[name] = t
	s.arm(name, t, first)
	return true
}

func (s *Scheduler) IsRegistered(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[name]
	return ok
}

// Unregister cancels a pending timer.
func (s *Scheduler) Unregister(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[name]; ok {
		t.armed.Stop()
		delete(s.timers, name)
	}
}

// caller holds s.mu
func (s *Scheduler) arm(name string, t *timer, d time.Duration) {
	if d < 0 {
		d = 0
	}
	t.armed = time.AfterFunc(d, func() {
		select {
		case s.fire <- name:
		case <-s.done:
		}
	})
}

// Do runs fn on the scheduler goroutine and waits for it to return.
// Called from a timer or task with the context it was handed, fn runs
// inline. Any other context there blocks forever on the busy loop.
func (s *Scheduler) Do(ctx context.Context, fn func(ctx context.Context)) error {
	if ctx.Value(loopKey{}) == s {
		fn(ctx)
		return nil
	}
	finished := make(chan struct{})
	task := func(ctx context.Context) {
		defer close(finished)
		fn(ctx)
	}
	select {
	case s.tasks <- task:
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-finished
	return nil
}

// Run drives timers and tasks until ctx is cancelled. Pending timers are
// dropped on return.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("scheduler already running")
	}
	s.running = true
	s.mu.Unlock()

	defer s.shutdown()

	ctx = context.WithValue(ctx, loopKey{}, s)
	s.logger.Info("scheduler started")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return nil
		case task := <-s.tasks:
			s.runTask(ctx, task)
		case name := <-s.fire:
			s.runTimer(ctx, name)
		}
	}
}

func (s *Scheduler) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	close(s.done)
	for name, t := range s.timers {
		t.armed.Stop()
		delete(s.timers, name)
	}
}

func (s *Scheduler) runTask(ctx context.Context, task func(context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panicked", zap.String("panic", fmt.Sprint(r)))
		}
	}()
	task(ctx)
}

func (s *Scheduler) runTimer(ctx context.Context, name string) {
	s.mu.Lock()
	t, ok := s.timers[name]
	s.mu.Unlock()
	if !ok {
		return
	}

	next := s.call(ctx, name, t.fn)

	s.mu.Lock()
	defer s.mu.Unlock()
	// the callback may have unregistered and re-registered itself
	if s.timers[name] != t {
		return
	}
	if next == Stop {
		delete(s.timers, name)
		s.logger.Debug("timer stopped", zap.String("timer", name))
		return
	}
	s.arm(name, t, next)
}

// A panicking callback is unregistered.
func (s *Scheduler) call(ctx context.Context, name string, fn TimerFunc) (next time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("timer panicked", zap.String("timer", name), zap.String("panic", fmt.Sprint(r)))
			next = Stop
		}
	}()
	return fn(ctx)
}
