package engine

import (
	"context"
	"sync"
	"time"

	"github.com/only1thor/autobank/src/audit"
	"github.com/only1thor/autobank/src/logger"
)

// SchedulerStatus is a snapshot of the scheduler's state.
type SchedulerStatus struct {
	Running  bool  `json:"running"`
	Enabled  bool  `json:"enabled"`
	LastPoll int64 `json:"last_poll"` // epoch seconds of last completed cycle, 0 if never
}

// Scheduler owns the poll loop. Exactly one cycle runs at a time: the loop
// goroutine is the only caller of the poller. A manual trigger arriving while
// a cycle runs parks in a one-slot channel, so any number of triggers during
// a cycle coalesce into a single follow-up cycle. Manual triggers poll even
// while the scheduler is disabled; interval ticks do not.
type Scheduler struct {
	poller   *Poller
	audit    *audit.Logger
	interval time.Duration
	trigger  chan struct{}

	mu       sync.Mutex
	running  bool
	enabled  bool
	lastPoll int64
}

func NewScheduler(poller *Poller, auditLog *audit.Logger, interval time.Duration, enabled bool) *Scheduler {
	return &Scheduler{
		poller:   poller,
		audit:    auditLog,
		interval: interval,
		trigger:  make(chan struct{}, 1),
		enabled:  enabled,
	}
}

// Run blocks until ctx is cancelled. Call from exactly one goroutine.
func (s *Scheduler) Run(ctx context.Context) {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	s.audit.Log(ctx, audit.EventSchedulerStarted, audit.ActorSystem, map[string]any{
		"interval_seconds": int64(s.interval.Seconds()),
	})
	logger.L.Info("scheduler started", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
			s.audit.Log(context.WithoutCancel(ctx), audit.EventSchedulerStopped, audit.ActorSystem, map[string]any{})
			logger.L.Info("scheduler stopped")
			return

		case <-s.trigger:
			s.runPoll(ctx, audit.ActorUser)

		case <-ticker.C:
			if s.IsEnabled() {
				s.runPoll(ctx, audit.ActorScheduler)
			} else {
				logger.L.Debug("scheduler disabled, skipping tick")
			}
		}
	}
}

func (s *Scheduler) runPoll(ctx context.Context, actor string) {
	if ctx.Err() != nil {
		return
	}
	stats, err := s.poller.RunCycle(ctx, actor)
	if err != nil {
		logger.L.Error("poll cycle failed", "error", err)
		return
	}
	s.mu.Lock()
	s.lastPoll = time.Now().Unix()
	s.mu.Unlock()
	logger.L.Info("poll cycle completed",
		"accountsPolled", stats.AccountsPolled,
		"rulesEvaluated", stats.RulesEvaluated,
		"matches", stats.Matches,
		"transfersSucceeded", stats.TransfersSucceeded,
		"transfersFailed", stats.TransfersFailed)
}

// TriggerPoll requests a manual poll. Returns false when a trigger is already
// pending, in which case the request coalesces with it.
func (s *Scheduler) TriggerPoll() bool {
	select {
	case s.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

func (s *Scheduler) Enable() {
	s.mu.Lock()
	s.enabled = true
	s.mu.Unlock()
}

func (s *Scheduler) Disable() {
	s.mu.Lock()
	s.enabled = false
	s.mu.Unlock()
}

func (s *Scheduler) IsEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

func (s *Scheduler) Status() SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SchedulerStatus{Running: s.running, Enabled: s.enabled, LastPoll: s.lastPoll}
}
