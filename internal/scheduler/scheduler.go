package scheduler

import (
	"context"
	"fmt"
	"html"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"StockInsight/internal/notifier"
	"StockInsight/internal/pipeline"
)

// Runner executes one refresh. *pipeline.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

// Scheduler runs the refresh job on a cron schedule.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   Runner
	Notifier notifier.Notifier
	Ctx      context.Context

	mu      sync.Mutex
	running bool
	last    *pipeline.Result
	wg      sync.WaitGroup
}

// NewScheduler creates a new Scheduler. Overlapping refreshes are skipped.
func NewScheduler(ctx context.Context, r Runner, n notifier.Notifier) *Scheduler {
	if n == nil {
		n = notifier.Noop{}
	}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		Runner:   r,
		Notifier: n,
		Ctx:      ctx,
	}
}

// Register adds the refresh task.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running refresh to finish,
// including one started by RunNow.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.wg.Wait()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the refresh immediately (for manual trigger / RUN_ON_START).
// It returns false when a refresh is already in progress.
func (s *Scheduler) RunNow() bool {
	return s.refresh()
}

// Last returns the result of the most recent successful refresh, or nil.
func (s *Scheduler) Last() *pipeline.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Scheduler) refreshTask() {
	s.refresh()
}

func (s *Scheduler) refresh() bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Println("[WARN] refresh already running, skipped")
		return false
	}
	s.running = true
	s.wg.Add(1)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		s.wg.Done()
	}()

	log.Println("[INFO] === Refresh Task Start ===")
	res, err := s.Runner.Run(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] refresh: %v", err)
		if s.Ctx.Err() == nil {
			s.trySend(fmt.Sprintf("⚠️ StockInsight refresh failed: %s", html.EscapeString(err.Error())))
		}
		return true
	}

	s.mu.Lock()
	s.last = res
	s.mu.Unlock()
	log.Printf("[INFO] === Refresh Task Done (run %s) ===", res.RunID)
	return true
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.Send(s.Ctx, text); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
