package rollover

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs Rollover for the current month on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	engine *Engine
	log    *slog.Logger
	now    func() time.Time
}

// NewScheduler parses spec (standard five-field cron syntax) and registers
// the rollover job. Overlapping runs are skipped.
func NewScheduler(engine *Engine, spec string, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		engine: engine,
		log:    logger,
		now:    time.Now,
	}
	s.cron = cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("rollover scheduler started")
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) run() {
	now := s.now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	res, err := s.engine.Rollover(ctx, now.Year(), int(now.Month()))
	if err != nil {
		s.log.Error("scheduled rollover failed", "year", now.Year(), "month", int(now.Month()), "err", err)
		return
	}
	s.log.Info("scheduled rollover done", "year", res.Year, "month", res.Month, "rent", res.Rent, "expenses", res.Expenses)
}
