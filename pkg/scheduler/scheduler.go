package scheduler

import (
	"context"

	"radio-cms/common"
	"radio-cms/pkg/log"

	"github.com/robfig/cron/v3"
)

// Scheduler runs cron jobs. Overlapping runs of one job are skipped and
// panics are recovered.
type Scheduler struct {
	cron   *cron.Cron
	logger log.Logger
}

func New(logger log.Logger) *Scheduler {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	cronLogger := cron.PrintfLogger(common.NewLoggerAdapter(logger))
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		logger: logger,
	}
}

// Add registers job under a standard five-field spec or a descriptor such as "@every 1m".
func (s *Scheduler) Add(name, spec string, job cron.Job) error {
	if _, err := s.cron.AddJob(spec, job); err != nil {
		return err
	}
	s.logger.Info("scheduled job", log.String("job", name), log.String("spec", spec))
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}
