package async

import (
	"context"
	"runtime/debug"
	"time"

	"radio-cms/pkg/log"
)

// Runner starts detached background tasks that recover panics and log failures.
type Runner struct {
	logger  log.Logger
	timeout time.Duration
}

func NewRunner(logger log.Logger, timeout time.Duration) *Runner {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Runner{logger: logger, timeout: timeout}
}

// Go runs fn in a new goroutine. The task keeps the values of parentCtx but
// not its cancellation, so it outlives the request that triggered it.
func (r *Runner) Go(parentCtx context.Context, taskName string, fn func(context.Context) error) {
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(parentCtx), r.timeout)
		defer cancel()

		defer func() {
			if rec := recover(); rec != nil {
				r.logger.ErrorContext(ctx, "background task panicked",
					log.String("task", taskName),
					log.Any("panic", rec),
					log.String("stack", string(debug.Stack())),
				)
			}
		}()

		if err := fn(ctx); err != nil {
			r.logger.WarnContext(ctx, "background task failed",
				log.String("task", taskName),
				log.Error(err),
			)
		}
	}()
}

// Run is Go for tasks that cannot fail.
func (r *Runner) Run(parentCtx context.Context, taskName string, fn func(context.Context)) {
	r.Go(parentCtx, taskName, func(ctx context.Context) error {
		fn(ctx)
		return nil
	})
}
