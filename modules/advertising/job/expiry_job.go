package job

import (
	"context"
	"time"

	"radio-cms/pkg/cache"
	"radio-cms/pkg/log"
	"radio-cms/pkg/metrics"
)

const (
	ExpiryJobName = "ad-expiry"
	expiryLockKey = "job:lock:" + ExpiryJobName
)

type Expirer interface {
	ExpireEnded(ctx context.Context) (int, error)
}

// ExpiryJob deactivates ended advertisements. When a cache is configured the
// run holds a lock so only one instance expires ads per tick.
type ExpiryJob struct {
	expirer Expirer
	cache   cache.Client
	metrics *metrics.Metrics
	logger  log.Logger
	timeout time.Duration
}

func NewExpiryJob(expirer Expirer, cacheClient cache.Client, m *metrics.Metrics, logger log.Logger, timeout time.Duration) *ExpiryJob {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ExpiryJob{
		expirer: expirer,
		cache:   cacheClient,
		metrics: m,
		logger:  logger,
		timeout: timeout,
	}
}

// Run satisfies cron.Job.
func (j *ExpiryJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	_, _ = j.RunOnce(ctx)
}

// RunOnce reports ran=false when another instance holds the lock.
func (j *ExpiryJob) RunOnce(ctx context.Context) (ran bool, err error) {
	if j.cache != nil {
		acquired, err := j.cache.Lock(ctx, expiryLockKey, j.timeout)
		if err != nil {
			j.logger.WarnContext(ctx, "job lock unavailable, running unlocked", log.String("job", ExpiryJobName), log.Error(err))
		} else if !acquired {
			j.logger.Debug("job already running elsewhere", log.String("job", ExpiryJobName))
			return false, nil
		} else {
			defer func() {
				if err := j.cache.Unlock(context.WithoutCancel(ctx), expiryLockKey); err != nil {
					j.logger.WarnContext(ctx, "failed to release job lock", log.String("job", ExpiryJobName), log.Error(err))
				}
			}()
		}
	}

	start := time.Now()
	expired, err := j.expirer.ExpireEnded(ctx)
	j.metrics.JobRun(ExpiryJobName, err)
	if err != nil {
		j.logger.ErrorContext(ctx, "advertisement expiry failed",
			log.String("job", ExpiryJobName),
			log.Int("expired", expired),
			log.Error(err),
		)
		return true, err
	}
	if expired > 0 {
		j.logger.InfoContext(ctx, "advertisements expired",
			log.String("job", ExpiryJobName),
			log.Int("expired", expired),
			log.Duration("took", time.Since(start)),
		)
	}
	return true, nil
}
