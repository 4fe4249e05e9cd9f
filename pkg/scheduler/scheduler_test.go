package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"radio-cms/pkg/log"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsAndStops(t *testing.T) {
	s := New(log.NewNopLogger())
	var runs atomic.Int32
	require.NoError(t, s.Add("tick", "@every 10ms", cron.FuncJob(func() { runs.Add(1) })))
	assert.Equal(t, 1, s.Len())

	s.Start()
	require.Eventually(t, func() bool { return runs.Load() > 0 }, 2*time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestScheduler_RejectsBadSpec(t *testing.T) {
	s := New(nil)
	assert.Error(t, s.Add("bad", "every minute", cron.FuncJob(func() {})))
	assert.Zero(t, s.Len())
}

func TestScheduler_RecoversPanics(t *testing.T) {
	s := New(log.NewNopLogger())
	var after atomic.Int32
	require.NoError(t, s.Add("boom", "@every 10ms", cron.FuncJob(func() {
		after.Add(1)
		panic("boom")
	})))

	s.Start()
	require.Eventually(t, func() bool { return after.Load() > 1 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))
}
