package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakePruner struct {
	calls atomic.Int32
	at    time.Time
}

func (f *fakePruner) PruneRevoked(now time.Time) int {
	f.calls.Add(1)
	f.at = now
	return 2
}

func TestRunOnce(t *testing.T) {
	s := NewScheduler()

	var ran []string
	s.AddJob("first", time.Hour, func(ctx context.Context) error {
		ran = append(ran, "first")
		return nil
	})
	s.AddJob("failing", time.Hour, func(ctx context.Context) error {
		ran = append(ran, "failing")
		return errors.New("boom")
	})

	s.RunOnce(context.Background())
	assert.Equal(t, []string{"first", "failing"}, ran)
}

func TestStartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()

	var runs atomic.Int32
	done := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		if runs.Add(1) == 1 {
			done <- struct{}{}
		}
		return nil
	})

	s.Start(context.Background())
	s.Start(context.Background()) // second start is ignored

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}

	s.Stop()
	assert.Equal(t, int32(1), runs.Load())
}

func TestTokenJobs(t *testing.T) {
	pruner := &fakePruner{}
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	jobs := NewTokenJobs(pruner, func() time.Time { return fixed })

	s := NewScheduler()
	jobs.RegisterJobs(s)
	s.RunOnce(context.Background())

	assert.Equal(t, int32(1), pruner.calls.Load())
	assert.Equal(t, fixed, pruner.at)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, jobs.PruneRevokedTokens(ctx), context.Canceled)
}
