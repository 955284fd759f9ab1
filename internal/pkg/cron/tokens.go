package cron

import (
	"context"
	"log/slog"
	"time"
)

// TokenPruner is the part of the JWT service the prune job needs.
type TokenPruner interface {
	PruneRevoked(now time.Time) int
}

type TokenJobs struct {
	pruner TokenPruner
	now    func() time.Time
}

func NewTokenJobs(pruner TokenPruner, now func() time.Time) *TokenJobs {
	if now == nil {
		now = time.Now
	}
	return &TokenJobs{pruner: pruner, now: now}
}

func (j *TokenJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("prune_revoked_tokens", 1*time.Hour, j.PruneRevokedTokens)
}

// PruneRevokedTokens drops revocations of tokens that have already expired.
func (j *TokenJobs) PruneRevokedTokens(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n := j.pruner.PruneRevoked(j.now()); n > 0 {
		slog.Info("Cron: pruned revoked tokens", "count", n)
	}
	return nil
}
