package tracksrvc

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// PollLoop is the pull-channel backstop: a recurring tick that
// actively queries the judge for every entry whose push
// updates have gone silent for longer than the hang threshold.
// Push delivery is advisory; this loop alone is enough to
// drive every tracked job to completion.
type PollLoop struct {
	logger *slog.Logger
	reg    *Registry
	proc   *Processor
	client JudgeClient

	interval      time.Duration
	hangThreshold time.Duration
}

func NewPollLoop(
	logger *slog.Logger,
	reg *Registry,
	proc *Processor,
	client JudgeClient,
	interval time.Duration,
	hangThreshold time.Duration,
) *PollLoop {
	return &PollLoop{
		logger:        logger,
		reg:           reg,
		proc:          proc,
		client:        client,
		interval:      interval,
		hangThreshold: hangThreshold,
	}
}

// Run ticks until ctx is cancelled. A tick's queries all
// finish before the next tick is considered.
func (l *PollLoop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.tick(ctx)
		}
	}
}

// tick snapshots the registry and queries every stale entry.
// Queries run concurrently and independently; a single failure
// is logged and never affects other entries or future ticks.
func (l *PollLoop) tick(ctx context.Context) {
	wg := &sync.WaitGroup{}
	for _, id := range l.reg.Ids() {
		entry, ok := l.reg.Get(id)
		if !ok {
			continue // finished between snapshot and lookup
		}
		if time.Since(entry.LastProgress) < l.hangThreshold {
			continue // push updates are still timely
		}
		wg.Add(1)
		go func(entry TrackEntry) {
			defer wg.Done()
			l.query(ctx, entry)
		}(entry)
	}
	wg.Wait()
}

func (l *PollLoop) query(ctx context.Context, entry TrackEntry) {
	res, err := l.client.QueryJobStatus(ctx, entry.RemoteId)
	if err != nil {
		l.logger.Error(
			"failed to query job status",
			"job_id", entry.JobId,
			"remote_id", entry.RemoteId,
			"error", err,
		)
		return
	}
	if res == nil {
		return // status not yet available
	}
	l.proc.Process(entry.JobId, *res)
}
