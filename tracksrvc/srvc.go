package tracksrvc

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JudgeClient is the boundary to the remote judge consumed by
// the tracker: submit raises on non-success status, query
// returns nil without error while the status is not yet
// available.
type JudgeClient interface {
	SubmitJob(ctx context.Context, req Request, trackId string) (remoteId string, err error)
	QueryJobStatus(ctx context.Context, remoteId string) (*JobResult, error)
}

const (
	DefaultPollInterval  = time.Second
	DefaultHangThreshold = 10 * time.Second
)

// TrackSrvc is the public entry point: it submits jobs to the
// remote judge and reconciles result delivery from the push
// channel and the poll loop into a single at-least-once
// callback stream.
type TrackSrvc struct {
	logger *slog.Logger

	client  JudgeClient
	reg     *Registry
	results ResultRepo
	proc    *Processor
	push    *PushChan

	pollCancel context.CancelFunc
	pollWait   sync.WaitGroup

	lock    sync.Mutex
	stopped bool
}

// NewTrackSrvc creates a tracker with the default poll
// interval and hang threshold and an in-memory result repo.
func NewTrackSrvc(
	client JudgeClient,
	dial Dialer,
	cb Callback,
) *TrackSrvc {
	logger := slog.Default().With(
		"module",
		"track",
	)
	return NewCustomTrackSrvc(
		logger,
		client,
		dial,
		cb,
		NewInMemResultRepo(),
		DefaultPollInterval,
		DefaultHangThreshold,
	)
}

// NewCustomTrackSrvc creates a tracker with provided
// dependencies and timing parameters.
func NewCustomTrackSrvc(
	logger *slog.Logger,
	client JudgeClient,
	dial Dialer,
	cb Callback,
	results ResultRepo,
	pollInterval time.Duration,
	hangThreshold time.Duration,
) *TrackSrvc {
	reg := NewRegistry()
	proc := NewProcessor(logger, reg, results, cb)
	push := NewPushChan(logger, dial, reg, proc)

	t := &TrackSrvc{
		logger:  logger,
		client:  client,
		reg:     reg,
		results: results,
		proc:    proc,
		push:    push,
	}

	poll := NewPollLoop(
		logger,
		reg,
		proc,
		client,
		pollInterval,
		hangThreshold,
	)
	ctx, cancel := context.WithCancel(context.Background())
	t.pollCancel = cancel
	t.pollWait.Add(1)
	go func() {
		defer t.pollWait.Done()
		poll.Run(ctx)
	}()

	return t
}

// Submit sends the job to the remote judge and starts tracking
// it. The returned correlation id matches the one passed to
// the progress callback. A failed submit leaves no partial
// registry entry behind.
func (t *TrackSrvc) Submit(
	ctx context.Context,
	req Request,
) (string, error) {
	t.lock.Lock()
	stopped := t.stopped
	t.lock.Unlock()
	if stopped {
		return "", ErrTrackerStopped()
	}

	err := req.IsValid()
	if err != nil {
		return "", err
	}

	jobId := uuid.New().String()
	remoteId, err := t.client.SubmitJob(ctx, req, jobId)
	if err != nil {
		return "", fmt.Errorf("failed to submit job: %w", err)
	}

	t.reg.Put(TrackEntry{
		JobId:        jobId,
		RemoteId:     remoteId,
		LastProgress: time.Now(),
	})
	t.push.EnsureActive()

	return jobId, nil
}

// InFlight returns the correlation ids of jobs still being
// tracked.
func (t *TrackSrvc) InFlight() []string {
	return t.reg.Ids()
}

// IsInFlight reports whether the job is still being tracked.
func (t *TrackSrvc) IsInFlight(jobId string) bool {
	_, ok := t.reg.Get(jobId)
	return ok
}

// Result returns the archived terminal result of a finished
// job.
func (t *TrackSrvc) Result(jobId string) (JobResult, error) {
	return t.results.Get(jobId)
}

// Stop shuts the tracker down: the push channel is closed, the
// poll loop is cancelled and still-in-flight jobs are
// abandoned. Submit fails fast afterwards.
func (t *TrackSrvc) Stop() {
	t.lock.Lock()
	if t.stopped {
		t.lock.Unlock()
		return
	}
	t.stopped = true
	t.lock.Unlock()

	t.logger.Info("stopping job tracker")
	t.push.Stop()
	t.pollCancel()
	t.pollWait.Wait()
	t.logger.Info("job tracker stopped")
}
