package tracksrvc

import (
	"log/slog"
	"sync"
)

// Callback receives every delivered progress update for a
// tracked job. Delivery is at-least-once: duplicate terminal
// results arriving over both channels each reach the callback,
// so callers must tolerate repeated terminal notifications.
type Callback func(jobId string, res JobResult)

// Processor applies the completion state machine to incoming
// job results, from either the push or the pull channel.
type Processor struct {
	logger  *slog.Logger
	reg     *Registry
	results ResultRepo
	cb      Callback

	lock sync.Mutex // serializes Process calls
}

func NewProcessor(
	logger *slog.Logger,
	reg *Registry,
	results ResultRepo,
	cb Callback,
) *Processor {
	return &Processor{
		logger:  logger,
		reg:     reg,
		results: results,
		cb:      cb,
	}
}

// Process handles one delivered result snapshot:
//  1. unknown correlation ids are discarded (the job already
//     finished, or the frame belongs to someone else);
//  2. the callback fires unconditionally for known ids, so the
//     caller always sees the terminal payload;
//  3. terminal results evict the entry and archive the result;
//  4. non-terminal results refresh the entry's last-progress
//     timestamp, postponing the next poll.
//
// Correct under arbitrary interleaving of the two channels:
// duplicate or out-of-order terminal deliveries hit case 1 on
// the second pass and are no-ops beyond the callback.
func (p *Processor) Process(jobId string, res JobResult) {
	p.lock.Lock()
	defer p.lock.Unlock()

	_, ok := p.reg.Get(jobId)
	if !ok {
		// A finished job still has its result archived, which
		// tells a duplicate terminal delivery apart from a
		// foreign id. Duplicates still reach the callback
		// (at-least-once); foreign ids are fully discarded.
		if _, err := p.results.Get(jobId); err == nil {
			p.cb(jobId, res)
			return
		}
		p.logger.Debug(
			"result for unknown job discarded",
			"job_id", jobId,
		)
		return
	}

	p.cb(jobId, res)

	if res.IsTerminal() {
		p.reg.Remove(jobId)
		err := p.results.Save(jobId, res)
		if err != nil {
			p.logger.Error(
				"failed to archive job result",
				"job_id", jobId,
				"error", err,
			)
		}
		return
	}

	p.reg.Touch(jobId)
}
