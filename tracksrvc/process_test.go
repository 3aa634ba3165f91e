package tracksrvc

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// recorder collects callback invocations for assertions.
type recorder struct {
	lock  sync.Mutex
	calls []recordedCall
}

type recordedCall struct {
	jobId string
	res   JobResult
}

func (r *recorder) callback(jobId string, res JobResult) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.calls = append(r.calls, recordedCall{jobId: jobId, res: res})
}

func (r *recorder) count() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.calls)
}

func newTestProcessor() (*Processor, *Registry, *InMemResultRepo, *recorder) {
	reg := NewRegistry()
	results := NewInMemResultRepo()
	rec := &recorder{}
	proc := NewProcessor(slog.Default(), reg, results, rec.callback)
	return proc, reg, results, rec
}

func acceptedResult() JobResult {
	return JobResult{
		Compile: &CompileRes{Success: true},
		Judge:   &JudgeRes{Status: Accepted, Score: 100},
	}
}

func judgingResult() JobResult {
	return JobResult{
		Compile: &CompileRes{Success: true},
		Judge:   &JudgeRes{Status: Judging},
	}
}

func TestProcessTerminalRemovesEntryAndArchives(t *testing.T) {
	proc, reg, results, rec := newTestProcessor()
	reg.Put(TrackEntry{JobId: "a", RemoteId: "r-a", LastProgress: time.Now()})

	proc.Process("a", acceptedResult())

	require.Equal(t, 1, rec.count())
	_, ok := reg.Get("a")
	require.False(t, ok)

	archived, err := results.Get("a")
	require.NoError(t, err)
	require.Equal(t, acceptedResult(), archived)
}

func TestProcessNonTerminalTouchesEntry(t *testing.T) {
	proc, reg, _, rec := newTestProcessor()
	past := time.Now().Add(-time.Minute)
	reg.Put(TrackEntry{JobId: "a", RemoteId: "r-a", LastProgress: past})

	proc.Process("a", judgingResult())

	require.Equal(t, 1, rec.count())
	entry, ok := reg.Get("a")
	require.True(t, ok)
	require.True(t, entry.LastProgress.After(past))
}

func TestProcessUnknownIdIsDiscarded(t *testing.T) {
	proc, _, _, rec := newTestProcessor()

	require.NotPanics(t, func() {
		proc.Process("nobody", acceptedResult())
	})
	require.Equal(t, 0, rec.count())
}

func TestProcessDuplicateTerminalDelivery(t *testing.T) {
	proc, reg, _, rec := newTestProcessor()
	reg.Put(TrackEntry{JobId: "a", RemoteId: "r-a", LastProgress: time.Now()})

	// simulate the same terminal payload arriving over both
	// the push and the poll channel
	proc.Process("a", acceptedResult())
	proc.Process("a", acceptedResult())

	// one removal, two callback invocations (at-least-once)
	require.Equal(t, 2, rec.count())
	_, ok := reg.Get("a")
	require.False(t, ok)
}

func TestProcessCompileErrorIsTerminal(t *testing.T) {
	proc, reg, results, rec := newTestProcessor()
	reg.Put(TrackEntry{JobId: "a", RemoteId: "r-a", LastProgress: time.Now()})

	res := JobResult{
		Compile: &CompileRes{Success: false, Message: "expected ';'"},
	}
	proc.Process("a", res)

	require.Equal(t, 1, rec.count())
	_, ok := reg.Get("a")
	require.False(t, ok)
	_, err := results.Get("a")
	require.NoError(t, err)
}
