package tracksrvc

import "time"

// user submitted solution
type Request struct {
	ProblemId string // remote problem identifier
	SrcCode   string // user submitted solution source code
	LangId    string // short compiler, interpreter id
	EnableO2  bool   // request -O2 compilation on the judge
}

func (r *Request) IsValid() error {
	if r.ProblemId == "" {
		return ErrEmptyProblemId()
	}
	if r.SrcCode == "" {
		return ErrEmptySourceCode()
	}
	if len(r.SrcCode) > 128*1024 { // 128 KiB
		return ErrSourceCodeTooLarge()
	}
	if r.LangId == "" {
		return ErrEmptyLangId()
	}
	return nil
}

// TrackEntry is the per-job bookkeeping held while a
// submission is in flight. The registry owns entries; other
// components only see value copies.
type TrackEntry struct {
	JobId        string    // client-generated correlation id
	RemoteId     string    // handle returned by the judge at submit time
	LastProgress time.Time // last observed progress from either channel
}

// JobResult is a snapshot of a job's status as reported by the
// judge, over either the push or the pull channel. Both stages
// are optional; a result with neither stage is still in flight.
type JobResult struct {
	Compile *CompileRes `json:"compile,omitempty"`
	Judge   *JudgeRes   `json:"judge,omitempty"`
}

// IsTerminal reports whether the result is final: a failed
// compilation, or an execution stage with a final verdict.
func (r JobResult) IsTerminal() bool {
	if r.Compile != nil && !r.Compile.Success {
		return true
	}
	if r.Judge != nil && r.Judge.Status.IsTerminal() {
		return true
	}
	return false
}

type CompileRes struct {
	Success bool   `json:"success"`
	Message string `json:"message"` // compiler diagnostics
	Opt2    bool   `json:"opt2"`    // -O2 flag echoed back by the judge
}

type JudgeRes struct {
	Status   Status       `json:"status"`
	Score    int          `json:"score"`
	CpuMs    int64        `json:"cpu_ms"`
	MemKiB   int64        `json:"mem_kib"`
	Subtasks []SubtaskRes `json:"subtasks,omitempty"`
}

type SubtaskRes struct {
	Status Status    `json:"status"`
	Score  int       `json:"score"`
	CpuMs  int64     `json:"cpu_ms"`
	MemKiB int64     `json:"mem_kib"`
	Cases  []CaseRes `json:"cases,omitempty"`
}

type CaseRes struct {
	Status      Status `json:"status"`
	Score       int    `json:"score"`
	CpuMs       int64  `json:"cpu_ms"`
	MemKiB      int64  `json:"mem_kib"`
	ExitSignal  *int64 `json:"signal,omitempty"`
	ExitCode    *int64 `json:"exit_code,omitempty"`
	Description string `json:"description,omitempty"`
}
