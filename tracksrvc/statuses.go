package tracksrvc

// Status is the closed set of job states reported by the remote judge.
type Status string

const (
	Waiting Status = "W"
	Judging Status = "J"

	CompileError        Status = "CE"
	OutputLimitExceeded Status = "OLE"
	MemoryLimitExceeded Status = "MLE"
	TimeLimitExceeded   Status = "TLE"
	WrongAnswer         Status = "WA"
	RuntimeError        Status = "RE"
	Invalid             Status = "IV"
	Accepted            Status = "AC"
	Unaccepted          Status = "UNAC"
)

// IsTerminal reports whether the status is a final verdict.
// Waiting and Judging are the only states that can still change.
func (s Status) IsTerminal() bool {
	switch s {
	case Waiting, Judging:
		return false
	case CompileError, OutputLimitExceeded, MemoryLimitExceeded,
		TimeLimitExceeded, WrongAnswer, RuntimeError,
		Invalid, Accepted, Unaccepted:
		return true
	}
	return false
}
