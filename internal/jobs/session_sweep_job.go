package job

import (
	"time"
)

// Sweeper drops composer sessions that have been idle for too long.
type Sweeper interface {
	Sweep(maxIdle time.Duration) int
	Len() int
}

type SessionSweepJob struct {
	sweeper Sweeper
	maxIdle time.Duration
	report  func(open int)
}

// NewSessionSweepJob builds the sweep; report, when set, receives the number
// of sessions still open after each run.
func NewSessionSweepJob(sweeper Sweeper, maxIdle time.Duration, report func(open int)) *SessionSweepJob {
	return &SessionSweepJob{sweeper: sweeper, maxIdle: maxIdle, report: report}
}

func (j *SessionSweepJob) SweepIdleComposers() {
	j.sweeper.Sweep(j.maxIdle)
	if j.report != nil {
		j.report(j.sweeper.Len())
	}
}
