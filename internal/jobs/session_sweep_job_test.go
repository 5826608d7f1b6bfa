package job

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubSweeper struct {
	gotIdle time.Duration
	open    int
}

func (s *stubSweeper) Sweep(maxIdle time.Duration) int {
	s.gotIdle = maxIdle
	s.open = 1
	return 2
}

func (s *stubSweeper) Len() int { return s.open }

func TestSessionSweepJob(t *testing.T) {
	sweeper := &stubSweeper{open: 3}
	reported := -1
	job := NewSessionSweepJob(sweeper, 15*time.Minute, func(open int) { reported = open })

	job.SweepIdleComposers()

	assert.Equal(t, 15*time.Minute, sweeper.gotIdle)
	assert.Equal(t, 1, reported)
}

func TestSessionSweepJob_NoReporter(t *testing.T) {
	job := NewSessionSweepJob(&stubSweeper{}, time.Minute, nil)
	assert.NotPanics(t, job.SweepIdleComposers)
}
