package job

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubDispatcher struct {
	calls   atomic.Int32
	err     error
	release chan struct{}
	entered chan struct{}
}

func (s *stubDispatcher) TriggerDispatch(ctx context.Context) error {
	s.calls.Add(1)
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	return s.err
}

func TestDispatchJob_Triggers(t *testing.T) {
	d := &stubDispatcher{}
	job := NewDispatchJob(d, time.Second)

	job.TriggerDispatch()
	job.TriggerDispatch()

	assert.Equal(t, int32(2), d.calls.Load())
}

func TestDispatchJob_ErrorIsSwallowed(t *testing.T) {
	d := &stubDispatcher{err: errors.New("backend down")}
	job := NewDispatchJob(d, 0)

	assert.NotPanics(t, job.TriggerDispatch)
	assert.Equal(t, int32(1), d.calls.Load())
}

func TestDispatchJob_SkipsOverlappingTick(t *testing.T) {
	d := &stubDispatcher{release: make(chan struct{}), entered: make(chan struct{}, 1)}
	job := NewDispatchJob(d, time.Second)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		job.TriggerDispatch()
	}()

	<-d.entered
	job.TriggerDispatch()
	close(d.release)
	wg.Wait()

	assert.Equal(t, int32(1), d.calls.Load())
}
