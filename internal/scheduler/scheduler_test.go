package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type fakeEvicter struct {
	calls atomic.Int32
}

func (f *fakeEvicter) EvictExpired(context.Context) (int, error) {
	f.calls.Add(1)
	return 1, nil
}

func TestRunOnce(t *testing.T) {
	ev := &fakeEvicter{}
	s := New(ev, time.Minute)

	s.RunOnce()

	if got := ev.calls.Load(); got != 1 {
		t.Errorf("expected 1 eviction call, got %d", got)
	}
}

func TestStartRunsEvictionPeriodically(t *testing.T) {
	ev := &fakeEvicter{}
	s := New(ev, 100*time.Millisecond)

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for ev.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := ev.calls.Load(); got < 2 {
		t.Errorf("expected at least 2 eviction runs, got %d", got)
	}
}

func TestStartWithoutEvicter(t *testing.T) {
	s := New(nil, time.Minute)
	if err := s.Start(); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	s.Stop()
}
