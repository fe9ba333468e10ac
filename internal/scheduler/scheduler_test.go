package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingReindexer struct {
	calls int
	err   error
}

func (r *countingReindexer) Reindex(ctx context.Context) error {
	r.calls++
	return r.err
}

func TestRegisterAndRunByName(t *testing.T) {
	s := NewScheduler(time.Second)
	reindexer := &countingReindexer{}

	if err := s.Register(NewReindexJob(reindexer, "@daily")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if got := s.Jobs(); len(got) != 1 || got[0] != "community-search-reindex" {
		t.Fatalf("unexpected jobs: %v", got)
	}

	if err := s.RunByName(context.Background(), "community-search-reindex"); err != nil {
		t.Fatalf("RunByName: %v", err)
	}
	if reindexer.calls != 1 {
		t.Errorf("expected one reindex, got %d", reindexer.calls)
	}

	if err := s.RunByName(context.Background(), "missing"); err == nil {
		t.Error("expected error for unknown job")
	}
}

func TestRegisterInvalidSchedule(t *testing.T) {
	s := NewScheduler(0)
	if err := s.Register(NewReindexJob(&countingReindexer{}, "not a cron")); err == nil {
		t.Fatal("expected schedule parse error")
	}
	if len(s.Jobs()) != 0 {
		t.Error("invalid job should not be registered")
	}
}

func TestOnDemandJob(t *testing.T) {
	s := NewScheduler(0)
	reindexer := &countingReindexer{err: errors.New("meili down")}
	if err := s.Register(NewReindexJob(reindexer, "")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// failures are logged, not propagated
	s.run(s.jobs[0])
	if reindexer.calls != 1 {
		t.Errorf("expected one call, got %d", reindexer.calls)
	}
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(0)
	if err := s.Register(NewReindexJob(&countingReindexer{}, "@every 1h")); err != nil {
		t.Fatal(err)
	}
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	if ctx.Err() != nil {
		t.Error("stop should return before the deadline with no running jobs")
	}
}
