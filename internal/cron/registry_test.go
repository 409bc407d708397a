package cron

import (
	"context"
	"testing"
	"time"
)

type stubJob struct {
	name     string
	interval time.Duration
}

func (s *stubJob) Name() string            { return s.name }
func (s *stubJob) Interval() time.Duration { return s.interval }

func (s *stubJob) Run(context.Context) error { return nil }

func TestRegistryStoresJobs(t *testing.T) {
	registry := NewRegistry()
	jobA := &stubJob{name: "a", interval: time.Minute}
	jobB := &stubJob{name: "b", interval: time.Minute}
	if err := registry.Register(jobA); err != nil {
		t.Fatalf("register a: %v", err)
	}
	if err := registry.Register(jobB); err != nil {
		t.Fatalf("register b: %v", err)
	}
	jobs := registry.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0] != jobA || jobs[1] != jobB {
		t.Fatalf("jobs returned out of order")
	}
}

func TestRegistryRejectsInvalidJobs(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected error for nil job")
	}
	if err := registry.Register(&stubJob{name: "", interval: time.Minute}); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := registry.Register(&stubJob{name: "x", interval: 0}); err == nil {
		t.Fatalf("expected error for non-positive interval")
	}
	if err := registry.Register(&stubJob{name: "dup", interval: time.Minute}); err != nil {
		t.Fatalf("register dup: %v", err)
	}
	if err := registry.Register(&stubJob{name: "dup", interval: time.Minute}); err == nil {
		t.Fatalf("expected error for duplicate name")
	}
}
