package pipeline

import (
	"context"
	"testing"
	"time"
)

func waitFor(t *testing.T, job *Job, want JobStatus) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if job.Snapshot().Status == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s: expected status %q, got %q", job.ID, want, job.Snapshot().Status)
}

func TestOrchestrator_ProcessesJobs(t *testing.T) {
	o := NewOrchestrator(testConfig(), nil)
	o.Start(context.Background())
	defer o.Stop()

	good := NewJob("manual.html", []byte(manual))
	bad := NewJob("notes.pdf", []byte("%PDF"))
	for _, job := range []*Job{good, bad} {
		if err := o.Submit(job); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	waitFor(t, good, StatusCompleted)
	waitFor(t, bad, StatusFailed)

	if o.GetJob(good.ID) != good {
		t.Error("expected job to be retrievable")
	}
	if o.Stats().Snapshot().Count != 1 {
		t.Errorf("expected one recorded build, got %+v", o.Stats().Snapshot())
	}
	if bad.Snapshot().Phase != "parsing" {
		t.Errorf("expected parse failure, got phase %q", bad.Snapshot().Phase)
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := testConfig()
	cfg.MaxQueueSize = 1
	o := NewOrchestrator(cfg, nil)
	// Not started: nothing drains the queue.

	if err := o.Submit(NewJob("a.html", []byte("<h1>A</h1>"))); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second := NewJob("b.html", []byte("<h1>B</h1>"))
	if err := o.Submit(second); err == nil {
		t.Fatal("expected queue full error")
	}
	if snap := second.Snapshot(); snap.Status != StatusFailed || snap.Phase != "queue_full" {
		t.Errorf("unexpected status %q/%q", snap.Status, snap.Phase)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
}

func TestCleanupInterval(t *testing.T) {
	if got := cleanupInterval(time.Second); got != time.Second {
		t.Errorf("got %s", got)
	}
	if got := cleanupInterval(time.Hour); got != 5*time.Minute {
		t.Errorf("got %s", got)
	}
}
