package gesture

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leandrodaf/vpadserver/internal/logger"
)

func waitClosed(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestRegistryStopCancelsTask(t *testing.T) {
	r := NewRegistry(logger.NewNopLogger())
	defer r.Close()

	done := make(chan struct{})
	if err := r.Start("peer#60", func(ctx context.Context) {
		<-ctx.Done()
		close(done)
	}); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 1 {
		t.Fatalf("len = %d", r.Len())
	}
	if !r.Stop("peer#60") {
		t.Fatal("stop should report the running task")
	}
	waitClosed(t, done, "task to observe cancellation")
	if r.Len() != 0 {
		t.Fatalf("len after stop = %d", r.Len())
	}
}

func TestRegistryStopWaitReturnsAfterTask(t *testing.T) {
	r := NewRegistry(logger.NewNopLogger())
	defer r.Close()

	var returned atomic.Bool
	started := make(chan struct{})
	if err := r.Start("peer#60", func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		time.Sleep(20 * time.Millisecond)
		returned.Store(true)
	}); err != nil {
		t.Fatal(err)
	}
	waitClosed(t, started, "task to start")

	if !r.StopWait("peer#60") {
		t.Fatal("stop should report the running task")
	}
	if !returned.Load() {
		t.Fatal("StopWait returned while the task was still running")
	}
	if r.StopWait("peer#60") {
		t.Fatal("second stop must be a no-op")
	}
}

func TestRegistryStopUnknownIsNoop(t *testing.T) {
	r := NewRegistry(logger.NewNopLogger())
	defer r.Close()

	if r.Stop("nobody#1") {
		t.Fatal("stop of an unknown gesture must report false")
	}
	if r.Stop("nobody#1") {
		t.Fatal("second stop must be a no-op as well")
	}
}

func TestRegistryReplaceLeavesPreviousTaskRunning(t *testing.T) {
	r := NewRegistry(logger.NewNopLogger())

	firstDone := make(chan struct{})
	secondDone := make(chan struct{})
	_ = r.Start("peer#60", func(ctx context.Context) {
		<-ctx.Done()
		close(firstDone)
	})
	_ = r.Start("peer#60", func(ctx context.Context) {
		<-ctx.Done()
		close(secondDone)
	})

	if r.Len() != 1 {
		t.Fatalf("expected one entry after replacing, got %d", r.Len())
	}

	r.Stop("peer#60")
	waitClosed(t, secondDone, "replacing task to stop")

	select {
	case <-firstDone:
		t.Fatal("replaced task must keep running after stop")
	case <-time.After(20 * time.Millisecond):
	}

	r.Close()
	waitClosed(t, firstDone, "orphaned task to stop on close")
}

func TestRegistryFinishedTaskForgetsItself(t *testing.T) {
	r := NewRegistry(logger.NewNopLogger())
	defer r.Close()

	done := make(chan struct{})
	_ = r.Start("peer#64", func(context.Context) { close(done) })
	waitClosed(t, done, "task to finish")

	deadline := time.Now().Add(time.Second)
	for r.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if r.Len() != 0 {
		t.Fatal("finished task should remove its entry")
	}
}

func TestRegistryStartAfterClose(t *testing.T) {
	r := NewRegistry(logger.NewNopLogger())
	r.Close()

	err := r.Start("peer#60", func(context.Context) { t.Error("must not run") })
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
