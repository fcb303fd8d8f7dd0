// Package gesture runs the long-lived musical gestures a pad can start: arpeggios, chord strums
// and pitch ramps. Each arpeggio or chord runs on its own goroutine and is addressed by a
// gesture identifier until its end message arrives.
package gesture

import (
	"context"
	"errors"
	"sync"

	"github.com/leandrodaf/vpadserver/sdk/contracts"
)

// ErrClosed is returned when a gesture is started after the registry was closed.
var ErrClosed = errors.New("gesture registry closed")

// Registry maps gesture identifiers to the cancel function of their running task.
//
// Starting a task under an identifier that is already in use replaces the entry without
// stopping the previous task; callers send an explicit stop first when they want a restart.
// Replaced tasks keep running until they end on their own or the registry is closed.
type Registry struct {
	mu     sync.Mutex
	tasks  map[string]*task
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	log contracts.Logger
}

type task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry(log contracts.Logger) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		tasks:  make(map[string]*task),
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}
}

// Start runs fn on a new goroutine registered under id. The context passed to fn is done once
// the task is stopped or the registry closed.
func (r *Registry) Start(id string, fn func(ctx context.Context)) error {
	ctx, cancel := context.WithCancel(r.ctx)
	t := &task{cancel: cancel, done: make(chan struct{})}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		cancel()
		return ErrClosed
	}
	_, replaced := r.tasks[id]
	r.tasks[id] = t
	r.wg.Add(1)
	r.mu.Unlock()

	if replaced {
		r.log.Warn("Gesture restarted without stop, previous task left running",
			r.log.Field().String("gesture", id))
	}

	go func() {
		defer r.wg.Done()
		defer close(t.done)
		defer cancel()
		defer r.forget(id, t)
		fn(ctx)
	}()
	return nil
}

// Stop cancels the task registered under id and reports whether there was one.
// Stopping an unknown or finished gesture is a no-op.
func (r *Registry) Stop(id string) bool {
	t := r.remove(id)
	if t == nil {
		return false
	}
	t.cancel()
	return true
}

// StopWait is Stop, but returns only once the task has returned, so nothing it sends can
// follow what the caller sends next.
func (r *Registry) StopWait(id string) bool {
	t := r.remove(id)
	if t == nil {
		return false
	}
	t.cancel()
	<-t.done
	return true
}

func (r *Registry) remove(id string) *task {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.tasks[id]
	delete(r.tasks, id)
	return t
}

// Len returns the number of registered gestures.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// Close cancels every task, including replaced ones, and waits for them to return.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	clear(r.tasks)
	r.mu.Unlock()

	r.cancel()
	r.wg.Wait()
}

// forget drops the entry for id if it still belongs to t.
func (r *Registry) forget(id string, t *task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tasks[id] == t {
		delete(r.tasks, id)
	}
}
