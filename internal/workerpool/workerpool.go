// Package workerpool runs a fixed-size pool of goroutines draining a shared
// task channel, supervised by a tomb.Tomb so a worker's error (or the
// tomb dying) tears every worker down cleanly.
//
// Adapted from the teacher's internal/worker.go (package server,
// WorkerPool/NewWorkerPool/Setup/worker), generalized from a single
// hand-rolled connection-handling func to any Task/Handler pair, and fixed
// to size its active-worker bookkeeping with atomics instead of the
// teacher's unsynchronized activeWorkers++/-- read from multiple goroutines.
package workerpool

import (
	"sync/atomic"

	"github.com/rs/zerolog"
	tomb "gopkg.in/tomb.v2"
)

const defaultTaskChanSize = 100

// Handler processes one task. A non-nil error kills the whole pool via the
// owning tomb, matching spec.md §5's supervision model: a worker failure is
// fatal to the worker group, not silently swallowed.
type Handler func(t *tomb.Tomb, task any) error

// Pool is a fixed-size worker pool over a shared task channel.
type Pool struct {
	size  int
	tasks chan any
	log   zerolog.Logger

	active atomic.Int32
}

// New constructs a Pool with size workers and a task queue of the given
// capacity (0 uses defaultTaskChanSize).
func New(size, queueCapacity int, log zerolog.Logger) *Pool {
	if queueCapacity <= 0 {
		queueCapacity = defaultTaskChanSize
	}
	return &Pool{
		size:  size,
		tasks: make(chan any, queueCapacity),
		log:   log,
	}
}

// AddTask enqueues task for a worker to pick up. Blocks if the queue is full.
func (p *Pool) AddTask(task any) {
	p.tasks <- task
}

// Run starts size workers under t, each looping on handle until t dies.
// Run itself blocks until t starts dying, so callers invoke it via t.Go.
func (p *Pool) Run(t *tomb.Tomb, handle Handler) {
	p.log.Info().Int("workers", p.size).Msg("starting worker pool")
	for i := 0; i < p.size; i++ {
		t.Go(func() error {
			return p.worker(t, handle)
		})
	}
	<-t.Dying()
}

func (p *Pool) worker(t *tomb.Tomb, handle Handler) error {
	p.active.Add(1)
	defer p.active.Add(-1)

	for {
		select {
		case <-t.Dying():
			return nil
		case task := <-p.tasks:
			if err := handle(t, task); err != nil {
				p.log.Error().Err(err).Msg("worker exiting on task error")
				return err
			}
		}
	}
}

// Active reports how many workers are currently running (started and not
// yet exited).
func (p *Pool) Active() int { return int(p.active.Load()) }
