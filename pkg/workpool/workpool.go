// Package workpool implements a fixed set of worker goroutines draining a
// bounded job queue guarded by a mutex and two condition variables, rather
// than an unbounded Go channel, so Submit can report back-pressure.
package workpool

import (
	"sync"

	"github.com/kestrelrender/tracecore/pkg/tlog"
)

var log = tlog.New("workpool")

// DefaultWorkers is the worker count used when the caller doesn't ask for
// runtime.NumCPU() explicitly.
const DefaultWorkers = 8

// DefaultCapacity is the default bound on queued jobs.
const DefaultCapacity = 32

// Job is a unit of work: a row-rendering closure plus the row index it
// operates on and the generation it was submitted under.
type Job struct {
	Fn         func(arg int)
	Arg        int
	Generation uint64
}

// Pool is a bounded producer/consumer job queue served by a fixed set of
// worker goroutines.
type Pool struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	queue    []Job
	capacity int

	currentGeneration uint64
	stopped           bool
	wg                sync.WaitGroup
}

// New starts numWorkers goroutines serving a queue bounded at capacity. A
// numWorkers <= 0 falls back to DefaultWorkers; a capacity <= 0 falls back to
// DefaultCapacity.
func New(numWorkers, capacity int) *Pool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	p := &Pool{capacity: capacity}
	p.notEmpty = sync.NewCond(&p.mu)
	p.notFull = sync.NewCond(&p.mu)

	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	log.Debugf("started pool: workers=%d capacity=%d", numWorkers, capacity)
	return p
}

// SetGeneration advances the current generation. Queued jobs submitted under
// an older generation are discarded on dequeue; jobs already running are not
// interrupted.
func (p *Pool) SetGeneration(generation uint64) {
	p.mu.Lock()
	p.currentGeneration = generation
	p.mu.Unlock()
	log.Noticef("generation advanced to %d", generation)
}

// Submit enqueues a job, returning false without blocking if the queue is
// full. The caller should back off and retry.
func (p *Pool) Submit(fn func(arg int), arg int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return false
	}
	if len(p.queue) >= p.capacity {
		return false
	}

	p.queue = append(p.queue, Job{Fn: fn, Arg: arg, Generation: p.currentGeneration})
	p.notEmpty.Signal()
	return true
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.stopped {
			p.notEmpty.Wait()
		}
		if p.stopped && len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}

		job := p.queue[0]
		p.queue = p.queue[1:]
		generation := p.currentGeneration
		p.notFull.Signal()
		p.mu.Unlock()

		if job.Generation != generation {
			continue
		}
		job.Fn(job.Arg)
	}
}

// Stop signals termination, wakes every parked worker, and waits for all of
// them to exit. Any jobs still queued are discarded. Safe to call more than
// once.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.queue = nil
	p.mu.Unlock()

	p.notEmpty.Broadcast()
	p.notFull.Broadcast()
	p.wg.Wait()
	log.Notice("pool stopped")
}
