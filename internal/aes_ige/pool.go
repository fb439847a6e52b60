// Copyright (c) 2025 @AmarnathCJD

package ige

import (
	"context"
	"runtime"
	"sync"
)

// Pool runs CPU bound crypto on a fixed set of goroutines so that network
// readers never encrypt inline.
type Pool struct {
	jobs      chan func()
	wg        sync.WaitGroup
	closeOnce sync.Once
	done      chan struct{}
}

// NewPool starts workers goroutines, zero means one per CPU up to four.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = min(runtime.NumCPU(), 4)
	}

	p := &Pool{
		jobs: make(chan func()),
		done: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobs:
			job()
		case <-p.done:
			return
		}
	}
}

// Do runs fn on a worker and waits for it.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	job := func() { result <- fn() }

	select {
	case p.jobs <- job:
	case <-p.done:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	// a submitted job always finishes, wait for it so fn never outlives Do.
	return <-result
}

// Close stops the workers once the running jobs return.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
	})
	p.wg.Wait()
}
