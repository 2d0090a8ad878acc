package zkp

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// AsyncResult delivers one asynchronous generation outcome on its one-shot
// channel.
type AsyncResult struct {
	Proof *Proof
	Err   error
}

// PoolStats is a point-in-time view of the worker pool counters.
type PoolStats struct {
	Submitted uint64
	Succeeded uint64
	Failed    uint64
}

// workerPool offloads CPU-bound proof generation so concurrent requests do
// not serialize behind one another. Jobs queued when the pool stops are
// failed, never dropped silently.
type workerPool struct {
	engine *Engine
	jobs   chan asyncJob

	mu     sync.RWMutex // guards closed
	closed bool

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
	wg       sync.WaitGroup

	submitted atomic.Uint64
	succeeded atomic.Uint64
	failed    atomic.Uint64
}

type asyncJob struct {
	ctx      context.Context
	req      Request
	resultCh chan AsyncResult
}

func newWorkerPool(e *Engine, workers, queueDepth int) *workerPool {
	if workers <= 0 {
		workers = 2
	}
	if queueDepth <= 0 {
		queueDepth = 4 * workers
	}
	p := &workerPool{
		engine: e,
		jobs:   make(chan asyncJob, queueDepth),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
	go func() {
		p.wg.Wait()
		close(p.doneCh)
	}()
	return p
}

func (p *workerPool) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopCh:
			return
		case job := <-p.jobs:
			proof, err := p.engine.GenerateProof(job.ctx, job.req)
			if err != nil {
				p.failed.Add(1)
			} else {
				p.succeeded.Add(1)
			}
			job.resultCh <- AsyncResult{Proof: proof, Err: err}
		}
	}
}

// submit enqueues a job. The read lock is held across the send so close
// cannot finish draining while a submission is in flight.
func (p *workerPool) submit(ctx context.Context, req Request) (<-chan AsyncResult, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, fmt.Errorf("%w: worker pool stopped", ErrCapabilityUnavailable)
	}
	job := asyncJob{ctx: ctx, req: req, resultCh: make(chan AsyncResult, 1)}
	select {
	case p.jobs <- job:
		p.submitted.Add(1)
		return job.resultCh, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *workerPool) stats() PoolStats {
	return PoolStats{
		Submitted: p.submitted.Load(),
		Succeeded: p.succeeded.Load(),
		Failed:    p.failed.Load(),
	}
}

// close rejects new submissions, stops the workers and fails whatever was
// still queued so no waiter hangs.
func (p *workerPool) close() {
	p.mu.Lock()
	alreadyClosed := p.closed
	p.closed = true
	p.mu.Unlock()
	if alreadyClosed {
		<-p.doneCh
		return
	}

	p.stopOnce.Do(func() {
		close(p.stopCh)
	})
	<-p.doneCh

	for {
		select {
		case job := <-p.jobs:
			p.failed.Add(1)
			job.resultCh <- AsyncResult{Err: fmt.Errorf("%w: worker pool stopped", ErrCapabilityUnavailable)}
		default:
			return
		}
	}
}

// GenerateProofAsync queues generation on the worker pool and returns a
// one-shot result channel. The synchronous GenerateProof remains the primary
// entry point.
func (e *Engine) GenerateProofAsync(ctx context.Context, req Request) (<-chan AsyncResult, error) {
	return e.pool.submit(ctx, req)
}

// PoolStats reports the worker pool counters.
func (e *Engine) PoolStats() PoolStats {
	return e.pool.stats()
}
