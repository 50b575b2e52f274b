package preview

import (
	"context"
	"sync"

	"pdf-workbench/internal/logger"
	"pdf-workbench/internal/types"
)

// Result is the outcome of one preview render.
type Result struct {
	Data []byte
	Err  error
}

type job struct {
	ctx         context.Context
	path        string
	pageIndex   int
	targetWidth int
	done        chan Result
}

// Pool runs preview rendering on a fixed number of workers. A document with
// many pages queues many jobs, but only poolSize renders are ever in flight;
// jobs are served in submission order and can be cancelled through their
// context.
type Pool struct {
	renderer   *Renderer
	jobs       chan job
	wg         sync.WaitGroup // workers
	submitters sync.WaitGroup // Submit calls past the closed check

	mu     sync.Mutex
	closed bool
}

// NewPool creates a Pool with the given number of workers and starts them.
func NewPool(renderer *Renderer, workers int) *Pool {
	if workers <= 0 {
		workers = 4
	}

	p := &Pool{
		renderer: renderer,
		jobs:     make(chan job, 64),
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}

	logger.Debug("preview pool started", logger.Int("workers", workers))
	return p
}

// Submit queues one page render and returns a channel that receives exactly
// one Result. Cancelling ctx before the job is picked up skips the render.
// The queue send happens outside the mutex, so a full queue blocks only this
// caller, never Close or other Submits.
func (p *Pool) Submit(ctx context.Context, path string, pageIndex, targetWidth int) <-chan Result {
	done := make(chan Result, 1)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		done <- Result{Err: types.NewAppError(types.ErrInternal, "preview pool is closed", nil)}
		return done
	}
	p.submitters.Add(1)
	p.mu.Unlock()

	p.jobs <- job{ctx: ctx, path: path, pageIndex: pageIndex, targetWidth: targetWidth, done: done}
	p.submitters.Done()

	return done
}

// Close stops accepting jobs and waits for in-flight renders to finish.
// Queued jobs that have not started yet are completed normally; the workers
// keep draining while Close waits, so pending Submit sends always land.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.submitters.Wait()
	close(p.jobs)
	p.wg.Wait()
	logger.Debug("preview pool stopped")
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for j := range p.jobs {
		if j.ctx.Err() != nil {
			j.done <- Result{Err: j.ctx.Err()}
			continue
		}
		data, err := p.renderer.RenderPage(j.ctx, j.path, j.pageIndex, j.targetWidth)
		j.done <- Result{Data: data, Err: err}
	}
}
