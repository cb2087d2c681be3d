package workerpool

import (
	"errors"
	"runtime/debug"
	"sync"

	"github.com/indigo-web/minihttp/internal/metrics"
	"github.com/rs/zerolog"
)

var (
	ErrZeroSize   = errors.New("worker pool size must be positive")
	ErrPoolClosed = errors.New("worker pool is closed")
)

// Task is a unit of work. Once submitted, it's owned by exactly one worker.
type Task func()

// Pool runs submitted tasks on a fixed number of long-lived workers. Tasks are taken
// in the order they were submitted. The queue isn't bounded, so a flood of tasks
// grows the memory usage instead of being rejected.
type Pool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []Task
	closed  bool
	size    int
	running int
	workers sync.WaitGroup
	log     zerolog.Logger
	metrics *metrics.Instruments
}

type Option func(*Pool)

// WithLogger sets the logger panics are reported to. Nop by default.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Pool) {
		p.log = log
	}
}

func WithMetrics(instruments *metrics.Instruments) Option {
	return func(p *Pool) {
		p.metrics = instruments
	}
}

// New starts exactly size workers, blocking on an empty queue.
func New(size int, opts ...Option) (*Pool, error) {
	if size <= 0 {
		return nil, ErrZeroSize
	}

	p := &Pool{
		size: size,
		log:  zerolog.Nop(),
	}
	p.cond = sync.NewCond(&p.mu)

	for _, opt := range opts {
		opt(p)
	}

	if p.metrics == nil {
		p.metrics = metrics.Nop()
	}

	p.workers.Add(size)
	for i := 0; i < size; i++ {
		go p.worker(i)
	}

	return p, nil
}

// Submit enqueues the task. It never waits for a free worker.
func (p *Pool) Submit(task Task) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}

	p.queue = append(p.queue, task)
	p.mu.Unlock()

	p.metrics.TaskSubmitted()
	p.cond.Signal()

	return nil
}

// Close stops accepting new tasks. Already queued tasks are still executed, after
// which the workers exit.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cond.Broadcast()
}

// Wait blocks until every worker has exited. Makes sense only after Close.
func (p *Pool) Wait() {
	p.workers.Wait()
}

func (p *Pool) Size() int {
	return p.size
}

// Queued returns the number of tasks waiting for a worker.
func (p *Pool) Queued() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.queue)
}

// Running returns the number of tasks being executed right now.
func (p *Pool) Running() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.running
}

func (p *Pool) worker(id int) {
	defer p.workers.Done()

	for {
		task, ok := p.next()
		if !ok {
			return
		}

		p.metrics.TaskStarted()
		panicked := p.run(id, task)
		p.metrics.TaskCompleted(panicked)

		p.mu.Lock()
		p.running--
		p.mu.Unlock()
	}
}

// next blocks until either there's a task or the pool is closed and drained.
func (p *Pool) next() (Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.queue) == 0 {
		if p.closed {
			return nil, false
		}

		p.cond.Wait()
	}

	task := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	p.running++

	return task, true
}

func (p *Pool) run(id int, task Task) (panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			p.log.Error().
				Int("worker", id).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("task panicked")
		}
	}()

	task()

	return false
}
