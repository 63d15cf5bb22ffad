package autoroll

import "sync"

// Handle - a scheduled step that has not run yet
type Handle interface {
	Cancel()
}

// Scheduler - runs session steps one after another with no enforced delay
type Scheduler interface {
	Schedule(step func()) Handle
}

type task struct {
	mu        sync.Mutex
	step      func()
	cancelled bool
}

func (t *task) Cancel() {
	t.mu.Lock()
	t.cancelled = true
	t.mu.Unlock()
}

func (t *task) run() bool {
	t.mu.Lock()
	if t.cancelled {
		t.mu.Unlock()
		return false
	}
	t.cancelled = true
	t.mu.Unlock()
	t.step()
	return true
}

// LoopScheduler - a single driver goroutine that runs queued steps in order
type LoopScheduler struct {
	mu     sync.Mutex
	queue  []*task
	wake   chan struct{}
	quit   chan struct{}
	closed bool
	wg     sync.WaitGroup
}

// NewLoopScheduler starts the driver goroutine; call Close to stop it.
func NewLoopScheduler() *LoopScheduler {
	l := &LoopScheduler{
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
	}
	l.wg.Add(1)
	go l.loop()
	return l
}

func (l *LoopScheduler) Schedule(step func()) Handle {
	t := &task{step: step}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		t.cancelled = true
		return t
	}
	l.queue = append(l.queue, t)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return t
}

// Close stops the driver after the step in progress and waits for it to exit;
// queued steps are dropped. Must not be called from inside a step.
func (l *LoopScheduler) Close() {
	l.shutdown()
	l.wg.Wait()
}

// shutdown is Close without the wait, safe to call from a running step.
func (l *LoopScheduler) shutdown() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.queue = nil
	l.mu.Unlock()
	close(l.quit)
}

func (l *LoopScheduler) loop() {
	defer l.wg.Done()
	for {
		t := l.pop()
		if t == nil {
			select {
			case <-l.wake:
				continue
			case <-l.quit:
				return
			}
		}
		select {
		case <-l.quit:
			return
		default:
		}
		t.run()
	}
}

func (l *LoopScheduler) pop() *task {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	t := l.queue[0]
	l.queue = l.queue[1:]
	return t
}

// ManualScheduler - queues steps until the host drives them, for hosts with
// their own event loop and for tests
type ManualScheduler struct {
	mu    sync.Mutex
	queue []*task
}

func (m *ManualScheduler) Schedule(step func()) Handle {
	t := &task{step: step}
	m.mu.Lock()
	m.queue = append(m.queue, t)
	m.mu.Unlock()
	return t
}

// Pending counts queued steps, cancelled ones included.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// RunPending runs the steps queued so far and returns how many actually ran.
// Steps scheduled while running stay queued for the next call.
func (m *ManualScheduler) RunPending() int {
	m.mu.Lock()
	batch := m.queue
	m.queue = nil
	m.mu.Unlock()

	ran := 0
	for _, t := range batch {
		if t.run() {
			ran++
		}
	}
	return ran
}

// Drain keeps running steps until the queue is empty or max steps ran.
func (m *ManualScheduler) Drain(max int) int {
	total := 0
	for total < max {
		n := m.RunPending()
		if n == 0 && m.Pending() == 0 {
			break
		}
		total += n
	}
	return total
}
