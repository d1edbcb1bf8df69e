package observable

import "sync"

// Dispatcher marshals work onto the execution context that owns
// presentation state. Property-change listeners are only ever invoked
// through a Dispatcher, so a Host never delivers two notifications
// concurrently.
type Dispatcher interface {
	// Invoke runs fn on the owner context and blocks until fn returns.
	Invoke(fn func())
	// Post schedules fn on the owner context without waiting for it.
	Post(fn func())
}

// ImmediateDispatcher runs work inline on the calling goroutine,
// serialized by a mutex. Suitable for tests and for wiring where all
// mutation already happens on one goroutine.
type ImmediateDispatcher struct {
	mu sync.Mutex
}

// Invoke runs fn synchronously.
func (d *ImmediateDispatcher) Invoke(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn()
}

// Post runs fn synchronously; with no owner goroutine of its own there
// is nothing to defer to.
func (d *ImmediateDispatcher) Post(fn func()) {
	d.Invoke(fn)
}

// LoopDispatcher owns a single goroutine that executes submitted work
// in FIFO order. Work submitted from any goroutine is delivered on the
// owner goroutine in submission order.
type LoopDispatcher struct {
	work      chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// NewLoopDispatcher starts the owner goroutine.
func NewLoopDispatcher() *LoopDispatcher {
	d := &LoopDispatcher{
		work: make(chan func(), 64),
		done: make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *LoopDispatcher) run() {
	defer close(d.done)
	for fn := range d.work {
		fn()
	}
}

// Invoke runs fn on the owner goroutine and blocks until it has run.
func (d *LoopDispatcher) Invoke(fn func()) {
	ran := make(chan struct{})
	d.work <- func() {
		defer close(ran)
		fn()
	}
	<-ran
}

// Post schedules fn on the owner goroutine and returns immediately.
func (d *LoopDispatcher) Post(fn func()) {
	d.work <- fn
}

// Close drains queued work and stops the owner goroutine. No work may
// be submitted after Close.
func (d *LoopDispatcher) Close() {
	d.closeOnce.Do(func() { close(d.work) })
	<-d.done
}
