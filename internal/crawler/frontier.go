package crawler

import (
	"context"
	"sync"
	"time"

	"github.com/docsink/docsink/internal/model"
	"golang.org/x/sync/errgroup"
)

// Frontier is the bounded work queue feeding the crawl. Work items are
// submitted as they are discovered, dispatched to at most `workers`
// concurrent processors, and may themselves submit more work. The
// frontier is idle, exactly once, when the queue is empty, no item is
// being processed, and no delayed re-submission is waiting on its timer.
//
// Design decision: Idle detection combines three counters under one
// mutex rather than watching queue length alone. A queue that is
// momentarily empty while a processor is still running (or a retry is
// inside its delay window) is not idle; firing completion there would
// truncate the crawl.
type Frontier struct {
	mu   sync.Mutex
	cond *sync.Cond

	// queue holds submitted items awaiting a worker slot, FIFO.
	queue []model.WorkItem

	// inFlight counts items popped by a worker whose processing has not
	// finished yet.
	inFlight int

	// delayed counts re-submissions waiting out their retry delay.
	// They hold the frontier open: a pending retry is pending work.
	delayed int

	// workers is the maximum number of concurrently processed items.
	workers int

	// closed is set when idle is reached; late submissions are dropped.
	closed bool

	// idleFns run exactly once, when the frontier goes idle.
	idleFns   []func()
	idleFired bool
}

// NewFrontier creates a Frontier processing at most workers items
// concurrently.
func NewFrontier(workers int) *Frontier {
	f := &Frontier{workers: workers}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Submit adds a work item for eventual processing. Items submitted
// after the frontier has gone idle are dropped.
func (f *Frontier) Submit(item model.WorkItem) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.queue = append(f.queue, item)
	f.cond.Signal()
}

// SubmitAfter schedules a work item for submission after the given
// delay. The pending submission counts as in-flight work, so the
// frontier cannot go idle while a retry is waiting on its timer.
func (f *Frontier) SubmitAfter(item model.WorkItem, delay time.Duration) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.delayed++
	f.mu.Unlock()

	time.AfterFunc(delay, func() {
		f.mu.Lock()
		defer f.mu.Unlock()

		// closed cannot be set here: idle requires delayed == 0, and
		// this pending submission held delayed above zero.
		f.delayed--
		f.queue = append(f.queue, item)
		f.cond.Signal()
	})
}

// OnIdle registers a callback invoked exactly once, when all submitted
// work (including work submitted by in-flight processors and pending
// retries) has completed. Registering after idle runs the callback
// immediately.
func (f *Frontier) OnIdle(fn func()) {
	f.mu.Lock()
	if f.idleFired {
		f.mu.Unlock()
		fn()
		return
	}
	f.idleFns = append(f.idleFns, fn)
	f.mu.Unlock()
}

// Stats returns the current queue depth and in-flight count.
func (f *Frontier) Stats() (queued, inFlight int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue), f.inFlight
}

// Run processes frontier items with the given function until the
// frontier is idle. It blocks until every worker has drained and the
// idle callbacks have run.
func (f *Frontier) Run(ctx context.Context, process func(context.Context, model.WorkItem)) {
	var g errgroup.Group
	for range f.workers {
		g.Go(func() error {
			for {
				item, ok := f.next()
				if !ok {
					return nil
				}
				process(ctx, item)
				f.finish()
			}
		})
	}
	_ = g.Wait() // workers only return nil
}

// next blocks until an item is available or the frontier is idle.
// The second return is false when the worker should exit.
func (f *Frontier) next() (model.WorkItem, bool) {
	f.mu.Lock()

	for {
		if len(f.queue) > 0 {
			item := f.queue[0]
			f.queue = f.queue[1:]
			f.inFlight++
			f.mu.Unlock()
			return item, true
		}

		if f.inFlight == 0 && f.delayed == 0 {
			// Idle. The first worker to observe it fires the callbacks;
			// everyone else just exits.
			f.closed = true
			if f.idleFired {
				f.mu.Unlock()
				return model.WorkItem{}, false
			}
			f.idleFired = true
			fns := f.idleFns
			f.idleFns = nil
			f.cond.Broadcast()
			f.mu.Unlock()

			for _, fn := range fns {
				fn()
			}
			return model.WorkItem{}, false
		}

		f.cond.Wait()
	}
}

// finish records the completion of one item's processing and wakes
// waiting workers if that completion may have made the frontier idle.
func (f *Frontier) finish() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.inFlight--
	if len(f.queue) == 0 && f.inFlight == 0 && f.delayed == 0 {
		f.cond.Broadcast()
	}
}
