// Package dispatch provides the deferred execution boundary for menu
// commands. Invoking a wrapped callback never runs the command inline:
// the work is posted to a scheduler and executed on a later tick, after the
// current call stack has fully unwound. A command that tears down the menu
// it was invoked from therefore never observes a half-destroyed UI.
package dispatch

import (
	"log/slog"
	"runtime/debug"
	"sync"
)

// Scheduler accepts tasks to run on the next tick of the host event loop.
// Implementations must preserve FIFO order.
type Scheduler interface {
	Post(task func())
}

// Loop is a minimal single-threaded task queue implementing Scheduler.
// Post may be called from any goroutine (file watchers deliver events off
// the loop), but Tick must only ever be called from the owning goroutine.
//
// There is no cancellation: a task queued before a teardown still runs on
// the next tick against whatever state remains. Callers rely on the Wrap
// guard to contain any error that results.
type Loop struct {
	mu    sync.Mutex
	queue []func()
}

// NewLoop creates an empty loop.
func NewLoop() *Loop {
	return &Loop{}
}

// Post appends a task to the queue.
func (l *Loop) Post(task func()) {
	if task == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, task)
	l.mu.Unlock()
}

// Tick runs the tasks that were queued before the tick began, in FIFO order,
// and returns how many ran. Tasks posted while a tick is running are held
// for the next tick, preserving the "strictly after the current stack
// unwinds" guarantee for nested dispatches.
func (l *Loop) Tick() int {
	l.mu.Lock()
	batch := l.queue
	l.queue = nil
	l.mu.Unlock()

	for _, task := range batch {
		task()
	}
	return len(batch)
}

// RunUntilIdle ticks until the queue stays empty and returns the total
// number of tasks executed.
func (l *Loop) RunUntilIdle() int {
	total := 0
	for {
		n := l.Tick()
		if n == 0 {
			return total
		}
		total += n
	}
}

// Len returns the number of queued tasks.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Wrap turns a command callback into a deferred, exception-contained
// invocation handler. The returned function accepts and discards whatever
// incidental arguments the UI layer passes (toggle state and the like),
// never fails synchronously, and schedules the callback on the next tick.
// A panic inside the callback is logged with its stack and swallowed; one
// broken command must not take down the host or the menu.
func Wrap(name string, callback func(), scheduler Scheduler, logger *slog.Logger) func(args ...any) {
	if logger == nil {
		logger = slog.Default()
	}
	return func(_ ...any) {
		scheduler.Post(func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("command failed",
						slog.String("command", name),
						slog.Any("panic", r),
						slog.String("stack", string(debug.Stack())))
				}
			}()
			if callback == nil {
				logger.Warn("command has no callback", slog.String("command", name))
				return
			}
			callback()
		})
	}
}
