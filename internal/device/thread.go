package device

import (
	"runtime"
	"sync"
)

// contextThread runs functions on one goroutine locked to one OS thread.
// Runtimes that keep the current device per OS thread (cudart, HIP) see a
// single process-wide current device when every context call goes through
// the same contextThread. The thread is started on first use and lives for
// the rest of the process.
type contextThread struct {
	once  sync.Once
	calls chan func()
}

func (t *contextThread) start() {
	t.calls = make(chan func())
	go func() {
		// Never unlocked: the goroutine owns the thread for its lifetime.
		runtime.LockOSThread()
		for fn := range t.calls {
			fn()
		}
	}()
}

// do runs fn on the context thread and waits for it. A panic in fn is
// re-raised on the calling goroutine. fn must not call do itself.
func (t *contextThread) do(fn func()) {
	t.once.Do(t.start)

	var panicked interface{}
	done := make(chan struct{})
	t.calls <- func() {
		defer func() {
			panicked = recover()
			close(done)
		}()
		fn()
	}
	<-done
	if panicked != nil {
		panic(panicked)
	}
}
