package device

import (
	"runtime"
	"sync"
	"syscall"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// perThreadRuntime keeps the current device per OS thread, like cudart and
// HIP do. Threads that never set a device see device 0.
type perThreadRuntime struct {
	mu      sync.Mutex
	current map[int]int
	freedOn []int
}

func newPerThreadRuntime() *perThreadRuntime {
	return &perThreadRuntime{current: make(map[int]int)}
}

func (r *perThreadRuntime) Name() string { return "cuda" }

func (r *perThreadRuntime) ErrorString(Status) string { return "unknown error" }

func (r *perThreadRuntime) IsNoDevice(Status) bool { return false }

func (r *perThreadRuntime) DeviceCount() (int, Status) { return 4, StatusSuccess }

func (r *perThreadRuntime) DeviceInfo(int) (Device, Status) { return Device{}, StatusSuccess }

func (r *perThreadRuntime) SetDevice(id int) Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current[syscall.Gettid()] = id
	return StatusSuccess
}

func (r *perThreadRuntime) GetDevice() (int, Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current[syscall.Gettid()], StatusSuccess
}

func (r *perThreadRuntime) Free(unsafe.Pointer) Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.freedOn = append(r.freedOn, r.current[syscall.Gettid()])
	return StatusSuccess
}

func (r *perThreadRuntime) FreeHost(unsafe.Pointer) Status { return StatusSuccess }

func (r *perThreadRuntime) FreeAsync(unsafe.Pointer, Stream) Status { return StatusSuccess }

// onOtherThreads runs fn from n goroutines, each pinned to its own OS thread.
func onOtherThreads(n int, fn func()) {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			fn()
		}()
	}
	wg.Wait()
}

func TestImplicitBackend_CurrentDeviceIsProcessWide(t *testing.T) {
	rt := newPerThreadRuntime()
	b := NewImplicitBackend(rt, nil)

	onOtherThreads(1, func() {
		assert.NoError(t, b.SetDevice(2))
	})

	var mu sync.Mutex
	var seen []int
	onOtherThreads(8, func() {
		id, err := b.GetDevice()
		assert.NoError(t, err)
		mu.Lock()
		seen = append(seen, id)
		mu.Unlock()
	})
	assert.Equal(t, []int{2, 2, 2, 2, 2, 2, 2, 2}, seen)

	onOtherThreads(4, func() {
		assert.NoError(t, b.Free(handle()))
	})
	assert.Equal(t, []int{2, 2, 2, 2}, rt.freedOn)
}

func TestImplicitBackend_FreeOnQueueSwitchIsVisible(t *testing.T) {
	rt := newPerThreadRuntime()
	b := NewImplicitBackend(rt, nil)

	onOtherThreads(1, func() {
		assert.NoError(t, b.FreeOnQueue(handle(), NewBoundQueue(3, nil)))
	})
	onOtherThreads(1, func() {
		assert.NoError(t, b.Free(handle()))
	})
	assert.Equal(t, []int{3, 3}, rt.freedOn)
	assert.Equal(t, 3, CurrentDevice(b))
}

func TestWithDevice_AcrossThreads(t *testing.T) {
	rt := newPerThreadRuntime()
	b := NewImplicitBackend(rt, nil)
	require.NoError(t, b.SetDevice(1))

	err := WithDevice(b, 3, func() error {
		var err error
		onOtherThreads(1, func() { err = b.Free(handle()) })
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, rt.freedOn)
	assert.Equal(t, 1, CurrentDevice(b))
}

func TestExplicitBackend_CurrentDeviceIsProcessWide(t *testing.T) {
	b := NewExplicitBackend(newPerThreadRuntime(), nil)

	onOtherThreads(1, func() {
		assert.NoError(t, b.SetDevice(1))
	})
	onOtherThreads(4, func() {
		id, err := b.GetDevice()
		assert.NoError(t, err)
		assert.Equal(t, 1, id)
	})
}

func TestContextThread_RepanicsOnCaller(t *testing.T) {
	var th contextThread
	assert.PanicsWithValue(t, "boom", func() {
		th.do(func() { panic("boom") })
	})

	ran := false
	th.do(func() { ran = true })
	assert.True(t, ran, "thread must keep serving after a panic")
}
