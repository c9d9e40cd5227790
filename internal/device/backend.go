package device

import (
	"sync"
	"unsafe"

	"go.uber.org/zap"
)

// Backend is the device capability set of one accelerator runtime.
// Exactly one implementation is compiled into a binary (see Default); the
// others are only reachable through their constructors, which tests use with
// mocked runtimes.
//
// Capabilities a runtime does not have return an *Error of KindUnsupported
// (or KindUnavailable when no runtime is compiled in) without touching the
// native API.
type Backend interface {
	// Name is the short backend name ("cuda", "rocm", "sycl", "none").
	Name() string

	// Model reports how the backend tracks the current device.
	Model() Model

	// DeviceCount returns the number of accelerator devices. A runtime that
	// reports "no device" yields 0 and no error.
	DeviceCount() (int, error)

	// EnumerateDevices rebuilds devices in place and returns it holding
	// exactly DeviceCount() accelerator-class devices.
	EnumerateDevices(devices []Device) ([]Device, error)

	// SetDevice makes id the process-wide current device. It is the legacy
	// user-facing entry point and fails on backends without a current device.
	SetDevice(id int) error

	// GetDevice returns the process-wide current device.
	GetDevice() (int, error)

	// Free releases device memory on the current device.
	Free(ptr unsafe.Pointer) error

	// FreeOnQueue releases device memory owned by the queue's device.
	FreeOnQueue(ptr unsafe.Pointer, q Queue) error

	// FreeHost releases pinned host memory.
	FreeHost(ptr unsafe.Pointer) error

	// FreeHostOnQueue releases pinned host memory allocated for the queue.
	FreeHostOnQueue(ptr unsafe.Pointer, q Queue) error

	// setDeviceInternal selects the device a queue-scoped call needs. Backends
	// that need no switch treat it as a no-op instead of failing.
	setDeviceInternal(id int) error

	// currentDevice never fails; it returns -1 when there is no meaningful
	// current device.
	currentDevice() int
}

// ContextRuntime binds a runtime whose current device is implicit,
// process-wide state (CUDA runtime, HIP).
//
// These runtimes store the current device per OS thread. The backends make
// it process-wide by issuing every context call from one locked OS thread.
// The cell itself is still shared: concurrent SetDevice callers race for it.
type ContextRuntime interface {
	Name() string
	ErrorString(Status) string
	IsNoDevice(Status) bool
	DeviceCount() (int, Status)
	DeviceInfo(id int) (Device, Status)
	SetDevice(id int) Status
	GetDevice() (int, Status)
	Free(ptr unsafe.Pointer) Status
	FreeHost(ptr unsafe.Pointer) Status
}

// StreamRuntime binds a runtime that frees memory in stream order.
type StreamRuntime interface {
	Name() string
	ErrorString(Status) string
	IsNoDevice(Status) bool
	DeviceCount() (int, Status)
	DeviceInfo(id int) (Device, Status)
	SetDevice(id int) Status
	GetDevice() (int, Status)
	FreeAsync(ptr unsafe.Pointer, stream Stream) Status
}

// PlatformRuntime binds a runtime that exposes devices as platform objects
// and frees memory through a queue (SYCL).
type PlatformRuntime interface {
	Name() string
	ErrorString(Status) string
	Platforms() ([]Platform, Status)
	Free(ptr unsafe.Pointer, queue Stream) Status
}

var (
	defaultOnce    sync.Once
	defaultBackend Backend
)

// Default returns the backend compiled into this binary. It logs through the
// global zap logger in effect on first use.
func Default() Backend {
	defaultOnce.Do(func() {
		defaultBackend = newRuntimeBackend(zap.L().Named("device"))
	})
	return defaultBackend
}

// WithDevice runs fn with id as the current device and restores the previous
// current device afterwards. Calls fn makes through b see the switch. Other
// goroutines that set the device while fn runs change it for fn too.
func WithDevice(b Backend, id int, fn func() error) error {
	prev, err := b.GetDevice()
	if err != nil {
		return err
	}
	if err := b.SetDevice(id); err != nil {
		return err
	}
	fnErr := fn()
	if err := b.SetDevice(prev); err != nil && fnErr == nil {
		return err
	}
	return fnErr
}

// CurrentDevice returns the current device of b, or -1 when b has none or it
// cannot be read. Unlike Backend.GetDevice it never fails.
func CurrentDevice(b Backend) int {
	return b.currentDevice()
}

func SetDevice(id int) error { return Default().SetDevice(id) }

func GetDevice() (int, error) { return Default().GetDevice() }

func DeviceCount() (int, error) { return Default().DeviceCount() }

func EnumerateDevices(devices []Device) ([]Device, error) {
	return Default().EnumerateDevices(devices)
}

func Free(ptr unsafe.Pointer) error { return Default().Free(ptr) }

func FreeOnQueue(ptr unsafe.Pointer, q Queue) error { return Default().FreeOnQueue(ptr, q) }

func FreeHost(ptr unsafe.Pointer) error { return Default().FreeHost(ptr) }

func FreeHostOnQueue(ptr unsafe.Pointer, q Queue) error { return Default().FreeHostOnQueue(ptr, q) }

// resetDevices empties devices, keeping its backing array when it is large
// enough for n entries.
func resetDevices(devices []Device, n int) []Device {
	if cap(devices) < n {
		return make([]Device, 0, n)
	}
	return devices[:0]
}

func nilLogger(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
