package device

import (
	"unsafe"

	"github.com/stretchr/testify/mock"
)

// mockContextRuntime is a testify mock of ContextRuntime. Return values may be
// given as functions of the call arguments.
type mockContextRuntime struct {
	mock.Mock
	name string
}

func newMockContextRuntime(name string) *mockContextRuntime {
	return &mockContextRuntime{name: name}
}

func (m *mockContextRuntime) Name() string { return m.name }

func (m *mockContextRuntime) ErrorString(st Status) string {
	return fakeErrorString(st)
}

func (m *mockContextRuntime) IsNoDevice(st Status) bool { return st == statusNoDevice }

func (m *mockContextRuntime) DeviceCount() (int, Status) {
	args := m.Called()
	return args.Int(0), args.Get(1).(Status)
}

func (m *mockContextRuntime) DeviceInfo(id int) (Device, Status) {
	args := m.Called(id)
	return args.Get(0).(Device), args.Get(1).(Status)
}

func (m *mockContextRuntime) SetDevice(id int) Status {
	args := m.Called(id)
	return args.Get(0).(Status)
}

func (m *mockContextRuntime) GetDevice() (int, Status) {
	args := m.Called()
	if fn, ok := args.Get(0).(func() (int, Status)); ok {
		return fn()
	}
	return args.Int(0), args.Get(1).(Status)
}

func (m *mockContextRuntime) Free(ptr unsafe.Pointer) Status {
	args := m.Called(ptr)
	return args.Get(0).(Status)
}

func (m *mockContextRuntime) FreeHost(ptr unsafe.Pointer) Status {
	args := m.Called(ptr)
	return args.Get(0).(Status)
}

// mockStreamRuntime is a testify mock of StreamRuntime.
type mockStreamRuntime struct {
	mock.Mock
}

func (m *mockStreamRuntime) Name() string { return "cuda-async" }

func (m *mockStreamRuntime) ErrorString(st Status) string {
	return fakeErrorString(st)
}

func (m *mockStreamRuntime) IsNoDevice(st Status) bool { return st == statusNoDevice }

func (m *mockStreamRuntime) DeviceCount() (int, Status) {
	args := m.Called()
	return args.Int(0), args.Get(1).(Status)
}

func (m *mockStreamRuntime) DeviceInfo(id int) (Device, Status) {
	args := m.Called(id)
	return args.Get(0).(Device), args.Get(1).(Status)
}

func (m *mockStreamRuntime) SetDevice(id int) Status {
	args := m.Called(id)
	return args.Get(0).(Status)
}

func (m *mockStreamRuntime) GetDevice() (int, Status) {
	args := m.Called()
	if fn, ok := args.Get(0).(func() (int, Status)); ok {
		return fn()
	}
	return args.Int(0), args.Get(1).(Status)
}

func (m *mockStreamRuntime) FreeAsync(ptr unsafe.Pointer, stream Stream) Status {
	args := m.Called(ptr, stream)
	return args.Get(0).(Status)
}

// mockPlatformRuntime is a testify mock of PlatformRuntime.
type mockPlatformRuntime struct {
	mock.Mock
}

func (m *mockPlatformRuntime) Name() string { return "sycl" }

func (m *mockPlatformRuntime) ErrorString(st Status) string {
	return fakeErrorString(st)
}

func (m *mockPlatformRuntime) Platforms() ([]Platform, Status) {
	args := m.Called()
	platforms, _ := args.Get(0).([]Platform)
	return platforms, args.Get(1).(Status)
}

func (m *mockPlatformRuntime) Free(ptr unsafe.Pointer, queue Stream) Status {
	args := m.Called(ptr, queue)
	return args.Get(0).(Status)
}

const (
	statusInvalidValue Status = 1
	statusNoDevice     Status = 100
	statusLaunchFailed Status = 719
)

func fakeErrorString(st Status) string {
	switch st {
	case statusInvalidValue:
		return "invalid argument"
	case statusNoDevice:
		return "no CUDA-capable device is detected"
	case statusLaunchFailed:
		return "unspecified launch failure"
	default:
		return "unknown error"
	}
}

// handle returns a distinct non-nil pointer usable as a memory handle.
func handle() unsafe.Pointer {
	return unsafe.Pointer(new(byte))
}

func stream() Stream {
	return Stream(unsafe.Pointer(new(int64)))
}
