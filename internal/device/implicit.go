package device

import (
	"unsafe"

	"go.uber.org/zap"
)

// ImplicitBackend implements Backend over a runtime with a process-wide
// current device. Every context-free call targets whatever device was made
// current last, by any goroutine.
//
// The runtime stores the current device per OS thread, so every call that
// reads, writes or depends on it runs on the backend's context thread.
type ImplicitBackend struct {
	rt     ContextRuntime
	logger *zap.Logger
	thread contextThread
}

// NewImplicitBackend creates a backend over rt.
func NewImplicitBackend(rt ContextRuntime, logger *zap.Logger) *ImplicitBackend {
	return &ImplicitBackend{
		rt:     rt,
		logger: nilLogger(logger),
	}
}

func (b *ImplicitBackend) Name() string { return b.rt.Name() }

func (b *ImplicitBackend) Model() Model { return ImplicitContext }

func (b *ImplicitBackend) DeviceCount() (int, error) {
	return countDevices(b.rt, b.rt.DeviceCount)
}

func (b *ImplicitBackend) EnumerateDevices(devices []Device) ([]Device, error) {
	return indexDevices(b.rt, b.rt.DeviceCount, b.rt.DeviceInfo, devices)
}

func (b *ImplicitBackend) SetDevice(id int) error {
	return b.setDeviceInternal(id)
}

func (b *ImplicitBackend) GetDevice() (id int, err error) {
	b.thread.do(func() {
		var st Status
		id, st = b.rt.GetDevice()
		err = checkStatus(b.rt, "GetDevice", st)
	})
	if err != nil {
		return -1, err
	}
	return id, nil
}

func (b *ImplicitBackend) setDeviceInternal(id int) (err error) {
	b.thread.do(func() { err = b.switchDevice(id) })
	return err
}

// switchDevice must run on the context thread.
func (b *ImplicitBackend) switchDevice(id int) error {
	b.logger.Debug("setting current device", zap.String("backend", b.rt.Name()), zap.Int("device", id))
	return checkStatus(b.rt, "SetDevice", b.rt.SetDevice(id))
}

func (b *ImplicitBackend) currentDevice() int {
	id, err := b.GetDevice()
	if err != nil {
		b.logger.Debug("current device unknown", zap.Error(err))
		return -1
	}
	return id
}

// Free releases ptr on the current device.
func (b *ImplicitBackend) Free(ptr unsafe.Pointer) (err error) {
	b.thread.do(func() { err = checkStatus(b.rt, "Free", b.rt.Free(ptr)) })
	return err
}

// FreeOnQueue makes the queue's device current and releases ptr there. The
// queue's device stays current afterwards.
func (b *ImplicitBackend) FreeOnQueue(ptr unsafe.Pointer, q Queue) (err error) {
	if q == nil {
		return ErrNilQueue
	}
	b.thread.do(func() {
		if err = b.switchDevice(q.Device()); err != nil {
			return
		}
		err = checkStatus(b.rt, "FreeOnQueue", b.rt.Free(ptr))
	})
	return err
}

// FreeHost releases pinned host memory. Pinned frees are not tied to a
// device, so no switch is made.
func (b *ImplicitBackend) FreeHost(ptr unsafe.Pointer) (err error) {
	b.thread.do(func() { err = checkStatus(b.rt, "FreeHost", b.rt.FreeHost(ptr)) })
	return err
}

func (b *ImplicitBackend) FreeHostOnQueue(ptr unsafe.Pointer, q Queue) (err error) {
	if q == nil {
		return ErrNilQueue
	}
	b.thread.do(func() { err = checkStatus(b.rt, "FreeHostOnQueue", b.rt.FreeHost(ptr)) })
	return err
}

// countDevices calls count and folds the runtime's "no device" status into a
// successful zero.
func countDevices(rt interface {
	statusReporter
	IsNoDevice(Status) bool
}, count func() (int, Status)) (int, error) {
	n, st := count()
	if st != StatusSuccess {
		if rt.IsNoDevice(st) {
			return 0, nil
		}
		return 0, checkStatus(rt, "DeviceCount", st)
	}
	if n < 0 {
		n = 0
	}
	return n, nil
}

// indexDevices builds one Device per runtime index.
func indexDevices(rt interface {
	statusReporter
	IsNoDevice(Status) bool
}, count func() (int, Status), info func(int) (Device, Status), devices []Device) ([]Device, error) {
	n, err := countDevices(rt, count)
	if err != nil {
		return devices[:0], err
	}
	devices = resetDevices(devices, n)
	for i := 0; i < n; i++ {
		d, st := info(i)
		if err := checkStatus(rt, "EnumerateDevices", st); err != nil {
			return devices[:0], err
		}
		d.ID = i
		if d.Type == TypeUnknown {
			d.Type = TypeGPU
		}
		devices = append(devices, d)
	}
	return devices, nil
}
