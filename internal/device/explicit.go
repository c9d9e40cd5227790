package device

import (
	"unsafe"

	"go.uber.org/zap"
)

// ExplicitBackend implements Backend over a stream-ordered runtime. Memory is
// released on the stream of the queue that owns it, so frees never switch the
// current device. The current-device calls are still served for callers that
// use them directly, on the backend's context thread.
type ExplicitBackend struct {
	rt     StreamRuntime
	logger *zap.Logger
	thread contextThread
}

// NewExplicitBackend creates a backend over rt.
func NewExplicitBackend(rt StreamRuntime, logger *zap.Logger) *ExplicitBackend {
	return &ExplicitBackend{
		rt:     rt,
		logger: nilLogger(logger),
	}
}

func (b *ExplicitBackend) Name() string { return b.rt.Name() }

func (b *ExplicitBackend) Model() Model { return ExplicitContext }

func (b *ExplicitBackend) DeviceCount() (int, error) {
	return countDevices(b.rt, b.rt.DeviceCount)
}

func (b *ExplicitBackend) EnumerateDevices(devices []Device) ([]Device, error) {
	return indexDevices(b.rt, b.rt.DeviceCount, b.rt.DeviceInfo, devices)
}

func (b *ExplicitBackend) SetDevice(id int) error {
	return b.setDeviceInternal(id)
}

func (b *ExplicitBackend) GetDevice() (id int, err error) {
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

func (b *ExplicitBackend) setDeviceInternal(id int) (err error) {
	b.logger.Debug("setting current device", zap.String("backend", b.rt.Name()), zap.Int("device", id))
	b.thread.do(func() { err = checkStatus(b.rt, "SetDevice", b.rt.SetDevice(id)) })
	return err
}

func (b *ExplicitBackend) currentDevice() int {
	id, err := b.GetDevice()
	if err != nil {
		b.logger.Debug("current device unknown", zap.Error(err))
		return -1
	}
	return id
}

// Free is not supported: a stream-ordered free needs the owning queue.
func (b *ExplicitBackend) Free(ptr unsafe.Pointer) error {
	return unsupported(b.rt.Name(), "Free")
}

func (b *ExplicitBackend) FreeOnQueue(ptr unsafe.Pointer, q Queue) error {
	if q == nil {
		return ErrNilQueue
	}
	return checkStatus(b.rt, "FreeOnQueue", b.rt.FreeAsync(ptr, q.Stream()))
}

// FreeHost is not supported: a stream-ordered free needs the owning queue.
func (b *ExplicitBackend) FreeHost(ptr unsafe.Pointer) error {
	return unsupported(b.rt.Name(), "FreeHost")
}

func (b *ExplicitBackend) FreeHostOnQueue(ptr unsafe.Pointer, q Queue) error {
	if q == nil {
		return ErrNilQueue
	}
	return checkStatus(b.rt, "FreeHostOnQueue", b.rt.FreeAsync(ptr, q.Stream()))
}
