package device

import (
	"unsafe"

	"go.uber.org/zap"
)

// ContextFreeBackend implements Backend over a platform runtime (SYCL).
// Devices are objects reached by walking platforms and every free goes
// through a queue, so there is no current device to get or set.
type ContextFreeBackend struct {
	rt     PlatformRuntime
	logger *zap.Logger
}

// NewContextFreeBackend creates a backend over rt.
func NewContextFreeBackend(rt PlatformRuntime, logger *zap.Logger) *ContextFreeBackend {
	return &ContextFreeBackend{
		rt:     rt,
		logger: nilLogger(logger),
	}
}

func (b *ContextFreeBackend) Name() string { return b.rt.Name() }

func (b *ContextFreeBackend) Model() Model { return ContextFree }

// DeviceCount counts GPU devices over all platforms.
func (b *ContextFreeBackend) DeviceCount() (int, error) {
	platforms, err := b.platforms("DeviceCount")
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range platforms {
		for _, d := range p.Devices {
			if d.Type == TypeGPU {
				n++
			}
		}
	}
	return n, nil
}

// EnumerateDevices collects the GPU devices of every platform, in platform
// order. Other device classes on the same platform are skipped.
func (b *ContextFreeBackend) EnumerateDevices(devices []Device) ([]Device, error) {
	platforms, err := b.platforms("EnumerateDevices")
	if err != nil {
		return devices[:0], err
	}
	n := 0
	for _, p := range platforms {
		for _, d := range p.Devices {
			if d.Type == TypeGPU {
				n++
			}
		}
	}

	devices = resetDevices(devices, n)
	for _, p := range platforms {
		for _, d := range p.Devices {
			if d.Type != TypeGPU {
				continue
			}
			d.ID = len(devices)
			if d.Platform == "" {
				d.Platform = p.Name
			}
			if d.Vendor == "" {
				d.Vendor = p.Vendor
			}
			devices = append(devices, d)
		}
	}
	b.logger.Debug("enumerated devices", zap.Int("platforms", len(platforms)), zap.Int("devices", len(devices)))
	return devices, nil
}

func (b *ContextFreeBackend) platforms(op string) ([]Platform, error) {
	platforms, st := b.rt.Platforms()
	if err := checkStatus(b.rt, op, st); err != nil {
		return nil, err
	}
	return platforms, nil
}

func (b *ContextFreeBackend) SetDevice(id int) error {
	return unsupported(b.rt.Name(), "SetDevice")
}

func (b *ContextFreeBackend) GetDevice() (int, error) {
	return -1, unsupported(b.rt.Name(), "GetDevice")
}

// setDeviceInternal is a no-op: queues already carry their device.
func (b *ContextFreeBackend) setDeviceInternal(id int) error {
	return nil
}

func (b *ContextFreeBackend) currentDevice() int {
	return -1
}

// Free is not supported: the runtime needs a queue to free.
func (b *ContextFreeBackend) Free(ptr unsafe.Pointer) error {
	return unsupported(b.rt.Name(), "Free")
}

func (b *ContextFreeBackend) FreeOnQueue(ptr unsafe.Pointer, q Queue) error {
	if q == nil {
		return ErrNilQueue
	}
	if err := b.setDeviceInternal(q.Device()); err != nil {
		return err
	}
	return checkStatus(b.rt, "FreeOnQueue", b.rt.Free(ptr, q.Stream()))
}

// FreeHost is not supported: the runtime needs a queue to free.
func (b *ContextFreeBackend) FreeHost(ptr unsafe.Pointer) error {
	return unsupported(b.rt.Name(), "FreeHost")
}

func (b *ContextFreeBackend) FreeHostOnQueue(ptr unsafe.Pointer, q Queue) error {
	if q == nil {
		return ErrNilQueue
	}
	return checkStatus(b.rt, "FreeHostOnQueue", b.rt.Free(ptr, q.Stream()))
}
