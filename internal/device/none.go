package device

import "unsafe"

const noneName = "none"

// NoDeviceBackend is compiled in when the binary is built without an
// accelerator tag. It reports no devices and fails every other call.
type NoDeviceBackend struct{}

// NewNoBackend returns the backend used by builds without device support.
func NewNoBackend() *NoDeviceBackend {
	return &NoDeviceBackend{}
}

func (NoDeviceBackend) Name() string { return noneName }

func (NoDeviceBackend) Model() Model { return NoBackend }

func (NoDeviceBackend) DeviceCount() (int, error) { return 0, nil }

func (NoDeviceBackend) EnumerateDevices(devices []Device) ([]Device, error) {
	return devices[:0], nil
}

func (NoDeviceBackend) SetDevice(id int) error {
	return unavailable("SetDevice", ErrNotAvailable.Error())
}

func (NoDeviceBackend) GetDevice() (int, error) {
	return -1, unavailable("GetDevice", ErrNotAvailable.Error())
}

func (NoDeviceBackend) setDeviceInternal(id int) error {
	return unavailable("SetDevice", "unknown accelerator/gpu")
}

func (NoDeviceBackend) currentDevice() int { return -1 }

func (NoDeviceBackend) Free(ptr unsafe.Pointer) error {
	return unavailable("Free", ErrNotAvailable.Error())
}

func (NoDeviceBackend) FreeOnQueue(ptr unsafe.Pointer, q Queue) error {
	return unavailable("FreeOnQueue", ErrNotAvailable.Error())
}

func (NoDeviceBackend) FreeHost(ptr unsafe.Pointer) error {
	return unavailable("FreeHost", ErrNotAvailable.Error())
}

func (NoDeviceBackend) FreeHostOnQueue(ptr unsafe.Pointer, q Queue) error {
	return unavailable("FreeHostOnQueue", ErrNotAvailable.Error())
}
