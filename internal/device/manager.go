package device

import (
	"errors"
	"sync"
	"time"
	"unsafe"

	"github.com/fxnlabs/device-runtime/internal/metrics"
	"go.uber.org/zap"
)

// Info is a snapshot of the active backend and its devices.
type Info struct {
	Backend       string   `json:"backend"`
	Model         string   `json:"model"`
	DeviceCount   int      `json:"deviceCount"`
	CurrentDevice int      `json:"currentDevice"`
	Devices       []Device `json:"devices"`
}

// Manager wraps the active backend for long-running services. It logs and
// records metrics for every operation. It adds no locking around the
// current device: callers of SetDevice and Free share the backend's
// process-wide state.
type Manager struct {
	backend Backend
	logger  *zap.Logger

	mu      sync.Mutex
	devices []Device
}

// NewManager creates a manager over the backend compiled into this binary.
func NewManager(logger *zap.Logger) *Manager {
	return NewManagerWithBackend(Default(), logger)
}

// NewManagerWithBackend creates a manager over b.
func NewManagerWithBackend(b Backend, logger *zap.Logger) *Manager {
	logger = nilLogger(logger).Named("device_manager")
	logger.Info("device backend selected",
		zap.String("backend", b.Name()),
		zap.Stringer("model", b.Model()))
	return &Manager{
		backend: b,
		logger:  logger,
	}
}

// Backend returns the managed backend.
func (m *Manager) Backend() Backend {
	return m.backend
}

// GetBackendType returns the name of the managed backend.
func (m *Manager) GetBackendType() string {
	return m.backend.Name()
}

// IsGPUAvailable reports whether the backend sees at least one device.
func (m *Manager) IsGPUAvailable() bool {
	n, err := m.DeviceCount()
	return err == nil && n > 0
}

// Activate makes id the current device. Negative ids leave the current
// device untouched.
func (m *Manager) Activate(id int) error {
	if id < 0 {
		return nil
	}
	if err := m.SetDevice(id); err != nil {
		return err
	}
	m.logger.Info("default device activated", zap.Int("device", id))
	return nil
}

func (m *Manager) DeviceCount() (n int, err error) {
	defer m.observe("DeviceCount", time.Now(), &err)
	n, err = m.backend.DeviceCount()
	if err == nil {
		metrics.DeviceCount.Set(float64(n))
	}
	return n, err
}

// EnumerateDevices refreshes the manager's device list and returns a copy.
func (m *Manager) EnumerateDevices() (devices []Device, err error) {
	defer m.observe("EnumerateDevices", time.Now(), &err)
	m.mu.Lock()
	defer m.mu.Unlock()

	m.devices, err = m.backend.EnumerateDevices(m.devices)
	if err != nil {
		return nil, err
	}
	metrics.DeviceCount.Set(float64(len(m.devices)))
	devices = make([]Device, len(m.devices))
	copy(devices, m.devices)
	return devices, nil
}

func (m *Manager) SetDevice(id int) (err error) {
	defer m.observe("SetDevice", time.Now(), &err)
	if err = m.backend.SetDevice(id); err != nil {
		return err
	}
	metrics.DeviceCurrent.Set(float64(id))
	return nil
}

func (m *Manager) GetDevice() (id int, err error) {
	defer m.observe("GetDevice", time.Now(), &err)
	return m.backend.GetDevice()
}

// CurrentDevice returns the current device or -1. It never fails.
func (m *Manager) CurrentDevice() int {
	id := m.backend.currentDevice()
	metrics.DeviceCurrent.Set(float64(id))
	return id
}

func (m *Manager) Free(ptr unsafe.Pointer) (err error) {
	defer m.observe("Free", time.Now(), &err)
	return m.backend.Free(ptr)
}

func (m *Manager) FreeOnQueue(ptr unsafe.Pointer, q Queue) (err error) {
	defer m.observe("FreeOnQueue", time.Now(), &err)
	return m.backend.FreeOnQueue(ptr, q)
}

func (m *Manager) FreeHost(ptr unsafe.Pointer) (err error) {
	defer m.observe("FreeHost", time.Now(), &err)
	return m.backend.FreeHost(ptr)
}

func (m *Manager) FreeHostOnQueue(ptr unsafe.Pointer, q Queue) (err error) {
	defer m.observe("FreeHostOnQueue", time.Now(), &err)
	return m.backend.FreeHostOnQueue(ptr, q)
}

// Info returns a snapshot of the backend. Enumeration failures are returned;
// the current device is read with the tolerant getter.
func (m *Manager) Info() (Info, error) {
	devices, err := m.EnumerateDevices()
	if err != nil {
		return Info{}, err
	}
	return Info{
		Backend:       m.backend.Name(),
		Model:         m.backend.Model().String(),
		DeviceCount:   len(devices),
		CurrentDevice: m.CurrentDevice(),
		Devices:       devices,
	}, nil
}

func (m *Manager) observe(op string, start time.Time, errp *error) {
	metrics.DeviceOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	result := metrics.ResultSuccess
	if err := *errp; err != nil {
		switch {
		case errors.Is(err, ErrUnsupported):
			result = metrics.ResultUnsupported
		case errors.Is(err, ErrNotAvailable):
			result = metrics.ResultUnavailable
		default:
			result = metrics.ResultError
		}
		m.logger.Debug("device operation failed", zap.String("operation", op), zap.Error(err))
	}
	metrics.DeviceOperations.WithLabelValues(m.backend.Name(), op, result).Inc()
}
