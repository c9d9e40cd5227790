package device

import (
	"fmt"
	"unsafe"
)

// Model describes how a backend tracks which device an operation targets.
type Model int

const (
	// NoBackend is compiled in when no accelerator build tag is set.
	NoBackend Model = iota
	// ImplicitContext backends keep a process-wide current device that every
	// context-free call uses (CUDA, HIP).
	ImplicitContext
	// ExplicitContext backends still expose the current-device calls but free
	// memory on the stream carried by a queue (CUDA stream-ordered pools).
	ExplicitContext
	// ContextFree backends have no current-device concept at all; every free
	// needs a queue (SYCL).
	ContextFree
)

func (m Model) String() string {
	switch m {
	case NoBackend:
		return "none"
	case ImplicitContext:
		return "implicit-context"
	case ExplicitContext:
		return "explicit-context"
	case ContextFree:
		return "context-free"
	default:
		return fmt.Sprintf("Model(%d)", int(m))
	}
}

// DeviceType is the class of a device reported by a platform.
type DeviceType int

const (
	TypeUnknown DeviceType = iota
	TypeGPU
	TypeCPU
	TypeAccelerator
	TypeHost
)

func (t DeviceType) String() string {
	switch t {
	case TypeGPU:
		return "gpu"
	case TypeCPU:
		return "cpu"
	case TypeAccelerator:
		return "accelerator"
	case TypeHost:
		return "host"
	default:
		return "unknown"
	}
}

// MarshalText lets DeviceType render as its name in JSON and YAML.
func (t DeviceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText maps unknown names to TypeUnknown.
func (t *DeviceType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "gpu":
		*t = TypeGPU
	case "cpu":
		*t = TypeCPU
	case "accelerator":
		*t = TypeAccelerator
	case "host":
		*t = TypeHost
	default:
		*t = TypeUnknown
	}
	return nil
}

// Device contains information about one accelerator device
type Device struct {
	ID                int        `json:"id"`
	Name              string     `json:"name"`
	Vendor            string     `json:"vendor,omitempty"`
	Platform          string     `json:"platform,omitempty"`
	Type              DeviceType `json:"type"`
	TotalMemory       uint64     `json:"totalMemory"` // in bytes
	ComputeCapability string     `json:"computeCapability,omitempty"`

	// Handle is the native device object for context-free backends.
	Handle unsafe.Pointer `json:"-"`
}

// Platform is a group of devices exposed by one driver.
type Platform struct {
	Name    string
	Vendor  string
	Devices []Device
}

// Stream is an opaque native execution stream or queue handle.
type Stream unsafe.Pointer

// Status is a raw result code returned by a native runtime call.
type Status int

// StatusSuccess is the success code shared by every runtime binding.
const StatusSuccess Status = 0

// Queue is an execution queue owned by the caller. This package only reads
// the device it is bound to and its native stream.
type Queue interface {
	Device() int
	Stream() Stream
}

// BoundQueue is a Queue over an existing stream. It does not own the stream.
type BoundQueue struct {
	DeviceID int
	Handle   Stream
}

// NewBoundQueue wraps a stream created elsewhere for use with the queue-scoped
// free operations.
func NewBoundQueue(deviceID int, stream Stream) *BoundQueue {
	return &BoundQueue{DeviceID: deviceID, Handle: stream}
}

func (q *BoundQueue) Device() int    { return q.DeviceID }
func (q *BoundQueue) Stream() Stream { return q.Handle }
