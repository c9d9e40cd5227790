//go:build cuda || cudaasync
// +build cuda cudaasync

package device

/*
#cgo LDFLAGS: -lcudart
#include <cuda_runtime.h>
#include <stdlib.h>
*/
import "C"
import (
	"fmt"
	"unsafe"
)

// cudartRuntime binds the CUDA runtime API.
type cudartRuntime struct {
	name string
}

func (r cudartRuntime) Name() string { return r.name }

// ErrorString converts a CUDA error code to its runtime description
func (r cudartRuntime) ErrorString(st Status) string {
	msg := C.cudaGetErrorString(C.cudaError_t(st))
	if msg == nil {
		return fmt.Sprintf("Unknown error (%d)", int(st))
	}
	return C.GoString(msg)
}

func (r cudartRuntime) IsNoDevice(st Status) bool {
	return C.cudaError_t(st) == C.cudaErrorNoDevice
}

func (r cudartRuntime) DeviceCount() (int, Status) {
	var n C.int
	st := C.cudaGetDeviceCount(&n)
	return int(n), Status(st)
}

func (r cudartRuntime) DeviceInfo(id int) (Device, Status) {
	var prop C.struct_cudaDeviceProp
	st := C.cudaGetDeviceProperties(&prop, C.int(id))
	if st != C.cudaSuccess {
		return Device{}, Status(st)
	}
	return Device{
		Name:              C.GoString(&prop.name[0]),
		Vendor:            "NVIDIA",
		Platform:          "CUDA",
		Type:              TypeGPU,
		TotalMemory:       uint64(prop.totalGlobalMem),
		ComputeCapability: fmt.Sprintf("%d.%d", int(prop.major), int(prop.minor)),
	}, StatusSuccess
}

func (r cudartRuntime) SetDevice(id int) Status {
	return Status(C.cudaSetDevice(C.int(id)))
}

func (r cudartRuntime) GetDevice() (int, Status) {
	dev := C.int(-1)
	st := C.cudaGetDevice(&dev)
	return int(dev), Status(st)
}

// cudaStream converts an opaque stream handle to the runtime type.
func cudaStream(s Stream) C.cudaStream_t {
	return C.cudaStream_t(unsafe.Pointer(s))
}
