//go:build rocm && !cuda && !cudaasync
// +build rocm,!cuda,!cudaasync

package device

/*
#cgo CFLAGS: -D__HIP_PLATFORM_AMD__ -I/opt/rocm/include
#cgo LDFLAGS: -L/opt/rocm/lib -lamdhip64
#include <hip/hip_runtime_api.h>
*/
import "C"
import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"
)

// hipRuntime binds the HIP runtime API.
type hipRuntime struct{}

func (hipRuntime) Name() string { return "rocm" }

func (hipRuntime) ErrorString(st Status) string {
	msg := C.hipGetErrorString(C.hipError_t(st))
	if msg == nil {
		return fmt.Sprintf("Unknown error (%d)", int(st))
	}
	return C.GoString(msg)
}

func (hipRuntime) IsNoDevice(st Status) bool {
	return C.hipError_t(st) == C.hipErrorNoDevice
}

func (hipRuntime) DeviceCount() (int, Status) {
	var n C.int
	st := C.hipGetDeviceCount(&n)
	return int(n), Status(st)
}

func (hipRuntime) DeviceInfo(id int) (Device, Status) {
	var prop C.hipDeviceProp_t
	st := C.hipGetDeviceProperties(&prop, C.int(id))
	if st != C.hipSuccess {
		return Device{}, Status(st)
	}
	return Device{
		Name:              C.GoString(&prop.name[0]),
		Vendor:            "AMD",
		Platform:          "ROCm",
		Type:              TypeGPU,
		TotalMemory:       uint64(prop.totalGlobalMem),
		ComputeCapability: C.GoString(&prop.gcnArchName[0]),
	}, StatusSuccess
}

func (hipRuntime) SetDevice(id int) Status {
	return Status(C.hipSetDevice(C.int(id)))
}

func (hipRuntime) GetDevice() (int, Status) {
	dev := C.int(-1)
	st := C.hipGetDevice(&dev)
	return int(dev), Status(st)
}

func (hipRuntime) Free(ptr unsafe.Pointer) Status {
	return Status(C.hipFree(ptr))
}

func (hipRuntime) FreeHost(ptr unsafe.Pointer) Status {
	return Status(C.hipHostFree(ptr))
}

// newRuntimeBackend returns the HIP backend
func newRuntimeBackend(logger *zap.Logger) Backend {
	logger.Info("Using ROCm device backend")
	return NewImplicitBackend(hipRuntime{}, logger)
}
