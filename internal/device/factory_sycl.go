//go:build sycl && !cuda && !cudaasync && !rocm
// +build sycl,!cuda,!cudaasync,!rocm

package device

/*
#cgo CFLAGS: -I${SRCDIR}/../../native/sycl
#cgo LDFLAGS: -L${SRCDIR}/../../native/sycl -ldevshim -lsycl
#include "devshim.h"
*/
import "C"
import (
	"unsafe"

	"go.uber.org/zap"
)

// syclRuntime binds SYCL through the devshim C library.
type syclRuntime struct{}

func (syclRuntime) Name() string { return "sycl" }

func (syclRuntime) ErrorString(st Status) string {
	return C.GoString(C.devshim_error_string(C.int(st)))
}

func (syclRuntime) Platforms() ([]Platform, Status) {
	var cPlatforms *C.devshim_platform_t
	var count C.int
	if st := C.devshim_get_platforms(&cPlatforms, &count); st != C.DEVSHIM_SUCCESS {
		return nil, Status(st)
	}
	defer C.devshim_release_platforms(cPlatforms, count)

	platforms := make([]Platform, 0, int(count))
	for _, cp := range unsafe.Slice(cPlatforms, int(count)) {
		p := Platform{
			Name:   C.GoString(&cp.name[0]),
			Vendor: C.GoString(&cp.vendor[0]),
		}
		for _, cd := range unsafe.Slice(cp.devices, int(cp.device_count)) {
			p.Devices = append(p.Devices, Device{
				Name:        C.GoString(&cd.name[0]),
				Vendor:      C.GoString(&cd.vendor[0]),
				Platform:    p.Name,
				Type:        syclDeviceType(cd._type),
				TotalMemory: uint64(cd.global_mem_size),
				Handle:      cd.handle,
			})
		}
		platforms = append(platforms, p)
	}
	return platforms, StatusSuccess
}

func (syclRuntime) Free(ptr unsafe.Pointer, queue Stream) Status {
	return Status(C.devshim_free(ptr, unsafe.Pointer(queue)))
}

func syclDeviceType(t C.int) DeviceType {
	switch t {
	case C.DEVSHIM_DEVICE_GPU:
		return TypeGPU
	case C.DEVSHIM_DEVICE_CPU:
		return TypeCPU
	case C.DEVSHIM_DEVICE_ACCELERATOR:
		return TypeAccelerator
	case C.DEVSHIM_DEVICE_HOST:
		return TypeHost
	default:
		return TypeUnknown
	}
}

// newRuntimeBackend returns the SYCL backend
func newRuntimeBackend(logger *zap.Logger) Backend {
	logger.Info("Using SYCL device backend")
	return NewContextFreeBackend(syclRuntime{}, logger)
}
