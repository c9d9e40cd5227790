//go:build cuda && !cudaasync
// +build cuda,!cudaasync

package device

/*
#include <cuda_runtime.h>
*/
import "C"
import (
	"unsafe"

	"go.uber.org/zap"
)

func (r cudartRuntime) Free(ptr unsafe.Pointer) Status {
	return Status(C.cudaFree(ptr))
}

func (r cudartRuntime) FreeHost(ptr unsafe.Pointer) Status {
	return Status(C.cudaFreeHost(ptr))
}

// newRuntimeBackend returns the CUDA runtime backend
func newRuntimeBackend(logger *zap.Logger) Backend {
	logger.Info("Using CUDA device backend")
	return NewImplicitBackend(cudartRuntime{name: "cuda"}, logger)
}
