//go:build cudaasync
// +build cudaasync

package device

/*
#include <cuda_runtime.h>
*/
import "C"
import (
	"unsafe"

	"go.uber.org/zap"
)

// FreeAsync returns ptr to its pool in the order of stream.
func (r cudartRuntime) FreeAsync(ptr unsafe.Pointer, stream Stream) Status {
	return Status(C.cudaFreeAsync(ptr, cudaStream(stream)))
}

// newRuntimeBackend returns the CUDA stream-ordered backend
func newRuntimeBackend(logger *zap.Logger) Backend {
	logger.Info("Using CUDA stream-ordered device backend")
	return NewExplicitBackend(cudartRuntime{name: "cuda-async"}, logger)
}
