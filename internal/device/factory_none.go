//go:build !cuda && !cudaasync && !rocm && !sycl
// +build !cuda,!cudaasync,!rocm,!sycl

package device

import "go.uber.org/zap"

// newRuntimeBackend returns the backend for builds without accelerator support
func newRuntimeBackend(logger *zap.Logger) Backend {
	logger.Info("Using no device backend (compiled without accelerator support)")
	return NewNoBackend()
}
