package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	EndpointResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "endpoint_responses_total",
		Help: "The total number of endpoint responses",
	}, []string{"endpoint", "method", "status_code"})

	EndpointDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "endpoint_duration_seconds",
		Help:    "Duration of endpoint requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "method"})

	// Device operation metrics
	DeviceOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "device_operations_total",
		Help: "Total number of device operations by backend, operation and result",
	}, []string{"backend", "operation", "result"})

	DeviceOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "device_operation_duration_seconds",
		Help:    "Duration of device operations in seconds",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12), // 1us to ~4s
	}, []string{"operation"})

	DeviceCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "device_count",
		Help: "Number of accelerator devices reported by the backend",
	})

	DeviceCurrent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "device_current",
		Help: "Current device of the process, -1 when the backend has none",
	})
)

// Result labels for DeviceOperations.
const (
	ResultSuccess     = "success"
	ResultUnsupported = "unsupported"
	ResultUnavailable = "unavailable"
	ResultError       = "error"
)
