package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// RuntimeMetrics records the process footprint of a run
type RuntimeMetrics struct {
	goRoutines    metric.Int64Gauge
	heapAlloc     metric.Int64Gauge
	totalAlloc    metric.Int64Gauge
	memorySystem  metric.Int64Gauge
	gcCount       metric.Int64Gauge
	processUptime metric.Float64Gauge
}

// RuntimeStats holds a snapshot of the Go runtime
type RuntimeStats struct {
	GoRoutines    int64
	HeapAlloc     int64
	TotalAlloc    int64
	MemorySystem  int64
	GCCount       uint32
	ProcessUptime time.Duration
}

// NewRuntimeMetrics creates the runtime gauges on meter
func NewRuntimeMetrics(meter metric.Meter) (*RuntimeMetrics, error) {
	goRoutines, err := meter.Int64Gauge(
		"runtime_goroutines",
		metric.WithDescription("Number of goroutines"),
	)
	if err != nil {
		return nil, err
	}

	heapAlloc, err := meter.Int64Gauge(
		"runtime_heap_alloc_bytes",
		metric.WithDescription("Bytes of allocated heap objects"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	totalAlloc, err := meter.Int64Gauge(
		"runtime_total_alloc_bytes",
		metric.WithDescription("Cumulative bytes allocated for heap objects"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	memorySystem, err := meter.Int64Gauge(
		"runtime_memory_system_bytes",
		metric.WithDescription("Memory obtained from the OS in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	gcCount, err := meter.Int64Gauge(
		"runtime_gc_cycles",
		metric.WithDescription("Completed garbage collection cycles"),
	)
	if err != nil {
		return nil, err
	}

	processUptime, err := meter.Float64Gauge(
		"runtime_process_uptime_seconds",
		metric.WithDescription("Process uptime in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &RuntimeMetrics{
		goRoutines:    goRoutines,
		heapAlloc:     heapAlloc,
		totalAlloc:    totalAlloc,
		memorySystem:  memorySystem,
		gcCount:       gcCount,
		processUptime: processUptime,
	}, nil
}

// Collect snapshots the runtime and records it
func (rm *RuntimeMetrics) Collect(ctx context.Context, startTime time.Time) *RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := &RuntimeStats{
		GoRoutines:    int64(runtime.NumGoroutine()),
		HeapAlloc:     int64(memStats.HeapAlloc),
		TotalAlloc:    int64(memStats.TotalAlloc),
		MemorySystem:  int64(memStats.Sys),
		GCCount:       memStats.NumGC,
		ProcessUptime: time.Since(startTime),
	}

	if rm == nil {
		return stats
	}

	rm.goRoutines.Record(ctx, stats.GoRoutines)
	rm.heapAlloc.Record(ctx, stats.HeapAlloc)
	rm.totalAlloc.Record(ctx, stats.TotalAlloc)
	rm.memorySystem.Record(ctx, stats.MemorySystem)
	rm.gcCount.Record(ctx, int64(stats.GCCount))
	rm.processUptime.Record(ctx, stats.ProcessUptime.Seconds())

	return stats
}
