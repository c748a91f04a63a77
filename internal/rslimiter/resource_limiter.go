// Package rslimiter keeps the rate-computation pool from overwhelming the
// host: it shrinks the worker count under memory or CPU pressure and vetoes
// new dispatches when the process itself grows past its memory budget.
package rslimiter

import (
	"fmt"
	"runtime"

	"github.com/aleister1102/pkgdelta/internal/config"
	"github.com/rs/zerolog"
)

// ResourceLimiter implements the differ's ResourceAdvisor contract for a
// single comparison run. It is stateless between calls; every decision reads
// a fresh usage snapshot.
type ResourceLimiter struct {
	config config.ResourceLimiterConfig
	logger zerolog.Logger
}

// NewResourceLimiter creates a new resource limiter
func NewResourceLimiter(cfg config.ResourceLimiterConfig, logger zerolog.Logger) *ResourceLimiter {
	return &ResourceLimiter{
		config: cfg,
		logger: logger.With().Str("component", "ResourceLimiter").Logger(),
	}
}

// RecommendWorkers shrinks the requested pool size when the host is under
// memory or CPU pressure, and never recommends fewer than one worker.
func (rl *ResourceLimiter) RecommendWorkers(requested int) int {
	return rl.recommendFromUsage(requested, GetResourceUsage())
}

// recommendFromUsage applies the sizing policy to one usage snapshot.
func (rl *ResourceLimiter) recommendFromUsage(requested int, usage ResourceUsage) int {
	workers := requested
	if workers < 1 {
		workers = 1
	}

	pressured := false
	if rl.config.SystemMemThreshold > 0 && usage.SystemMemUsedPercent/100.0 > rl.config.SystemMemThreshold {
		pressured = true
		rl.logger.Warn().
			Float64("used_percent", usage.SystemMemUsedPercent).
			Float64("threshold_percent", rl.config.SystemMemThreshold*100).
			Msg("System memory pressure, shrinking worker pool")
	}
	if rl.config.CPUThreshold > 0 && usage.CPUUsagePercent/100.0 > rl.config.CPUThreshold {
		pressured = true
		rl.logger.Warn().
			Float64("cpu_percent", usage.CPUUsagePercent).
			Float64("threshold_percent", rl.config.CPUThreshold*100).
			Msg("CPU pressure, shrinking worker pool")
	}

	if pressured {
		workers /= 2
		if workers < 1 {
			workers = 1
		}
	}
	return workers
}

// AllowDispatch vetoes new work when process memory exceeds the configured
// budget. A zero budget disables the check.
func (rl *ResourceLimiter) AllowDispatch() error {
	if rl.config.MaxMemoryMB <= 0 {
		return nil
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	currentMB := int64(m.Alloc / 1024 / 1024)
	if currentMB > rl.config.MaxMemoryMB {
		return fmt.Errorf("memory limit exceeded: current %dMB > limit %dMB", currentMB, rl.config.MaxMemoryMB)
	}
	return nil
}

// LogUsage emits one debug-level usage snapshot.
func (rl *ResourceLimiter) LogUsage() {
	usage := GetResourceUsage()
	rl.logger.Debug().
		Int64("alloc_mb", usage.AllocMB).
		Int64("sys_mb", usage.SysMB).
		Int("goroutines", usage.Goroutines).
		Int64("gc_count", usage.GCCount).
		Float64("system_mem_percent", usage.SystemMemUsedPercent).
		Float64("cpu_percent", usage.CPUUsagePercent).
		Msg("Current resource usage")
}
