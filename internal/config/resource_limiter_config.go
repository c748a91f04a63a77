package config

// ResourceLimiterConfig defines configuration for resource limiting
type ResourceLimiterConfig struct {
	// MaxMemoryMB vetoes worker dispatch when process memory exceeds it.
	MaxMemoryMB int64 `json:"max_memory_mb,omitempty" yaml:"max_memory_mb,omitempty" validate:"min=0"`
	// SystemMemThreshold shrinks the worker pool when system memory usage
	// exceeds this fraction.
	SystemMemThreshold float64 `json:"system_mem_threshold,omitempty" yaml:"system_mem_threshold,omitempty" validate:"gte=0,lte=1"`
	// CPUThreshold shrinks the worker pool when CPU usage exceeds this
	// fraction.
	CPUThreshold float64 `json:"cpu_threshold,omitempty" yaml:"cpu_threshold,omitempty" validate:"gte=0,lte=1"`
}

// NewDefaultResourceLimiterConfig creates default resource limiter configuration
func NewDefaultResourceLimiterConfig() ResourceLimiterConfig {
	return ResourceLimiterConfig{
		MaxMemoryMB:        DefaultMaxMemoryMB,
		SystemMemThreshold: 0.9,
		CPUThreshold:       0.9,
	}
}
