package config

const (
	// Storage Defaults
	DefaultStorageParquetBasePath  = "reports"
	DefaultStorageCompressionCodec = "zstd"

	// Differ Defaults
	DefaultDiffContextLines  = 3
	DefaultDiffMaxFileSizeMB = 10
	DefaultDiffTimeoutSecs   = 30
	DefaultDiffWorkers       = 4

	// Reconciler Defaults
	DefaultMovePrefixDepth      = 4
	DefaultRenameBaseRatio      = 0.55
	DefaultRenameMatchFactor    = 1.0
	DefaultSingletonMatchFactor = 2.0
	DefaultRenameRateCeiling    = 0.85
	DefaultMoveRateCeiling      = 0.90
	DefaultShortNameLength      = 8

	// Resource Limiter Defaults
	DefaultMaxMemoryMB     = 1024
	DefaultMaxWorkerFactor = 1.0
)
