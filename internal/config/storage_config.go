package config

// StorageConfig defines configuration for the report artifact store
type StorageConfig struct {
	CompressionCodec string `json:"compression_codec,omitempty" yaml:"compression_codec,omitempty"`
	ParquetBasePath  string `json:"parquet_base_path,omitempty" yaml:"parquet_base_path,omitempty"`
	// EmitDiffArtifacts controls whether per-pair patch files are written
	// alongside the parquet report.
	EmitDiffArtifacts bool `json:"emit_diff_artifacts,omitempty" yaml:"emit_diff_artifacts,omitempty"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		CompressionCodec:  DefaultStorageCompressionCodec,
		ParquetBasePath:   DefaultStorageParquetBasePath,
		EmitDiffArtifacts: true,
	}
}
