package models

// ParquetFileRecord is the flattened per-file row written to the report
// artifact. Optional columns use pointers so absent values stay null.
type ParquetFileRecord struct {
	LogicalPath string   `parquet:"logical_path,zstd"`
	OldPath     *string  `parquet:"old_path,zstd,optional"`
	NewPath     *string  `parquet:"new_path,zstd,optional"`
	Status      string   `parquet:"status,zstd"`
	Format      string   `parquet:"format,zstd"`
	OldSize     *int64   `parquet:"old_size,zstd,optional"`
	NewSize     *int64   `parquet:"new_size,zstd,optional"`
	Rate        *float64 `parquet:"rate,zstd,optional"`
	DiffRef     *string  `parquet:"diff_ref,zstd,optional"`
	SkipReason  *string  `parquet:"skip_reason,zstd,optional"`
	Timestamp   int64    `parquet:"timestamp,zstd"`
}
