// Package datastore persists comparison outputs: the per-file Parquet
// report, the JSON summary, and the per-pair patch artifacts. Everything is
// written under one run directory; nothing is read back between runs.
package datastore

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/aleister1102/pkgdelta/internal/common"
	"github.com/aleister1102/pkgdelta/internal/config"
	"github.com/aleister1102/pkgdelta/internal/models"
	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"
)

// ReportWriter writes all artifacts of one comparison run.
type ReportWriter struct {
	config      *config.StorageConfig
	logger      zerolog.Logger
	fileManager *common.FileManager
	transformer *RecordTransformer
}

// ReportWriterBuilder provides a fluent interface for creating a ReportWriter
type ReportWriterBuilder struct {
	config *config.StorageConfig
	logger zerolog.Logger
}

// NewReportWriterBuilder creates a new ReportWriterBuilder
func NewReportWriterBuilder(logger zerolog.Logger) *ReportWriterBuilder {
	return &ReportWriterBuilder{
		logger: logger.With().Str("component", "ReportWriter").Logger(),
	}
}

// WithStorageConfig sets the storage configuration
func (b *ReportWriterBuilder) WithStorageConfig(cfg *config.StorageConfig) *ReportWriterBuilder {
	b.config = cfg
	return b
}

// Build creates a new ReportWriter instance
func (b *ReportWriterBuilder) Build() (*ReportWriter, error) {
	if b.config == nil {
		return nil, common.NewValidationError("config", b.config, "storage config cannot be nil")
	}
	if b.config.ParquetBasePath == "" {
		return nil, common.NewValidationError("parquet_base_path", b.config.ParquetBasePath, "ParquetBasePath is not configured")
	}

	return &ReportWriter{
		config:      b.config,
		logger:      b.logger,
		fileManager: common.NewFileManager(b.logger),
		transformer: NewRecordTransformer(b.logger),
	}, nil
}

// NewReportWriter creates a new ReportWriter using builder pattern
func NewReportWriter(cfg *config.StorageConfig, logger zerolog.Logger) (*ReportWriter, error) {
	return NewReportWriterBuilder(logger).
		WithStorageConfig(cfg).
		Build()
}

// WriteResult contains the result of a write operation
type WriteResult struct {
	FilePath       string
	RecordsWritten int
	FileSize       int64
	WriteTime      time.Duration
}

// RunDir returns the output directory for one run, creating it if needed.
func (rw *ReportWriter) RunDir(runID string) (string, error) {
	dir := filepath.Join(rw.config.ParquetBasePath, SanitizePathFilename(runID))
	if err := rw.fileManager.EnsureDirectory(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// WriteFileReport writes the per-file Parquet report for one run. Rows are
// emitted in sorted path order so the file is byte-stable across runs.
func (rw *ReportWriter) WriteFileReport(ctx context.Context, runID string, result *models.ReconcileResult) (*WriteResult, error) {
	startTime := time.Now()

	if result == nil {
		return nil, common.NewValidationError("result", result, "reconcile result cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := rw.RunDir(runID)
	if err != nil {
		return nil, err
	}
	filePath := filepath.Join(dir, "files.parquet")

	records := rw.transformRecords(result, startTime)

	written, err := rw.writeParquet(filePath, records)
	if err != nil {
		return nil, err
	}

	var fileSize int64
	if info, statErr := os.Stat(filePath); statErr == nil {
		fileSize = info.Size()
	}

	writeResult := &WriteResult{
		FilePath:       filePath,
		RecordsWritten: written,
		FileSize:       fileSize,
		WriteTime:      time.Since(startTime),
	}

	rw.logger.Info().
		Str("file_path", writeResult.FilePath).
		Int("records_written", writeResult.RecordsWritten).
		Dur("write_time", writeResult.WriteTime).
		Msg("Wrote file report")

	return writeResult, nil
}

// WriteSummary writes the aggregate summary as JSON next to the report.
func (rw *ReportWriter) WriteSummary(runID string, summary *models.ComparisonSummary) (string, error) {
	if summary == nil {
		return "", common.NewValidationError("summary", summary, "summary cannot be nil")
	}

	dir, err := rw.RunDir(runID)
	if err != nil {
		return "", err
	}
	filePath := filepath.Join(dir, "summary.json")

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", common.WrapError(err, "failed to marshal summary")
	}
	if err := rw.fileManager.WriteFile(filePath, data, 0644); err != nil {
		return "", err
	}

	return filePath, nil
}

// WriteArtifacts renders each patch artifact into a .patch file under the
// run's diffs directory and stamps the owning pair's DiffRef with the
// relative path. Disabled entirely by configuration.
func (rw *ReportWriter) WriteArtifacts(runID string, artifacts map[string]*models.PatchArtifact, result *models.ReconcileResult) error {
	if !rw.config.EmitDiffArtifacts || len(artifacts) == 0 {
		return nil
	}

	dir, err := rw.RunDir(runID)
	if err != nil {
		return err
	}
	diffDir := filepath.Join(dir, "diffs")
	if err := rw.fileManager.EnsureDirectory(diffDir, 0755); err != nil {
		return err
	}

	keys := make([]string, 0, len(artifacts))
	for key := range artifacts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		artifact := artifacts[key]
		if artifact == nil || artifact.IsEmpty() {
			continue
		}

		fileName := SanitizePathFilename(key) + ".patch"
		if err := rw.fileManager.WriteFile(filepath.Join(diffDir, fileName), renderPatch(artifact), 0644); err != nil {
			return err
		}

		if pair, ok := result.Results[key]; ok {
			pair.DiffRef = filepath.Join("diffs", fileName)
		}
	}

	return nil
}

// transformRecords flattens the result table in sorted key order.
func (rw *ReportWriter) transformRecords(result *models.ReconcileResult, writeTime time.Time) []models.ParquetFileRecord {
	keys := make([]string, 0, len(result.Results))
	for key := range result.Results {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	records := make([]models.ParquetFileRecord, 0, len(keys))
	for _, key := range keys {
		records = append(records, rw.transformer.TransformPairResult(result.Results[key], writeTime))
	}
	return records
}

// writeParquet writes all records with the configured compression codec.
func (rw *ReportWriter) writeParquet(filePath string, records []models.ParquetFileRecord) (int, error) {
	file, err := os.Create(filePath)
	if err != nil {
		return 0, common.WrapError(err, "failed to create parquet file: "+filePath)
	}
	defer file.Close()

	return rw.writeParquetTo(file, records)
}

// writeParquetTo streams records into one parquet stream. Close is where
// parquet-go flushes row groups and writes the footer, so its error is the
// write's error: ignoring it would report success on a truncated file.
func (rw *ReportWriter) writeParquetTo(out io.Writer, records []models.ParquetFileRecord) (int, error) {
	writer := parquet.NewGenericWriter[models.ParquetFileRecord](out, rw.compressionOption())

	written, err := writer.Write(records)
	if err != nil {
		writer.Close()
		return 0, common.WrapError(err, "failed to write report records")
	}
	if err := writer.Close(); err != nil {
		return 0, common.WrapErrorf(err, "failed to finalize parquet report after %d records", written)
	}
	return written, nil
}

// compressionOption maps the configured codec name to a writer option.
func (rw *ReportWriter) compressionOption() parquet.WriterOption {
	switch rw.config.CompressionCodec {
	case "gzip":
		return parquet.Compression(&parquet.Gzip)
	case "snappy":
		return parquet.Compression(&parquet.Snappy)
	case "zstd":
		return parquet.Compression(&parquet.Zstd)
	default:
		return parquet.Compression(&parquet.Zstd)
	}
}

// renderPatch flattens an artifact into classic patch text.
func renderPatch(artifact *models.PatchArtifact) []byte {
	var buf []byte
	buf = append(buf, "--- "+artifact.OldPath+"\n"...)
	buf = append(buf, "+++ "+artifact.NewPath+"\n"...)
	for _, line := range artifact.Lines {
		switch line.Kind {
		case models.PatchAdded:
			buf = append(buf, '+')
		case models.PatchRemoved:
			buf = append(buf, '-')
		default:
			buf = append(buf, ' ')
		}
		buf = append(buf, line.Text...)
		buf = append(buf, '\n')
	}
	return buf
}
