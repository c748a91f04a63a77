package datastore

import (
	"time"

	"github.com/aleister1102/pkgdelta/internal/models"
	"github.com/rs/zerolog"
)

// RecordTransformer handles transformation of records
type RecordTransformer struct {
	logger zerolog.Logger
}

// NewRecordTransformer creates a new RecordTransformer
func NewRecordTransformer(logger zerolog.Logger) *RecordTransformer {
	return &RecordTransformer{
		logger: logger.With().Str("component", "RecordTransformer").Logger(),
	}
}

// TransformPairResult converts one reconciliation pair into its flattened
// report row.
func (rt *RecordTransformer) TransformPairResult(pair *models.PairResult, writeTime time.Time) models.ParquetFileRecord {
	record := models.ParquetFileRecord{
		LogicalPath: pair.Key(),
		Status:      string(pair.Status),
		Format:      string(rt.pairFormat(pair)),
		DiffRef:     StringPtrOrNil(pair.DiffRef),
		SkipReason:  StringPtrOrNil(pair.SkipReason),
		Timestamp:   writeTime.UnixMilli(),
	}

	if pair.OldEntry != nil {
		record.OldPath = StringPtrOrNil(pair.OldEntry.LogicalPath)
		record.OldSize = Int64PtrOrNilZero(pair.OldEntry.SizeBytes)
	}
	if pair.NewEntry != nil {
		record.NewPath = StringPtrOrNil(pair.NewEntry.LogicalPath)
		record.NewSize = Int64PtrOrNilZero(pair.NewEntry.SizeBytes)
	}
	if pair.HasRate {
		record.Rate = Float64Ptr(pair.Rate)
	}

	return record
}

// pairFormat picks the reported format: the new side wins when both exist.
func (rt *RecordTransformer) pairFormat(pair *models.PairResult) models.FormatTag {
	if pair.NewEntry != nil {
		return pair.NewEntry.Format
	}
	if pair.OldEntry != nil {
		return pair.OldEntry.Format
	}
	return models.FormatOther
}
