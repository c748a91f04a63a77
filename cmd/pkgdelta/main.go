package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aleister1102/pkgdelta/internal/comparator"
	"github.com/aleister1102/pkgdelta/internal/config"
	"github.com/aleister1102/pkgdelta/internal/datastore"
	"github.com/aleister1102/pkgdelta/internal/logger"
	"github.com/aleister1102/pkgdelta/internal/models"
	"github.com/rs/zerolog"
)

// Exit codes: unchanged packages exit 0, detected differences exit 1,
// failures exit 2.
const (
	exitUnchanged = 0
	exitChanged   = 1
	exitError     = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	flags := ParseFlags()

	gCfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile, zerolog.Nop())
	if err != nil {
		log.Printf("[FATAL] Could not load global config using path '%s': %v", flags.GlobalConfigFile, err)
		return exitError
	}

	if flags.OutputDir != "" {
		gCfg.StorageConfig.ParquetBasePath = flags.OutputDir
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		log.Printf("[FATAL] Configuration validation failed: %v", err)
		return exitError
	}

	runID := flags.RunID
	if runID == "" {
		runID = time.Now().Format("20060102-150405")
	}

	zLogger, err := logger.NewWithRunID(gCfg.LogConfig, runID)
	if err != nil {
		log.Printf("[FATAL] Could not initialize logger: %v", err)
		return exitError
	}
	zLogger.Info().Str("run_id", runID).Msg("pkgdelta starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		zLogger.Info().Str("signal", sig.String()).Msg("Received interrupt signal, canceling run")
		cancel()
	}()

	comp, err := comparator.NewComparator(gCfg, zLogger)
	if err != nil {
		zLogger.Error().Err(err).Msg("Failed to initialize comparator")
		return exitError
	}

	result, err := comp.Compare(ctx, comparator.ComparisonInput{
		OldTreePath:       flags.OldTreePath,
		NewTreePath:       flags.NewTreePath,
		OldDescriptorPath: flags.OldDescriptorPath,
		NewDescriptorPath: flags.NewDescriptorPath,
	})
	if err != nil {
		zLogger.Error().Err(err).Msg("Comparison failed")
		return exitError
	}

	if err := writeOutputs(ctx, gCfg, zLogger, runID, result); err != nil {
		zLogger.Error().Err(err).Msg("Failed to write outputs")
		return exitError
	}

	summary := result.Summary
	zLogger.Info().
		Int("total_files", summary.TotalFiles).
		Int("added", summary.AddedFiles).
		Int("removed", summary.RemovedFiles).
		Int("changed", summary.ChangedFiles).
		Int("skipped", summary.SkippedFiles).
		Float64("percent_affected", summary.PercentAffected).
		Msg("pkgdelta finished")

	if hasDifferences(result) {
		return exitChanged
	}
	return exitUnchanged
}

// writeOutputs persists artifacts first so DiffRef values land in the
// Parquet rows.
func writeOutputs(ctx context.Context, gCfg *config.GlobalConfig, zLogger zerolog.Logger, runID string, result *comparator.ComparisonResult) error {
	writer, err := datastore.NewReportWriter(&gCfg.StorageConfig, zLogger)
	if err != nil {
		return err
	}

	if err := writer.WriteArtifacts(runID, result.Artifacts, result.FileResult); err != nil {
		return err
	}
	if _, err := writer.WriteFileReport(ctx, runID, result.FileResult); err != nil {
		return err
	}
	if _, err := writer.WriteSummary(runID, result.Summary); err != nil {
		return err
	}
	return nil
}

// hasDifferences reports whether anything at all differs between versions.
func hasDifferences(result *comparator.ComparisonResult) bool {
	summary := result.Summary
	if summary.AddedFiles > 0 || summary.RemovedFiles > 0 || summary.ChangedFiles > 0 || summary.SkippedFiles > 0 {
		return true
	}
	for _, kindResult := range result.DependencyResults {
		for _, diff := range kindResult.Diffs {
			if diff.Status != models.DepUnchanged {
				return true
			}
		}
	}
	return false
}
