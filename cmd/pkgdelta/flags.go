package main

import (
	"flag"
	"fmt"
	"os"
)

// AppFlags holds the parsed command-line arguments of one invocation.
type AppFlags struct {
	OldTreePath       string
	NewTreePath       string
	OldDescriptorPath string
	NewDescriptorPath string
	GlobalConfigFile  string
	OutputDir         string
	RunID             string
}

// ParseFlags parses and consolidates all command-line flags. The two tree
// paths are required; everything else has a default.
func ParseFlags() AppFlags {
	oldTree := flag.String("old", "", "Path to the extracted tree of the old package version.")
	oldTreeAlias := flag.String("o", "", "Alias for -old")

	newTree := flag.String("new", "", "Path to the extracted tree of the new package version.")
	newTreeAlias := flag.String("n", "", "Alias for -new")

	oldDescriptor := flag.String("old-desc", "", "Path to the old version's package descriptor (YAML/JSON). Optional.")
	newDescriptor := flag.String("new-desc", "", "Path to the new version's package descriptor (YAML/JSON). Optional.")

	globalConfigFile := flag.String("config", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := flag.String("c", "", "Alias for -config")

	outputDir := flag.String("output", "", "Report output directory (overrides storage_config.parquet_base_path).")
	runID := flag.String("run-id", "", "Identifier for this run's output directory. Defaults to a timestamp.")

	flag.Parse()

	flags := AppFlags{
		OldDescriptorPath: *oldDescriptor,
		NewDescriptorPath: *newDescriptor,
		OutputDir:         *outputDir,
		RunID:             *runID,
	}

	if *oldTree != "" {
		flags.OldTreePath = *oldTree
	} else if *oldTreeAlias != "" {
		flags.OldTreePath = *oldTreeAlias
	}

	if *newTree != "" {
		flags.NewTreePath = *newTree
	} else if *newTreeAlias != "" {
		flags.NewTreePath = *newTreeAlias
	}

	if *globalConfigFile != "" {
		flags.GlobalConfigFile = *globalConfigFile
	} else if *globalConfigFileAlias != "" {
		flags.GlobalConfigFile = *globalConfigFileAlias
	}

	if flags.OldTreePath == "" || flags.NewTreePath == "" {
		fmt.Fprintln(os.Stderr, "[FATAL] both -old and -new tree paths are required")
		flag.Usage()
		os.Exit(exitError)
	}

	return flags
}
