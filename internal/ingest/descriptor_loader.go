package ingest

import (
	"strings"

	"github.com/aleister1102/pkgdelta/internal/common"
	"github.com/aleister1102/pkgdelta/internal/models"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// PackageDescriptor is the parsed metadata sidecar of one package version:
// identity plus declared dependencies grouped by kind.
type PackageDescriptor struct {
	Name         string                               `yaml:"name" json:"name"`
	Version      string                               `yaml:"version" json:"version"`
	Release      string                               `yaml:"release,omitempty" json:"release,omitempty"`
	Dependencies map[string][]models.DependencyRecord `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
}

// DependencySet converts the descriptor's dependency lists into keyed
// tables. Duplicate names within a kind keep the last record.
func (pd *PackageDescriptor) DependencySet() models.DependencySet {
	set := make(models.DependencySet, len(pd.Dependencies))
	for kind, records := range pd.Dependencies {
		table := make(models.DependencyTable, len(records))
		for _, record := range records {
			table[record.Name] = record
		}
		set[kind] = table
	}
	return set
}

// DescriptorLoader parses package descriptor files. YAML and JSON are both
// accepted; JSON parses as a YAML subset.
type DescriptorLoader struct {
	fileManager *common.FileManager
	logger      zerolog.Logger
}

// NewDescriptorLoader creates a new DescriptorLoader
func NewDescriptorLoader(fileManager *common.FileManager, logger zerolog.Logger) *DescriptorLoader {
	return &DescriptorLoader{
		fileManager: fileManager,
		logger:      logger.With().Str("component", "DescriptorLoader").Logger(),
	}
}

// Load parses one descriptor file. A missing or malformed descriptor is a
// structural failure; an empty path returns an empty descriptor so runs
// without metadata still compare file sets.
func (dl *DescriptorLoader) Load(path string) (*PackageDescriptor, error) {
	if strings.TrimSpace(path) == "" {
		return &PackageDescriptor{}, nil
	}

	data, err := dl.fileManager.ReadFile(path, common.DefaultFileReadOptions())
	if err != nil {
		return nil, common.NewStructuralError(path, "descriptor is not readable")
	}

	var descriptor PackageDescriptor
	if err := yaml.Unmarshal(data, &descriptor); err != nil {
		return nil, common.NewStructuralError(path, "descriptor is malformed: "+err.Error())
	}

	dl.logger.Debug().
		Str("path", path).
		Str("package", descriptor.Name).
		Str("version", descriptor.Version).
		Int("dependency_kinds", len(descriptor.Dependencies)).
		Msg("Descriptor loaded")

	return &descriptor, nil
}
