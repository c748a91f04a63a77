// Package classifier assigns every file path exactly one symbolic format
// tag. Classification is deterministic, never fails, and never requires a
// successful content read: symlinks, directories, and unreadable files all
// resolve purely from the path.
package classifier

import (
	"path"
	"regexp"
	"strings"

	"github.com/aleister1102/pkgdelta/internal/common"
	"github.com/aleister1102/pkgdelta/internal/config"
	"github.com/aleister1102/pkgdelta/internal/models"
	"github.com/rs/zerolog"
)

// sharedObjectPattern matches versioned and unversioned shared-object
// names: libfoo.so, libfoo.so.1, libfoo.so.1.2.3.
var sharedObjectPattern = regexp.MustCompile(`\.so(\.[0-9]+)*$`)

// manpageSuffixPattern matches a single-digit numeric extension.
var manpageSuffixPattern = regexp.MustCompile(`\.[1-9]$`)

// ClassifyInput carries everything the classifier may consult for one path.
type ClassifyInput struct {
	LogicalPath  string
	PhysicalPath string
	IsDir        bool
	IsSymlink    bool
}

// Classifier maps file paths to format tags using the compiled rule tables
// and a content prober for the fallback steps.
type Classifier struct {
	rules  *RuleSet
	prober ContentProber
	logger zerolog.Logger
}

// ClassifierBuilder provides a fluent interface for creating a Classifier
type ClassifierBuilder struct {
	cfg    *config.ClassifierConfig
	prober ContentProber
	logger zerolog.Logger
}

// NewClassifierBuilder creates a new builder
func NewClassifierBuilder(logger zerolog.Logger) *ClassifierBuilder {
	return &ClassifierBuilder{
		logger: logger.With().Str("component", "Classifier").Logger(),
	}
}

// WithConfig sets the classifier rule tables
func (b *ClassifierBuilder) WithConfig(cfg *config.ClassifierConfig) *ClassifierBuilder {
	b.cfg = cfg
	return b
}

// WithProber sets the content prober
func (b *ClassifierBuilder) WithProber(prober ContentProber) *ClassifierBuilder {
	b.prober = prober
	return b
}

// Build creates a new Classifier instance
func (b *ClassifierBuilder) Build() (*Classifier, error) {
	if b.cfg == nil {
		return nil, common.NewValidationError("classifier_config", b.cfg, "classifier config cannot be nil")
	}

	prober := b.prober
	if prober == nil {
		prober = NewFileProber(b.logger)
	}

	return &Classifier{
		rules:  CompileRules(*b.cfg),
		prober: prober,
		logger: b.logger,
	}, nil
}

// NewClassifier creates a Classifier with the built-in prober.
func NewClassifier(cfg *config.ClassifierConfig, logger zerolog.Logger) (*Classifier, error) {
	return NewClassifierBuilder(logger).WithConfig(cfg).Build()
}

// Classify resolves the format tag for one path, memoizing the verdict in
// the per-run cache when one is supplied.
func (c *Classifier) Classify(input ClassifyInput, cache *Cache) models.FormatTag {
	if cache != nil {
		if tag, ok := cache.Get(input.LogicalPath); ok {
			return tag
		}
	}

	tag := c.classify(input)

	if cache != nil {
		cache.Put(input.LogicalPath, tag)
	}
	return tag
}

// classify runs the priority pipeline. First match wins; later steps only
// see paths every earlier step refused.
func (c *Classifier) classify(input ClassifyInput) models.FormatTag {
	// 1. path-type checks
	if input.IsSymlink {
		return models.FormatSymlink
	}
	if input.IsDir {
		return models.FormatDir
	}

	base := path.Base(input.LogicalPath)

	// 2. exact filename table
	if tag, ok := c.rules.MatchName(base); ok {
		return tag
	}

	// 3. source-control metadata trees
	if tag, ok := classifyScmPath(input.LogicalPath); ok {
		return tag
	}

	// 4. extensionless files under an include directory
	if tag, ok := classifyIncludeDir(input.LogicalPath, base); ok {
		return tag
	}

	// 5. name-pattern rules, compound extensions before single
	if tag, ok := c.rules.MatchPattern(base); ok {
		return tag
	}

	// 6. directory-context rules
	if tag, ok := classifyDirContext(input.LogicalPath, base); ok {
		return tag
	}

	// 7. shared-object name pattern with ASCII post-check
	if sharedObjectPattern.MatchString(base) {
		return c.classifySharedObject(input)
	}

	// 8. content-probe fallbacks
	if tag, ok := c.classifyByContent(input); ok {
		return tag
	}

	// 9. final fallback
	return c.rules.Fallback()
}

// classifyScmPath detects nested source-control metadata directories.
func classifyScmPath(logicalPath string) (models.FormatTag, bool) {
	for _, segment := range strings.Split(logicalPath, "/") {
		switch segment {
		case ".git", ".svn", ".hg", "CVS":
			return models.FormatScm, true
		}
	}
	return "", false
}

// classifyIncludeDir tags extensionless files living under an include
// directory as headers.
func classifyIncludeDir(logicalPath, base string) (models.FormatTag, bool) {
	if strings.Contains(base, ".") {
		return "", false
	}
	for _, segment := range strings.Split(path.Dir(logicalPath), "/") {
		if segment == "include" {
			return models.FormatHeader, true
		}
	}
	return "", false
}

// classifyDirContext applies directory-dependent rules: numeric single-digit
// suffixes inside man*/doc* directories are manpages, files under an info
// directory are info documents.
func classifyDirContext(logicalPath, base string) (models.FormatTag, bool) {
	parent := path.Base(path.Dir(logicalPath))

	if manpageSuffixPattern.MatchString(base) {
		if strings.HasPrefix(parent, "man") || strings.HasPrefix(parent, "doc") {
			return models.FormatManpage, true
		}
	}

	if parent == "info" && strings.Contains(base, ".info") {
		return models.FormatInfoDoc, true
	}

	return "", false
}

// classifySharedObject confirms a .so name is a real binary object. A .so
// file whose content is ASCII is a GNU ld linker script, not ELF, and
// misclassifying it breaks ELF-specific comparison downstream; this must be
// checked by content, not name.
func (c *Classifier) classifySharedObject(input ClassifyInput) models.FormatTag {
	head, err := c.prober.LeadingBytes(input.PhysicalPath, probeHeadSize)
	if err != nil {
		// unreadable content never blocks classification; trust the name
		return models.FormatSharedObject
	}

	if !IsASCIIText(head) {
		return models.FormatSharedObject
	}

	if LooksLikeLinkerScript(head) {
		return models.FormatLinkerScript
	}
	return models.FormatText
}

// classifyByContent runs the probe-driven fallbacks: byte signatures, then
// description term matching, then broad substring categories.
func (c *Classifier) classifyByContent(input ClassifyInput) (models.FormatTag, bool) {
	head, err := c.prober.LeadingBytes(input.PhysicalPath, signatureSize)
	if err == nil {
		if tag, ok := c.rules.MatchSignature(head); ok {
			return tag, true
		}
	}

	description, err := c.prober.Describe(input.PhysicalPath)
	if err != nil || description == "" {
		return "", false
	}

	if tag, ok := c.rules.MatchTerms(description); ok {
		return tag, true
	}

	return classifyBroadCategory(description)
}

// classifyBroadCategory is the last content heuristic: coarse substring
// categories over the whole description.
func classifyBroadCategory(description string) (models.FormatTag, bool) {
	lowered := strings.ToLower(description)
	switch {
	case strings.Contains(lowered, "executable"):
		return models.FormatExecutable, true
	case strings.Contains(lowered, "text"):
		return models.FormatText, true
	case strings.Contains(lowered, "compressed"):
		return models.FormatCompressed, true
	case strings.Contains(lowered, "data"):
		return models.FormatData, true
	}
	return "", false
}
