package config

// NameRule maps an exact filename to a format tag.
type NameRule struct {
	Name string `json:"name" yaml:"name" validate:"required"`
	Tag  string `json:"tag" yaml:"tag" validate:"required"`
}

// PatternRule maps a filename glob pattern to a format tag. Rules run in
// declaration order, so compound extensions (".tar.gz") must precede the
// single extensions (".gz") they would otherwise shadow.
type PatternRule struct {
	Pattern string `json:"pattern" yaml:"pattern" validate:"required"`
	Tag     string `json:"tag" yaml:"tag" validate:"required"`
}

// SignatureRule maps a leading-bytes hex signature to a format tag.
type SignatureRule struct {
	HexPrefix string `json:"hex_prefix" yaml:"hex_prefix" validate:"required,hexadecimal"`
	Tag       string `json:"tag" yaml:"tag" validate:"required"`
}

// TermRule maps a file-type-description term (unigram or adjacent bigram)
// to a format tag.
type TermRule struct {
	Term string `json:"term" yaml:"term" validate:"required"`
	Tag  string `json:"tag" yaml:"tag" validate:"required"`
}

// ClassifierConfig defines the declarative rule tables driving format
// classification. It is constructed once at startup and passed by
// reference into the classifier; the priority order between the tables is
// fixed by the classifier itself.
type ClassifierConfig struct {
	NameRules      []NameRule      `json:"name_rules,omitempty" yaml:"name_rules,omitempty" validate:"dive"`
	PatternRules   []PatternRule   `json:"pattern_rules,omitempty" yaml:"pattern_rules,omitempty" validate:"dive"`
	SignatureRules []SignatureRule `json:"signature_rules,omitempty" yaml:"signature_rules,omitempty" validate:"dive"`
	TermRules      []TermRule      `json:"term_rules,omitempty" yaml:"term_rules,omitempty" validate:"dive"`
	// TreatUnknownAsText remaps the OTHER fallback to TEXT.
	TreatUnknownAsText bool `json:"treat_unknown_as_text,omitempty" yaml:"treat_unknown_as_text,omitempty"`
}

// NewDefaultClassifierConfig creates the built-in rule tables.
func NewDefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		NameRules: []NameRule{
			{Name: "COPYING", Tag: "license"},
			{Name: "COPYING.LIB", Tag: "license"},
			{Name: "LICENSE", Tag: "license"},
			{Name: "LICENCE", Tag: "license"},
			{Name: "ChangeLog", Tag: "changelog"},
			{Name: "CHANGES", Tag: "changelog"},
			{Name: "NEWS", Tag: "changelog"},
			{Name: "README", Tag: "text"},
			{Name: "AUTHORS", Tag: "text"},
			{Name: "THANKS", Tag: "text"},
			{Name: "INSTALL", Tag: "text"},
			{Name: "TODO", Tag: "text"},
		},
		PatternRules: []PatternRule{
			// compound extensions first
			{Pattern: "*.tar.gz", Tag: "archive"},
			{Pattern: "*.tar.bz2", Tag: "archive"},
			{Pattern: "*.tar.xz", Tag: "archive"},
			{Pattern: "*.tar.lz", Tag: "archive"},
			{Pattern: "*.tar.zst", Tag: "archive"},
			{Pattern: "*.tar", Tag: "archive"},
			{Pattern: "*.tgz", Tag: "archive"},
			{Pattern: "*.tbz2", Tag: "archive"},
			{Pattern: "*.zip", Tag: "archive"},
			{Pattern: "*.jar", Tag: "archive"},
			{Pattern: "*.cpio", Tag: "archive"},
			{Pattern: "*.gz", Tag: "compressed"},
			{Pattern: "*.bz2", Tag: "compressed"},
			{Pattern: "*.xz", Tag: "compressed"},
			{Pattern: "*.zst", Tag: "compressed"},
			{Pattern: "*.lz", Tag: "compressed"},
			{Pattern: "*.h", Tag: "header"},
			{Pattern: "*.hh", Tag: "header"},
			{Pattern: "*.hpp", Tag: "header"},
			{Pattern: "*.hxx", Tag: "header"},
			{Pattern: "*.a", Tag: "static_lib"},
			{Pattern: "*.la", Tag: "text"},
			{Pattern: "*.txt", Tag: "text"},
			{Pattern: "*.md", Tag: "text"},
			{Pattern: "*.c", Tag: "text"},
			{Pattern: "*.cc", Tag: "text"},
			{Pattern: "*.cpp", Tag: "text"},
			{Pattern: "*.go", Tag: "text"},
			{Pattern: "*.py", Tag: "text"},
			{Pattern: "*.sh", Tag: "text"},
			{Pattern: "*.pl", Tag: "text"},
			{Pattern: "*.pc", Tag: "text"},
			{Pattern: "*.conf", Tag: "text"},
			{Pattern: "*.cfg", Tag: "text"},
			{Pattern: "*.xml", Tag: "text"},
			{Pattern: "*.json", Tag: "text"},
			{Pattern: "*.yaml", Tag: "text"},
			{Pattern: "*.yml", Tag: "text"},
			{Pattern: "*.info", Tag: "infodoc"},
			{Pattern: "*.info-[0-9]", Tag: "infodoc"},
		},
		SignatureRules: []SignatureRule{
			{HexPrefix: "7f454c46", Tag: "executable"}, // ELF
			{HexPrefix: "213c6172", Tag: "static_lib"}, // "!<ar"
			{HexPrefix: "504b0304", Tag: "archive"},    // PK zip
			{HexPrefix: "1f8b", Tag: "compressed"},     // gzip
			{HexPrefix: "425a68", Tag: "compressed"},   // bzip2
			{HexPrefix: "fd377a58", Tag: "compressed"}, // xz
			{HexPrefix: "28b52ffd", Tag: "compressed"}, // zstd
		},
		TermRules: []TermRule{
			{Term: "shared object", Tag: "shared_object"},
			{Term: "relocatable", Tag: "data"},
			{Term: "ar archive", Tag: "static_lib"},
			{Term: "script", Tag: "executable"},
			{Term: "executable", Tag: "executable"},
			{Term: "text", Tag: "text"},
			{Term: "compressed", Tag: "compressed"},
			{Term: "data", Tag: "data"},
		},
		TreatUnknownAsText: false,
	}
}
