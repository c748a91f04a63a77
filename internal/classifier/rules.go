package classifier

import (
	"encoding/hex"
	"path"
	"sort"
	"strings"

	"github.com/aleister1102/pkgdelta/internal/config"
	"github.com/aleister1102/pkgdelta/internal/models"
)

// compiledSignature is one byte-signature rule with its decoded prefix.
type compiledSignature struct {
	prefix []byte
	tag    models.FormatTag
}

// RuleSet is the immutable, compiled form of the declarative classifier
// tables. Built once at startup and shared by reference; the priority order
// between tables is owned by the classifier, not the rules.
type RuleSet struct {
	nameExact  map[string]models.FormatTag
	nameFolded map[string]models.FormatTag
	patterns   []config.PatternRule
	signatures []compiledSignature
	terms      map[string]models.FormatTag

	treatUnknownAsText bool
}

// CompileRules builds a RuleSet from configuration. Malformed signature
// rules are dropped rather than failing the run; classification ambiguity
// is never an error.
func CompileRules(cfg config.ClassifierConfig) *RuleSet {
	rs := &RuleSet{
		nameExact:          make(map[string]models.FormatTag, len(cfg.NameRules)),
		nameFolded:         make(map[string]models.FormatTag, len(cfg.NameRules)),
		patterns:           cfg.PatternRules,
		terms:              make(map[string]models.FormatTag, len(cfg.TermRules)),
		treatUnknownAsText: cfg.TreatUnknownAsText,
	}

	for _, rule := range cfg.NameRules {
		tag := models.FormatTag(rule.Tag)
		rs.nameExact[rule.Name] = tag
		folded := strings.ToLower(rule.Name)
		if _, exists := rs.nameFolded[folded]; !exists {
			rs.nameFolded[folded] = tag
		}
	}

	for _, rule := range cfg.SignatureRules {
		prefix, err := hex.DecodeString(rule.HexPrefix)
		if err != nil || len(prefix) == 0 {
			continue
		}
		rs.signatures = append(rs.signatures, compiledSignature{
			prefix: prefix,
			tag:    models.FormatTag(rule.Tag),
		})
	}
	// longest signature wins when prefixes nest (e.g. "1f8b" under longer magics)
	sort.SliceStable(rs.signatures, func(i, j int) bool {
		return len(rs.signatures[i].prefix) > len(rs.signatures[j].prefix)
	})

	for _, rule := range cfg.TermRules {
		rs.terms[strings.ToLower(rule.Term)] = models.FormatTag(rule.Tag)
	}

	return rs
}

// MatchName looks up an exact filename, case-sensitive first.
func (rs *RuleSet) MatchName(base string) (models.FormatTag, bool) {
	if tag, ok := rs.nameExact[base]; ok {
		return tag, true
	}
	if tag, ok := rs.nameFolded[strings.ToLower(base)]; ok {
		return tag, true
	}
	return "", false
}

// MatchPattern runs the ordered pattern rules against a filename.
func (rs *RuleSet) MatchPattern(base string) (models.FormatTag, bool) {
	for _, rule := range rs.patterns {
		if ok, err := path.Match(rule.Pattern, base); err == nil && ok {
			return models.FormatTag(rule.Tag), true
		}
	}
	return "", false
}

// MatchSignature matches the leading bytes of a file against the signature
// table, longest prefix first.
func (rs *RuleSet) MatchSignature(head []byte) (models.FormatTag, bool) {
	for _, sig := range rs.signatures {
		if len(head) >= len(sig.prefix) && string(head[:len(sig.prefix)]) == string(sig.prefix) {
			return sig.tag, true
		}
	}
	return "", false
}

// MatchTerms tokenizes a free-text type description into unigrams and
// adjacent bigrams and matches them against the term table. Bigrams are
// tried first so "shared object" beats "object".
func (rs *RuleSet) MatchTerms(description string) (models.FormatTag, bool) {
	tokens := strings.Fields(strings.ToLower(description))

	for i := 0; i+1 < len(tokens); i++ {
		bigram := tokens[i] + " " + tokens[i+1]
		if tag, ok := rs.terms[bigram]; ok {
			return tag, true
		}
	}
	for _, token := range tokens {
		if tag, ok := rs.terms[token]; ok {
			return tag, true
		}
	}
	return "", false
}

// Fallback returns the final fallback tag, honoring unknown-as-text mode.
func (rs *RuleSet) Fallback() models.FormatTag {
	if rs.treatUnknownAsText {
		return models.FormatText
	}
	return models.FormatOther
}
