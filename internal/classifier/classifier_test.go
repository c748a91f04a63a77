package classifier

import (
	"errors"
	"testing"

	"github.com/aleister1102/pkgdelta/internal/config"
	"github.com/aleister1102/pkgdelta/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProber serves canned content without touching the filesystem.
type fakeProber struct {
	head  []byte
	desc  string
	err   error
	calls int
}

func (fp *fakeProber) LeadingBytes(string, int) ([]byte, error) {
	fp.calls++
	return fp.head, fp.err
}

func (fp *fakeProber) Describe(string) (string, error) {
	fp.calls++
	return fp.desc, fp.err
}

func newTestClassifier(t *testing.T, prober ContentProber) *Classifier {
	t.Helper()
	cfg := config.NewDefaultClassifierConfig()
	c, err := NewClassifierBuilder(zerolog.Nop()).
		WithConfig(&cfg).
		WithProber(prober).
		Build()
	require.NoError(t, err)
	return c
}

func classifyPath(c *Classifier, logicalPath string) models.FormatTag {
	return c.Classify(ClassifyInput{LogicalPath: logicalPath, PhysicalPath: logicalPath}, nil)
}

func TestClassifyPathTypes(t *testing.T) {
	c := newTestClassifier(t, &fakeProber{err: errors.New("must not be called")})

	assert.Equal(t, models.FormatSymlink, c.Classify(ClassifyInput{LogicalPath: "/usr/lib/libfoo.so", IsSymlink: true}, nil))
	assert.Equal(t, models.FormatDir, c.Classify(ClassifyInput{LogicalPath: "/usr/lib", IsDir: true}, nil))
}

func TestClassifyExactNames(t *testing.T) {
	c := newTestClassifier(t, &fakeProber{err: errors.New("unreadable")})

	assert.Equal(t, models.FormatLicense, classifyPath(c, "/usr/share/doc/foo/COPYING"))
	assert.Equal(t, models.FormatChangeLog, classifyPath(c, "/usr/share/doc/foo/ChangeLog"))
	// case-insensitive second pass
	assert.Equal(t, models.FormatLicense, classifyPath(c, "/usr/share/doc/foo/license"))
}

func TestClassifyScmPaths(t *testing.T) {
	c := newTestClassifier(t, &fakeProber{err: errors.New("unreadable")})

	assert.Equal(t, models.FormatScm, classifyPath(c, "/usr/src/foo/.git/config"))
	assert.Equal(t, models.FormatScm, classifyPath(c, "/usr/src/foo/CVS/Entries"))
}

func TestClassifyIncludeDir(t *testing.T) {
	c := newTestClassifier(t, &fakeProber{err: errors.New("unreadable")})

	assert.Equal(t, models.FormatHeader, classifyPath(c, "/usr/include/c++/vector"))
	assert.Equal(t, models.FormatHeader, classifyPath(c, "/usr/include/stdio.h"))
}

func TestClassifyCompoundExtensionsBeforeSingle(t *testing.T) {
	c := newTestClassifier(t, &fakeProber{err: errors.New("unreadable")})

	assert.Equal(t, models.FormatArchive, classifyPath(c, "/usr/src/foo-1.0.tar.gz"))
	assert.Equal(t, models.FormatCompressed, classifyPath(c, "/usr/share/doc/foo/NEWS.gz"))
}

func TestClassifyDirContext(t *testing.T) {
	c := newTestClassifier(t, &fakeProber{err: errors.New("unreadable")})

	assert.Equal(t, models.FormatManpage, classifyPath(c, "/usr/share/man/man1/ls.1"))
	assert.Equal(t, models.FormatManpage, classifyPath(c, "/usr/share/doc1/foo.5"))
	assert.Equal(t, models.FormatInfoDoc, classifyPath(c, "/usr/share/info/foo.info"))
	// numeric suffix outside man/doc context is not a manpage
	assert.NotEqual(t, models.FormatManpage, classifyPath(c, "/etc/rc.d/rc.5"))
}

func TestClassifySharedObject(t *testing.T) {
	elfHead := append([]byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0}, make([]byte, 24)...)
	c := newTestClassifier(t, &fakeProber{head: elfHead})

	assert.Equal(t, models.FormatSharedObject, classifyPath(c, "/usr/lib/libfoo.so"))
	assert.Equal(t, models.FormatSharedObject, classifyPath(c, "/usr/lib/libfoo.so.1.2.3"))
}

func TestClassifySharedObjectLinkerScriptPostCheck(t *testing.T) {
	script := []byte("/* GNU ld script */\nGROUP ( /lib/libc.so.6 )\n")
	c := newTestClassifier(t, &fakeProber{head: script})

	assert.Equal(t, models.FormatLinkerScript, classifyPath(c, "/usr/lib/libc.so"))
}

func TestClassifySharedObjectPlainASCIIPostCheck(t *testing.T) {
	c := newTestClassifier(t, &fakeProber{head: []byte("not a linker script, just text\n")})

	assert.Equal(t, models.FormatText, classifyPath(c, "/usr/lib/libodd.so"))
}

func TestClassifySharedObjectUnreadableKeepsName(t *testing.T) {
	// content access failure must not block classification
	c := newTestClassifier(t, &fakeProber{err: errors.New("permission denied")})

	assert.Equal(t, models.FormatSharedObject, classifyPath(c, "/usr/lib/libfoo.so.2"))
}

func TestClassifyBySignature(t *testing.T) {
	elfHead := []byte{0x7f, 'E', 'L', 'F'}
	c := newTestClassifier(t, &fakeProber{head: elfHead, desc: "ELF executable"})

	assert.Equal(t, models.FormatExecutable, classifyPath(c, "/usr/bin/mystery"))
}

func TestClassifyByDescriptionTerms(t *testing.T) {
	c := newTestClassifier(t, &fakeProber{head: []byte("hello\n"), desc: "ASCII text"})

	assert.Equal(t, models.FormatText, classifyPath(c, "/etc/motd_banner"))
}

func TestClassifyFallbackOther(t *testing.T) {
	c := newTestClassifier(t, &fakeProber{err: errors.New("unreadable")})

	assert.Equal(t, models.FormatOther, classifyPath(c, "/opt/blob_without_hints"))
}

func TestClassifyUnknownAsTextMode(t *testing.T) {
	cfg := config.NewDefaultClassifierConfig()
	cfg.TreatUnknownAsText = true
	c, err := NewClassifierBuilder(zerolog.Nop()).
		WithConfig(&cfg).
		WithProber(&fakeProber{err: errors.New("unreadable")}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, models.FormatText, classifyPath(c, "/opt/blob_without_hints"))
}

func TestClassifyMemoizesPerRun(t *testing.T) {
	prober := &fakeProber{err: errors.New("unreadable")}
	c := newTestClassifier(t, prober)
	cache := NewCache()
	input := ClassifyInput{LogicalPath: "/opt/blob", PhysicalPath: "/opt/blob"}

	first := c.Classify(input, cache)
	callsAfterFirst := prober.calls
	second := c.Classify(input, cache)

	assert.Equal(t, first, second)
	assert.Equal(t, callsAfterFirst, prober.calls, "second classification must hit the cache")
	assert.Equal(t, 1, cache.Len())
}

func TestRuleSetMatchTermsBigramFirst(t *testing.T) {
	cfg := config.NewDefaultClassifierConfig()
	rs := CompileRules(cfg)

	tag, ok := rs.MatchTerms("ELF shared object x86-64")
	require.True(t, ok)
	assert.Equal(t, models.FormatSharedObject, tag)
}

func TestIsASCIIText(t *testing.T) {
	assert.True(t, IsASCIIText([]byte("plain text\nwith lines\n")))
	assert.False(t, IsASCIIText([]byte{0x7f, 'E', 'L', 'F'}))
	assert.False(t, IsASCIIText(nil))
}
