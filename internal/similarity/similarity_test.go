package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommonAffixLength(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"identical", "libfoo.so", "libfoo.so", 18},
		{"empty both", "", "", 0},
		{"empty one", "abc", "", 0},
		{"no overlap", "abc", "xyz", 0},
		{"prefix only", "foobar", "fooqux", 3},
		{"suffix only", "alpha.txt", "gamma.txt", 5},
		{"prefix and suffix", "foo-1.0.c", "foo-2.0.c", 8},
		{"capped at shorter string", "aaaa", "aaaaaaaa", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CommonAffixLength(tt.a, tt.b))
		})
	}
}

func TestCommonAffixLengthSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"foo-1.0.c", "foo-2.0.c"},
		{"libbar.so.1", "libbar.so.2"},
		{"a", "ab"},
	}

	for _, p := range pairs {
		assert.Equal(t, CommonAffixLength(p[0], p[1]), CommonAffixLength(p[1], p[0]))
	}
}

func TestRenameScorerLongNames(t *testing.T) {
	scorer := NewRenameScorer(0.55, 8)

	// versioned rename: affix 8 of combined length 18 needs the singleton
	// factor to clear the threshold
	assert.False(t, scorer.Match("foo-1.0.c", "foo-2.0.c", 1.0))
	assert.True(t, scorer.Match("foo-1.0.c", "foo-2.0.c", 2.0))
	// unrelated names fail at any factor
	assert.False(t, scorer.Match("configure.ac", "Makefile.am", 2.0))
}

func TestRenameScorerShortNamesStripExtension(t *testing.T) {
	scorer := NewRenameScorer(0.55, 8)

	// stems "v1" and "v2" share nothing; the shared .txt extension must not
	// carry the match on its own
	assert.False(t, scorer.Match("v1.txt", "v2.txt", 1.0))
}

func TestRenameScorerSingletonFactorLoosens(t *testing.T) {
	scorer := NewRenameScorer(0.55, 8)

	// moderate overlap: fails at factor 1.0, passes at the singleton factor
	nameA, nameB := "oldutil.c", "newutil.c"
	affix := CommonAffixLength(nameA, nameB)
	total := len(nameA) + len(nameB)
	assert.Less(t, float64(affix), float64(total)*0.55)

	assert.False(t, scorer.Match(nameA, nameB, 1.0))
	assert.True(t, scorer.Match(nameA, nameB, 2.0))
}

func TestRenameScorerEmptyNames(t *testing.T) {
	scorer := NewRenameScorer(0.55, 8)

	assert.False(t, scorer.Match("", "foo", 1.0))
	assert.False(t, scorer.Match("foo", "", 2.0))
}

func TestSizeGrowth(t *testing.T) {
	assert.Equal(t, int64(5), SizeGrowth(10, 15))
	assert.Equal(t, int64(0), SizeGrowth(15, 10))
	assert.Equal(t, int64(0), SizeGrowth(7, 7))
}
