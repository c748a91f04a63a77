package comparator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aleister1102/pkgdelta/internal/common"
	"github.com/aleister1102/pkgdelta/internal/config"
	"github.com/aleister1102/pkgdelta/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func TestComparatorRequiresConfig(t *testing.T) {
	_, err := NewComparatorBuilder(zerolog.Nop()).Build()
	assert.Error(t, err)
}

func TestComparatorCompare(t *testing.T) {
	oldTree := writeTree(t, map[string]string{
		"data.txt": "aaaa\nbbbb\n",
		"gone.txt": "obsolete\n",
	})
	newTree := writeTree(t, map[string]string{
		"data.txt":  "aaaa\n",
		"fresh.txt": "brand new\n",
	})

	oldDescriptor := filepath.Join(t.TempDir(), "old.yaml")
	require.NoError(t, os.WriteFile(oldDescriptor, []byte(`
name: demo
version: "1.0"
dependencies:
  requires:
    - name: libfoo
      op: ">="
      version: "1.0"
`), 0644))
	newDescriptor := filepath.Join(t.TempDir(), "new.yaml")
	require.NoError(t, os.WriteFile(newDescriptor, []byte(`
name: demo
version: "2.0"
dependencies:
  requires:
    - name: libfoo
      op: ">="
      version: "2.0"
    - name: libbar
`), 0644))

	comparator, err := NewComparator(config.NewDefaultGlobalConfig(), zerolog.Nop())
	require.NoError(t, err)

	result, err := comparator.Compare(context.Background(), ComparisonInput{
		OldTreePath:       oldTree,
		NewTreePath:       newTree,
		OldDescriptorPath: oldDescriptor,
		NewDescriptorPath: newDescriptor,
	})
	require.NoError(t, err)

	changed := result.FileResult.Results["/data.txt"]
	require.NotNil(t, changed)
	assert.Equal(t, models.StatusChanged, changed.Status)
	require.True(t, changed.HasRate)
	assert.InDelta(t, 0.4, changed.Rate, 1e-9)

	assert.Equal(t, models.StatusRemoved, result.FileResult.Results["/gone.txt"].Status)
	assert.Equal(t, models.StatusAdded, result.FileResult.Results["/fresh.txt"].Status)

	require.Len(t, result.DependencyResults, 1)
	statuses := make(map[string]models.DependencyStatus)
	for _, diff := range result.DependencyResults[0].Diffs {
		statuses[diff.Name] = diff.Status
	}
	assert.Equal(t, models.DepChanged, statuses["libfoo"])
	assert.Equal(t, models.DepAdded, statuses["libbar"])

	require.NotNil(t, result.Summary)
	assert.Equal(t, "1.0", result.Summary.OldVersion)
	assert.Equal(t, "2.0", result.Summary.NewVersion)
	assert.Equal(t, 3, result.Summary.TotalFiles)
	assert.Greater(t, result.Summary.PercentAffected, 0.0)

	assert.Contains(t, result.Artifacts, "/data.txt")
}

func TestComparatorCompareWithoutDescriptors(t *testing.T) {
	oldTree := writeTree(t, map[string]string{"same.txt": "stable\n"})
	newTree := writeTree(t, map[string]string{"same.txt": "stable\n"})

	comparator, err := NewComparator(config.NewDefaultGlobalConfig(), zerolog.Nop())
	require.NoError(t, err)

	result, err := comparator.Compare(context.Background(), ComparisonInput{
		OldTreePath: oldTree,
		NewTreePath: newTree,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusUnchanged, result.FileResult.Results["/same.txt"].Status)
	assert.Empty(t, result.DependencyResults)
	assert.Equal(t, 0.0, result.Summary.PercentAffected)
}

func TestComparatorMissingTreeIsStructural(t *testing.T) {
	newTree := writeTree(t, map[string]string{"f.txt": "x\n"})

	comparator, err := NewComparator(config.NewDefaultGlobalConfig(), zerolog.Nop())
	require.NoError(t, err)

	_, err = comparator.Compare(context.Background(), ComparisonInput{
		OldTreePath: filepath.Join(t.TempDir(), "absent"),
		NewTreePath: newTree,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrStructuralInput)
}
