package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gridscope/gridscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleArtifact(name string) *schema.ModelArtifact {
	return &schema.ModelArtifact{
		ModelName:    name,
		RunID:        3,
		FeatureNames: []string{"hour", "load_lag_1"},
		ScalerMeans:  []float64{11.5, 70000},
		ScalerStds:   []float64{6.9, 4200},
		Params:       map[string]any{"n_estimators": 100},
		SavedAt:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save(sampleArtifact("random_forest"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "random_forest.json"))

	loaded, err := store.Load("random_forest")
	require.NoError(t, err)
	assert.Equal(t, "random_forest", loaded.ModelName)
	assert.Equal(t, int64(3), loaded.RunID)
	assert.Equal(t, []string{"hour", "load_lag_1"}, loaded.FeatureNames)
	assert.InDelta(t, 70000, loaded.ScalerMeans[1], 1e-9)
}

func TestSaveOverwritesPrevious(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	first := sampleArtifact("linear")
	first.RunID = 1
	_, err = store.Save(first)
	require.NoError(t, err)

	second := sampleArtifact("linear")
	second.RunID = 2
	_, err = store.Save(second)
	require.NoError(t, err)

	loaded, err := store.Load("linear")
	require.NoError(t, err)
	assert.Equal(t, int64(2), loaded.RunID)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	_, err = store.Save(sampleArtifact("gradient_boost"))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "gradient_boost.json", entries[0].Name())
}

func TestSaveRejectsNamelessArtifact(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(&schema.ModelArtifact{})
	require.Error(t, err)
	_, err = store.Save(nil)
	require.Error(t, err)
}

func TestLoadMissingArtifact(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("never_saved")
	require.Error(t, err)
}

func TestConcurrentSavesSameKey(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 16 {
		runID := int64(i)
		wg.Go(func() {
			artifact := sampleArtifact("random_forest")
			artifact.RunID = runID
			_, saveErr := store.Save(artifact)
			assert.NoError(t, saveErr)
		})
	}
	wg.Wait()

	// Exactly one intact file remains.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	loaded, err := store.Load("random_forest")
	require.NoError(t, err)
	assert.Equal(t, "random_forest", loaded.ModelName)
}

func TestPathSanitizesSeparators(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save(sampleArtifact("weird" + string(filepath.Separator) + "name"))
	require.NoError(t, err)
	assert.NotContains(t, filepath.Base(path), string(filepath.Separator))
}
