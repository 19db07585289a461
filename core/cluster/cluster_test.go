package cluster

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clusterConfig(k int) *contract.Config {
	return &contract.Config{
		Clusters:     k,
		Seed:         contract.DefaultSeed,
		TargetColumn: contract.DefaultTargetColumn,
		Precision:    contract.DefaultPrecision,
	}
}

// blobs builds n rows drawn around k well-separated centers.
func blobs(n, k int, seed int64) *schema.Dataset {
	rng := rand.New(rand.NewSource(seed))
	ds := &schema.Dataset{
		FeatureNames: []string{"hour", "load_lag_1"},
		X:            make([][]float64, n),
		Y:            make([]float64, n),
		Timestamps:   make([]time.Time, n),
	}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range n {
		c := i % k
		ds.X[i] = []float64{
			float64(c)*50 + rng.NormFloat64(),
			float64(c)*200 + rng.NormFloat64(),
		}
		ds.Y[i] = 900 + float64(c)*150 + rng.NormFloat64()
		ds.Timestamps[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return ds
}

func TestClusterSegmentsBlobs(t *testing.T) {
	ds := blobs(1000, 4, 1)
	analyzer := NewAnalyzer(clusterConfig(4))

	assignment, err := analyzer.Cluster(context.Background(), ds)
	require.NoError(t, err)

	assert.Equal(t, 4, assignment.ClusterCount)
	require.Len(t, assignment.Labels, 1000)
	require.Len(t, assignment.ClusterSizes, 4)
	total := 0
	for _, size := range assignment.ClusterSizes {
		assert.Positive(t, size)
		total += size
	}
	assert.Equal(t, 1000, total)

	// Well-separated blobs separate cleanly.
	assert.Greater(t, assignment.SilhouetteScore, 0.7)
	assert.False(t, math.IsNaN(assignment.Inertia))
	require.Len(t, assignment.Characteristics, 4)
	require.Len(t, assignment.Centers, 4)
}

func TestClusterLabelsMatchBlobStructure(t *testing.T) {
	ds := blobs(400, 4, 2)
	analyzer := NewAnalyzer(clusterConfig(4))

	assignment, err := analyzer.Cluster(context.Background(), ds)
	require.NoError(t, err)

	// Rows from the same blob must land in the same cluster.
	for i := 4; i < 400; i++ {
		assert.Equal(t, assignment.Labels[i-4], assignment.Labels[i],
			"rows %d and %d come from the same blob", i-4, i)
	}
}

func TestClusterDeterministicForSeed(t *testing.T) {
	ds := blobs(300, 3, 3)
	analyzer := NewAnalyzer(clusterConfig(3))

	a, err := analyzer.Cluster(context.Background(), ds)
	require.NoError(t, err)
	b, err := analyzer.Cluster(context.Background(), ds)
	require.NoError(t, err)

	assert.Equal(t, a.Labels, b.Labels)
	assert.Equal(t, a.Inertia, b.Inertia)
}

func TestClusterErrors(t *testing.T) {
	analyzer := NewAnalyzer(clusterConfig(10))

	_, err := analyzer.Cluster(context.Background(), &schema.Dataset{})
	require.Error(t, err)
	assert.True(t, contract.IsKind(err, contract.ClusteringErrorKind))

	_, err = analyzer.Cluster(context.Background(), blobs(5, 1, 4))
	require.Error(t, err)
	assert.True(t, contract.IsKind(err, contract.ClusteringErrorKind))
}

func TestClusterHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAnalyzer(clusterConfig(2)).Cluster(ctx, blobs(50, 2, 5))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSilhouetteDegenerateInputs(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}}
	assert.Zero(t, silhouetteScore(x, []int{0, 0, 0}, 1, 42))
	assert.Zero(t, silhouetteScore(x, []int{0, 1, 2}, 3, 42))
}

func TestModalHour(t *testing.T) {
	hour, ok := modalHour(map[int]int{18: 5, 19: 9, 3: 2})
	require.True(t, ok)
	assert.Equal(t, 19, hour)

	// Earliest hour wins on a tie.
	hour, ok = modalHour(map[int]int{7: 4, 21: 4})
	require.True(t, ok)
	assert.Equal(t, 7, hour)

	_, ok = modalHour(nil)
	assert.False(t, ok)
}
