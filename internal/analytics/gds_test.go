package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelvinosei/momograph/internal/graph"
)

func TestVersion(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.StubResult("gds.version()", graph.Result{Records: []graph.Record{
		{"version": "2.6.0"},
	}})

	version, err := NewEngine(mem).Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.6.0", version)
}

func TestVersionReportsUnavailable(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.StubError("gds.version()", errors.New("Unknown function 'gds.version'"))

	_, err := NewEngine(mem).Version(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestVersionEmptyResultIsUnavailable(t *testing.T) {
	mem := graph.NewMemoryClient()

	_, err := NewEngine(mem).Version(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRebuildProjections(t *testing.T) {
	mem := graph.NewMemoryClient()

	require.NoError(t, NewEngine(mem).RebuildProjections(context.Background()))

	writes := mem.WriteCalls()
	require.Len(t, writes, 4)

	// Drops come first, with failIfMissing disabled.
	assert.Contains(t, writes[0].Query, "gds.graph.drop('momo-dir', false)")
	assert.Contains(t, writes[1].Query, "gds.graph.drop('momo-undir', false)")

	assert.Contains(t, writes[2].Query, "'momo-undir'")
	assert.Contains(t, writes[2].Query, "orientation: 'UNDIRECTED'")
	assert.Contains(t, writes[2].Query, "aggregation: 'SUM'")

	assert.Contains(t, writes[3].Query, "'momo-dir'")
	assert.Contains(t, writes[3].Query, "orientation: 'NATURAL'")
}

func TestRebuildProjectionsStopsOnError(t *testing.T) {
	boom := errors.New("projection in use")
	mem := graph.NewMemoryClient()
	mem.StubError("gds.graph.project", boom)

	err := NewEngine(mem).RebuildProjections(context.Background())
	assert.ErrorIs(t, err, boom)
	// Both drops ran, only the first project was attempted.
	assert.Len(t, mem.WriteCalls(), 3)
}

func TestWriteScoresRunsEveryAlgorithm(t *testing.T) {
	mem := graph.NewMemoryClient()

	require.NoError(t, NewEngine(mem).WriteScores(context.Background()))

	writes := mem.WriteCalls()
	require.Len(t, writes, 4)

	assert.Contains(t, writes[0].Query, "gds.degree.write('momo-undir', {writeProperty: 'degree'})")
	assert.Contains(t, writes[1].Query, "gds.triangleCount.write('momo-undir', {writeProperty: 'triangles'})")
	assert.Contains(t, writes[2].Query, "gds.louvain.write('momo-undir', {writeProperty: 'community'})")
	assert.Contains(t, writes[3].Query, "gds.pageRank.write('momo-dir'")
	assert.Contains(t, writes[3].Query, "maxIterations: 20")
	assert.Contains(t, writes[3].Query, "dampingFactor: 0.85")
}

func TestWriteScoresStopsOnFirstFailure(t *testing.T) {
	boom := errors.New("out of memory")
	mem := graph.NewMemoryClient()
	mem.StubError("gds.triangleCount", boom)

	err := NewEngine(mem).WriteScores(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Len(t, mem.WriteCalls(), 2)
}
