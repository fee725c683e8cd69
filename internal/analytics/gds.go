package analytics

import (
	"context"
	"errors"
	"fmt"

	"github.com/kelvinosei/momograph/internal/graph"
)

// ErrUnavailable indicates the Graph Data Science plugin is not installed on
// the target database.
var ErrUnavailable = errors.New("graph data science plugin unavailable")

// Projection names. The undirected projection feeds degree, triangle count,
// and Louvain; PageRank runs on the directed one.
const (
	undirectedProjection = "momo-undir"
	directedProjection   = "momo-dir"
)

// Engine drives the externally computed graph algorithms. Results are
// written back onto User nodes as properties (degree, triangles, community,
// pr); the risk rules only ever read those properties.
type Engine struct {
	client graph.Client
}

// NewEngine returns an Engine backed by the provided graph client.
func NewEngine(client graph.Client) *Engine {
	return &Engine{client: client}
}

// Version probes for the GDS plugin and returns its version string. A query
// failure is reported as ErrUnavailable so callers can degrade gracefully.
func (e *Engine) Version(ctx context.Context) (string, error) {
	res, err := e.client.ExecuteRead(ctx, "RETURN gds.version() AS version", nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(res.Records) == 0 {
		return "", ErrUnavailable
	}
	version, _ := res.Records[0]["version"].(string)
	return version, nil
}

// RebuildProjections drops any existing projections and recreates them from
// the current graph state. Dropping a non-existent projection is not an
// error.
func (e *Engine) RebuildProjections(ctx context.Context) error {
	drops := []string{
		fmt.Sprintf("CALL gds.graph.drop('%s', false)", directedProjection),
		fmt.Sprintf("CALL gds.graph.drop('%s', false)", undirectedProjection),
	}
	for _, stmt := range drops {
		if _, err := e.client.ExecuteWrite(ctx, stmt, nil); err != nil {
			return fmt.Errorf("drop projection: %w", err)
		}
	}

	if _, err := e.client.ExecuteWrite(ctx, projectUndirectedCypher, nil); err != nil {
		return fmt.Errorf("project %s: %w", undirectedProjection, err)
	}
	if _, err := e.client.ExecuteWrite(ctx, projectDirectedCypher, nil); err != nil {
		return fmt.Errorf("project %s: %w", directedProjection, err)
	}
	return nil
}

// WriteScores runs every algorithm in write mode, leaving the score
// properties on the projected User nodes.
func (e *Engine) WriteScores(ctx context.Context) error {
	steps := []struct {
		name   string
		cypher string
	}{
		{"degree", writeDegreeCypher},
		{"triangleCount", writeTrianglesCypher},
		{"louvain", writeLouvainCypher},
		{"pageRank", writePageRankCypher},
	}
	for _, step := range steps {
		if _, err := e.client.ExecuteWrite(ctx, step.cypher, nil); err != nil {
			return fmt.Errorf("write %s: %w", step.name, err)
		}
	}
	return nil
}

const projectUndirectedCypher = `
CALL gds.graph.project(
  'momo-undir',
  'User',
  { TRANSACTS_WITH: { type: 'TRANSACTS_WITH', orientation: 'UNDIRECTED', aggregation: 'SUM', properties: 'amount' } }
)
`

const projectDirectedCypher = `
CALL gds.graph.project(
  'momo-dir',
  'User',
  { TRANSACTS_WITH: { type: 'TRANSACTS_WITH', orientation: 'NATURAL', properties: 'amount' } }
)
`

const writeDegreeCypher = `CALL gds.degree.write('momo-undir', {writeProperty: 'degree'})`

const writeTrianglesCypher = `CALL gds.triangleCount.write('momo-undir', {writeProperty: 'triangles'})`

const writeLouvainCypher = `CALL gds.louvain.write('momo-undir', {writeProperty: 'community'})`

const writePageRankCypher = `CALL gds.pageRank.write('momo-dir', {writeProperty: 'pr', maxIterations: 20, dampingFactor: 0.85})`
