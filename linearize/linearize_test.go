package linearize_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pointreg/lum/cloud"
	"github.com/pointreg/lum/core"
	"github.com/pointreg/lum/linearize"
	"github.com/pointreg/lum/pose"
)

func tetra() cloud.Cloud {
	return cloud.Cloud{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}}
}

func shift(c cloud.Cloud, dx, dy, dz float64) cloud.Cloud {
	out := make(cloud.Cloud, len(c))
	for i, p := range c {
		out[i] = cloud.Point3{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
	}
	return out
}

func identityCorrs() []cloud.Correspondence {
	return []cloud.Correspondence{{Query: 0, Match: 0}, {Query: 1, Match: 1}, {Query: 2, Match: 2}, {Query: 3, Match: 3}}
}

// TestOneProducesSymmetricCinv checks the "Symmetry of M" property (spec.md
// §8 property 5): the information matrix mirrorLowerTriangle completes must
// come out exactly symmetric in both triangles, not just the upper one the
// accumulation loop writes to.
func TestOneProducesSymmetricCinv(t *testing.T) {
	g := core.NewGraph()
	g.AddPointCloud(tetra())
	g.AddPointCloud(shift(tetra(), 0.3, -0.1, 0.2))
	g.SetCorrespondences(0, 1, identityCorrs())

	e, ok := g.EdgeBetween(0, 1)
	require.True(t, ok)

	require.NoError(t, linearize.One(g, e))
	require.True(t, e.Computed)

	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			assert.InDelta(t, e.Cinv[i][j], e.Cinv[j][i], 1e-12, "Cinv[%d][%d] != Cinv[%d][%d]", i, j, j, i)
		}
	}
}

// TestOneIsNoopWhenAlreadyComputed checks that a cached edge is left alone:
// overwriting Cinv by hand and calling One again must not touch it.
func TestOneIsNoopWhenAlreadyComputed(t *testing.T) {
	g := core.NewGraph()
	g.AddPointCloud(tetra())
	g.AddPointCloud(shift(tetra(), 1, 0, 0))
	g.SetCorrespondences(0, 1, identityCorrs())

	e, ok := g.EdgeBetween(0, 1)
	require.True(t, ok)
	require.NoError(t, linearize.One(g, e))

	var sentinel [6][6]float64
	sentinel[0][0] = 12345
	e.Cinv = sentinel
	e.Computed = true

	require.NoError(t, linearize.One(g, e))
	assert.Equal(t, sentinel, e.Cinv)
}

// TestOneAfterSetPoseMatchesFreshLinearization is the "Edge-cache
// correctness" property (spec.md §8 property 4): after SetPose invalidates
// an edge, re-linearizing it from the new poses must equal linearizing a
// brand-new graph built directly at those poses.
func TestOneAfterSetPoseMatchesFreshLinearization(t *testing.T) {
	g := core.NewGraph()
	g.AddPointCloud(tetra())
	v1 := g.AddPointCloud(shift(tetra(), 1, 0, 0))
	g.SetCorrespondences(0, 1, identityCorrs())

	e, ok := g.EdgeBetween(0, 1)
	require.True(t, ok)
	require.NoError(t, linearize.One(g, e))

	newPose := pose.Pose{0.4, -0.2, 0.1, 0, 0, 0.2}
	g.SetPose(v1, newPose)
	assert.False(t, e.Computed)
	require.NoError(t, linearize.One(g, e))

	fresh := core.NewGraph()
	fresh.AddPointCloud(tetra())
	freshV1 := fresh.AddPointCloudWithPose(shift(tetra(), 1, 0, 0), newPose)
	fresh.SetCorrespondences(0, freshV1, identityCorrs())
	fe, ok := fresh.EdgeBetween(0, freshV1)
	require.True(t, ok)
	require.NoError(t, linearize.One(fresh, fe))

	assert.Equal(t, fe.Cinv, e.Cinv)
	assert.Equal(t, fe.Cinvd, e.Cinvd)
}

// TestOneAfterSetCorrespondencesMatchesFreshLinearization is the same
// cache-correctness property, exercised via SetCorrespondences instead of
// SetPose.
func TestOneAfterSetCorrespondencesMatchesFreshLinearization(t *testing.T) {
	g := core.NewGraph()
	g.AddPointCloud(tetra())
	g.AddPointCloud(shift(tetra(), 1, 0, 0))
	g.SetCorrespondences(0, 1, identityCorrs())

	e, ok := g.EdgeBetween(0, 1)
	require.True(t, ok)
	require.NoError(t, linearize.One(g, e))

	newCorrs := []cloud.Correspondence{{Query: 0, Match: 0}, {Query: 1, Match: 1}, {Query: 2, Match: 2}}
	g.SetCorrespondences(0, 1, newCorrs)
	assert.False(t, e.Computed)
	require.NoError(t, linearize.One(g, e))

	fresh := core.NewGraph()
	fresh.AddPointCloud(tetra())
	fresh.AddPointCloud(shift(tetra(), 1, 0, 0))
	fresh.SetCorrespondences(0, 1, newCorrs)
	fe, ok := fresh.EdgeBetween(0, 1)
	require.True(t, ok)
	require.NoError(t, linearize.One(fresh, fe))

	assert.Equal(t, fe.Cinv, e.Cinv)
	assert.Equal(t, fe.Cinvd, e.Cinvd)
}

// TestOneZeroResidualCapsInverseVariance checks the epsilon floor (spec.md
// §4.3 step 7): when every correspondence is already exactly satisfied, s²
// is zero and 1/s² must be capped rather than producing +Inf.
func TestOneZeroResidualCapsInverseVariance(t *testing.T) {
	g := core.NewGraph()
	g.AddPointCloud(tetra())
	g.AddPointCloud(tetra())
	g.SetCorrespondences(0, 1, identityCorrs())

	e, ok := g.EdgeBetween(0, 1)
	require.True(t, ok)
	require.NoError(t, linearize.One(g, e))

	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			v := e.Cinv[i][j]
			assert.False(t, math.IsInf(v, 0) || math.IsNaN(v), "Cinv[%d][%d] = %v", i, j, v)
		}
	}
}

// TestAllLinearizesEveryStaleEdge exercises the parallel fan-out across
// two stale edges, (0,1) and (0,2), that share the reference vertex.
func TestAllLinearizesEveryStaleEdge(t *testing.T) {
	g := core.NewGraph()
	g.AddPointCloud(tetra())
	g.AddPointCloud(shift(tetra(), 1, 0, 0))
	g.AddPointCloud(shift(tetra(), 0, 1, 0))
	g.SetCorrespondences(0, 1, identityCorrs())
	g.SetCorrespondences(0, 2, identityCorrs())

	require.NoError(t, linearize.All(context.Background(), g))

	for _, e := range g.Edges() {
		assert.True(t, e.Computed)
	}
}
