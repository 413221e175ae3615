// Package aggregate implements the one read-only view the engine exposes
// over a solved graph: a single point cloud formed by transforming every
// vertex's cloud by its current pose and concatenating the results in
// vertex-id order. It caches nothing — call it again after Compute runs
// more iterations, or after any pose changes, to get an up-to-date result.
package aggregate

import (
	"github.com/pointreg/lum/cloud"
	"github.com/pointreg/lum/core"
	"github.com/pointreg/lum/pose"
)

// ConcatenatedCloud transforms every vertex's cloud by its current pose
// and returns the union, in vertex-id order, per spec.md §4.5.
func ConcatenatedCloud(g *core.Graph) cloud.Cloud {
	vertices := g.Vertices()

	total := 0
	for _, v := range vertices {
		total += len(v.Cloud)
	}

	out := make(cloud.Cloud, 0, total)
	for _, v := range vertices {
		t := pose.ToTransform(v.Pose)
		for _, p := range v.Cloud {
			tp := t.Apply([3]float64{p.X, p.Y, p.Z})
			out = append(out, cloud.Point3{X: tp[0], Y: tp[1], Z: tp[2]})
		}
	}
	return out
}
