// Package linearize implements EdgeLinearizer: given an edge, it produces
// the information matrix and information vector (C⁻¹, C⁻¹·D) the global
// solver assembles into G and B, from the two endpoint clouds' current
// poses and the edge's correspondence list.
//
// Edges are independent reads of immutable vertex state during a single
// compute() pass (spec.md §5), so All fans the per-edge work out
// across a bounded worker pool with golang.org/x/sync/errgroup rather than
// linearizing edges one at a time.
package linearize

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/pointreg/lum/cloud"
	"github.com/pointreg/lum/core"
	"github.com/pointreg/lum/mat6"
	"github.com/pointreg/lum/pose"
)

// epsilon is the s² floor below which a fit is treated as degenerately
// perfect. Below it, 1/s² is capped rather than left to blow up, per
// spec.md §4.3 step 7 and §7 ("numerical degeneracy ... implementers
// should document and optionally gate with a configurable epsilon").
const epsilon = 1e-12

// One transforms a single edge's linearization and caches the result on
// e.Cinv/e.Cinvd/e.Computed. It is a no-op if e is already computed.
func One(g *core.Graph, e *core.Edge) error {
	if e.Computed {
		return nil
	}

	src, ok := g.Vertex(e.Source)
	if !ok {
		return fmt.Errorf("linearize: source vertex %d not found", e.Source)
	}
	dst, ok := g.Vertex(e.Target)
	if !ok {
		return fmt.Errorf("linearize: target vertex %d not found", e.Target)
	}

	srcTransform := pose.ToTransform(src.Pose)
	dstTransform := pose.ToTransform(dst.Pose)

	m := len(e.Corrs)
	var mm [6][6]float64
	var mz [6]float64
	mm[0][0], mm[1][1], mm[2][2] = float64(m), float64(m), float64(m)

	for _, c := range e.Corrs {
		q := transformPoint(srcTransform, src.Cloud, c.Query)
		r := transformPoint(dstTransform, dst.Cloud, c.Match)
		accumulate(&mm, &mz, q, r)
	}
	mirrorLowerTriangle(&mm)

	d, err := mat6.Solve6(mm, mz)
	if err != nil {
		return fmt.Errorf("linearize: edge (%d,%d): %w", e.Source, e.Target, err)
	}

	s2 := 0.0
	for _, c := range e.Corrs {
		q := transformPoint(srcTransform, src.Cloud, c.Query)
		r := transformPoint(dstTransform, dst.Cloud, c.Match)
		dx, dy, dz := q[0]-r[0], q[1]-r[1], q[2]-r[2]
		x, y, z := (q[0]+r[0])/2, (q[1]+r[1])/2, (q[2]+r[2])/2

		ex := dx - (d[0] + z*d[5] - y*d[4])
		ey := dy - (d[1] + x*d[4] - z*d[3])
		ez := dz - (d[2] + y*d[3] - x*d[5])
		s2 += ex*ex + ey*ey + ez*ez
	}

	invS2 := 1 / s2
	if s2 < epsilon {
		invS2 = 1 / epsilon
	}

	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			e.Cinv[i][j] = mm[i][j] * invS2
		}
		e.Cinvd[i] = mz[i] * invS2
	}
	e.Computed = true
	return nil
}

// All linearizes every edge in g whose cache is stale, in parallel,
// bounded to GOMAXPROCS workers. It returns the first error encountered,
// if any; edges that linearized successfully before an error keep their
// cached result.
func All(ctx context.Context, g *core.Graph) error {
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(runtime.GOMAXPROCS(0))

	for _, e := range g.Edges() {
		e := e
		if e.Computed {
			continue
		}
		grp.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			return One(g, e)
		})
	}
	return grp.Wait()
}

func transformPoint(t pose.Transform, c cloud.Cloud, idx int) [3]float64 {
	p := c[idx]
	return t.Apply([3]float64{p.X, p.Y, p.Z})
}

// accumulate adds one correspondence's contribution to the running M'M
// (mm) and M'Z (mz) sums, per spec.md §4.3 step 4. mm accumulates only
// the upper triangle; mirrorLowerTriangle completes it afterward.
func accumulate(mm *[6][6]float64, mz *[6]float64, q, r [3]float64) {
	x, y, z := (q[0]+r[0])/2, (q[1]+r[1])/2, (q[2]+r[2])/2
	dx, dy, dz := q[0]-r[0], q[1]-r[1], q[2]-r[2]

	mm[0][4] -= y
	mm[0][5] += z
	mm[1][3] -= z
	mm[1][4] += x
	mm[2][3] += y
	mm[2][5] -= x
	mm[3][3] += y*y + z*z
	mm[4][4] += x*x + y*y
	mm[5][5] += x*x + z*z
	mm[3][4] -= x * z
	mm[3][5] -= x * y
	mm[4][5] -= y * z

	mz[0] += dx
	mz[1] += dy
	mz[2] += dz
	mz[3] += y*dz - z*dy
	mz[4] += x*dy - y*dx
	mz[5] += z*dx - x*dz
}

func mirrorLowerTriangle(mm *[6][6]float64) {
	for i := 0; i < 6; i++ {
		for j := i + 1; j < 6; j++ {
			mm[j][i] = mm[i][j]
		}
	}
}
