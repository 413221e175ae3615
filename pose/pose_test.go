package pose

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToTransformIdentity(t *testing.T) {
	tr := ToTransform(Pose{})
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.InDelta(t, want, tr.R[i][j], 1e-12)
		}
		assert.InDelta(t, 0.0, tr.T[i], 1e-12)
	}
}

func TestToTransformTranslationOnly(t *testing.T) {
	p := Pose{1, 2, 3, 0, 0, 0}
	tr := ToTransform(p)
	out := tr.Apply([3]float64{0, 0, 0})
	require.InDelta(t, 1.0, out[0], 1e-12)
	require.InDelta(t, 2.0, out[1], 1e-12)
	require.InDelta(t, 3.0, out[2], 1e-12)
}

func TestToTransformYawRotatesXIntoY(t *testing.T) {
	p := Pose{0, 0, 0, 0, 0, math.Pi / 2}
	tr := ToTransform(p)
	out := tr.Apply([3]float64{1, 0, 0})
	assert.InDelta(t, 0.0, out[0], 1e-9)
	assert.InDelta(t, 1.0, out[1], 1e-9)
	assert.InDelta(t, 0.0, out[2], 1e-9)
}

// TestLinearizedCompoundMatchesTransform is the "transform round-trip"
// property: for all poses and points, LinearizedCompound must equal the
// first three components of ToTransform(p) applied to v.
func TestLinearizedCompoundMatchesTransform(t *testing.T) {
	poses := []Pose{
		{},
		{1, -2, 0.5, 0.1, -0.2, 0.3},
		{-3, 4, -1, 0.9, 0.4, -1.2},
		{0, 0, 0, math.Pi / 4, math.Pi / 6, -math.Pi / 3},
	}
	points := [][3]float64{
		{0, 0, 0}, {1, 2, 3}, {-5, 0.5, 2}, {10, -10, 4},
	}
	for _, p := range poses {
		want := ToTransform(p)
		for _, v := range points {
			got := LinearizedCompound(p, v)
			exp := want.Apply(v)
			for i := 0; i < 3; i++ {
				if exp[i] == 0 {
					assert.InDelta(t, exp[i], got[i], 1e-9)
				} else {
					assert.InEpsilon(t, exp[i], got[i], 1e-5)
				}
			}
		}
	}
}

// TestIncidenceCorrectionAtOrigin checks J at the zero pose: every
// translation-coupling entry vanishes, and since j[4][4]=sx, j[4][5]=cx*cy,
// j[5][4]=cx and j[5][5]=-sx*cy, J is the identity with rows 4 and 5 swapped.
func TestIncidenceCorrectionAtOrigin(t *testing.T) {
	j := IncidenceCorrection(Pose{})
	for i := 0; i < 6; i++ {
		for k := 0; k < 6; k++ {
			want := 0.0
			if i == k && i < 4 {
				want = 1.0
			}
			if (i == 4 && k == 5) || (i == 5 && k == 4) {
				want = 1.0
			}
			assert.InDeltaf(t, want, j[i][k], 1e-12, "j[%d][%d]", i, k)
		}
	}
}

func TestIncidenceCorrectionKnownEntries(t *testing.T) {
	p := Pose{1, 2, 3, math.Pi / 6, math.Pi / 4, 0}
	j := IncidenceCorrection(p)
	cx, sx := math.Cos(p.Roll()), math.Sin(p.Roll())
	cy, sy := math.Cos(p.Pitch()), math.Sin(p.Pitch())

	assert.InDelta(t, p.Ty()*sx-p.Tz()*cx, j[0][4], 1e-12)
	assert.InDelta(t, p.Ty()*cx*cy+p.Tz()*sx*cy, j[0][5], 1e-12)
	assert.InDelta(t, p.Tz(), j[1][3], 1e-12)
	assert.InDelta(t, sy, j[3][5], 1e-12)
	assert.InDelta(t, sx, j[4][4], 1e-12)
	assert.InDelta(t, cx*cy, j[4][5], 1e-12)
	assert.InDelta(t, cx, j[5][4], 1e-12)
	assert.InDelta(t, -sx*cy, j[5][5], 1e-12)
}
