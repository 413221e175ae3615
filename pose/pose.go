// Package pose provides the pure functions the registration engine builds
// everything else on: turning a 6-vector pose into a rigid transform,
// applying that transform to a single point in closed form, and the
// Jacobian relating the global pose representation to the frame the
// Gauss–Newton solver linearizes in. None of these hold state; they are
// safe to call concurrently.
//
// A Pose is (tx, ty, tz, roll, pitch, yaw): translation in meters, angles
// in radians, composed as ZYX Euler angles (yaw about Z, then pitch about
// Y, then roll about X). This convention is fixed — every transform the
// engine produces must agree with it bit-for-bit, since the incidence
// correction Jacobian is derived from exactly this form.
package pose

import "math"

// Pose is a 6-DOF rigid-body pose: translation plus ZYX Euler angles.
type Pose [6]float64

// Tx, Ty, Tz, Roll, Pitch, Yaw index into a Pose by name.
func (p Pose) Tx() float64    { return p[0] }
func (p Pose) Ty() float64    { return p[1] }
func (p Pose) Tz() float64    { return p[2] }
func (p Pose) Roll() float64  { return p[3] }
func (p Pose) Pitch() float64 { return p[4] }
func (p Pose) Yaw() float64   { return p[5] }

// IsZero reports whether p is the identity pose.
func (p Pose) IsZero() bool {
	return p == Pose{}
}

// Sub returns the component-wise difference p − q.
func (p Pose) Sub(q Pose) Pose {
	var out Pose
	for i := range p {
		out[i] = p[i] - q[i]
	}
	return out
}

// Transform is a rigid 3D affine map: a rotation matrix R plus a
// translation T, applied as out = R·v + T.
type Transform struct {
	R [3][3]float64
	T [3]float64
}

// Apply maps v through t.
func (t Transform) Apply(v [3]float64) [3]float64 {
	return [3]float64{
		t.R[0][0]*v[0] + t.R[0][1]*v[1] + t.R[0][2]*v[2] + t.T[0],
		t.R[1][0]*v[0] + t.R[1][1]*v[1] + t.R[1][2]*v[2] + t.T[1],
		t.R[2][0]*v[0] + t.R[2][1]*v[1] + t.R[2][2]*v[2] + t.T[2],
	}
}

// ToTransform builds the 4×4 affine transform (returned as rotation +
// translation, the last row is always (0,0,0,1) and is not stored) for
// pose p. Let A = cos γ, B = sin γ, C = cos β, D = sin β, E = cos α,
// F = sin α, where α = roll, β = pitch, γ = yaw. The rotation block is:
//
//	[ A·C     A·D·F − B·E    B·F + A·D·E ]
//	[ B·C     A·E + B·D·F    B·D·E − A·F ]
//	[ −D      C·F            C·E         ]
func ToTransform(p Pose) Transform {
	A, B := math.Cos(p.Yaw()), math.Sin(p.Yaw())
	C, D := math.Cos(p.Pitch()), math.Sin(p.Pitch())
	E, F := math.Cos(p.Roll()), math.Sin(p.Roll())

	var t Transform
	t.R[0][0] = A * C
	t.R[0][1] = A*D*F - B*E
	t.R[0][2] = B*F + A*D*E
	t.R[1][0] = B * C
	t.R[1][1] = A*E + B*D*F
	t.R[1][2] = B*D*E - A*F
	t.R[2][0] = -D
	t.R[2][1] = C * F
	t.R[2][2] = C * E
	t.T = [3]float64{p.Tx(), p.Ty(), p.Tz()}
	return t
}

// LinearizedCompound applies pose p to point v. The name carries over from
// the original source: despite it, this is not a small-angle approximation
// — it is the identical rotation ToTransform(p) applies, point-wise, plus
// translation. IncidenceCorrection is the Jacobian of exactly this map, so
// the two must stay in lockstep.
func LinearizedCompound(p Pose, v [3]float64) [3]float64 {
	return ToTransform(p).Apply(v)
}

// IncidenceCorrection returns the 6×6 Jacobian J relating differential
// changes in the global pose representation to differential changes in the
// linearized compounding frame at pose p. It starts from the identity and
// overwrites the entries listed below (cx = cos roll, sx = sin roll,
// cy = cos pitch, sy = sin pitch); GlobalSolver inverts this matrix and
// applies it to the raw Gauss–Newton step.
//
// This Jacobian is singular when cos(pitch) == 0 — the engine does not
// guard that case, matching the original source.
func IncidenceCorrection(p Pose) [6][6]float64 {
	tx, ty, tz := p.Tx(), p.Ty(), p.Tz()
	cx, sx := math.Cos(p.Roll()), math.Sin(p.Roll())
	cy, sy := math.Cos(p.Pitch()), math.Sin(p.Pitch())

	var j [6][6]float64
	for i := range j {
		j[i][i] = 1
	}

	j[0][4] = ty*sx - tz*cx
	j[0][5] = ty*cx*cy + tz*sx*cy
	j[1][3] = tz
	j[1][4] = -tx * sx
	j[1][5] = -tx*cx*cy + tz*sy
	j[2][3] = -ty
	j[2][4] = tx * cx
	j[2][5] = -tx*sx*cy - ty*sy
	j[3][5] = sy
	j[4][4] = sx
	j[4][5] = cx * cy
	j[5][4] = cx
	j[5][5] = -sx * cy

	return j
}
