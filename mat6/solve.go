package mat6

import "math"

// Solve6 solves the fixed-size 6×6 system a·x = b by Gaussian elimination
// with partial pivoting. This is the per-edge solve EdgeLinearizer uses
// for D = M⁻¹·z: small and dense enough that a general QR is overkill,
// and the spec does not require column-pivoting robustness at this size
// (only the global G·X = B solve does, per spec.md §4.4 step 4).
func Solve6(a [6][6]float64, b [6]float64) ([6]float64, error) {
	var out [6]float64
	const n = 6

	// Augmented working copy.
	var m [n][n + 1]float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m[i][j] = a[i][j]
		}
		m[i][n] = b[i]
	}

	for col := 0; col < n; col++ {
		// Partial pivot: largest magnitude in this column, at or below col.
		piv := col
		best := math.Abs(m[col][col])
		for r := col + 1; r < n; r++ {
			if v := math.Abs(m[r][col]); v > best {
				best, piv = v, r
			}
		}
		if best == 0 {
			return out, ErrSingular
		}
		if piv != col {
			m[col], m[piv] = m[piv], m[col]
		}

		pivot := m[col][col]
		for r := col + 1; r < n; r++ {
			factor := m[r][col] / pivot
			if factor == 0 {
				continue
			}
			for c := col; c <= n; c++ {
				m[r][c] -= factor * m[col][c]
			}
		}
	}

	for i := n - 1; i >= 0; i-- {
		sum := m[i][n]
		for j := i + 1; j < n; j++ {
			sum -= m[i][j] * out[j]
		}
		out[i] = sum / m[i][i]
	}
	return out, nil
}

// SolveQR solves a·x = b for a square a via column-pivoted Householder QR:
// P·A = Q·R, then R·y = Qᵗ·b solved by back substitution, then x = P·y.
// Column pivoting makes this robust to the mild rank deficiency a
// near-degenerate SLAM graph can produce (spec.md §4.4 step 4, §7): a
// near-zero diagonal entry of R leaves the corresponding (pivoted) x
// component at zero rather than failing. The result is a basic
// least-squares solution; it is not in general the minimum-norm one.
func SolveQR(a *Dense, b []float64) ([]float64, error) {
	n := a.Rows()
	if a.Cols() != n {
		return nil, ErrDimensionMismatch
	}
	if len(b) != n {
		return nil, ErrDimensionMismatch
	}

	r := a.Clone()
	qtb := make([]float64, n)
	copy(qtb, b)

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	// Column norms, maintained incrementally as columns are pivoted.
	colNormSq := make([]float64, n)
	for j := 0; j < n; j++ {
		s := 0.0
		for i := 0; i < n; i++ {
			v, _ := r.At(i, j)
			s += v * v
		}
		colNormSq[j] = s
	}

	v := make([]float64, n)
	for k := 0; k < n; k++ {
		// Pick the remaining column with the largest norm as the pivot.
		pivCol := k
		best := colNormSq[k]
		for j := k + 1; j < n; j++ {
			if colNormSq[j] > best {
				best, pivCol = colNormSq[j], j
			}
		}
		if pivCol != k {
			swapColumns(r, k, pivCol)
			colNormSq[k], colNormSq[pivCol] = colNormSq[pivCol], colNormSq[k]
			perm[k], perm[pivCol] = perm[pivCol], perm[k]
		}

		norm := 0.0
		for i := k; i < n; i++ {
			val, _ := r.At(i, k)
			norm += val * val
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			continue // zero column: this direction contributes nothing, skip the reflection
		}

		pivVal, _ := r.At(k, k)
		alpha := -math.Copysign(norm, pivVal)

		for i := range v {
			v[i] = 0
		}
		for i := k; i < n; i++ {
			v[i], _ = r.At(i, k)
		}
		v[k] -= alpha

		beta := 0.0
		for i := k; i < n; i++ {
			beta += v[i] * v[i]
		}
		if beta == 0 {
			continue
		}
		tau := 2.0 / beta

		for j := k; j < n; j++ {
			sum := 0.0
			for i := k; i < n; i++ {
				val, _ := r.At(i, j)
				sum += v[i] * val
			}
			for i := k; i < n; i++ {
				val, _ := r.At(i, j)
				_ = r.Set(i, j, val-tau*v[i]*sum)
			}
		}

		sum := 0.0
		for i := k; i < n; i++ {
			sum += v[i] * qtb[i]
		}
		for i := k; i < n; i++ {
			qtb[i] -= tau * v[i] * sum
		}

		// Downdate trailing column norms (Householder reflections only
		// remove mass from column k's own subspace).
		for j := k + 1; j < n; j++ {
			val, _ := r.At(k, j)
			colNormSq[j] -= val * val
			if colNormSq[j] < 0 {
				colNormSq[j] = 0
			}
		}
	}

	// Back substitution: R·y = qtb, skipping near-zero pivots.
	y := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := qtb[i]
		for j := i + 1; j < n; j++ {
			rij, _ := r.At(i, j)
			sum -= rij * y[j]
		}
		rii, _ := r.At(i, i)
		if math.Abs(rii) < 1e-12 {
			y[i] = 0
			continue
		}
		y[i] = sum / rii
	}

	x := make([]float64, n)
	for i, p := range perm {
		x[p] = y[i]
	}
	return x, nil
}

func swapColumns(m *Dense, a, b int) {
	if a == b {
		return
	}
	for i := 0; i < m.r; i++ {
		va, _ := m.At(i, a)
		vb, _ := m.At(i, b)
		_ = m.Set(i, a, vb)
		_ = m.Set(i, b, va)
	}
}
