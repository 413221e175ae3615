// Package lum implements Lu–Milios globally consistent range-scan
// alignment: given a set of point clouds and sparse point-to-point
// correspondences between pairs of them, it solves jointly for a 6-DOF
// pose per cloud so that every pairwise correspondence is simultaneously
// consistent in a maximum-likelihood sense. The first cloud added is the
// reference and stays fixed at the identity pose.
//
// What lum does:
//
//   - pose/      — pure functions over 6-vector poses: transform
//     construction, the linearized compounding operator, and the
//     incidence-correction Jacobian.
//   - core/       — the SLAM graph: vertices carry a cloud and a pose,
//     edges carry correspondences and a cached linearization.
//   - linearize/  — per-edge linearization, producing an information
//     matrix and information vector from two posed clouds.
//   - solver/     — assembles and solves the global Gauss–Newton system
//     and applies incidence-corrected pose updates, for a fixed number
//     of outer iterations.
//   - aggregate/  — concatenates all clouds under their solved poses.
//   - mat6/       — the dense linear algebra this needs: block assembly,
//     Gaussian elimination, and column-pivoted Householder QR.
//
// Engine is the single entry point gluing these together; everything
// else here is read-only over the solved graph or a pure function.
//
//	go get github.com/pointreg/lum
package lum
