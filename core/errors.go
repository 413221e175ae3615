// Package core implements the SLAM graph: a directed graph whose vertices
// carry a point cloud and a pose, and whose edges carry a correspondence
// list plus a cached linearization. It is the in-memory data structure the
// rest of the engine (linearize, solver, aggregate) mutates and reads.
//
// All mutations acquire a write lock; all reads acquire a read lock, so a
// Graph is safe to share across goroutines (this matters once linearize
// fans per-edge work out across a worker pool). Mutating the graph
// structure concurrently with Compute is still undefined, per the
// engine's concurrency contract — the lock only protects the graph's own
// bookkeeping from racing with itself.
//
// Diagnostics follow the original source's policy: invalid input (an
// out-of-range vertex, a self-loop edge, too few correspondences, setting
// vertex 0's pose) is logged through internal/diag and the operation is
// skipped. No error crosses the public API; the graph remains usable after
// any invalid call.
package core

import "errors"

// Sentinel errors used internally to classify why a mutation was skipped.
// These never escape the package: public methods log them via diag and
// return nothing, matching the "warn, don't fail" policy in spec §7.
var (
	errVertexOutOfRange      = errors.New("core: vertex index out of range")
	errSelfLoop              = errors.New("core: source and target vertex are identical")
	errTooFewCorrespondences = errors.New("core: correspondence list has fewer than 3 entries")
	errReferenceVertexPose   = errors.New("core: pose of the reference vertex cannot be changed")
	errEdgeNotFound          = errors.New("core: no edge between the given vertices")
)
