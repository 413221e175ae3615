package lum

import (
	"context"

	"github.com/pointreg/lum/aggregate"
	"github.com/pointreg/lum/cloud"
	"github.com/pointreg/lum/core"
	"github.com/pointreg/lum/pose"
	"github.com/pointreg/lum/solver"
)

// Engine is the entry point for globally consistent range-scan alignment.
// It owns a SLAM graph and the solver that optimizes it; callers build up
// the graph with AddPointCloud/SetCorrespondences, run Compute, and read
// back poses or the merged cloud. The zero value is not usable; construct
// with NewEngine.
type Engine struct {
	graph  *core.Graph
	solver *solver.Solver
}

// EngineOption configures an Engine at construction time.
type EngineOption func(*Engine)

// WithMaxIterations sets the number of outer Gauss–Newton passes Compute
// runs. The default is 1.
func WithMaxIterations(k int) EngineOption {
	return func(e *Engine) {
		e.solver.SetMaxIterations(k)
	}
}

// NewEngine returns an empty Engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		graph:  core.NewGraph(),
		solver: solver.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddPointCloud appends a scan with the zero pose and returns its dense
// id. The first call yields id 0, the reference scan whose pose never
// changes.
func (e *Engine) AddPointCloud(c cloud.Cloud) int {
	return e.graph.AddPointCloud(c)
}

// AddPointCloudWithPose appends a scan with an initial pose estimate and
// returns its dense id.
func (e *Engine) AddPointCloudWithPose(c cloud.Cloud, p pose.Pose) int {
	return e.graph.AddPointCloudWithPose(c, p)
}

// SetPose overwrites the pose of scan v.
func (e *Engine) SetPose(v int, p pose.Pose) {
	e.graph.SetPose(v, p)
}

// GetPose returns the current pose of scan v.
func (e *Engine) GetPose(v int) pose.Pose {
	return e.graph.GetPose(v)
}

// SetCorrespondences records the point correspondences that constrain
// scans s and t relative to each other.
func (e *Engine) SetCorrespondences(s, t int, corrs []cloud.Correspondence) {
	e.graph.SetCorrespondences(s, t, corrs)
}

// GetCorrespondences returns the correspondence list stored on edge (s,t).
func (e *Engine) GetCorrespondences(s, t int) []cloud.Correspondence {
	return e.graph.GetCorrespondences(s, t)
}

// SetMaxIterations sets the number of outer Gauss–Newton passes Compute
// runs.
func (e *Engine) SetMaxIterations(k int) {
	e.solver.SetMaxIterations(k)
}

// GetMaxIterations returns the configured number of outer passes.
func (e *Engine) GetMaxIterations() int {
	return e.solver.GetMaxIterations()
}

// Compute runs the configured number of Gauss–Newton passes, updating
// every non-reference scan's pose in place.
func (e *Engine) Compute(ctx context.Context) error {
	return e.solver.Compute(ctx, e.graph)
}

// ConcatenatedCloud returns every scan transformed by its current pose
// and merged in scan-id order. It is recomputed on every call.
func (e *Engine) ConcatenatedCloud() cloud.Cloud {
	return aggregate.ConcatenatedCloud(e.graph)
}
