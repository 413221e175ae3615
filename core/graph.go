package core

import (
	"sync"

	"github.com/pointreg/lum/cloud"
	"github.com/pointreg/lum/internal/diag"
	"github.com/pointreg/lum/pose"
)

// Vertex is a node in the SLAM graph: a point cloud and the pose that
// places it in the common reference frame. Vertex 0 is always the
// reference; its Pose never changes.
type Vertex struct {
	ID    int
	Cloud cloud.Cloud
	Pose  pose.Pose
}

// Edge is a directed constraint between two vertices: the correspondences
// supplied by the caller, plus the linearization EdgeLinearizer caches
// here once computed. Computed is false whenever Cinv/Cinvd do not yet
// reflect the current poses of Source and Target or the current Corrs.
type Edge struct {
	Source, Target int
	Corrs          []cloud.Correspondence

	Cinv     [6][6]float64
	Cinvd    [6]float64
	Computed bool
}

type edgeKey struct{ s, t int }

// Graph is the SLAM graph. The zero value is not usable; construct with
// NewGraph.
type Graph struct {
	mu sync.RWMutex

	vertices []*Vertex
	edges    map[edgeKey]*Edge
	order    []edgeKey // insertion order, for deterministic iteration
	incident map[int][]edgeKey
}

// NewGraph returns an empty SLAM graph.
func NewGraph() *Graph {
	return &Graph{
		edges:    make(map[edgeKey]*Edge),
		incident: make(map[int][]edgeKey),
	}
}

// AddPointCloud appends a vertex holding c with the zero pose and returns
// its dense id. The first call yields id 0, the reference vertex.
func (g *Graph) AddPointCloud(c cloud.Cloud) int {
	return g.addPointCloud(c, pose.Pose{})
}

// AddPointCloudWithPose appends a vertex holding c with the given initial
// pose estimate and returns its dense id. For the reference vertex (id 0)
// the pose argument is silently replaced with the zero pose and a warning
// is logged.
func (g *Graph) AddPointCloudWithPose(c cloud.Cloud, p pose.Pose) int {
	if g.NumVertices() == 0 {
		diag.Warnf("AddPointCloudWithPose: the pose estimate is ignored for the first cloud in the graph, since it becomes the reference pose")
		p = pose.Pose{}
	}
	return g.addPointCloud(c, p)
}

func (g *Graph) addPointCloud(c cloud.Cloud, p pose.Pose) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := len(g.vertices)
	g.vertices = append(g.vertices, &Vertex{ID: id, Cloud: c, Pose: p})
	return id
}

// NumVertices returns the number of vertices currently in the graph.
func (g *Graph) NumVertices() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.vertices)
}

// Vertices returns the vertex table in id order. Callers must not mutate
// the returned slice's elements outside of SetPose.
func (g *Graph) Vertices() []*Vertex {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Vertex, len(g.vertices))
	copy(out, g.vertices)
	return out
}

// Vertex returns the vertex with the given id, or (nil, false) if v is
// out of range. Unlike Vertices, this does not copy.
func (g *Graph) Vertex(v int) (*Vertex, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if err := g.validateVertex(v); err != nil {
		return nil, false
	}
	return g.vertices[v], true
}

// SetPose overwrites the pose of vertex v and invalidates every edge
// incident to it (in either direction). Setting the reference vertex's
// pose, or an out-of-range vertex, is a no-op logged as a warning.
func (g *Graph) SetPose(v int, p pose.Pose) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.validateVertex(v); err != nil {
		diag.Warnf("SetPose(%d): %v", v, err)
		return
	}
	if v == 0 {
		diag.Warnf("SetPose(0): %v", errReferenceVertexPose)
		return
	}

	g.vertices[v].Pose = p
	for _, k := range g.incident[v] {
		g.edges[k].Computed = false
	}
}

// GetPose returns the pose of vertex v, or the zero pose (with a warning)
// if v is out of range.
func (g *Graph) GetPose(v int) pose.Pose {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if err := g.validateVertex(v); err != nil {
		diag.Warnf("GetPose(%d): %v", v, err)
		return pose.Pose{}
	}
	return g.vertices[v].Pose
}

// SetCorrespondences creates the (s,t) edge if absent and overwrites its
// correspondence list, invalidating its cached linearization. It is a
// no-op, logged as a warning, if either vertex is out of range, s == t,
// or corrs has fewer than 3 entries.
func (g *Graph) SetCorrespondences(s, t int, corrs []cloud.Correspondence) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.validateEdgeArgs(s, t, corrs); err != nil {
		diag.Warnf("SetCorrespondences(%d,%d): %v", s, t, err)
		return
	}

	k := edgeKey{s, t}
	e, ok := g.edges[k]
	if !ok {
		e = &Edge{Source: s, Target: t}
		g.edges[k] = e
		g.order = append(g.order, k)
		g.incident[s] = append(g.incident[s], k)
		g.incident[t] = append(g.incident[t], k)
	}
	e.Corrs = corrs
	e.Computed = false
}

// GetCorrespondences returns the correspondence list stored on edge (s,t),
// or nil (with a warning) if either vertex is invalid or no such edge
// exists. It does not fall back to the reverse edge (t,s).
func (g *Graph) GetCorrespondences(s, t int) []cloud.Correspondence {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if err := g.validateVertex(s); err != nil {
		diag.Warnf("GetCorrespondences(%d,%d): %v", s, t, err)
		return nil
	}
	if err := g.validateVertex(t); err != nil {
		diag.Warnf("GetCorrespondences(%d,%d): %v", s, t, err)
		return nil
	}
	e, ok := g.edges[edgeKey{s, t}]
	if !ok {
		diag.Warnf("GetCorrespondences(%d,%d): %v", s, t, errEdgeNotFound)
		return nil
	}
	return e.Corrs
}

// EdgeBetween returns the directed edge (s,t) if it exists. It does not
// consult the reverse edge; callers that need the "forward, else
// backward" lookup the solver uses should check both
// directions themselves via this method.
func (g *Graph) EdgeBetween(s, t int) (*Edge, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.edges[edgeKey{s, t}]
	return e, ok
}

// Edges returns every edge in the graph, in the order they were first
// created by SetCorrespondences.
func (g *Graph) Edges() []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Edge, len(g.order))
	for i, k := range g.order {
		out[i] = g.edges[k]
	}
	return out
}

func (g *Graph) validateVertex(v int) error {
	if v < 0 || v >= len(g.vertices) {
		return errVertexOutOfRange
	}
	return nil
}

func (g *Graph) validateEdgeArgs(s, t int, corrs []cloud.Correspondence) error {
	if s == t {
		return errSelfLoop
	}
	if err := g.validateVertex(s); err != nil {
		return err
	}
	if err := g.validateVertex(t); err != nil {
		return err
	}
	if len(corrs) < 3 {
		return errTooFewCorrespondences
	}
	return nil
}
