// Package cloud defines the plain data types the registration engine reads
// from and writes to: 3D points, ordered point clouds, and the sparse
// point-index correspondences linking two clouds. These mirror how the
// original PCL source models them — pcl::PointCloud<PointT> is an ordered
// vector of points with no spatial index of its own — so feature matching,
// nearest-neighbor search, and file I/O stay external collaborators, out of
// scope for this package and for the engine it supports.
package cloud

// Point3 is a single point in 3-space. At minimum a point cloud needs
// x, y, z as finite floats; no color, normal, or intensity channel is
// required by the engine.
type Point3 struct {
	X, Y, Z float64
}

// Add returns the component-wise sum of p and q.
func (p Point3) Add(q Point3) Point3 {
	return Point3{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

// Sub returns the component-wise difference p − q.
func (p Point3) Sub(q Point3) Point3 {
	return Point3{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Scale returns p scaled by s.
func (p Point3) Scale(s float64) Point3 {
	return Point3{p.X * s, p.Y * s, p.Z * s}
}

// Cloud is an ordered sequence of points. The engine never mutates a Cloud
// it was given; callers own it and must not mutate it while Engine.Compute
// is running.
type Cloud []Point3

// Clone returns an independent copy of c.
func (c Cloud) Clone() Cloud {
	out := make(Cloud, len(c))
	copy(out, c)
	return out
}

// Correspondence links one point in a source cloud to one point in a
// target cloud by index.
type Correspondence struct {
	Query int // index into the source (edge) cloud
	Match int // index into the target cloud
}
