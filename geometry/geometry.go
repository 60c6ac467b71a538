// Package geometry provides the primitive shapes partitioned by the SBVH
// builder and the ray/box math used during construction and traversal.
package geometry

import "github.com/achilleasa/go-sbvh/types"

const floatCmpEpsilon = 1.0e-8

// Ray describes a half line starting at Origin.
type Ray struct {
	Origin    types.Vec3
	Direction types.Vec3
}

// NewRay creates a ray with a normalized direction.
func NewRay(origin, direction types.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at parametric distance t along the ray.
func (r Ray) At(t float32) types.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Hit describes a ray/geometry intersection. T is the parametric distance
// along the ray; intersections behind the origin (T <= 0) are never
// reported as hits.
type Hit struct {
	T      float32
	Point  types.Vec3
	Normal types.Vec3

	// The material attached to the intersected geometry. Shading is the
	// consumer's concern; the hit only carries the reference.
	Material *Material
}

// Material holds the shading parameters referenced by hits. Only a bare
// diffuse description is kept; anything richer belongs to the renderer.
type Material struct {
	Name string
	Kd   types.Vec3
}

// Geometry is implemented by every primitive that can be partitioned by the
// SBVH builder and intersected during traversal.
type Geometry interface {
	// BBox returns the bounding box of the primitive.
	BBox() BBox

	// Intersect tests the ray against the primitive. The second return
	// value is false when there is no intersection with t > 0.
	Intersect(r Ray) (Hit, bool)
}

// SlabClipper is the capability implemented by geometries that can clip
// themselves against an axis-aligned slab, producing a tight bounding box
// for the contained part of their surface. The boxes produced for a run of
// adjacent slabs must tile the surface; an empty box signals that nothing of
// the surface lies inside the slab. Geometries without this capability are
// bucketed by their centroid during spatial splits and are never fragmented.
type SlabClipper interface {
	ClipToSlab(axis Axis, lo, hi float32) BBox
}
