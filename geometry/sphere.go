package geometry

import (
	"github.com/chewxy/math32"

	"github.com/achilleasa/go-sbvh/types"
)

// Sphere is an analytic primitive. It intentionally does not implement
// SlabClipper; during spatial splits it is always bucketed by centroid.
type Sphere struct {
	Center types.Vec3
	Radius float32

	material *Material
}

// NewSphere creates a sphere primitive.
func NewSphere(center types.Vec3, radius float32, material *Material) *Sphere {
	return &Sphere{Center: center, Radius: radius, material: material}
}

// BBox returns the bounding box of the sphere.
func (s *Sphere) BBox() BBox {
	r := types.Vec3{s.Radius, s.Radius, s.Radius}
	return NewBBox(s.Center.Sub(r), s.Center.Add(r))
}

// Material returns the material attached to the sphere.
func (s *Sphere) Material() *Material {
	return s.material
}

// Intersect tests the ray against the sphere, reporting the nearest
// intersection in front of the ray origin.
func (s *Sphere) Intersect(r Ray) (Hit, bool) {
	oc := r.Origin.Sub(s.Center)
	a := r.Direction.Dot(r.Direction)
	halfB := oc.Dot(r.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	disc := halfB*halfB - a*c
	if disc < 0 {
		return Hit{}, false
	}

	sqrtDisc := math32.Sqrt(disc)
	dist := (-halfB - sqrtDisc) / a
	if dist <= 0 {
		// Ray origin is inside the sphere or the near root is behind it.
		dist = (-halfB + sqrtDisc) / a
		if dist <= 0 {
			return Hit{}, false
		}
	}

	point := r.At(dist)
	return Hit{
		T:        dist,
		Point:    point,
		Normal:   point.Sub(s.Center).Mul(1.0 / s.Radius),
		Material: s.material,
	}, true
}
