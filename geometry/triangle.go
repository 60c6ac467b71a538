package geometry

import (
	"github.com/chewxy/math32"

	"github.com/achilleasa/go-sbvh/types"
)

// Triangle is the only geometry that supports spatial splitting; its raw
// vertices make axis-aligned plane clipping possible.
type Triangle struct {
	V0, V1, V2 types.Vec3

	normal   types.Vec3
	material *Material
}

// NewTriangle creates a triangle primitive. The face normal is derived from
// the winding of the supplied vertices.
func NewTriangle(v0, v1, v2 types.Vec3, material *Material) *Triangle {
	return &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		normal:   v1.Sub(v0).Cross(v2.Sub(v0)).Normalize(),
		material: material,
	}
}

// BBox returns the bounding box of the triangle.
func (t *Triangle) BBox() BBox {
	return BBoxFromPoints(t.V0, t.V1, t.V2)
}

// Normal returns the face normal.
func (t *Triangle) Normal() types.Vec3 {
	return t.normal
}

// Material returns the material attached to the triangle.
func (t *Triangle) Material() *Material {
	return t.material
}

// Intersect tests the ray against the triangle using the Moeller-Trumbore
// algorithm.
func (t *Triangle) Intersect(r Ray) (Hit, bool) {
	e1 := t.V1.Sub(t.V0)
	e2 := t.V2.Sub(t.V0)

	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < floatCmpEpsilon {
		// Ray is parallel to the triangle plane.
		return Hit{}, false
	}

	invDet := 1.0 / det
	s := r.Origin.Sub(t.V0)
	u := s.Dot(p) * invDet
	if u < 0 || u > 1 {
		return Hit{}, false
	}

	q := s.Cross(e1)
	v := r.Direction.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return Hit{}, false
	}

	dist := e2.Dot(q) * invDet
	if dist <= 0 {
		return Hit{}, false
	}

	return Hit{
		T:        dist,
		Point:    r.At(dist),
		Normal:   t.normal,
		Material: t.material,
	}, true
}

// ClipToSlab clips the triangle against the axis-aligned slab [lo, hi] and
// returns a tight bounding box for the contained part of its surface: the
// triangle polygon cut against both slab planes. Boxes produced for a run of
// adjacent slabs tile the whole triangle, so replacing a straddling
// reference with its per-slab fragments loses no coverage. Returns an empty
// box when no part of the triangle reaches into the slab.
func (t *Triangle) ClipToSlab(axis Axis, lo, hi float32) BBox {
	poly := [...]types.Vec3{t.V0, t.V1, t.V2}
	clipped := clipPolygon(clipPolygon(poly[:], axis, lo, false), axis, hi, true)
	if len(clipped) == 0 {
		return EmptyBBox()
	}
	return BBoxFromPoints(clipped...)
}

// clipPolygon cuts a convex polygon against a single axis-aligned plane,
// keeping the part at or below the plane (keepBelow) or at or above it.
// Edges crossing the plane contribute their intersection point, computed by
// similar triangles along the edge.
func clipPolygon(poly []types.Vec3, axis Axis, plane float32, keepBelow bool) []types.Vec3 {
	if len(poly) == 0 {
		return nil
	}

	inside := func(p types.Vec3) bool {
		if keepBelow {
			return p[axis] <= plane
		}
		return p[axis] >= plane
	}

	out := make([]types.Vec3, 0, len(poly)+1)
	for i := range poly {
		cur, next := poly[i], poly[(i+1)%len(poly)]
		if inside(cur) {
			out = append(out, cur)
		}
		if inside(cur) != inside(next) {
			scale := (plane - cur[axis]) / (next[axis] - cur[axis])
			out = append(out, cur.Add(next.Sub(cur).Mul(scale)))
		}
	}
	return out
}
