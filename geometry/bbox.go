package geometry

import (
	"github.com/chewxy/math32"

	"github.com/achilleasa/go-sbvh/types"
)

// Axis identifies one of the three cardinal axes. Vec3 components are
// addressable by axis index.
type Axis int

const (
	XAxis Axis = iota
	YAxis
	ZAxis
)

func (a Axis) String() string {
	switch a {
	case XAxis:
		return "X"
	case YAxis:
		return "Y"
	case ZAxis:
		return "Z"
	}
	return "?"
}

// BBox is an axis-aligned bounding box. The zero value is not a valid box;
// use NewBBox or start from EmptyBBox so that unions behave as expected.
type BBox struct {
	Min      types.Vec3
	Max      types.Vec3
	Centroid types.Vec3
}

// EmptyBBox returns a box containing no points. It is the identity element
// for Union.
func EmptyBBox() BBox {
	return BBox{
		Min: types.Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32},
		Max: types.Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32},
	}
}

// NewBBox creates a box from its two extreme corners.
func NewBBox(min, max types.Vec3) BBox {
	b := BBox{Min: min, Max: max}
	b.updateCentroid()
	return b
}

// BBoxFromPoints creates the tightest box enclosing all points.
func BBoxFromPoints(points ...types.Vec3) BBox {
	b := EmptyBBox()
	for _, p := range points {
		b.Min = types.MinVec3(b.Min, p)
		b.Max = types.MaxVec3(b.Max, p)
	}
	b.updateCentroid()
	return b
}

func (b *BBox) updateCentroid() {
	b.Centroid = b.Min.Add(b.Max).Mul(0.5)
}

// IsEmpty reports whether the box contains no points.
func (b BBox) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Union returns the smallest box enclosing both operands. An empty box is
// the union identity.
func (b BBox) Union(other BBox) BBox {
	out := BBox{
		Min: types.MinVec3(b.Min, other.Min),
		Max: types.MaxVec3(b.Max, other.Max),
	}
	out.updateCentroid()
	return out
}

// UnionPoint returns the smallest box enclosing the box and the point.
func (b BBox) UnionPoint(p types.Vec3) BBox {
	out := BBox{
		Min: types.MinVec3(b.Min, p),
		Max: types.MaxVec3(b.Max, p),
	}
	out.updateCentroid()
	return out
}

// Overlap returns the intersection of two boxes. The result is empty when
// the boxes do not overlap.
func (b BBox) Overlap(other BBox) BBox {
	out := BBox{
		Min: types.MaxVec3(b.Min, other.Min),
		Max: types.MinVec3(b.Max, other.Max),
	}
	if out.IsEmpty() {
		return EmptyBBox()
	}
	out.updateCentroid()
	return out
}

// SurfaceArea returns the total face area of the box. Empty boxes report 0
// so that callers never propagate the empty-box sentinel into cost math.
func (b BBox) SurfaceArea() float32 {
	if b.IsEmpty() {
		return 0
	}
	d := b.Max.Sub(b.Min)
	return 2.0 * (d[0]*d[1] + d[1]*d[2] + d[2]*d[0])
}

// MaxExtent returns the axis along which the box is longest.
func (b BBox) MaxExtent() Axis {
	d := b.Max.Sub(b.Min)
	if d[0] > d[1] && d[0] > d[2] {
		return XAxis
	}
	if d[1] > d[2] {
		return YAxis
	}
	return ZAxis
}

// Offset returns the position of p relative to the box corners, normalized
// to [0,1] on each axis for points inside the box.
func (b BBox) Offset(p types.Vec3) types.Vec3 {
	o := p.Sub(b.Min)
	for axis := 0; axis < 3; axis++ {
		if b.Max[axis] > b.Min[axis] {
			o[axis] /= b.Max[axis] - b.Min[axis]
		}
	}
	return o
}

// Intersects tests the ray against the box using the slab method.
func (b BBox) Intersects(r Ray) bool {
	tMin := float32(0)
	tMax := float32(math32.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		if math32.Abs(r.Direction[axis]) < floatCmpEpsilon {
			// Ray is parallel to the slab planes on this axis.
			if r.Origin[axis] < b.Min[axis] || r.Origin[axis] > b.Max[axis] {
				return false
			}
			continue
		}

		invDir := 1.0 / r.Direction[axis]
		t1 := (b.Min[axis] - r.Origin[axis]) * invDir
		t2 := (b.Max[axis] - r.Origin[axis]) * invDir
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math32.Max(tMin, t1)
		tMax = math32.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}

	return true
}
