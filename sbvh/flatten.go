package sbvh

import "github.com/achilleasa/go-sbvh/types"

// FlatNode is a fixed-layout node record suitable for buffer upload to an
// external (e.g. GPU-side) traverser. Records appear in pre-order: an
// interior node's near child is the next record and FarIndex locates the
// far child's subtree.
type FlatNode struct {
	Min types.Vec3
	Max types.Vec3

	// Leaf payload: a span in the reordered primitive list. A record is a
	// leaf iff PrimitiveCount > 0.
	PrimitiveOffset int32
	PrimitiveCount  int32

	// Interior payload.
	FarIndex int32
	Axis     int32
}

// IsLeaf reports whether the record describes a leaf.
func (fn FlatNode) IsLeaf() bool {
	return fn.PrimitiveCount > 0
}

// Flatten returns the pre-order linearization of the hierarchy. The slice
// is produced once at build time; callers must not mutate it.
func (s *SBVH) Flatten() []FlatNode {
	return s.flat
}

// flatten emits the tree in pre-order: node, near subtree, far subtree.
// Every reachable node appears exactly once; nil children emit nothing.
func flatten(root *node) []FlatNode {
	out := make([]FlatNode, 0)

	var walk func(n *node)
	walk = func(n *node) {
		if n == nil {
			return
		}

		idx := len(out)
		rec := FlatNode{Min: n.bbox.Min, Max: n.bbox.Max}
		switch n.kind {
		case nodeLeaf:
			rec.PrimitiveOffset = int32(n.firstGeomOffset)
			rec.PrimitiveCount = int32(n.numGeoms)
			out = append(out, rec)
		case nodeInterior:
			rec.Axis = int32(n.splitAxis)
			out = append(out, rec)
			walk(n.near)
			out[idx].FarIndex = int32(len(out))
			walk(n.far)
		}
	}
	walk(root)
	return out
}
