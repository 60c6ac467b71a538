package sbvh

import "github.com/achilleasa/go-sbvh/geometry"

type nodeKind uint8

const (
	nodeLeaf nodeKind = iota
	nodeInterior
)

// node is one tree node. The kind tag selects which payload fields are
// meaningful; every use site switches exhaustively on it.
type node struct {
	kind nodeKind
	bbox geometry.BBox

	// Build-order index. Assigned post-order: a node's index is always
	// greater than the indices of both its children. Used for diagnostics
	// only, never for traversal.
	buildIndex int

	// Leaf payload: a contiguous span in the reordered geometry list.
	firstGeomOffset int
	numGeoms        int

	// Interior payload. The near child precedes the far child along the
	// split axis.
	near, far *node
	splitAxis geometry.Axis
}

// geometryInfo tracks one geometry reference during the build. Spatial
// splitting may clip a reference into several fragments sharing the same
// geometry id; the straddling flag marks references that have been
// fragmented within the current partitioning step.
type geometryInfo struct {
	geometryID int
	bbox       geometry.BBox
	straddling bool
}
