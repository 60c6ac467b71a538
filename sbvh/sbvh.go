// Package sbvh builds spatial split bounding volume hierarchies over
// geometry lists and answers ray intersection queries against them.
//
// The tree is built once from a static geometry list. After Build returns
// the hierarchy is immutable and may be queried concurrently.
package sbvh

import (
	"time"

	"github.com/chewxy/math32"

	"github.com/achilleasa/go-sbvh/geometry"
	"github.com/achilleasa/go-sbvh/log"
)

// SplitMethod selects the partitioning strategy used for the whole build.
type SplitMethod int

const (
	// SplitEqualCounts sorts by centroid along the widest axis and splits
	// at the median.
	SplitEqualCounts SplitMethod = iota

	// SplitSAH buckets centroids along the widest axis and picks the
	// bucket boundary with the lowest surface area heuristic cost.
	SplitSAH

	// SplitSpatialSAH additionally evaluates spatial split candidates
	// where straddling geometry is clipped into per-bucket fragments.
	SplitSpatialSAH
)

func (m SplitMethod) String() string {
	switch m {
	case SplitEqualCounts:
		return "equal-counts"
	case SplitSAH:
		return "sah"
	case SplitSpatialSAH:
		return "spatial-sah"
	}
	return "unknown"
}

// ParseSplitMethod maps a CLI-friendly name to a SplitMethod.
func ParseSplitMethod(name string) (SplitMethod, bool) {
	switch name {
	case "equal-counts":
		return SplitEqualCounts, true
	case "sah":
		return SplitSAH, true
	case "spatial-sah":
		return SplitSpatialSAH, true
	}
	return 0, false
}

// Options control a single build. The zero value selects equal-counts
// splitting with the default cost constants.
type Options struct {
	// The partitioning strategy. Fixed for the whole build.
	SplitMethod SplitMethod

	// Estimated cost of one interior node visit relative to one
	// geometry intersection test.
	TraversalCost float32

	// Cost of one geometry intersection test.
	IntersectionCost float32

	// Ranges larger than this are always split; smaller ranges may become
	// leaves when splitting costs more than intersecting every geometry.
	MaxGeomsPerLeaf int
}

// DefaultOptions returns the options used by the command line tool when no
// flags override them.
func DefaultOptions() Options {
	return Options{
		SplitMethod:      SplitSpatialSAH,
		TraversalCost:    0.125,
		IntersectionCost: 1.0,
		MaxGeomsPerLeaf:  4,
	}
}

func (o Options) withDefaults() Options {
	if o.TraversalCost <= 0 {
		o.TraversalCost = 0.125
	}
	if o.IntersectionCost <= 0 {
		o.IntersectionCost = 1.0
	}
	if o.MaxGeomsPerLeaf <= 0 {
		o.MaxGeomsPerLeaf = 4
	}
	return o
}

// SBVH is an immutable spatial split bounding volume hierarchy. Queries are
// safe for concurrent use; each query keeps its own nearest-hit state.
type SBVH struct {
	opts Options

	root *node

	// Geometries reordered so that every leaf owns a contiguous span.
	// Spatial splitting may reference a geometry from more than one leaf.
	geoms []geometry.Geometry

	// Pre-order linearization of the tree, produced at build time.
	flat []FlatNode

	stats Stats
}

type builder struct {
	logger log.Logger
	opts   Options

	// The caller-supplied geometry list, indexed by geometry id.
	geoms []geometry.Geometry

	// Output list appended to by every created leaf.
	orderedGeoms []geometry.Geometry

	nodeCount int
	stats     Stats
}

// Build constructs an SBVH over the supplied geometries. The input slice is
// not modified; the hierarchy keeps its own reordered copy. Building with
// an empty list yields a structure whose queries always miss.
func Build(geoms []geometry.Geometry, opts Options) *SBVH {
	opts = opts.withDefaults()

	b := &builder{
		logger:       log.New("sbvh"),
		opts:         opts,
		geoms:        geoms,
		orderedGeoms: make([]geometry.Geometry, 0, len(geoms)),
	}
	b.stats.InputGeometries = len(geoms)

	infos := make([]geometryInfo, len(geoms))
	for i, g := range geoms {
		infos[i] = geometryInfo{geometryID: i, bbox: g.BBox()}
	}

	start := time.Now()
	root := b.build(infos, 0)
	b.stats.OrderedGeometries = len(b.orderedGeoms)
	b.stats.BuildTime = time.Since(start)

	b.logger.Debugf(
		"SBVH build time: %d ms, method: %s, maxDepth: %d, nodes: %d, leafs: %d",
		b.stats.BuildTime.Nanoseconds()/1e6,
		opts.SplitMethod, b.stats.MaxDepth, b.stats.Nodes, b.stats.Leafs,
	)

	return &SBVH{
		opts:  opts,
		root:  root,
		geoms: b.orderedGeoms,
		flat:  flatten(root),
		stats: b.stats,
	}
}

// Primitives returns the reordered geometry list referenced by leaf spans.
func (s *SBVH) Primitives() []geometry.Geometry {
	return s.geoms
}

// Stats returns statistics captured during the build.
func (s *SBVH) Stats() Stats {
	return s.stats
}

// build recursively partitions infos and returns the subtree root, or nil
// for an empty range. Each call owns its sub-slice; partitioning reorders
// entries in place and spatial splits may substitute a rebuilt slice.
func (b *builder) build(infos []geometryInfo, depth int) *node {
	if len(infos) == 0 {
		return nil
	}
	if depth > b.stats.MaxDepth {
		b.stats.MaxDepth = depth
	}

	allBounds := geometry.EmptyBBox()
	for i := range infos {
		allBounds = allBounds.Union(infos[i].bbox)
	}

	if len(infos) == 1 {
		return b.createLeaf(infos, allBounds)
	}

	// Split along the longest axis of the centroid bounds. When every
	// centroid coincides there is no useful split on any axis.
	centroidBounds := geometry.EmptyBBox()
	for i := range infos {
		centroidBounds = centroidBounds.UnionPoint(infos[i].bbox.Centroid)
	}
	axis := centroidBounds.MaxExtent()
	if centroidBounds.Max[axis] == centroidBounds.Min[axis] {
		return b.createLeaf(infos, allBounds)
	}

	var mid int
	switch b.opts.SplitMethod {
	case SplitSAH:
		if len(infos) <= equalCountsThreshold {
			mid = partitionEqualCounts(infos, axis)
			break
		}
		objMid, makeLeaf := b.objectSplit(infos, axis, centroidBounds, allBounds)
		if makeLeaf {
			return b.createLeaf(infos, allBounds)
		}
		mid = objMid

	case SplitSpatialSAH:
		if len(infos) <= equalCountsThreshold {
			mid = partitionEqualCounts(infos, axis)
			break
		}
		split, makeLeaf := b.spatialSplit(infos, axis, centroidBounds, allBounds)
		if makeLeaf {
			return b.createLeaf(infos, allBounds)
		}
		infos, mid = split.infos, split.mid

	case SplitEqualCounts:
		fallthrough
	default:
		mid = partitionEqualCounts(infos, axis)
	}

	near := b.build(infos[:mid], depth+1)
	far := b.build(infos[mid:], depth+1)

	n := &node{
		kind:      nodeInterior,
		bbox:      near.bbox.Union(far.bbox),
		near:      near,
		far:       far,
		splitAxis: axis,
	}
	n.buildIndex = b.nodeCount
	b.nodeCount++
	b.stats.Nodes++
	return n
}

// createLeaf appends the range's geometries to the ordered output list and
// returns a leaf spanning them. Offsets grow monotonically over the build.
func (b *builder) createLeaf(infos []geometryInfo, bounds geometry.BBox) *node {
	offset := len(b.orderedGeoms)
	for i := range infos {
		b.orderedGeoms = append(b.orderedGeoms, b.geoms[infos[i].geometryID])
	}

	n := &node{
		kind:            nodeLeaf,
		bbox:            bounds,
		firstGeomOffset: offset,
		numGeoms:        len(infos),
	}
	n.buildIndex = b.nodeCount
	b.nodeCount++
	b.stats.Nodes++
	b.stats.Leafs++
	return n
}

// leafCost is the estimated cost of intersecting every geometry in a range
// without splitting it.
func (b *builder) leafCost(numGeoms int) float32 {
	return float32(numGeoms) * b.opts.IntersectionCost
}

var infCost = math32.Inf(1)
