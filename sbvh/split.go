package sbvh

import (
	"sort"

	"github.com/chewxy/math32"

	"github.com/achilleasa/go-sbvh/geometry"
	"github.com/achilleasa/go-sbvh/types"
)

const (
	// Bucket count for SAH candidate search (pbrt lineage).
	numBuckets = 12

	// Ranges up to this size are split by equal counts instead of SAH.
	equalCountsThreshold = 4

	// A spatial split candidate is only evaluated when the object split
	// children overlap by more than this fraction of the total surface
	// area.
	restrictAlpha = 0.2
)

// bucketInfo accumulates one bucket during the candidate sweep. enter and
// exit count straddling references whose span starts or ends here; they are
// only used by the spatial strategy.
type bucketInfo struct {
	count int
	bbox  geometry.BBox
	enter int
	exit  int
}

func newBuckets() [numBuckets]bucketInfo {
	var buckets [numBuckets]bucketInfo
	for i := range buckets {
		buckets[i].bbox = geometry.EmptyBBox()
	}
	return buckets
}

// bucketIndex maps a point to a bucket along axis, normalized over bounds.
// Out of range points clamp to the boundary buckets; fragment centroids may
// fall outside the centroid bounds of their originating range.
func bucketIndex(bounds geometry.BBox, p types.Vec3, axis geometry.Axis) int {
	bkt := int(numBuckets * bounds.Offset(p)[axis])
	if bkt < 0 {
		bkt = 0
	}
	if bkt >= numBuckets {
		bkt = numBuckets - 1
	}
	return bkt
}

// partitionEqualCounts sorts the range by centroid along axis and splits at
// the median index. Both halves are non-empty for ranges of two or more.
func partitionEqualCounts(infos []geometryInfo, axis geometry.Axis) int {
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].bbox.Centroid[axis] < infos[j].bbox.Centroid[axis]
	})
	return len(infos) / 2
}

// partitionByBucket reorders infos so that every entry whose centroid
// bucket is <= splitBucket precedes the rest, returning the boundary index.
func partitionByBucket(infos []geometryInfo, centroidBounds geometry.BBox, axis geometry.Axis, splitBucket int) int {
	mid := 0
	for i := range infos {
		if bucketIndex(centroidBounds, infos[i].bbox.Centroid, axis) <= splitBucket {
			infos[mid], infos[i] = infos[i], infos[mid]
			mid++
		}
	}
	return mid
}

// accumulateSides unions the buckets on either side of a split candidate.
func accumulateSides(buckets []bucketInfo, split int) (bbox0, bbox1 geometry.BBox, count0, count1 int) {
	bbox0, bbox1 = geometry.EmptyBBox(), geometry.EmptyBBox()
	for j := 0; j <= split; j++ {
		bbox0 = bbox0.Union(buckets[j].bbox)
		count0 += buckets[j].count
	}
	for j := split + 1; j < numBuckets; j++ {
		bbox1 = bbox1.Union(buckets[j].bbox)
		count1 += buckets[j].count
	}
	return bbox0, bbox1, count0, count1
}

// splitCost is the SAH cost of a candidate split, normalized by the total
// surface area of the range.
func (b *builder) splitCost(bbox0, bbox1 geometry.BBox, count0, count1 int, invAllSA float32) float32 {
	return b.opts.TraversalCost +
		b.opts.IntersectionCost*
			(float32(count0)*bbox0.SurfaceArea()+float32(count1)*bbox1.SurfaceArea())*invAllSA
}

// objectSplit evaluates the 11 object split candidates over centroid
// buckets and either partitions the range or asks for a leaf when no
// candidate beats the cost of intersecting every geometry in place.
func (b *builder) objectSplit(infos []geometryInfo, axis geometry.Axis, centroidBounds, allBounds geometry.BBox) (mid int, makeLeaf bool) {
	buckets := newBuckets()
	for i := range infos {
		bkt := bucketIndex(centroidBounds, infos[i].bbox.Centroid, axis)
		buckets[bkt].count++
		buckets[bkt].bbox = buckets[bkt].bbox.Union(infos[i].bbox)
	}

	invAllSA := 1.0 / allBounds.SurfaceArea()
	minCost := infCost
	minBucket := 0
	for i := 0; i < numBuckets-1; i++ {
		bbox0, bbox1, count0, count1 := accumulateSides(buckets[:], i)
		cost := b.splitCost(bbox0, bbox1, count0, count1, invAllSA)
		if cost < minCost {
			minCost = cost
			minBucket = i
		}
	}

	if len(infos) <= b.opts.MaxGeomsPerLeaf && minCost >= b.leafCost(len(infos)) {
		return 0, true
	}
	return partitionByBucket(infos, centroidBounds, axis, minBucket), false
}

// replaceStraddling rebuilds a working range after a spatial split wins:
// references flagged as straddling are dropped and the clip fragments that
// cover them are appended in their place. Returns the rebuilt range and the
// number of references dropped.
func replaceStraddling(infos, fragments []geometryInfo) ([]geometryInfo, int) {
	merged := make([]geometryInfo, 0, len(infos)+len(fragments))
	for i := range infos {
		if !infos[i].straddling {
			merged = append(merged, infos[i])
		}
	}
	replaced := len(infos) - len(merged)
	return append(merged, fragments...), replaced
}

type spatialResult struct {
	infos []geometryInfo
	mid   int
}

// spatialSplit evaluates object and spatial candidates at every bucket
// boundary and picks the cheapest. Object candidates are checked first, so
// ties always resolve to the object split. When a spatial candidate wins,
// fragments produced by clipping replace their straddling originals and
// the rebuilt range is partitioned instead.
func (b *builder) spatialSplit(infos []geometryInfo, axis geometry.Axis, centroidBounds, allBounds geometry.BBox) (spatialResult, bool) {
	// Object candidate buckets, exactly as in objectSplit.
	buckets := newBuckets()
	for i := range infos {
		bkt := bucketIndex(centroidBounds, infos[i].bbox.Centroid, axis)
		buckets[bkt].count++
		buckets[bkt].bbox = buckets[bkt].bbox.Union(infos[i].bbox)
	}

	// Spatial candidate buckets. References fully inside one bucket (and
	// geometry that cannot be clipped) are bucketed by centroid; straddling
	// clippable geometry is chopped into one tight fragment per bucket slab
	// it overlaps.
	spatial := newBuckets()
	bucketSize := (allBounds.Max[axis] - allBounds.Min[axis]) / numBuckets
	var fragments []geometryInfo

	for i := range infos {
		startBucket := bucketIndex(allBounds, infos[i].bbox.Min, axis)
		endBucket := bucketIndex(allBounds, infos[i].bbox.Max, axis)

		clipper, clippable := b.geoms[infos[i].geometryID].(geometry.SlabClipper)
		if startBucket == endBucket || !clippable {
			infos[i].straddling = false
			bkt := bucketIndex(centroidBounds, infos[i].bbox.Centroid, axis)
			spatial[bkt].count++
			spatial[bkt].bbox = spatial[bkt].bbox.Union(infos[i].bbox)
			continue
		}

		infos[i].straddling = true
		for bucket := startBucket; bucket <= endBucket; bucket++ {
			// One fragment per bucket slab the reference crosses. The
			// boundary slabs stretch to the reference bounds so that the
			// fragments tile the whole surface even when bucket rounding
			// disagrees with the box corners.
			slabLo := allBounds.Min[axis] + bucketSize*float32(bucket)
			slabHi := allBounds.Min[axis] + bucketSize*float32(bucket+1)
			if bucket == startBucket {
				slabLo = math32.Min(slabLo, infos[i].bbox.Min[axis])
			}
			if bucket == endBucket {
				slabHi = math32.Max(slabHi, infos[i].bbox.Max[axis])
			}

			frag := clipper.ClipToSlab(axis, slabLo, slabHi)
			if frag.IsEmpty() {
				continue
			}
			fragments = append(fragments, geometryInfo{
				geometryID: infos[i].geometryID,
				bbox:       frag,
			})
			spatial[bucket].bbox = spatial[bucket].bbox.Union(frag)
		}
		spatial[startBucket].enter++
		spatial[endBucket].exit++
	}

	invAllSA := 1.0 / allBounds.SurfaceArea()
	minCost := infCost
	minBucket := 0
	spatialWon := false

	for i := 0; i < numBuckets-1; i++ {
		bbox0, bbox1, count0, count1 := accumulateSides(buckets[:], i)
		objectCost := b.splitCost(bbox0, bbox1, count0, count1, invAllSA)

		// Skip the expensive spatial candidate when the object split
		// already separates the children cleanly.
		spatialCost := infCost
		if bbox0.Overlap(bbox1).SurfaceArea()*invAllSA > restrictAlpha {
			sbox0, sbox1, scount0, scount1 := accumulateSides(spatial[:], i)
			for j := 0; j <= i; j++ {
				scount0 += spatial[j].enter
			}
			for j := i + 1; j < numBuckets; j++ {
				scount1 += spatial[j].exit
			}
			spatialCost = b.splitCost(sbox0, sbox1, scount0, scount1, invAllSA)
		}

		if objectCost < spatialCost {
			if objectCost < minCost {
				minCost = objectCost
				minBucket = i
				spatialWon = false
			}
		} else if spatialCost < minCost {
			minCost = spatialCost
			minBucket = i
			spatialWon = true
		}
	}

	if len(infos) <= b.opts.MaxGeomsPerLeaf && minCost >= b.leafCost(len(infos)) {
		return spatialResult{}, true
	}

	work := infos
	if spatialWon {
		var replaced int
		work, replaced = replaceStraddling(infos, fragments)
		b.stats.StraddlingReplaced += replaced
		b.stats.Fragments += len(fragments)
	}

	mid := partitionByBucket(work, centroidBounds, axis, minBucket)
	if mid == 0 || mid == len(work) {
		// Fragment centroids may all clamp into the same boundary bucket;
		// fall back to a median split so the recursion always narrows.
		mid = partitionEqualCounts(work, axis)
	}
	return spatialResult{infos: work, mid: mid}, false
}
