package sbvh

import (
	"github.com/chewxy/math32"

	"github.com/achilleasa/go-sbvh/geometry"
)

// NearestIntersection returns the closest intersection with t > 0 along the
// ray, or false when the ray misses everything. The tree is read-only after
// construction so concurrent queries are safe.
func (s *SBVH) NearestIntersection(r geometry.Ray) (geometry.Hit, bool) {
	if s.root == nil {
		return geometry.Hit{}, false
	}

	nearestT := math32.Inf(1)
	var nearest geometry.Hit
	found := false

	switch s.root.kind {
	case nodeLeaf:
		// A leaf root is tested directly, without a box test.
		s.nearestInLeaf(s.root, r, &nearestT, &nearest, &found)
	case nodeInterior:
		s.nearestRecursive(s.root.near, r, &nearestT, &nearest, &found)
		s.nearestRecursive(s.root.far, r, &nearestT, &nearest, &found)
	}
	return nearest, found
}

func (s *SBVH) nearestRecursive(n *node, r geometry.Ray, nearestT *float32, nearest *geometry.Hit, found *bool) {
	if n == nil {
		return
	}

	switch n.kind {
	case nodeLeaf:
		s.nearestInLeaf(n, r, nearestT, nearest, found)
	case nodeInterior:
		if !n.bbox.Intersects(r) {
			return
		}
		// Both children are visited unconditionally; there is no pruning
		// of the far subtree against the current nearest hit.
		s.nearestRecursive(n.near, r, nearestT, nearest, found)
		s.nearestRecursive(n.far, r, nearestT, nearest, found)
	}
}

func (s *SBVH) nearestInLeaf(n *node, r geometry.Ray, nearestT *float32, nearest *geometry.Hit, found *bool) {
	for i := 0; i < n.numGeoms; i++ {
		hit, ok := s.geoms[n.firstGeomOffset+i].Intersect(r)
		if ok && hit.T > 0 && hit.T < *nearestT {
			*nearestT = hit.T
			*nearest = hit
			*found = true
		}
	}
}

// AnyIntersection reports whether the ray intersects any geometry with
// t > 0. It short-circuits on the first hit, which makes it the cheaper
// query for shadow and occlusion tests.
func (s *SBVH) AnyIntersection(r geometry.Ray) bool {
	if s.root == nil {
		return false
	}

	switch s.root.kind {
	case nodeLeaf:
		return s.anyInLeaf(s.root, r)
	case nodeInterior:
		return s.anyRecursive(s.root.near, r) || s.anyRecursive(s.root.far, r)
	}
	return false
}

func (s *SBVH) anyRecursive(n *node, r geometry.Ray) bool {
	if n == nil {
		return false
	}

	switch n.kind {
	case nodeLeaf:
		return s.anyInLeaf(n, r)
	case nodeInterior:
		if !n.bbox.Intersects(r) {
			return false
		}
		return s.anyRecursive(n.near, r) || s.anyRecursive(n.far, r)
	}
	return false
}

func (s *SBVH) anyInLeaf(n *node, r geometry.Ray) bool {
	for i := 0; i < n.numGeoms; i++ {
		if hit, ok := s.geoms[n.firstGeomOffset+i].Intersect(r); ok && hit.T > 0 {
			return true
		}
	}
	return false
}
