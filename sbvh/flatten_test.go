package sbvh

import (
	"testing"

	"github.com/achilleasa/go-sbvh/geometry"
)

func TestFlattenLayout(t *testing.T) {
	// Four well separated triangles with median splitting build a full
	// binary tree of seven nodes whose pre-order layout is fixed.
	input := []geometry.Geometry{
		unitTriangleAt(0, 0, 0),
		unitTriangleAt(2, 0, 0),
		unitTriangleAt(4, 0, 0),
		unitTriangleAt(6, 0, 0),
	}
	tree := Build(input, optionsWithMethod(SplitEqualCounts))

	flat := tree.Flatten()
	if len(flat) != 7 {
		t.Fatalf("expected 7 flat records; got %d", len(flat))
	}

	leafExpectations := map[int]struct{ offset, count int32 }{
		2: {0, 1},
		3: {1, 1},
		5: {2, 1},
		6: {3, 1},
	}
	for idx, rec := range flat {
		exp, isLeaf := leafExpectations[idx]
		if rec.IsLeaf() != isLeaf {
			t.Fatalf("record %d: expected leaf=%t; got leaf=%t", idx, isLeaf, rec.IsLeaf())
		}
		if isLeaf && (rec.PrimitiveOffset != exp.offset || rec.PrimitiveCount != exp.count) {
			t.Fatalf(
				"record %d: expected span [%d, %d); got [%d, %d)",
				idx, exp.offset, exp.offset+exp.count, rec.PrimitiveOffset, rec.PrimitiveOffset+rec.PrimitiveCount,
			)
		}
	}

	// Near children immediately follow their parent; FarIndex skips the
	// near subtree.
	if flat[0].FarIndex != 4 {
		t.Fatalf("expected root far child at 4; got %d", flat[0].FarIndex)
	}
	if flat[1].FarIndex != 3 {
		t.Fatalf("expected near interior far child at 3; got %d", flat[1].FarIndex)
	}
	if flat[4].FarIndex != 6 {
		t.Fatalf("expected far interior far child at 6; got %d", flat[4].FarIndex)
	}
}

func TestFlattenCoversTree(t *testing.T) {
	input := gridScene()

	for _, method := range allSplitMethods {
		tree := Build(input, optionsWithMethod(method))
		flat := tree.Flatten()

		stats := tree.Stats()
		if len(flat) != stats.Nodes {
			t.Fatalf("[%s] expected %d flat records; got %d", method, stats.Nodes, len(flat))
		}

		// Walk the flat layout the way a traverser would and check that
		// every record is reached exactly once.
		visited := make([]bool, len(flat))
		leafs := 0
		stack := []int32{0}
		for len(stack) != 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if visited[idx] {
				t.Fatalf("[%s] record %d reached twice", method, idx)
			}
			visited[idx] = true

			rec := flat[idx]
			if rec.IsLeaf() {
				leafs++
				continue
			}
			if rec.FarIndex <= idx || int(rec.FarIndex) >= len(flat) {
				t.Fatalf("[%s] record %d has far child index %d out of range", method, idx, rec.FarIndex)
			}
			stack = append(stack, idx+1, rec.FarIndex)
		}

		for idx, ok := range visited {
			if !ok {
				t.Fatalf("[%s] record %d unreachable from the root", method, idx)
			}
		}
		if leafs != stats.Leafs {
			t.Fatalf("[%s] expected %d leaf records; got %d", method, stats.Leafs, leafs)
		}
	}
}

func TestFlattenEmpty(t *testing.T) {
	tree := Build(nil, DefaultOptions())
	if flat := tree.Flatten(); len(flat) != 0 {
		t.Fatalf("expected no flat records for an empty build; got %d", len(flat))
	}
}
