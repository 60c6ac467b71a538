package sbvh

import (
	"fmt"
	"sync"
	"testing"

	"github.com/chewxy/math32"

	"github.com/achilleasa/go-sbvh/geometry"
	"github.com/achilleasa/go-sbvh/types"
)

// bruteForceNearest linearly scans every geometry for the closest hit with
// t > 0. The reference oracle for traversal tests.
func bruteForceNearest(geoms []geometry.Geometry, r geometry.Ray) (geometry.Hit, bool) {
	nearestT := math32.Inf(1)
	var nearest geometry.Hit
	found := false
	for _, g := range geoms {
		if hit, ok := g.Intersect(r); ok && hit.T > 0 && hit.T < nearestT {
			nearestT = hit.T
			nearest = hit
			found = true
		}
	}
	return nearest, found
}

// A mixed scene with clippable and non-clippable geometry.
func mixedScene() []geometry.Geometry {
	geoms := gridScene()
	geoms = append(geoms,
		geometry.NewSphere(types.Vec3{-3, -3, -3}, 1, nil),
		geometry.NewSphere(types.Vec3{9, 9, 9}, 1.5, nil),
		// A long skinny triangle cutting across the whole grid; a prime
		// candidate for spatial splitting.
		geometry.NewTriangle(types.Vec3{-1, 0.5, 0.5}, types.Vec3{8, 1.5, 0.5}, types.Vec3{8, 0.5, 1.5}, nil),
	)
	return geoms
}

func testRays() []geometry.Ray {
	rays := make([]geometry.Ray, 0, 64)

	// Axis-aligned rays sweeping across the grid cells.
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			u := float32(i)*2 + 0.25
			v := float32(j)*2 + 0.25
			rays = append(rays,
				geometry.NewRay(types.Vec3{u, v, 20}, types.Vec3{0, 0, -1}),
				geometry.NewRay(types.Vec3{u, v, -20}, types.Vec3{0, 0, 1}),
				geometry.NewRay(types.Vec3{20, u, v}, types.Vec3{-1, 0, 0}),
			)
		}
	}

	// Diagonals and guaranteed misses.
	rays = append(rays,
		geometry.NewRay(types.Vec3{-5, -5, -5}, types.Vec3{1, 1, 1}),
		geometry.NewRay(types.Vec3{3, 3, 30}, types.Vec3{-0.1, -0.1, -1}),
		geometry.NewRay(types.Vec3{100, 100, 100}, types.Vec3{0, 1, 0}),
		geometry.NewRay(types.Vec3{0, 0, 20}, types.Vec3{0, 0, 1}),
	)
	return rays
}

func TestNearestIntersectionMatchesBruteForce(t *testing.T) {
	input := mixedScene()

	for _, method := range allSplitMethods {
		tree := Build(input, optionsWithMethod(method))

		for idx, ray := range testRays() {
			expHit, expOk := bruteForceNearest(input, ray)
			hit, ok := tree.NearestIntersection(ray)

			if ok != expOk {
				t.Fatalf("[%s] ray %d: expected hit=%t; got hit=%t", method, idx, expOk, ok)
			}
			if ok && math32.Abs(hit.T-expHit.T) > 1e-4 {
				t.Fatalf("[%s] ray %d: expected nearest distance %f; got %f", method, idx, expHit.T, hit.T)
			}
		}
	}
}

func TestNearestIntersectionOrdering(t *testing.T) {
	// Triangles at distinct depths along one ray; the nearest positive t
	// must win regardless of build order.
	geoms := []geometry.Geometry{
		unitTriangleAt(0, 0, -8),
		unitTriangleAt(0, 0, -2),
		unitTriangleAt(0, 0, -6),
		unitTriangleAt(0, 0, -4),
	}
	ray := geometry.NewRay(types.Vec3{0.25, 0.25, 0}, types.Vec3{0, 0, -1})

	for _, method := range allSplitMethods {
		tree := Build(geoms, optionsWithMethod(method))
		hit, ok := tree.NearestIntersection(ray)
		if !ok {
			t.Fatalf("[%s] expected ray to hit the triangle stack", method)
		}
		if math32.Abs(hit.T-2) > 1e-4 {
			t.Fatalf("[%s] expected nearest hit at distance 2; got %f", method, hit.T)
		}
	}
}

func TestAnyIntersectionMatchesBruteForce(t *testing.T) {
	input := mixedScene()

	for _, method := range allSplitMethods {
		tree := Build(input, optionsWithMethod(method))

		for idx, ray := range testRays() {
			_, expOk := bruteForceNearest(input, ray)
			if got := tree.AnyIntersection(ray); got != expOk {
				t.Fatalf("[%s] ray %d: expected any-intersection %t; got %t", method, idx, expOk, got)
			}
		}
	}
}

func TestConcurrentQueries(t *testing.T) {
	input := mixedScene()
	tree := Build(input, DefaultOptions())
	rays := testRays()

	expected := make([]bool, len(rays))
	for i, ray := range rays {
		_, expected[i] = bruteForceNearest(input, ray)
	}

	const workers = 8
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, ray := range rays {
				_, ok := tree.NearestIntersection(ray)
				if ok != expected[i] {
					errs <- fmt.Errorf("unexpected nearest-intersection result for ray %d", i)
					return
				}
				if tree.AnyIntersection(ray) != expected[i] {
					errs <- fmt.Errorf("unexpected any-intersection result for ray %d", i)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		t.Fatal(err)
	}
}
