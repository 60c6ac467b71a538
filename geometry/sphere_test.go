package geometry

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/achilleasa/go-sbvh/types"
)

func TestSphereIntersect(t *testing.T) {
	s := NewSphere(types.Vec3{0, 0, 0}, 1, nil)

	// Head-on hit; nearest root is the front surface.
	hit, ok := s.Intersect(NewRay(types.Vec3{0, 0, 5}, types.Vec3{0, 0, -1}))
	if !ok {
		t.Fatal("expected ray to intersect sphere")
	}
	if math32.Abs(hit.T-4) > 1e-4 {
		t.Fatalf("expected hit distance 4; got %f", hit.T)
	}
	expNormal := types.Vec3{0, 0, 1}
	if !vecApproxEq(hit.Normal, expNormal) {
		t.Fatalf("expected hit normal %v; got %v", expNormal, hit.Normal)
	}

	// Origin inside the sphere; only the far root is in front.
	hit, ok = s.Intersect(NewRay(types.Vec3{0, 0, 0}, types.Vec3{0, 0, -1}))
	if !ok {
		t.Fatal("expected ray from inside the sphere to intersect it")
	}
	if math32.Abs(hit.T-1) > 1e-4 {
		t.Fatalf("expected hit distance 1; got %f", hit.T)
	}

	// Ray missing the sphere.
	if _, ok = s.Intersect(NewRay(types.Vec3{5, 5, 5}, types.Vec3{0, 0, -1})); ok {
		t.Fatal("expected offset ray to miss the sphere")
	}

	// Sphere entirely behind the ray origin.
	if _, ok = s.Intersect(NewRay(types.Vec3{0, 0, -5}, types.Vec3{0, 0, -1})); ok {
		t.Fatal("expected sphere behind the ray origin to miss")
	}
}

func TestSphereBBox(t *testing.T) {
	s := NewSphere(types.Vec3{1, 2, 3}, 2, nil)

	box := s.BBox()
	expMin := types.Vec3{-1, 0, 1}
	expMax := types.Vec3{3, 4, 5}
	if box.Min != expMin || box.Max != expMax {
		t.Fatalf("expected sphere bbox min %v max %v; got min %v max %v", expMin, expMax, box.Min, box.Max)
	}
	if box.Centroid != s.Center {
		t.Fatalf("expected sphere bbox centroid %v; got %v", s.Center, box.Centroid)
	}
}
