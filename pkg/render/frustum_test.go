package render

import (
	"math"
	"testing"

	"github.com/taigrr/softras/pkg/math3d"
)

// testFrustum returns the frustum of a camera at the origin looking down +Z.
func testFrustum() Frustum {
	cam := NewCamera(60, math3d.Zero3(), 16.0/9.0)
	return cam.Frustum()
}

func TestPlaneDistanceToPoint(t *testing.T) {
	// Plane at Z=0, normal pointing +Z
	plane := Plane{Normal: math3d.V3(0, 0, 1), D: 0}

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected float64
	}{
		{"origin", math3d.V3(0, 0, 0), 0},
		{"in front", math3d.V3(0, 0, 5), 5},
		{"behind", math3d.V3(0, 0, -3), -3},
		{"offset XY", math3d.V3(10, -5, 2), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist := plane.DistanceToPoint(tc.point)
			if math.Abs(dist-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", dist, tc.expected)
			}
		})
	}
}

func TestPlaneNormalize(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 3, 4), D: 10}
	plane.Normalize()

	if length := plane.Normal.Len(); math.Abs(length-1.0) > 1e-9 {
		t.Errorf("normalized normal length = %v, want 1.0", length)
	}
	if math.Abs(plane.Normal.Y-0.6) > 1e-9 || math.Abs(plane.Normal.Z-0.8) > 1e-9 {
		t.Errorf("normal = %v, want (0, 0.6, 0.8)", plane.Normal)
	}
	if math.Abs(plane.D-2.0) > 1e-9 {
		t.Errorf("D = %v, want 2.0", plane.D)
	}

	zero := Plane{D: 3}
	zero.Normalize()
	if zero.D != 3 {
		t.Errorf("zero normal plane changed D to %v", zero.D)
	}
}

func TestAABBTransform(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	t.Run("translation", func(t *testing.T) {
		got := box.Transform(math3d.Translate(math3d.V3(10, 20, 30)))
		if got.Min != math3d.V3(9, 19, 29) || got.Max != math3d.V3(11, 21, 31) {
			t.Errorf("got %v, want (9,19,29)-(11,21,31)", got)
		}
		if got.Center() != math3d.V3(10, 20, 30) {
			t.Errorf("center = %v, want (10, 20, 30)", got.Center())
		}
	})

	t.Run("scale", func(t *testing.T) {
		got := box.Transform(math3d.Scale(math3d.V3(2, 2, 2)))
		if got.Min != math3d.V3(-2, -2, -2) || got.Max != math3d.V3(2, 2, 2) {
			t.Errorf("got %v, want (-2,-2,-2)-(2,2,2)", got)
		}
	})

	t.Run("rotation grows box", func(t *testing.T) {
		got := box.Transform(math3d.RotateY(math.Pi / 4))
		want := math.Sqrt2
		if math.Abs(got.Max.X-want) > 1e-9 || math.Abs(got.Min.Z+want) > 1e-9 {
			t.Errorf("got %v, want x/z extent ±%v", got, want)
		}
	})
}

func TestFrustumPlanesNormalized(t *testing.T) {
	for i, plane := range testFrustum().Planes {
		if length := plane.Normal.Len(); math.Abs(length-1.0) > 1e-6 {
			t.Errorf("plane %d normal length = %v, want 1.0", i, length)
		}
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	frustum := testFrustum()

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected bool
	}{
		{"center near", math3d.V3(0, 0, 1.5), true},
		{"center mid", math3d.V3(0, 0, 50), true},
		{"center far", math3d.V3(0, 0, 99), true},
		{"behind camera", math3d.V3(0, 0, -1), false},
		{"too far", math3d.V3(0, 0, 200), false},
		{"closer than near plane", math3d.V3(0, 0, 0.5), false},
		{"off to the side", math3d.V3(50, 0, 10), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := frustum.ContainsPoint(tc.point)
			if result != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, result, tc.expected)
			}
		})
	}
}

func TestFrustumNearFarMatchDepthRange(t *testing.T) {
	f := testFrustum()
	near := f.Planes[FrustumNear].DistanceToPoint(math3d.V3(0, 0, 1))
	far := f.Planes[FrustumFar].DistanceToPoint(math3d.V3(0, 0, 100))
	if math.Abs(near) > 1e-9 {
		t.Errorf("near plane distance at z=1 = %v, want 0", near)
	}
	if math.Abs(far) > 1e-9 {
		t.Errorf("far plane distance at z=100 = %v, want 0", far)
	}
}

func TestFrustumIntersectAABB(t *testing.T) {
	frustum := testFrustum()

	tests := []struct {
		name     string
		box      AABB
		expected bool
	}{
		{"fully inside", NewAABB(math3d.V3(-1, -1, 5), math3d.V3(1, 1, 10)), true},
		{"crosses near plane", NewAABB(math3d.V3(-1, -1, -2), math3d.V3(1, 1, 2)), true},
		{"behind camera", NewAABB(math3d.V3(-1, -1, -10), math3d.V3(1, 1, -5)), false},
		{"beyond far plane", NewAABB(math3d.V3(-1, -1, 120), math3d.V3(1, 1, 150)), false},
		{"far to the right", NewAABB(math3d.V3(100, -1, 5), math3d.V3(110, 1, 10)), false},
		{"contains frustum", NewAABB(math3d.V3(-200, -200, -200), math3d.V3(200, 200, 200)), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := frustum.IntersectAABB(tc.box)
			if result != tc.expected {
				t.Errorf("IntersectAABB(%v) = %v, want %v", tc.box, result, tc.expected)
			}
		})
	}
}

func TestFrustumWithRotatedCamera(t *testing.T) {
	cam := NewCamera(60, math3d.Zero3(), 1)
	cam.LookAt(math3d.V3(10, 0, 0))
	frustum := cam.Frustum()

	if !frustum.ContainsPoint(math3d.V3(10, 0, 0)) {
		t.Error("point in front of rotated camera should be visible")
	}
	if frustum.ContainsPoint(math3d.V3(-10, 0, 0)) {
		t.Error("point behind rotated camera should not be visible")
	}
	if frustum.ContainsPoint(math3d.V3(0, 0, 10)) {
		t.Error("point on the old view axis should not be visible")
	}
}
