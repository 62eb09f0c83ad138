package render

import (
	"math"
	"testing"

	"github.com/taigrr/softras/pkg/math3d"
)

func TestCameraBasis(t *testing.T) {
	cam := NewCamera(60, math3d.V3(0, 0, -10), 4.0/3.0)

	if got := cam.Forward(); !nearVec3(got, math3d.UnitZ(), 1e-12) {
		t.Errorf("forward = %v, want +Z", got)
	}
	if got := cam.Right(); !nearVec3(got, math3d.UnitX(), 1e-12) {
		t.Errorf("right = %v, want +X", got)
	}
	if got := cam.Up(); !nearVec3(got, math3d.UnitY(), 1e-12) {
		t.Errorf("up = %v, want +Y", got)
	}
	if cam.Near != 1 || cam.Far != 100 {
		t.Errorf("clip planes = %v, %v, want 1, 100", cam.Near, cam.Far)
	}
}

func TestCameraProjectsDepthRange(t *testing.T) {
	cam := NewCamera(60, math3d.V3(0, 0, -10), 1)
	vp := cam.ViewProjectionMatrix()

	tests := []struct {
		name  string
		point math3d.Vec3
		wantZ float64
		wantW float64
	}{
		{"near plane", math3d.V3(0, 0, -9), 0, 1},
		{"far plane", math3d.V3(0, 0, 90), 1, 100},
		{"origin", math3d.V3(0, 0, 0), 100.0 / 99.0 * 0.9, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clip := vp.MulVec4(math3d.V4FromV3(tc.point, 1))
			if !almostEqual(clip.W, tc.wantW, 1e-9) {
				t.Errorf("w = %v, want %v", clip.W, tc.wantW)
			}
			if ndc := clip.PerspectiveDivide(); !almostEqual(ndc.Z, tc.wantZ, 1e-9) {
				t.Errorf("ndc z = %v, want %v", ndc.Z, tc.wantZ)
			}
		})
	}

	// Top of the view volume at distance 10 with a 60° field of view
	top := vp.MulVec4(math3d.V4FromV3(math3d.V3(0, 10*math.Tan(math.Pi/6), 0), 1))
	if ndc := top.PerspectiveDivide(); !almostEqual(ndc.Y, 1, 1e-9) {
		t.Errorf("ndc y at the top edge = %v, want 1", ndc.Y)
	}
}

func TestCameraLookAt(t *testing.T) {
	cam := NewCamera(60, math3d.Zero3(), 1)
	cam.LookAt(math3d.V3(10, 0, 0))

	if !almostEqual(cam.Yaw, math.Pi/2, 1e-12) || cam.Pitch != 0 {
		t.Errorf("yaw, pitch = %v, %v, want π/2, 0", cam.Yaw, cam.Pitch)
	}
	if got := cam.Forward(); !nearVec3(got, math3d.UnitX(), 1e-12) {
		t.Errorf("forward = %v, want +X", got)
	}
}

func TestCameraMovementInvalidatesCache(t *testing.T) {
	cam := NewCamera(60, math3d.V3(0, 0, -10), 1)
	before := cam.ViewProjectionMatrix()

	cam.MoveForward(2)
	if got := cam.Origin; !nearVec3(got, math3d.V3(0, 0, -8), 1e-12) {
		t.Errorf("origin after MoveForward = %v, want (0, 0, -8)", got)
	}
	if cam.ViewProjectionMatrix() == before {
		t.Error("view-projection matrix not rebuilt after moving")
	}

	cam.MoveRight(1)
	cam.MoveUp(-1)
	if got := cam.Origin; !nearVec3(got, math3d.V3(1, -1, -8), 1e-12) {
		t.Errorf("origin = %v, want (1, -1, -8)", got)
	}

	proj := cam.ProjectionMatrix()
	cam.SetFOV(90)
	if cam.ProjectionMatrix() == proj {
		t.Error("projection matrix not rebuilt after SetFOV")
	}
}

func TestCameraRotateClampsPitch(t *testing.T) {
	cam := NewCamera(60, math3d.Zero3(), 1)
	cam.Rotate(10, 0.5)

	if cam.Pitch >= math.Pi/2 {
		t.Errorf("pitch = %v, want below π/2", cam.Pitch)
	}
	if cam.Yaw != 0.5 {
		t.Errorf("yaw = %v, want 0.5", cam.Yaw)
	}
}
