package render

import (
	"math"

	"github.com/taigrr/softras/pkg/math3d"
)

// Camera is a left-handed perspective camera. The pipeline only reads it
// during a frame.
type Camera struct {
	// Origin in world space
	Origin math3d.Vec3

	// Orientation (Euler angles in radians)
	Pitch float64 // Rotation around the right axis (look up/down)
	Yaw   float64 // Rotation around world up (look left/right)

	// Projection parameters
	FOV         float64 // Vertical field of view in degrees
	AspectRatio float64 // Width / Height
	Near        float64 // Near clipping plane
	Far         float64 // Far clipping plane

	// Cached matrices (computed on demand)
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
	viewProjDirty  bool
}

// NewCamera creates a camera at origin looking down +Z.
func NewCamera(fovDegrees float64, origin math3d.Vec3, aspect float64) *Camera {
	return &Camera{
		Origin:        origin,
		FOV:           fovDegrees,
		AspectRatio:   aspect,
		Near:          1,
		Far:           100,
		viewDirty:     true,
		projDirty:     true,
		viewProjDirty: true,
	}
}

// SetPosition sets the camera origin.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Origin = pos
	c.markView()
}

// SetRotation sets pitch and yaw in radians.
func (c *Camera) SetRotation(pitch, yaw float64) {
	c.Pitch = pitch
	c.Yaw = yaw
	c.markView()
}

// SetFOV sets the vertical field of view in degrees.
func (c *Camera) SetFOV(fovDegrees float64) {
	c.FOV = fovDegrees
	c.markProj()
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.markProj()
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.markProj()
}

func (c *Camera) markView() {
	c.viewDirty = true
	c.viewProjDirty = true
}

func (c *Camera) markProj() {
	c.projDirty = true
	c.viewProjDirty = true
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return math3d.V3(
		math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// Right returns the unit right vector, cross(worldUp, forward).
func (c *Camera) Right() math3d.Vec3 {
	return math3d.UnitY().Cross(c.Forward()).Normalize()
}

// Up returns the unit up vector, cross(forward, right).
func (c *Camera) Up() math3d.Vec3 {
	return c.Forward().Cross(c.Right())
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math3d.LookAtLH(c.Origin, c.Forward(), math3d.UnitY())
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix. Depth maps to [0, 1].
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		fov := c.FOV * math.Pi / 180
		c.projMatrix = math3d.PerspectiveFovLH(fov, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewProjDirty {
		c.viewProjMatrix = c.ProjectionMatrix().Mul(c.ViewMatrix())
		c.viewProjDirty = false
	}
	return c.viewProjMatrix
}

// MoveForward moves the camera along its view direction.
func (c *Camera) MoveForward(distance float64) {
	c.Origin = c.Origin.Add(c.Forward().Scale(distance))
	c.markView()
}

// MoveRight moves the camera right (or left if negative).
func (c *Camera) MoveRight(distance float64) {
	c.Origin = c.Origin.Add(c.Right().Scale(distance))
	c.markView()
}

// MoveUp moves the camera along world up.
func (c *Camera) MoveUp(distance float64) {
	c.Origin = c.Origin.Add(math3d.UnitY().Scale(distance))
	c.markView()
}

// Rotate rotates the camera by the given angles (in radians).
func (c *Camera) Rotate(deltaPitch, deltaYaw float64) {
	c.Pitch += deltaPitch
	c.Yaw += deltaYaw

	// Clamp pitch to avoid flipping over the pole
	const maxPitch = math.Pi/2 - 0.01
	c.Pitch = math.Max(-maxPitch, math.Min(maxPitch, c.Pitch))

	c.markView()
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Origin).Normalize()

	c.Pitch = math.Asin(dir.Y)
	c.Yaw = math.Atan2(dir.X, dir.Z)

	c.markView()
}
