package scene

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/voyager-lod/pkg/lod"
	"github.com/Faultbox/voyager-lod/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance float32 // Distance from center
	Pitch    float32 // Vertical angle, radians
	Yaw      float32 // Horizontal angle, radians

	// Projection
	FOV    float32 // Vertical field of view, radians
	Aspect float32
	Near   float32
	Far    float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:    5,
		FOV:         52 * math32.Pi / 180,
		Aspect:      16.0 / 9.0,
		Near:        0.1,
		Far:         1000,
		MinDistance: 0.1,
		MaxDistance: 10000,
		MinPitch:    -1.5,
		MaxPitch:    1.5,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cp := math32.Cos(c.Pitch)
	return math.Vec3{
		X: c.Center.X + c.Distance*cp*math32.Sin(c.Yaw),
		Y: c.Center.Y + c.Distance*math32.Sin(c.Pitch),
		Z: c.Center.Z + c.Distance*cp*math32.Cos(c.Yaw),
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// ProjectionMatrix returns the perspective projection.
func (c *OrbitCamera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *OrbitCamera) ViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// LODCamera returns the camera as seen by the LOD controller.
func (c *OrbitCamera) LODCamera() *lod.Camera {
	return &lod.Camera{ViewProjection: c.ViewProjection()}
}

// Orbit rotates the camera around its center. Angles are in radians.
func (c *OrbitCamera) Orbit(deltaYaw, deltaPitch float32) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
	c.clamp()
}

// Zoom scales the distance by (1 - delta). Positive delta moves closer.
func (c *OrbitCamera) Zoom(delta float32) {
	c.Distance -= delta * c.Distance
	c.clamp()
}

// FitToBounds centers the camera on the box and backs off far enough for
// the whole box to be in view.
func (c *OrbitCamera) FitToBounds(b math.Box3) {
	if b.IsEmpty() {
		return
	}
	c.Center = b.Center()

	radius := b.Size().Length() / 2
	c.Distance = radius / math32.Sin(c.FOV/2)
	c.clamp()
}

func (c *OrbitCamera) clamp() {
	c.Pitch = math32.Max(c.MinPitch, math32.Min(c.MaxPitch, c.Pitch))
	c.Distance = math32.Max(c.MinDistance, math32.Min(c.MaxDistance, c.Distance))
}
