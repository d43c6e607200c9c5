package view

import (
	gomath "math"

	"github.com/spaghettifunk/planar/engine/math"
	"github.com/spaghettifunk/planar/engine/tracking"
)

/** @brief The default vertical field of view, in radians. */
const DefaultFieldOfView float32 = 60.0 * math.K_DEG2RAD_MULTIPLIER

/**
 * @brief The device camera as seen by the view. Its pose follows the
 * tracking session; its viewport follows the window.
 */
type Camera struct {
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	Position math.Vec3
	/**
	 * @brief The rotation of this camera using Euler angles (pitch, yaw, roll).
	 * NOTE: Do not set this directly, use SetEulerRotation() instead.
	 */
	EulerRotation math.Vec3
	/** @brief Vertical field of view in radians. */
	FieldOfView float32
	/** @brief Viewport size in pixels. */
	Width  uint32
	Height uint32
	/** @brief Internal flag used to determine when the matrices need to be rebuilt. */
	IsDirty bool

	world math.Mat4
	view  math.Mat4
}

func NewCamera(width, height uint32) *Camera {
	camera := &Camera{Width: width, Height: height}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.EulerRotation = math.NewVec3Zero()
	c.Position = math.NewVec3Zero()
	c.FieldOfView = DefaultFieldOfView
	c.IsDirty = false
	c.world = math.NewMat4Identity()
	c.view = math.NewMat4Identity()
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.Position = position
	c.IsDirty = true
}

func (c *Camera) SetEulerRotation(rotation math.Vec3) {
	c.EulerRotation = rotation
	c.IsDirty = true
}

// SetPose copies the pose reported by the tracking session.
func (c *Camera) SetPose(pose tracking.CameraPose) {
	c.Position = pose.Position
	c.EulerRotation = pose.EulerRotation
	c.IsDirty = true
}

func (c *Camera) SetViewport(width, height uint32) {
	c.Width = width
	c.Height = height
}

func (c *Camera) rebuild() {
	if !c.IsDirty {
		return
	}
	rotation := math.NewMat4EulerXYZ(c.EulerRotation.X, c.EulerRotation.Y, c.EulerRotation.Z)
	translation := math.NewMat4Translation(c.Position)
	c.world = rotation.Mul(translation)
	c.view = c.world.Inverse()
	c.IsDirty = false
}

// GetWorld is the camera to world transform.
func (c *Camera) GetWorld() math.Mat4 {
	c.rebuild()
	return c.world
}

// GetView is the world to camera transform.
func (c *Camera) GetView() math.Mat4 {
	c.rebuild()
	return c.view
}

func (c *Camera) Forward() math.Vec3 {
	return c.GetWorld().Forward()
}

func (c *Camera) Right() math.Vec3 {
	return c.GetWorld().Right()
}

func (c *Camera) Up() math.Vec3 {
	return c.GetWorld().Up()
}

func (c *Camera) Yaw(amount float32) {
	c.EulerRotation.Y += amount
	c.IsDirty = true
}

func (c *Camera) Pitch(amount float32) {
	c.EulerRotation.X += amount

	// Clamp to avoid Gimbal lock.
	limit := float32(1.55334306) // 89 degrees
	c.EulerRotation.X = math.Clamp(c.EulerRotation.X, -limit, limit)

	c.IsDirty = true
}

// ScreenRay casts a world space ray through a viewport point given in
// pixels, origin top-left. Points outside the viewport are clamped to its edge.
func (c *Camera) ScreenRay(point math.Vec2) math.Ray {
	width, height := float32(c.Width), float32(c.Height)
	if width <= 0 || height <= 0 {
		return math.Ray{Origin: c.Position, Direction: c.Forward()}
	}
	x := math.Clamp(point.X, 0, width)
	y := math.Clamp(point.Y, 0, height)

	ndcX := 2*x/width - 1
	ndcY := 1 - 2*y/height
	tanHalf := float32(gomath.Tan(float64(c.FieldOfView) * 0.5))
	aspect := width / height

	local := math.NewVec3(ndcX*tanHalf*aspect, ndcY*tanHalf, -1)
	world := c.GetWorld()
	return math.Ray{
		Origin:    math.NewVec3Zero().Transform(world),
		Direction: local.TransformDirection(world).Normalized(),
	}
}
