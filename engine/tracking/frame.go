package tracking

import (
	"context"

	"github.com/google/uuid"

	"github.com/spaghettifunk/planar/engine/math"
)

// CameraPose is the device camera in world space. EulerRotation is in radians.
type CameraPose struct {
	Position      math.Vec3
	EulerRotation math.Vec3
}

// Frame is one step of the tracking provider: the camera pose plus every
// anchor change since the previous frame.
type Frame struct {
	Index   uint64
	Camera  CameraPose
	Added   []Anchor
	Updated []Anchor
	Removed []uuid.UUID
}

// Provider produces frames. NextFrame blocks until a frame is available and
// returns io.EOF when the provider has nothing more to report.
type Provider interface {
	NextFrame(ctx context.Context) (*Frame, error)
}
