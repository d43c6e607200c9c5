// Package tracking models the world tracking session: anchors detected in
// the environment, the configuration that enables plane detection, and the
// providers that feed camera frames into the session.
package tracking

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spaghettifunk/planar/engine/math"
)

type AnchorKind uint8

const (
	// A bare position in the world, e.g. placed by the application.
	AnchorKindPoint AnchorKind = iota
	// A detected flat surface.
	AnchorKindPlane
)

func (k AnchorKind) String() string {
	switch k {
	case AnchorKindPoint:
		return "point"
	case AnchorKindPlane:
		return "plane"
	default:
		return fmt.Sprintf("AnchorKind(%d)", uint8(k))
	}
}

type PlaneAlignment uint8

const (
	PlaneAlignmentHorizontal PlaneAlignment = iota
	PlaneAlignmentVertical
)

func (a PlaneAlignment) String() string {
	if a == PlaneAlignmentVertical {
		return "vertical"
	}
	return "horizontal"
}

// PlaneData is only carried by plane anchors. Center and Extent are in the
// anchor's local frame, where y is the surface normal: the plane spans
// Extent.X along x and Extent.Z along z.
type PlaneData struct {
	Alignment PlaneAlignment
	Center    math.Vec3
	Extent    math.Vec3
}

// Anchor is a tagged variant over anchor kinds. Plane is non-nil exactly
// when Kind is AnchorKindPlane.
type Anchor struct {
	ID        uuid.UUID
	Kind      AnchorKind
	Transform math.Mat4
	Plane     *PlaneData
}

func NewPointAnchor(id uuid.UUID, transform math.Mat4) Anchor {
	return Anchor{ID: id, Kind: AnchorKindPoint, Transform: transform}
}

func NewPlaneAnchor(id uuid.UUID, transform math.Mat4, plane PlaneData) Anchor {
	return Anchor{ID: id, Kind: AnchorKindPlane, Transform: transform, Plane: &plane}
}

// AsPlane returns a copy of the plane data for plane anchors.
func (a Anchor) AsPlane() (PlaneData, bool) {
	if a.Kind != AnchorKindPlane || a.Plane == nil {
		return PlaneData{}, false
	}
	return *a.Plane, true
}

// Clone detaches the plane data so the copy can be handed out safely.
func (a Anchor) Clone() Anchor {
	if a.Plane != nil {
		p := *a.Plane
		a.Plane = &p
	}
	return a
}

// AnchorIDFromName derives a stable identity from a human readable name.
// Valid UUID strings are used as they are.
func AnchorIDFromName(name string) uuid.UUID {
	if id, err := uuid.Parse(name); err == nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("planar:anchor:"+name))
}
