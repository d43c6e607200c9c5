package view

import (
	"sort"

	"github.com/spaghettifunk/planar/engine/math"
	"github.com/spaghettifunk/planar/engine/tracking"
)

// HitTestType selects what a hit test considers. Values can be combined.
type HitTestType uint8

const (
	// Detected planes, bounded by their reported extent.
	HitTestExistingPlaneUsingExtent HitTestType = 1 << iota
	// Detected planes, treated as infinite.
	HitTestExistingPlane
)

type HitTestResult struct {
	Type HitTestType
	// Distance from the camera along the ray.
	Distance float32
	// WorldTransform has the anchor's orientation and the hit point as its
	// translation.
	WorldTransform math.Mat4
	Anchor         tracking.Anchor
}

// HitTest casts a ray through a viewport point (pixels, origin top-left)
// and returns every match ordered nearest first.
func (v *ARView) HitTest(point math.Vec2, types HitTestType) []HitTestResult {
	ray := v.camera.ScreenRay(point)

	var results []HitTestResult
	for _, a := range v.session.Anchors() {
		plane, ok := a.AsPlane()
		if !ok {
			continue
		}
		worldPoint, distance, inside, hit := intersectAnchorPlane(ray, a.Transform, plane)
		if !hit {
			continue
		}
		transform := a.Transform.WithTranslation(worldPoint)
		if types&HitTestExistingPlaneUsingExtent != 0 && inside {
			results = append(results, HitTestResult{
				Type:           HitTestExistingPlaneUsingExtent,
				Distance:       distance,
				WorldTransform: transform,
				Anchor:         a,
			})
		}
		if types&HitTestExistingPlane != 0 {
			results = append(results, HitTestResult{
				Type:           HitTestExistingPlane,
				Distance:       distance,
				WorldTransform: transform,
				Anchor:         a,
			})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	return results
}

// intersectAnchorPlane intersects the ray with the anchor's local y = 0
// plane. inside reports whether the hit falls within the plane extent.
func intersectAnchorPlane(ray math.Ray, transform math.Mat4, plane tracking.PlaneData) (math.Vec3, float32, bool, bool) {
	toLocal := transform.Inverse()
	local := math.Ray{
		Origin:    ray.Origin.Transform(toLocal),
		Direction: ray.Direction.TransformDirection(toLocal),
	}
	distance, ok := local.IntersectPlane(math.NewVec3Zero(), math.NewVec3Up())
	if !ok {
		return math.Vec3{}, 0, false, false
	}
	p := local.At(distance)
	// tolerate rounding on the boundary
	const epsilon = 1e-4
	inside := abs32(p.X-plane.Center.X) <= plane.Extent.X*0.5+epsilon &&
		abs32(p.Z-plane.Center.Z) <= plane.Extent.Z*0.5+epsilon
	return ray.At(distance), distance, inside, true
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
