package math

// NewQuatFromMat4 extracts the rotation of a matrix without scale.
func NewQuatFromMat4(mt Mat4) Quaternion {
	// r(row, col) for the column-major layout
	r := func(row, col int) float32 { return mt.Data[col*4+row] }

	trace := r(0, 0) + r(1, 1) + r(2, 2)
	var q Quaternion
	switch {
	case trace > 0:
		s := ksqrt(trace+1.0) * 2
		q.W = 0.25 * s
		q.X = (r(2, 1) - r(1, 2)) / s
		q.Y = (r(0, 2) - r(2, 0)) / s
		q.Z = (r(1, 0) - r(0, 1)) / s
	case r(0, 0) > r(1, 1) && r(0, 0) > r(2, 2):
		s := ksqrt(1.0+r(0, 0)-r(1, 1)-r(2, 2)) * 2
		q.W = (r(2, 1) - r(1, 2)) / s
		q.X = 0.25 * s
		q.Y = (r(0, 1) + r(1, 0)) / s
		q.Z = (r(0, 2) + r(2, 0)) / s
	case r(1, 1) > r(2, 2):
		s := ksqrt(1.0+r(1, 1)-r(0, 0)-r(2, 2)) * 2
		q.W = (r(0, 2) - r(2, 0)) / s
		q.X = (r(0, 1) + r(1, 0)) / s
		q.Y = 0.25 * s
		q.Z = (r(1, 2) + r(2, 1)) / s
	default:
		s := ksqrt(1.0+r(2, 2)-r(0, 0)-r(1, 1)) * 2
		q.W = (r(1, 0) - r(0, 1)) / s
		q.X = (r(0, 2) + r(2, 0)) / s
		q.Y = (r(1, 2) + r(2, 1)) / s
		q.Z = 0.25 * s
	}
	return q.Normalize()
}

func (r Ray) At(distance float32) Vec3 {
	return r.Origin.Add(r.Direction.MulScalar(distance))
}

// IntersectPlane returns the distance along the ray to the plane through
// point with the given normal. Rays parallel to the plane, or hitting it
// behind the origin, report false.
func (r Ray) IntersectPlane(point, normal Vec3) (float32, bool) {
	denom := normal.Dot(r.Direction)
	if kabs(denom) < 1e-6 {
		return 0, false
	}
	distance := point.Sub(r.Origin).Dot(normal) / denom
	if distance < 0 {
		return 0, false
	}
	return distance, true
}
