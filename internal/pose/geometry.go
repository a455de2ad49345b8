package pose

import "math"

// epsilon guards against division by near-zero vector magnitudes.
const epsilon = 1e-9

// Angle2D returns the unsigned angle in degrees at vertex b formed by the
// 2D points a, b, c. The result is normalized to [0, 180]; values over 180
// are reflected.
func Angle2D(a, b, c Point3D) float64 {
	radians := math.Atan2(c.Y-b.Y, c.X-b.X) - math.Atan2(a.Y-b.Y, a.X-b.X)
	angle := math.Abs(radians * 180.0 / math.Pi)
	if angle > 180.0 {
		angle = 360.0 - angle
	}
	return angle
}

// Angle3D returns the angle in degrees at vertex between the rays
// vertex->p1 and vertex->p2. Returns 0 when either ray has near-zero
// length. The cosine is clamped to [-1, 1] to absorb floating-point
// overshoot.
func Angle3D(vertex, p1, p2 Point3D) float64 {
	v1 := Point3D{X: p1.X - vertex.X, Y: p1.Y - vertex.Y, Z: p1.Z - vertex.Z}
	v2 := Point3D{X: p2.X - vertex.X, Y: p2.Y - vertex.Y, Z: p2.Z - vertex.Z}

	n1 := norm3(v1)
	n2 := norm3(v2)
	if n1 == 0 || n2 == 0 {
		return 0
	}

	cos := dot3(v1, v2) / (n1 * n2)
	cos = math.Max(math.Min(cos, 1.0), -1.0)

	return math.Acos(cos) * 180.0 / math.Pi
}

// Distance2D returns the Euclidean distance between two points in the
// image plane, ignoring depth.
func Distance2D(p1, p2 Point3D) float64 {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func norm3(v Point3D) float64 {
	sq := v.X*v.X + v.Y*v.Y + v.Z*v.Z
	if sq < epsilon {
		return 0
	}
	return math.Sqrt(sq)
}

func dot3(u, v Point3D) float64 {
	return u.X*v.X + u.Y*v.Y + u.Z*v.Z
}
