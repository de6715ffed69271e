package scene

import "github.com/go-gl/mathgl/mgl32"

// PointLineDistance is the distance from point to the infinite line through
// origin along direction.
func PointLineDistance(origin, direction, point mgl32.Vec3) float32 {
	l := direction.Len()
	if l == 0 {
		return point.Sub(origin).Len()
	}
	return direction.Cross(origin.Sub(point)).Len() / l
}

// RayHit reports whether point lies within radius of the laser line.
func RayHit(origin, direction, point mgl32.Vec3, radius float32) bool {
	if direction.Len() == 0 {
		return false
	}
	return PointLineDistance(origin, direction, point) <= radius
}
