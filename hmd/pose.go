package hmd

import "github.com/go-gl/mathgl/mgl32"

// Pose is a rigid transform: orientation followed by translation.
type Pose struct {
	Orientation mgl32.Quat
	Position    mgl32.Vec3
}

// IdentityPose has no rotation and sits at the origin.
func IdentityPose() Pose {
	return Pose{Orientation: mgl32.QuatIdent()}
}

// Mat4 returns translation * rotation.
func (p Pose) Mat4() mgl32.Mat4 {
	return mgl32.Translate3D(p.Position.Elem()).Mul4(p.Orientation.Normalize().Mat4())
}

// ViewMatrix is the inverse of the pose transform.
func (p Pose) ViewMatrix() mgl32.Mat4 {
	return p.Mat4().Inv()
}

// Transform applies the pose to a point.
func (p Pose) Transform(v mgl32.Vec3) mgl32.Vec3 {
	return p.Orientation.Rotate(v).Add(p.Position)
}

// Compose returns the pose of child expressed in p's parent space.
func (p Pose) Compose(child Pose) Pose {
	return Pose{
		Orientation: p.Orientation.Mul(child.Orientation).Normalize(),
		Position:    p.Transform(child.Position),
	}
}

// MidPoint averages the positions of both eye poses.
func MidPoint(poses [EyeCount]Pose) mgl32.Vec3 {
	return poses[EyeLeft].Position.Add(poses[EyeRight].Position).Mul(0.5)
}
