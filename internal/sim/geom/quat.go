package geom

import "math"

// Quat is a rotation quaternion (w, x, y, z).
type Quat struct {
	W, X, Y, Z float32
}

var IdentityQuat = Quat{W: 1}

// AngleAxis builds the quaternion rotating by angle (radians) around axis.
// The axis must be unit length.
func AngleAxis(angle float32, axis Vec3) Quat {
	half := float64(angle) / 2
	s := float32(math.Sin(half))
	return Quat{
		W: float32(math.Cos(half)),
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
	}
}

func (q Quat) Mul(o Quat) Quat {
	return Quat{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

// Inv returns the inverse rotation. Valid for unit quaternions only.
func (q Quat) Inv() Quat { return Quat{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z} }

func (q Quat) Normalize() Quat {
	l := sqrt32(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if l == 0 {
		return IdentityQuat
	}
	inv := 1 / l
	return Quat{q.W * inv, q.X * inv, q.Y * inv, q.Z * inv}
}

// RotateVec rotates v by q using the expanded sandwich product.
func (q Quat) RotateVec(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	uv := cross(u, v)
	uuv := cross(u, uv)
	return v.Add(uv.Scale(2 * q.W)).Add(uuv.Scale(2))
}

// Yaw extracts the signed rotation around the up axis, ignoring roll and
// pitch. Used for agent-relative orientation observations.
func (q Quat) Yaw() float32 {
	siny := 2 * (q.W*q.Z + q.X*q.Y)
	cosy := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
	return float32(math.Atan2(float64(siny), float64(cosy)))
}

func cross(a, b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}
