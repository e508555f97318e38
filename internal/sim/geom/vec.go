package geom

import "math"

// Vec2 is a 2D float32 vector. Observation records are built from these so
// the exported tensors stay float32 end to end.
type Vec2 struct {
	X, Y float32
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

type Vec3 struct {
	X, Y, Z float32
}

// Axis conventions: +Y is forward, +X is right, +Z is up.
var (
	Fwd   = Vec3{0, 1, 0}
	Right = Vec3{1, 0, 0}
	Up    = Vec3{0, 0, 1}
)

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Mul is the component-wise product, used for applying non-uniform scale.
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

func (v Vec3) Dot(o Vec3) float32 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Length() float32 { return sqrt32(v.Dot(v)) }

// Normalize returns the unit vector, or the zero vector unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// XY projects onto the horizontal plane.
func (v Vec3) XY() Vec2 { return Vec2{v.X, v.Y} }

func sqrt32(x float32) float32 { return float32(math.Sqrt(float64(x))) }
