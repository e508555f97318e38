package geom

// AABB is an axis-aligned bounding box in world or shape-local space.
type AABB struct {
	Min, Max Vec3
}

func (a AABB) Overlaps(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// ApplyTRS transforms a shape-local AABB by translate/rotate/scale and
// returns the axis-aligned bounds of the result. The eight corners are
// transformed individually; the output box is the tight fit around them.
func (a AABB) ApplyTRS(pos Vec3, rot Quat, scale Vec3) AABB {
	corners := [8]Vec3{
		{a.Min.X, a.Min.Y, a.Min.Z},
		{a.Max.X, a.Min.Y, a.Min.Z},
		{a.Min.X, a.Max.Y, a.Min.Z},
		{a.Max.X, a.Max.Y, a.Min.Z},
		{a.Min.X, a.Min.Y, a.Max.Z},
		{a.Max.X, a.Min.Y, a.Max.Z},
		{a.Min.X, a.Max.Y, a.Max.Z},
		{a.Max.X, a.Max.Y, a.Max.Z},
	}

	out := AABB{
		Min: rot.RotateVec(corners[0].Mul(scale)).Add(pos),
	}
	out.Max = out.Min
	for _, c := range corners[1:] {
		p := rot.RotateVec(c.Mul(scale)).Add(pos)
		out.Min = Vec3{min32(out.Min.X, p.X), min32(out.Min.Y, p.Y), min32(out.Min.Z, p.Z)}
		out.Max = Vec3{max32(out.Max.X, p.X), max32(out.Max.Y, p.Y), max32(out.Max.Z, p.Z)}
	}
	return out
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
