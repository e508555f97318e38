package physics

import "hideseek.ai/internal/sim/geom"

// TraceRay finds the nearest body whose oriented box the ray enters with
// parameter in (epsilon, maxT]. The ray direction need not be normalized;
// the returned T is in units of dir, so callers can cap maxT at 1 to mean
// "up to the target point".
func (s *Space) TraceRay(origin, dir geom.Vec3, maxT float32) (RayHit, bool) {
	const epsilon = 1e-4

	best := RayHit{Body: InvalidBody, T: maxT}
	found := false

	for i := range s.bodies {
		if !s.alive[i] {
			continue
		}
		b := &s.bodies[i]

		// Transform the ray into the body's local (unscaled) frame.
		invRot := b.Rot.Inv()
		lo := invRot.RotateVec(origin.Sub(b.Pos))
		ld := invRot.RotateVec(dir)

		box := geom.AABB{
			Min: b.LocalAABB.Min.Mul(b.Scale),
			Max: b.LocalAABB.Max.Mul(b.Scale),
		}

		tEnter, tExit, ok := slabTest(lo, ld, box)
		if !ok || tExit <= epsilon {
			continue
		}
		// Origin inside the body: skip it entirely (self-trace guard).
		if tEnter <= epsilon {
			continue
		}
		if tEnter > best.T {
			continue
		}
		best = RayHit{
			Body:   BodyID(i),
			T:      tEnter,
			Normal: b.Rot.RotateVec(slabNormal(lo, ld, box, tEnter)),
		}
		found = true
	}

	if !found {
		return RayHit{Body: InvalidBody}, false
	}
	return best, true
}

// slabTest intersects a local-space ray with an AABB, returning the entry
// and exit parameters.
func slabTest(o, d geom.Vec3, box geom.AABB) (float32, float32, bool) {
	tEnter := float32(-3.4e38)
	tExit := float32(3.4e38)

	axes := [3][3]float32{
		{o.X, d.X, 0}, {o.Y, d.Y, 0}, {o.Z, d.Z, 0},
	}
	mins := [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	maxs := [3]float32{box.Max.X, box.Max.Y, box.Max.Z}

	for i := 0; i < 3; i++ {
		ao, ad := axes[i][0], axes[i][1]
		if ad == 0 {
			if ao < mins[i] || ao > maxs[i] {
				return 0, 0, false
			}
			continue
		}
		t0 := (mins[i] - ao) / ad
		t1 := (maxs[i] - ao) / ad
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tEnter {
			tEnter = t0
		}
		if t1 < tExit {
			tExit = t1
		}
		if tEnter > tExit {
			return 0, 0, false
		}
	}
	return tEnter, tExit, true
}

// slabNormal recovers the local-space face normal at entry parameter t.
func slabNormal(o, d geom.Vec3, box geom.AABB, t float32) geom.Vec3 {
	p := o.Add(d.Scale(t))
	const tol = 1e-3
	switch {
	case near(p.X, box.Min.X, tol):
		return geom.Vec3{X: -1}
	case near(p.X, box.Max.X, tol):
		return geom.Vec3{X: 1}
	case near(p.Y, box.Min.Y, tol):
		return geom.Vec3{Y: -1}
	case near(p.Y, box.Max.Y, tol):
		return geom.Vec3{Y: 1}
	case near(p.Z, box.Min.Z, tol):
		return geom.Vec3{Z: -1}
	default:
		return geom.Vec3{Z: 1}
	}
}

func near(a, b, tol float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}
