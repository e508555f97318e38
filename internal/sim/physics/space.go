package physics

import "hideseek.ai/internal/sim/geom"

// Space is the reference Engine: brute-force broadphase over transformed
// AABBs, slab-method raycasts, and planar semi-implicit Euler integration.
// It deliberately has no contact resolution; the arena keeps bodies at a
// fixed height and the training dynamics only need force-driven planar
// motion plus yaw.
type Space struct {
	bodies []Body
	alive  []bool
	free   []BodyID

	constraints []constraint
	freeCons    []ConstraintID
}

type constraint struct {
	alive         bool
	parent, child BodyID
	relPos        geom.Vec3
	relRot        geom.Quat
}

// linearDrag damps velocity each substep so force-driven agents reach a
// bounded terminal speed.
const linearDrag = 2.0

// angularDrag damps yaw rate the same way.
const angularDrag = 4.0

func NewSpace() *Space {
	return &Space{}
}

func (s *Space) RegisterBody(b Body) BodyID {
	if b.Rot == (geom.Quat{}) {
		b.Rot = geom.IdentityQuat
	}
	if b.Scale == (geom.Vec3{}) {
		b.Scale = geom.Vec3{X: 1, Y: 1, Z: 1}
	}
	if n := len(s.free); n > 0 {
		id := s.free[n-1]
		s.free = s.free[:n-1]
		s.bodies[id] = b
		s.alive[id] = true
		return id
	}
	s.bodies = append(s.bodies, b)
	s.alive = append(s.alive, true)
	return BodyID(len(s.bodies) - 1)
}

func (s *Space) RemoveBody(id BodyID) {
	if id == InvalidBody || int(id) >= len(s.bodies) || !s.alive[id] {
		return
	}
	s.alive[id] = false
	s.free = append(s.free, id)
}

func (s *Space) RemoveAll() {
	s.bodies = s.bodies[:0]
	s.alive = s.alive[:0]
	s.free = s.free[:0]
	s.constraints = s.constraints[:0]
	s.freeCons = s.freeCons[:0]
}

func (s *Space) Body(id BodyID) *Body {
	if id == InvalidBody || int(id) >= len(s.bodies) || !s.alive[id] {
		return nil
	}
	return &s.bodies[id]
}

func (s *Space) Step(dt float32, substeps int) {
	if substeps < 1 {
		substeps = 1
	}
	h := dt / float32(substeps)
	for i := 0; i < substeps; i++ {
		s.integrate(h)
		s.applyConstraints()
	}
	// Forces are per-tick inputs; clear once consumed.
	for i := range s.bodies {
		if !s.alive[i] {
			continue
		}
		s.bodies[i].Force = geom.Vec3{}
		s.bodies[i].Torque = geom.Vec3{}
	}
}

func (s *Space) integrate(h float32) {
	for i := range s.bodies {
		if !s.alive[i] {
			continue
		}
		b := &s.bodies[i]
		if b.Response == ResponseStatic || b.InvMass == 0 {
			continue
		}

		b.Vel = b.Vel.Add(b.Force.Scale(b.InvMass * h))
		b.Vel = b.Vel.Scale(dragFactor(linearDrag, h))
		// Planar motion: the arena holds bodies at their spawn height.
		b.Vel.Z = 0
		b.Pos = b.Pos.Add(b.Vel.Scale(h))

		b.AngVel.Z += b.Torque.Z * b.InvMass * h
		b.AngVel = b.AngVel.Scale(dragFactor(angularDrag, h))
		if b.AngVel.Z != 0 {
			b.Rot = geom.AngleAxis(b.AngVel.Z*h, geom.Up).Mul(b.Rot).Normalize()
		}
	}
}

func dragFactor(drag, h float32) float32 {
	f := 1 - drag*h
	if f < 0 {
		return 0
	}
	return f
}

func (s *Space) applyConstraints() {
	for i := range s.constraints {
		c := &s.constraints[i]
		if !c.alive {
			continue
		}
		parent := s.Body(c.parent)
		child := s.Body(c.child)
		if parent == nil || child == nil {
			continue
		}
		child.Rot = parent.Rot.Mul(c.relRot).Normalize()
		child.Pos = parent.Pos.Add(parent.Rot.RotateVec(c.relPos))
		child.Vel = parent.Vel
	}
}

func (s *Space) MakeFixedConstraint(parent, child BodyID, relPos geom.Vec3, relRot geom.Quat) ConstraintID {
	c := constraint{alive: true, parent: parent, child: child, relPos: relPos, relRot: relRot}
	if n := len(s.freeCons); n > 0 {
		id := s.freeCons[n-1]
		s.freeCons = s.freeCons[:n-1]
		s.constraints[id] = c
		return id
	}
	s.constraints = append(s.constraints, c)
	return ConstraintID(len(s.constraints) - 1)
}

func (s *Space) DestroyConstraint(id ConstraintID) {
	if id == InvalidConstraint || int(id) >= len(s.constraints) || !s.constraints[id].alive {
		return
	}
	s.constraints[id].alive = false
	s.freeCons = append(s.freeCons, id)
}
