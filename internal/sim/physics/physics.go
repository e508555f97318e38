// Package physics defines the capability surface the simulation core needs
// from a rigid-body/broadphase collaborator, plus a self-contained reference
// implementation. The core only depends on the Engine interface, so tests
// can substitute a stub without a real physics solver.
package physics

import "hideseek.ai/internal/sim/geom"

// BodyID is a dense handle into an engine's body table.
type BodyID int32

const InvalidBody BodyID = -1

// ConstraintID handles a two-body fixed constraint.
type ConstraintID int32

const InvalidConstraint ConstraintID = -1

// Response classifies how a body reacts to forces.
type Response uint8

const (
	ResponseDynamic Response = iota
	ResponseStatic
)

// Body is the full dynamic state of one registered rigid entity.
type Body struct {
	Pos   geom.Vec3
	Rot   geom.Quat
	Scale geom.Vec3

	// LocalAABB bounds the untransformed collision shape.
	LocalAABB geom.AABB

	Response Response
	InvMass  float32

	Vel    geom.Vec3
	AngVel geom.Vec3

	// Accumulated external force/torque, consumed by Step.
	Force  geom.Vec3
	Torque geom.Vec3
}

// RayHit reports the nearest intersection along a trace.
type RayHit struct {
	Body BodyID
	// T is in units of the (possibly unnormalized) ray direction.
	T      float32
	Normal geom.Vec3
}

// Engine is the opaque physics/broadphase collaborator.
//
// TraceRay returns the nearest hit with parameter in (0, maxT]; bodies the
// origin lies inside are skipped, so an agent tracing from its own center
// never reports itself.
type Engine interface {
	RegisterBody(b Body) BodyID
	RemoveBody(id BodyID)
	RemoveAll()
	Body(id BodyID) *Body

	Step(dt float32, substeps int)

	TraceRay(origin, dir geom.Vec3, maxT float32) (RayHit, bool)

	// MakeFixedConstraint welds child to parent: after every substep the
	// child pose is parent pose composed with (relPos, relRot).
	MakeFixedConstraint(parent, child BodyID, relPos geom.Vec3, relRot geom.Quat) ConstraintID
	DestroyConstraint(id ConstraintID)
}
