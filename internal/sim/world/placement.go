package world

import (
	"math"

	"hideseek.ai/internal/sim/geom"
	"hideseek.ai/internal/sim/physics"
)

// worldAABB is the placed footprint of a shape at a candidate pose.
func worldAABB(shape ShapeClass, pos geom.Vec3, rot geom.Quat) geom.AABB {
	return shape.localAABB().ApplyTRS(pos, rot, geom.Vec3{X: 1, Y: 1, Z: 1})
}

// overlapsPlaced reports whether the candidate footprint intersects any
// already-placed obstacle. Agents are deliberately excluded: they are placed
// last and never constrain each other.
func (w *World) overlapsPlaced(candidate geom.AABB) bool {
	for i := range w.obstacles {
		o := &w.obstacles[i]
		b := w.body(o.body)
		other := b.LocalAABB.ApplyTRS(b.Pos, b.Rot, b.Scale)
		if candidate.Overlaps(other) {
			return true
		}
	}
	return false
}

// samplePose draws a candidate position inside the arena and a yaw in
// [0, pi), consuming exactly three stream samples.
func (w *World) samplePose() (geom.Vec3, float32) {
	const lo, hi = -ArenaBound, ArenaBound
	diff := float32(hi - lo)
	pos := geom.Vec3{
		X: lo + w.stream.SampleUniform()*diff,
		Y: lo + w.stream.SampleUniform()*diff,
		Z: placementHeight,
	}
	yaw := w.stream.SampleUniform() * math.Pi
	return pos, yaw
}

// placeRejectionSampled finds a non-overlapping pose for shape, giving up
// and accepting the current candidate after maxPlacementAttempts rejections.
// Exhaustion therefore yields a (possibly overlapping) placement rather than
// a failure, keeping scene generation total.
func (w *World) placeRejectionSampled(shape ShapeClass) (geom.Vec3, geom.Quat, float32) {
	rejections := 0
	for {
		pos, yaw := w.samplePose()
		rot := geom.AngleAxis(yaw, geom.Up)

		if !w.overlapsPlaced(worldAABB(shape, pos, rot)) ||
			rejections == maxPlacementAttempts {
			return pos, rot, yaw
		}
		rejections++
	}
}

// spawnObstacle registers a rigid entity and records it in the obstacle
// table so later placements and lock/grab lookups can see it.
func (w *World) spawnObstacle(shape ShapeClass, pos geom.Vec3, rot geom.Quat, owner OwnerTeam) physics.BodyID {
	def := shape.def()
	id := w.phys.RegisterBody(physics.Body{
		Pos:       pos,
		Rot:       rot,
		Scale:     geom.Vec3{X: 1, Y: 1, Z: 1},
		LocalAABB: shape.localAABB(),
		Response:  def.response,
		InvMass:   def.invMass,
	})
	w.obstacles = append(w.obstacles, obstacle{body: id, shape: shape, owner: owner})
	return id
}

// spawnScaledObstacle is spawnObstacle with an explicit scale and response
// override, used by the fixed debug scenes.
func (w *World) spawnScaledObstacle(shape ShapeClass, pos geom.Vec3, rot geom.Quat,
	scale geom.Vec3, response physics.Response, owner OwnerTeam) physics.BodyID {

	def := shape.def()
	invMass := def.invMass
	if response == physics.ResponseStatic {
		invMass = 0
	}
	id := w.phys.RegisterBody(physics.Body{
		Pos:       pos,
		Rot:       rot,
		Scale:     scale,
		LocalAABB: shape.localAABB(),
		Response:  response,
		InvMass:   invMass,
	})
	w.obstacles = append(w.obstacles, obstacle{body: id, shape: shape, owner: owner})
	return id
}

// spawnAgent registers an agent body. Agents are raycastable like any other
// body but are never part of the placement obstacle table.
func (w *World) spawnAgent(pos geom.Vec3, rot geom.Quat) physics.BodyID {
	def := ShapeAgent.def()
	id := w.phys.RegisterBody(physics.Body{
		Pos:       pos,
		Rot:       rot,
		Scale:     geom.Vec3{X: 1, Y: 1, Z: 1},
		LocalAABB: ShapeAgent.localAABB(),
		Response:  physics.ResponseDynamic,
		InvMass:   def.invMass,
	})
	w.agentBodies = append(w.agentBodies, id)
	return id
}
