package world

import (
	"math"

	"hideseek.ai/internal/sim/geom"
	"hideseek.ai/internal/sim/physics"
)

// Training environment composition:
//  1-3 hiders, 1-3 seekers
//  3-9 movable boxes, at least 3 elongated
//  2 movable ramps

// generateEnvironment builds the scene for one episode. level 1 is the
// randomized training arena; other levels are fixed diagnostic scenes.
// Afterwards every slot past numActive carries zeroed outputs.
func (w *World) generateEnvironment(level int32, numHiders, numSeekers int32) {
	w.level = level
	if level == 1 {
		w.generateTrainingEnvironment(numHiders, numSeekers)
	} else {
		w.generateDebugEnvironment(level)
	}
	w.generated = true

	for i := w.numActive; i < MaxAgents; i++ {
		w.agents[i].clearOutputs()
	}

	if w.cfg.Events != nil {
		w.cfg.Events.EpisodeStarted(EpisodeStart{
			World:   w.cfg.WorldIdx,
			Episode: w.episode - 1,
			Level:   level,
			SeedA:   w.episodeKey.A,
			SeedB:   w.episodeKey.B,
			Hiders:  w.numHiders,
			Seekers: w.numSeekers,
			Boxes:   w.numBoxes,
			Ramps:   w.numRamps,
			Digest:  w.SceneDigest(),
		})
	}
}

// addAgent takes the next interface slot, spawns the body, and primes the
// slot's exported fields.
func (w *World) addAgent(pos geom.Vec3, rot geom.Quat, agentType AgentType) {
	slot := &w.agents[w.numActive]
	w.numActive++

	slot.Body = w.spawnAgent(pos, rot)
	slot.Type = agentType
	slot.ActiveMask = 1
	slot.Action = NeutralAction()
	slot.Seed = w.episodeKey
	slot.Grab = physics.InvalidConstraint

	if agentType == AgentHider {
		w.numHiders++
	} else {
		w.numSeekers++
	}
}

// placeAgentSampled runs the rejection loop for one agent against the
// obstacle table. Earlier agents never reject later ones.
func (w *World) placeAgentSampled(agentType AgentType) {
	pos, rot, _ := w.placeRejectionSampled(ShapeAgent)
	w.addAgent(pos, rot, agentType)
}

// borderWalls closes the arena off just outside the out-of-bounds line so
// dynamic objects cannot leave the playable square.
func (w *World) borderWalls() {
	const off = ArenaBound + 0.5
	length := geom.Vec3{X: ArenaBound + 1, Y: 0.5, Z: 1}
	ident := geom.IdentityQuat
	quarter := geom.AngleAxis(math.Pi/2, geom.Up)

	w.spawnScaledObstacle(ShapeWall, geom.Vec3{Y: off, Z: placementHeight}, ident,
		length, physics.ResponseStatic, OwnerUnownable)
	w.spawnScaledObstacle(ShapeWall, geom.Vec3{Y: -off, Z: placementHeight}, ident,
		length, physics.ResponseStatic, OwnerUnownable)
	w.spawnScaledObstacle(ShapeWall, geom.Vec3{X: off, Z: placementHeight}, quarter,
		length, physics.ResponseStatic, OwnerUnownable)
	w.spawnScaledObstacle(ShapeWall, geom.Vec3{X: -off, Z: placementHeight}, quarter,
		length, physics.ResponseStatic, OwnerUnownable)
}

func (w *World) groundPlane() {
	w.spawnObstacle(ShapePlane, geom.Vec3{}, geom.IdentityQuat, OwnerUnownable)
}

// generateTrainingEnvironment places, in order: elongated boxes, cubes,
// ramps, hiders, seekers. The category order matters: each placement only
// rejects against what came before it.
func (w *World) generateTrainingEnvironment(numHiders, numSeekers int32) {
	totalBoxes := int(w.stream.SampleI32(3, 10))
	numElongated := int(w.stream.SampleI32(3, int32(totalBoxes)))
	numCubes := totalBoxes - numElongated

	w.borderWalls()

	for i := 0; i < numElongated; i++ {
		pos, rot, yaw := w.placeRejectionSampled(ShapeElongatedBox)
		w.boxes[i] = w.spawnObstacle(ShapeElongatedBox, pos, rot, OwnerNone)
		w.boxShapes[i] = ShapeElongatedBox
		w.boxRotations[i] = yaw
	}

	for i := 0; i < numCubes; i++ {
		pos, rot, yaw := w.placeRejectionSampled(ShapeCube)
		idx := numElongated + i
		w.boxes[idx] = w.spawnObstacle(ShapeCube, pos, rot, OwnerNone)
		w.boxShapes[idx] = ShapeCube
		w.boxRotations[idx] = yaw
	}
	w.numBoxes = totalBoxes

	for i := 0; i < MaxRamps; i++ {
		pos, rot, yaw := w.placeRejectionSampled(ShapeRamp)
		w.ramps[i] = w.spawnObstacle(ShapeRamp, pos, rot, OwnerNone)
		w.rampRot[i] = yaw
	}
	w.numRamps = MaxRamps

	for i := int32(0); i < numHiders; i++ {
		w.placeAgentSampled(AgentHider)
	}
	for i := int32(0); i < numSeekers; i++ {
		w.placeAgentSampled(AgentSeeker)
	}

	w.groundPlane()
}

func (w *World) generateDebugEnvironment(level int32) {
	switch level {
	case 2:
		rot := geom.AngleAxis(float32(math.Atan(1/math.Sqrt2)), geom.Vec3{Y: 1}).
			Mul(geom.AngleAxis(radians(45), geom.Vec3{X: 1})).Normalize()
		w.singleCubeLevel(geom.Vec3{Z: 5}, rot)
	case 3:
		w.singleCubeLevel(geom.Vec3{Z: 5}, geom.IdentityQuat)
	case 4:
		rot := geom.AngleAxis(radians(45), geom.Vec3{Y: 1}).Normalize()
		idx := 0
		w.boxes[idx] = w.spawnObstacle(ShapeElongatedBox, geom.Vec3{Z: 10}, rot, OwnerNone)
		w.boxShapes[idx] = ShapeElongatedBox
		w.numBoxes = 1
		w.groundPlane()
	case 5:
		w.groundPlane()
		w.addAgent(geom.Vec3{Z: 1}, geom.IdentityQuat, AgentHider)
	case 6:
		w.groundPlane()
		w.spawnScaledObstacle(ShapeWall, geom.Vec3{}, geom.IdentityQuat,
			geom.Vec3{X: 10, Y: 0.2, Z: 1}, physics.ResponseStatic, OwnerUnownable)
		w.boxes[0] = w.spawnObstacle(ShapeCube, geom.Vec3{Y: -5, Z: 1}, geom.IdentityQuat, OwnerNone)
		w.boxShapes[0] = ShapeCube
		w.numBoxes = 1
		w.addAgent(geom.Vec3{X: -15, Y: -15, Z: 1.5},
			geom.AngleAxis(radians(-45), geom.Up), AgentHider)
		w.addAgent(geom.Vec3{X: -15, Y: -10, Z: 1.5},
			geom.AngleAxis(radians(45), geom.Up), AgentSeeker)
	case 7:
		rot := geom.AngleAxis(radians(45), geom.Vec3{Y: 1}).
			Mul(geom.AngleAxis(radians(40), geom.Vec3{X: 1})).Normalize()
		w.boxes[0] = w.spawnObstacle(ShapeCube, geom.Vec3{Z: 5}, rot, OwnerNone)
		w.boxShapes[0] = ShapeCube
		w.boxes[1] = w.spawnObstacle(ShapeCube, geom.Vec3{Z: 10}, rot, OwnerNone)
		w.boxShapes[1] = ShapeCube
		w.numBoxes = 2
		w.groundPlane()
	case 8:
		rampRot := geom.AngleAxis(radians(25), geom.Vec3{Y: 1}).
			Mul(geom.AngleAxis(radians(90), geom.Up)).
			Mul(geom.AngleAxis(radians(45), geom.Vec3{X: 1})).Normalize()
		w.ramps[0] = w.spawnObstacle(ShapeRamp, geom.Vec3{Z: 10}, rampRot, OwnerNone)
		w.body(w.ramps[0]).Vel = geom.Vec3{Z: -30}

		staticRot := geom.AngleAxis(radians(-90), geom.Vec3{X: 1}).
			Mul(geom.AngleAxis(math.Pi, geom.Vec3{Y: 1})).Normalize()
		w.ramps[1] = w.spawnScaledObstacle(ShapeRamp,
			geom.Vec3{X: -0.5, Y: -0.5, Z: 1}, staticRot,
			geom.Vec3{X: 1, Y: 1, Z: 1}, physics.ResponseStatic, OwnerNone)
		w.numRamps = 2
		w.groundPlane()
	}
}

func (w *World) singleCubeLevel(pos geom.Vec3, rot geom.Quat) {
	w.boxes[0] = w.spawnObstacle(ShapeCube, pos, rot, OwnerNone)
	w.boxShapes[0] = ShapeCube
	w.numBoxes = 1
	w.groundPlane()
}

func radians(deg float32) float32 {
	return deg * math.Pi / 180
}
