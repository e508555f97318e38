package world

import (
	"testing"

	"hideseek.ai/internal/sim/geom"
	"hideseek.ai/internal/sim/physics"
)

// faceNorth is the identity pose: forward is +Y.
var faceNorth = geom.IdentityQuat

func TestVisibilityLineOfSight(t *testing.T) {
	w := manualWorld()
	w.addAgent(geom.Vec3{Z: placementHeight}, faceNorth, AgentSeeker)
	w.addAgent(geom.Vec3{Y: 10, Z: placementHeight}, faceNorth, AgentHider)

	w.computeVisibility()

	if w.agents[0].AgentVis[0] != 1 {
		t.Fatalf("seeker cannot see hider dead ahead")
	}
	if w.hiderTeamReward != -1 {
		t.Fatalf("team reward = %f after sighting, want -1", w.hiderTeamReward)
	}
}

func TestVisibilityOcclusion(t *testing.T) {
	w := manualWorld()
	w.addAgent(geom.Vec3{Z: placementHeight}, faceNorth, AgentSeeker)
	w.addAgent(geom.Vec3{Y: 10, Z: placementHeight}, faceNorth, AgentHider)

	w.spawnScaledObstacle(ShapeWall, geom.Vec3{Y: 5, Z: placementHeight},
		geom.IdentityQuat, geom.Vec3{X: 5, Y: 0.2, Z: 2},
		physics.ResponseStatic, OwnerUnownable)

	w.computeVisibility()

	if w.agents[0].AgentVis[0] != 0 {
		t.Fatalf("seeker sees hider through a wall")
	}
	if w.hiderTeamReward != 1 {
		t.Fatalf("team reward = %f with occluded hider, want 1", w.hiderTeamReward)
	}
}

func TestVisibilityConeCulls(t *testing.T) {
	w := manualWorld()
	// Hider directly behind the seeker: outside the view cone even with a
	// clear line of sight.
	w.addAgent(geom.Vec3{Z: placementHeight}, faceNorth, AgentSeeker)
	w.addAgent(geom.Vec3{Y: -10, Z: placementHeight}, faceNorth, AgentHider)

	w.computeVisibility()

	if w.agents[0].AgentVis[0] != 0 {
		t.Fatalf("seeker sees hider outside its view cone")
	}
	if w.hiderTeamReward != 1 {
		t.Fatalf("team reward = %f with unseen hider, want 1", w.hiderTeamReward)
	}
}

func TestVisibilityHiderSightingDoesNotFlip(t *testing.T) {
	w := manualWorld()
	// Reversed roles: the hider seeing the seeker must not touch the
	// team reward.
	w.addAgent(geom.Vec3{Z: placementHeight}, faceNorth, AgentHider)
	w.addAgent(geom.Vec3{Y: 10, Z: placementHeight}, faceNorth, AgentSeeker)

	w.computeVisibility()

	if w.agents[0].AgentVis[0] != 1 {
		t.Fatalf("hider cannot see seeker dead ahead")
	}
	if w.hiderTeamReward != 1 {
		t.Fatalf("team reward = %f after hider-only sighting, want 1", w.hiderTeamReward)
	}
}

func TestTeamRewardFlipIsPermanent(t *testing.T) {
	w := manualWorld()
	w.addAgent(geom.Vec3{Z: placementHeight}, faceNorth, AgentSeeker)
	w.addAgent(geom.Vec3{Y: 10, Z: placementHeight}, faceNorth, AgentHider)

	w.computeVisibility()
	if w.hiderTeamReward != -1 {
		t.Fatalf("team reward not flipped on sighting")
	}

	// Hider escapes behind the seeker; the flip must survive.
	w.body(w.agents[1].Body).Pos = geom.Vec3{Y: -10, Z: placementHeight}
	w.computeVisibility()

	if w.agents[0].AgentVis[0] != 0 {
		t.Fatalf("escaped hider still visible")
	}
	if w.hiderTeamReward != -1 {
		t.Fatalf("team reward reverted to %f after escape, want -1", w.hiderTeamReward)
	}
}

func TestVisibilityBoxMasks(t *testing.T) {
	w := manualWorld()
	w.addAgent(geom.Vec3{Z: placementHeight}, faceNorth, AgentHider)
	w.boxes[0] = w.spawnObstacle(ShapeCube, geom.Vec3{Y: 5, Z: placementHeight},
		geom.IdentityQuat, OwnerNone)
	w.boxShapes[0] = ShapeCube
	w.boxes[1] = w.spawnObstacle(ShapeCube, geom.Vec3{Y: -5, Z: placementHeight},
		geom.IdentityQuat, OwnerNone)
	w.boxShapes[1] = ShapeCube
	w.numBoxes = 2

	w.computeVisibility()

	a := &w.agents[0]
	if a.BoxVis[0] != 1 {
		t.Fatalf("box ahead not visible")
	}
	if a.BoxVis[1] != 0 {
		t.Fatalf("box behind reported visible")
	}
	for i := 2; i < MaxBoxes; i++ {
		if a.BoxVis[i] != 0 {
			t.Fatalf("inactive box slot %d reported visible", i)
		}
	}
}
