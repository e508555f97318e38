package world

import (
	"math"
	"testing"

	"hideseek.ai/internal/sim/geom"
)

func approxF(t *testing.T, got, want, tol float32, what string) {
	t.Helper()
	if d := got - want; d > tol || d < -tol {
		t.Fatalf("%s = %f, want %f", what, got, want)
	}
}

// manualWorld returns a generated-but-empty world the tests can populate
// by hand through the placement helpers.
func manualWorld() *World {
	w := emptyWorld(1)
	w.generated = true
	return w
}

func TestObservationsRelativeFrame(t *testing.T) {
	w := manualWorld()
	w.addAgent(geom.Vec3{Z: placementHeight}, geom.IdentityQuat, AgentHider)
	w.boxes[0] = w.spawnObstacle(ShapeCube, geom.Vec3{X: 3, Y: 4, Z: placementHeight},
		geom.IdentityQuat, OwnerNone)
	w.boxShapes[0] = ShapeCube
	w.numBoxes = 1

	w.collectObservations()

	obs := w.agents[0].BoxObs[0]
	approxF(t, obs.Pos.X, 3, 1e-5, "identity-frame box x")
	approxF(t, obs.Pos.Y, 4, 1e-5, "identity-frame box y")
	approxF(t, obs.Size.X, 2, 1e-5, "cube size x")
	approxF(t, obs.Size.Y, 2, 1e-5, "cube size y")
	approxF(t, obs.Rot, 0, 1e-5, "identity relative rotation")

	// Turn the observer 90 degrees counterclockwise: world (3, 4) lands at
	// body-frame (4, -3) and the box appears rotated -90 relative to it.
	w.body(w.agents[0].Body).Rot = geom.AngleAxis(radians(90), geom.Up)
	w.collectObservations()

	obs = w.agents[0].BoxObs[0]
	approxF(t, obs.Pos.X, 4, 1e-5, "rotated-frame box x")
	approxF(t, obs.Pos.Y, -3, 1e-5, "rotated-frame box y")
	approxF(t, obs.Rot, float32(math.Pi/2), 1e-5, "rotated relative rotation")
}

func TestObservationsRelativeVelocity(t *testing.T) {
	w := manualWorld()
	w.addAgent(geom.Vec3{Z: placementHeight}, geom.AngleAxis(radians(90), geom.Up), AgentHider)
	w.addAgent(geom.Vec3{X: 2, Z: placementHeight}, geom.IdentityQuat, AgentSeeker)
	w.body(w.agents[1].Body).Vel = geom.Vec3{X: 1}

	w.collectObservations()

	obs := w.agents[0].AgentObs[0]
	approxF(t, obs.Pos.X, 0, 1e-5, "other agent x")
	approxF(t, obs.Pos.Y, -2, 1e-5, "other agent y")
	approxF(t, obs.Vel.X, 0, 1e-5, "other agent vx")
	approxF(t, obs.Vel.Y, -1, 1e-5, "other agent vy")
}

func TestObservationsPadding(t *testing.T) {
	w := manualWorld()
	w.addAgent(geom.Vec3{Z: placementHeight}, geom.IdentityQuat, AgentHider)
	w.addAgent(geom.Vec3{X: 5, Z: placementHeight}, geom.IdentityQuat, AgentSeeker)

	w.collectObservations()

	a := &w.agents[0]
	if a.AgentObs[0].Pos.X != 5 {
		t.Fatalf("first entry should be the other agent, got x=%f", a.AgentObs[0].Pos.X)
	}
	for k := 1; k < MaxAgents-1; k++ {
		if a.AgentObs[k] != (AgentObservation{}) {
			t.Fatalf("padding entry %d not zero: %+v", k, a.AgentObs[k])
		}
	}
	for i := 0; i < MaxBoxes; i++ {
		if a.BoxObs[i] != (BoxObservation{}) {
			t.Fatalf("box padding entry %d not zero", i)
		}
	}
}

func TestPrepCounterCountdown(t *testing.T) {
	w := manualWorld()
	w.addAgent(geom.Vec3{Z: placementHeight}, geom.IdentityQuat, AgentHider)

	w.stepIdx = 0
	w.collectObservations()
	if got := w.agents[0].PrepCounter; got != NumPrepSteps {
		t.Fatalf("prep counter at step 0 = %d, want %d", got, NumPrepSteps)
	}

	w.stepIdx = 90
	w.collectObservations()
	if got := w.agents[0].PrepCounter; got != 6 {
		t.Fatalf("prep counter at step 90 = %d, want 6", got)
	}

	w.stepIdx = NumPrepSteps
	w.collectObservations()
	if got := w.agents[0].PrepCounter; got != 0 {
		t.Fatalf("prep counter at prep end = %d, want 0", got)
	}

	w.stepIdx = NumPrepSteps + 50
	w.collectObservations()
	if got := w.agents[0].PrepCounter; got != 0 {
		t.Fatalf("prep counter after prep = %d, want 0", got)
	}
}
