package world

import (
	"testing"

	"hideseek.ai/internal/sim/geom"
)

func TestRewardsZeroDuringPrep(t *testing.T) {
	w := manualWorld()
	w.addAgent(geom.Vec3{Z: placementHeight}, faceNorth, AgentHider)
	w.addAgent(geom.Vec3{X: 5, Z: placementHeight}, faceNorth, AgentSeeker)

	w.stepIdx = NumPrepSteps - 1
	w.outputRewardsDones()

	for i := 0; i < 2; i++ {
		if r := w.agents[i].Reward; r != 0 {
			t.Fatalf("agent %d reward = %f during prep, want 0", i, r)
		}
	}
}

func TestRewardsZeroSum(t *testing.T) {
	w := manualWorld()
	w.addAgent(geom.Vec3{Z: placementHeight}, faceNorth, AgentHider)
	w.addAgent(geom.Vec3{X: 5, Z: placementHeight}, faceNorth, AgentSeeker)
	w.stepIdx = NumPrepSteps

	w.outputRewardsDones()
	if h, s := w.agents[0].Reward, w.agents[1].Reward; h != 1 || s != -1 {
		t.Fatalf("unseen rewards = (%f, %f), want (1, -1)", h, s)
	}

	w.hiderTeamReward = -1
	w.outputRewardsDones()
	if h, s := w.agents[0].Reward, w.agents[1].Reward; h != -1 || s != 1 {
		t.Fatalf("seen rewards = (%f, %f), want (-1, 1)", h, s)
	}
}

func TestOutOfBoundsPenalty(t *testing.T) {
	w := manualWorld()
	w.addAgent(geom.Vec3{X: ArenaBound + 0.5, Z: placementHeight}, faceNorth, AgentHider)
	w.stepIdx = NumPrepSteps

	w.outputRewardsDones()
	if r := w.agents[0].Reward; r != -9 {
		t.Fatalf("out-of-bounds hider reward = %f, want -9", r)
	}

	// The boundary itself already counts as out.
	w.body(w.agents[0].Body).Pos = geom.Vec3{X: ArenaBound, Z: placementHeight}
	w.outputRewardsDones()
	if r := w.agents[0].Reward; r != -9 {
		t.Fatalf("boundary hider reward = %f, want -9", r)
	}

	w.body(w.agents[0].Body).Pos = geom.Vec3{X: ArenaBound - 0.1, Z: placementHeight}
	w.outputRewardsDones()
	if r := w.agents[0].Reward; r != 1 {
		t.Fatalf("in-bounds hider reward = %f, want 1", r)
	}
}

func TestDoneRaisesOnFinalTick(t *testing.T) {
	w := manualWorld()
	w.addAgent(geom.Vec3{Z: placementHeight}, faceNorth, AgentHider)

	w.stepIdx = EpisodeLen - 2
	w.outputRewardsDones()
	if w.agents[0].Done != 0 {
		t.Fatalf("done raised before the final tick")
	}

	w.stepIdx = EpisodeLen - 1
	w.outputRewardsDones()
	if w.agents[0].Done != 1 {
		t.Fatalf("done not raised on the final tick")
	}

	w.stepIdx = 0
	w.outputRewardsDones()
	if w.agents[0].Done != 0 {
		t.Fatalf("done not cleared at episode start")
	}
}
