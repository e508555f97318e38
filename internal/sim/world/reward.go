package world

import "hideseek.ai/internal/sim/physics"

// outputRewardsDones writes the per-agent reward and done flags.
//
// Rewards are zero-sum between teams: hiders receive the shared team reward
// (+1 while unseen, -1 once any seeker has sighted a hider this episode) and
// seekers its negation. Straying out of the arena costs a flat penalty on
// top. The preparation phase pays no reward at all, and every agent's done
// flag raises on the episode's final tick.
func (w *World) outputRewardsDones() {
	for i := range w.agents {
		a := &w.agents[i]
		if a.Body == physics.InvalidBody {
			continue
		}

		if w.stepIdx == 0 {
			a.Done = 0
		}

		if w.stepIdx < NumPrepSteps {
			a.Reward = 0
			continue
		}
		if w.stepIdx == EpisodeLen-1 {
			a.Done = 1
		}

		reward := w.hiderTeamReward
		if a.Type == AgentSeeker {
			reward = -reward
		}

		pos := w.body(a.Body).Pos
		if abs32(pos.X) >= ArenaBound || abs32(pos.Y) >= ArenaBound {
			reward -= 10
		}

		a.Reward = reward
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
