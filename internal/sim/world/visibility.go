package world

import (
	"math"

	"hideseek.ai/internal/sim/geom"
	"hideseek.ai/internal/sim/physics"
)

var coneCosThreshold = float32(math.Cos(float64(radians(visibilityHalfAngleDeg))))

// visibleFrom reports whether target's body is inside the observer's view
// cone with an unobstructed line of sight. The trace uses the unnormalized
// offset so a hit parameter of 1 lands exactly on the target's center.
func (w *World) visibleFrom(pos geom.Vec3, fwd geom.Vec3, target physics.BodyID) float32 {
	toOther := w.body(target).Pos.Sub(pos)
	if toOther.Normalize().Dot(fwd) < coneCosThreshold {
		return 0
	}
	hit, ok := w.phys.TraceRay(pos, toOther, 1)
	if ok && hit.Body == target {
		return 1
	}
	return 0
}

// computeVisibility fills the per-entity visibility masks. A seeker that
// sights any hider flips the shared team reward against the hiders; it
// stays flipped until the next reset.
func (w *World) computeVisibility() {
	for i := range w.agents {
		a := &w.agents[i]
		if a.Body == physics.InvalidBody {
			continue
		}

		pos, rot := w.agentPose(a)
		fwd := rot.RotateVec(geom.Fwd)

		for boxIdx := 0; boxIdx < MaxBoxes; boxIdx++ {
			if boxIdx < w.numBoxes {
				a.BoxVis[boxIdx] = w.visibleFrom(pos, fwd, w.boxes[boxIdx])
			} else {
				a.BoxVis[boxIdx] = 0
			}
		}

		for rampIdx := 0; rampIdx < MaxRamps; rampIdx++ {
			if rampIdx < w.numRamps {
				a.RampVis[rampIdx] = w.visibleFrom(pos, fwd, w.ramps[rampIdx])
			} else {
				a.RampVis[rampIdx] = 0
			}
		}

		k := 0
		for slot := 0; slot < MaxAgents; slot++ {
			if slot >= w.numActive {
				a.AgentVis[k] = 0
				k++
				continue
			}
			if slot == i {
				continue
			}
			other := &w.agents[slot]
			vis := w.visibleFrom(pos, fwd, other.Body)

			if vis == 1 && a.Type == AgentSeeker && other.Type == AgentHider {
				w.hiderTeamReward = -1
			}

			a.AgentVis[k] = vis
			k++
		}
	}
}
