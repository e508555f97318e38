package world

import (
	"hideseek.ai/internal/sim/geom"
	"hideseek.ai/internal/sim/physics"
)

// relativeYaw is the target's heading expressed in the observer's frame.
func relativeYaw(observer, target geom.Quat) float32 {
	return observer.Mul(target.Inv()).Yaw()
}

// collectObservations fills every active slot's egocentric views: XY
// position and velocity of each entity rotated into the observer's frame,
// zero-padded out to the fixed capacities. Inactive observers keep their
// zeroed outputs from reset.
func (w *World) collectObservations() {
	for i := range w.agents {
		a := &w.agents[i]
		if a.Body == physics.InvalidBody {
			continue
		}

		if w.stepIdx <= NumPrepSteps {
			a.PrepCounter = NumPrepSteps - w.stepIdx
		}

		pos, rot := w.agentPose(a)
		inv := rot.Inv()

		for boxIdx := 0; boxIdx < MaxBoxes; boxIdx++ {
			obs := &a.BoxObs[boxIdx]
			if boxIdx >= w.numBoxes {
				*obs = BoxObservation{}
				continue
			}
			box := w.body(w.boxes[boxIdx])
			obs.Pos = inv.RotateVec(box.Pos.Sub(pos)).XY()
			obs.Vel = inv.RotateVec(box.Vel).XY()
			obs.Size = w.boxShapes[boxIdx].obsSize()
			obs.Rot = relativeYaw(rot, box.Rot)
		}

		for rampIdx := 0; rampIdx < MaxRamps; rampIdx++ {
			obs := &a.RampObs[rampIdx]
			if rampIdx >= w.numRamps {
				*obs = RampObservation{}
				continue
			}
			ramp := w.body(w.ramps[rampIdx])
			obs.Pos = inv.RotateVec(ramp.Pos.Sub(pos)).XY()
			obs.Vel = inv.RotateVec(ramp.Vel).XY()
			obs.Rot = relativeYaw(rot, ramp.Rot)
		}

		// Every slot is visited so the self entry is dropped and the
		// inactive tail packs into exactly MaxAgents-1 entries.
		k := 0
		for slot := 0; slot < MaxAgents; slot++ {
			if slot >= w.numActive {
				a.AgentObs[k] = AgentObservation{}
				k++
				continue
			}
			if slot == i {
				continue
			}
			other := w.body(w.agents[slot].Body)
			obs := &a.AgentObs[k]
			k++
			obs.Pos = inv.RotateVec(other.Pos.Sub(pos)).XY()
			obs.Vel = inv.RotateVec(other.Vel).XY()
		}
	}
}

// updateDebugPositions snapshots the global XY layout for the debug export.
func (w *World) updateDebugPositions() {
	for i := 0; i < MaxBoxes; i++ {
		if i >= w.numBoxes {
			w.debug.Boxes[i] = geom.Vec2{}
			continue
		}
		w.debug.Boxes[i] = w.body(w.boxes[i]).Pos.XY()
	}
	for i := 0; i < MaxRamps; i++ {
		if i >= w.numRamps {
			w.debug.Ramps[i] = geom.Vec2{}
			continue
		}
		w.debug.Ramps[i] = w.body(w.ramps[i]).Pos.XY()
	}
	out := 0
	for i := 0; i < w.numActive; i++ {
		w.debug.Agents[out] = w.body(w.agents[i].Body).Pos.XY()
		out++
	}
	for ; out < MaxAgents; out++ {
		w.debug.Agents[out] = geom.Vec2{}
	}
}
