package world

import (
	"hideseek.ai/internal/sim/geom"
	"hideseek.ai/internal/sim/physics"
)

// canAct reports whether the slot may influence the world this tick.
// Seekers are frozen for the whole preparation phase.
func (w *World) canAct(a *AgentState) bool {
	if a.Body == physics.InvalidBody {
		return false
	}
	if a.Type == AgentSeeker && w.stepIdx < NumPrepSteps {
		return false
	}
	return true
}

// applyMovement converts each agent's discrete buckets into a body-frame
// force and a yaw torque for the upcoming physics step.
func (w *World) applyMovement() {
	for i := range w.agents {
		a := &w.agents[i]
		if !w.canAct(a) {
			continue
		}
		b := w.body(a.Body)

		fx := moveDeltaPerBucket * float32(a.Action.X-actionHalfBuckets)
		fy := moveDeltaPerBucket * float32(a.Action.Y-actionHalfBuckets)
		tz := turnDeltaPerBucket * float32(a.Action.R-actionHalfBuckets)

		b.Force = b.Rot.RotateVec(geom.Vec3{X: fx, Y: fy})
		b.Torque = geom.Vec3{Z: tz}
	}
}

// interactRay casts from just above the agent's center along its facing.
func (w *World) interactRay(a *AgentState) (physics.RayHit, bool) {
	pos, rot := w.agentPose(a)
	origin := pos.Add(geom.Up.Scale(0.5))
	dir := rot.RotateVec(geom.Fwd)
	return w.phys.TraceRay(origin, dir, interactRange)
}

// applyInteractions resolves grab and lock flags, then consumes every
// slot's action so a tick without fresh input is a no-op.
func (w *World) applyInteractions() {
	for i := range w.agents {
		a := &w.agents[i]
		if w.canAct(a) {
			if a.Action.L == 1 {
				w.applyLock(a)
			}
			if a.Action.G == 1 {
				w.applyGrab(a)
			}
		}
		a.Action = NeutralAction()
	}
}

// applyLock toggles the lock state of the obstacle the agent is facing.
// Locking claims a free dynamic obstacle for the agent's team; unlocking
// only succeeds on obstacles the agent's own team locked.
func (w *World) applyLock(a *AgentState) {
	hit, ok := w.interactRay(a)
	if !ok {
		return
	}
	o := w.findObstacle(hit.Body)
	if o == nil {
		return
	}
	b := w.body(o.body)

	if b.Response == physics.ResponseStatic {
		if (a.Type == AgentSeeker && o.owner == OwnerSeeker) ||
			(a.Type == AgentHider && o.owner == OwnerHider) {
			b.Response = physics.ResponseDynamic
			b.InvMass = o.shape.def().invMass
			o.owner = OwnerNone
		}
	} else if o.owner == OwnerNone {
		b.Response = physics.ResponseStatic
		b.InvMass = 0
		b.Vel = geom.Vec3{}
		b.AngVel = geom.Vec3{}
		if a.Type == AgentHider {
			o.owner = OwnerHider
		} else {
			o.owner = OwnerSeeker
		}
	}
}

// applyGrab toggles the agent's grab: releasing any held object, otherwise
// welding the first free dynamic obstacle in reach to the agent.
func (w *World) applyGrab(a *AgentState) {
	if a.Grab != physics.InvalidConstraint {
		w.phys.DestroyConstraint(a.Grab)
		a.Grab = physics.InvalidConstraint
		return
	}

	hit, ok := w.interactRay(a)
	if !ok {
		return
	}
	o := w.findObstacle(hit.Body)
	if o == nil || o.owner != OwnerNone {
		return
	}
	target := w.body(o.body)
	if target.Response != physics.ResponseDynamic {
		return
	}

	agent := w.body(a.Body)
	relPos := agent.Rot.Inv().RotateVec(target.Pos.Sub(agent.Pos))
	relRot := agent.Rot.Inv().Mul(target.Rot).Normalize()
	a.Grab = w.phys.MakeFixedConstraint(a.Body, o.body, relPos, relRot)
}
