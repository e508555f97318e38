package world

// Step advances the world by one tick.
//
// The reset decision comes first: a pending request (or the automatic
// rollover after the final episode tick) tears the scene down and
// regenerates it, and that tick runs no actions or physics. Either way the
// tick then rebuilds every derived output in a fixed order — observations,
// visibility, lidar, rewards and dones, debug positions — so a sighting is
// reflected in the same tick's rewards.
func (w *World) Step() {
	level := w.pendingReset
	if w.cfg.AutoReset && w.generated && w.stepIdx == EpisodeLen-1 {
		level = 1
	}

	if level != 0 {
		w.pendingReset = 0
		w.resetEnvironment()

		numHiders := w.stream.SampleI32(w.cfg.MinHiders, w.cfg.MaxHiders+1)
		numSeekers := w.stream.SampleI32(w.cfg.MinSeekers, w.cfg.MaxSeekers+1)
		w.generateEnvironment(level, numHiders, numSeekers)
	} else {
		w.stepIdx++
		w.applyMovement()
		w.applyInteractions()
		w.phys.Step(DeltaT, NumPhysicsSubsteps)
	}

	w.collectObservations()
	w.computeVisibility()
	w.computeLidar()
	w.outputRewardsDones()
	w.updateDebugPositions()
}
