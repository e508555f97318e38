package world

import (
	"math"

	"hideseek.ai/internal/sim/geom"
	"hideseek.ai/internal/sim/physics"
)

// computeLidar traces an evenly spaced horizontal fan of rays around each
// active agent. Sample 0 points along the agent's facing (the angular
// sweep starts at +90 degrees from the agent's right axis) and proceeds
// counterclockwise. Misses record depth 0, not the range cap.
func (w *World) computeLidar() {
	for i := range w.agents {
		a := &w.agents[i]
		if a.Body == physics.InvalidBody {
			continue
		}

		pos, rot := w.agentPose(a)
		fwd := rot.RotateVec(geom.Fwd)
		right := rot.RotateVec(geom.Right)

		for s := 0; s < NumLidarSamples; s++ {
			theta := 2*math.Pi*(float64(s)/NumLidarSamples) + math.Pi/2
			x := float32(math.Cos(theta))
			y := float32(math.Sin(theta))

			dir := right.Scale(x).Add(fwd.Scale(y)).Normalize()
			hit, ok := w.phys.TraceRay(pos, dir, lidarRange)
			if ok {
				a.Lidar[s] = hit.T
			} else {
				a.Lidar[s] = 0
			}
		}
	}
}
